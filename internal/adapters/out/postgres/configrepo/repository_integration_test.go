package configrepo_test

import (
	"context"
	"testing"
	"time"

	"labflow/internal/adapters/out/postgres/configrepo"
	"labflow/internal/core/domain/model/facility"
	"labflow/internal/core/domain/model/kernel"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	postgresdriver "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// FacilityConfigsIntegrationTestSuite provides integration tests for the
// facility configuration store using PostgreSQL containers.
type FacilityConfigsIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *configrepo.GormFacilityConfigs
}

func (suite *FacilityConfigsIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(postgresdriver.Open(connStr), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(db.AutoMigrate(&configrepo.FacilityConfigDTO{}))
}

func (suite *FacilityConfigsIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(suite.db.Exec("TRUNCATE TABLE facility_configs").Error)
	suite.repo = configrepo.NewGormFacilityConfigs(suite.db)
}

func (suite *FacilityConfigsIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *FacilityConfigsIntegrationTestSuite) TestGetConfig_MissingFacility_ReturnsDefaults() {
	ctx := context.Background()

	cfg, err := suite.repo.GetConfig(ctx, kernel.NewUUID())

	suite.Require().NoError(err)
	suite.Equal(facility.DefaultConfig(), cfg)
}

func (suite *FacilityConfigsIntegrationTestSuite) TestSaveAndGetConfig_RoundTrip() {
	ctx := context.Background()
	facilityID := kernel.NewUUID()

	cfg := facility.DefaultConfig()
	cfg.AllowPartialDelivery = false
	cfg.VerifyBiometricOnDelivery = true
	cfg.CollectionAlertMinutes = 45

	suite.Require().NoError(suite.repo.Save(ctx, facilityID, cfg))

	retrieved, err := suite.repo.GetConfig(ctx, facilityID)
	suite.Require().NoError(err)
	suite.Equal(cfg, retrieved)
}

func (suite *FacilityConfigsIntegrationTestSuite) TestSave_ExistingFacility_Updates() {
	ctx := context.Background()
	facilityID := kernel.NewUUID()

	cfg := facility.DefaultConfig()
	suite.Require().NoError(suite.repo.Save(ctx, facilityID, cfg))

	cfg.ValidateExamAge = false
	cfg.ExamValidityDays = 30
	suite.Require().NoError(suite.repo.Save(ctx, facilityID, cfg))

	retrieved, err := suite.repo.GetConfig(ctx, facilityID)
	suite.Require().NoError(err)
	suite.False(retrieved.ValidateExamAge)
	suite.Equal(30, retrieved.ExamValidityDays)
}

func TestFacilityConfigsIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(FacilityConfigsIntegrationTestSuite))
}
