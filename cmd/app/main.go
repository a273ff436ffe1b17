package main

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"labflow/cmd"
	labhttp "labflow/internal/adapters/in/http"
	"labflow/internal/adapters/out/postgres"
	"labflow/internal/adapters/out/postgres/catalogrepo"
	"labflow/internal/adapters/out/postgres/configrepo"
	"labflow/internal/adapters/out/postgres/orderrepo"
	"labflow/internal/adapters/out/postgres/patientrepo"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	_ "github.com/lib/pq"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	createDbIfNotExists(configs)
	gormDB := connectDB(configs)
	migrateSchema(gormDB)

	app := cmd.NewCompositionRoot(configs, gormDB)

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	jobManager := app.CreateJobManager(logger)
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting background jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:     goDotEnvVariable("HTTP_PORT"),
		DBHost:       goDotEnvVariable("DB_HOST"),
		DBPort:       goDotEnvVariable("DB_PORT"),
		DBUser:       goDotEnvVariable("DB_USER"),
		DBPassword:   goDotEnvVariable("DB_PASSWORD"),
		DBName:       goDotEnvVariable("DB_NAME"),
		DBSslMode:    goDotEnvVariable("DB_SSLMODE"),
		ContractPath: goDotEnvVariable("CONTRACT_PATH"),
	}
	if config.ContractPath == "" {
		config.ContractPath = "api/openapi.yml"
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

// createDbIfNotExists connects to the maintenance database and creates the
// application database on first start.
func createDbIfNotExists(configs cmd.Config) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=postgres sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBSslMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("Error connecting to maintenance database: %v", err)
	}
	defer db.Close()

	var exists bool
	err = db.QueryRow("SELECT EXISTS(SELECT 1 FROM pg_database WHERE datname = $1)", configs.DBName).Scan(&exists)
	if err != nil {
		log.Fatalf("Error checking for database: %v", err)
	}

	if !exists {
		if _, err = db.Exec(fmt.Sprintf("CREATE DATABASE %q", configs.DBName)); err != nil {
			log.Fatalf("Error creating database: %v", err)
		}
	}
}

func connectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser, configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func migrateSchema(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&catalogrepo.ExamDTO{},
		&catalogrepo.ExamMaterialDTO{},
		&catalogrepo.ExamFieldDTO{},
		&catalogrepo.ExamMethodDTO{},
		&patientrepo.PatientDTO{},
		&configrepo.FacilityConfigDTO{},
		&orderrepo.OrderDTO{},
		&orderrepo.ItemDTO{},
		&orderrepo.ResultDTO{},
		&orderrepo.DeliveryDTO{},
		&postgres.CounterDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database schema: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, configs cmd.Config) {
	e := echo.New()
	e.JSONSerializer = labhttp.JSONSerializer{}
	e.Validator = labhttp.NewRequestValidator()

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	contract, err := labhttp.LoadContract(configs.ContractPath)
	if err != nil {
		log.Fatalf("Error loading API contract: %v", err)
	}
	labhttp.RegisterContractRoute(e, contract)

	server := labhttp.NewServer(
		app.CreateCreateOrderCommandHandler(),
		app.CreateRegisterCollectionCommandHandler(),
		app.CreateSaveResultCommandHandler(),
		app.CreateSignResultCommandHandler(),
		app.CreateRegisterDeliveryCommandHandler(),
		app.CreateCancelOrderCommandHandler(),
		app.CreateGetOrderQueryHandler(),
		app.CreateGetWorklistQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", configs.HTTPPort)))
}
