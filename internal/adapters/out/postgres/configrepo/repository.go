// Package configrepo provides GORM-based access to per-facility operational
// configuration. Facilities without a stored row fall back to the default
// configuration, so reads never fail on a missing facility.
package configrepo

import (
	"context"
	"errors"

	"labflow/internal/core/domain/model/facility"
	"labflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FacilityConfigDTO represents the database structure for persisting
// per-facility configuration.
type FacilityConfigDTO struct {
	FacilityID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	AllowDuplicateExam        bool
	ExamValidityDays          int
	ValidateExamAge           bool
	VerifyDocumentOnDelivery  bool
	VerifyBiometricOnDelivery bool
	AllowPartialDelivery      bool
	ResultEntryPerField       bool
	UseElectronicSignature    bool
	AlertPendingExam          bool
	CollectionAlertMinutes    int
	ResultAlertMinutes        int
	AutoGenerateBarcode       bool
}

// TableName specifies the database table name for facility configuration.
func (FacilityConfigDTO) TableName() string {
	return "facility_configs"
}

// GormFacilityConfigs implements FacilityConfigs using GORM.
type GormFacilityConfigs struct {
	db *gorm.DB
}

// NewGormFacilityConfigs creates a new GORM facility configuration store.
func NewGormFacilityConfigs(db *gorm.DB) *GormFacilityConfigs {
	return &GormFacilityConfigs{db: db}
}

// Save upserts the configuration for one facility.
func (r *GormFacilityConfigs) Save(ctx context.Context, facilityID kernel.UUID, cfg facility.Config) error {
	if err := facilityID.Validate(); err != nil {
		return err
	}

	dto := fromDomain(facilityID, cfg)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "facility_id"}},
		UpdateAll: true,
	}).Create(&dto).Error
}

// GetConfig retrieves the configuration for a facility, falling back to
// DefaultConfig when the facility has no stored row.
func (r *GormFacilityConfigs) GetConfig(ctx context.Context, facilityID kernel.UUID) (facility.Config, error) {
	if err := facilityID.Validate(); err != nil {
		return facility.Config{}, err
	}

	var dto FacilityConfigDTO
	err := r.db.WithContext(ctx).First(&dto, "facility_id = ?", facilityID.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return facility.DefaultConfig(), nil
		}
		return facility.Config{}, err
	}

	return toDomain(dto), nil
}

func fromDomain(facilityID kernel.UUID, cfg facility.Config) FacilityConfigDTO {
	return FacilityConfigDTO{
		FacilityID:                facilityID.Bytes(),
		AllowDuplicateExam:        cfg.AllowDuplicateExam,
		ExamValidityDays:          cfg.ExamValidityDays,
		ValidateExamAge:           cfg.ValidateExamAge,
		VerifyDocumentOnDelivery:  cfg.VerifyDocumentOnDelivery,
		VerifyBiometricOnDelivery: cfg.VerifyBiometricOnDelivery,
		AllowPartialDelivery:      cfg.AllowPartialDelivery,
		ResultEntryPerField:       cfg.ResultEntryPerField,
		UseElectronicSignature:    cfg.UseElectronicSignature,
		AlertPendingExam:          cfg.AlertPendingExam,
		CollectionAlertMinutes:    cfg.CollectionAlertMinutes,
		ResultAlertMinutes:        cfg.ResultAlertMinutes,
		AutoGenerateBarcode:       cfg.AutoGenerateBarcode,
	}
}

func toDomain(dto FacilityConfigDTO) facility.Config {
	return facility.Config{
		AllowDuplicateExam:        dto.AllowDuplicateExam,
		ExamValidityDays:          dto.ExamValidityDays,
		ValidateExamAge:           dto.ValidateExamAge,
		VerifyDocumentOnDelivery:  dto.VerifyDocumentOnDelivery,
		VerifyBiometricOnDelivery: dto.VerifyBiometricOnDelivery,
		AllowPartialDelivery:      dto.AllowPartialDelivery,
		ResultEntryPerField:       dto.ResultEntryPerField,
		UseElectronicSignature:    dto.UseElectronicSignature,
		AlertPendingExam:          dto.AlertPendingExam,
		CollectionAlertMinutes:    dto.CollectionAlertMinutes,
		ResultAlertMinutes:        dto.ResultAlertMinutes,
		AutoGenerateBarcode:       dto.AutoGenerateBarcode,
	}
}
