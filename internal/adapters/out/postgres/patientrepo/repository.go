// Package patientrepo provides GORM-based read access to the patient
// registry. The order workflow only needs identity and the attributes
// eligibility checks use; registration itself is out of scope and rows are
// maintained by the registration desk.
package patientrepo

import (
	"context"
	"errors"
	"time"

	"labflow/internal/core/domain/model/catalog"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PatientDTO represents the database structure for persisting patients.
type PatientDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"type:varchar(255);not null"`
	BirthDate time.Time
	Sex       int
}

// TableName specifies the database table name for patient entities.
func (PatientDTO) TableName() string {
	return "patients"
}

// GormPatientDirectory implements PatientDirectory using GORM.
type GormPatientDirectory struct {
	db *gorm.DB
}

// NewGormPatientDirectory creates a new GORM patient directory.
func NewGormPatientDirectory(db *gorm.DB) *GormPatientDirectory {
	return &GormPatientDirectory{db: db}
}

// Save upserts a patient record. Used by registration and seeding.
func (r *GormPatientDirectory) Save(ctx context.Context, patient ports.Patient) error {
	if err := patient.ID.Validate(); err != nil {
		return err
	}
	if patient.Name == "" {
		return errs.NewValueIsRequiredError("patient name")
	}

	dto := PatientDTO{
		ID:        patient.ID.Bytes(),
		Name:      patient.Name,
		BirthDate: patient.BirthDate,
		Sex:       int(patient.Sex),
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&dto).Error
}

// GetPatient retrieves a registered patient by ID.
func (r *GormPatientDirectory) GetPatient(ctx context.Context, id kernel.UUID) (ports.Patient, error) {
	if err := id.Validate(); err != nil {
		return ports.Patient{}, err
	}

	var dto PatientDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.Patient{}, errs.NewObjectNotFoundError("patient", id.String())
		}
		return ports.Patient{}, err
	}

	patientID, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Patient{}, err
	}

	return ports.Patient{
		ID:        patientID,
		Name:      dto.Name,
		BirthDate: dto.BirthDate,
		Sex:       catalog.Sex(dto.Sex),
	}, nil
}
