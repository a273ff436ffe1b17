package ports

import (
	"context"
	"time"

	"labflow/internal/core/domain/model/catalog"
	"labflow/internal/core/domain/model/kernel"
)

// Patient is the read model of a registered patient, as far as the order
// workflow needs one: identity plus the attributes eligibility checks use.
type Patient struct {
	ID        kernel.UUID
	Name      string
	BirthDate time.Time
	Sex       catalog.Sex
}

// Age returns the patient's age in full years at the given moment.
func (p Patient) Age(at time.Time) int {
	years := at.Year() - p.BirthDate.Year()
	anniversary := p.BirthDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	return years
}

// PatientDirectory provides read access to the patient registry.
type PatientDirectory interface {
	// GetPatient retrieves a registered patient. Returns
	// errs.ObjectNotFoundError when no patient has the given id.
	GetPatient(ctx context.Context, id kernel.UUID) (Patient, error)
}
