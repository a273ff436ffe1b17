package catalog

import (
	"fmt"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
)

// Sex is a patient's administrative sex as relevant for exam eligibility.
type Sex int

const (
	SexUnknown Sex = iota
	SexFemale
	SexMale
)

// String returns the human-readable name of the sex value.
func (s Sex) String() string {
	switch s {
	case SexFemale:
		return "Female"
	case SexMale:
		return "Male"
	default:
		return "Unknown"
	}
}

// AllowedSex restricts which patients an exam applies to.
type AllowedSex int

const (
	// AnySex places no restriction on the patient's sex.
	AnySex AllowedSex = iota
	// FemaleOnly restricts the exam to female patients.
	FemaleOnly
	// MaleOnly restricts the exam to male patients.
	MaleOnly
)

// EntryMode selects how results for an exam are captured.
type EntryMode int

const (
	// PerField captures a value for each structured field definition.
	PerField EntryMode = iota
	// FreeTextMemo captures a single free-text report body.
	FreeTextMemo
)

// ExamDefinition is the catalog entry for one laboratory exam. It carries the
// constraints order intake validates against (age, sex, validity window) and
// the field definitions result entry validates against.
type ExamDefinition struct {
	ID        kernel.UUID
	Code      string
	Name      string
	ShortName string
	Group     string

	// MinAge and MaxAge bound patient age in whole years; nil means unbounded.
	MinAge *int
	MaxAge *int

	AllowedSex AllowedSex

	// ValidityDays overrides the facility duplicate-detection window for this
	// exam; zero means the facility default applies.
	ValidityDays int

	// Sessions is the number of sessions a multi-session protocol requires.
	Sessions int

	EntryMode EntryMode

	// Prices in cents. PricePrivate is charged for private billing,
	// PricePublic is the public-system reference value.
	PricePrivate int64
	PricePublic  int64

	Active bool

	Materials []MaterialRequirement
	Fields    []FieldDefinition
	Methods   []Method
}

// MaterialRequirement names a biological material the exam needs collected.
type MaterialRequirement struct {
	MaterialID   kernel.UUID
	Name         string
	Abbreviation string
	Quantity     int
}

// Method is an analysis method with its normal reference range. Values
// outside the range are flagged as altered on the result.
type Method struct {
	ID     kernel.UUID
	Name   string
	RefMin *float64
	RefMax *float64
}

// ValidateEligibility checks an exam's age and sex constraints against a
// patient. Returns nil when the patient is eligible, or a typed validation
// error naming the violated constraint.
func (e ExamDefinition) ValidateEligibility(patientAge int, patientSex Sex) error {
	if err := e.ValidateActive(); err != nil {
		return err
	}
	if err := e.ValidateAge(patientAge); err != nil {
		return err
	}
	return e.ValidateSex(patientSex)
}

// ValidateActive rejects inactive exams.
func (e ExamDefinition) ValidateActive() error {
	if !e.Active {
		return errs.NewValueIsInvalidErrorWithCause("exam",
			fmt.Errorf("exam %s is inactive", e.Code))
	}
	return nil
}

// ValidateAge checks the exam's age range. Facilities can switch this check
// off, so it is callable separately from the sex constraint.
func (e ExamDefinition) ValidateAge(patientAge int) error {
	if e.MinAge != nil && patientAge < *e.MinAge {
		maxAge := "unbounded"
		if e.MaxAge != nil {
			maxAge = fmt.Sprintf("%d", *e.MaxAge)
		}
		return errs.NewValueIsOutOfRangeError("patient age for exam "+e.Code,
			patientAge, *e.MinAge, maxAge)
	}

	if e.MaxAge != nil && patientAge > *e.MaxAge {
		minAge := 0
		if e.MinAge != nil {
			minAge = *e.MinAge
		}
		return errs.NewValueIsOutOfRangeError("patient age for exam "+e.Code,
			patientAge, minAge, *e.MaxAge)
	}

	return nil
}

// ValidateSex checks the exam's sex restriction.
func (e ExamDefinition) ValidateSex(patientSex Sex) error {
	switch e.AllowedSex {
	case FemaleOnly:
		if patientSex != SexFemale {
			return errs.NewValueIsInvalidErrorWithCause("patient sex",
				fmt.Errorf("exam %s is restricted to female patients", e.Code))
		}
	case MaleOnly:
		if patientSex != SexMale {
			return errs.NewValueIsInvalidErrorWithCause("patient sex",
				fmt.Errorf("exam %s is restricted to male patients", e.Code))
		}
	case AnySex:
	}

	return nil
}

// Field returns the field definition with the given id, or false when the
// exam has no such field.
func (e ExamDefinition) Field(fieldID kernel.UUID) (FieldDefinition, bool) {
	for _, f := range e.Fields {
		if f.ID.IsEqual(fieldID) {
			return f, true
		}
	}
	return FieldDefinition{}, false
}

// Method returns the analysis method with the given id, or false when the
// exam has no such method.
func (e ExamDefinition) Method(methodID kernel.UUID) (Method, bool) {
	for _, m := range e.Methods {
		if m.ID.IsEqual(methodID) {
			return m, true
		}
	}
	return Method{}, false
}

// Price returns the value charged for the exam under the given public flag.
func (e ExamDefinition) Price(public bool) int64 {
	if public {
		return e.PricePublic
	}
	return e.PricePrivate
}
