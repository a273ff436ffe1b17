package catalog

import (
	"fmt"
	"strconv"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"
)

// FieldType is the data type of a structured result field.
type FieldType int

const (
	// TextField holds free-form text.
	TextField FieldType = iota
	// IntegerField holds a whole number.
	IntegerField
	// DecimalField holds a decimal number.
	DecimalField
)

// String returns the human-readable name of the field type.
func (t FieldType) String() string {
	switch t {
	case IntegerField:
		return "Integer"
	case DecimalField:
		return "Decimal"
	default:
		return "Text"
	}
}

// FieldDefinition describes one structured value an exam's result carries.
// Position orders fields the way the report presents them.
type FieldDefinition struct {
	ID       kernel.UUID
	Name     string
	Type     FieldType
	Unit     string
	Required bool
	Position int

	// Min and Max are the reference range for numeric values; nil means
	// unbounded. Values outside the range are accepted but flagged altered.
	Min *float64
	Max *float64
}

// ParsedValue is the outcome of parsing a raw field value against its
// definition. Numeric is set for integer and decimal fields; Altered is set
// when a numeric value falls outside the reference range.
type ParsedValue struct {
	Raw     string
	Text    string
	Numeric *float64
	Altered bool
}

// Parse validates a raw value against the definition and converts it.
// A nil violation means the value is acceptable. Violations carry the field
// id and the violated rule so result entry can accumulate every problem and
// report them together. An out-of-range numeric value is not a violation:
// abnormal results are the point of the exam, so it parses fine and comes
// back flagged altered.
func (f FieldDefinition) Parse(raw string) (ParsedValue, *errs.FieldViolation) {
	if raw == "" {
		if f.Required {
			return ParsedValue{}, &errs.FieldViolation{
				FieldID: f.ID.String(),
				Rule:    "required",
				Detail:  fmt.Sprintf("%s has no value", f.Name),
			}
		}
		return ParsedValue{Raw: raw}, nil
	}

	switch f.Type {
	case IntegerField:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return ParsedValue{}, &errs.FieldViolation{
				FieldID: f.ID.String(),
				Rule:    "integer",
				Detail:  fmt.Sprintf("%q is not a whole number", raw),
			}
		}
		v := float64(n)
		return ParsedValue{Raw: raw, Numeric: &v, Altered: f.outOfRange(v)}, nil

	case DecimalField:
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return ParsedValue{}, &errs.FieldViolation{
				FieldID: f.ID.String(),
				Rule:    "decimal",
				Detail:  fmt.Sprintf("%q is not a number", raw),
			}
		}
		return ParsedValue{Raw: raw, Numeric: &v, Altered: f.outOfRange(v)}, nil

	default:
		return ParsedValue{Raw: raw, Text: raw}, nil
	}
}

func (f FieldDefinition) outOfRange(v float64) bool {
	if f.Min != nil && v < *f.Min {
		return true
	}
	if f.Max != nil && v > *f.Max {
		return true
	}
	return false
}
