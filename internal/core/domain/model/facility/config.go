// Package facility holds the per-facility operational configuration.
// Like the catalog package, it models read-mostly reference data as plain
// structs: the settings are maintained administratively and consumed by the
// order workflow, which enforces them but never mutates them.
package facility

// Config carries the switches that tune the order workflow for one facility.
// Unset facilities fall back to DefaultConfig.
type Config struct {
	// AllowDuplicateExam permits receiving an exam the patient already has
	// active within the validity window.
	AllowDuplicateExam bool

	// ExamValidityDays is the lookback window, in days, used by the
	// duplicate-exam check.
	ExamValidityDays int

	// ValidateExamAge enforces the catalog's age range at intake.
	ValidateExamAge bool

	// VerifyDocumentOnDelivery requires the recipient's document to be
	// checked before results are handed out.
	VerifyDocumentOnDelivery bool

	// VerifyBiometricOnDelivery additionally requires a biometric check.
	VerifyBiometricOnDelivery bool

	// AllowPartialDelivery permits handing out a subset of the order's
	// signed results.
	AllowPartialDelivery bool

	// ResultEntryPerField selects structured per-field result entry for
	// exams that define fields; otherwise results are free-text memos.
	ResultEntryPerField bool

	// UseElectronicSignature marks sign-off as an electronic signature
	// rather than a recorded manual one. Stored for reporting; the
	// signature flow itself is the same either way.
	UseElectronicSignature bool

	// AlertPendingExam enables the overdue-exam alert job for this facility.
	AlertPendingExam bool

	// CollectionAlertMinutes is how long an item may wait for collection
	// before the alert job flags it.
	CollectionAlertMinutes int

	// ResultAlertMinutes is how long a collected item may wait for a result
	// before the alert job flags it.
	ResultAlertMinutes int

	// AutoGenerateBarcode assigns order barcodes at intake instead of
	// expecting pre-printed labels.
	AutoGenerateBarcode bool
}

// DefaultConfig returns the settings applied to facilities without a stored
// configuration.
func DefaultConfig() Config {
	return Config{
		AllowDuplicateExam:        false,
		ExamValidityDays:          90,
		ValidateExamAge:           true,
		VerifyDocumentOnDelivery:  true,
		VerifyBiometricOnDelivery: false,
		AllowPartialDelivery:      true,
		ResultEntryPerField:       true,
		UseElectronicSignature:    false,
		AlertPendingExam:          true,
		CollectionAlertMinutes:    30,
		ResultAlertMinutes:        60,
		AutoGenerateBarcode:       true,
	}
}

// DeliveryPolicyFlags extracts the delivery-related switches.
func (c Config) DeliveryPolicyFlags() (requireDocument, requireBiometric, allowPartial bool) {
	return c.VerifyDocumentOnDelivery, c.VerifyBiometricOnDelivery, c.AllowPartialDelivery
}
