package commands

import (
	"errors"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrOrderItemsAreRequired = errors.New("at least one exam item is required")
)

// OrderItemRequest describes one requested exam within a create order command.
type OrderItemRequest struct {
	ExamID     kernel.UUID
	Quantity   int
	Session    int
	Authorized bool
	AuthNumber string
}

// CreateOrderCommand represents a reception request to open a new exam order
// for a patient. Encapsulates the patient, facility, requesting professional,
// and the list of requested exams.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(patientID, facilityID, requesterID,
//	    nil, false, order.BillingPrivate, "", "",
//	    []OrderItemRequest{{ExamID: examID, Quantity: 1}})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
//	fmt.Printf("Order %s created", result.Number)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	patientID   kernel.UUID
	facilityID  kernel.UUID
	requesterID kernel.UUID
	scheduleID  *kernel.UUID
	urgent      bool
	billing     order.BillingType
	barcode     string
	notes       string
	items       []OrderItemRequest

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new exam order.
// Validates the referenced identifiers, the billing type, and that at least
// one exam item with a valid exam reference was requested.
func NewCreateOrderCommand(
	patientID, facilityID, requesterID kernel.UUID,
	scheduleID *kernel.UUID,
	urgent bool,
	billing order.BillingType,
	barcode string,
	notes string,
	items []OrderItemRequest,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setPatientID(patientID),
		cmd.setFacilityID(facilityID),
		cmd.setRequesterID(requesterID),
		cmd.setBilling(billing),
		cmd.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	cmd.scheduleID = scheduleID
	cmd.urgent = urgent
	cmd.barcode = barcode
	cmd.notes = notes

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// PatientID returns the patient the order is for.
func (c CreateOrderCommand) PatientID() kernel.UUID { return c.patientID }

// FacilityID returns the receiving facility.
func (c CreateOrderCommand) FacilityID() kernel.UUID { return c.facilityID }

// RequesterID returns the requesting professional.
func (c CreateOrderCommand) RequesterID() kernel.UUID { return c.requesterID }

// ScheduleID returns the optional appointment reference.
func (c CreateOrderCommand) ScheduleID() *kernel.UUID { return c.scheduleID }

// Urgent reports whether the order was flagged urgent.
func (c CreateOrderCommand) Urgent() bool { return c.urgent }

// Billing returns the billing classification.
func (c CreateOrderCommand) Billing() order.BillingType { return c.billing }

// Barcode returns the pre-printed label barcode, when the facility does not
// auto-generate barcodes at intake.
func (c CreateOrderCommand) Barcode() string { return c.barcode }

// Notes returns the free-text reception notes.
func (c CreateOrderCommand) Notes() string { return c.notes }

// Items returns the requested exams.
func (c CreateOrderCommand) Items() []OrderItemRequest { return c.items }

func (c *CreateOrderCommand) setPatientID(patientID kernel.UUID) error {
	if err := patientID.Validate(); err != nil {
		return err
	}

	c.patientID = patientID
	return nil
}

func (c *CreateOrderCommand) setFacilityID(facilityID kernel.UUID) error {
	if err := facilityID.Validate(); err != nil {
		return err
	}

	c.facilityID = facilityID
	return nil
}

func (c *CreateOrderCommand) setRequesterID(requesterID kernel.UUID) error {
	if err := requesterID.Validate(); err != nil {
		return err
	}

	c.requesterID = requesterID
	return nil
}

func (c *CreateOrderCommand) setBilling(billing order.BillingType) error {
	if err := billing.Validate(); err != nil {
		return err
	}

	c.billing = billing
	return nil
}

func (c *CreateOrderCommand) setItems(items []OrderItemRequest) error {
	if len(items) == 0 {
		return ErrOrderItemsAreRequired
	}

	for _, item := range items {
		if err := item.ExamID.Validate(); err != nil {
			return err
		}
	}

	c.items = items
	return nil
}
