package commands

import (
	"context"
	"time"

	"labflow/internal/core/domain/model/catalog"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/errs"
)

// CreateOrderResult reports the identifiers assigned to a created order.
type CreateOrderResult struct {
	OrderID kernel.UUID
	Number  string
	Barcode string
}

// CreateOrderCommandHandler handles the business logic for order intake.
// Verifies the patient exists, checks each requested exam's eligibility and
// the facility's duplicate-exam policy, assigns the order number and barcode,
// and persists the order with its items in AwaitingCollection status.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ExamCatalog
	patients   ports.PatientDirectory
	configs    ports.FacilityConfigs
	numbers    ports.OrderNumberGenerator
}

// NewCreateOrderCommandHandler creates a handler for order intake operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	examCatalog ports.ExamCatalog,
	patients ports.PatientDirectory,
	configs ports.FacilityConfigs,
	numbers ports.OrderNumberGenerator,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    examCatalog,
		patients:   patients,
		configs:    configs,
		numbers:    numbers,
	}
}

// Handle processes the order intake command.
// The whole intake is all-or-nothing: when any requested exam is unknown,
// ineligible, or a forbidden duplicate, no order is created.
func (h *CreateOrderCommandHandler) Handle(
	ctx context.Context, cmd CreateOrderCommand,
) (CreateOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return CreateOrderResult{}, err
	}

	patient, err := h.patients.GetPatient(ctx, cmd.PatientID())
	if err != nil {
		return CreateOrderResult{}, err
	}

	cfg, err := h.configs.GetConfig(ctx, cmd.FacilityID())
	if err != nil {
		return CreateOrderResult{}, err
	}

	// Facilities working with pre-printed labels must supply the barcode.
	if !cfg.AutoGenerateBarcode && cmd.Barcode() == "" {
		return CreateOrderResult{}, errs.NewValueIsRequiredError("barcode")
	}

	examIDs := make([]kernel.UUID, 0, len(cmd.Items()))
	for _, item := range cmd.Items() {
		examIDs = append(examIDs, item.ExamID)
	}

	exams, err := h.catalog.GetExams(ctx, examIDs)
	if err != nil {
		return CreateOrderResult{}, err
	}

	examsByID := make(map[kernel.UUID]*catalog.ExamDefinition, len(exams))
	for _, exam := range exams {
		examsByID[exam.ID] = exam
	}

	now := time.Now()
	publicBilling := cmd.Billing() == order.BillingPublic

	items := make([]*order.Item, 0, len(cmd.Items()))
	for _, request := range cmd.Items() {
		exam, ok := examsByID[request.ExamID]
		if !ok {
			return CreateOrderResult{}, errs.NewObjectNotFoundError("examID", request.ExamID.String())
		}

		if err = exam.ValidateActive(); err != nil {
			return CreateOrderResult{}, err
		}
		if cfg.ValidateExamAge {
			if err = exam.ValidateAge(patient.Age(now)); err != nil {
				return CreateOrderResult{}, err
			}
		}
		if err = exam.ValidateSex(patient.Sex); err != nil {
			return CreateOrderResult{}, err
		}

		quantity := request.Quantity
		if quantity == 0 {
			quantity = 1
		}

		item, itemErr := order.NewItem(order.ItemSpec{
			ExamID:     request.ExamID,
			Quantity:   quantity,
			Session:    request.Session,
			Authorized: request.Authorized,
			AuthNumber: request.AuthNumber,
			Price:      exam.Price(publicBilling),
		})
		if itemErr != nil {
			return CreateOrderResult{}, itemErr
		}

		items = append(items, item)
	}

	number, barcode, err := h.numbers.NextOrderNumber(ctx, now)
	if err != nil {
		return CreateOrderResult{}, err
	}
	if !cfg.AutoGenerateBarcode {
		barcode = cmd.Barcode()
	}

	newOrder, err := order.NewOrder(
		kernel.NewUUID(),
		number,
		barcode,
		cmd.PatientID(),
		cmd.FacilityID(),
		cmd.RequesterID(),
		cmd.ScheduleID(),
		cmd.Urgent(),
		cmd.Billing(),
		cmd.Notes(),
		items,
		now,
	)
	if err != nil {
		return CreateOrderResult{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	if !cfg.AllowDuplicateExam {
		for _, exam := range exams {
			validityDays := cfg.ExamValidityDays
			if exam.ValidityDays > 0 {
				validityDays = exam.ValidityDays
			}
			since := now.AddDate(0, 0, -validityDays)

			duplicate, dupErr := orderRepo.HasActiveExam(ctx, cmd.PatientID(), exam.ID, since)
			if dupErr != nil {
				return CreateOrderResult{}, dupErr
			}
			if duplicate {
				return CreateOrderResult{}, errs.NewValueIsInvalidErrorWithCause("examID",
					errs.NewValueIsInvalidError(
						"patient already has an active "+exam.Code+" exam within the validity window"))
			}
		}
	}

	if err = orderRepo.Add(ctx, newOrder); err != nil {
		return CreateOrderResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return CreateOrderResult{}, err
	}

	return CreateOrderResult{
		OrderID: newOrder.ID(),
		Number:  newOrder.Number(),
		Barcode: newOrder.Barcode(),
	}, nil
}
