package commands

import (
	"context"

	"labflow/internal/core/domain/model/catalog"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/errs"
)

// SaveResultCommandHandler handles result entry at the analysis bench.
// Parses the submitted values against the exam's field definitions, flags
// values outside the reference range as altered, and persists the item's
// result and status transition in one transaction.
type SaveResultCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ExamCatalog
	configs    ports.FacilityConfigs
}

// NewSaveResultCommandHandler creates a handler for result entry operations.
func NewSaveResultCommandHandler(
	uowFactory OrderUoWFactory,
	examCatalog ports.ExamCatalog,
	configs ports.FacilityConfigs,
) SaveResultCommandHandler {
	return SaveResultCommandHandler{
		uowFactory: uowFactory,
		catalog:    examCatalog,
		configs:    configs,
	}
}

// Handle processes the result entry command. All field problems are
// accumulated and reported together as a FieldViolations error; required
// fields are enforced only on release, so drafts can be saved half-filled.
func (h *SaveResultCommandHandler) Handle(ctx context.Context, cmd SaveResultCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()

	aggregate, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	item, err := aggregate.Item(cmd.ItemID())
	if err != nil {
		return err
	}

	exam, err := h.catalog.GetExam(ctx, item.ExamID())
	if err != nil {
		return err
	}

	cfg, err := h.configs.GetConfig(ctx, aggregate.FacilityID())
	if err != nil {
		return err
	}

	var fields []order.FieldValue
	if cfg.ResultEntryPerField && exam.EntryMode == catalog.PerField {
		fields, err = parseFieldValues(exam, cmd.Fields(), cmd.Release())
		if err != nil {
			return err
		}
	}

	_, err = aggregate.EnterItemResult(
		cmd.ItemID(),
		cmd.MethodID(),
		cmd.FreeText(),
		fields,
		cmd.Release(),
		cmd.EnteredBy(),
		cmd.EnteredAt(),
	)
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

// parseFieldValues converts the raw submitted values into typed field values
// using the exam's definitions. Unknown fields, type mismatches, and (on
// release) missing required fields are collected into one error.
func parseFieldValues(
	exam *catalog.ExamDefinition,
	requests []FieldValueRequest,
	release bool,
) ([]order.FieldValue, error) {
	var violations []errs.FieldViolation
	values := make([]order.FieldValue, 0, len(requests))
	submitted := make(map[kernel.UUID]struct{}, len(requests))

	for _, request := range requests {
		def, ok := exam.Field(request.FieldID)
		if !ok {
			violations = append(violations, errs.FieldViolation{
				FieldID: request.FieldID.String(),
				Rule:    "unknown",
				Detail:  "field is not defined for this exam",
			})
			continue
		}
		submitted[request.FieldID] = struct{}{}

		parsed, violation := def.Parse(request.Value)
		if violation != nil {
			violations = append(violations, *violation)
			continue
		}

		values = append(values, order.FieldValue{
			FieldID: request.FieldID,
			Raw:     parsed.Raw,
			Numeric: parsed.Numeric,
			Text:    parsed.Text,
			Altered: parsed.Altered,
		})
	}

	if release {
		for _, def := range exam.Fields {
			if !def.Required {
				continue
			}
			if _, ok := submitted[def.ID]; !ok {
				violations = append(violations, errs.FieldViolation{
					FieldID: def.ID.String(),
					Rule:    "required",
					Detail:  def.Name + " has no value",
				})
			}
		}
	}

	if len(violations) > 0 {
		return nil, errs.NewFieldViolations(violations)
	}
	return values, nil
}
