package commands

import (
	"context"

	"labflow/internal/core/domain/model/order"
)

// RegisterCollectionCommandHandler handles the collection station's workflow.
// Loads the order, applies the collection to one item or to every awaiting
// item, and persists the item transitions in one transaction.
type RegisterCollectionCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewRegisterCollectionCommandHandler creates a handler for collection
// registration operations.
func NewRegisterCollectionCommandHandler(uowFactory OrderUoWFactory) RegisterCollectionCommandHandler {
	return RegisterCollectionCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the collection command. Re-collecting an already collected
// item or order succeeds without changes, so station retries are safe.
func (h *RegisterCollectionCommandHandler) Handle(ctx context.Context, cmd RegisterCollectionCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	materials := make([]order.CollectedMaterial, 0, len(cmd.Materials()))
	for _, m := range cmd.Materials() {
		materials = append(materials, order.CollectedMaterial{
			MaterialID: m.MaterialID,
			Quantity:   m.Quantity,
			TubeCode:   m.TubeCode,
		})
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

	if itemID := cmd.ItemID(); itemID != nil {
		err = aggregate.CollectItem(*itemID, materials, cmd.CollectedAt())
	} else {
		err = aggregate.RegisterCollection(materials, cmd.CollectedAt())
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
