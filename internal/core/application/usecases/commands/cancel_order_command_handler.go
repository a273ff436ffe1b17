package commands

import (
	"context"
)

// CancelOrderCommandHandler handles order and item cancellation.
// Items are cancelled logically, never deleted, so the order keeps its full
// audit trail.
type CancelOrderCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewCancelOrderCommandHandler creates a handler for cancellation operations.
func NewCancelOrderCommandHandler(uowFactory OrderUoWFactory) CancelOrderCommandHandler {
	return CancelOrderCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the cancellation command. Cancelling an already cancelled
// order or item succeeds without changes.
func (h *CancelOrderCommandHandler) Handle(ctx context.Context, cmd CancelOrderCommand) error {
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

	if itemID := cmd.ItemID(); itemID != nil {
		item, itemErr := aggregate.Item(*itemID)
		if itemErr != nil {
			return itemErr
		}
		err = item.Cancel(cmd.Reason())
	} else {
		err = aggregate.Cancel(cmd.Reason())
	}
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
