package commands

import (
	"context"
)

// SignResultCommandHandler handles the professional sign-off on released
// results. The transition to Signed and the signature metadata are persisted
// atomically; a stale station fails with ConcurrentModification instead of
// overwriting a newer result.
type SignResultCommandHandler struct {
	uowFactory OrderUoWFactory
}

// NewSignResultCommandHandler creates a handler for result signature
// operations.
func NewSignResultCommandHandler(uowFactory OrderUoWFactory) SignResultCommandHandler {
	return SignResultCommandHandler{
		uowFactory: uowFactory,
	}
}

// Handle processes the signature command. Re-signing an already signed item
// succeeds without changing the recorded signature.
func (h *SignResultCommandHandler) Handle(ctx context.Context, cmd SignResultCommand) error {
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

	if _, err = aggregate.SignItemResult(cmd.ItemID(), cmd.SignerID(), cmd.SignedAt()); err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
