package commands

import (
	"context"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/core/ports"
	"labflow/internal/pkg/errs"
)

// RegisterDeliveryCommandHandler handles handing signed results to a
// recipient. The facility's delivery policy decides which verifications are
// mandatory and whether partial delivery is allowed.
type RegisterDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	configs    ports.FacilityConfigs
}

// NewRegisterDeliveryCommandHandler creates a handler for delivery
// registration operations.
func NewRegisterDeliveryCommandHandler(
	uowFactory OrderUoWFactory,
	configs ports.FacilityConfigs,
) RegisterDeliveryCommandHandler {
	return RegisterDeliveryCommandHandler{
		uowFactory: uowFactory,
		configs:    configs,
	}
}

// Handle processes the delivery command. An empty item list delivers every
// signed item; the order must have at least one.
func (h *RegisterDeliveryCommandHandler) Handle(ctx context.Context, cmd RegisterDeliveryCommand) error {
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

	cfg, err := h.configs.GetConfig(ctx, aggregate.FacilityID())
	if err != nil {
		return err
	}

	itemIDs := cmd.ItemIDs()
	if len(itemIDs) == 0 {
		for _, item := range aggregate.Items() {
			if item.Status() == order.Signed {
				itemIDs = append(itemIDs, item.ID())
			}
		}
		if len(itemIDs) == 0 {
			return errs.NewInvalidTransitionError("order",
				aggregate.Status().String(), order.StatusDelivered.String())
		}
	}

	requireDocument, requireBiometric, allowPartial := cfg.DeliveryPolicyFlags()

	_, err = aggregate.RegisterDelivery(
		itemIDs,
		order.Recipient{
			Name:         cmd.RecipientName(),
			Document:     cmd.RecipientDocument(),
			Relationship: cmd.Relationship(),
		},
		cmd.DocumentVerified(),
		cmd.BiometricVerified(),
		order.DeliveryPolicy{
			RequireDocument:  requireDocument,
			RequireBiometric: requireBiometric,
			AllowPartial:     allowPartial,
		},
		cmd.DeliveredBy(),
		cmd.DeliveredAt(),
		cmd.Notes(),
	)
	if err != nil {
		return err
	}

	if err = orderRepo.Update(ctx, aggregate); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
