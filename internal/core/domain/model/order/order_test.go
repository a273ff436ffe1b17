package order_test

import (
	"testing"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestItem(t *testing.T) *order.Item {
	t.Helper()

	item, err := order.NewItem(order.ItemSpec{
		ExamID:   kernel.NewUUID(),
		Quantity: 1,
		Price:    2500,
	})
	require.NoError(t, err)
	return item
}

func newTestOrder(t *testing.T, items ...*order.Item) *order.Order {
	t.Helper()

	if len(items) == 0 {
		items = []*order.Item{newTestItem(t)}
	}

	o, err := order.NewOrder(
		kernel.NewUUID(),
		"LAB20260829000001",
		"0002600000123",
		kernel.NewUUID(),
		kernel.NewUUID(),
		kernel.NewUUID(),
		nil,
		false,
		order.BillingPrivate,
		"",
		items,
		time.Now(),
	)
	require.NoError(t, err)
	return o
}

// collectAndEnter walks an item to ResultEntered through the aggregate.
func collectAndEnter(t *testing.T, o *order.Order, item *order.Item) {
	t.Helper()

	now := time.Now()
	require.NoError(t, o.CollectItem(item.ID(), nil, now))
	_, err := o.EnterItemResult(item.ID(), nil, "negative", nil, true, kernel.NewUUID(), now)
	require.NoError(t, err)
}

func signItem(t *testing.T, o *order.Order, item *order.Item) {
	t.Helper()

	collectAndEnter(t, o, item)
	_, err := o.SignItemResult(item.ID(), kernel.NewUUID(), time.Now())
	require.NoError(t, err)
}

func TestNewOrder(t *testing.T) {
	t.Run("should create order with valid parameters", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)

		require.NoError(t, o.Validate())
		assert.Equal(t, "LAB20260829000001", o.Number())
		assert.Equal(t, "0002600000123", o.Barcode())
		assert.Equal(t, order.BillingPrivate, o.Billing())
		assert.Len(t, o.Items(), 1)
		assert.Empty(t, o.Deliveries())
		assert.Equal(t, order.StatusAwaitingCollection, o.Status())
	})

	t.Run("should reject order without items", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "LAB20260829000002", "0002600000124",
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			nil, false, order.BillingPublic, "", nil, time.Now(),
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject order without number", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "", "0002600000125",
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			nil, false, order.BillingPublic, "",
			[]*order.Item{newTestItem(t)}, time.Now(),
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("should reject unknown billing type", func(t *testing.T) {
		_, err := order.NewOrder(
			kernel.NewUUID(), "LAB20260829000003", "0002600000126",
			kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID(),
			nil, false, order.BillingUnknown, "",
			[]*order.Item{newTestItem(t)}, time.Now(),
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestOrder_Validate(t *testing.T) {
	t.Run("should reject order not created via constructor", func(t *testing.T) {
		var o order.Order

		assert.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	})
}

func TestOrder_Item(t *testing.T) {
	t.Run("should find item by id", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)

		found, err := o.Item(item.ID())

		require.NoError(t, err)
		assert.True(t, found.ID().IsEqual(item.ID()))
	})

	t.Run("should return not found for foreign id", func(t *testing.T) {
		o := newTestOrder(t)

		_, err := o.Item(kernel.NewUUID())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestOrder_Status(t *testing.T) {
	t.Run("should derive status across mixed item states", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		third := newTestItem(t)
		o := newTestOrder(t, first, second, third)

		assert.Equal(t, order.StatusAwaitingCollection, o.Status())

		require.NoError(t, o.CollectItem(first.ID(), nil, time.Now()))
		assert.Equal(t, order.StatusInCollection, o.Status())

		_, err := o.EnterItemResult(first.ID(), nil, "12.5", nil, false, kernel.NewUUID(), time.Now())
		require.NoError(t, err)
		assert.Equal(t, order.StatusInAnalysis, o.Status())
	})

	t.Run("should finalize only when every active item is signed", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		o := newTestOrder(t, first, second)

		signItem(t, o, first)
		assert.Equal(t, order.StatusInAnalysis, o.Status())

		signItem(t, o, second)
		assert.Equal(t, order.StatusFinalized, o.Status())
	})

	t.Run("should ignore cancelled items when deriving status", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		o := newTestOrder(t, first, second)

		signItem(t, o, first)
		require.NoError(t, second.Cancel("sample lost"))

		assert.Equal(t, order.StatusFinalized, o.Status())
	})

	t.Run("should be cancelled when all items are cancelled", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.Cancel("patient request"))

		assert.Equal(t, order.StatusCancelled, o.Status())
		assert.Equal(t, "patient request", o.CancelReason())
		assert.True(t, o.IsTerminal())
	})
}

func TestOrder_RegisterCollection(t *testing.T) {
	materials := []order.CollectedMaterial{
		{MaterialID: kernel.NewUUID(), Quantity: 1, TubeCode: "EDTA-01"},
	}

	t.Run("should collect all awaiting items", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		o := newTestOrder(t, first, second)

		err := o.RegisterCollection(materials, time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Collected, first.Status())
		assert.Equal(t, order.Collected, second.Status())
		assert.Equal(t, "EDTA-01", first.Materials()[0].TubeCode)
		assert.NotNil(t, first.CollectedAt())
	})

	t.Run("should succeed on retry after full collection", func(t *testing.T) {
		o := newTestOrder(t)

		require.NoError(t, o.RegisterCollection(materials, time.Now()))
		require.NoError(t, o.RegisterCollection(materials, time.Now()))

		assert.Equal(t, order.StatusInCollection, o.Status())
	})

	t.Run("should skip cancelled items", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		o := newTestOrder(t, first, second)
		require.NoError(t, second.Cancel("unauthorized"))

		err := o.RegisterCollection(materials, time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Collected, first.Status())
		assert.Equal(t, order.ItemCancelled, second.Status())
	})

	t.Run("should fail on a fully cancelled order", func(t *testing.T) {
		o := newTestOrder(t)
		require.NoError(t, o.Cancel("no-show"))

		err := o.RegisterCollection(materials, time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrder_EnterItemResult(t *testing.T) {
	t.Run("should hold result in analysis until released", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		require.NoError(t, o.CollectItem(item.ID(), nil, time.Now()))

		result, err := o.EnterItemResult(item.ID(), nil, "pending confirmation", nil, false, kernel.NewUUID(), time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.InAnalysis, item.Status())
		assert.False(t, result.Released())
	})

	t.Run("should release result and advance to ResultEntered", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		require.NoError(t, o.CollectItem(item.ID(), nil, time.Now()))

		result, err := o.EnterItemResult(item.ID(), nil, "negative", nil, true, kernel.NewUUID(), time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.ResultEntered, item.Status())
		assert.True(t, result.Released())
	})

	t.Run("should allow correction before signature without clearing release", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		collectAndEnter(t, o, item)
		firstRelease := item.Result().ReleasedAt()

		result, err := o.EnterItemResult(item.ID(), nil, "negative (reviewed)", nil, false, kernel.NewUUID(), time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.ResultEntered, item.Status())
		assert.True(t, result.Released())
		assert.Equal(t, firstRelease, result.ReleasedAt())
		assert.Equal(t, "negative (reviewed)", result.FreeText())
	})

	t.Run("should reject entry before collection", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)

		_, err := o.EnterItemResult(item.ID(), nil, "negative", nil, true, kernel.NewUUID(), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should lock result after signature", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		signItem(t, o, item)

		_, err := o.EnterItemResult(item.ID(), nil, "amended", nil, true, kernel.NewUUID(), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrResultLocked)
	})
}

func TestOrder_SignItemResult(t *testing.T) {
	t.Run("should sign released result", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		collectAndEnter(t, o, item)
		signer := kernel.NewUUID()

		result, err := o.SignItemResult(item.ID(), signer, time.Now())

		require.NoError(t, err)
		assert.Equal(t, order.Signed, item.Status())
		assert.True(t, result.Signed())
		require.NotNil(t, result.SignedBy())
		assert.True(t, result.SignedBy().IsEqual(signer))
	})

	t.Run("should keep original signature on repeated sign", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		collectAndEnter(t, o, item)
		signer := kernel.NewUUID()

		_, err := o.SignItemResult(item.ID(), signer, time.Now())
		require.NoError(t, err)
		firstSignedAt := item.Result().SignedAt()

		result, err := o.SignItemResult(item.ID(), kernel.NewUUID(), time.Now().Add(time.Hour))

		require.NoError(t, err)
		assert.True(t, result.SignedBy().IsEqual(signer))
		assert.Equal(t, firstSignedAt, result.SignedAt())
	})

	t.Run("should reject signing an unreleased result", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		require.NoError(t, o.CollectItem(item.ID(), nil, time.Now()))
		_, err := o.EnterItemResult(item.ID(), nil, "draft", nil, false, kernel.NewUUID(), time.Now())
		require.NoError(t, err)

		_, err = o.SignItemResult(item.ID(), kernel.NewUUID(), time.Now())

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}

func TestOrder_RegisterDelivery(t *testing.T) {
	recipient := order.Recipient{Name: "Maria Souza", Document: "123.456.789-00", Relationship: "self"}
	policy := order.DeliveryPolicy{RequireDocument: true, AllowPartial: true}

	t.Run("should deliver signed items and record delivery event", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		signItem(t, o, item)

		delivery, err := o.RegisterDelivery(
			[]kernel.UUID{item.ID()}, recipient, true, false, policy,
			kernel.NewUUID(), time.Now(), "picked up at front desk",
		)

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, item.Status())
		assert.Equal(t, order.StatusDelivered, o.Status())
		require.Len(t, o.Deliveries(), 1)
		assert.True(t, delivery.OrderID().IsEqual(o.ID()))
		assert.Equal(t, "Maria Souza", delivery.Recipient().Name)
		assert.True(t, delivery.DocumentVerified())
	})

	t.Run("should require document verification when policy demands it", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		signItem(t, o, item)

		_, err := o.RegisterDelivery(
			[]kernel.UUID{item.ID()}, recipient, false, false, policy,
			kernel.NewUUID(), time.Now(), "",
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrVerificationRequired)
		assert.Equal(t, order.Signed, item.Status())
	})

	t.Run("should require biometric verification when policy demands it", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		signItem(t, o, item)

		_, err := o.RegisterDelivery(
			[]kernel.UUID{item.ID()}, recipient, true, false,
			order.DeliveryPolicy{RequireDocument: true, RequireBiometric: true, AllowPartial: true},
			kernel.NewUUID(), time.Now(), "",
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrVerificationRequired)
	})

	t.Run("should reject delivery of unsigned items", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		collectAndEnter(t, o, item)

		_, err := o.RegisterDelivery(
			[]kernel.UUID{item.ID()}, recipient, true, false, policy,
			kernel.NewUUID(), time.Now(), "",
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should allow partial delivery when policy permits", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		o := newTestOrder(t, first, second)
		signItem(t, o, first)
		collectAndEnter(t, o, second)

		_, err := o.RegisterDelivery(
			[]kernel.UUID{first.ID()}, recipient, true, false, policy,
			kernel.NewUUID(), time.Now(), "",
		)

		require.NoError(t, err)
		assert.Equal(t, order.Delivered, first.Status())
		assert.Equal(t, order.ResultEntered, second.Status())
		assert.Equal(t, order.StatusInAnalysis, o.Status())
	})

	t.Run("should reject partial delivery when policy forbids it", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		o := newTestOrder(t, first, second)
		signItem(t, o, first)
		signItem(t, o, second)

		_, err := o.RegisterDelivery(
			[]kernel.UUID{first.ID()}, recipient, true, false,
			order.DeliveryPolicy{RequireDocument: true, AllowPartial: false},
			kernel.NewUUID(), time.Now(), "",
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should ignore cancelled and delivered items in coverage check", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		o := newTestOrder(t, first, second)
		signItem(t, o, first)
		require.NoError(t, second.Cancel("sample lost"))

		_, err := o.RegisterDelivery(
			[]kernel.UUID{first.ID()}, recipient, true, false,
			order.DeliveryPolicy{RequireDocument: true, AllowPartial: false},
			kernel.NewUUID(), time.Now(), "",
		)

		require.NoError(t, err)
		assert.Equal(t, order.StatusDelivered, o.Status())
		assert.True(t, o.IsTerminal())
	})

	t.Run("should reject items of another order", func(t *testing.T) {
		item := newTestItem(t)
		o := newTestOrder(t, item)
		signItem(t, o, item)

		_, err := o.RegisterDelivery(
			[]kernel.UUID{kernel.NewUUID()}, recipient, true, false, policy,
			kernel.NewUUID(), time.Now(), "",
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestOrder_Cancel(t *testing.T) {
	t.Run("should cancel all items before signature", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		o := newTestOrder(t, first, second)
		collectAndEnter(t, o, first)

		err := o.Cancel("duplicate request")

		require.NoError(t, err)
		assert.Equal(t, order.ItemCancelled, first.Status())
		assert.Equal(t, order.ItemCancelled, second.Status())
		assert.Equal(t, "duplicate request", first.CancelReason())
		assert.Equal(t, order.StatusCancelled, o.Status())
	})

	t.Run("should reject cancellation when an item is signed", func(t *testing.T) {
		first := newTestItem(t)
		second := newTestItem(t)
		o := newTestOrder(t, first, second)
		signItem(t, o, first)

		err := o.Cancel("patient request")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, order.Signed, first.Status())
		assert.Equal(t, order.AwaitingCollection, second.Status())
	})

	t.Run("should require a reason", func(t *testing.T) {
		o := newTestOrder(t)

		err := o.Cancel("")

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestItem_VersionTracking(t *testing.T) {
	t.Run("should mark item changed after a transition", func(t *testing.T) {
		item := newTestItem(t)
		assert.False(t, item.Changed())

		require.NoError(t, item.Collect(nil, time.Now()))

		assert.True(t, item.Changed())
		assert.Equal(t, 0, item.Version())
	})

	t.Run("should restore item with its persisted version", func(t *testing.T) {
		restored, err := order.RestoreItem(
			kernel.NewUUID(), kernel.NewUUID(),
			1, 1, false, "", 2500,
			order.Collected, "", nil, nil, nil, 4,
		)

		require.NoError(t, err)
		assert.Equal(t, 4, restored.Version())
		assert.False(t, restored.Changed())
	})

	t.Run("should reject negative version on restore", func(t *testing.T) {
		_, err := order.RestoreItem(
			kernel.NewUUID(), kernel.NewUUID(),
			1, 1, false, "", 2500,
			order.Collected, "", nil, nil, nil, -1,
		)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrVersionIsInvalid)
	})
}
