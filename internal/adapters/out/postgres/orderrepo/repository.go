package orderrepo

import (
	"context"
	"errors"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

// aggregateTracker defines the interface for tracking aggregates.
type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB, tracker aggregateTracker) *GormOrderRepository {
	return &GormOrderRepository{
		db:      db,
		tracker: tracker,
	}
}

// Add saves a new order with its items to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return err
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update saves an existing order to the database. Item rows are written with
// a version guard: the update matches the version the aggregate was loaded
// with and bumps it by one. A row that was modified in the meantime matches
// nothing and the call fails with ConcurrentModificationError, leaving the
// caller to reload and retry.
func (r *GormOrderRepository) Update(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	db := r.db.WithContext(ctx)

	orderUpdate := db.Model(&OrderDTO{}).
		Where("id = ?", aggregate.ID().Bytes()).
		Select("notes", "cancel_reason").
		Updates(map[string]any{
			"notes":         aggregate.Notes(),
			"cancel_reason": aggregate.CancelReason(),
		})
	if orderUpdate.Error != nil {
		return orderUpdate.Error
	}
	if orderUpdate.RowsAffected == 0 {
		return errs.NewObjectNotFoundError("order", aggregate.ID().String())
	}

	for _, item := range aggregate.Items() {
		if !item.Changed() {
			continue
		}
		if err := r.updateItem(db, item); err != nil {
			return err
		}
		if item.Result() != nil {
			if err := r.upsertResult(db, item.Result()); err != nil {
				return err
			}
		}
	}

	for _, delivery := range aggregate.Deliveries() {
		dto := deliveryFromDomain(delivery)
		create := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&dto)
		if create.Error != nil {
			return create.Error
		}
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormOrderRepository) updateItem(db *gorm.DB, item *order.Item) error {
	dto := itemFromDomain(kernel.UUID{}, item)

	update := db.Model(&ItemDTO{}).
		Where("id = ? AND version = ?", dto.ID, item.Version()).
		Updates(map[string]any{
			"status":        dto.Status,
			"cancel_reason": dto.CancelReason,
			"materials":     dto.Materials,
			"collected_at":  dto.CollectedAt,
			"version":       item.Version() + 1,
		})
	if update.Error != nil {
		return update.Error
	}
	if update.RowsAffected == 0 {
		return errs.NewConcurrentModificationError("orderItem", item.ID().String(), item.Version())
	}

	return nil
}

func (r *GormOrderRepository) upsertResult(db *gorm.DB, result *order.Result) error {
	dto := resultFromDomain(result)
	return db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&dto).Error
}

// Get retrieves an order with its items, results and deliveries by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	return r.getOne(ctx, "id = ?", id.Bytes(), id.String())
}

// GetByNumber retrieves an order by its human-readable order number.
func (r *GormOrderRepository) GetByNumber(ctx context.Context, number string) (*order.Order, error) {
	if number == "" {
		return nil, errs.NewValueIsRequiredError("order number")
	}

	return r.getOne(ctx, "number = ?", number, number)
}

// GetByBarcode retrieves an order by its collection barcode.
func (r *GormOrderRepository) GetByBarcode(ctx context.Context, barcode string) (*order.Order, error) {
	if barcode == "" {
		return nil, errs.NewValueIsRequiredError("barcode")
	}

	return r.getOne(ctx, "barcode = ?", barcode, barcode)
}

func (r *GormOrderRepository) getOne(ctx context.Context, cond string, arg any, ref string) (*order.Order, error) {
	var dto OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Items.Result").
		Preload("Deliveries", func(db *gorm.DB) *gorm.DB { return db.Order("deliveries.delivered_at") }).
		First(&dto, cond, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", ref)
		}
		return nil, err
	}

	return toDomain(dto)
}

// HasActiveExam reports whether the patient already has a non-cancelled item
// for the given exam created at or after the given time. Used by intake to
// enforce the duplicate-exam validity window.
func (r *GormOrderRepository) HasActiveExam(
	ctx context.Context,
	patientID, examID kernel.UUID,
	since time.Time,
) (bool, error) {
	if err := patientID.Validate(); err != nil {
		return false, err
	}
	if err := examID.Validate(); err != nil {
		return false, err
	}

	var count int64
	err := r.db.WithContext(ctx).
		Model(&ItemDTO{}).
		Joins("JOIN orders ON orders.id = order_items.order_id").
		Where("orders.patient_id = ?", patientID.Bytes()).
		Where("order_items.exam_id = ?", examID.Bytes()).
		Where("order_items.status <> ?", int(order.ItemCancelled)).
		Where("orders.created_at >= ?", since).
		Count(&count).Error
	if err != nil {
		return false, err
	}

	return count > 0, nil
}
