package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// CounterDTO is a per-day sequence row backing order number generation.
type CounterDTO struct {
	Day   string `gorm:"primaryKey;type:varchar(8)"`
	Value int64
}

// TableName specifies the database table name for order counters.
func (CounterDTO) TableName() string {
	return "order_counters"
}

// GormOrderNumberGenerator issues sequential order numbers and collection
// barcodes. The sequence restarts daily, so numbers stay short enough to
// read over the phone while remaining unique.
type GormOrderNumberGenerator struct {
	db *gorm.DB
}

// NewGormOrderNumberGenerator creates a new GORM order number generator.
func NewGormOrderNumberGenerator(db *gorm.DB) *GormOrderNumberGenerator {
	return &GormOrderNumberGenerator{db: db}
}

// NextOrderNumber atomically increments the day's counter and returns the
// formatted order number and barcode. The upsert keeps concurrent intakes
// from ever seeing the same sequence value.
func (g *GormOrderNumberGenerator) NextOrderNumber(ctx context.Context, at time.Time) (string, string, error) {
	day := at.Format("20060102")

	var seq int64
	err := g.db.WithContext(ctx).Raw(`
		INSERT INTO order_counters (day, value)
		VALUES (?, 1)
		ON CONFLICT (day) DO UPDATE SET value = order_counters.value + 1
		RETURNING value`, day).Scan(&seq).Error
	if err != nil {
		return "", "", err
	}

	number := fmt.Sprintf("LAB%s%06d", day, seq)
	barcode := fmt.Sprintf("%s%07d", at.Format("060102"), seq)
	return number, barcode, nil
}
