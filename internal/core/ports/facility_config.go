package ports

import (
	"context"

	"labflow/internal/core/domain/model/facility"
	"labflow/internal/core/domain/model/kernel"
)

// FacilityConfigs provides the per-facility workflow settings.
// Implementations return facility.DefaultConfig for facilities without a
// stored configuration rather than failing.
type FacilityConfigs interface {
	GetConfig(ctx context.Context, facilityID kernel.UUID) (facility.Config, error)
}
