package ports

import (
	"context"

	"labflow/internal/core/domain/model/catalog"
	"labflow/internal/core/domain/model/kernel"
)

// ExamCatalog provides read access to the exam reference data maintained
// administratively outside the order workflow.
type ExamCatalog interface {
	// GetExam retrieves one exam definition with its fields, materials, and
	// methods. Returns errs.ObjectNotFoundError when the exam does not exist.
	GetExam(ctx context.Context, id kernel.UUID) (*catalog.ExamDefinition, error)

	// GetExams retrieves several exam definitions at once. Fails when any of
	// the ids is unknown, so intake rejects orders referencing missing exams.
	GetExams(ctx context.Context, ids []kernel.UUID) ([]*catalog.ExamDefinition, error)
}
