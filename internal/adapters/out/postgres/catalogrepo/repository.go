package catalogrepo

import (
	"context"
	"errors"

	"labflow/internal/core/domain/model/catalog"
	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormExamCatalog implements ExamCatalog using GORM.
type GormExamCatalog struct {
	db *gorm.DB
}

// NewGormExamCatalog creates a new GORM exam catalog.
func NewGormExamCatalog(db *gorm.DB) *GormExamCatalog {
	return &GormExamCatalog{db: db}
}

// Save upserts an exam definition with its fields, materials and methods.
// Used by catalog administration and seeding; the order workflow only reads.
func (r *GormExamCatalog) Save(ctx context.Context, exam *catalog.ExamDefinition) error {
	if err := exam.ID.Validate(); err != nil {
		return err
	}
	if exam.Code == "" {
		return errs.NewValueIsRequiredError("exam code")
	}

	dto := fromDomain(exam)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&dto).Error
}

// GetExam retrieves an exam definition by ID.
func (r *GormExamCatalog) GetExam(ctx context.Context, id kernel.UUID) (*catalog.ExamDefinition, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto ExamDTO
	err := r.db.WithContext(ctx).
		Preload("Materials").
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("exam_fields.position") }).
		Preload("Methods").
		First(&dto, "id = ?", id.Bytes()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("exam", id.String())
		}
		return nil, err
	}

	return toDomain(dto)
}

// GetExams retrieves the exam definitions for all given IDs. Fails with
// ObjectNotFoundError when any id has no catalog entry.
func (r *GormExamCatalog) GetExams(ctx context.Context, ids []kernel.UUID) ([]*catalog.ExamDefinition, error) {
	if len(ids) == 0 {
		return nil, errs.NewValueIsRequiredError("exam ids")
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return nil, err
		}
		raw = append(raw, id.Bytes())
	}

	var dtos []ExamDTO
	err := r.db.WithContext(ctx).
		Preload("Materials").
		Preload("Fields", func(db *gorm.DB) *gorm.DB { return db.Order("exam_fields.position") }).
		Preload("Methods").
		Find(&dtos, "id IN ?", raw).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[kernel.UUID]*catalog.ExamDefinition, len(dtos))
	for _, dto := range dtos {
		exam, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		byID[exam.ID] = exam
	}

	exams := make([]*catalog.ExamDefinition, 0, len(ids))
	for _, id := range ids {
		exam, ok := byID[id]
		if !ok {
			return nil, errs.NewObjectNotFoundError("exam", id.String())
		}
		exams = append(exams, exam)
	}

	return exams, nil
}
