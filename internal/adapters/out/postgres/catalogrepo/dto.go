// Package catalogrepo provides data transfer objects and mapping functions for
// the exam catalog. The catalog is read-mostly reference data: exams are
// maintained administratively and consumed by order intake and result entry.
package catalogrepo

import (
	"labflow/internal/core/domain/model/catalog"
	"labflow/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// ExamDTO represents the database structure for persisting exam definitions.
// Fields, materials and methods live in their own tables keyed by exam.
type ExamDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code         string    `gorm:"type:varchar(32);uniqueIndex"`
	Name         string    `gorm:"type:varchar(255);not null"`
	ShortName    string    `gorm:"type:varchar(64)"`
	Group        string    `gorm:"column:exam_group;type:varchar(64)"`
	MinAge       *int
	MaxAge       *int
	AllowedSex   int
	ValidityDays int
	Sessions     int
	EntryMode    int
	PricePrivate int64
	PricePublic  int64
	Active       bool
	Materials    []ExamMaterialDTO `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	Fields       []ExamFieldDTO    `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
	Methods      []ExamMethodDTO   `gorm:"foreignKey:ExamID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for exam entities.
func (ExamDTO) TableName() string {
	return "exams"
}

// ExamMaterialDTO represents one biological material an exam needs collected.
type ExamMaterialDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExamID       uuid.UUID `gorm:"type:uuid;not null;index"`
	MaterialID   uuid.UUID `gorm:"type:uuid"`
	Name         string    `gorm:"type:varchar(255)"`
	Abbreviation string    `gorm:"type:varchar(16)"`
	Quantity     int
}

// TableName specifies the database table name for exam material entities.
func (ExamMaterialDTO) TableName() string {
	return "exam_materials"
}

// ExamFieldDTO represents one structured field an exam's results carry.
type ExamFieldDTO struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExamID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Name     string    `gorm:"type:varchar(255)"`
	Type     int
	Unit     string `gorm:"type:varchar(32)"`
	Required bool
	Position int
	Min      *float64
	Max      *float64
}

// TableName specifies the database table name for exam field entities.
func (ExamFieldDTO) TableName() string {
	return "exam_fields"
}

// ExamMethodDTO represents one analysis method with its reference range.
type ExamMethodDTO struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey"`
	ExamID uuid.UUID `gorm:"type:uuid;not null;index"`
	Name   string    `gorm:"type:varchar(255)"`
	RefMin *float64
	RefMax *float64
}

// TableName specifies the database table name for exam method entities.
func (ExamMethodDTO) TableName() string {
	return "exam_methods"
}

// fromDomain converts an exam definition to its database representation.
func fromDomain(exam *catalog.ExamDefinition) ExamDTO {
	examID := exam.ID.Bytes()

	materials := make([]ExamMaterialDTO, 0, len(exam.Materials))
	for _, m := range exam.Materials {
		materials = append(materials, ExamMaterialDTO{
			ID:           uuid.New(),
			ExamID:       examID,
			MaterialID:   m.MaterialID.Bytes(),
			Name:         m.Name,
			Abbreviation: m.Abbreviation,
			Quantity:     m.Quantity,
		})
	}

	fields := make([]ExamFieldDTO, 0, len(exam.Fields))
	for _, f := range exam.Fields {
		fields = append(fields, ExamFieldDTO{
			ID:       f.ID.Bytes(),
			ExamID:   examID,
			Name:     f.Name,
			Type:     int(f.Type),
			Unit:     f.Unit,
			Required: f.Required,
			Position: f.Position,
			Min:      f.Min,
			Max:      f.Max,
		})
	}

	methods := make([]ExamMethodDTO, 0, len(exam.Methods))
	for _, m := range exam.Methods {
		methods = append(methods, ExamMethodDTO{
			ID:     m.ID.Bytes(),
			ExamID: examID,
			Name:   m.Name,
			RefMin: m.RefMin,
			RefMax: m.RefMax,
		})
	}

	return ExamDTO{
		ID:           examID,
		Code:         exam.Code,
		Name:         exam.Name,
		ShortName:    exam.ShortName,
		Group:        exam.Group,
		MinAge:       exam.MinAge,
		MaxAge:       exam.MaxAge,
		AllowedSex:   int(exam.AllowedSex),
		ValidityDays: exam.ValidityDays,
		Sessions:     exam.Sessions,
		EntryMode:    int(exam.EntryMode),
		PricePrivate: exam.PricePrivate,
		PricePublic:  exam.PricePublic,
		Active:       exam.Active,
		Materials:    materials,
		Fields:       fields,
		Methods:      methods,
	}
}

// toDomain converts a database DTO to an exam definition.
func toDomain(dto ExamDTO) (*catalog.ExamDefinition, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	materials := make([]catalog.MaterialRequirement, 0, len(dto.Materials))
	for _, m := range dto.Materials {
		materialID, materialErr := kernel.UUIDFromBytes(m.MaterialID[:])
		if materialErr != nil {
			return nil, materialErr
		}
		materials = append(materials, catalog.MaterialRequirement{
			MaterialID:   materialID,
			Name:         m.Name,
			Abbreviation: m.Abbreviation,
			Quantity:     m.Quantity,
		})
	}

	fields := make([]catalog.FieldDefinition, 0, len(dto.Fields))
	for _, f := range dto.Fields {
		fieldID, fieldErr := kernel.UUIDFromBytes(f.ID[:])
		if fieldErr != nil {
			return nil, fieldErr
		}
		fields = append(fields, catalog.FieldDefinition{
			ID:       fieldID,
			Name:     f.Name,
			Type:     catalog.FieldType(f.Type),
			Unit:     f.Unit,
			Required: f.Required,
			Position: f.Position,
			Min:      f.Min,
			Max:      f.Max,
		})
	}

	methods := make([]catalog.Method, 0, len(dto.Methods))
	for _, m := range dto.Methods {
		methodID, methodErr := kernel.UUIDFromBytes(m.ID[:])
		if methodErr != nil {
			return nil, methodErr
		}
		methods = append(methods, catalog.Method{
			ID:     methodID,
			Name:   m.Name,
			RefMin: m.RefMin,
			RefMax: m.RefMax,
		})
	}

	return &catalog.ExamDefinition{
		ID:           id,
		Code:         dto.Code,
		Name:         dto.Name,
		ShortName:    dto.ShortName,
		Group:        dto.Group,
		MinAge:       dto.MinAge,
		MaxAge:       dto.MaxAge,
		AllowedSex:   catalog.AllowedSex(dto.AllowedSex),
		ValidityDays: dto.ValidityDays,
		Sessions:     dto.Sessions,
		EntryMode:    catalog.EntryMode(dto.EntryMode),
		PricePrivate: dto.PricePrivate,
		PricePublic:  dto.PricePublic,
		Active:       dto.Active,
		Materials:    materials,
		Fields:       fields,
		Methods:      methods,
	}, nil
}
