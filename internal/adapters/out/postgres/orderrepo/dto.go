// Package orderrepo provides data transfer objects and mapping functions for
// exam order persistence. This package implements the repository pattern for
// the order aggregate, handling the conversion between domain entities and
// database representations.
package orderrepo

import (
	"database/sql/driver"
	"fmt"
	"time"

	"labflow/internal/core/domain/model/kernel"
	"labflow/internal/core/domain/model/order"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Items and deliveries live in their own tables and are loaded together with
// the order row; the derived order status is never stored.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number       string     `gorm:"uniqueIndex"`
	Barcode      string     `gorm:"uniqueIndex"`
	PatientID    uuid.UUID  `gorm:"type:uuid;index"`
	FacilityID   uuid.UUID  `gorm:"type:uuid;index"`
	RequesterID  uuid.UUID  `gorm:"type:uuid"`
	ScheduleID   *uuid.UUID `gorm:"type:uuid"`
	Urgent       bool
	Billing      int
	Notes        string
	CancelReason string
	CreatedAt    time.Time
	Items        []ItemDTO     `gorm:"foreignKey:OrderID"`
	Deliveries   []DeliveryDTO `gorm:"foreignKey:OrderID"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one requested exam within an order. The version column
// guards concurrent updates: every successful write bumps it by one.
type ItemDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID      uuid.UUID `gorm:"type:uuid;index"`
	ExamID       uuid.UUID `gorm:"type:uuid;index"`
	Quantity     int
	Session      int
	Authorized   bool
	AuthNumber   string
	Price        int64
	Status       int `gorm:"index"`
	CancelReason string
	Materials    materialsJSON `gorm:"type:jsonb"`
	CollectedAt  *time.Time
	Version      int
	Result       *ResultDTO `gorm:"foreignKey:ItemID"`
}

// TableName specifies the database table name for order item entities.
func (ItemDTO) TableName() string {
	return "order_items"
}

// ResultDTO represents the findings entered for one order item.
type ResultDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	ItemID     uuid.UUID  `gorm:"type:uuid;uniqueIndex"`
	MethodID   *uuid.UUID `gorm:"type:uuid"`
	EnteredBy  uuid.UUID  `gorm:"type:uuid"`
	EnteredAt  time.Time
	FreeText   string
	Fields     fieldsJSON `gorm:"type:jsonb"`
	ReportRef  string
	Released   bool
	ReleasedAt *time.Time
	Signed     bool
	SignedBy   *uuid.UUID `gorm:"type:uuid"`
	SignedAt   *time.Time
	PrintCount int
}

// TableName specifies the database table name for result entities.
func (ResultDTO) TableName() string {
	return "results"
}

// DeliveryDTO represents one delivery event at the front desk.
type DeliveryDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID           uuid.UUID `gorm:"type:uuid;index"`
	RecipientName     string
	RecipientDocument string
	RecipientRelation string
	DocumentVerified  bool
	BiometricVerified bool
	ItemIDs           itemIDsJSON `gorm:"type:jsonb"`
	DeliveredBy       uuid.UUID   `gorm:"type:uuid"`
	DeliveredAt       time.Time
	Notes             string
}

// TableName specifies the database table name for delivery entities.
func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// materialDTO is the jsonb element for one collected material.
type materialDTO struct {
	MaterialID uuid.UUID `json:"material_id"`
	Quantity   int       `json:"quantity"`
	TubeCode   string    `json:"tube_code,omitempty"`
}

type materialsJSON []materialDTO

func (m materialsJSON) Value() (driver.Value, error) {
	if len(m) == 0 {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *materialsJSON) Scan(value any) error {
	return scanJSON(value, m)
}

// fieldValueDTO is the jsonb element for one structured result value.
type fieldValueDTO struct {
	FieldID uuid.UUID `json:"field_id"`
	Raw     string    `json:"raw"`
	Numeric *float64  `json:"numeric,omitempty"`
	Text    string    `json:"text,omitempty"`
	Altered bool      `json:"altered,omitempty"`
}

type fieldsJSON []fieldValueDTO

func (f fieldsJSON) Value() (driver.Value, error) {
	if len(f) == 0 {
		return nil, nil
	}
	return json.Marshal(f)
}

func (f *fieldsJSON) Scan(value any) error {
	return scanJSON(value, f)
}

type itemIDsJSON []uuid.UUID

func (i itemIDsJSON) Value() (driver.Value, error) {
	if len(i) == 0 {
		return nil, nil
	}
	return json.Marshal(i)
}

func (i *itemIDsJSON) Scan(value any) error {
	return scanJSON(value, i)
}

func scanJSON(value any, dst any) error {
	if value == nil {
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

// fromDomain converts an order domain aggregate to its database representation,
// including item, result and delivery rows.
func fromDomain(aggregate *order.Order) OrderDTO {
	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, itemFromDomain(aggregate.ID(), item))
	}

	deliveries := make([]DeliveryDTO, 0, len(aggregate.Deliveries()))
	for _, delivery := range aggregate.Deliveries() {
		deliveries = append(deliveries, deliveryFromDomain(delivery))
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		Number:       aggregate.Number(),
		Barcode:      aggregate.Barcode(),
		PatientID:    aggregate.PatientID().Bytes(),
		FacilityID:   aggregate.FacilityID().Bytes(),
		RequesterID:  aggregate.RequesterID().Bytes(),
		ScheduleID:   optionalUUIDFromDomain(aggregate.ScheduleID()),
		Urgent:       aggregate.Urgent(),
		Billing:      int(aggregate.Billing()),
		Notes:        aggregate.Notes(),
		CancelReason: aggregate.CancelReason(),
		CreatedAt:    aggregate.CreatedAt(),
		Items:        items,
		Deliveries:   deliveries,
	}
}

func itemFromDomain(orderID kernel.UUID, item *order.Item) ItemDTO {
	materials := make(materialsJSON, 0, len(item.Materials()))
	for _, m := range item.Materials() {
		materials = append(materials, materialDTO{
			MaterialID: m.MaterialID.Bytes(),
			Quantity:   m.Quantity,
			TubeCode:   m.TubeCode,
		})
	}

	var result *ResultDTO
	if item.Result() != nil {
		r := resultFromDomain(item.Result())
		result = &r
	}

	return ItemDTO{
		ID:           item.ID().Bytes(),
		OrderID:      orderID.Bytes(),
		ExamID:       item.ExamID().Bytes(),
		Quantity:     item.Quantity(),
		Session:      item.Session(),
		Authorized:   item.Authorized(),
		AuthNumber:   item.AuthNumber(),
		Price:        item.Price(),
		Status:       int(item.Status()),
		CancelReason: item.CancelReason(),
		Materials:    materials,
		CollectedAt:  item.CollectedAt(),
		Version:      item.Version(),
		Result:       result,
	}
}

func resultFromDomain(result *order.Result) ResultDTO {
	fields := make(fieldsJSON, 0, len(result.Fields()))
	for _, f := range result.Fields() {
		fields = append(fields, fieldValueDTO{
			FieldID: f.FieldID.Bytes(),
			Raw:     f.Raw,
			Numeric: f.Numeric,
			Text:    f.Text,
			Altered: f.Altered,
		})
	}

	return ResultDTO{
		ID:         result.ID().Bytes(),
		ItemID:     result.ItemID().Bytes(),
		MethodID:   optionalUUIDFromDomain(result.MethodID()),
		EnteredBy:  result.EnteredBy().Bytes(),
		EnteredAt:  result.EnteredAt(),
		FreeText:   result.FreeText(),
		Fields:     fields,
		ReportRef:  result.ReportRef(),
		Released:   result.Released(),
		ReleasedAt: result.ReleasedAt(),
		Signed:     result.Signed(),
		SignedBy:   optionalUUIDFromDomain(result.SignedBy()),
		SignedAt:   result.SignedAt(),
		PrintCount: result.PrintCount(),
	}
}

func deliveryFromDomain(delivery *order.Delivery) DeliveryDTO {
	itemIDs := make(itemIDsJSON, 0, len(delivery.ItemIDs()))
	for _, id := range delivery.ItemIDs() {
		itemIDs = append(itemIDs, id.Bytes())
	}

	return DeliveryDTO{
		ID:                delivery.ID().Bytes(),
		OrderID:           delivery.OrderID().Bytes(),
		RecipientName:     delivery.Recipient().Name,
		RecipientDocument: delivery.Recipient().Document,
		RecipientRelation: delivery.Recipient().Relationship,
		DocumentVerified:  delivery.DocumentVerified(),
		BiometricVerified: delivery.BiometricVerified(),
		ItemIDs:           itemIDs,
		DeliveredBy:       delivery.DeliveredBy().Bytes(),
		DeliveredAt:       delivery.DeliveredAt(),
		Notes:             delivery.Notes(),
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// Reconstructs the complete aggregate including items, results and
// delivery events using the Restore constructors.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	patientID, err := kernel.UUIDFromBytes(dto.PatientID[:])
	if err != nil {
		return nil, err
	}

	facilityID, err := kernel.UUIDFromBytes(dto.FacilityID[:])
	if err != nil {
		return nil, err
	}

	requesterID, err := kernel.UUIDFromBytes(dto.RequesterID[:])
	if err != nil {
		return nil, err
	}

	scheduleID, err := optionalUUIDToDomain(dto.ScheduleID)
	if err != nil {
		return nil, err
	}

	items := make([]*order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	deliveries := make([]*order.Delivery, 0, len(dto.Deliveries))
	for _, deliveryDTO := range dto.Deliveries {
		delivery, deliveryErr := deliveryToDomain(deliveryDTO)
		if deliveryErr != nil {
			return nil, deliveryErr
		}
		deliveries = append(deliveries, delivery)
	}

	return order.RestoreOrder(
		id,
		dto.Number,
		dto.Barcode,
		patientID,
		facilityID,
		requesterID,
		scheduleID,
		dto.Urgent,
		order.BillingType(dto.Billing),
		dto.Notes,
		dto.CancelReason,
		items,
		deliveries,
		dto.CreatedAt,
	)
}

func itemToDomain(dto ItemDTO) (*order.Item, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	examID, err := kernel.UUIDFromBytes(dto.ExamID[:])
	if err != nil {
		return nil, err
	}

	materials := make([]order.CollectedMaterial, 0, len(dto.Materials))
	for _, m := range dto.Materials {
		materialID, materialErr := kernel.UUIDFromBytes(m.MaterialID[:])
		if materialErr != nil {
			return nil, materialErr
		}
		materials = append(materials, order.CollectedMaterial{
			MaterialID: materialID,
			Quantity:   m.Quantity,
			TubeCode:   m.TubeCode,
		})
	}

	var result *order.Result
	if dto.Result != nil {
		result, err = resultToDomain(*dto.Result)
		if err != nil {
			return nil, err
		}
	}

	return order.RestoreItem(
		id,
		examID,
		dto.Quantity,
		dto.Session,
		dto.Authorized,
		dto.AuthNumber,
		dto.Price,
		order.ItemStatus(dto.Status),
		dto.CancelReason,
		materials,
		dto.CollectedAt,
		result,
		dto.Version,
	)
}

func resultToDomain(dto ResultDTO) (*order.Result, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	itemID, err := kernel.UUIDFromBytes(dto.ItemID[:])
	if err != nil {
		return nil, err
	}

	methodID, err := optionalUUIDToDomain(dto.MethodID)
	if err != nil {
		return nil, err
	}

	enteredBy, err := kernel.UUIDFromBytes(dto.EnteredBy[:])
	if err != nil {
		return nil, err
	}

	signedBy, err := optionalUUIDToDomain(dto.SignedBy)
	if err != nil {
		return nil, err
	}

	fields := make([]order.FieldValue, 0, len(dto.Fields))
	for _, f := range dto.Fields {
		fieldID, fieldErr := kernel.UUIDFromBytes(f.FieldID[:])
		if fieldErr != nil {
			return nil, fieldErr
		}
		fields = append(fields, order.FieldValue{
			FieldID: fieldID,
			Raw:     f.Raw,
			Numeric: f.Numeric,
			Text:    f.Text,
			Altered: f.Altered,
		})
	}

	return order.RestoreResult(
		id,
		itemID,
		methodID,
		enteredBy,
		dto.EnteredAt,
		dto.FreeText,
		fields,
		dto.ReportRef,
		dto.Released,
		dto.ReleasedAt,
		dto.Signed,
		signedBy,
		dto.SignedAt,
		dto.PrintCount,
	)
}

func deliveryToDomain(dto DeliveryDTO) (*order.Delivery, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	deliveredBy, err := kernel.UUIDFromBytes(dto.DeliveredBy[:])
	if err != nil {
		return nil, err
	}

	itemIDs := make([]kernel.UUID, 0, len(dto.ItemIDs))
	for _, raw := range dto.ItemIDs {
		itemID, itemErr := kernel.UUIDFromBytes(raw[:])
		if itemErr != nil {
			return nil, itemErr
		}
		itemIDs = append(itemIDs, itemID)
	}

	return order.RestoreDelivery(
		id,
		orderID,
		order.Recipient{
			Name:         dto.RecipientName,
			Document:     dto.RecipientDocument,
			Relationship: dto.RecipientRelation,
		},
		dto.DocumentVerified,
		dto.BiometricVerified,
		itemIDs,
		deliveredBy,
		dto.DeliveredAt,
		dto.Notes,
	)
}

func optionalUUIDFromDomain(id *kernel.UUID) *uuid.UUID {
	if id == nil {
		return nil
	}
	raw := id.Bytes()
	return &raw
}

func optionalUUIDToDomain(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}
	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
