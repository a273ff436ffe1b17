package http

import (
	"time"

	"labflow/internal/core/domain/model/order"
	"labflow/internal/pkg/errs"
)

// CreateOrderRequest is the body of POST /api/v1/orders.
type CreateOrderRequest struct {
	PatientID   string                 `json:"patient_id" validate:"required,uuid"`
	FacilityID  string                 `json:"facility_id" validate:"required,uuid"`
	RequesterID string                 `json:"requester_id" validate:"required,uuid"`
	ScheduleID  *string                `json:"schedule_id,omitempty" validate:"omitempty,uuid"`
	Urgent      bool                   `json:"urgent"`
	Billing     string                 `json:"billing" validate:"required,oneof=public private insurance"`
	Barcode     string                 `json:"barcode"`
	Notes       string                 `json:"notes"`
	Items       []CreateOrderItemInput `json:"items" validate:"required,min=1,dive"`
}

// CreateOrderItemInput is one requested exam within an intake request.
type CreateOrderItemInput struct {
	ExamID     string `json:"exam_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"omitempty,min=1"`
	Session    int    `json:"session" validate:"omitempty,min=1"`
	Authorized bool   `json:"authorized"`
	AuthNumber string `json:"auth_number"`
}

// CreateOrderResponse reports the identifiers assigned at intake.
type CreateOrderResponse struct {
	OrderID string `json:"order_id"`
	Number  string `json:"number"`
	Barcode string `json:"barcode"`
}

// RegisterCollectionRequest is the body of POST /api/v1/orders/{orderId}/collections.
// Without an item id, every item awaiting collection is collected.
type RegisterCollectionRequest struct {
	ItemID      *string                  `json:"item_id,omitempty" validate:"omitempty,uuid"`
	Materials   []CollectedMaterialInput `json:"materials" validate:"dive"`
	CollectedAt *time.Time               `json:"collected_at,omitempty"`
}

// CollectedMaterialInput is one collected biological material.
type CollectedMaterialInput struct {
	MaterialID string `json:"material_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity" validate:"omitempty,min=1"`
	TubeCode   string `json:"tube_code"`
}

// SaveResultRequest is the body of POST /api/v1/orders/{orderId}/items/{itemId}/result.
type SaveResultRequest struct {
	MethodID  *string           `json:"method_id,omitempty" validate:"omitempty,uuid"`
	FreeText  string            `json:"free_text"`
	Fields    []FieldValueInput `json:"fields" validate:"dive"`
	Release   bool              `json:"release"`
	EnteredBy string            `json:"entered_by" validate:"required,uuid"`
}

// FieldValueInput is one raw field value of a result entry.
type FieldValueInput struct {
	FieldID string `json:"field_id" validate:"required,uuid"`
	Value   string `json:"value"`
}

// SignResultRequest is the body of POST /api/v1/orders/{orderId}/items/{itemId}/signature.
type SignResultRequest struct {
	SignerID string `json:"signer_id" validate:"required,uuid"`
}

// RegisterDeliveryRequest is the body of POST /api/v1/orders/{orderId}/deliveries.
// An empty item list delivers every signed item of the order.
type RegisterDeliveryRequest struct {
	ItemIDs           []string `json:"item_ids" validate:"dive,uuid"`
	RecipientName     string   `json:"recipient_name" validate:"required"`
	RecipientDocument string   `json:"recipient_document"`
	Relationship      string   `json:"relationship"`
	DocumentVerified  bool     `json:"document_verified"`
	BiometricVerified bool     `json:"biometric_verified"`
	DeliveredBy       string   `json:"delivered_by" validate:"required,uuid"`
	Notes             string   `json:"notes"`
}

// CancelOrderRequest is the body of POST /api/v1/orders/{orderId}/cancellation.
// With an item id only that item is cancelled; otherwise the whole order.
type CancelOrderRequest struct {
	ItemID *string `json:"item_id,omitempty" validate:"omitempty,uuid"`
	Reason string  `json:"reason" validate:"required"`
}

// OrderResponse is the read model returned by the order endpoints.
type OrderResponse struct {
	ID           string              `json:"id"`
	Number       string              `json:"number"`
	Barcode      string              `json:"barcode"`
	PatientID    string              `json:"patient_id"`
	FacilityID   string              `json:"facility_id"`
	Status       string              `json:"status"`
	Urgent       bool                `json:"urgent"`
	CancelReason string              `json:"cancel_reason,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	Items        []OrderItemResponse `json:"items"`
}

// OrderItemResponse is one item on the order read model.
type OrderItemResponse struct {
	ID           string     `json:"id"`
	ExamID       string     `json:"exam_id"`
	Status       string     `json:"status"`
	Price        int64      `json:"price"`
	CancelReason string     `json:"cancel_reason,omitempty"`
	CollectedAt  *time.Time `json:"collected_at,omitempty"`
	Released     bool       `json:"released"`
	Signed       bool       `json:"signed"`
	Version      int        `json:"version"`
}

// WorklistEntryResponse is one pending item on a station worklist.
type WorklistEntryResponse struct {
	OrderID     string    `json:"order_id"`
	OrderNumber string    `json:"order_number"`
	Barcode     string    `json:"barcode"`
	ItemID      string    `json:"item_id"`
	ExamID      string    `json:"exam_id"`
	PatientID   string    `json:"patient_id"`
	Status      string    `json:"status"`
	Urgent      bool      `json:"urgent"`
	CreatedAt   time.Time `json:"created_at"`
}

// parseBilling maps the wire billing name to its domain value.
func parseBilling(billing string) (order.BillingType, error) {
	switch billing {
	case "public":
		return order.BillingPublic, nil
	case "private":
		return order.BillingPrivate, nil
	case "insurance":
		return order.BillingInsurance, nil
	default:
		return order.BillingUnknown, errs.NewValueIsInvalidError("billing")
	}
}
