// Package http exposes the order workflow over a REST API.
// It coordinates between HTTP handlers and application use cases: requests
// are bound and validated here, business rules stay in the command and query
// handlers, and domain errors are translated to status codes in writeError.
package http

import (
	"net/http"
	"time"

	"labflow/internal/core/application/usecases/commands"
	"labflow/internal/core/application/usecases/queries"
	"labflow/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// Server handles the REST endpoints of the laboratory order workflow.
type Server struct {
	// Command handlers
	createOrderHandler        commands.CreateOrderCommandHandler
	registerCollectionHandler commands.RegisterCollectionCommandHandler
	saveResultHandler         commands.SaveResultCommandHandler
	signResultHandler         commands.SignResultCommandHandler
	registerDeliveryHandler   commands.RegisterDeliveryCommandHandler
	cancelOrderHandler        commands.CancelOrderCommandHandler

	// Query handlers
	getOrderHandler    queries.GetOrderQueryHandler
	getWorklistHandler queries.GetWorklistQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	registerCollectionHandler commands.RegisterCollectionCommandHandler,
	saveResultHandler commands.SaveResultCommandHandler,
	signResultHandler commands.SignResultCommandHandler,
	registerDeliveryHandler commands.RegisterDeliveryCommandHandler,
	cancelOrderHandler commands.CancelOrderCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getWorklistHandler queries.GetWorklistQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:        createOrderHandler,
		registerCollectionHandler: registerCollectionHandler,
		saveResultHandler:         saveResultHandler,
		signResultHandler:         signResultHandler,
		registerDeliveryHandler:   registerDeliveryHandler,
		cancelOrderHandler:        cancelOrderHandler,
		getOrderHandler:           getOrderHandler,
		getWorklistHandler:        getWorklistHandler,
	}
}

// RegisterRoutes wires the API endpoints onto the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.FindOrder)
	api.GET("/orders/:orderId", s.GetOrder)
	api.POST("/orders/:orderId/collections", s.RegisterCollection)
	api.POST("/orders/:orderId/items/:itemId/result", s.SaveResult)
	api.POST("/orders/:orderId/items/:itemId/signature", s.SignResult)
	api.POST("/orders/:orderId/deliveries", s.RegisterDelivery)
	api.POST("/orders/:orderId/cancellation", s.CancelOrder)
	api.GET("/facilities/:facilityId/worklists/:stage", s.GetWorklist)
	api.GET("/worklists/:stage", s.GetWorklist)
}

// CreateOrder handles POST /api/v1/orders - opens a new exam order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var request CreateOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	patientID, err := kernel.UUIDFromString(request.PatientID)
	if err != nil {
		return badRequest(ctx, "Invalid patient id")
	}
	facilityID, err := kernel.UUIDFromString(request.FacilityID)
	if err != nil {
		return badRequest(ctx, "Invalid facility id")
	}
	requesterID, err := kernel.UUIDFromString(request.RequesterID)
	if err != nil {
		return badRequest(ctx, "Invalid requester id")
	}
	scheduleID, err := optionalUUID(request.ScheduleID)
	if err != nil {
		return badRequest(ctx, "Invalid schedule id")
	}
	billing, err := parseBilling(request.Billing)
	if err != nil {
		return badRequest(ctx, "Invalid billing type")
	}

	items := make([]commands.OrderItemRequest, 0, len(request.Items))
	for _, item := range request.Items {
		examID, examErr := kernel.UUIDFromString(item.ExamID)
		if examErr != nil {
			return badRequest(ctx, "Invalid exam id")
		}
		items = append(items, commands.OrderItemRequest{
			ExamID:     examID,
			Quantity:   item.Quantity,
			Session:    item.Session,
			Authorized: item.Authorized,
			AuthNumber: item.AuthNumber,
		})
	}

	cmd, err := commands.NewCreateOrderCommand(
		patientID, facilityID, requesterID, scheduleID,
		request.Urgent, billing, request.Barcode, request.Notes, items,
	)
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	result, err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return writeError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, CreateOrderResponse{
		OrderID: result.OrderID.String(),
		Number:  result.Number,
		Barcode: result.Barcode,
	})
}

// GetOrder handles GET /api/v1/orders/{orderId} - retrieves one order.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetOrderQueryByID(orderID)
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	return s.respondWithOrder(ctx, query)
}

// FindOrder handles GET /api/v1/orders?number=|barcode= - looks an order up
// by printed protocol number or scanned barcode.
func (s *Server) FindOrder(ctx echo.Context) error {
	queryParams := ctx.Request().URL.Query()

	var number, barcode string
	if err := runtime.BindQueryParameter("form", true, false, "number", queryParams, &number); err != nil {
		return badRequest(ctx, "Invalid number parameter")
	}
	if err := runtime.BindQueryParameter("form", true, false, "barcode", queryParams, &barcode); err != nil {
		return badRequest(ctx, "Invalid barcode parameter")
	}

	var (
		query queries.GetOrderQuery
		err   error
	)
	switch {
	case number != "":
		query, err = queries.NewGetOrderQueryByNumber(number)
	case barcode != "":
		query, err = queries.NewGetOrderQueryByBarcode(barcode)
	default:
		return badRequest(ctx, "A number or barcode parameter is required")
	}
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	return s.respondWithOrder(ctx, query)
}

func (s *Server) respondWithOrder(ctx echo.Context, query queries.GetOrderQuery) error {
	result, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := OrderResponse{
		ID:           result.ID.String(),
		Number:       result.Number,
		Barcode:      result.Barcode,
		PatientID:    result.PatientID.String(),
		FacilityID:   result.FacilityID.String(),
		Status:       result.Status,
		Urgent:       result.Urgent,
		CancelReason: result.CancelReason,
		CreatedAt:    result.CreatedAt,
		Items:        make([]OrderItemResponse, 0, len(result.Items)),
	}
	for _, item := range result.Items {
		response.Items = append(response.Items, OrderItemResponse{
			ID:           item.ID.String(),
			ExamID:       item.ExamID.String(),
			Status:       item.Status,
			Price:        item.Price,
			CancelReason: item.CancelReason,
			CollectedAt:  item.CollectedAt,
			Released:     item.Released,
			Signed:       item.Signed,
			Version:      item.Version,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

// RegisterCollection handles POST /api/v1/orders/{orderId}/collections.
func (s *Server) RegisterCollection(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request RegisterCollectionRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	itemID, err := optionalUUID(request.ItemID)
	if err != nil {
		return badRequest(ctx, "Invalid item id")
	}

	materials := make([]commands.CollectedMaterialRequest, 0, len(request.Materials))
	for _, m := range request.Materials {
		materialID, materialErr := kernel.UUIDFromString(m.MaterialID)
		if materialErr != nil {
			return badRequest(ctx, "Invalid material id")
		}
		materials = append(materials, commands.CollectedMaterialRequest{
			MaterialID: materialID,
			Quantity:   m.Quantity,
			TubeCode:   m.TubeCode,
		})
	}

	var collectedAt time.Time
	if request.CollectedAt != nil {
		collectedAt = *request.CollectedAt
	}

	cmd, err := commands.NewRegisterCollectionCommand(orderID, itemID, materials, collectedAt)
	if err != nil {
		return badRequest(ctx, "Invalid collection data: "+err.Error())
	}

	if err := s.registerCollectionHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SaveResult handles POST /api/v1/orders/{orderId}/items/{itemId}/result.
func (s *Server) SaveResult(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return badRequest(ctx, "Invalid item id")
	}

	var request SaveResultRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	methodID, err := optionalUUID(request.MethodID)
	if err != nil {
		return badRequest(ctx, "Invalid method id")
	}
	enteredBy, err := kernel.UUIDFromString(request.EnteredBy)
	if err != nil {
		return badRequest(ctx, "Invalid entered_by id")
	}

	fields := make([]commands.FieldValueRequest, 0, len(request.Fields))
	for _, f := range request.Fields {
		fieldID, fieldErr := kernel.UUIDFromString(f.FieldID)
		if fieldErr != nil {
			return badRequest(ctx, "Invalid field id")
		}
		fields = append(fields, commands.FieldValueRequest{
			FieldID: fieldID,
			Value:   f.Value,
		})
	}

	cmd, err := commands.NewSaveResultCommand(
		orderID, itemID, methodID,
		request.FreeText, fields, request.Release,
		enteredBy, time.Now().UTC(),
	)
	if err != nil {
		return badRequest(ctx, "Invalid result data: "+err.Error())
	}

	if err := s.saveResultHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SignResult handles POST /api/v1/orders/{orderId}/items/{itemId}/signature.
func (s *Server) SignResult(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}
	itemID, err := kernel.UUIDFromString(ctx.Param("itemId"))
	if err != nil {
		return badRequest(ctx, "Invalid item id")
	}

	var request SignResultRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	signerID, err := kernel.UUIDFromString(request.SignerID)
	if err != nil {
		return badRequest(ctx, "Invalid signer id")
	}

	cmd, err := commands.NewSignResultCommand(orderID, itemID, signerID, time.Now().UTC())
	if err != nil {
		return badRequest(ctx, "Invalid signature data: "+err.Error())
	}

	if err := s.signResultHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// RegisterDelivery handles POST /api/v1/orders/{orderId}/deliveries.
func (s *Server) RegisterDelivery(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request RegisterDeliveryRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	itemIDs := make([]kernel.UUID, 0, len(request.ItemIDs))
	for _, raw := range request.ItemIDs {
		itemID, itemErr := kernel.UUIDFromString(raw)
		if itemErr != nil {
			return badRequest(ctx, "Invalid item id")
		}
		itemIDs = append(itemIDs, itemID)
	}

	deliveredBy, err := kernel.UUIDFromString(request.DeliveredBy)
	if err != nil {
		return badRequest(ctx, "Invalid delivered_by id")
	}

	cmd, err := commands.NewRegisterDeliveryCommand(
		orderID, itemIDs,
		request.RecipientName, request.RecipientDocument, request.Relationship,
		request.DocumentVerified, request.BiometricVerified,
		deliveredBy, time.Now().UTC(), request.Notes,
	)
	if err != nil {
		return badRequest(ctx, "Invalid delivery data: "+err.Error())
	}

	if err := s.registerDeliveryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// CancelOrder handles POST /api/v1/orders/{orderId}/cancellation.
func (s *Server) CancelOrder(ctx echo.Context) error {
	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var request CancelOrderRequest
	if err := ctx.Bind(&request); err != nil {
		return badRequest(ctx, "Invalid request body")
	}
	if err := ctx.Validate(&request); err != nil {
		return err
	}

	itemID, err := optionalUUID(request.ItemID)
	if err != nil {
		return badRequest(ctx, "Invalid item id")
	}

	cmd, err := commands.NewCancelOrderCommand(orderID, itemID, request.Reason)
	if err != nil {
		return badRequest(ctx, "Invalid cancellation data: "+err.Error())
	}

	if err := s.cancelOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return writeError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetWorklist handles GET /api/v1/facilities/{facilityId}/worklists/{stage}
// and the cross-facility GET /api/v1/worklists/{stage}.
func (s *Server) GetWorklist(ctx echo.Context) error {
	var facilityID *kernel.UUID
	if raw := ctx.Param("facilityId"); raw != "" {
		id, err := kernel.UUIDFromString(raw)
		if err != nil {
			return badRequest(ctx, "Invalid facility id")
		}
		facilityID = &id
	}

	var (
		query queries.GetWorklistQuery
		err   error
	)
	switch ctx.Param("stage") {
	case "awaiting-collection":
		query, err = queries.NewAwaitingCollectionWorklistQuery(facilityID)
	case "pending-results":
		query, err = queries.NewPendingResultsWorklistQuery(facilityID)
	case "pending-signature":
		query, err = queries.NewPendingSignatureWorklistQuery(facilityID)
	case "ready-for-delivery":
		query, err = queries.NewReadyForDeliveryWorklistQuery(facilityID)
	default:
		return badRequest(ctx, "Unknown worklist stage")
	}
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	entries, err := s.getWorklistHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return writeError(ctx, err)
	}

	response := make([]WorklistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		response = append(response, WorklistEntryResponse{
			OrderID:     entry.OrderID.String(),
			OrderNumber: entry.OrderNumber,
			Barcode:     entry.Barcode,
			ItemID:      entry.ItemID.String(),
			ExamID:      entry.ExamID.String(),
			PatientID:   entry.PatientID.String(),
			Status:      entry.Status,
			Urgent:      entry.Urgent,
			CreatedAt:   entry.CreatedAt,
		})
	}

	return ctx.JSON(http.StatusOK, response)
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

func optionalUUID(raw *string) (*kernel.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
