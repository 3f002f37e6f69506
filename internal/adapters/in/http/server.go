// Package http exposes the fulfillment core over a JSON HTTP API. It
// coordinates between echo handlers and application use cases; all
// business rules live in the handlers it delegates to.
package http

import (
	"errors"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/assignment"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/model/retailer"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Server wires HTTP routes to command and query handlers.
type Server struct {
	// Command handlers
	createOrderHandler          commands.CreateOrderCommandHandler
	routeOrderHandler           commands.RouteOrderCommandHandler
	recordVendorResponseHandler commands.RecordVendorResponseCommandHandler
	transitionOrderHandler      commands.TransitionOrderCommandHandler
	assignVendorManuallyHandler commands.AssignVendorManuallyCommandHandler
	recordPaymentHandler        commands.RecordPaymentCommandHandler
	reverseLedgerEntryHandler   commands.ReverseLedgerEntryCommandHandler
	verifyLedgerHandler         commands.VerifyLedgerCommandHandler
	setLedgerFreezeHandler      commands.SetLedgerFreezeCommandHandler
	setSafeModeHandler          commands.SetSafeModeCommandHandler

	// Query handlers
	getRetailerLedgerHandler   queries.GetRetailerLedgerQueryHandler
	getVendorRankingHandler    queries.GetVendorRankingQueryHandler
	getActiveOrdersHandler     queries.GetActiveOrdersQueryHandler
	getInterventionLogHandler  queries.GetInterventionLogQueryHandler
}

// NewServer creates an HTTP server with the required handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	routeOrderHandler commands.RouteOrderCommandHandler,
	recordVendorResponseHandler commands.RecordVendorResponseCommandHandler,
	transitionOrderHandler commands.TransitionOrderCommandHandler,
	assignVendorManuallyHandler commands.AssignVendorManuallyCommandHandler,
	recordPaymentHandler commands.RecordPaymentCommandHandler,
	reverseLedgerEntryHandler commands.ReverseLedgerEntryCommandHandler,
	verifyLedgerHandler commands.VerifyLedgerCommandHandler,
	setLedgerFreezeHandler commands.SetLedgerFreezeCommandHandler,
	setSafeModeHandler commands.SetSafeModeCommandHandler,
	getRetailerLedgerHandler queries.GetRetailerLedgerQueryHandler,
	getVendorRankingHandler queries.GetVendorRankingQueryHandler,
	getActiveOrdersHandler queries.GetActiveOrdersQueryHandler,
	getInterventionLogHandler queries.GetInterventionLogQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:          createOrderHandler,
		routeOrderHandler:           routeOrderHandler,
		recordVendorResponseHandler: recordVendorResponseHandler,
		transitionOrderHandler:      transitionOrderHandler,
		assignVendorManuallyHandler: assignVendorManuallyHandler,
		recordPaymentHandler:        recordPaymentHandler,
		reverseLedgerEntryHandler:   reverseLedgerEntryHandler,
		verifyLedgerHandler:         verifyLedgerHandler,
		setLedgerFreezeHandler:      setLedgerFreezeHandler,
		setSafeModeHandler:          setSafeModeHandler,
		getRetailerLedgerHandler:    getRetailerLedgerHandler,
		getVendorRankingHandler:     getVendorRankingHandler,
		getActiveOrdersHandler:      getActiveOrdersHandler,
		getInterventionLogHandler:   getInterventionLogHandler,
	}
}

// RegisterRoutes mounts the API under /api/v1.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")

	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:id/route", s.RouteOrder)
	api.POST("/orders/:id/vendor-response", s.RecordVendorResponse)
	api.POST("/orders/:id/transitions", s.TransitionOrder)
	api.GET("/orders/active", s.GetActiveOrders)
	api.GET("/orders/:id/interventions", s.GetInterventionLog)

	api.POST("/retailers/:id/payments", s.RecordPayment)
	api.GET("/retailers/:id/ledger", s.GetRetailerLedger)

	api.GET("/vendors/ranking", s.GetVendorRanking)

	api.PUT("/admin/orders/:id/vendor", s.AssignVendorManually)
	api.POST("/admin/ledger-entries/:id/reverse", s.ReverseLedgerEntry)
	api.POST("/admin/retailers/:id/ledger/verify", s.VerifyLedger)
	api.PUT("/admin/retailers/:id/ledger/freeze", s.SetLedgerFreeze)
	api.PUT("/admin/safe-mode", s.SetSafeMode)
}

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// NewOrderItem is one line of an incoming order intent.
type NewOrderItem struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unitPrice"`
}

// NewOrder is the order intake request body. Amounts are in cents.
type NewOrder struct {
	RetailerID string         `json:"retailerId"`
	Items      []NewOrderItem `json:"items"`
	PaidAmount int64          `json:"paidAmount"`
}

// CreateOrder handles POST /api/v1/orders.
func (s *Server) CreateOrder(ctx echo.Context) error {
	var body NewOrder
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	retailerID, err := parseUUID(body.RetailerID)
	if err != nil {
		return badRequest(ctx, "Invalid retailer id: "+err.Error())
	}

	items := make([]order.Item, 0, len(body.Items))
	for _, line := range body.Items {
		productID, lineErr := parseUUID(line.ProductID)
		if lineErr != nil {
			return badRequest(ctx, "Invalid product id: "+lineErr.Error())
		}
		item, lineErr := order.NewItem(productID, line.Quantity, kernel.NewMoney(line.UnitPrice))
		if lineErr != nil {
			return badRequest(ctx, "Invalid order item: "+lineErr.Error())
		}
		items = append(items, item)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, retailerID, items, kernel.NewMoney(body.PaidAmount))
	if err != nil {
		return badRequest(ctx, "Invalid order data: "+err.Error())
	}

	if err = s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.JSON(http.StatusCreated, map[string]string{"orderId": orderID.String()})
}

// RouteOrder handles POST /api/v1/orders/:id/route.
func (s *Server) RouteOrder(ctx echo.Context) error {
	orderID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	cmd, err := commands.NewRouteOrderCommand(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.routeOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusAccepted)
}

// VendorResponse is a vendor's accept/reject decision.
type VendorResponse struct {
	VendorID string `json:"vendorId"`
	Accepted bool   `json:"accepted"`
}

// RecordVendorResponse handles POST /api/v1/orders/:id/vendor-response.
func (s *Server) RecordVendorResponse(ctx echo.Context) error {
	orderID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var body VendorResponse
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	vendorID, err := parseUUID(body.VendorID)
	if err != nil {
		return badRequest(ctx, "Invalid vendor id")
	}

	cmd, err := commands.NewRecordVendorResponseCommand(orderID, vendorID, body.Accepted)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.recordVendorResponseHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Transition is a workflow transition request. CollectedAmount applies to
// delivery confirmations where cash was collected.
type Transition struct {
	Target          string `json:"target"`
	Actor           string `json:"actor"`
	CollectedAmount int64  `json:"collectedAmount"`
}

// TransitionOrder handles POST /api/v1/orders/:id/transitions.
func (s *Server) TransitionOrder(ctx echo.Context) error {
	orderID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var body Transition
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	target, ok := parseStatus(body.Target)
	if !ok {
		return badRequest(ctx, "Unknown target status: "+body.Target)
	}

	cmd, err := commands.NewTransitionOrderCommand(orderID, target, body.Actor, kernel.NewMoney(body.CollectedAmount))
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.transitionOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ManualAssignment is an operator's vendor override.
type ManualAssignment struct {
	VendorID string `json:"vendorId"`
	Actor    string `json:"actor"`
}

// AssignVendorManually handles PUT /api/v1/admin/orders/:id/vendor.
func (s *Server) AssignVendorManually(ctx echo.Context) error {
	orderID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	var body ManualAssignment
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	vendorID, err := parseUUID(body.VendorID)
	if err != nil {
		return badRequest(ctx, "Invalid vendor id")
	}

	cmd, err := commands.NewAssignVendorManuallyCommand(orderID, vendorID, body.Actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.assignVendorManuallyHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Payment is an incoming retailer payment. Amount is in cents.
type Payment struct {
	Amount     int64  `json:"amount"`
	PaymentRef string `json:"paymentRef"`
}

// RecordPayment handles POST /api/v1/retailers/:id/payments.
func (s *Server) RecordPayment(ctx echo.Context) error {
	retailerID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid retailer id")
	}

	var body Payment
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewRecordPaymentCommand(retailerID, kernel.NewMoney(body.Amount), body.PaymentRef)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.recordPaymentHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Reversal is an operator's correction request for a ledger entry.
type Reversal struct {
	Reason string `json:"reason"`
}

// ReverseLedgerEntry handles POST /api/v1/admin/ledger-entries/:id/reverse.
func (s *Server) ReverseLedgerEntry(ctx echo.Context) error {
	entryID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid entry id")
	}

	var body Reversal
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewReverseLedgerEntryCommand(entryID, body.Reason)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.reverseLedgerEntryHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// VerifyLedger handles POST /api/v1/admin/retailers/:id/ledger/verify.
// A broken chain reports 409 after freezing the retailer.
func (s *Server) VerifyLedger(ctx echo.Context) error {
	retailerID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid retailer id")
	}

	cmd, err := commands.NewVerifyLedgerCommand(retailerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.verifyLedgerHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// FreezeChange toggles a retailer's ledger freeze.
type FreezeChange struct {
	Frozen bool   `json:"frozen"`
	Actor  string `json:"actor"`
}

// SetLedgerFreeze handles PUT /api/v1/admin/retailers/:id/ledger/freeze.
func (s *Server) SetLedgerFreeze(ctx echo.Context) error {
	retailerID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid retailer id")
	}

	var body FreezeChange
	if err = ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetLedgerFreezeCommand(retailerID, body.Frozen, body.Actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.setLedgerFreezeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SafeModeChange toggles intake suspension.
type SafeModeChange struct {
	Enabled bool   `json:"enabled"`
	Actor   string `json:"actor"`
}

// SetSafeMode handles PUT /api/v1/admin/safe-mode.
func (s *Server) SetSafeMode(ctx echo.Context) error {
	var body SafeModeChange
	if err := ctx.Bind(&body); err != nil {
		return badRequest(ctx, "Invalid request body")
	}

	cmd, err := commands.NewSetSafeModeCommand(body.Enabled, body.Actor)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	if err = s.setSafeModeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return commandError(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// GetRetailerLedger handles GET /api/v1/retailers/:id/ledger.
func (s *Server) GetRetailerLedger(ctx echo.Context) error {
	retailerID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid retailer id")
	}

	query, err := queries.NewGetRetailerLedgerQuery(retailerID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	statement, err := s.getRetailerLedgerHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, statement)
}

// GetVendorRanking handles GET /api/v1/vendors/ranking.
func (s *Server) GetVendorRanking(ctx echo.Context) error {
	ranking, err := s.getVendorRankingHandler.Handle(ctx.Request().Context(), queries.NewGetVendorRankingQuery())
	if err != nil {
		return queryError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, ranking)
}

// GetActiveOrders handles GET /api/v1/orders/active.
func (s *Server) GetActiveOrders(ctx echo.Context) error {
	orders, err := s.getActiveOrdersHandler.Handle(ctx.Request().Context(), queries.NewGetActiveOrdersQuery())
	if err != nil {
		return queryError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orders)
}

// GetInterventionLog handles GET /api/v1/orders/:id/interventions.
func (s *Server) GetInterventionLog(ctx echo.Context) error {
	orderID, err := parseUUID(ctx.Param("id"))
	if err != nil {
		return badRequest(ctx, "Invalid order id")
	}

	query, err := queries.NewGetInterventionLogQuery(orderID)
	if err != nil {
		return badRequest(ctx, err.Error())
	}

	log, err := s.getInterventionLogHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return queryError(ctx, err)
	}

	return ctx.JSON(http.StatusOK, log)
}

func parseUUID(raw string) (kernel.UUID, error) {
	return kernel.UUIDFromString(raw)
}

// parseStatus maps an API status name to the domain status.
func parseStatus(raw string) (order.Status, bool) {
	for _, status := range []order.Status{
		order.Draft, order.Confirmed, order.VendorAssigned, order.Accepted,
		order.Dispatched, order.Delivered, order.Completed, order.Cancelled, order.Failed,
	} {
		if status.String() == raw {
			return status, true
		}
	}
	return order.Unknown, false
}

func badRequest(ctx echo.Context, message string) error {
	return ctx.JSON(http.StatusBadRequest, ErrorResponse{
		Code:    http.StatusBadRequest,
		Message: message,
	})
}

// commandError maps domain rejections to HTTP statuses: missing objects to
// 404, business conflicts to 409, everything else to 500.
func commandError(ctx echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	case isConflict(err):
		return ctx.JSON(http.StatusConflict, ErrorResponse{
			Code:    http.StatusConflict,
			Message: err.Error(),
		})
	default:
		return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
			Code:    http.StatusInternalServerError,
			Message: err.Error(),
		})
	}
}

func isConflict(err error) bool {
	conflicts := []error{
		commands.ErrSafeModeActive,
		commands.ErrRoutingExhausted,
		commands.ErrWindowVendorMismatch,
		commands.ErrVendorIsNotRoutable,
		commands.ErrEntryAlreadyReversed,
		order.ErrInvalidTransition,
		order.ErrPaymentExceedsTotal,
		retailer.ErrCreditLimitExceeded,
		retailer.ErrCreditTierRestricted,
		retailer.ErrLedgerFrozen,
		retailer.ErrDebtUnderflow,
		ledger.ErrChainMismatch,
		assignment.ErrWindowAlreadyClosed,
		assignment.ErrWindowExpired,
	}
	for _, conflict := range conflicts {
		if errors.Is(err, conflict) {
			return true
		}
	}
	return false
}

func queryError(ctx echo.Context, err error) error {
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ctx.JSON(http.StatusNotFound, ErrorResponse{
			Code:    http.StatusNotFound,
			Message: err.Error(),
		})
	}
	return ctx.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    http.StatusInternalServerError,
		Message: "Failed to execute query",
	})
}
