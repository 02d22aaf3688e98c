package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/core/application/usecases/queries"
	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/core/domain/model/order"
	"fooddispatch/internal/core/domain/model/restaurant"
	"fooddispatch/internal/generated/servers"
	"fooddispatch/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

type PlaceOrderHandler interface {
	Handle(ctx context.Context, cmd commands.PlaceOrderCommand) (*order.Order, error)
}

type RegisterRestaurantHandler interface {
	Handle(ctx context.Context, cmd commands.RegisterRestaurantCommand) (*restaurant.Restaurant, error)
}

type GetOrderHandler interface {
	Handle(ctx context.Context, query queries.GetOrderQuery) (*queries.GetOrderQueryResponse, error)
}

type ListOrdersHandler interface {
	Handle(ctx context.Context, query queries.ListOrdersQuery) (*queries.ListOrdersQueryResponse, error)
}

var _ servers.ServerInterface = (*Server)(nil)

// Server implements the ServerInterface for handling HTTP requests.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler         PlaceOrderHandler
	registerRestaurantHandler RegisterRestaurantHandler

	// Query handlers
	getOrderHandler   GetOrderHandler
	listOrdersHandler ListOrdersHandler

	metrics *metrics.DispatchMetrics
	logger  *slog.Logger
}

// NewServer creates a new HTTP server with the required command and query handlers.
// dispatchMetrics may be nil.
func NewServer(
	placeOrderHandler PlaceOrderHandler,
	registerRestaurantHandler RegisterRestaurantHandler,
	getOrderHandler GetOrderHandler,
	listOrdersHandler ListOrdersHandler,
	dispatchMetrics *metrics.DispatchMetrics,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		placeOrderHandler:         placeOrderHandler,
		registerRestaurantHandler: registerRestaurantHandler,
		getOrderHandler:           getOrderHandler,
		listOrdersHandler:         listOrdersHandler,
		metrics:                   dispatchMetrics,
		logger:                    logger.With("component", "HTTPServer"),
	}
}

// CreateOrder handles POST /api/v1/orders - places an order with the nearest
// available restaurant.
func (s *Server) CreateOrder(ctx echo.Context) error {
	identity, ok := IdentityFrom(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusUnauthorized, "Unauthorized")
	}

	var body servers.CreateOrderJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	foodItemIDs, err := toKernelIDs(body.FoodItems)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid food item id: "+err.Error())
	}

	cmd, err := commands.NewPlaceOrderCommand(identity.UserID, body.Address, foodItemIDs)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	reqCtx := ctx.Request().Context()
	started := time.Now()
	placed, err := s.placeOrderHandler.Handle(reqCtx, cmd)
	s.metrics.Observe(dispatchOutcome(err), time.Since(started))
	if err != nil {
		return s.useCaseError(ctx, err, "Failed to place order")
	}

	return ctx.JSON(http.StatusCreated, s.placedOrder(reqCtx, placed))
}

// placedOrder reads the committed order back so the response carries restaurant
// and food item names. If that read fails the aggregate itself is returned.
func (s *Server) placedOrder(ctx context.Context, placed *order.Order) servers.Order {
	query, err := queries.NewGetOrderQuery(placed.ID(), placed.UserID())
	if err == nil {
		var details *queries.GetOrderQueryResponse
		details, err = s.getOrderHandler.Handle(ctx, query)
		if err == nil {
			return toOrder(*details)
		}
	}

	s.logger.WarnContext(ctx, "failed to read placed order",
		"order_id", placed.ID().String(),
		"error", err)
	return fromAggregate(placed)
}

// GetOrder handles GET /api/v1/orders/{orderId} - reads one of the caller's orders.
func (s *Server) GetOrder(ctx echo.Context, orderID openapi_types.UUID) error {
	identity, ok := IdentityFrom(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusUnauthorized, "Unauthorized")
	}

	id, err := kernel.UUIDFromRaw(orderID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid order id: "+err.Error())
	}

	query, err := queries.NewGetOrderQuery(id, identity.UserID)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	details, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.useCaseError(ctx, err, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, toOrder(*details))
}

// ListOrders handles GET /api/v1/orders - pages through the caller's orders,
// or through every order for admins.
func (s *Server) ListOrders(ctx echo.Context, params servers.ListOrdersParams) error {
	identity, ok := IdentityFrom(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusUnauthorized, "Unauthorized")
	}

	query, err := queries.NewListOrdersQuery(
		identity.UserID,
		identity.IsAdmin,
		deref(params.Search),
		deref(params.Page),
		deref(params.PageSize),
	)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	page, err := s.listOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.useCaseError(ctx, err, "Failed to retrieve orders")
	}

	response := servers.OrderPage{
		Items:    make([]servers.Order, len(page.Items)),
		Page:     page.Page,
		PageSize: page.PageSize,
		Total:    page.Total,
	}
	for i, item := range page.Items {
		response.Items[i] = toOrder(item)
	}

	return ctx.JSON(http.StatusOK, response)
}

// CreateRestaurant handles POST /api/v1/restaurants - registers a restaurant.
// Admins only.
func (s *Server) CreateRestaurant(ctx echo.Context) error {
	identity, ok := IdentityFrom(ctx)
	if !ok {
		return errorResponse(ctx, http.StatusUnauthorized, "Unauthorized")
	}
	if !identity.IsAdmin {
		return errorResponse(ctx, http.StatusForbidden, "Only administrators can register restaurants")
	}

	var body servers.CreateRestaurantJSONRequestBody
	if err := ctx.Bind(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid request body")
	}
	if err := ctx.Validate(&body); err != nil {
		return errorResponse(ctx, http.StatusBadRequest, err.Error())
	}

	var location *kernel.GeoPoint
	switch {
	case body.Latitude != nil && body.Longitude != nil:
		point, err := kernel.NewGeoPoint(*body.Latitude, *body.Longitude)
		if err != nil {
			return errorResponse(ctx, http.StatusBadRequest, "Invalid location: "+err.Error())
		}
		location = &point
	case body.Latitude != nil || body.Longitude != nil:
		return errorResponse(ctx, http.StatusBadRequest, "latitude and longitude must be given together")
	}

	cmd, err := commands.NewRegisterRestaurantCommand(body.Name, body.Address, location)
	if err != nil {
		return errorResponse(ctx, http.StatusBadRequest, "Invalid restaurant data: "+err.Error())
	}

	registered, err := s.registerRestaurantHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return s.useCaseError(ctx, err, "Failed to register restaurant")
	}

	return ctx.JSON(http.StatusCreated, toRestaurant(registered))
}

func toKernelIDs(ids []openapi_types.UUID) ([]kernel.UUID, error) {
	out := make([]kernel.UUID, 0, len(ids))
	var errList []error
	for _, raw := range ids {
		id, err := kernel.UUIDFromRaw(raw)
		if err != nil {
			errList = append(errList, err)
			continue
		}
		out = append(out, id)
	}
	return out, errors.Join(errList...)
}

func toOrder(details queries.GetOrderQueryResponse) servers.Order {
	items := make([]servers.FoodItem, len(details.FoodItems))
	for i, item := range details.FoodItems {
		items[i] = servers.FoodItem{
			Id:    item.ID.Raw(),
			Name:  item.Name,
			Price: item.Price.String(),
		}
	}

	name := details.RestaurantName
	return servers.Order{
		Id:                    details.ID.Raw(),
		RestaurantId:          details.RestaurantID.Raw(),
		RestaurantName:        &name,
		FoodItems:             items,
		Distance:              details.DistanceKm,
		TotalPrice:            details.TotalPrice.String(),
		Status:                servers.OrderStatus(details.Status),
		RestaurantEngaged:     details.RestaurantEngaged,
		CourierEngaged:        details.CourierEngaged,
		EstimatedDeliveryTime: details.EstimatedDeliveryTime,
		CreatedAt:             details.CreatedAt,
		UpdatedAt:             details.UpdatedAt,
	}
}

// fromAggregate carries food item ids only; names and prices live in the catalog.
func fromAggregate(o *order.Order) servers.Order {
	ids := o.FoodItemIDs()
	items := make([]servers.FoodItem, len(ids))
	for i, id := range ids {
		items[i] = servers.FoodItem{Id: id.Raw()}
	}

	return servers.Order{
		Id:                    o.ID().Raw(),
		RestaurantId:          o.RestaurantID().Raw(),
		FoodItems:             items,
		Distance:              o.DistanceKm(),
		TotalPrice:            o.TotalPrice().String(),
		Status:                servers.OrderStatus(o.Status().String()),
		RestaurantEngaged:     o.IsRestaurantEngaged(),
		CourierEngaged:        o.IsCourierEngaged(),
		EstimatedDeliveryTime: o.EstimatedDeliveryTime(),
		CreatedAt:             o.CreatedAt(),
		UpdatedAt:             o.UpdatedAt(),
	}
}

func toRestaurant(r *restaurant.Restaurant) servers.Restaurant {
	resp := servers.Restaurant{
		Id:          r.ID().Raw(),
		Name:        r.Name(),
		Address:     r.Address(),
		IsAvailable: r.IsAvailable(),
	}
	if point, ok := r.Location(); ok {
		lat, lon := point.Latitude(), point.Longitude()
		resp.Latitude = &lat
		resp.Longitude = &lon
	}
	return resp
}

func deref[T any](v *T) T {
	var zero T
	if v == nil {
		return zero
	}
	return *v
}
