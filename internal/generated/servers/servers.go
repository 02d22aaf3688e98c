package servers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

const (
	BearerAuthScopes = "bearerAuth.Scopes"
)

// Defines values for OrderStatus.
const (
	Delivered OrderStatus = "Delivered"
	Pending   OrderStatus = "Pending"
)

// Error defines model for Error.
type Error struct {
	Code    int32  `json:"code"`
	Message string `json:"message"`
}

// FoodItem defines model for FoodItem.
type FoodItem struct {
	Id    openapi_types.UUID `json:"id"`
	Name  string             `json:"name"`
	Price string             `json:"price"`
}

// NewOrder defines model for NewOrder.
type NewOrder struct {
	Address   string               `json:"address" validate:"required,max=255"`
	FoodItems []openapi_types.UUID `json:"food_items" validate:"required,min=1"`
}

// NewRestaurant defines model for NewRestaurant.
type NewRestaurant struct {
	Address   string   `json:"address" validate:"required,max=255"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Name      string   `json:"name" validate:"required,max=100"`
}

// Order defines model for Order.
type Order struct {
	CourierEngaged        bool               `json:"courier_engaged"`
	CreatedAt             time.Time          `json:"created_at"`
	Distance              float64            `json:"distance"`
	EstimatedDeliveryTime time.Time          `json:"estimated_delivery_time"`
	FoodItems             []FoodItem         `json:"food_items"`
	Id                    openapi_types.UUID `json:"id"`
	RestaurantEngaged     bool               `json:"restaurant_engaged"`
	RestaurantId          openapi_types.UUID `json:"restaurant_id"`
	RestaurantName        *string            `json:"restaurant_name,omitempty"`
	Status                OrderStatus        `json:"status"`
	TotalPrice            string             `json:"total_price"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

// OrderStatus defines model for Order.Status.
type OrderStatus string

// OrderPage defines model for OrderPage.
type OrderPage struct {
	Items    []Order `json:"items"`
	Page     int     `json:"page"`
	PageSize int     `json:"page_size"`
	Total    int64   `json:"total"`
}

// Restaurant defines model for Restaurant.
type Restaurant struct {
	Address     string             `json:"address"`
	Id          openapi_types.UUID `json:"id"`
	IsAvailable bool               `json:"is_available"`
	Latitude    *float64           `json:"latitude,omitempty"`
	Longitude   *float64           `json:"longitude,omitempty"`
	Name        string             `json:"name"`
}

// ListOrdersParams defines parameters for ListOrders.
type ListOrdersParams struct {
	Search   *string `form:"search,omitempty" json:"search,omitempty"`
	Page     *int    `form:"page,omitempty" json:"page,omitempty"`
	PageSize *int    `form:"page_size,omitempty" json:"page_size,omitempty"`
}

// CreateOrderJSONRequestBody defines body for CreateOrder for application/json ContentType.
type CreateOrderJSONRequestBody = NewOrder

// CreateRestaurantJSONRequestBody defines body for CreateRestaurant for application/json ContentType.
type CreateRestaurantJSONRequestBody = NewRestaurant

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// List orders, all of them for admins and the caller's own otherwise
	// (GET /api/v1/orders)
	ListOrders(ctx echo.Context, params ListOrdersParams) error
	// Place an order with the nearest available restaurant
	// (POST /api/v1/orders)
	CreateOrder(ctx echo.Context) error
	// Read one of the caller's orders
	// (GET /api/v1/orders/{orderId})
	GetOrder(ctx echo.Context, orderId openapi_types.UUID) error
	// Register a restaurant, geocoding its address when no coordinates are given
	// (POST /api/v1/restaurants)
	CreateRestaurant(ctx echo.Context) error
}

// ServerInterfaceWrapper converts echo contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler ServerInterface
}

// ListOrders converts echo context to params.
func (w *ServerInterfaceWrapper) ListOrders(ctx echo.Context) error {
	var err error

	ctx.Set(BearerAuthScopes, []string{})

	var params ListOrdersParams

	err = runtime.BindQueryParameter("form", true, false, "search", ctx.QueryParams(), &params.Search)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter search: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "page", ctx.QueryParams(), &params.Page)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter page: %s", err))
	}

	err = runtime.BindQueryParameter("form", true, false, "page_size", ctx.QueryParams(), &params.PageSize)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter page_size: %s", err))
	}

	err = w.Handler.ListOrders(ctx, params)
	return err
}

// CreateOrder converts echo context to params.
func (w *ServerInterfaceWrapper) CreateOrder(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.CreateOrder(ctx)
}

// GetOrder converts echo context to params.
func (w *ServerInterfaceWrapper) GetOrder(ctx echo.Context) error {
	var err error
	var orderId openapi_types.UUID

	err = runtime.BindStyledParameterWithLocation("simple", false, "orderId", runtime.ParamLocationPath, ctx.Param("orderId"), &orderId)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("Invalid format for parameter orderId: %s", err))
	}

	ctx.Set(BearerAuthScopes, []string{})

	err = w.Handler.GetOrder(ctx, orderId)
	return err
}

// CreateRestaurant converts echo context to params.
func (w *ServerInterfaceWrapper) CreateRestaurant(ctx echo.Context) error {
	ctx.Set(BearerAuthScopes, []string{})

	return w.Handler.CreateRestaurant(ctx)
}

// EchoRouter is the subset of echo.Echo and echo.Group the handlers are registered on.
type EchoRouter interface {
	GET(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
	POST(path string, h echo.HandlerFunc, m ...echo.MiddlewareFunc) *echo.Route
}

// RegisterHandlers adds each server route to the EchoRouter.
func RegisterHandlers(router EchoRouter, si ServerInterface) {
	RegisterHandlersWithBaseURL(router, si, "")
}

// RegisterHandlersWithBaseURL registers handlers under baseURL, which is
// useful when the API sits behind a path prefix.
func RegisterHandlersWithBaseURL(router EchoRouter, si ServerInterface, baseURL string) {
	wrapper := ServerInterfaceWrapper{
		Handler: si,
	}

	router.GET(baseURL+"/api/v1/orders", wrapper.ListOrders)
	router.POST(baseURL+"/api/v1/orders", wrapper.CreateOrder)
	router.GET(baseURL+"/api/v1/orders/:orderId", wrapper.GetOrder)
	router.POST(baseURL+"/api/v1/restaurants", wrapper.CreateRestaurant)
}
