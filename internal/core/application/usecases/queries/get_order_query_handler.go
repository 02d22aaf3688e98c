package queries

import (
	"context"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrderQueryHandler reads an order, its restaurant name and its food items
// with plain SQL.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns *errs.ObjectNotFoundError when the order does not exist or
// belongs to another user.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (*GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.id,
			o.restaurant_id,
			r.name,
			o.distance_km,
			o.total_price,
			o.status,
			o.restaurant_engaged,
			o.courier_engaged,
			o.estimated_delivery_time,
			o.created_at,
			o.updated_at
		FROM orders o
		JOIN restaurants r ON r.id = o.restaurant_id
		WHERE o.id = ? AND o.user_id = ?
	`, query.OrderID().Raw(), query.UserID()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err = rows.Err(); err != nil {
			return nil, err
		}
		return nil, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}

	resp, err := scanOrderRow(rows)
	if err != nil {
		return nil, err
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	items, err := loadFoodItems(ctx, h.db, []uuid.UUID{resp.ID.Raw()})
	if err != nil {
		return nil, err
	}
	resp.FoodItems = items[resp.ID.Raw()]
	if resp.FoodItems == nil {
		resp.FoodItems = []FoodItemResponse{}
	}

	return resp, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrderRow(rows rowScanner) (*GetOrderQueryResponse, error) {
	var (
		resp             GetOrderQueryResponse
		id, restaurantID uuid.UUID
		total            decimal.Decimal
	)

	if err := rows.Scan(
		&id,
		&restaurantID,
		&resp.RestaurantName,
		&resp.DistanceKm,
		&total,
		&resp.Status,
		&resp.RestaurantEngaged,
		&resp.CourierEngaged,
		&resp.EstimatedDeliveryTime,
		&resp.CreatedAt,
		&resp.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if resp.ID, err = kernel.UUIDFromRaw(id); err != nil {
		return nil, err
	}
	if resp.RestaurantID, err = kernel.UUIDFromRaw(restaurantID); err != nil {
		return nil, err
	}
	if resp.TotalPrice, err = kernel.NewMoney(total); err != nil {
		return nil, err
	}

	return &resp, nil
}

// loadFoodItems returns the food items of every order in orderIDs, keyed by
// order and kept in their stored position. Items missing from the catalog
// are listed with an empty name and a zero price.
func loadFoodItems(ctx context.Context, db *gorm.DB, orderIDs []uuid.UUID) (map[uuid.UUID][]FoodItemResponse, error) {
	result := make(map[uuid.UUID][]FoodItemResponse, len(orderIDs))
	if len(orderIDs) == 0 {
		return result, nil
	}

	rows, err := db.WithContext(ctx).Raw(`
		SELECT
			i.order_id,
			i.food_id,
			COALESCE(f.name, ''),
			COALESCE(f.price, 0)
		FROM order_food_items i
		LEFT JOIN foods f ON f.id = i.food_id
		WHERE i.order_id IN ?
		ORDER BY i.order_id, i.position
	`, orderIDs).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID, foodID uuid.UUID
			item            FoodItemResponse
			price           decimal.Decimal
		)
		if err = rows.Scan(&orderID, &foodID, &item.Name, &price); err != nil {
			return nil, err
		}

		if item.ID, err = kernel.UUIDFromRaw(foodID); err != nil {
			return nil, err
		}
		if item.Price, err = kernel.NewMoney(price.Round(kernel.MoneyScale)); err != nil {
			return nil, err
		}
		result[orderID] = append(result[orderID], item)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}
