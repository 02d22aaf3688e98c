package queries

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type ListOrdersQueryHandler struct {
	db *gorm.DB
}

func NewListOrdersQueryHandler(db *gorm.DB) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{db: db}
}

// Handle counts the matching orders and returns the requested page of them.
// The search text matches restaurant names and statuses case-insensitively,
// and total prices as written, e.g. "22.5".
func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (*ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	base := h.db.WithContext(ctx).
		Table("orders o").
		Joins("JOIN restaurants r ON r.id = o.restaurant_id")
	if !query.IsAdmin() {
		base = base.Where("o.user_id = ?", query.UserID())
	}
	if query.Search() != "" {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(query.Search())) + "%"
		base = base.Where(
			`(LOWER(r.name) LIKE ? ESCAPE '\' OR LOWER(o.status) LIKE ? ESCAPE '\'
				OR CAST(o.total_price AS TEXT) LIKE ? ESCAPE '\')`,
			pattern, pattern, pattern,
		)
	}
	base = base.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return nil, err
	}

	resp := &ListOrdersQueryResponse{
		Items:    []GetOrderQueryResponse{},
		Total:    total,
		Page:     query.Page(),
		PageSize: query.PageSize(),
	}
	if total == 0 {
		return resp, nil
	}

	rows, err := base.
		Select(`o.id, o.restaurant_id, r.name, o.distance_km, o.total_price, o.status,
			o.restaurant_engaged, o.courier_engaged, o.estimated_delivery_time,
			o.created_at, o.updated_at`).
		Order("o.created_at, o.id").
		Limit(query.PageSize()).
		Offset(query.offset()).
		Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		item, scanErr := scanOrderRow(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		resp.Items = append(resp.Items, *item)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if err = rows.Close(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(resp.Items))
	for _, item := range resp.Items {
		ids = append(ids, item.ID.Raw())
	}
	items, err := loadFoodItems(ctx, h.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range resp.Items {
		resp.Items[i].FoodItems = items[resp.Items[i].ID.Raw()]
		if resp.Items[i].FoodItems == nil {
			resp.Items[i].FoodItems = []FoodItemResponse{}
		}
	}

	return resp, nil
}
