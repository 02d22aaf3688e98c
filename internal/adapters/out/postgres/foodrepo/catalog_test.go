package foodrepo_test

import (
	"context"
	"testing"

	"fooddispatch/internal/adapters/out/postgres"
	"fooddispatch/internal/adapters/out/postgres/foodrepo"
	"fooddispatch/internal/core/domain/model/food"
	"fooddispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := postgres.Open(t.Context(), postgres.Options{
		Driver:      postgres.DriverSQLite,
		DSN:         "file:foods_" + uuid.NewString() + "?mode=memory&cache=shared",
		AutoMigrate: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func seed(t *testing.T, db *gorm.DB, name, price string) *food.Item {
	t.Helper()
	p, err := kernel.MoneyFromString(price)
	require.NoError(t, err)
	item, err := food.NewItem(kernel.NewUUID(), name, p)
	require.NoError(t, err)
	dto := foodrepo.FromDomain(item)
	require.NoError(t, db.Create(&dto).Error)
	return item
}

func TestGormFoodCatalog_ResolveMany(t *testing.T) {
	db := newTestDB(t)
	catalog := foodrepo.NewGormFoodCatalog(db)

	pizza := seed(t, db, "Margherita", "12.50")
	lemonade := seed(t, db, "Lemonade", "10.00")
	soup := seed(t, db, "Soup", "4.99")

	tests := []struct {
		name      string
		ids       []kernel.UUID
		wantNames []string
		wantTotal string
	}{
		{
			name:      "known_items_in_request_order",
			ids:       []kernel.UUID{lemonade.ID(), pizza.ID()},
			wantNames: []string{"Lemonade", "Margherita"},
			wantTotal: "22.50",
		},
		{
			name:      "unknown_ids_are_dropped",
			ids:       []kernel.UUID{kernel.NewUUID(), soup.ID(), kernel.NewUUID()},
			wantNames: []string{"Soup"},
			wantTotal: "4.99",
		},
		{
			name:      "duplicates_collapse",
			ids:       []kernel.UUID{pizza.ID(), pizza.ID(), lemonade.ID(), pizza.ID()},
			wantNames: []string{"Margherita", "Lemonade"},
			wantTotal: "22.50",
		},
		{
			name:      "only_unknown_ids",
			ids:       []kernel.UUID{kernel.NewUUID()},
			wantNames: []string{},
			wantTotal: "0.00",
		},
		{
			name:      "empty_request",
			ids:       nil,
			wantNames: []string{},
			wantTotal: "0.00",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := catalog.ResolveMany(t.Context(), tt.ids)
			require.NoError(t, err)

			names := make([]string, 0, len(items))
			for _, item := range items {
				names = append(names, item.Name())
			}
			assert.Equal(t, tt.wantNames, names)
			assert.Equal(t, tt.wantTotal, food.Total(items).String())
		})
	}
}

func TestGormFoodCatalog_ResolveMany_ContextCancelled(t *testing.T) {
	db := newTestDB(t)
	catalog := foodrepo.NewGormFoodCatalog(db)
	item := seed(t, db, "Margherita", "12.50")

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	_, err := catalog.ResolveMany(ctx, []kernel.UUID{item.ID()})
	require.Error(t, err)
}
