// Package food is the dispatch core's read model of the external menu catalog.
package food

import (
	"errors"
	"strings"

	"fooddispatch/internal/core/domain/model/kernel"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

var (
	ErrNameIsRequired           = errs.NewValueIsRequiredError("name")
	ErrFoodItemIsNotConstructed = errors.New("FoodItem must be created via NewFoodItem constructor")
)

// Item is a priced catalog entry that can be ordered.
type Item struct {
	id    kernel.UUID
	name  string
	price kernel.Money
	guard guard.ConstructorGuard
}

func NewItem(id kernel.UUID, name string, price kernel.Money) (*Item, error) {
	item := &Item{guard: guard.NewConstructorGuard()}

	var nameErr error
	if strings.TrimSpace(name) == "" {
		nameErr = ErrNameIsRequired
	}

	if err := errors.Join(id.Validate(), nameErr, price.Validate()); err != nil {
		return nil, err
	}

	item.id = id
	item.name = name
	item.price = price
	return item, nil
}

func (i *Item) Validate() error {
	if i == nil {
		return ErrFoodItemIsNotConstructed
	}
	return i.guard.Validate(ErrFoodItemIsNotConstructed)
}

func (i *Item) ID() kernel.UUID {
	return i.id
}

func (i *Item) Name() string {
	return i.name
}

func (i *Item) Price() kernel.Money {
	return i.price
}

// Total returns the exact sum of the item prices.
func Total(items []*Item) kernel.Money {
	total := kernel.ZeroMoney()
	for _, item := range items {
		total = total.Add(item.price)
	}
	return total
}

// IDs lists the identifiers of items in order.
func IDs(items []*Item) []kernel.UUID {
	ids := make([]kernel.UUID, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.id)
	}
	return ids
}
