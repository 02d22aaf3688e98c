package queries

import (
	"errors"
	"strings"

	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/guard"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery pages through orders ordered by creation time. Admins see
// every order, anyone else only their own.
type ListOrdersQuery struct { //nolint:recvcheck //using for validation
	userID   string
	isAdmin  bool
	search   string
	page     int
	pageSize int

	guard guard.ConstructorGuard
}

// NewListOrdersQuery builds a listing query. A zero page or page size falls
// back to the first page of DefaultPageSize orders.
func NewListOrdersQuery(userID string, isAdmin bool, search string, page, pageSize int) (ListOrdersQuery, error) {
	if page == 0 {
		page = 1
	}
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	var validationErrs []error
	if !isAdmin && strings.TrimSpace(userID) == "" {
		validationErrs = append(validationErrs, ErrUserIsRequired)
	}
	if page < 1 {
		validationErrs = append(validationErrs, errs.NewValueIsOutOfRangeError("page", page, 1, "unbounded"))
	}
	if pageSize < 1 || pageSize > MaxPageSize {
		validationErrs = append(validationErrs, errs.NewValueIsOutOfRangeError("page_size", pageSize, 1, MaxPageSize))
	}
	if err := errors.Join(validationErrs...); err != nil {
		return ListOrdersQuery{}, err
	}

	return ListOrdersQuery{
		userID:   userID,
		isAdmin:  isAdmin,
		search:   strings.TrimSpace(search),
		page:     page,
		pageSize: pageSize,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

func (q ListOrdersQuery) UserID() string {
	return q.userID
}

func (q ListOrdersQuery) IsAdmin() bool {
	return q.isAdmin
}

func (q ListOrdersQuery) Search() string {
	return q.search
}

func (q ListOrdersQuery) Page() int {
	return q.page
}

func (q ListOrdersQuery) PageSize() int {
	return q.pageSize
}

func (q ListOrdersQuery) offset() int {
	return (q.page - 1) * q.pageSize
}

type ListOrdersQueryResponse struct {
	Items    []GetOrderQueryResponse
	Total    int64
	Page     int
	PageSize int
}
