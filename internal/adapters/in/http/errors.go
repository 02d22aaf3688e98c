package http

import (
	"errors"
	"net/http"

	"fooddispatch/internal/core/application/usecases/commands"
	"fooddispatch/internal/generated/servers"
	"fooddispatch/internal/pkg/errs"
	"fooddispatch/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
)

// statusFor maps use case errors onto HTTP status codes. Anything unknown is
// an internal error.
func statusFor(err error) int {
	switch {
	case errors.Is(err, commands.ErrAddressUnresolvable),
		errors.Is(err, commands.ErrInvalidFoodSelection),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, commands.ErrNoRestaurantAvailable):
		return http.StatusConflict
	case errors.Is(err, errs.ErrObjectNotFound),
		errors.Is(err, commands.ErrOrderNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// dispatchOutcome labels a PlaceOrder result for the dispatch metrics.
func dispatchOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomePlaced
	case errors.Is(err, commands.ErrAddressUnresolvable):
		return metrics.OutcomeAddressUnresolvable
	case errors.Is(err, commands.ErrNoRestaurantAvailable):
		return metrics.OutcomeNoRestaurantAvailable
	case errors.Is(err, commands.ErrInvalidFoodSelection):
		return metrics.OutcomeInvalidFoodSelection
	}
	return metrics.OutcomeError
}

func errorResponse(ctx echo.Context, status int, message string) error {
	return ctx.JSON(status, servers.Error{
		Code:    int32(status), //nolint:gosec // HTTP status codes fit in int32
		Message: message,
	})
}

// useCaseError writes err with its mapped status. Internal errors are logged
// and hidden behind fallback.
func (s *Server) useCaseError(ctx echo.Context, err error, fallback string) error {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.ErrorContext(ctx.Request().Context(), fallback,
			"path", ctx.Path(),
			"error", err)
		return errorResponse(ctx, status, fallback)
	}
	return errorResponse(ctx, status, err.Error())
}
