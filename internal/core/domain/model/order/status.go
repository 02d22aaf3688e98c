package order

import (
	"fmt"
	"strings"

	"fooddispatch/internal/pkg/errs"
)

// Status is the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Delivered
//
// Delivered is terminal. Engagement flags are tracked separately on the order;
// an order stays Pending while its restaurant and courier are engaged.
type Status int

const (
	// Unknown catches uninitialized values and unrecognized persisted strings.
	Unknown Status = iota

	// Pending is assigned at creation and kept through the engagement window.
	Pending

	// Delivered is set when the engagement window closes.
	Delivered
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "Unknown",
		Pending:   "Pending",
		Delivered: "Delivered",
	}
}

// ParseStatus maps a persisted or user-supplied name back to a Status.
// Matching is case-insensitive; unrecognized names yield Unknown and an error.
func ParseStatus(s string) (Status, error) {
	for status, name := range getStatusStrings() {
		if status != Unknown && strings.EqualFold(name, s) {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%q is not a known status", s))
}

// Validate accepts Pending and Delivered only.
func (s Status) Validate() error {
	if s != Pending && s != Delivered {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer and is safe on any value.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// IsFinal reports whether no further transitions are possible.
func (s Status) IsFinal() bool {
	return s == Delivered
}

// Deliver transitions Pending to Delivered.
//
// Returns:
//   - (Delivered, nil) from Pending
//   - (Unknown, error) from any other status, including Delivered itself
func (s Status) Deliver() (Status, error) {
	if s != Pending {
		return Unknown, errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to deliver", s.String()),
		)
	}
	return Delivered, nil
}
