package engagement

import (
	"fmt"

	"fooddispatch/internal/pkg/errs"
)

// Phase names the step of the engagement state machine a job runs.
//
//	engage ──(window)──> release
type Phase string

const (
	// PhaseEngage reserves the restaurant and the courier right after an order is placed.
	PhaseEngage Phase = "engage"
	// PhaseRelease frees them and marks the order delivered once the window has elapsed.
	PhaseRelease Phase = "release"
)

func (p Phase) Validate() error {
	if p != PhaseEngage && p != PhaseRelease {
		return errs.NewValueIsInvalidErrorWithCause("phase", fmt.Errorf("%q is not a known phase", string(p)))
	}
	return nil
}

func (p Phase) String() string {
	return string(p)
}

// State is the processing state of an engagement job.
type State string

const (
	StatePending State = "pending"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

func (s State) Validate() error {
	switch s {
	case StatePending, StateDone, StateFailed:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("state", fmt.Errorf("%q is not a known state", string(s)))
	}
}

// IsFinal reports whether the job will never run again.
func (s State) IsFinal() bool {
	return s == StateDone || s == StateFailed
}
