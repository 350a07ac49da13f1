package leave

import (
	"errors"
	"fmt"

	"github.com/eigen04/hr-mgmt-v2-sub000/generic"
)

// Domain errors. Business rejections of a draft are ReasonCodes on a
// ValidationResult; these cover lookups, lifecycle and malformed input.
var (
	ErrUnknownLeaveType         = errors.New("unknown leave type")
	ErrMissingEndDate           = errors.New("end date required")
	ErrEmployeeNotFound         = fmt.Errorf("employee: %w", generic.ErrEntityNotFound)
	ErrApplicationNotFound      = fmt.Errorf("leave application: %w", generic.ErrEntityNotFound)
	ErrHolidayNotFound          = fmt.Errorf("holiday: %w", generic.ErrEntityNotFound)
	ErrInvalidTransition        = errors.New("invalid application status transition")
	ErrCancellationWindowClosed = errors.New("cancellation window closed")
	ErrYearMismatch             = errors.New("date outside ledger year")
)

// RejectedError is returned by Service.Submit when the validator rejects
// the draft. The full result is attached.
type RejectedError struct {
	Result ValidationResult
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("application rejected: %s", e.Result.Reason)
}

// TransitionError describes a lifecycle call made in the wrong status.
type TransitionError struct {
	ApplicationID string
	From          Status
	To            Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("application %s: cannot move from %s to %s", e.ApplicationID, e.From, e.To)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }
