// File: services/scheduling/errors.go
package scheduling

import "fmt"

// User-facing remediation text for the two known booking failures. The text
// is chosen for the donor, not the log; the raw cause travels separately.
const (
	MsgActiveDonationExists = "You already have an active donation scheduled. Cancel or reschedule it before booking a new one."
	MsgSlotJustFilled       = "That slot just filled up. Please pick another time."
	MsgBookingFailed        = "We couldn't schedule your donation. Please try again."
)

// SchedulingError pairs a machine code with donor-facing text. The wrapped
// cause keeps the raw repository error for logs.
type SchedulingError struct {
	Code        string
	UserMessage string
	Cause       error
}

func (e *SchedulingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Code, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.UserMessage)
}

func (e *SchedulingError) Unwrap() error { return e.Cause }

func newSchedulingError(code, userMsg string, cause error) *SchedulingError {
	return &SchedulingError{Code: code, UserMessage: userMsg, Cause: cause}
}
