package checkin

import "fmt"

// Error is a business-rule violation surfaced to the API layer.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrNoValidBookingWindow means the member has no confirmed booking for
// today whose time window admits a check-in right now.
var ErrNoValidBookingWindow = &Error{
	Code:    "noValidBookingWindow",
	Message: "no active booking for today, or the class is over",
}
