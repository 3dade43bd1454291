package booking

import "fmt"

// Error is a business-rule violation surfaced to the API layer. These
// are expected outcomes, never retried.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

var (
	// ErrInvalidDate rejects a malformed bookingDate before any storage access.
	ErrInvalidDate = &Error{Code: "invalidDate", Message: "bookingDate must be a valid YYYY-MM-DD date"}
	// ErrNoActiveMembership means no ACTIVE subscription covers the booking date.
	ErrNoActiveMembership = &Error{Code: "noActiveMembership", Message: "no active membership valid for this date"}
	// ErrNoCreditsRemaining means the subscription's class balance is exhausted.
	ErrNoCreditsRemaining = &Error{Code: "noCreditsRemaining", Message: "no classes remaining on membership"}
	// ErrSlotNotFound means the schedule slot does not exist.
	ErrSlotNotFound = &Error{Code: "slotNotFound", Message: "the selected schedule does not exist"}
	// ErrSlotFull means the slot occurrence is at capacity.
	ErrSlotFull = &Error{Code: "slotFull", Message: "this class is full"}
	// ErrDuplicateBooking means the user already booked this slot occurrence.
	ErrDuplicateBooking = &Error{Code: "duplicateBooking", Message: "already booked for this class on this date"}
	// ErrSlotBusy means the per-slot lock could not be acquired in time.
	ErrSlotBusy = &Error{Code: "slotBusy", Message: "the slot is being booked by someone else, try again"}
	// ErrNotFound means the booking does not exist or belongs to another user.
	ErrNotFound = &Error{Code: "bookingNotFound", Message: "booking not found"}
	// ErrAlreadyCancelled means the booking was cancelled before.
	ErrAlreadyCancelled = &Error{Code: "alreadyCancelled", Message: "this booking was already cancelled"}
)
