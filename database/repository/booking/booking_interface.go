package bookingRepo

import (
	"context"
	"errors"

	"fitgate/models"
)

// Sentinel errors surfaced to the booking engine.
var (
	// ErrInsufficientCredits means the subscription's class balance hit
	// zero between the engine's pre-check and the debit.
	ErrInsufficientCredits = errors.New("subscription has no classes remaining")
	// ErrBookingNotFound means no booking matched the (id, user) pair.
	ErrBookingNotFound = errors.New("booking not found")
	// ErrDuplicateBooking means the storage-level uniqueness constraint
	// rejected a second CONFIRMED booking for the same (user, schedule, date).
	ErrDuplicateBooking = errors.New("duplicate confirmed booking")
)

// BookingRepository defines data access for reservations.
type BookingRepository interface {
	// CountConfirmed counts CONFIRMED bookings for one slot occurrence.
	CountConfirmed(scheduleID, bookingDate string) (int64, error)
	// HasConfirmed reports whether the user already holds a CONFIRMED
	// booking for the slot occurrence.
	HasConfirmed(userID, scheduleID, bookingDate string) (bool, error)
	// GetByIDForUser retrieves a booking owned by the given user;
	// returns ErrBookingNotFound when absent or owned by someone else.
	GetByIDForUser(bookingID, userID string) (*models.Booking, error)
	// CreateWithDebit inserts the CONFIRMED booking and debits one class
	// from the subscription as a single logical transaction. Returns
	// ErrInsufficientCredits when the balance guard fails and
	// ErrDuplicateBooking when the uniqueness index rejects the insert.
	CreateWithDebit(ctx context.Context, booking *models.Booking, subscriptionID string) error
	// SetStatus transitions a booking's status.
	SetStatus(bookingID, status string) error
	// CancelWithCredit flips the booking to CANCELLED and credits one
	// class back to the subscription as a single logical transaction,
	// mirroring CreateWithDebit. Returns ErrBookingNotFound when the
	// booking does not exist.
	CancelWithCredit(ctx context.Context, bookingID, subscriptionID string) error
	// FindConfirmedByUser returns the user's CONFIRMED bookings with
	// slot and location resolved, soonest date first.
	FindConfirmedByUser(userID string) ([]models.BookingDetail, error)
	// FindConfirmedForUserOnDate returns the user's CONFIRMED bookings
	// for one calendar date with slot and location resolved.
	FindConfirmedForUserOnDate(userID, bookingDate string) ([]models.BookingDetail, error)
}
