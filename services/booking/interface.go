package booking

import (
	"context"

	"fitgate/models"
)

// BookingService is the reservation engine: it admits bookings against
// slot capacity and keeps the membership class balance in step.
type BookingService interface {
	// Create reserves one occurrence of a schedule slot for the user
	// and debits one class from their active membership.
	Create(ctx context.Context, userID, scheduleID, bookingDate string) (*models.Booking, error)
	// Cancel transitions a booking to CANCELLED and credits the class
	// back to the user's currently active membership, if any.
	Cancel(ctx context.Context, bookingID, userID string) (string, error)
	// FindUserBookings returns the user's CONFIRMED bookings with slot
	// and location resolved, soonest first.
	FindUserBookings(ctx context.Context, userID string) ([]models.BookingDetail, error)
}
