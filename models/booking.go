package models

import "time"

// Booking status values. A cancelled booking is terminal; it is never
// re-activated.
const (
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
)

// DateLayout is the calendar-date format used for bookingDate. The
// schedule only carries a weekday; the booking pins it to a date.
const DateLayout = "2006-01-02"

// Booking reserves one occurrence of a schedule slot for a user.
type Booking struct {
	ID          string    `bson:"id" json:"id"`
	ScheduleID  string    `bson:"scheduleId" json:"scheduleId"`
	UserID      string    `bson:"userId" json:"userId"`
	BookingDate string    `bson:"bookingDate" json:"bookingDate"` // "YYYY-MM-DD"
	Status      string    `bson:"status" json:"status"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingDetail is a booking with its slot and location resolved.
type BookingDetail struct {
	Booking  `bson:",inline"`
	Schedule *Schedule `bson:"schedule,omitempty" json:"schedule,omitempty"`
	Location *Location `bson:"location,omitempty" json:"location,omitempty"`
}
