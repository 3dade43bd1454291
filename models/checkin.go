package models

import "time"

// Check-in status values.
const (
	CheckedIn  = "CHECKED_IN"
	CheckedOut = "CHECKED_OUT"
)

// Scan result types, returned by the scan toggle.
const (
	ScanCheckIn  = "CHECK_IN"
	ScanCheckOut = "CHECK_OUT"
)

// CheckIn is one attendance session, opened by a scan and closed by
// the next scan of the same user.
type CheckIn struct {
	ID           string     `bson:"id" json:"id"`
	UserID       string     `bson:"userId" json:"userId"`
	BookingID    string     `bson:"bookingId" json:"bookingId"` // the reservation being honored
	LocationID   string     `bson:"locationId" json:"locationId"`
	CheckInTime  time.Time  `bson:"checkInTime" json:"checkInTime"`
	CheckOutTime *time.Time `bson:"checkOutTime,omitempty" json:"checkOutTime,omitempty"`
	Status       string     `bson:"status" json:"status"`
	CreatedAt    time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// ScanResult is the outcome of a QR scan.
type ScanResult struct {
	Type    string   `json:"type"` // ScanCheckIn or ScanCheckOut
	Message string   `json:"message"`
	CheckIn *CheckIn `json:"checkIn"`
}

// CheckInHistoryEntry is a check-in enriched for the admin history view.
type CheckInHistoryEntry struct {
	CheckIn  `bson:",inline"`
	User     *PublicUser `bson:"user,omitempty" json:"user,omitempty"`
	Location *Location   `bson:"location,omitempty" json:"location,omitempty"`
	Booking  *Booking    `bson:"booking,omitempty" json:"booking,omitempty"`
	Schedule *Schedule   `bson:"schedule,omitempty" json:"schedule,omitempty"`
}

// PublicUser is the member projection embedded in admin views.
type PublicUser struct {
	ID    string `bson:"id" json:"id"`
	Name  string `bson:"name" json:"name"`
	Email string `bson:"email" json:"email"`
}
