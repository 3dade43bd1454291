package models

import "time"

// User roles.
const (
	RoleClient = "CLIENT"
	RoleAdmin  = "ADMIN"
)

// User represents a gym member (or staff) account.
type User struct {
	ID           string    `bson:"id" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Email        string    `bson:"email" json:"email"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	Points       int       `bson:"points" json:"points"` // loyalty points, incremented on check-in
	FCMToken     string    `bson:"fcmToken,omitempty" json:"-"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time `bson:"updatedAt" json:"updatedAt"`
}
