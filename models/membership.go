package models

import "time"

// MembershipPlan is an admin-managed plan in the catalog.
type MembershipPlan struct {
	ID             string    `bson:"id" json:"id"`
	Name           string    `bson:"name" json:"name"`
	Description    string    `bson:"description,omitempty" json:"description,omitempty"`
	Price          float64   `bson:"price" json:"price"`
	DurationDays   int       `bson:"durationDays" json:"durationDays"`
	ClassesPerWeek int       `bson:"classesPerWeek" json:"classesPerWeek"`
	TotalClasses   int       `bson:"totalClasses" json:"totalClasses"`
	Points         int       `bson:"points" json:"points"` // loyalty points granted on purchase
	CreatedAt      time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time `bson:"updatedAt" json:"updatedAt"`
}
