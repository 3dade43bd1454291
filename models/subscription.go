package models

import "time"

// Subscription status values.
const (
	SubscriptionActive         = "ACTIVE"
	SubscriptionExpired        = "EXPIRED"
	SubscriptionCancelled      = "CANCELLED"
	SubscriptionPendingPayment = "PENDING_PAYMENT"
)

// Subscription is a user's purchased (or assigned) membership: the
// ledger entry the booking engine debits and credits classes against.
type Subscription struct {
	ID               string    `bson:"id" json:"id"`
	UserID           string    `bson:"userId" json:"userId"`
	PlanID           string    `bson:"planId" json:"planId"`
	StartDate        time.Time `bson:"startDate" json:"startDate"`
	EndDate          time.Time `bson:"endDate" json:"endDate"`
	ClassesRemaining int       `bson:"classesRemaining" json:"classesRemaining"`
	Status           string    `bson:"status" json:"status"`
	CreatedAt        time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt        time.Time `bson:"updatedAt" json:"updatedAt"`
}

// SubscriptionDetail is a subscription with its plan resolved for display.
type SubscriptionDetail struct {
	Subscription `bson:",inline"`
	Plan         *MembershipPlan `bson:"plan,omitempty" json:"plan,omitempty"`
}
