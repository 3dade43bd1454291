package subscriptionRepo

import (
	"time"

	"fitgate/models"
)

// SubscriptionRepository defines data access for membership ledger entries.
type SubscriptionRepository interface {
	// Create inserts a new subscription record.
	Create(sub *models.Subscription) error
	// GetByID retrieves a subscription by its unique ID.
	GetByID(id string) (*models.Subscription, error)
	// FindActiveForUser selects the user's ACTIVE subscription whose
	// endDate covers onDate. Returns nil when none qualifies.
	FindActiveForUser(userID string, onDate time.Time) (*models.Subscription, error)
	// FindByUser retrieves all of a user's subscriptions with their
	// plans resolved, active entries first.
	FindByUser(userID string) ([]models.SubscriptionDetail, error)
	// GetAll retrieves every subscription with plan detail (admin view).
	GetAll() ([]models.SubscriptionDetail, error)
	// DebitClass atomically decrements classesRemaining by one, guarded
	// by classesRemaining > 0. Returns ErrNoCredits when the guard
	// matches nothing.
	DebitClass(id string) (*models.Subscription, error)
	// CreditClass increments classesRemaining by one.
	CreditClass(id string) (*models.Subscription, error)
	// Revoke marks a subscription CANCELLED and zeroes its balance.
	Revoke(id string) error
	// ExpireBefore marks ACTIVE subscriptions with endDate < deadline as
	// EXPIRED and reports how many were transitioned.
	ExpireBefore(deadline time.Time) (int64, error)
	// Delete removes a subscription record by its ID.
	Delete(id string) error
}
