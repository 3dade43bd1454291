package subscription

import (
	"context"
	"fmt"
	"time"

	planRepo "fitgate/database/repository/plan"
	subscriptionRepo "fitgate/database/repository/subscription"
	"fitgate/models"
	"fitgate/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Error is a business-rule violation surfaced to the API layer.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// ErrPlanNotFound means the referenced membership plan does not exist.
var ErrPlanNotFound = &Error{Code: "planNotFound", Message: "membership plan not found"}

// SubscriptionService manages the membership ledger lifecycle.
type SubscriptionService interface {
	// Assign creates an ACTIVE subscription for the user from a plan:
	// the class balance starts at the plan's total allotment and the
	// validity window runs plan.DurationDays from now.
	Assign(ctx context.Context, userID, planID string) (*models.Subscription, error)
	// FindMine returns the user's subscriptions, active first.
	FindMine(ctx context.Context, userID string) ([]models.SubscriptionDetail, error)
	// FindAll returns every subscription (admin view).
	FindAll(ctx context.Context) ([]models.SubscriptionDetail, error)
	// Revoke cancels a subscription and zeroes its class balance (admin).
	Revoke(ctx context.Context, id string) error
	// Remove deletes a subscription record (admin).
	Remove(ctx context.Context, id string) error
	// ExpireOverdue transitions overdue ACTIVE subscriptions to EXPIRED
	// and reports how many changed.
	ExpireOverdue(ctx context.Context) (int64, error)
}

// DefaultSubscriptionService is the production implementation.
type DefaultSubscriptionService struct {
	Subscriptions subscriptionRepo.SubscriptionRepository
	Plans         planRepo.PlanRepository
	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *DefaultSubscriptionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultSubscriptionService) Assign(ctx context.Context, userID, planID string) (*models.Subscription, error) {
	plan, err := s.Plans.GetByID(planID)
	if err != nil {
		return nil, ErrPlanNotFound
	}

	start := s.now()
	sub := &models.Subscription{
		ID:               uuid.New().String(),
		UserID:           userID,
		PlanID:           plan.ID,
		StartDate:        start,
		EndDate:          start.AddDate(0, 0, plan.DurationDays),
		ClassesRemaining: plan.TotalClasses,
		Status:           models.SubscriptionActive,
	}
	if err := s.Subscriptions.Create(sub); err != nil {
		return nil, err
	}

	utils.GetLogger().Info("subscription assigned",
		zap.String("subscriptionId", sub.ID),
		zap.String("userId", userID),
		zap.String("planId", plan.ID),
		zap.Int("classes", sub.ClassesRemaining),
	)
	return sub, nil
}

func (s *DefaultSubscriptionService) FindMine(ctx context.Context, userID string) ([]models.SubscriptionDetail, error) {
	return s.Subscriptions.FindByUser(userID)
}

func (s *DefaultSubscriptionService) FindAll(ctx context.Context) ([]models.SubscriptionDetail, error) {
	return s.Subscriptions.GetAll()
}

func (s *DefaultSubscriptionService) Revoke(ctx context.Context, id string) error {
	return s.Subscriptions.Revoke(id)
}

func (s *DefaultSubscriptionService) Remove(ctx context.Context, id string) error {
	return s.Subscriptions.Delete(id)
}

func (s *DefaultSubscriptionService) ExpireOverdue(ctx context.Context) (int64, error) {
	n, err := s.Subscriptions.ExpireBefore(s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		utils.GetLogger().Info("expired overdue subscriptions", zap.Int64("count", n))
	}
	return n, nil
}
