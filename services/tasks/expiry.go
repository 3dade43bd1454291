package tasks

import (
	"context"

	"fitgate/services/subscription"
	"fitgate/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// TypeExpireSubscriptions marks overdue ACTIVE memberships as EXPIRED.
const TypeExpireSubscriptions = "subscription:expire"

// NewExpireSubscriptionsTask builds the periodic expiry sweep task. The
// sweep carries no payload; it always operates on "now".
func NewExpireSubscriptionsTask() *asynq.Task {
	return asynq.NewTask(TypeExpireSubscriptions, nil)
}

// HandleExpireSubscriptions returns the asynq handler for the expiry sweep.
func HandleExpireSubscriptions(subSvc subscription.SubscriptionService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		expired, err := subSvc.ExpireOverdue(ctx)
		if err != nil {
			utils.GetLogger().Error("subscription expiry sweep failed", zap.Error(err))
			return err
		}
		if expired > 0 {
			utils.GetLogger().Info("subscription expiry sweep done", zap.Int64("expired", expired))
		}
		return nil
	}
}
