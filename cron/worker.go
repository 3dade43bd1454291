package cron

import (
	"time"

	"fitgate/config"
	"fitgate/services/subscription"
	"fitgate/services/tasks"
	"fitgate/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// InitExpiryWorker starts the background worker and scheduler that
// sweep overdue memberships into the EXPIRED state every hour.
func InitExpiryWorker(subSvc subscription.SubscriptionService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 2,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeExpireSubscriptions, tasks.HandleExpireSubscriptions(subSvc))

	scheduler := asynq.NewScheduler(redisOpts, &asynq.SchedulerOpts{Location: time.UTC})
	if _, err := scheduler.Register("@every 1h", tasks.NewExpireSubscriptionsTask()); err != nil {
		utils.GetLogger().Fatal("register expiry sweep", zap.Error(err))
	}

	go func() {
		utils.GetLogger().Info("starting expiry worker")
		const maxAttempts = 5
		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				utils.GetLogger().Error("expiry worker failed to start",
					zap.Int("attempt", attempts),
					zap.Error(err),
				)
				if attempts == maxAttempts {
					utils.GetLogger().Fatal("expiry worker gave up")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				return
			}
		}
	}()

	go func() {
		if err := scheduler.Run(); err != nil {
			utils.GetLogger().Error("expiry scheduler stopped", zap.Error(err))
		}
	}()
}
