package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fitgate/config"
	"fitgate/cron"
	"fitgate/database"
	bookingRepoPkg "fitgate/database/repository/booking"
	checkinRepoPkg "fitgate/database/repository/checkin"
	locationRepoPkg "fitgate/database/repository/location"
	planRepoPkg "fitgate/database/repository/plan"
	scheduleRepoPkg "fitgate/database/repository/schedule"
	subscriptionRepoPkg "fitgate/database/repository/subscription"
	userRepoPkg "fitgate/database/repository/user"
	"fitgate/handlers"
	"fitgate/routes"
	"fitgate/services/booking"
	"fitgate/services/checkin"
	"fitgate/services/location"
	"fitgate/services/membership"
	"fitgate/services/notification"
	"fitgate/services/payment"
	"fitgate/services/schedule"
	"fitgate/services/subscription"
	"fitgate/services/user"
	"fitgate/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stripe/stripe-go/v76"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitCache()
	utils.InitAuthCache()
	utils.InitLockClient()
	utils.FirebaseInit()
	stripe.Key = config.AppConfig.StripeKey

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	// repositories.
	userRepo := userRepoPkg.NewMongoUserRepo()
	planRepo := planRepoPkg.NewMongoPlanRepo()
	subscriptionRepo := subscriptionRepoPkg.NewMongoSubscriptionRepo()
	locationRepo := locationRepoPkg.NewMongoLocationRepo()
	scheduleRepo := scheduleRepoPkg.NewMongoScheduleRepo()
	bookingRepo := bookingRepoPkg.NewMongoBookingRepo()
	checkinRepo := checkinRepoPkg.NewMongoCheckInRepo()

	// services.
	notifier := &notification.DefaultNotificationService{Users: userRepo}
	userService := &user.DefaultUserService{Repo: userRepo}
	membershipService := &membership.DefaultMembershipService{Plans: planRepo}
	locationService := &location.DefaultLocationService{Locations: locationRepo}
	scheduleService := &schedule.DefaultScheduleService{Schedules: scheduleRepo}
	subscriptionService := &subscription.DefaultSubscriptionService{
		Subscriptions: subscriptionRepo,
		Plans:         planRepo,
	}
	bookingService := &booking.DefaultBookingService{
		Bookings:      bookingRepo,
		Subscriptions: subscriptionRepo,
		Schedules:     scheduleRepo,
		Locker:        booking.NewRedisSlotLocker(),
		Notifier:      notifier,
	}
	checkinService := &checkin.DefaultCheckInService{
		CheckIns:     checkinRepo,
		Bookings:     bookingRepo,
		Users:        userRepo,
		Notifier:     notifier,
		RewardPoints: config.AppConfig.CheckInRewardPoints,
	}
	paymentService := &payment.StripePaymentService{
		Plans:         planRepo,
		Subscriptions: subscriptionService,
	}

	handlerBundle := &handlers.HandlerBundle{
		Auth:          &handlers.AuthHandler{Users: userService},
		Bookings:      &handlers.BookingHandler{Bookings: bookingService},
		CheckIns:      &handlers.CheckInHandler{CheckIns: checkinService},
		Subscriptions: &handlers.SubscriptionHandler{Subscriptions: subscriptionService},
		Plans:         &handlers.MembershipHandler{Plans: membershipService},
		Schedules:     &handlers.ScheduleHandler{Schedules: scheduleService},
		Locations:     &handlers.LocationHandler{Locations: locationService},
		Payments:      &handlers.PaymentHandler{Payments: paymentService},
	}
	routes.RegisterRoutes(router, handlerBundle)

	cron.InitExpiryWorker(subscriptionService)
	utils.StartHealthMonitor(map[string]*redis.Client{
		"cache": utils.GetCacheClient(),
		"auth":  utils.GetAuthCacheClient(),
		"lock":  utils.GetLockClient(),
	}, database.MongoClient)

	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
