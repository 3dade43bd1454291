package routes

import (
	"net/http"
	"time"

	"fitgate/handlers"
	"fitgate/middleware"
	"fitgate/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers registration, login and account lookups.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/register", hb.Auth.RegisterHandler)
		api.POST("/login", hb.Auth.LoginHandler)
	}

	users := r.Group("/api/users")
	users.Use(middleware.JWTAuthMiddleware())
	{
		users.GET("/me", hb.Auth.MeHandler)
		users.GET("", middleware.AdminOnlyMiddleware(), hb.Auth.ListUsersHandler)
	}
}

// RegisterBookingRoutes sets up the reservation endpoints.
func RegisterBookingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/bookings")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", hb.Bookings.CreateBookingHandler)
		api.GET("/me", hb.Bookings.MyBookingsHandler)
		api.PATCH("/:id/cancel", hb.Bookings.CancelBookingHandler)
	}
}

// RegisterCheckInRoutes sets up the front-desk scan endpoints. Scans
// are performed by desk staff, so the whole group is admin-only.
func RegisterCheckInRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/checkins")
	api.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnlyMiddleware())
	{
		api.POST("/scan", hb.CheckIns.ScanHandler)
		api.GET("", hb.CheckIns.HistoryHandler)
	}
}

// RegisterSubscriptionRoutes sets up the membership ledger endpoints.
func RegisterSubscriptionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/subscriptions")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.GET("/me", hb.Subscriptions.MySubscriptionsHandler)

		admin := api.Group("")
		admin.Use(middleware.AdminOnlyMiddleware())
		admin.POST("", hb.Subscriptions.AssignHandler)
		admin.GET("", hb.Subscriptions.ListSubscriptionsHandler)
		admin.PATCH("/:id/revoke", hb.Subscriptions.RevokeSubscriptionHandler)
		admin.DELETE("/:id", hb.Subscriptions.DeleteSubscriptionHandler)
	}
}

// RegisterPlanRoutes sets up the plan catalog endpoints.
func RegisterPlanRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/plans")
	{
		api.GET("", hb.Plans.ListPlansHandler)
		api.GET("/:id", hb.Plans.GetPlanHandler)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnlyMiddleware())
		admin.POST("", hb.Plans.CreatePlanHandler)
		admin.PUT("/:id", hb.Plans.UpdatePlanHandler)
		admin.DELETE("/:id", hb.Plans.DeletePlanHandler)
	}
}

// RegisterScheduleRoutes sets up the weekly slot catalog endpoints.
func RegisterScheduleRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/schedules")
	{
		api.GET("", hb.Schedules.ListSchedulesHandler)
		api.GET("/:id", hb.Schedules.GetScheduleHandler)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnlyMiddleware())
		admin.POST("", hb.Schedules.CreateScheduleHandler)
		admin.PUT("/:id", hb.Schedules.UpdateScheduleHandler)
		admin.DELETE("/:id", hb.Schedules.DeleteScheduleHandler)
	}
}

// RegisterLocationRoutes sets up the branch directory endpoints.
func RegisterLocationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/locations")
	{
		api.GET("", hb.Locations.ListLocationsHandler)
		api.GET("/:id", hb.Locations.GetLocationHandler)

		admin := api.Group("")
		admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminOnlyMiddleware())
		admin.POST("", hb.Locations.CreateLocationHandler)
		admin.PUT("/:id", hb.Locations.UpdateLocationHandler)
		admin.DELETE("/:id", hb.Locations.DeleteLocationHandler)
	}
}

// RegisterPaymentRoutes sets up the plan purchase endpoints.
func RegisterPaymentRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/payments")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("/orders", hb.Payments.CreateOrderHandler)
		api.POST("/orders/:id/capture", hb.Payments.CaptureOrderHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, utils.GetHealthStatus())
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(middleware.RateLimitMiddleware())
	r.Use(utils.ErrorHandler())

	RegisterHealthRoute(r)
	RegisterAuthRoutes(r, hb)
	RegisterBookingRoutes(r, hb)
	RegisterCheckInRoutes(r, hb)
	RegisterSubscriptionRoutes(r, hb)
	RegisterPlanRoutes(r, hb)
	RegisterScheduleRoutes(r, hb)
	RegisterLocationRoutes(r, hb)
	RegisterPaymentRoutes(r, hb)
}
