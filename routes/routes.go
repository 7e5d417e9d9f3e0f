package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"appointly/handlers"
	"appointly/middleware"
	"appointly/models"
	"appointly/utils"
)

// RegisterAvailabilityRoutes registers provider schedule and slot endpoints.
func RegisterAvailabilityRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	availability := api.Group("/availability")
	{
		// Public
		availability.GET("/provider/:providerId", hb.Availability.GetProviderAvailabilityHandler)
		availability.GET("/slots/:providerId/:date", hb.Availability.GetSlotsHandler)

		// Provider-owned schedule
		provider := availability.Group("")
		provider.Use(middleware.JWTAuthMiddleware(false), middleware.RequireRoles(models.RoleProvider))
		provider.GET("/my", hb.Availability.GetMyAvailabilityHandler)
		provider.PUT("", hb.Availability.UpdateAvailabilityHandler)

		// Reservation guard
		slots := availability.Group("")
		slots.Use(middleware.JWTAuthMiddleware(false))
		slots.POST("/book-slot", middleware.RequireRoles(models.RoleCustomer, models.RoleProvider, models.RoleAdmin), hb.Availability.BookSlotHandler)
		slots.DELETE("/free-slot", middleware.RequireRoles(models.RoleProvider, models.RoleAdmin), hb.Availability.FreeSlotHandler)
	}
}

// RegisterReviewRoutes registers review endpoints.
func RegisterReviewRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	reviews := api.Group("/reviews")
	{
		reviews.GET("/service/:serviceId", hb.Review.ListServiceReviewsHandler)
		reviews.POST("", middleware.JWTAuthMiddleware(false), middleware.RequireRoles(models.RoleCustomer), hb.Review.SubmitReviewHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.HealthCheckHandler)
}

// RegisterRoutes centralizes registration of all endpoints under /api.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	RegisterAvailabilityRoutes(api, hb)
	RegisterBookingRoutes(api, hb)
	RegisterReviewRoutes(api, hb)
	if hb.Health != nil {
		RegisterHealthRoute(r, hb)
	}
}

// NewRouter builds the engine with the global middleware chain and every route.
func NewRouter(hb *handlers.HandlerBundle, logger *zap.Logger, maxRequestsPerMin int) *gin.Engine {
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RateLimitMiddleware(maxRequestsPerMin))
	RegisterRoutes(router, hb)
	return router
}
