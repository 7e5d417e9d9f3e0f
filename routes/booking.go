package routes

import (
	"github.com/gin-gonic/gin"

	"appointly/handlers"
	"appointly/middleware"
	"appointly/models"
)

// RegisterBookingRoutes registers the booking lifecycle endpoints.
func RegisterBookingRoutes(api *gin.RouterGroup, hb *handlers.HandlerBundle) {
	customer := middleware.RequireRoles(models.RoleCustomer)
	provider := middleware.RequireRoles(models.RoleProvider)
	admin := middleware.RequireRoles(models.RoleAdmin)

	bookings := api.Group("/bookings")
	{
		bookings.Use(middleware.JWTAuthMiddleware(false))
		bookings.POST("", customer, hb.Booking.CreateBookingHandler)
		bookings.GET("/my", hb.Booking.ListMyBookingsHandler)
		bookings.GET("/:id", hb.Booking.GetBookingHandler)

		bookings.PUT("/:id/accept", provider, hb.Booking.AcceptBookingHandler)
		bookings.PUT("/:id/decline", provider, hb.Booking.DeclineBookingHandler)
		bookings.PUT("/:id/complete", provider, hb.Booking.CompleteBookingHandler)
		bookings.PUT("/:id/cancel", customer, hb.Booking.CancelBookingHandler)
		bookings.PUT("/:id/reschedule", customer, hb.Booking.RescheduleBookingHandler)

		// Bypasses the transition table
		bookings.PUT("/:id/status", admin, hb.Booking.OverrideStatusHandler)
	}
}
