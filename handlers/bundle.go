// File: handlers/bundle.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"

	"appointly/models"
	"appointly/utils"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	Availability *AvailabilityHandler
	Booking      *BookingHandler
	Review       *ReviewHandler
	Health       *HealthHandler
}

// HealthHandler reports dependency reachability.
type HealthHandler struct {
	RedisClients []*redis.Client
	MongoClient  *mongo.Client
}

// HealthCheckHandler handles GET /health.
func (h *HealthHandler) HealthCheckHandler(c *gin.Context) {
	status := utils.CheckHealth(c.Request.Context(), h.RedisClients, h.MongoClient)
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, models.APIResponse{Success: status.Healthy(), Data: status})
}
