package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"appointly/middleware"
	"appointly/models"
	"appointly/services/availability"
	"appointly/services/booking"
	"appointly/utils"
)

type AvailabilityHandler struct {
	Service  availability.AvailabilityService
	Bookings booking.BookingService
}

func NewAvailabilityHandler(svc availability.AvailabilityService, bookings booking.BookingService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc, Bookings: bookings}
}

type slotRequest struct {
	ProviderID string `json:"providerId"`
	Date       string `json:"date"`
	Time       string `json:"time"`
	BookingID  string `json:"bookingId"`
}

// GetMyAvailabilityHandler handles GET /availability/my.
func (h *AvailabilityHandler) GetMyAvailabilityHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	rec, err := h.Service.GetMyAvailability(c.Request.Context(), actor.ID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "", rec)
}

// UpdateAvailabilityHandler handles PUT /availability.
func (h *AvailabilityHandler) UpdateAvailabilityHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req models.AvailabilityUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("Invalid request payload: %s", err.Error()))
		return
	}
	rec, err := h.Service.UpdateAvailability(c.Request.Context(), actor.ID, req)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "Availability updated", rec)
}

// GetProviderAvailabilityHandler handles GET /availability/provider/:providerId.
func (h *AvailabilityHandler) GetProviderAvailabilityHandler(c *gin.Context) {
	rec, err := h.Service.GetPublicAvailability(c.Request.Context(), c.Param("providerId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "", rec)
}

// GetSlotsHandler handles GET /availability/slots/:providerId/:date.
func (h *AvailabilityHandler) GetSlotsHandler(c *gin.Context) {
	slots, err := h.Service.GetSlots(c.Request.Context(), c.Param("providerId"), c.Param("date"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "", slots)
}

// BookSlotHandler handles POST /availability/book-slot.
func (h *AvailabilityHandler) BookSlotHandler(c *gin.Context) {
	if _, ok := requireActor(c); !ok {
		return
	}
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("Invalid request payload: %s", err.Error()))
		return
	}
	if err := h.Service.ClaimSlot(c.Request.Context(), req.ProviderID, req.Date, req.Time, req.BookingID); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "Slot booked", req)
}

// FreeSlotHandler handles DELETE /availability/free-slot.
func (h *AvailabilityHandler) FreeSlotHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var req slotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, utils.NewValidationError("Invalid request payload: %s", err.Error()))
		return
	}
	if err := h.Bookings.FreeSlot(c.Request.Context(), actor, req.ProviderID, req.Date, req.Time, req.BookingID); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "Slot freed", nil)
}

// requireActor returns the authenticated actor or writes a 401.
func requireActor(c *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.ActorFrom(c)
	if !ok {
		utils.RespondError(c, utils.NewUnauthorizedError("Authentication required"))
	}
	return actor, ok
}
