package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"appointly/models"
	"appointly/services/booking"
	"appointly/utils"
)

type BookingHandler struct {
	Service booking.BookingService
}

func NewBookingHandler(svc booking.BookingService) *BookingHandler {
	return &BookingHandler{Service: svc}
}

type reasonRequest struct {
	Reason string `json:"reason"`
}

type statusRequest struct {
	Status models.BookingStatus `json:"status"`
}

// CreateBookingHandler handles POST /bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var in models.BookingInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.NewValidationError("Invalid request payload: %s", err.Error()))
		return
	}
	b, err := h.Service.CreateBooking(c.Request.Context(), actor, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, "Booking created", b)
}

func (h *BookingHandler) AcceptBookingHandler(c *gin.Context) {
	h.transition(c, "Booking accepted", func(actor models.Actor, id string) (*models.Booking, error) {
		return h.Service.AcceptBooking(c.Request.Context(), actor, id)
	})
}

func (h *BookingHandler) DeclineBookingHandler(c *gin.Context) {
	var body reasonRequest
	if !bindOptional(c, &body) {
		return
	}
	h.transition(c, "Booking declined", func(actor models.Actor, id string) (*models.Booking, error) {
		return h.Service.DeclineBooking(c.Request.Context(), actor, id, body.Reason)
	})
}

func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	var body reasonRequest
	if !bindOptional(c, &body) {
		return
	}
	h.transition(c, "Booking cancelled", func(actor models.Actor, id string) (*models.Booking, error) {
		return h.Service.CancelBooking(c.Request.Context(), actor, id, body.Reason)
	})
}

func (h *BookingHandler) CompleteBookingHandler(c *gin.Context) {
	h.transition(c, "Booking completed", func(actor models.Actor, id string) (*models.Booking, error) {
		return h.Service.CompleteBooking(c.Request.Context(), actor, id)
	})
}

// RescheduleBookingHandler returns the full booking since date and time change.
func (h *BookingHandler) RescheduleBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var in models.RescheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.NewValidationError("Invalid request payload: %s", err.Error()))
		return
	}
	b, err := h.Service.RescheduleBooking(c.Request.Context(), actor, c.Param("id"), in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "Booking rescheduled", b)
}

// OverrideStatusHandler handles PUT /bookings/:id/status (admin only).
func (h *BookingHandler) OverrideStatusHandler(c *gin.Context) {
	var body statusRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, utils.NewValidationError("Invalid request payload: %s", err.Error()))
		return
	}
	h.transition(c, "Booking status updated", func(actor models.Actor, id string) (*models.Booking, error) {
		return h.Service.OverrideStatus(c.Request.Context(), actor, id, body.Status)
	})
}

func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := h.Service.GetBooking(c.Request.Context(), actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "", b)
}

func (h *BookingHandler) ListMyBookingsHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	bookings, err := h.Service.ListMyBookings(c.Request.Context(), actor, models.BookingStatus(c.Query("status")))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "", bookings)
}

// transition runs a status-changing action and answers with {id, status}.
func (h *BookingHandler) transition(c *gin.Context, message string, fn func(actor models.Actor, id string) (*models.Booking, error)) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	b, err := fn(actor, c.Param("id"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, message, models.BookingStatusResult{ID: b.ID, Status: b.Status})
}

// bindOptional binds a JSON body if one was sent.
func bindOptional(c *gin.Context, dst interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.RespondError(c, utils.NewValidationError("Invalid request payload: %s", err.Error()))
		return false
	}
	return true
}
