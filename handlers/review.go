package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"appointly/models"
	"appointly/services/review"
	"appointly/utils"
)

type ReviewHandler struct {
	Service review.ReviewService
}

func NewReviewHandler(svc review.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: svc}
}

// SubmitReviewHandler handles POST /reviews.
func (h *ReviewHandler) SubmitReviewHandler(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	var in models.ReviewInput
	if err := c.ShouldBindJSON(&in); err != nil {
		utils.RespondError(c, utils.NewValidationError("Invalid request payload: %s", err.Error()))
		return
	}
	rv, err := h.Service.SubmitReview(c.Request.Context(), actor, in)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusCreated, "Review submitted", rv)
}

// ListServiceReviewsHandler handles GET /reviews/service/:serviceId.
func (h *ReviewHandler) ListServiceReviewsHandler(c *gin.Context) {
	reviews, err := h.Service.ListServiceReviews(c.Request.Context(), c.Param("serviceId"))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.RespondOK(c, http.StatusOK, "", reviews)
}
