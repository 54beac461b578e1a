package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	apperrors "github.com/ikkim/clientbook-backend/internal/errors"
	"github.com/ikkim/clientbook-backend/internal/middleware"
)

type FeedbackController struct {
	feedbackService service.FeedbackService
}

func NewFeedbackController(feedbackService service.FeedbackService) *FeedbackController {
	return &FeedbackController{feedbackService: feedbackService}
}

// ListFeedback GET /api/feedback?status=
func (ctrl *FeedbackController) ListFeedback(c *gin.Context) {
	items, err := ctrl.feedbackService.ListFeedback(c.Query("status"))
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to list feedback", err)
		apperrors.InternalError(c, "Failed to fetch feedback: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": items,
		"count":    len(items),
	})
}

func (ctrl *FeedbackController) GetFeedback(c *gin.Context) {
	id, ok := parseID(c, "feedback")
	if !ok {
		return
	}

	item, err := ctrl.feedbackService.GetFeedback(id)
	if err != nil {
		respondServiceError(c, err, "feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"feedback": item,
	})
}

func (ctrl *FeedbackController) CreateFeedback(c *gin.Context) {
	var input service.FeedbackInput
	if !bindJSON(c, &input) {
		return
	}

	item, err := ctrl.feedbackService.CreateFeedback(input)
	if err != nil {
		respondServiceError(c, err, "feedback")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Feedback submitted successfully",
		"feedback": item,
	})
}

func (ctrl *FeedbackController) UpdateFeedback(c *gin.Context) {
	id, ok := parseID(c, "feedback")
	if !ok {
		return
	}

	var input service.FeedbackInput
	if !bindJSON(c, &input) {
		return
	}

	item, err := ctrl.feedbackService.UpdateFeedback(id, input)
	if err != nil {
		respondServiceError(c, err, "feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Feedback updated successfully",
		"feedback": item,
	})
}

func (ctrl *FeedbackController) DeleteFeedback(c *gin.Context) {
	id, ok := parseID(c, "feedback")
	if !ok {
		return
	}

	if err := ctrl.feedbackService.DeleteFeedback(id); err != nil {
		respondServiceError(c, err, "feedback")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Feedback deleted successfully",
	})
}
