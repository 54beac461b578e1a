package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	apperrors "github.com/ikkim/clientbook-backend/internal/errors"
	"github.com/ikkim/clientbook-backend/internal/middleware"
)

type SummaryController struct {
	summaryService service.SummaryService
}

func NewSummaryController(summaryService service.SummaryService) *SummaryController {
	return &SummaryController{summaryService: summaryService}
}

// GetSummary GET /api/summary
func (ctrl *SummaryController) GetSummary(c *gin.Context) {
	summary, err := ctrl.summaryService.Summary(c.Request.Context())
	if err != nil {
		middleware.GetLoggerFromContext(c).Error("Failed to build summary", err)
		apperrors.InternalError(c, "Failed to load dashboard summary: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, summary)
}
