package controller

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	apperrors "github.com/ikkim/clientbook-backend/internal/errors"
	"github.com/ikkim/clientbook-backend/internal/middleware"
)

// parseID reads the :id path parameter. On failure it has already replied.
func parseID(c *gin.Context, resource string) (uint, bool) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid "+resource+" ID", map[string]interface{}{
			"id": idStr,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+resource+" ID")
		return 0, false
	}
	return uint(id), true
}

// bindJSON decodes the request body. On failure it has already replied.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return false
	}
	return true
}

// respondServiceError maps service sentinels to codes, falling back to the
// database error parser. resource names the entity for generic messages.
func respondServiceError(c *gin.Context, err error, resource string) {
	log := middleware.GetLoggerFromContext(c)

	switch {
	case errors.Is(err, service.ErrClientNotFound):
		apperrors.NotFound(c, apperrors.ClientNotFound, "Client not found")
	case errors.Is(err, service.ErrBenefitNotFound):
		apperrors.NotFound(c, apperrors.BenefitNotFound, "Employee benefit record not found")
	case errors.Is(err, service.ErrCommercialNotFound):
		apperrors.NotFound(c, apperrors.CommercialNotFound, "Commercial insurance record not found")
	case errors.Is(err, service.ErrFeedbackNotFound):
		apperrors.NotFound(c, apperrors.FeedbackNotFound, "Feedback not found")
	case errors.Is(err, service.ErrParentClientAbsent):
		apperrors.NotFound(c, apperrors.ClientParentNotFound, err.Error())
	case errors.Is(err, service.ErrDuplicateTaxID):
		apperrors.Conflict(c, apperrors.ClientTaxIDExists, err.Error())
	case errors.Is(err, service.ErrTaxIDRequired):
		apperrors.BadRequest(c, apperrors.ClientTaxIDRequired, err.Error())
	case errors.Is(err, service.ErrInvalidPlanType):
		code := apperrors.BenefitInvalidPlanType
		if resource == "commercial" {
			code = apperrors.CommercialInvalidPlan
		}
		apperrors.BadRequest(c, code, err.Error())
	case errors.Is(err, service.ErrPocReassignInvalid):
		apperrors.BadRequest(c, apperrors.PocReassignInvalid, err.Error())
	case errors.Is(err, service.ErrSubjectRequired):
		apperrors.BadRequest(c, apperrors.FeedbackSubjectRequired, err.Error())
	default:
		info := apperrors.ParseError(err, resource)
		if info.Status() >= http.StatusInternalServerError {
			log.Error("Request failed", err, map[string]interface{}{
				"resource": resource,
			})
		}
		apperrors.RespondWithError(c, info.Status(), info.Code, info.Message)
		return
	}

	log.Warn("Request rejected", map[string]interface{}{
		"resource": resource,
		"error":    err.Error(),
	})
}
