package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	apperrors "github.com/ikkim/clientbook-backend/internal/errors"
	"github.com/ikkim/clientbook-backend/internal/middleware"
)

type CommercialController struct {
	commercialService service.CommercialService
}

func NewCommercialController(commercialService service.CommercialService) *CommercialController {
	return &CommercialController{commercialService: commercialService}
}

func (ctrl *CommercialController) ListCommercial(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	records, err := ctrl.commercialService.ListCommercial(repository.CommercialFilter{
		TaxID:  c.Query("tax_id"),
		Status: c.Query("status"),
	})
	if err != nil {
		log.Error("Failed to list commercial records", err)
		apperrors.InternalError(c, "Failed to fetch commercial records: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commercial": records,
		"count":      len(records),
	})
}

func (ctrl *CommercialController) GetCommercial(c *gin.Context) {
	id, ok := parseID(c, "commercial")
	if !ok {
		return
	}

	record, err := ctrl.commercialService.GetCommercial(id)
	if err != nil {
		respondServiceError(c, err, "commercial")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"commercial": record,
	})
}

func (ctrl *CommercialController) CreateCommercial(c *gin.Context) {
	var input service.CommercialInput
	if !bindJSON(c, &input) {
		return
	}

	record, err := ctrl.commercialService.CreateCommercial(input)
	if err != nil {
		respondServiceError(c, err, "commercial")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Commercial insurance record created successfully",
		"commercial": record,
	})
}

func (ctrl *CommercialController) UpdateCommercial(c *gin.Context) {
	id, ok := parseID(c, "commercial")
	if !ok {
		return
	}

	var input service.CommercialInput
	if !bindJSON(c, &input) {
		return
	}

	record, err := ctrl.commercialService.UpdateCommercial(id, input)
	if err != nil {
		respondServiceError(c, err, "commercial")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Commercial insurance record updated successfully",
		"commercial": record,
	})
}

func (ctrl *CommercialController) DeleteCommercial(c *gin.Context) {
	id, ok := parseID(c, "commercial")
	if !ok {
		return
	}

	if err := ctrl.commercialService.DeleteCommercial(id); err != nil {
		respondServiceError(c, err, "commercial")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Commercial insurance record deleted successfully",
	})
}

func (ctrl *CommercialController) CloneCommercial(c *gin.Context) {
	id, ok := parseID(c, "commercial")
	if !ok {
		return
	}

	record, err := ctrl.commercialService.CloneCommercial(id)
	if err != nil {
		respondServiceError(c, err, "commercial")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Commercial insurance record cloned successfully",
		"commercial": record,
	})
}
