package controller

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	apperrors "github.com/ikkim/clientbook-backend/internal/errors"
	"github.com/ikkim/clientbook-backend/internal/middleware"
)

type BenefitController struct {
	benefitService service.BenefitService
}

func NewBenefitController(benefitService service.BenefitService) *BenefitController {
	return &BenefitController{benefitService: benefitService}
}

// ListBenefits GET /api/benefits?tax_id=&poc=&status=
func (ctrl *BenefitController) ListBenefits(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	benefits, err := ctrl.benefitService.ListBenefits(repository.BenefitFilter{
		TaxID:  c.Query("tax_id"),
		POC:    c.Query("poc"),
		Status: c.Query("status"),
	})
	if err != nil {
		log.Error("Failed to list benefits", err)
		apperrors.InternalError(c, "Failed to fetch benefits: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"benefits": benefits,
		"count":    len(benefits),
	})
}

func (ctrl *BenefitController) GetBenefit(c *gin.Context) {
	id, ok := parseID(c, "benefit")
	if !ok {
		return
	}

	benefit, err := ctrl.benefitService.GetBenefit(id)
	if err != nil {
		respondServiceError(c, err, "benefit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"benefit": benefit,
	})
}

func (ctrl *BenefitController) CreateBenefit(c *gin.Context) {
	var input service.BenefitInput
	if !bindJSON(c, &input) {
		return
	}

	benefit, err := ctrl.benefitService.CreateBenefit(input)
	if err != nil {
		respondServiceError(c, err, "benefit")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Employee benefit record created successfully",
		"benefit": benefit,
	})
}

func (ctrl *BenefitController) UpdateBenefit(c *gin.Context) {
	id, ok := parseID(c, "benefit")
	if !ok {
		return
	}

	var input service.BenefitInput
	if !bindJSON(c, &input) {
		return
	}

	benefit, err := ctrl.benefitService.UpdateBenefit(id, input)
	if err != nil {
		respondServiceError(c, err, "benefit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee benefit record updated successfully",
		"benefit": benefit,
	})
}

func (ctrl *BenefitController) DeleteBenefit(c *gin.Context) {
	id, ok := parseID(c, "benefit")
	if !ok {
		return
	}

	if err := ctrl.benefitService.DeleteBenefit(id); err != nil {
		respondServiceError(c, err, "benefit")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Employee benefit record deleted successfully",
	})
}

func (ctrl *BenefitController) CloneBenefit(c *gin.Context) {
	id, ok := parseID(c, "benefit")
	if !ok {
		return
	}

	benefit, err := ctrl.benefitService.CloneBenefit(id)
	if err != nil {
		respondServiceError(c, err, "benefit")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Employee benefit record cloned successfully",
		"benefit": benefit,
	})
}

// PocSummary GET /api/benefits/poc-summary
func (ctrl *BenefitController) PocSummary(c *gin.Context) {
	summary, err := ctrl.benefitService.PocSummary()
	if err != nil {
		respondServiceError(c, err, "benefit")
		return
	}

	c.JSON(http.StatusOK, summary)
}

// ReassignPoc PUT /api/benefits/poc-reassign
func (ctrl *BenefitController) ReassignPoc(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.PocReassignInput
	if !bindJSON(c, &input) {
		return
	}

	updated, err := ctrl.benefitService.ReassignPoc(input)
	if err != nil {
		respondServiceError(c, err, "benefit")
		return
	}

	log.Info("Enrollment POC reassigned", map[string]interface{}{
		"updated": updated,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Reassigned %d record(s)", updated),
		"updated": updated,
	})
}
