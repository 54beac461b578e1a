package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	"github.com/ikkim/clientbook-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupControllerTest(t *testing.T, maxUploadMB int64) (*gin.Engine, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	clientRepo := repository.NewClientRepository(testDB)
	benefitRepo := repository.NewBenefitRepository(testDB)
	commercialRepo := repository.NewCommercialRepository(testDB)
	feedbackRepo := repository.NewFeedbackRepository(testDB)
	summaries := service.NewSummaryService(clientRepo, benefitRepo, commercialRepo, nil, 0)

	clients := NewClientController(service.NewClientService(testDB, clientRepo, summaries))
	benefits := NewBenefitController(service.NewBenefitService(testDB, clientRepo, benefitRepo, summaries))
	commercial := NewCommercialController(service.NewCommercialService(testDB, clientRepo, commercialRepo, summaries))
	feedback := NewFeedbackController(service.NewFeedbackService(feedbackRepo, summaries))
	transfer := NewTransferController(
		service.NewExportService(testDB, clientRepo, benefitRepo, commercialRepo),
		service.NewImportService(testDB, clientRepo, benefitRepo, commercialRepo, summaries),
		maxUploadMB,
	)
	summary := NewSummaryController(summaries)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.GET("/api/clients", clients.ListClients)
	router.POST("/api/clients", clients.CreateClient)
	router.GET("/api/clients/:id", clients.GetClient)
	router.PUT("/api/clients/:id", clients.UpdateClient)
	router.DELETE("/api/clients/:id", clients.DeleteClient)
	router.POST("/api/clients/:id/clone", clients.CloneClient)

	router.GET("/api/benefits", benefits.ListBenefits)
	router.POST("/api/benefits", benefits.CreateBenefit)
	router.GET("/api/benefits/poc-summary", benefits.PocSummary)
	router.PUT("/api/benefits/poc-reassign", benefits.ReassignPoc)
	router.GET("/api/benefits/:id", benefits.GetBenefit)
	router.PUT("/api/benefits/:id", benefits.UpdateBenefit)
	router.DELETE("/api/benefits/:id", benefits.DeleteBenefit)
	router.POST("/api/benefits/:id/clone", benefits.CloneBenefit)

	router.GET("/api/commercial", commercial.ListCommercial)
	router.POST("/api/commercial", commercial.CreateCommercial)
	router.GET("/api/commercial/:id", commercial.GetCommercial)

	router.GET("/api/feedback", feedback.ListFeedback)
	router.POST("/api/feedback", feedback.CreateFeedback)
	router.PUT("/api/feedback/:id", feedback.UpdateFeedback)
	router.DELETE("/api/feedback/:id", feedback.DeleteFeedback)

	router.GET("/api/summary", summary.GetSummary)
	router.GET("/api/export", transfer.Export)
	router.POST("/api/import", transfer.Import)

	return router, testDB
}

// doJSON sends body (nil for none) and decodes the JSON reply.
func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response), w.Body.String())
	}
	return w.Code, response
}

func createClient(t *testing.T, router *gin.Engine, taxID, name string) uint {
	t.Helper()
	code, resp := doJSON(t, router, http.MethodPost, "/api/clients", map[string]interface{}{
		"tax_id":      taxID,
		"client_name": name,
	})
	require.Equal(t, http.StatusCreated, code, resp)
	client := resp["client"].(map[string]interface{})
	return uint(client["id"].(float64))
}

func TestClientController_CreateAndFetch(t *testing.T) {
	router, _ := setupControllerTest(t, 20)

	id := createClient(t, router, "12-3456789", "Acme Corp")

	code, resp := doJSON(t, router, http.MethodGet, "/api/clients/"+itoa(id), nil)
	assert.Equal(t, http.StatusOK, code)
	client := resp["client"].(map[string]interface{})
	assert.Equal(t, "12-3456789", client["tax_id"])
	assert.Equal(t, "Acme Corp", client["client_name"])
	assert.Equal(t, "Active", client["status"])

	code, resp = doJSON(t, router, http.MethodGet, "/api/clients?search=acme", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), resp["count"])
	assert.Len(t, resp["clients"], 1)
}

func TestClientController_CreateValidation(t *testing.T) {
	router, _ := setupControllerTest(t, 20)
	createClient(t, router, "12-3456789", "Acme Corp")

	code, resp := doJSON(t, router, http.MethodPost, "/api/clients", map[string]interface{}{
		"client_name": "No Tax ID",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "CLIENT_TAX_ID_REQUIRED", resp["error"])

	code, resp = doJSON(t, router, http.MethodPost, "/api/clients", map[string]interface{}{
		"tax_id": "12-3456789",
	})
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CLIENT_TAX_ID_EXISTS", resp["error"])

	req := httptest.NewRequest(http.MethodPost, "/api/clients", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestClientController_PatchKeepsUnsentFields(t *testing.T) {
	router, _ := setupControllerTest(t, 20)
	id := createClient(t, router, "12-3456789", "Acme Corp")

	code, resp := doJSON(t, router, http.MethodPut, "/api/clients/"+itoa(id), map[string]interface{}{
		"city":      "Austin",
		"total_ees": 42,
	})
	require.Equal(t, http.StatusOK, code, resp)
	client := resp["client"].(map[string]interface{})
	assert.Equal(t, "Acme Corp", client["client_name"])
	assert.Equal(t, "Austin", client["city"])
	assert.Equal(t, float64(42), client["total_ees"])

	code, resp = doJSON(t, router, http.MethodPut, "/api/clients/"+itoa(id), map[string]interface{}{
		"city": nil,
	})
	require.Equal(t, http.StatusOK, code)
	assert.Nil(t, resp["client"].(map[string]interface{})["city"])
}

func TestClientController_NotFoundAndBadID(t *testing.T) {
	router, _ := setupControllerTest(t, 20)

	code, resp := doJSON(t, router, http.MethodGet, "/api/clients/999", nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "CLIENT_NOT_FOUND", resp["error"])

	code, resp = doJSON(t, router, http.MethodGet, "/api/clients/abc", nil)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "VALIDATION_INVALID_ID", resp["error"])

	code, _ = doJSON(t, router, http.MethodDelete, "/api/clients/999", nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestClientController_CloneWithAndWithoutBody(t *testing.T) {
	router, _ := setupControllerTest(t, 20)
	id := createClient(t, router, "12-3456789", "Acme Corp")

	req := httptest.NewRequest(http.MethodPost, "/api/clients/"+itoa(id)+"/clone", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	clone := resp["client"].(map[string]interface{})
	assert.Equal(t, "12-3456789-COPY", clone["tax_id"])
	assert.Equal(t, "Acme Corp", clone["client_name"])

	code, resp := doJSON(t, router, http.MethodPost, "/api/clients/"+itoa(id)+"/clone", map[string]interface{}{
		"tax_id": "98-7654321",
	})
	require.Equal(t, http.StatusCreated, code)
	assert.Equal(t, "98-7654321", resp["client"].(map[string]interface{})["tax_id"])

	code, resp = doJSON(t, router, http.MethodPost, "/api/clients/"+itoa(id)+"/clone", nil)
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, "CLIENT_TAX_ID_EXISTS", resp["error"])
}

func TestClientController_DeleteCascadesToBenefits(t *testing.T) {
	router, _ := setupControllerTest(t, 20)
	id := createClient(t, router, "12-3456789", "Acme Corp")

	code, _ := doJSON(t, router, http.MethodPost, "/api/benefits", map[string]interface{}{
		"tax_id": "12-3456789",
	})
	require.Equal(t, http.StatusCreated, code)

	code, resp := doJSON(t, router, http.MethodDelete, "/api/clients/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Client deleted successfully", resp["message"])

	code, resp = doJSON(t, router, http.MethodGet, "/api/benefits", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(0), resp["count"])
}
