package controller

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestBenefitController_CreateRequiresParent(t *testing.T) {
	router, _ := setupControllerTest(t, 20)

	code, resp := doJSON(t, router, http.MethodPost, "/api/benefits", map[string]interface{}{
		"tax_id": "99-0000000",
	})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "CLIENT_PARENT_NOT_FOUND", resp["error"])

	createClient(t, router, "12-3456789", "Acme Corp")
	code, resp = doJSON(t, router, http.MethodPost, "/api/benefits", map[string]interface{}{
		"tax_id": "12-3456789",
		"plans":  []map[string]interface{}{{"plan_type": "ltd"}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BENEFIT_INVALID_PLAN_TYPE", resp["error"])
}

func TestBenefitController_PlansAndClone(t *testing.T) {
	router, _ := setupControllerTest(t, 20)
	createClient(t, router, "12-3456789", "Acme Corp")

	code, resp := doJSON(t, router, http.MethodPost, "/api/benefits", map[string]interface{}{
		"tax_id":         "12-3456789",
		"enrollment_poc": "Dana",
		"ltd":            map[string]interface{}{"carrier": "Guardian"},
		"plans": []map[string]interface{}{
			{"plan_type": "medical", "carrier": "Aetna"},
			{"plan_type": "dental", "carrier": "Delta Dental"},
		},
	})
	require.Equal(t, http.StatusCreated, code, resp)
	benefit := resp["benefit"].(map[string]interface{})
	id := uint(benefit["id"].(float64))
	assert.Len(t, benefit["plans"], 2)

	code, resp = doJSON(t, router, http.MethodGet, "/api/benefits/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["benefit"].(map[string]interface{})["plans"], 2)

	code, resp = doJSON(t, router, http.MethodPost, "/api/benefits/"+itoa(id)+"/clone", nil)
	require.Equal(t, http.StatusCreated, code)
	clone := resp["benefit"].(map[string]interface{})
	assert.NotEqual(t, float64(id), clone["id"])
	assert.Equal(t, "12-3456789", clone["tax_id"])
	assert.Len(t, clone["plans"], 2)

	code, resp = doJSON(t, router, http.MethodGet, "/api/benefits?tax_id=12-3456789", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(2), resp["count"])

	code, _ = doJSON(t, router, http.MethodDelete, "/api/benefits/"+itoa(id), nil)
	assert.Equal(t, http.StatusOK, code)
	code, resp = doJSON(t, router, http.MethodGet, "/api/benefits/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "BENEFIT_NOT_FOUND", resp["error"])
}

func TestBenefitController_PocSummaryAndReassign(t *testing.T) {
	router, _ := setupControllerTest(t, 20)
	createClient(t, router, "12-0000001", "Acme Corp")
	createClient(t, router, "12-0000002", "Beta LLC")

	for _, body := range []map[string]interface{}{
		{"tax_id": "12-0000001", "enrollment_poc": "Dana"},
		{"tax_id": "12-0000002"},
	} {
		code, resp := doJSON(t, router, http.MethodPost, "/api/benefits", body)
		require.Equal(t, http.StatusCreated, code, resp)
	}

	code, resp := doJSON(t, router, http.MethodGet, "/api/benefits/poc-summary", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), resp["unassigned_count"])
	assert.Len(t, resp["pocs"], 1)

	code, resp = doJSON(t, router, http.MethodPut, "/api/benefits/poc-reassign", map[string]interface{}{
		"to_poc": "Kim",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "BENEFIT_POC_REASSIGN_INVALID", resp["error"])

	code, resp = doJSON(t, router, http.MethodPut, "/api/benefits/poc-reassign", map[string]interface{}{
		"from_poc": "Dana",
		"to_poc":   "Kim",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), resp["updated"])
	assert.Equal(t, "Reassigned 1 record(s)", resp["message"])

	code, resp = doJSON(t, router, http.MethodGet, "/api/benefits?poc=Kim", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), resp["count"])
}

func TestCommercialController_CreateAndFetch(t *testing.T) {
	router, _ := setupControllerTest(t, 20)
	createClient(t, router, "12-3456789", "Acme Corp")

	code, resp := doJSON(t, router, http.MethodPost, "/api/commercial", map[string]interface{}{
		"tax_id":                    "12-3456789",
		"general_liability_carrier": "Hiscox",
		"plans": []map[string]interface{}{
			{"plan_type": "umbrella", "carrier": "Chubb"},
		},
	})
	require.Equal(t, http.StatusCreated, code, resp)
	record := resp["commercial"].(map[string]interface{})
	id := uint(record["id"].(float64))

	code, resp = doJSON(t, router, http.MethodGet, "/api/commercial/"+itoa(id), nil)
	require.Equal(t, http.StatusOK, code)
	assert.Len(t, resp["commercial"].(map[string]interface{})["plans"], 1)

	code, resp = doJSON(t, router, http.MethodPost, "/api/commercial", map[string]interface{}{
		"tax_id": "12-3456789",
		"plans":  []map[string]interface{}{{"plan_type": "general_liability"}},
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "COMMERCIAL_INVALID_PLAN_TYPE", resp["error"])

	code, resp = doJSON(t, router, http.MethodGet, "/api/commercial", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), resp["count"])
}

func TestFeedbackController_Lifecycle(t *testing.T) {
	router, _ := setupControllerTest(t, 20)

	code, resp := doJSON(t, router, http.MethodPost, "/api/feedback", map[string]interface{}{
		"subject": "",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "FEEDBACK_SUBJECT_REQUIRED", resp["error"])

	code, resp = doJSON(t, router, http.MethodPost, "/api/feedback", map[string]interface{}{
		"subject": "Add a renewal calendar",
		"type":    "Feature",
	})
	require.Equal(t, http.StatusCreated, code, resp)
	item := resp["feedback"].(map[string]interface{})
	id := uint(item["id"].(float64))
	assert.Equal(t, "New", item["status"])

	code, resp = doJSON(t, router, http.MethodPut, "/api/feedback/"+itoa(id), map[string]interface{}{
		"status": "Resolved",
	})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Resolved", resp["feedback"].(map[string]interface{})["status"])

	code, resp = doJSON(t, router, http.MethodGet, "/api/feedback?status=Resolved", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, float64(1), resp["count"])

	code, _ = doJSON(t, router, http.MethodDelete, "/api/feedback/"+itoa(id), nil)
	assert.Equal(t, http.StatusOK, code)
	code, _ = doJSON(t, router, http.MethodDelete, "/api/feedback/"+itoa(id), nil)
	assert.Equal(t, http.StatusNotFound, code)
}
