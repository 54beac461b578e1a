package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/ikkim/clientbook-backend/config"
	"github.com/ikkim/clientbook-backend/internal/app/controller"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	"github.com/ikkim/clientbook-backend/internal/db"
	"github.com/ikkim/clientbook-backend/internal/middleware"
	"github.com/ikkim/clientbook-backend/internal/router"
	"github.com/ikkim/clientbook-backend/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type TestServer struct {
	Server *httptest.Server
	Hub    *websocket.Hub
}

func setupIntegrationTest(t *testing.T) *TestServer {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := websocket.NewHub()
	go hub.Run(ctx)

	clientRepo := repository.NewClientRepository(testDB)
	benefitRepo := repository.NewBenefitRepository(testDB)
	commercialRepo := repository.NewCommercialRepository(testDB)
	feedbackRepo := repository.NewFeedbackRepository(testDB)

	summaryService := service.NewSummaryService(clientRepo, benefitRepo, commercialRepo, nil, 0)
	notifier := service.Notifiers{hub, summaryService}

	cfg := &config.Config{
		Server: config.ServerConfig{GinMode: gin.TestMode},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}

	r := router.NewRouter(
		controller.NewClientController(service.NewClientService(testDB, clientRepo, notifier)),
		controller.NewBenefitController(service.NewBenefitService(testDB, clientRepo, benefitRepo, notifier)),
		controller.NewCommercialController(service.NewCommercialService(testDB, clientRepo, commercialRepo, notifier)),
		controller.NewFeedbackController(service.NewFeedbackService(feedbackRepo, notifier)),
		controller.NewTransferController(
			service.NewExportService(testDB, clientRepo, benefitRepo, commercialRepo),
			service.NewImportService(testDB, clientRepo, benefitRepo, commercialRepo, notifier),
			20,
		),
		controller.NewSummaryController(summaryService),
		controller.NewEventsController(hub, cfg.CORS.AllowedOrigins),
		cfg,
	)

	server := httptest.NewServer(r.Setup())
	t.Cleanup(server.Close)

	return &TestServer{Server: server, Hub: hub}
}

func TestIntegration_HealthAndCORS(t *testing.T) {
	ts := setupIntegrationTest(t)

	for _, path := range []string{"/health", "/api/health"} {
		resp, err := http.Get(ts.Server.URL + path)
		require.NoError(t, err)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "ok", body["status"])
		assert.NotEmpty(t, resp.Header.Get(middleware.RequestIDHeader))
	}

	req, err := http.NewRequest(http.MethodOptions, ts.Server.URL+"/api/clients", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))

	req, err = http.NewRequest(http.MethodGet, ts.Server.URL+"/api/clients", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://evil.example")
	req.Header.Set(middleware.RequestIDHeader, "req-123")
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Empty(t, resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "req-123", resp.Header.Get(middleware.RequestIDHeader))
}

func TestIntegration_ChangesArePushedToEventStream(t *testing.T) {
	ts := setupIntegrationTest(t)

	wsURL := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/api/events"
	header := http.Header{"Origin": []string{"http://localhost:3000"}}
	conn, _, err := gorillaws.DefaultDialer.Dial(wsURL, header)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return ts.Hub.ClientCount() == 1 }, 2*time.Second, 10*time.Millisecond)

	body, _ := json.Marshal(map[string]interface{}{"tax_id": "12-3456789", "client_name": "Acme Corp"})
	resp, err := http.Post(ts.Server.URL+"/api/clients", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)

	var event websocket.Event
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, websocket.EventDataChanged, event.Type)
	assert.Equal(t, service.EntityClient, event.Entity)
	assert.Equal(t, service.ActionCreated, event.Action)

	resp, err = http.Get(ts.Server.URL + "/api/summary")
	require.NoError(t, err)
	var summary service.Summary
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
	resp.Body.Close()
	assert.Equal(t, int64(1), summary.TotalClients)
	assert.Equal(t, int64(1), summary.ClientsWithoutBenefits)
}

func TestIntegration_EventStreamRejectsUnknownOrigin(t *testing.T) {
	ts := setupIntegrationTest(t)

	wsURL := "ws" + strings.TrimPrefix(ts.Server.URL, "http") + "/api/events"
	header := http.Header{"Origin": []string{"http://evil.example"}}
	_, resp, err := gorillaws.DefaultDialer.Dial(wsURL, header)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
}
