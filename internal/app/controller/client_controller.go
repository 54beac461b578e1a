package controller

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/clientbook-backend/internal/app/repository"
	"github.com/ikkim/clientbook-backend/internal/app/service"
	apperrors "github.com/ikkim/clientbook-backend/internal/errors"
	"github.com/ikkim/clientbook-backend/internal/middleware"
)

type ClientController struct {
	clientService service.ClientService
}

func NewClientController(clientService service.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

// CloneClientRequest optionally names the tax ID of the copy.
type CloneClientRequest struct {
	TaxID string `json:"tax_id"`
}

// ListClients GET /api/clients?search=&status=
func (ctrl *ClientController) ListClients(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	clients, err := ctrl.clientService.ListClients(repository.ClientFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
	})
	if err != nil {
		log.Error("Failed to list clients", err)
		apperrors.InternalError(c, "Failed to fetch clients: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"count":   len(clients),
	})
}

func (ctrl *ClientController) GetClient(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}

	client, err := ctrl.clientService.GetClient(id)
	if err != nil {
		respondServiceError(c, err, "client")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"client": client,
	})
}

func (ctrl *ClientController) CreateClient(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var input service.ClientInput
	if !bindJSON(c, &input) {
		return
	}

	client, err := ctrl.clientService.CreateClient(input)
	if err != nil {
		respondServiceError(c, err, "client")
		return
	}

	log.Info("Client created", map[string]interface{}{
		"client_id": client.ID,
		"tax_id":    client.TaxID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Client created successfully",
		"client":  client,
	})
}

func (ctrl *ClientController) UpdateClient(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}

	var input service.ClientInput
	if !bindJSON(c, &input) {
		return
	}

	client, err := ctrl.clientService.UpdateClient(id, input)
	if err != nil {
		respondServiceError(c, err, "client")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Client updated successfully",
		"client":  client,
	})
}

// DeleteClient removes the client and, through the cascade, its benefit and
// commercial records.
func (ctrl *ClientController) DeleteClient(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}

	if err := ctrl.clientService.DeleteClient(id); err != nil {
		respondServiceError(c, err, "client")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Client deleted successfully",
	})
}

// CloneClient POST /api/clients/:id/clone with an optional {"tax_id"} body.
func (ctrl *ClientController) CloneClient(c *gin.Context) {
	id, ok := parseID(c, "client")
	if !ok {
		return
	}

	var req CloneClientRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Invalid request data: "+err.Error())
		return
	}

	client, err := ctrl.clientService.CloneClient(id, req.TaxID)
	if err != nil {
		respondServiceError(c, err, "client")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Client cloned successfully",
		"client":  client,
	})
}
