package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"clinic/internal/pagination"
	"clinic/internal/services"
)

// ClientHandler handles client-related requests.
type ClientHandler struct {
	clientService services.ClientServicer
	auditService  services.AuditServicer
}

// NewClientHandler creates a new ClientHandler.
func NewClientHandler(clientService services.ClientServicer, auditService services.AuditServicer) *ClientHandler {
	return &ClientHandler{clientService: clientService, auditService: auditService}
}

// ClientRequest represents the payload for creating or updating a client.
type ClientRequest struct {
	Name        string `json:"name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email,max=255"`
	Age         int    `json:"age" binding:"gte=0,lte=150"`
	PhoneNumber string `json:"phoneNumber" binding:"max=30"`
}

func (r ClientRequest) input() services.ClientInput {
	return services.ClientInput{Name: r.Name, Email: r.Email, Age: r.Age, PhoneNumber: r.PhoneNumber}
}

// AddClient handles client creation
// @Summary     Add a client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       request body ClientRequest true "Client details"
// @Success     201 {object} SuccessResponse "Client added"
// @Failure     400 {object} ErrorResponse "Missing fields"
// @Failure     409 {object} ErrorResponse "Email already exists"
// @Router      /clients [post]
func (h *ClientHandler) AddClient(c *gin.Context) {
	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.CreateClient(req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusCreated, gin.H{"client": client}, "Client added successfully")
}

// UpdateClient handles client updates
// @Summary     Update a client
// @Tags        clients
// @Accept      json
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "Client ID"
// @Param       request body ClientRequest true "Client details"
// @Success     200 {object} SuccessResponse "Client updated"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Failure     409 {object} ErrorResponse "Email already exists"
// @Router      /clients/{id} [put]
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClientRequest
	if !bindJSON(c, &req) {
		return
	}

	client, err := h.clientService.UpdateClient(id, req.input())
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"client": client}, "Client updated successfully")
}

// DeleteClient handles client deletion
// @Summary     Delete a client
// @Tags        clients
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "Client ID"
// @Success     200 {object} SuccessResponse "Client deleted"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id} [delete]
func (h *ClientHandler) DeleteClient(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.clientService.DeleteClient(id); err != nil {
		respondWithError(c, err)
		return
	}

	userID, _ := getUserID(c)
	h.auditService.Log(userID, services.AuditActionDeleteClient, "client", id, c.ClientIP(), nil)
	respondWithSuccess(c, http.StatusOK, nil, "Client deleted successfully")
}

// SearchClients handles filtered client lookup
// @Summary     Search clients
// @Description Case-insensitive substring match on name and/or email. No filters returns all clients.
// @Tags        clients
// @Produce     json
// @Security    CookieAuth
// @Param       name  query string false "Name fragment"
// @Param       email query string false "Email fragment"
// @Success     200 {object} SuccessResponse "Matching clients"
// @Router      /clients [get]
func (h *ClientHandler) SearchClients(c *gin.Context) {
	clients, err := h.clientService.SearchClients(c.Query("name"), c.Query("email"))
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"clients": clients}, "Clients fetched successfully")
}

// GetAllClients lists every client
// @Summary     List all clients
// @Description Returns every client, or one page when page is given.
// @Tags        clients
// @Produce     json
// @Security    CookieAuth
// @Param       page      query int false "Page number"
// @Param       page_size query int false "Items per page (max 100)"
// @Success     200 {object} SuccessResponse "Clients"
// @Router      /clients/all [get]
func (h *ClientHandler) GetAllClients(c *gin.Context) {
	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, invalidPage(err))
		return
	}

	result, err := h.clientService.ListClients(page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data := gin.H{"clients": result.Items}
	if page.Enabled() {
		data["pagination"] = pageMeta(result)
	}
	respondWithSuccess(c, http.StatusOK, data, "Clients fetched successfully")
}

// GetClientByID returns one client
// @Summary     Get client by ID
// @Tags        clients
// @Produce     json
// @Security    CookieAuth
// @Param       id path string true "Client ID"
// @Success     200 {object} SuccessResponse "Client"
// @Failure     400 {object} ErrorResponse "Invalid client ID"
// @Failure     404 {object} ErrorResponse "Client not found"
// @Router      /clients/{id} [get]
func (h *ClientHandler) GetClientByID(c *gin.Context) {
	id, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	client, err := h.clientService.GetClientByID(id)
	if err != nil {
		respondWithError(c, err)
		return
	}
	respondWithSuccess(c, http.StatusOK, gin.H{"client": client}, "Client fetched successfully")
}
