package adaptor

import (
	"net/http"

	"studio-booking/internal/dto/request"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

type ClientHandler struct {
	service usecase.ClientService
	log     *zap.Logger
}

func NewClientHandler(service usecase.ClientService, log *zap.Logger) *ClientHandler {
	return &ClientHandler{
		service: service,
		log:     log.With(zap.String("handler", "client")),
	}
}

// List handles GET /api/clients?page=&perPage=&q=
func (h *ClientHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.ListClientsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("perPage"), 10),
		},
		Search: query.Get("q"),
	}

	clients, err := h.service.List(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list clients")
		return
	}

	utils.ResponseSuccess(w, "success", clients)
}

// Create handles POST /api/clients
func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.ClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	client, created, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create client")
		return
	}

	if !created {
		utils.ResponseSuccess(w, "Client already exists", client)
		return
	}
	utils.ResponseCreated(w, "Client created", client)
}

// Get handles GET /api/clients/{id}
func (h *ClientHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	client, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, h.log, err, "get client")
		return
	}

	utils.ResponseSuccess(w, "success", client)
}

// Update handles PUT /api/clients/{id}
func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req request.ClientRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	client, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update client")
		return
	}

	utils.ResponseSuccess(w, "Client updated", client)
}

// Delete handles DELETE /api/clients/{id}
func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		handleServiceError(w, h.log, err, "delete client")
		return
	}

	utils.ResponseSuccess(w, "Client deleted", nil)
}
