package adaptor

import (
	"net/http"

	"studio-booking/internal/dto/request"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

type BookingHandler struct {
	service usecase.BookingService
	log     *zap.Logger
}

func NewBookingHandler(service usecase.BookingService, log *zap.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log.With(zap.String("handler", "booking")),
	}
}

// List handles GET /api/bookings?page=&perPage=&status=
func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.ListBookingsRequest{
		PaginatedRequest: request.PaginatedRequest{
			Page:    utils.ParseInt(query.Get("page"), 1),
			PerPage: utils.ParseInt(query.Get("perPage"), 10),
		},
		Status: query.Get("status"),
	}

	bookings, err := h.service.List(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "list bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// Get handles GET /api/bookings/{id}
func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.service.Get(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking")
		return
	}

	utils.ResponseSuccess(w, "success", booking)
}

// Create handles POST /api/bookings
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.Create(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create booking")
		return
	}

	utils.ResponseCreated(w, "Booking created", booking)
}

// Update handles PUT /api/bookings/{id}
func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req request.BookingRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.Update(r.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking")
		return
	}

	utils.ResponseSuccess(w, "Booking updated", booking)
}

// UpdateStatus handles PATCH /api/bookings/{id}/status
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req request.UpdateBookingStatusRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	booking, err := h.service.UpdateStatus(r.Context(), userID, id, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update booking status")
		return
	}

	utils.ResponseSuccess(w, "Booking status updated", booking)
}

// Delete handles DELETE /api/bookings/{id}
func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), userID, id); err != nil {
		handleServiceError(w, h.log, err, "delete booking")
		return
	}

	utils.ResponseSuccess(w, "Booking deleted", nil)
}

// Upcoming handles GET /api/bookings/upcoming?limit=
func (h *BookingHandler) Upcoming(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	limit := utils.ParseInt(r.URL.Query().Get("limit"), 0)
	bookings, err := h.service.Upcoming(r.Context(), userID, limit)
	if err != nil {
		handleServiceError(w, h.log, err, "get upcoming bookings")
		return
	}

	utils.ResponseSuccess(w, "success", bookings)
}

// Stats handles GET /api/bookings/stats
func (h *BookingHandler) Stats(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	stats, err := h.service.Stats(r.Context(), userID)
	if err != nil {
		handleServiceError(w, h.log, err, "get booking stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}

// CheckConflict handles POST /api/bookings/check-conflict
func (h *BookingHandler) CheckConflict(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CheckConflictRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.service.CheckConflict(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "check conflict")
		return
	}

	utils.ResponseSuccess(w, "success", result)
}

// AvailableSlots handles GET /api/bookings/available-slots?date=&duration=
func (h *BookingHandler) AvailableSlots(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	req := request.AvailableSlotsRequest{
		Date:     query.Get("date"),
		Duration: utils.ParseFloat(query.Get("duration"), 0),
	}

	slots, err := h.service.AvailableSlots(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "get available slots")
		return
	}

	utils.ResponseSuccess(w, "success", slots)
}

// SendReceipt handles POST /api/bookings/{id}/receipt
func (h *BookingHandler) SendReceipt(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	receipt, err := h.service.SendReceipt(r.Context(), userID, id)
	if err != nil {
		handleServiceError(w, h.log, err, "send receipt")
		return
	}

	utils.ResponseSuccess(w, "Receipt sent", receipt)
}
