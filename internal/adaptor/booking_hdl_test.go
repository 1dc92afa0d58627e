package adaptor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/dto/response"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockBookingService struct{ mock.Mock }

func (m *mockBookingService) List(ctx context.Context, userID uuid.UUID, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*response.PaginatedResponse[response.BookingResponse])
	return resp, args.Error(1)
}

func (m *mockBookingService) Get(ctx context.Context, userID, id uuid.UUID) (*response.BookingResponse, error) {
	args := m.Called(ctx, userID, id)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) Create(ctx context.Context, userID uuid.UUID, req *request.BookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) Update(ctx context.Context, userID, id uuid.UUID, req *request.BookingRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, userID, id, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	args := m.Called(ctx, userID, id, req)
	resp, _ := args.Get(0).(*response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockBookingService) Upcoming(ctx context.Context, userID uuid.UUID, limit int) ([]response.BookingResponse, error) {
	args := m.Called(ctx, userID, limit)
	resp, _ := args.Get(0).([]response.BookingResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) Stats(ctx context.Context, userID uuid.UUID) (*response.BookingStatsResponse, error) {
	args := m.Called(ctx, userID)
	resp, _ := args.Get(0).(*response.BookingStatsResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) CheckConflict(ctx context.Context, userID uuid.UUID, req *request.CheckConflictRequest) (*response.ConflictResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*response.ConflictResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) AvailableSlots(ctx context.Context, userID uuid.UUID, req *request.AvailableSlotsRequest) (*response.AvailableSlotsResponse, error) {
	args := m.Called(ctx, userID, req)
	resp, _ := args.Get(0).(*response.AvailableSlotsResponse)
	return resp, args.Error(1)
}

func (m *mockBookingService) SendReceipt(ctx context.Context, userID, id uuid.UUID) (*response.ReceiptResponse, error) {
	args := m.Called(ctx, userID, id)
	resp, _ := args.Get(0).(*response.ReceiptResponse)
	return resp, args.Error(1)
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

func bookingRouter(h *BookingHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/api/bookings/available-slots", h.AvailableSlots)
	r.Post("/api/bookings/check-conflict", h.CheckConflict)
	r.Post("/api/bookings", h.Create)
	r.Get("/api/bookings/{id}", h.Get)
	r.Post("/api/bookings/{id}/receipt", h.SendReceipt)
	return r
}

func serve(t *testing.T, handler http.Handler, method, target, body string, userID *uuid.UUID) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	if userID != nil {
		req = req.WithContext(utils.SetUserContext(req.Context(), *userID, "owner@studio.test"))
	}

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr, env
}

func TestCheckConflict_RequiresAuth(t *testing.T) {
	svc := new(mockBookingService)
	rr, _ := serve(t, bookingRouter(NewBookingHandler(svc, zap.NewNop())), http.MethodPost,
		"/api/bookings/check-conflict", `{"eventDate":"2024-06-10","eventTime":"10:00","duration":2}`, nil)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	svc.AssertNotCalled(t, "CheckConflict", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckConflict_MalformedBody(t *testing.T) {
	owner := uuid.New()
	svc := new(mockBookingService)
	rr, env := serve(t, bookingRouter(NewBookingHandler(svc, zap.NewNop())), http.MethodPost,
		"/api/bookings/check-conflict", `{"eventDate":`, &owner)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Invalid request body", env.Message)
	svc.AssertNotCalled(t, "CheckConflict", mock.Anything, mock.Anything, mock.Anything)
}

func TestCheckConflict_FieldErrorsFromService(t *testing.T) {
	owner := uuid.New()
	svc := new(mockBookingService)
	svc.On("CheckConflict", mock.Anything, owner, mock.Anything).
		Return(nil, usecase.FieldErrors{"eventTime": "Invalid date/time format"})

	rr, env := serve(t, bookingRouter(NewBookingHandler(svc, zap.NewNop())), http.MethodPost,
		"/api/bookings/check-conflict", `{"eventDate":"2024-06-10","eventTime":"25:00","duration":2}`, &owner)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Validation failed", env.Message)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Errors, &fields))
	assert.Contains(t, fields, "eventTime")
}

func TestCheckConflict_ReportsConflicts(t *testing.T) {
	owner := uuid.New()
	svc := new(mockBookingService)
	svc.On("CheckConflict", mock.Anything, owner, &request.CheckConflictRequest{
		EventDate: "2024-06-10", EventTime: "10:00", Duration: 2,
	}).Return(&response.ConflictResponse{
		HasConflict:         true,
		ConflictingBookings: []response.ConflictingBooking{{ID: "b1", EventName: "Shoot", ClientName: response.UnknownClientName}},
	}, nil)

	rr, env := serve(t, bookingRouter(NewBookingHandler(svc, zap.NewNop())), http.MethodPost,
		"/api/bookings/check-conflict", `{"eventDate":"2024-06-10","eventTime":"10:00","duration":2}`, &owner)

	require.Equal(t, http.StatusOK, rr.Code)
	var got response.ConflictResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.True(t, got.HasConflict)
	require.Len(t, got.ConflictingBookings, 1)
	assert.Equal(t, "Unknown", got.ConflictingBookings[0].ClientName)
	svc.AssertExpectations(t)
}

func TestCheckConflict_StorageFailureIsNotNoConflict(t *testing.T) {
	owner := uuid.New()
	svc := new(mockBookingService)
	svc.On("CheckConflict", mock.Anything, owner, mock.Anything).
		Return(nil, fmt.Errorf("find bookings: %w: %v", usecase.ErrStorage, errors.New("connection refused")))

	rr, env := serve(t, bookingRouter(NewBookingHandler(svc, zap.NewNop())), http.MethodPost,
		"/api/bookings/check-conflict", `{"eventDate":"2024-06-10","eventTime":"10:00","duration":1}`, &owner)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.False(t, env.Status)
	assert.Empty(t, env.Data)
}

func TestAvailableSlots_PassesParsedQuery(t *testing.T) {
	owner := uuid.New()
	cases := map[string]float64{
		"/api/bookings/available-slots?date=2024-06-10":              0,
		"/api/bookings/available-slots?date=2024-06-10&duration=abc": 0,
		"/api/bookings/available-slots?date=2024-06-10&duration=2.5": 2.5,
	}

	for target, duration := range cases {
		svc := new(mockBookingService)
		svc.On("AvailableSlots", mock.Anything, owner, &request.AvailableSlotsRequest{Date: "2024-06-10", Duration: duration}).
			Return(&response.AvailableSlotsResponse{Date: "2024-06-10", Duration: 1, AvailableSlots: []string{"08:00", "09:00"}}, nil)

		rr, env := serve(t, bookingRouter(NewBookingHandler(svc, zap.NewNop())), http.MethodGet, target, "", &owner)
		require.Equal(t, http.StatusOK, rr.Code, target)

		var got response.AvailableSlotsResponse
		require.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, []string{"08:00", "09:00"}, got.AvailableSlots)
		svc.AssertExpectations(t)
	}
}

func TestAvailableSlots_MissingDate(t *testing.T) {
	owner := uuid.New()
	svc := new(mockBookingService)
	svc.On("AvailableSlots", mock.Anything, owner, mock.Anything).
		Return(nil, usecase.FieldErrors{"date": "This field is required"})

	rr, env := serve(t, bookingRouter(NewBookingHandler(svc, zap.NewNop())), http.MethodGet,
		"/api/bookings/available-slots", "", &owner)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, string(env.Errors), `"date"`)
}

func TestCreate_ConflictReturns409(t *testing.T) {
	owner := uuid.New()
	clientName := "Asha"
	at := "10:00"
	svc := new(mockBookingService)
	svc.On("Create", mock.Anything, owner, mock.AnythingOfType("*request.BookingRequest")).
		Return(nil, &usecase.ConflictError{Conflicts: []*entity.Booking{{
			Base:       entity.Base{ID: uuid.New()},
			EventName:  "Wedding",
			EventTime:  &at,
			ClientName: &clientName,
		}}})

	rr, env := serve(t, bookingRouter(NewBookingHandler(svc, zap.NewNop())), http.MethodPost,
		"/api/bookings", `{"eventName":"Portrait","eventDate":"2024-06-10","eventTime":"10:30","duration":1}`, &owner)

	require.Equal(t, http.StatusConflict, rr.Code)
	var got response.ConflictResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.True(t, got.HasConflict)
	require.Len(t, got.ConflictingBookings, 1)
	assert.Equal(t, "Asha", got.ConflictingBookings[0].ClientName)
}

func TestGet_InvalidAndMissingID(t *testing.T) {
	owner := uuid.New()
	svc := new(mockBookingService)
	h := bookingRouter(NewBookingHandler(svc, zap.NewNop()))

	rr, _ := serve(t, h, http.MethodGet, "/api/bookings/not-a-uuid", "", &owner)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	missing := uuid.New()
	svc.On("Get", mock.Anything, owner, missing).Return(nil, fmt.Errorf("booking not found: %w", usecase.ErrNotFound))
	rr, env := serve(t, h, http.MethodGet, "/api/bookings/"+missing.String(), "", &owner)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "Booking not found", env.Message)
}

func TestSendReceipt_DeliveryFailure(t *testing.T) {
	owner := uuid.New()
	id := uuid.New()
	svc := new(mockBookingService)
	svc.On("SendReceipt", mock.Anything, owner, id).Return(nil, fmt.Errorf("%w: smtp down", usecase.ErrEmailDelivery))

	rr, env := serve(t, bookingRouter(NewBookingHandler(svc, zap.NewNop())), http.MethodPost,
		"/api/bookings/"+id.String()+"/receipt", "", &owner)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Equal(t, "Failed to send email", env.Message)
}
