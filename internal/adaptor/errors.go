package adaptor

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"studio-booking/internal/dto/response"
	"studio-booking/internal/usecase"
	"studio-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

// handleServiceError maps usecase errors onto the JSON envelope
func handleServiceError(w http.ResponseWriter, log *zap.Logger, err error, operation string) {
	var (
		conflict *usecase.ConflictError
		fields   usecase.FieldErrors
	)

	switch {
	case errors.As(err, &conflict):
		log.Info(operation+" rejected - booking conflict", zap.Int("conflicts", len(conflict.Conflicts)))
		utils.ResponseConflict(w, "Booking overlaps an existing booking", response.ConflictsToResponse(conflict.Conflicts))

	case errors.As(err, &fields):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", map[string]string(fields))

	case errors.Is(err, usecase.ErrValidation):
		log.Warn(operation+" validation failed", zap.Error(err))
		utils.ResponseBadRequest(w, "Validation failed", validationDetail(err))

	case errors.Is(err, usecase.ErrInvalidOTP):
		log.Warn(operation+" failed - invalid OTP")
		utils.ResponseBadRequest(w, "Invalid or expired OTP", nil)

	case errors.Is(err, usecase.ErrAlreadyExists):
		log.Warn(operation+" failed - already exists", zap.Error(err))
		utils.ResponseBadRequest(w, "Email already registered", nil)

	case errors.Is(err, usecase.ErrAlreadyVerified):
		utils.ResponseBadRequest(w, "Email already verified", nil)

	case errors.Is(err, usecase.ErrInvalidCredentials):
		log.Warn(operation+" failed - invalid credentials")
		utils.ResponseUnauthorized(w, "Invalid email or password")

	case errors.Is(err, usecase.ErrNotFound):
		log.Warn(operation+" failed - not found", zap.Error(err))
		utils.ResponseNotFound(w, notFoundMessage(err))

	case errors.Is(err, usecase.ErrEmailDelivery):
		log.Error(operation+" failed - email not delivered", zap.Error(err))
		utils.ResponseInternalError(w, "Failed to send email")

	case errors.Is(err, usecase.ErrStorage):
		log.Error(operation+" failed - storage", zap.Error(err))
		utils.ResponseServiceUnavailable(w, "Storage temporarily unavailable, please retry")

	default:
		log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
		utils.ResponseInternalError(w, "Internal server error")
	}
}

// validationDetail strips the sentinel prefix, leaving the field messages
func validationDetail(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, usecase.ErrValidation.Error()+": "); i >= 0 {
		return msg[i+len(usecase.ErrValidation.Error())+2:]
	}
	return msg
}

func notFoundMessage(err error) string {
	msg := err.Error()
	if i := strings.Index(msg, ": "+usecase.ErrNotFound.Error()); i > 0 {
		msg = msg[:i]
	}
	if msg == "" {
		return "Not found"
	}
	return strings.ToUpper(msg[:1]) + msg[1:]
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		utils.ResponseBadRequest(w, "Invalid request body", nil)
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		utils.ResponseUnauthorized(w, "Authentication required")
		return uuid.Nil, false
	}
	return userID, true
}

func pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := utils.ParseUUID(chi.URLParam(r, name))
	if err != nil {
		utils.ResponseBadRequest(w, "Invalid "+name, nil)
		return uuid.Nil, false
	}
	return id, true
}
