package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/request"
	"studio-booking/internal/dto/response"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultUpcomingLimit = 10
	maxUpcomingLimit     = 50
)

type BookingService interface {
	List(ctx context.Context, userID uuid.UUID, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error)
	Get(ctx context.Context, userID, id uuid.UUID) (*response.BookingResponse, error)
	Create(ctx context.Context, userID uuid.UUID, req *request.BookingRequest) (*response.BookingResponse, error)
	Update(ctx context.Context, userID, id uuid.UUID, req *request.BookingRequest) (*response.BookingResponse, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	Upcoming(ctx context.Context, userID uuid.UUID, limit int) ([]response.BookingResponse, error)
	Stats(ctx context.Context, userID uuid.UUID) (*response.BookingStatsResponse, error)

	CheckConflict(ctx context.Context, userID uuid.UUID, req *request.CheckConflictRequest) (*response.ConflictResponse, error)
	AvailableSlots(ctx context.Context, userID uuid.UUID, req *request.AvailableSlotsRequest) (*response.AvailableSlotsResponse, error)

	SendReceipt(ctx context.Context, userID, id uuid.UUID) (*response.ReceiptResponse, error)
}

// Schedule is the calendar policy bookings are checked against
type Schedule struct {
	Location *time.Location
	Window   SlotWindow
}

// ScheduleFromConfig resolves the timezone and slot window, falling back to the
// 08:00..21:00 hourly window for unset values.
func ScheduleFromConfig(cfg utils.ScheduleConfig) (Schedule, error) {
	loc := time.Local
	if tz := strings.TrimSpace(cfg.Timezone); tz != "" && !strings.EqualFold(tz, "local") {
		l, err := time.LoadLocation(tz)
		if err != nil {
			return Schedule{}, fmt.Errorf("load timezone %q: %w", tz, err)
		}
		loc = l
	}

	window := DefaultSlotWindow
	if cfg.FirstStart != "" {
		window.FirstStart = cfg.FirstStart
	}
	if cfg.LastStart != "" {
		window.LastStart = cfg.LastStart
	}
	if cfg.StepMinutes > 0 {
		window.Step = time.Duration(cfg.StepMinutes) * time.Minute
	}
	if err := window.Validate(); err != nil {
		return Schedule{}, fmt.Errorf("slot window: %w", err)
	}

	return Schedule{Location: loc, Window: window}, nil
}

type bookingService struct {
	repo     *repository.Repository
	mailer   mailer.Mailer
	schedule Schedule
	replyTo  string
	log      *zap.Logger
	now      func() time.Time
}

func NewBookingService(repo *repository.Repository, mail mailer.Mailer, schedule Schedule, replyTo string, log *zap.Logger) BookingService {
	if schedule.Location == nil {
		schedule.Location = time.Local
	}
	return &bookingService{
		repo:     repo,
		mailer:   mail,
		schedule: schedule,
		replyTo:  replyTo,
		log:      log.With(zap.String("service", "booking")),
		now:      time.Now,
	}
}

func (s *bookingService) List(ctx context.Context, userID uuid.UUID, req *request.ListBookingsRequest) (*response.PaginatedResponse[response.BookingResponse], error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	status := entity.BookingStatus(req.Status)

	bookings, err := s.repo.Booking.FindAll(ctx, userID, status, req.Limit(), req.Offset())
	if err != nil {
		return nil, storageError("list bookings", err)
	}

	total, err := s.repo.Booking.Count(ctx, userID, status)
	if err != nil {
		return nil, storageError("count bookings", err)
	}

	return response.NewPaginatedResponse(toBookingResponses(bookings), req.Page, req.Limit(), total), nil
}

func (s *bookingService) Get(ctx context.Context, userID, id uuid.UUID) (*response.BookingResponse, error) {
	booking, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Create(ctx context.Context, userID uuid.UUID, req *request.BookingRequest) (*response.BookingResponse, error) {
	now := s.now()
	booking := &entity.Booking{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		UserID: userID,
		Status: entity.BookingStatusPending,
	}

	if err := s.apply(ctx, booking, req); err != nil {
		return nil, err
	}

	if err := s.repo.Booking.CreateExclusive(ctx, booking, s.conflictCheck(booking)); err != nil {
		return nil, s.writeError("create booking", err)
	}

	s.log.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("user_id", userID.String()),
		zap.String("event_date", booking.EventDate.Format(repository.DateLayout)))

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Update(ctx context.Context, userID, id uuid.UUID, req *request.BookingRequest) (*response.BookingResponse, error) {
	booking, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if err := s.apply(ctx, booking, req); err != nil {
		return nil, err
	}
	booking.UpdatedAt = s.now()

	return s.saveExclusive(ctx, booking)
}

func (s *bookingService) UpdateStatus(ctx context.Context, userID, id uuid.UUID, req *request.UpdateBookingStatusRequest) (*response.BookingResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	booking, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	status := entity.BookingStatus(req.Status)
	reactivating := status.IsActive() && !booking.Status.IsActive()
	booking.Status = status
	booking.UpdatedAt = s.now()
	booking.EventDate = Day(booking.EventDate, s.schedule.Location)

	// a cancelled or completed booking coming back must not land on top of another one
	if reactivating {
		return s.saveExclusive(ctx, booking)
	}

	found, err := s.repo.Booking.UpdateStatus(ctx, userID, id, status)
	if err != nil {
		return nil, storageError("update booking status", err)
	}
	if !found {
		return nil, fmt.Errorf("booking not found: %w", ErrNotFound)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	deleted, err := s.repo.Booking.Delete(ctx, userID, id)
	if err != nil {
		return storageError("delete booking", err)
	}
	if !deleted {
		return fmt.Errorf("booking not found: %w", ErrNotFound)
	}
	return nil
}

func (s *bookingService) Upcoming(ctx context.Context, userID uuid.UUID, limit int) ([]response.BookingResponse, error) {
	if limit <= 0 {
		limit = defaultUpcomingLimit
	}
	if limit > maxUpcomingLimit {
		limit = maxUpcomingLimit
	}

	today := s.now().In(s.schedule.Location).Format(repository.DateLayout)

	bookings, err := s.repo.Booking.FindUpcoming(ctx, userID, today, limit)
	if err != nil {
		return nil, storageError("list upcoming bookings", err)
	}

	return toBookingResponses(bookings), nil
}

func (s *bookingService) Stats(ctx context.Context, userID uuid.UUID) (*response.BookingStatsResponse, error) {
	stats, err := s.repo.Booking.Stats(ctx, userID)
	if err != nil {
		return nil, storageError("booking stats", err)
	}
	resp := response.StatsToResponse(stats)
	return &resp, nil
}

// CheckConflict reads the day's active bookings and reports every one the candidate overlaps.
// A storage failure is returned as an error, never as "no conflict".
func (s *bookingService) CheckConflict(ctx context.Context, userID uuid.UUID, req *request.CheckConflictRequest) (*response.ConflictResponse, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	day, err := s.parseDay(req.EventDate)
	if err != nil {
		return nil, err
	}

	candidate, err := IntervalAt(day, req.EventTime, req.Duration)
	if err != nil {
		return nil, validationError(err.Error())
	}

	var excludeID *uuid.UUID
	if req.ExcludeID != nil {
		id, err := uuid.Parse(*req.ExcludeID)
		if err != nil {
			return nil, validationError("excludeId must be a valid UUID")
		}
		excludeID = &id
	}

	active, err := s.repo.Booking.FindActiveByDay(ctx, userID, req.EventDate, excludeID)
	if err != nil {
		s.log.Error("Conflict check failed", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, storageError("check conflict", err)
	}

	return response.ConflictsToResponse(FindConflicts(candidate, day, active)), nil
}

func (s *bookingService) AvailableSlots(ctx context.Context, userID uuid.UUID, req *request.AvailableSlotsRequest) (*response.AvailableSlotsResponse, error) {
	if req.Duration <= 0 {
		req.Duration = DefaultDurationHours
	}
	if err := validate(req); err != nil {
		return nil, err
	}

	day, err := s.parseDay(req.Date)
	if err != nil {
		return nil, err
	}

	active, err := s.repo.Booking.FindActiveByDay(ctx, userID, req.Date, nil)
	if err != nil {
		s.log.Error("Slot lookup failed", zap.Error(err), zap.String("user_id", userID.String()))
		return nil, storageError("available slots", err)
	}

	return &response.AvailableSlotsResponse{
		Date:           req.Date,
		Duration:       req.Duration,
		AvailableSlots: AvailableSlots(day, req.Duration, s.schedule.Window, active),
	}, nil
}

func (s *bookingService) SendReceipt(ctx context.Context, userID, id uuid.UUID) (*response.ReceiptResponse, error) {
	booking, err := s.find(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if booking.ClientEmail == nil || *booking.ClientEmail == "" {
		return nil, validationError("booking has no client email to send a receipt to")
	}

	msg, err := mailer.ReceiptMessage(*booking.ClientEmail, receiptOf(booking, s.replyTo))
	if err != nil {
		return nil, err
	}

	sendCtx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	defer cancel()

	messageID, err := s.mailer.Send(sendCtx, msg)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	s.log.Info("Receipt sent", zap.String("booking_id", id.String()), zap.String("message_id", messageID))

	return &response.ReceiptResponse{
		BookingID: booking.ID.String(),
		SentTo:    *booking.ClientEmail,
		MessageID: messageID,
	}, nil
}

// apply validates req and copies it onto booking, resolving the client against the owner's list
func (s *bookingService) apply(ctx context.Context, booking *entity.Booking, req *request.BookingRequest) error {
	if err := validate(req); err != nil {
		return err
	}

	day, err := s.parseDay(req.EventDate)
	if err != nil {
		return err
	}

	booking.ClientID = nil
	booking.ClientName = nil
	booking.ClientEmail = nil
	if req.ClientID != nil {
		clientID, err := uuid.Parse(*req.ClientID)
		if err != nil {
			return validationError("clientId must be a valid UUID")
		}
		client, err := s.repo.Client.FindByID(ctx, booking.UserID, clientID)
		if err != nil {
			return storageError("find client", err)
		}
		if client == nil {
			return fmt.Errorf("client not found: %w", ErrNotFound)
		}
		booking.ClientID = &client.ID
		booking.ClientName = &client.Name
		booking.ClientEmail = &client.Email
	}

	booking.EventName = strings.TrimSpace(req.EventName)
	booking.EventDate = day
	booking.EventTime = nil
	if req.EventTime != nil && strings.TrimSpace(*req.EventTime) != "" {
		hour, minute, err := ParseClock(*req.EventTime)
		if err != nil {
			return validationError(err.Error())
		}
		clock := fmt.Sprintf("%02d:%02d", hour, minute)
		booking.EventTime = &clock
	}
	booking.Duration = req.Duration
	booking.Location = req.Location
	booking.Notes = req.Notes
	booking.Amount = req.Amount
	if req.Status != "" {
		booking.Status = entity.BookingStatus(req.Status)
	}

	return nil
}

// conflictCheck is nil for bookings that cannot occupy time
func (s *bookingService) conflictCheck(booking *entity.Booking) repository.ConflictCheck {
	if !booking.Status.IsActive() {
		return nil
	}
	candidate, ok := BookingInterval(booking.EventDate, booking)
	if !ok {
		return nil
	}

	return func(active []*entity.Booking) error {
		conflicts := FindConflicts(candidate, booking.EventDate, active)
		if len(conflicts) > 0 {
			return &ConflictError{Conflicts: conflicts}
		}
		return nil
	}
}

func (s *bookingService) saveExclusive(ctx context.Context, booking *entity.Booking) (*response.BookingResponse, error) {
	found, err := s.repo.Booking.UpdateExclusive(ctx, booking, s.conflictCheck(booking))
	if err != nil {
		return nil, s.writeError("update booking", err)
	}
	if !found {
		return nil, fmt.Errorf("booking not found: %w", ErrNotFound)
	}

	resp := response.BookingToResponse(booking)
	return &resp, nil
}

func (s *bookingService) writeError(op string, err error) error {
	if errors.Is(err, ErrBookingConflict) {
		return err
	}
	return storageError(op, err)
}

func (s *bookingService) find(ctx context.Context, userID, id uuid.UUID) (*entity.Booking, error) {
	booking, err := s.repo.Booking.FindByID(ctx, userID, id)
	if err != nil {
		return nil, storageError("find booking", err)
	}
	if booking == nil {
		return nil, fmt.Errorf("booking not found: %w", ErrNotFound)
	}
	return booking, nil
}

func (s *bookingService) parseDay(value string) (time.Time, error) {
	day, err := time.ParseInLocation(repository.DateLayout, strings.TrimSpace(value), s.schedule.Location)
	if err != nil {
		return time.Time{}, validationError(fmt.Sprintf("date %q must be YYYY-MM-DD", value))
	}
	return day, nil
}

func toBookingResponses(bookings []*entity.Booking) []response.BookingResponse {
	out := make([]response.BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, response.BookingToResponse(b))
	}
	return out
}

func receiptOf(b *entity.Booking, replyTo string) mailer.BookingReceipt {
	r := mailer.BookingReceipt{
		BookingID:  b.ID.String(),
		ClientName: response.ClientNameOf(b),
		EventName:  b.EventName,
		EventDate:  b.EventDate.Format(repository.DateLayout),
		ReplyTo:    replyTo,
	}
	if b.EventTime != nil {
		r.EventTime = *b.EventTime
	}
	if b.Duration != nil {
		r.Duration = strconv.FormatFloat(*b.Duration, 'f', -1, 64)
	}
	if b.Location != nil {
		r.Location = *b.Location
	}
	if b.Amount != nil {
		r.Amount = strconv.FormatFloat(*b.Amount, 'f', 2, 64)
	}
	if b.Notes != nil {
		r.Notes = *b.Notes
	}
	return r
}
