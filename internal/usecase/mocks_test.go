package usecase

import (
	"context"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/mailer"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) Create(ctx context.Context, user *entity.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *mockUserRepo) SetOTP(ctx context.Context, userID uuid.UUID, hash string, expires time.Time) error {
	return m.Called(ctx, userID, hash, expires).Error(0)
}

func (m *mockUserRepo) ConsumeOTP(ctx context.Context, userID uuid.UUID, hash string) (bool, error) {
	args := m.Called(ctx, userID, hash)
	return args.Bool(0), args.Error(1)
}

type mockClientRepo struct{ mock.Mock }

func (m *mockClientRepo) Create(ctx context.Context, client *entity.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *mockClientRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Client, error) {
	args := m.Called(ctx, userID, id)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}

func (m *mockClientRepo) FindByEmail(ctx context.Context, userID uuid.UUID, email string) (*entity.Client, error) {
	args := m.Called(ctx, userID, email)
	c, _ := args.Get(0).(*entity.Client)
	return c, args.Error(1)
}

func (m *mockClientRepo) FindAll(ctx context.Context, userID uuid.UUID, search string, limit, offset int) ([]*entity.Client, error) {
	args := m.Called(ctx, userID, search, limit, offset)
	c, _ := args.Get(0).([]*entity.Client)
	return c, args.Error(1)
}

func (m *mockClientRepo) Count(ctx context.Context, userID uuid.UUID, search string) (int64, error) {
	args := m.Called(ctx, userID, search)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockClientRepo) Update(ctx context.Context, client *entity.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *mockClientRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

// mockBookingRepo runs the conflict check of exclusive writes against Active,
// the way the real repository does inside its transaction.
type mockBookingRepo struct {
	mock.Mock
	Active []*entity.Booking
}

func (m *mockBookingRepo) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Booking, error) {
	args := m.Called(ctx, userID, id)
	b, _ := args.Get(0).(*entity.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) FindAll(ctx context.Context, userID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	args := m.Called(ctx, userID, status, limit, offset)
	b, _ := args.Get(0).([]*entity.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) Count(ctx context.Context, userID uuid.UUID, status entity.BookingStatus) (int64, error) {
	args := m.Called(ctx, userID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockBookingRepo) FindUpcoming(ctx context.Context, userID uuid.UUID, fromDay string, limit int) ([]*entity.Booking, error) {
	args := m.Called(ctx, userID, fromDay, limit)
	b, _ := args.Get(0).([]*entity.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) Stats(ctx context.Context, userID uuid.UUID) (*entity.BookingStats, error) {
	args := m.Called(ctx, userID)
	s, _ := args.Get(0).(*entity.BookingStats)
	return s, args.Error(1)
}

func (m *mockBookingRepo) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status entity.BookingStatus) (bool, error) {
	args := m.Called(ctx, userID, id, status)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, userID, id)
	return args.Bool(0), args.Error(1)
}

func (m *mockBookingRepo) FindActiveByDay(ctx context.Context, userID uuid.UUID, day string, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	args := m.Called(ctx, userID, day, excludeID)
	b, _ := args.Get(0).([]*entity.Booking)
	return b, args.Error(1)
}

func (m *mockBookingRepo) CreateExclusive(ctx context.Context, booking *entity.Booking, check repository.ConflictCheck) error {
	if check != nil {
		if err := check(m.Active); err != nil {
			return err
		}
	}
	return m.Called(ctx, booking).Error(0)
}

func (m *mockBookingRepo) UpdateExclusive(ctx context.Context, booking *entity.Booking, check repository.ConflictCheck) (bool, error) {
	if check != nil {
		var others []*entity.Booking
		for _, b := range m.Active {
			if b.ID != booking.ID {
				others = append(others, b)
			}
		}
		if err := check(others); err != nil {
			return false, err
		}
	}
	args := m.Called(ctx, booking)
	return args.Bool(0), args.Error(1)
}

type mockMailer struct{ mock.Mock }

func (m *mockMailer) Send(ctx context.Context, msg mailer.Message) (string, error) {
	args := m.Called(ctx, msg)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

func floatPtr(f float64) *float64 { return &f }

func booking(clock string, hours float64, status entity.BookingStatus) *entity.Booking {
	b := &entity.Booking{
		Base:      entity.Base{ID: uuid.New()},
		EventName: "shoot " + clock,
		Status:    status,
	}
	if clock != "" {
		b.EventTime = strPtr(clock)
	}
	if hours != 0 {
		b.Duration = floatPtr(hours)
	}
	return b
}
