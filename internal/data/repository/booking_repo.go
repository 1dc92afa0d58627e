package repository

import (
	"context"
	"errors"
	"fmt"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// DateLayout is how calendar days are passed to and from the DATE column
const DateLayout = "2006-01-02"

const maxTxAttempts = 3

// ConflictCheck inspects the active bookings of the day being written and returns
// an error to abort the write.
type ConflictCheck func(active []*entity.Booking) error

type BookingRepository interface {
	FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, userID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error)
	Count(ctx context.Context, userID uuid.UUID, status entity.BookingStatus) (int64, error)
	FindUpcoming(ctx context.Context, userID uuid.UUID, fromDay string, limit int) ([]*entity.Booking, error)
	Stats(ctx context.Context, userID uuid.UUID) (*entity.BookingStats, error)
	UpdateStatus(ctx context.Context, userID, id uuid.UUID, status entity.BookingStatus) (bool, error)
	Delete(ctx context.Context, userID, id uuid.UUID) (bool, error)

	// FindActiveByDay returns the owner's pending and confirmed bookings on day,
	// with the client's name joined in. excludeID skips one booking.
	FindActiveByDay(ctx context.Context, userID uuid.UUID, day string, excludeID *uuid.UUID) ([]*entity.Booking, error)

	// CreateExclusive and UpdateExclusive run check against the day's active bookings and
	// write in the same serializable transaction, holding an advisory lock on owner and day.
	CreateExclusive(ctx context.Context, booking *entity.Booking, check ConflictCheck) error
	UpdateExclusive(ctx context.Context, booking *entity.Booking, check ConflictCheck) (bool, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingSelect = `
		SELECT b.id, b.user_id, b.client_id, b.event_name, b.event_date, b.event_time,
		       b.duration::float8, b.location, b.status, b.notes, b.amount::float8,
		       b.created_at, b.updated_at, c.name, c.email
		FROM bookings b
		LEFT JOIN clients c ON c.id = b.client_id`

func (r *bookingRepository) FindByID(ctx context.Context, userID, id uuid.UUID) (*entity.Booking, error) {
	query := bookingSelect + ` WHERE b.id = $1 AND b.user_id = $2`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

func (r *bookingRepository) FindAll(ctx context.Context, userID uuid.UUID, status entity.BookingStatus, limit, offset int) ([]*entity.Booking, error) {
	query := bookingSelect + `
		WHERE b.user_id = $1 AND ($2 = '' OR b.status = $2)
		ORDER BY b.event_date DESC, b.event_time DESC NULLS LAST
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, userID, string(status), limit, offset)
	if err != nil {
		r.log.Error("Failed to list bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list bookings for user %s: %w", userID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) Count(ctx context.Context, userID uuid.UUID, status entity.BookingStatus) (int64, error) {
	query := `SELECT COUNT(*) FROM bookings WHERE user_id = $1 AND ($2 = '' OR status = $2)`

	var count int64
	if err := r.db.QueryRow(ctx, query, userID, string(status)).Scan(&count); err != nil {
		r.log.Error("Failed to count bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return 0, fmt.Errorf("count bookings for user %s: %w", userID.String(), err)
	}

	return count, nil
}

func (r *bookingRepository) FindUpcoming(ctx context.Context, userID uuid.UUID, fromDay string, limit int) ([]*entity.Booking, error) {
	query := bookingSelect + `
		WHERE b.user_id = $1
		  AND b.event_date >= $2::date
		ORDER BY b.event_date ASC, b.event_time ASC NULLS LAST
		LIMIT $3
	`

	rows, err := r.db.Query(ctx, query, userID, fromDay, limit)
	if err != nil {
		r.log.Error("Failed to list upcoming bookings",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("list upcoming bookings for user %s: %w", userID.String(), err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) Stats(ctx context.Context, userID uuid.UUID) (*entity.BookingStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE status = 'pending'),
		       COUNT(*) FILTER (WHERE status = 'confirmed'),
		       COUNT(*) FILTER (WHERE status = 'completed'),
		       COUNT(*) FILTER (WHERE status = 'cancelled'),
		       COALESCE(SUM(amount), 0)::float8
		FROM bookings
		WHERE user_id = $1
	`

	var stats entity.BookingStats
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&stats.Total,
		&stats.Pending,
		&stats.Confirmed,
		&stats.Completed,
		&stats.Cancelled,
		&stats.Revenue,
	)
	if err != nil {
		r.log.Error("Failed to aggregate booking stats",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return nil, fmt.Errorf("booking stats for user %s: %w", userID.String(), err)
	}

	return &stats, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, userID, id uuid.UUID, status entity.BookingStatus) (bool, error) {
	query := `UPDATE bookings SET status = $3, updated_at = NOW() WHERE id = $1 AND user_id = $2`

	result, err := r.db.Exec(ctx, query, id, userID, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return false, fmt.Errorf("update booking status %s: %w", id.String(), err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *bookingRepository) Delete(ctx context.Context, userID, id uuid.UUID) (bool, error) {
	result, err := r.db.Exec(ctx, `DELETE FROM bookings WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		r.log.Error("Failed to delete booking",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return false, fmt.Errorf("delete booking %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return false, nil
	}

	r.log.Info("Booking deleted", zap.String("booking_id", id.String()))
	return true, nil
}

func (r *bookingRepository) FindActiveByDay(ctx context.Context, userID uuid.UUID, day string, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	return r.findActiveByDay(ctx, r.db, userID, day, excludeID)
}

func (r *bookingRepository) findActiveByDay(ctx context.Context, q querier, userID uuid.UUID, day string, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	query := bookingSelect + `
		WHERE b.user_id = $1
		  AND b.event_date = $2::date
		  AND b.status IN ('pending', 'confirmed')
		  AND ($3::uuid IS NULL OR b.id <> $3::uuid)
		ORDER BY b.event_time ASC NULLS LAST
	`

	rows, err := q.Query(ctx, query, userID, day, excludeID)
	if err != nil {
		r.log.Error("Failed to fetch active bookings for day",
			zap.Error(err),
			zap.String("user_id", userID.String()),
			zap.String("day", day),
		)
		return nil, fmt.Errorf("fetch active bookings on %s: %w", day, err)
	}

	return r.collect(rows)
}

func (r *bookingRepository) CreateExclusive(ctx context.Context, booking *entity.Booking, check ConflictCheck) error {
	insert := `
		INSERT INTO bookings (id, user_id, client_id, event_name, event_date, event_time, duration,
		                      location, status, notes, amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5::date, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	return r.withDayLock(ctx, booking, check, nil, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, insert,
			booking.ID,
			booking.UserID,
			booking.ClientID,
			booking.EventName,
			booking.EventDate.Format(DateLayout),
			booking.EventTime,
			booking.Duration,
			booking.Location,
			booking.Status,
			booking.Notes,
			booking.Amount,
			booking.CreatedAt,
			booking.UpdatedAt,
		)
		return err
	})
}

func (r *bookingRepository) UpdateExclusive(ctx context.Context, booking *entity.Booking, check ConflictCheck) (bool, error) {
	update := `
		UPDATE bookings
		SET client_id = $3, event_name = $4, event_date = $5::date, event_time = $6, duration = $7,
		    location = $8, status = $9, notes = $10, amount = $11, updated_at = $12
		WHERE id = $1 AND user_id = $2
	`

	found := false
	err := r.withDayLock(ctx, booking, check, &booking.ID, func(tx pgx.Tx) error {
		result, err := tx.Exec(ctx, update,
			booking.ID,
			booking.UserID,
			booking.ClientID,
			booking.EventName,
			booking.EventDate.Format(DateLayout),
			booking.EventTime,
			booking.Duration,
			booking.Location,
			booking.Status,
			booking.Notes,
			booking.Amount,
			booking.UpdatedAt,
		)
		if err != nil {
			return err
		}
		found = result.RowsAffected() > 0
		return nil
	})

	return found, err
}

// withDayLock retries the whole transaction on serialization failures. Errors returned by
// check are passed through unwrapped so callers can match them.
func (r *bookingRepository) withDayLock(ctx context.Context, booking *entity.Booking, check ConflictCheck, excludeID *uuid.UUID, write func(tx pgx.Tx) error) error {
	day := booking.EventDate.Format(DateLayout)
	lockKey := booking.UserID.String() + "|" + day

	var checkErr error
	attempt := func() error {
		tx, err := r.db.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable})
		if err != nil {
			return fmt.Errorf("begin booking tx: %w", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()

		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lockKey); err != nil {
			return fmt.Errorf("lock booking day: %w", err)
		}

		if check != nil {
			active, err := r.findActiveByDay(ctx, tx, booking.UserID, day, excludeID)
			if err != nil {
				return err
			}
			if err := check(active); err != nil {
				checkErr = err
				return err
			}
		}

		if err := write(tx); err != nil {
			return fmt.Errorf("write booking: %w", err)
		}

		return tx.Commit(ctx)
	}

	var err error
	for i := 1; i <= maxTxAttempts; i++ {
		checkErr = nil
		err = attempt()
		if err == nil || checkErr != nil || !isRetryable(err) {
			break
		}
		r.log.Warn("Retrying booking transaction",
			zap.Int("attempt", i),
			zap.String("booking_id", booking.ID.String()),
			zap.Error(err))
	}

	if err != nil && checkErr == nil {
		r.log.Error("Booking transaction failed",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
			zap.String("day", day),
		)
		return fmt.Errorf("save booking %s: %w", booking.ID.String(), err)
	}

	return err
}

func (r *bookingRepository) collect(rows pgx.Rows) ([]*entity.Booking, error) {
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Rows iteration error", zap.Error(err))
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.UserID,
		&booking.ClientID,
		&booking.EventName,
		&booking.EventDate,
		&booking.EventTime,
		&booking.Duration,
		&booking.Location,
		&booking.Status,
		&booking.Notes,
		&booking.Amount,
		&booking.CreatedAt,
		&booking.UpdatedAt,
		&booking.ClientName,
		&booking.ClientEmail,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}
