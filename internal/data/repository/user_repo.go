package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	FindByEmail(ctx context.Context, email string) (*entity.User, error)

	// SetOTP replaces any outstanding code with hash, valid until expires
	SetOTP(ctx context.Context, userID uuid.UUID, hash string, expires time.Time) error
	// ConsumeOTP clears the code only if hash is still the stored one and marks the email verified.
	// Returns false when another request already consumed or replaced it.
	ConsumeOTP(ctx context.Context, userID uuid.UUID, hash string) (bool, error)
}

type userRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewUserRepository(db database.PgxIface, log *zap.Logger) UserRepository {
	return &userRepository{
		db:  db,
		log: log.With(zap.String("repository", "user")),
	}
}

const userColumns = `id, email, password, name, studio, otp_hash, otp_expires,
		       email_verified, created_at, updated_at`

// Create inserts a new user record into the database
func (ur *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password, name, studio, email_verified, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := ur.db.Exec(ctx, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.Name,
		user.Studio,
		user.EmailVerified,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if pgCode(err) == pgUniqueViolation {
			return fmt.Errorf("create user %s: %w", user.Email, ErrDuplicate)
		}
		ur.log.Error("Failed to create user",
			zap.Error(err),
			zap.String("email", user.Email),
		)
		return fmt.Errorf("create user %s: %w", user.Email, err)
	}

	return nil
}

func (ur *userRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by ID",
			zap.Error(err),
			zap.String("user_id", id.String()),
		)
		return nil, fmt.Errorf("find user by ID %s: %w", id.String(), err)
	}

	return user, nil
}

func (ur *userRepository) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := scanUser(ur.db.QueryRow(ctx, query, email))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		ur.log.Error("Failed to find user by email",
			zap.Error(err),
			zap.String("email", email),
		)
		return nil, fmt.Errorf("find user by email %s: %w", email, err)
	}

	return user, nil
}

func (ur *userRepository) SetOTP(ctx context.Context, userID uuid.UUID, hash string, expires time.Time) error {
	query := `
		UPDATE users
		SET otp_hash = $2, otp_expires = $3, updated_at = NOW()
		WHERE id = $1
	`

	result, err := ur.db.Exec(ctx, query, userID, hash, expires)
	if err != nil {
		ur.log.Error("Failed to store OTP",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return fmt.Errorf("store otp for user %s: %w", userID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("store otp: user %s not found", userID.String())
	}

	return nil
}

func (ur *userRepository) ConsumeOTP(ctx context.Context, userID uuid.UUID, hash string) (bool, error) {
	query := `
		UPDATE users
		SET otp_hash = NULL, otp_expires = NULL, email_verified = TRUE, updated_at = NOW()
		WHERE id = $1 AND otp_hash = $2
	`

	result, err := ur.db.Exec(ctx, query, userID, hash)
	if err != nil {
		ur.log.Error("Failed to consume OTP",
			zap.Error(err),
			zap.String("user_id", userID.String()),
		)
		return false, fmt.Errorf("consume otp for user %s: %w", userID.String(), err)
	}

	return result.RowsAffected() == 1, nil
}

func scanUser(row pgx.Row) (*entity.User, error) {
	var user entity.User
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.Name,
		&user.Studio,
		&user.OTPHash,
		&user.OTPExpires,
		&user.EmailVerified,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}
