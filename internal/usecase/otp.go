package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studio-booking/internal/data/entity"
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultOTPExpiry = 10 * time.Minute
	defaultOTPLength = 6
)

// OTPManager issues and redeems the single outstanding email verification code of a user.
// Only a bcrypt hash of the code is stored.
type OTPManager struct {
	users    repository.UserRepository
	now      func() time.Time
	expiry   time.Duration
	length   int
	hashCost int
	log      *zap.Logger
}

func NewOTPManager(users repository.UserRepository, cfg utils.OTPConfig, log *zap.Logger) *OTPManager {
	expiry := time.Duration(cfg.ExpiryMinutes) * time.Minute
	if expiry <= 0 {
		expiry = defaultOTPExpiry
	}
	length := cfg.Length
	if length <= 0 {
		length = defaultOTPLength
	}

	return &OTPManager{
		users:    users,
		now:      time.Now,
		expiry:   expiry,
		length:   length,
		hashCost: bcrypt.DefaultCost,
		log:      log.With(zap.String("component", "otp")),
	}
}

// ExpiryMinutes is shown to the user in the OTP email
func (m *OTPManager) ExpiryMinutes() int {
	return int(m.expiry / time.Minute)
}

// Generate replaces any outstanding code for user with a fresh one and returns it in clear text
// for delivery. No code is returned unless the new hash was stored.
func (m *OTPManager) Generate(ctx context.Context, user *entity.User) (string, error) {
	code, err := utils.GenerateOTP(m.length)
	if err != nil {
		return "", err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(code), m.hashCost)
	if err != nil {
		return "", fmt.Errorf("hash otp: %w", err)
	}

	expires := m.now().Add(m.expiry)
	hashStr := string(hash)

	if err := m.users.SetOTP(ctx, user.ID, hashStr, expires); err != nil {
		m.log.Error("Failed to store OTP", zap.Error(err), zap.String("user_id", user.ID.String()))
		return "", storageError("store otp", err)
	}

	user.OTPHash = &hashStr
	user.OTPExpires = &expires

	m.log.Debug("OTP issued",
		zap.String("user_id", user.ID.String()),
		zap.Time("expires", expires))

	return code, nil
}

// Verify reports whether code is the user's outstanding, unexpired code. On success the code is
// cleared and the email marked verified in one write, so a code redeems at most once.
// A wrong or expired code leaves the stored code untouched.
func (m *OTPManager) Verify(ctx context.Context, user *entity.User, code string) (bool, error) {
	if user.OTPHash == nil || user.OTPExpires == nil {
		return false, nil
	}

	if m.now().After(*user.OTPExpires) {
		return false, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.OTPHash), []byte(code)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			m.log.Warn("Stored OTP hash unreadable", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
		return false, nil
	}

	consumed, err := m.users.ConsumeOTP(ctx, user.ID, *user.OTPHash)
	if err != nil {
		return false, storageError("consume otp", err)
	}
	if !consumed {
		return false, nil
	}

	user.OTPHash = nil
	user.OTPExpires = nil
	user.EmailVerified = true

	return true, nil
}
