package usecase

import (
	"context"
	"errors"
	"fmt"
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

const emailSendTimeout = 15 * time.Second

type AuthService interface {
	Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error)
	Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error)
	ResendOTP(ctx context.Context, req *request.ResendOTPRequest) error
	VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.AuthResponse, error)
}

type authService struct {
	repo   *repository.Repository
	otp    *OTPManager
	mailer mailer.Mailer
	config *utils.Config
	log    *zap.Logger
	now    func() time.Time
}

func NewAuthService(
	repo *repository.Repository,
	otp *OTPManager,
	mail mailer.Mailer,
	config *utils.Config,
	log *zap.Logger,
) AuthService {
	return &authService{
		repo:   repo,
		otp:    otp,
		mailer: mail,
		config: config,
		log:    log.With(zap.String("service", "auth")),
		now:    time.Now,
	}
}

func (s *authService) Signup(ctx context.Context, req *request.SignupRequest) (*response.SignupResponse, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Signup validation failed", zap.Error(err))
		return nil, err
	}

	email := req.Email

	existing, err := s.repo.User.FindByEmail(ctx, email)
	if err != nil {
		return nil, storageError("check email", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("email already registered: %w", ErrAlreadyExists)
	}

	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		s.log.Error("Failed to hash password", zap.Error(err))
		return nil, fmt.Errorf("failed to process password: %w", err)
	}

	now := s.now()
	user := &entity.User{
		Base: entity.Base{
			ID:        uuid.New(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		Email:        email,
		PasswordHash: hashedPassword,
		Name:         req.Name,
		Studio:       req.Studio,
	}

	if err := s.repo.User.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("email already registered: %w", ErrAlreadyExists)
		}
		return nil, storageError("create account", err)
	}

	code, err := s.otp.Generate(ctx, user)
	if err != nil {
		return nil, err
	}

	// account exists either way; the user can ask for a new code
	sent := true
	if err := s.sendOTP(ctx, user, code, mailer.VerificationMessage); err != nil {
		s.log.Warn("Verification email not delivered", zap.Error(err), zap.String("user_id", user.ID.String()))
		sent = false
	}

	s.log.Info("User signed up",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email))

	return &response.SignupResponse{
		UserID:      user.ID.String(),
		Email:       user.Email,
		RequiresOTP: true,
		EmailSent:   sent,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *request.LoginRequest) (*response.LoginResponse, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		s.log.Warn("Login validation failed", zap.Error(err))
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageError("find user", err)
	}
	if user == nil || !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, fmt.Errorf("invalid email or password: %w", ErrInvalidCredentials)
	}

	if !user.EmailVerified {
		code, err := s.otp.Generate(ctx, user)
		if err != nil {
			return nil, err
		}
		if err := s.sendOTP(ctx, user, code, mailer.VerificationMessage); err != nil {
			s.log.Warn("Login OTP email not delivered", zap.Error(err), zap.String("user_id", user.ID.String()))
		}
		return &response.LoginResponse{RequiresOTP: true, Email: user.Email}, nil
	}

	auth, err := s.issueToken(user)
	if err != nil {
		return nil, err
	}

	s.log.Info("User logged in", zap.String("user_id", user.ID.String()))
	return &response.LoginResponse{Auth: auth}, nil
}

func (s *authService) ResendOTP(ctx context.Context, req *request.ResendOTPRequest) error {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return storageError("find user", err)
	}
	if user == nil {
		return fmt.Errorf("user not found: %w", ErrNotFound)
	}
	if user.EmailVerified {
		return ErrAlreadyVerified
	}

	code, err := s.otp.Generate(ctx, user)
	if err != nil {
		return err
	}

	if err := s.sendOTP(ctx, user, code, mailer.ResendOTPMessage); err != nil {
		return fmt.Errorf("%w: %v", ErrEmailDelivery, err)
	}

	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *request.VerifyOTPRequest) (*response.AuthResponse, error) {
	req.Email = utils.NormalizeEmail(req.Email)
	if err := validate(req); err != nil {
		return nil, err
	}

	user, err := s.repo.User.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, storageError("find user", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %w", ErrNotFound)
	}

	ok, err := s.otp.Verify(ctx, user, req.OTP)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.log.Info("OTP rejected", zap.String("user_id", user.ID.String()))
		return nil, ErrInvalidOTP
	}

	s.log.Info("Email verified", zap.String("user_id", user.ID.String()))
	return s.issueToken(user)
}

func (s *authService) issueToken(user *entity.User) (*response.AuthResponse, error) {
	expiry := time.Duration(s.config.JWT.ExpiryHours) * time.Hour
	token, expiresAt, err := utils.GenerateToken(s.config.JWT.Secret, expiry, user.ID, user.Email)
	if err != nil {
		s.log.Error("Failed to issue token", zap.Error(err), zap.String("user_id", user.ID.String()))
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return response.AuthToResponse(user, token, expiresAt), nil
}

func (s *authService) sendOTP(ctx context.Context, user *entity.User, code string, build func(string, mailer.OTPEmail) (mailer.Message, error)) error {
	msg, err := build(user.Email, mailer.OTPEmail{
		AppName:       s.config.App.Name,
		Name:          user.Name,
		Code:          code,
		ExpiryMinutes: s.otp.ExpiryMinutes(),
		Year:          s.now().Year(),
	})
	if err != nil {
		return err
	}

	sendCtx, cancel := context.WithTimeout(ctx, emailSendTimeout)
	defer cancel()

	_, err = s.mailer.Send(sendCtx, msg)
	return err
}
