package usecase

import (
	"studio-booking/internal/data/repository"
	"studio-booking/pkg/mailer"
	"studio-booking/pkg/utils"

	"go.uber.org/zap"
)

type Service struct {
	Auth    AuthService
	User    UserService
	Client  ClientService
	Booking BookingService
}

func NewService(repo *repository.Repository, mail mailer.Mailer, config *utils.Config, log *zap.Logger) (*Service, error) {
	schedule, err := ScheduleFromConfig(config.Schedule)
	if err != nil {
		return nil, err
	}

	otp := NewOTPManager(repo.User, config.OTP, log)

	return &Service{
		Auth:    NewAuthService(repo, otp, mail, config, log),
		User:    NewUserService(repo.User, log),
		Client:  NewClientService(repo.Client, log),
		Booking: NewBookingService(repo, mail, schedule, config.Email.From, log),
	}, nil
}
