package usecase

import (
	"context"
	"fmt"

	"studio-booking/internal/data/repository"
	"studio-booking/internal/dto/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type UserService interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error)
}

type userService struct {
	userRepo repository.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repository.UserRepository, log *zap.Logger) UserService {
	return &userService{
		userRepo: userRepo,
		log:      log.With(zap.String("service", "user")),
	}
}

func (us *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*response.UserResponse, error) {
	user, err := us.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, storageError("get profile", err)
	}
	if user == nil {
		return nil, fmt.Errorf("user not found: %w", ErrNotFound)
	}

	resp := response.UserToResponse(user)
	return &resp, nil
}
