package response

import (
	"time"

	"studio-booking/internal/data/entity"
)

type UserResponse struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	Name          string    `json:"name"`
	Studio        *string   `json:"studio,omitempty"`
	EmailVerified bool      `json:"emailVerified"`
	CreatedAt     time.Time `json:"createdAt"`
}

// AuthResponse is returned once the user holds a verified session
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      UserResponse `json:"user"`
}

type SignupResponse struct {
	UserID      string `json:"userId"`
	Email       string `json:"email"`
	RequiresOTP bool   `json:"requiresOtp"`
	EmailSent   bool   `json:"emailSent"`
}

// LoginResponse either carries a session or asks the client to complete OTP verification
type LoginResponse struct {
	RequiresOTP bool          `json:"requiresOtp"`
	Email       string        `json:"email,omitempty"`
	Auth        *AuthResponse `json:"auth,omitempty"`
}

func UserToResponse(user *entity.User) UserResponse {
	return UserResponse{
		ID:            user.ID.String(),
		Email:         user.Email,
		Name:          user.Name,
		Studio:        user.Studio,
		EmailVerified: user.EmailVerified,
		CreatedAt:     user.CreatedAt,
	}
}

func AuthToResponse(user *entity.User, token string, expiresAt time.Time) *AuthResponse {
	return &AuthResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      UserToResponse(user),
	}
}
