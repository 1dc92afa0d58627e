package wire

import (
	"studio-booking/internal/adaptor"
	"studio-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireAuth(r chi.Router, authHandler *adaptor.AuthHandler, limiter *middleware.RateLimiter) {
	// public, throttled per client IP
	r.Route("/api/auth", func(r chi.Router) {
		r.With(limiter.Limit).Post("/signup", authHandler.Signup)
		r.With(limiter.Limit).Post("/login", authHandler.Login)
		r.With(limiter.Limit).Post("/resend-otp", authHandler.ResendOTP)
		r.With(limiter.Limit).Post("/verify-otp", authHandler.VerifyOTP)
	})
}
