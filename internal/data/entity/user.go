package entity

import "time"

// User is a studio account. The OTP fields hold at most one outstanding code.
type User struct {
	Base
	Email         string     `db:"email"`
	PasswordHash  string     `db:"password"`
	Name          string     `db:"name"`
	Studio        *string    `db:"studio"`
	OTPHash       *string    `db:"otp_hash"`
	OTPExpires    *time.Time `db:"otp_expires"`
	EmailVerified bool       `db:"email_verified"`
}
