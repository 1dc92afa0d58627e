package utils

import (
	"errors"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Email     EmailConfig
	OTP       OTPConfig
	Schedule  ScheduleConfig
	RateLimit RateLimitConfig
}

type AppConfig struct {
	Name           string
	Port           string
	Debug          bool
	LogPath        string
	AllowedOrigins []string
}

type DatabaseConfig struct {
	Host        string
	Port        string
	Name        string
	User        string
	Password    string
	MaxConns    int32
	AutoMigrate bool
}

type JWTConfig struct {
	Secret      string
	ExpiryHours int
}

type EmailConfig struct {
	Provider      string // smtp | resend | log
	Host          string
	Port          int
	User          string
	Password      string
	From          string
	ResendAPIKey  string
	ResendBaseURL string
}

type OTPConfig struct {
	ExpiryMinutes int
	Length        int
}

// ScheduleConfig describes the daily window offered by the available-slots lookup.
type ScheduleConfig struct {
	Timezone    string
	FirstStart  string
	LastStart   string
	StepMinutes int
}

type RateLimitConfig struct {
	RPS   float64
	Burst int

	// proxies whose X-Forwarded-For is believed; empty means key on the TCP peer
	TrustedProxies []string
}

// LoadConfig reads the .env file at path (when present) and overlays the environment.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")

	// Set defaults
	v.SetDefault("APP_NAME", "studio-booking")
	v.SetDefault("PORT", "8080")
	v.SetDefault("DEBUG", false)
	v.SetDefault("LOG_PATH", "logs/")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("JWT_EXPIRY_HOURS", 168)
	v.SetDefault("EMAIL_PROVIDER", "log")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("RESEND_BASE_URL", "https://api.resend.com")
	v.SetDefault("OTP_EXPIRY_MINUTES", 10)
	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("SCHEDULE_TIMEZONE", "Local")
	v.SetDefault("SLOT_FIRST_START", "08:00")
	v.SetDefault("SLOT_LAST_START", "21:00")
	v.SetDefault("SLOT_STEP_MINUTES", 60)
	v.SetDefault("RATE_LIMIT_RPS", 5)
	v.SetDefault("RATE_LIMIT_BURST", 10)

	if err := v.ReadInConfig(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	v.AutomaticEnv()

	config := &Config{
		App: AppConfig{
			Name:           v.GetString("APP_NAME"),
			Port:           v.GetString("PORT"),
			Debug:          v.GetBool("DEBUG"),
			LogPath:        v.GetString("LOG_PATH"),
			AllowedOrigins: splitList(v.GetString("CORS_ALLOWED_ORIGINS")),
		},
		Database: DatabaseConfig{
			Host:        v.GetString("DB_HOST"),
			Port:        v.GetString("DB_PORT"),
			Name:        v.GetString("DB_NAME"),
			User:        v.GetString("DB_USER"),
			Password:    v.GetString("DB_PASS"),
			MaxConns:    v.GetInt32("DB_MAX_CONNS"),
			AutoMigrate: v.GetBool("DB_AUTO_MIGRATE"),
		},
		JWT: JWTConfig{
			Secret:      v.GetString("JWT_SECRET"),
			ExpiryHours: v.GetInt("JWT_EXPIRY_HOURS"),
		},
		Email: EmailConfig{
			Provider:      strings.ToLower(v.GetString("EMAIL_PROVIDER")),
			Host:          v.GetString("SMTP_HOST"),
			Port:          v.GetInt("SMTP_PORT"),
			User:          v.GetString("SMTP_USER"),
			Password:      v.GetString("SMTP_PASS"),
			From:          v.GetString("EMAIL_FROM"),
			ResendAPIKey:  v.GetString("RESEND_API_KEY"),
			ResendBaseURL: v.GetString("RESEND_BASE_URL"),
		},
		OTP: OTPConfig{
			ExpiryMinutes: v.GetInt("OTP_EXPIRY_MINUTES"),
			Length:        v.GetInt("OTP_LENGTH"),
		},
		Schedule: ScheduleConfig{
			Timezone:    v.GetString("SCHEDULE_TIMEZONE"),
			FirstStart:  v.GetString("SLOT_FIRST_START"),
			LastStart:   v.GetString("SLOT_LAST_START"),
			StepMinutes: v.GetInt("SLOT_STEP_MINUTES"),
		},
		RateLimit: RateLimitConfig{
			RPS:            v.GetFloat64("RATE_LIMIT_RPS"),
			Burst:          v.GetInt("RATE_LIMIT_BURST"),
			TrustedProxies: splitList(v.GetString("TRUSTED_PROXIES")),
		},
	}

	if config.JWT.Secret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}

	return config, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
