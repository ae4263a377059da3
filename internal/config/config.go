package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	DatabaseURL  string `envconfig:"DATABASE_URL" required:"true"`
	Port         string `envconfig:"PORT" default:"5000"`
	Env          string `envconfig:"APP_ENV" default:"development"`
	LogLevel     string `envconfig:"LOG_LEVEL" default:"info"`
	EnsureSchema bool   `envconfig:"ENSURE_SCHEMA" default:"true"`

	// Reservations
	ReservationTTL    time.Duration `envconfig:"RESERVATION_TTL" default:"24h"`
	ExpirySchedule    string        `envconfig:"RESERVATION_EXPIRY_SCHEDULE" default:"@every 1m"`
	CORSAllowedOrigin []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`

	// Auth
	JWTSecret            string        `envconfig:"JWT_SECRET" required:"true"`
	JWTTTL               time.Duration `envconfig:"JWT_TTL" default:"1h"`
	AdminDefaultAccount  string        `envconfig:"ADMIN_DEFAULT_ACCOUNT"`
	AdminDefaultPassword string        `envconfig:"ADMIN_DEFAULT_PASSWORD"`

	// Profiles
	ProfileTTL time.Duration `envconfig:"PROFILE_TTL" default:"8760h"`

	// Notifications
	SendGridAPIKey    string `envconfig:"SENDGRID_API_KEY"`
	SendGridFromEmail string `envconfig:"SENDGRID_FROM_EMAIL"`
	SendGridFromName  string `envconfig:"SENDGRID_FROM_NAME" default:"ParkingLot"`
	TwilioAccountSID  string `envconfig:"TWILIO_ACCOUNT_SID"`
	TwilioAuthToken   string `envconfig:"TWILIO_AUTH_TOKEN"`
	TwilioFromNumber  string `envconfig:"TWILIO_FROM_NUMBER"`
}

// Load reads an optional .env file and then the process environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var c Config
	err := envconfig.Process("", &c)
	return c, err
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}
