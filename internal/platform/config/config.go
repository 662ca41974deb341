package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/courtside/booking-engine/internal/core/services"
)

// App is the full static configuration, loaded once at startup.
type App struct {
	// Booking policy
	DefaultCommissionRate    float64 `envconfig:"DEFAULT_COMMISSION_RATE" default:"0.10"`
	MinBookingMinutes        int     `envconfig:"MIN_BOOKING_MINUTES" default:"60"`
	MaxBookingMinutes        int     `envconfig:"MAX_BOOKING_MINUTES" default:"0"`
	MaxAdvanceDays           int     `envconfig:"MAX_ADVANCE_DAYS" default:"30"`
	CancellationNoticeHours  int     `envconfig:"CANCELLATION_NOTICE_HOURS" default:"24"`
	SlotGranularityMinutes   int     `envconfig:"SLOT_GRANULARITY_MINUTES" default:"30"`
	MaxActiveBookingsPerUser int     `envconfig:"MAX_ACTIVE_BOOKINGS_PER_USER" default:"3"`
	MaxCodeAttempts          int     `envconfig:"MAX_CODE_ATTEMPTS" default:"20"`
	BookingCodeLength        int     `envconfig:"BOOKING_CODE_LENGTH" default:"8"`
	PendingExpiryMinutes     int     `envconfig:"PENDING_EXPIRY_MINUTES" default:"60"`
	Timezone                 string  `envconfig:"TIMEZONE" default:"UTC"`

	// Postgres
	DBHost           string `envconfig:"DB_HOST" default:"localhost"`
	DBPort           string `envconfig:"DB_PORT" default:"5432"`
	DBUser           string `envconfig:"DB_USER" default:"postgres"`
	DBPassword       string `envconfig:"DB_PASSWORD" default:""`
	DBName           string `envconfig:"DB_NAME" default:"booking_engine"`
	DBSSLMode        string `envconfig:"DB_SSLMODE" default:"disable"`
	DBConnectRetries int    `envconfig:"DB_CONNECT_RETRIES" default:"10"`

	// Redis
	RedisAddr string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	// RabbitMQ; empty URL disables eventing
	AMQPURL      string `envconfig:"AMQP_URL" default:""`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"booking.events"`

	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`
}

// Load reads .env when present, then the environment.
func Load() (App, error) {
	_ = godotenv.Load()

	var c App
	if err := envconfig.Process("", &c); err != nil {
		return c, err
	}
	return c, nil
}

// Policy converts the loaded configuration into the injected booking
// policy, resolving the platform timezone.
func (c App) Policy() (services.Policy, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return services.Policy{}, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}

	return services.Policy{
		DefaultCommissionRate:    c.DefaultCommissionRate,
		MinBookingMinutes:        c.MinBookingMinutes,
		MaxBookingMinutes:        c.MaxBookingMinutes,
		MaxAdvanceDays:           c.MaxAdvanceDays,
		CancellationNoticeHours:  c.CancellationNoticeHours,
		SlotGranularityMinutes:   c.SlotGranularityMinutes,
		MaxActiveBookingsPerUser: c.MaxActiveBookingsPerUser,
		MaxCodeAttempts:          c.MaxCodeAttempts,
		PendingExpiry:            time.Duration(c.PendingExpiryMinutes) * time.Minute,
		Location:                 loc,
	}, nil
}
