package database

import (
	"database/sql"
	"fmt"
	"log"
	"time"
)

type Config struct {
	Host           string
	Port           string
	User           string
	Password       string
	DBName         string
	SSLMode        string
	ConnectRetries int
	RetryDelay     time.Duration
}

// NewPostgresDB connects with bounded retries so the service survives
// the database coming up after it.
func NewPostgresDB(cfg Config) (*sql.DB, error) {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	retries := cfg.ConnectRetries
	if retries <= 0 {
		retries = 10
	}
	delay := cfg.RetryDelay
	if delay <= 0 {
		delay = 2 * time.Second
	}

	connStr := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		cfg.User, cfg.Password, cfg.Host, cfg.Port, cfg.DBName, sslMode)

	var db *sql.DB
	var err error

	for i := 1; i <= retries; i++ {
		log.Printf("Connecting to database (Attempt %d/%d)...", i, retries)
		db, err = sql.Open("postgres", connStr)
		if err == nil {
			err = db.Ping()
		}

		if err == nil {
			log.Println("Database connected successfully!")
			return db, nil
		}

		log.Printf("Database not ready yet. Retrying in %s...", delay)
		time.Sleep(delay)
	}

	return nil, fmt.Errorf("connect database after %d attempts: %v", retries, err)
}
