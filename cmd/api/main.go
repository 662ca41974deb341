package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"

	"github.com/courtside/booking-engine/internal/adapter/events"
	"github.com/courtside/booking-engine/internal/adapter/handler"
	"github.com/courtside/booking-engine/internal/adapter/repository/postgres"
	"github.com/courtside/booking-engine/internal/core/domain"
	"github.com/courtside/booking-engine/internal/core/ports"
	"github.com/courtside/booking-engine/internal/core/services"
	"github.com/courtside/booking-engine/internal/platform/clock"
	"github.com/courtside/booking-engine/internal/platform/config"
	"github.com/courtside/booking-engine/internal/platform/database"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	policy, err := cfg.Policy()
	if err != nil {
		log.Fatalf("Invalid booking policy: %v", err)
	}

	db, err := database.NewPostgresDB(database.Config{
		Host:           cfg.DBHost,
		Port:           cfg.DBPort,
		User:           cfg.DBUser,
		Password:       cfg.DBPassword,
		DBName:         cfg.DBName,
		SSLMode:        cfg.DBSSLMode,
		ConnectRetries: cfg.DBConnectRetries,
	})
	if err != nil {
		log.Fatalf("Failed to connect to db after retries: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	defer db.Close()

	log.Printf("Connecting to Redis at %s...", cfg.RedisAddr)
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   0,
	})
	if err := redisClient.Ping(context.Background()).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}
	log.Println("Redis connected successfully!")

	var publisher *events.Publisher
	if cfg.AMQPURL != "" {
		publisher, err = events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange)
		if err != nil {
			log.Fatalf("Failed to connect to RabbitMQ: %v", err)
		}
		defer publisher.Close()
	} else {
		log.Println("AMQP_URL not set, booking events disabled")
	}

	facilityRepo := postgres.NewFacilityRepository(db, redisClient)
	bookingRepo := postgres.NewBookingRepository(db)

	sysClock := clock.System{}
	codes := domain.NewCodeGenerator(rand.NewSource(time.Now().UnixNano()), cfg.BookingCodeLength)
	pricing := services.NewPricingService(cfg.DefaultCommissionRate)

	bookingService := services.NewBookingService(facilityRepo, bookingRepo, pricing, publisherOrNil(publisher), sysClock, codes, policy)
	availabilityService := services.NewAvailabilityService(facilityRepo, bookingRepo, policy)
	lifecycleService := services.NewLifecycleService(bookingRepo, publisherOrNil(publisher), sysClock, policy)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go lifecycleService.RunExpiryWorker(ctx)

	if cfg.AMQPURL != "" {
		consumer, err := events.NewConsumer(cfg.AMQPURL, cfg.AMQPExchange, "booking-engine.payments",
			[]string{events.RKPaymentVerified, events.RKPaymentFailed})
		if err != nil {
			log.Fatalf("Failed to start payment consumer: %v", err)
		}
		defer consumer.Close()

		paymentConsumer := events.NewPaymentConsumer(lifecycleService, consumer)
		if err := paymentConsumer.Run(ctx); err != nil {
			log.Fatalf("Failed to consume payment events: %v", err)
		}
	}

	router := gin.Default()
	bookingHandler := handler.NewBookingHandler(bookingService, availabilityService, lifecycleService, policy.Location)
	bookingHandler.Register(router)

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Server starting on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}

// publisherOrNil avoids handing services a typed-nil interface when
// eventing is disabled.
func publisherOrNil(p *events.Publisher) ports.EventPublisher {
	if p == nil {
		return nil
	}
	return p
}
