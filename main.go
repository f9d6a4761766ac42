package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Eursukkul/restaurant-booking/config"
	"github.com/Eursukkul/restaurant-booking/internal/catalog"
	"github.com/Eursukkul/restaurant-booking/internal/handler"
	"github.com/Eursukkul/restaurant-booking/internal/middleware"
	"github.com/Eursukkul/restaurant-booking/internal/registry"
	"github.com/Eursukkul/restaurant-booking/internal/repository"
	"github.com/Eursukkul/restaurant-booking/internal/service"
	"github.com/Eursukkul/restaurant-booking/pkg/database"
	"github.com/Eursukkul/restaurant-booking/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	restaurants, err := catalog.LoadFile(cfg.RestaurantsFile)
	if err != nil {
		log.Fatalf("cannot load restaurant catalog: %v", err)
	}
	users, err := registry.LoadFile(cfg.UsersFile)
	if err != nil {
		log.Fatalf("cannot load user registry: %v", err)
	}

	var closers []func()

	// Ledger: flat file by default, Postgres when configured
	var ledger repository.LedgerRepository
	switch cfg.LedgerBackend {
	case config.LedgerPostgres:
		db := database.NewPostgresDB(cfg.DSN())
		ledger = repository.NewGormLedger(db)
		closers = append(closers, func() {
			if sqlDB, err := db.DB(); err == nil {
				sqlDB.Close()
			}
		})
	default:
		ledger, err = repository.NewCSVLedger(cfg.BookingsFile)
		if err != nil {
			log.Fatalf("cannot open booking ledger: %v", err)
		}
	}

	// RabbitMQ publisher is optional
	var publisher service.EventPublisher
	if cfg.RabbitURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitURL)
		if err != nil {
			log.Printf("[RabbitMQ] publishing disabled: %v", err)
		} else {
			publisher = p
			closers = append(closers, p.Close)
		}
	}

	cat := catalog.New(restaurants, ledger)
	reg := registry.New(users)
	bookingSvc := service.NewBookingService(ledger, cat, reg, publisher)
	sessions := service.NewSessions(bookingSvc)

	log.Printf("loaded %d restaurants and %d users, ledger backend %s", len(restaurants), len(users), cfg.LedgerBackend)

	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewRequestValidator()
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok", "service": "restaurant-booking"})
	})

	handler.NewBookingHandler(bookingSvc, sessions).RegisterRoutes(e)

	go func() {
		log.Printf("Restaurant Booking starting on :%s", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Handle graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	shutdown(ctx, e, closers...)
}

// shutdown drains the HTTP server, then releases the publisher and database.
func shutdown(ctx context.Context, e *echo.Echo, closers ...func()) {
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("server shutdown: %v", err)
	}
	for _, closeFn := range closers {
		closeFn()
	}
}
