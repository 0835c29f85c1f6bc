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

	"github.com/joho/godotenv"
	"github.com/rolo-dev/rolo/db"
	"github.com/rolo-dev/rolo/internal/auth"
	"github.com/rolo-dev/rolo/internal/config"
	"github.com/rolo-dev/rolo/internal/mailer"
	"github.com/rolo-dev/rolo/internal/realtime"
	"github.com/rolo-dev/rolo/internal/router"
	"github.com/rolo-dev/rolo/internal/services"
	"github.com/rolo-dev/rolo/internal/storage"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	conn, err := db.Connect(cfg.DatabaseDriver, cfg.DatabaseDSN, cfg.DBDebug)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if cfg.Migrations && cfg.DatabaseDriver == "postgres" {
		err = db.RunSQLMigrations(cfg.DatabaseDSN)
	} else {
		err = db.MigrateDatabase(conn)
	}
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	if err := db.SeedLocations(conn); err != nil {
		log.Printf("Failed to seed delivery locations: %v", err)
	}

	tokens, err := auth.NewTokens(cfg.JWTSecret)
	if err != nil {
		log.Fatalf("Failed to set up tokens: %v", err)
	}

	uploads, err := storage.NewUploads(cfg.UploadDir)
	if err != nil {
		log.Fatalf("Failed to prepare uploads: %v", err)
	}

	var sender mailer.Sender = mailer.LogSender{}
	if cfg.SMTP.Enabled() {
		sender = mailer.NewSMTPSender(cfg.SMTP.Host, cfg.SMTP.Port, cfg.SMTP.Username, cfg.SMTP.Password, cfg.SMTP.From)
	} else {
		log.Println("SMTP_HOST not set, emails will only be logged")
	}

	dispatcher := mailer.NewDispatcher(sender, cfg.SMTP.Workers, cfg.SMTP.QueueSize)
	dispatcher.Start()
	defer dispatcher.Stop()

	hub := realtime.NewHub(cfg.AllowedOrigins)
	notifications := services.NewNotificationService(conn, hub)

	r := router.NewRouter(router.Deps{
		DB:             conn,
		Auth:           services.NewAuthService(conn, tokens, dispatcher, cfg.ClientURL),
		Products:       services.NewProductService(conn),
		Categories:     services.NewCategoryService(conn),
		Ribbons:        services.NewRibbonService(conn),
		Orders:         services.NewOrderService(conn, notifications, dispatcher),
		Shipping:       services.NewShippingService(conn),
		Notifications:  notifications,
		Hub:            hub,
		Uploads:        uploads,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("Server listening on :%s (%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("Server shutdown failed: %v", err)
	}
}
