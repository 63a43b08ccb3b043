package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fitfam/fitfam/internal/api"
	"github.com/fitfam/fitfam/internal/clock"
	"github.com/fitfam/fitfam/internal/db"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

// fallbackCivilOffset matches the configured zone's UTC offset when the IANA
// database is unavailable. Defaults to IST (+5:30).
const fallbackCivilOffset = 5*time.Hour + 30*time.Minute

func main() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("skipping .env: %v", err)
	}

	secretKey, err := resolveSecretKey()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	dbPath := getEnv("DB_PATH", filepath.Join("data", "fitfam.db"))
	port := getEnv("PORT", "8080")
	civilZone := getEnv("CIVIL_ZONE", "Asia/Kolkata")
	timeAPIURL := getEnv("TIME_API_URL", "https://timeapi.io")
	cookieSecure := getEnv("COOKIE_SECURE", "") == "true"

	location := mustLoadLocation(civilZone)

	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("database init failed: %v", err)
	}
	if sqlDB, err := database.DB(); err == nil {
		defer sqlDB.Close()
	}

	resolver := clock.NewResolver(timeAPIURL, civilZone, location, fallbackCivilOffset)
	handler := api.NewHandler(database, secretKey, resolver, location, cookieSecure)

	app := fiber.New(fiber.Config{
		AppName:               "FitFam",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	api.RegisterRoutes(app, handler)

	sigCtx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	go func() {
		<-sigCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown failed: %v", err)
		}
	}()

	log.Printf("FitFam listening on http://0.0.0.0:%s (db: %s, zone: %s)", port, dbPath, civilZone)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}

func resolveSecretKey() (string, error) {
	secret := strings.TrimSpace(os.Getenv("SECRET_KEY"))
	if secret == "" {
		return "", errors.New("SECRET_KEY is required")
	}
	if secret == "change_me_in_production" {
		return "", errors.New("SECRET_KEY still uses the insecure placeholder")
	}
	if len(secret) < 32 {
		return "", errors.New("SECRET_KEY must be at least 32 characters")
	}
	return secret, nil
}

func mustLoadLocation(name string) *time.Location {
	location, err := time.LoadLocation(name)
	if err != nil {
		log.Printf("zone %q unavailable, using fixed IST offset", name)
		return time.FixedZone("IST", int(fallbackCivilOffset/time.Second))
	}
	return location
}

func getEnv(key string, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}
