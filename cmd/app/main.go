package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"tutam/cmd"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	gormDB, err := gorm.Open(postgres.Open(configs.DSN()), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}

	root, err := cmd.NewCompositionRoot(context.Background(), configs, gormDB, logger)
	if err != nil {
		log.Fatalf("Error building composition root: %v", err)
	}

	jobManager := root.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(root, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Warnf("No .env file loaded: %v", err)
	}

	return cmd.Config{
		HTTPPort:   envOrDefault("HTTP_PORT", "8080"),
		DBHost:     os.Getenv("DB_HOST"),
		DBPort:     envOrDefault("DB_PORT", "5432"),
		DBUser:     os.Getenv("DB_USER"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBSslMode:  envOrDefault("DB_SSLMODE", "disable"),

		SolverBaseURL: os.Getenv("SOLVER_BASE_URL"),
		SolverAPIKey:  os.Getenv("SOLVER_API_KEY"),

		FCMCredentialsFile: os.Getenv("FCM_CREDENTIALS_FILE"),

		RescheduleCron: envOrDefault("RESCHEDULE_CRON", "0 */10 * * * *"),
		Branches:       os.Getenv("BRANCHES"),

		MinWindowOverlap:       envDuration("MIN_WINDOW_OVERLAP", 30*time.Minute),
		SolverPageSize:         envInt("SOLVER_PAGE_SIZE", 30),
		VehicleCapacityPercent: envFloat("VEHICLE_CAPACITY_PERCENT", 100),
		MaxFleetSize:           envInt("MAX_FLEET_SIZE", 3),
		ProposedFleetSize:      envInt("PROPOSED_FLEET_SIZE", 3),
		MaxHoursPerRoute:       envDuration("MAX_HOURS_PER_ROUTE", 4*time.Hour),
		SpeedFactor:            envFloat("SPEED_FACTOR", 0.25),
		ServiceDuration:        envDuration("SERVICE_DURATION", 10*time.Minute),
		MinVolumePercent:       envFloat("MIN_VOLUME_PERCENT", 50),
		MaxVolumePercent:       envFloat("MAX_VOLUME_PERCENT", 100),
		UrgencyHorizon:         envDuration("URGENCY_HORIZON", 48*time.Hour),
	}
}

func envOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func envFloat(key string, fallback float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	value, err := time.ParseDuration(raw)
	if err != nil {
		log.Fatalf("Error parsing %s: %v", key, err)
	}
	return value
}

func startWebServer(root *cmd.CompositionRoot, port string) {
	e := echo.New()
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	root.CreateHTTPServer().RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
