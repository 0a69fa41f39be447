package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port          string
	DatabaseURL   string
	RedisURL      string
	RedisPassword string
	RedisDB       int
	JWTSecret     string
	EncryptionKey string

	// Geofence radii in meters.
	HomeRadiusMeters   float64
	WorkRadiusMeters   float64
	SchoolRadiusMeters float64

	MovingSpeedThreshold float64 // m/s; ~5 km/h

	AddressLockDays      int // cooldown on home/work/school address changes
	HistoryRetentionDays int // location history retention window
}

func Load() *Config {
	// Load .env if present; system env wins otherwise.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      getEnv("REDIS_URL", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       redisDB,
		JWTSecret:     os.Getenv("JWT_SECRET"),
		EncryptionKey: os.Getenv("ENCRYPTION_KEY"),

		HomeRadiusMeters:   getEnvFloat("HOME_RADIUS_METERS", 200),
		WorkRadiusMeters:   getEnvFloat("WORK_RADIUS_METERS", 500),
		SchoolRadiusMeters: getEnvFloat("SCHOOL_RADIUS_METERS", 500),

		MovingSpeedThreshold: getEnvFloat("MOVING_SPEED_THRESHOLD", 1.4),

		AddressLockDays:      getEnvInt("LOCATION_CHANGE_LOCK_DAYS", 90),
		HistoryRetentionDays: getEnvInt("LOCATION_HISTORY_RETENTION_DAYS", 7),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}
