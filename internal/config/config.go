// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the job service.
type Config struct {
	Port             string
	DatabaseURL      string
	RedisURL         string
	SchedulerEnabled bool           // daily expiration sweep on/off
	CleanupHour      int            // local hour the sweep fires, 0-23
	SchedulerTZ      *time.Location // timezone the sweep hour is evaluated in
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("API_PORT")
	if port == "" {
		port = "8080"
	}

	enabled := true
	if s := os.Getenv("SCHEDULER_ENABLED"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return nil, fmt.Errorf("SCHEDULER_ENABLED must be a boolean, got %q", s)
		}
		enabled = v
	}

	hour := 0
	if s := os.Getenv("JOB_CLEANUP_HOUR"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 || v > 23 {
			return nil, fmt.Errorf("JOB_CLEANUP_HOUR must be an hour 0-23, got %q", s)
		}
		hour = v
	}

	tz := time.UTC
	if s := os.Getenv("SCHEDULER_TIMEZONE"); s != "" {
		loc, err := time.LoadLocation(s)
		if err != nil {
			return nil, fmt.Errorf("SCHEDULER_TIMEZONE: unknown timezone %q", s)
		}
		tz = loc
	}

	return &Config{
		Port:             port,
		DatabaseURL:      dbURL,
		RedisURL:         redisURL,
		SchedulerEnabled: enabled,
		CleanupHour:      hour,
		SchedulerTZ:      tz,
	}, nil
}
