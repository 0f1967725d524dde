package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	DatabaseURL string

	// Housecall Pro (scheduling/CRM system of record)
	HousecallAPIKey      string
	HousecallBaseURL     string
	HousecallCompanyID   string
	HousecallTimeout     time.Duration
	BookingLeadSource    string
	BusinessPhone        string
	BusinessTimezone     string

	// Capacity calculator
	CapacityWindowDays int
	CapacityCacheTTL   time.Duration
	TechHeadcount      int

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	AdminJWTSecret     string
	CORSAllowedOrigins []string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DatabaseURL: getEnv("DATABASE_URL", ""),

		HousecallAPIKey:    getEnv("HOUSECALL_API_KEY", ""),
		HousecallBaseURL:   getEnv("HOUSECALL_BASE_URL", "https://api.housecallpro.com"),
		HousecallCompanyID: getEnv("HOUSECALL_COMPANY_ID", ""),
		HousecallTimeout:   getEnvAsDuration("HOUSECALL_TIMEOUT", 10*time.Second),
		BookingLeadSource:  getEnv("BOOKING_LEAD_SOURCE", "website_chat"),
		BusinessPhone:      getEnv("BUSINESS_PHONE", ""),
		BusinessTimezone:   getEnv("BUSINESS_TIMEZONE", "America/New_York"),

		CapacityWindowDays: getEnvAsInt("CAPACITY_WINDOW_DAYS", 14),
		CapacityCacheTTL:   getEnvAsDuration("CAPACITY_CACHE_TTL", 15*time.Minute),
		TechHeadcount:      getEnvAsInt("TECH_HEADCOUNT", 4),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		AdminJWTSecret:     getEnv("ADMIN_JWT_SECRET", ""),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "")),
	}
}

func splitList(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
