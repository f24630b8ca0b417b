package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	ConnectionLimit int
}

// DSN prefers DB_URL and falls back to the discrete DB_* settings.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=UTC",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type TwilioConfig struct {
	AccountSID     string
	AuthToken      string
	PhoneNumber    string
	WhatsAppNumber string
}

func (t TwilioConfig) Enabled() bool {
	return t.AccountSID != "" && t.AuthToken != ""
}

type Config struct {
	Port           string
	Database       DatabaseConfig
	JWTSecret      string
	JWTExpiry      time.Duration
	AllowedOrigins []string
	APIKey         string
	LogLevel       string
	LogFormat      string
	Twilio         TwilioConfig

	SeedAdminEmail    string
	SeedAdminPassword string
}

// Load reads an optional .env file and then the process environment.
// It reports whether a .env file was found so the caller can log it once
// the logger exists.
func Load() (*Config, bool) {
	envLoaded := godotenv.Load() == nil

	expiryHours := getEnvInt("JWT_EXPIRY_HOURS", 24)

	cfg := &Config{
		Port: getEnv("PORT", "8000"),
		Database: DatabaseConfig{
			URL:             os.Getenv("DB_URL"),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnv("DB_PORT", "5432"),
			User:            getEnv("DB_USER", "postgres"),
			Password:        os.Getenv("DB_PASSWORD"),
			Name:            getEnv("DB_NAME", "coleta"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			ConnectionLimit: getEnvInt("DB_CONNECTION_LIMIT", 10),
		},
		JWTSecret:      os.Getenv("JWT_SECRET"),
		JWTExpiry:      time.Duration(expiryHours) * time.Hour,
		AllowedOrigins: splitList(getEnv("URL_CLIENTE", "http://localhost:5173")),
		APIKey:         os.Getenv("API_KEY"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogFormat:      getEnv("LOG_FORMAT", "json"),
		Twilio: TwilioConfig{
			AccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
			PhoneNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),
			WhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		},
		SeedAdminEmail:    getEnv("SEED_ADMIN_EMAIL", "adminaccess25@exemplo.com"),
		SeedAdminPassword: getEnv("SEED_ADMIN_PASSWORD", "admin123"),
	}
	return cfg, envLoaded
}

// Validate checks the settings the HTTP server cannot run without.
func (c *Config) Validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET not set")
	}
	if c.JWTExpiry <= 0 {
		return fmt.Errorf("JWT_EXPIRY_HOURS must be positive")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
