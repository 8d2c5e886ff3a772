package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds environment-based settings
type Config struct {
	Environment    string
	DatabaseURL    string
	MigrationsPath string
	JWTSecret      string
	ServerAddress  string
	AllowedOrigins []string
	FrontendURL    string

	RedisAddress  string
	RedisUsername string
	RedisPassword string

	MQTTBrokerURL string
	MQTTClientID  string

	UseSpaces       bool
	SpacesEndpoint  string
	SpacesRegion    string
	SpacesBucket    string
	SpacesCDNURL    string
	SpacesAccessKey string
	SpacesSecretKey string
	UploadDir       string

	SendGridAPIKey string
	MailFrom       string
	MailFromName   string

	GeminiAPIKey string
	GeminiModel  string

	ExchangeRateURL  string
	PrayerTimesURL   string
	ReminderInterval time.Duration
}

func (c *Config) IsDevelopment() bool { return c.Environment == "" || c.Environment == "development" }

// Load reads configuration from environment variables, after merging a .env file if one exists.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("could not read .env file")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	jwt := os.Getenv("JWT_SECRET")
	if jwt == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	interval := 30 * time.Second
	if raw := os.Getenv("REMINDER_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("REMINDER_INTERVAL: %w", err)
		}
		interval = d
	}

	useSpaces, _ := strconv.ParseBool(os.Getenv("USE_SPACES"))

	cfg := &Config{
		Environment:    getenv("APP_ENV", "development"),
		DatabaseURL:    dbURL,
		MigrationsPath: getenv("MIGRATIONS_PATH", "./migrations"),
		JWTSecret:      jwt,
		ServerAddress:  getenv("SERVER_ADDRESS", ":8080"),
		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
		FrontendURL:    getenv("FRONTEND_URL", "http://localhost:5173"),

		RedisAddress:  os.Getenv("REDIS_ADDRESS"),
		RedisUsername: os.Getenv("REDIS_USERNAME"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),

		MQTTBrokerURL: os.Getenv("MQTT_BROKER_URL"),
		MQTTClientID:  getenv("MQTT_CLIENT_ID", "familyhub-server"),

		UseSpaces:       useSpaces,
		SpacesEndpoint:  os.Getenv("SPACES_ENDPOINT"),
		SpacesRegion:    os.Getenv("SPACES_REGION"),
		SpacesBucket:    os.Getenv("SPACES_BUCKET"),
		SpacesCDNURL:    os.Getenv("SPACES_CDN_URL"),
		SpacesAccessKey: os.Getenv("SPACES_ACCESS_KEY"),
		SpacesSecretKey: os.Getenv("SPACES_SECRET_KEY"),
		UploadDir:       getenv("UPLOAD_DIR", "./uploads"),

		SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
		MailFrom:       getenv("MAIL_FROM", "noreply@familyhub.app"),
		MailFromName:   getenv("MAIL_FROM_NAME", "Family Hub"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getenv("GEMINI_MODEL", "gemini-2.0-flash"),

		ExchangeRateURL:  getenv("EXCHANGE_RATE_URL", "https://api.exchangerate-api.com/v4/latest"),
		PrayerTimesURL:   getenv("PRAYER_TIMES_URL", "https://api.aladhan.com/v1/timings"),
		ReminderInterval: interval,
	}

	if cfg.UseSpaces && (cfg.SpacesBucket == "" || cfg.SpacesEndpoint == "") {
		return nil, fmt.Errorf("USE_SPACES requires SPACES_ENDPOINT and SPACES_BUCKET")
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitList(raw string) []string {
	var out []string
	for _, p := range strings.Split(raw, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
