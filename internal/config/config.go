package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Environment    string
	Port           string
	DBDSN          string
	MigrationsPath string
	PublicBaseURL  string

	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	LLMTimeout    time.Duration

	TwilioAccountSID     string
	TwilioAuthToken      string
	TwilioWhatsAppNumber string
	TwilioVoiceNumber    string

	ReminderCron string
}

// Load reads configuration from a .env file if present, otherwise from the
// process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		Environment:    getenv("ENV", "development"),
		Port:           getenv("PORT", "8080"),
		DBDSN:          os.Getenv("DB_DSN"),
		MigrationsPath: getenv("MIGRATIONS_PATH", "migrations"),
		PublicBaseURL:  os.Getenv("PUBLIC_BASE_URL"),

		OpenAIAPIKey:  os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: getenv("OPENAI_BASE_URL", "https://api.openai.com/v1"),
		OpenAIModel:   getenv("OPENAI_MODEL", "gpt-3.5-turbo"),
		LLMTimeout:    getenvDuration("LLM_TIMEOUT", 20*time.Second),

		TwilioAccountSID:     os.Getenv("TWILIO_ACCOUNT_SID"),
		TwilioAuthToken:      os.Getenv("TWILIO_AUTH_TOKEN"),
		TwilioWhatsAppNumber: os.Getenv("TWILIO_WHATSAPP_NUMBER"),
		TwilioVoiceNumber:    os.Getenv("TWILIO_PHONE_NUMBER"),

		ReminderCron: getenv("REMINDER_CRON", "0 9 * * *"),
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required but not set")
	}

	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %s", key, v, fallback)
		return fallback
	}
	return d
}
