package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Environment string

const (
	EnvLocal      Environment = "local"
	EnvStaging    Environment = "staging"
	EnvProduction Environment = "production"
)

type Config struct {
	ProjectID            string
	Region               string
	LogLevel             string
	Port                 string
	Environment          Environment
	APIBaseURL           string
	KMSKeyName           string
	SentryDSN            string
	StripePublishableKey string
	ServiceKeySecret     string
	AutosaveDelay        time.Duration
}

func New() *Config {
	// .env is optional and only consulted for local runs
	_ = godotenv.Load()

	env := getEnvironment(os.Getenv("ENVIRONMENT"))
	return &Config{
		ProjectID:            os.Getenv("PROJECTID"),
		Region:               os.Getenv("REGION"),
		LogLevel:             os.Getenv("LOGLEVEL"),
		Port:                 getOr("PORT", "8080"),
		Environment:          env,
		APIBaseURL:           getAPIBaseURL(env),
		KMSKeyName:           os.Getenv("KMSKEYNAME"),
		SentryDSN:            os.Getenv("SENTRYDSN"),
		StripePublishableKey: os.Getenv("STRIPEPUBLISHABLEKEY"),
		ServiceKeySecret:     os.Getenv("SERVICEKEYSECRET"),
		AutosaveDelay:        getDuration("AUTOSAVEDELAY", 500*time.Millisecond),
	}
}

func getEnvironment(env string) Environment {
	switch strings.ToLower(env) {
	case "local":
		return EnvLocal
	case "staging":
		return EnvStaging
	default: // "production"
		return EnvProduction
	}
}

// getAPIBaseURL picks the local prospecting API when running locally.
func getAPIBaseURL(env Environment) string {
	if env == EnvLocal {
		if local := os.Getenv("LOCALAPIBASEURL"); local != "" {
			return strings.TrimRight(local, "/")
		}
		return "http://localhost:8000"
	}
	return strings.TrimRight(os.Getenv("APIBASEURL"), "/")
}

func getOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
