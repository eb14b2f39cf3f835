package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	DB      DBConfig
	Google  GoogleConfig
	Session SessionConfig
	Files   FilesConfig
}

type ServerConfig struct {
	Port string
}

type DBConfig struct {
	// Driver selects the row store: "postgres" or "sqlite".
	Driver   string
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// SQLitePath is only used when Driver is "sqlite".
	SQLitePath string
	// Timeout bounds every store call; an expired call is reported as a
	// storage timeout instead of hanging the request.
	Timeout time.Duration
}

type GoogleConfig struct {
	ClientID     string
	ClientSecret string
	CallbackURL  string
}

type SessionConfig struct {
	Secret     string
	Expiration time.Duration
}

type FilesConfig struct {
	// AttachOwner records the authenticated user's id on uploaded files.
	// When disabled, uploads are anonymous shared files.
	AttachOwner bool
}

func Load() *Config {
	// Optional .env, matching local-dev setups. Missing file is fine.
	_ = godotenv.Load()

	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "3001"),
		},
		DB: DBConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("POSTGRES_HOST", "localhost"),
			Port:       getEnv("POSTGRES_PORT", "5432"),
			User:       getEnv("POSTGRES_USER", "uli"),
			Password:   getEnv("POSTGRES_PASSWORD", ""),
			Name:       getEnv("POSTGRES_DB", "uli"),
			SSLMode:    getEnv("POSTGRES_SSLMODE", "disable"),
			SQLitePath: getEnv("SQLITE_PATH", "./mydatabase.db"),
			Timeout:    getEnvAsDuration("DB_TIMEOUT", 5*time.Second),
		},
		Google: GoogleConfig{
			ClientID:     getEnv("CLIENT_ID", ""),
			ClientSecret: getEnv("CLIENT_SECRET", ""),
			CallbackURL:  getEnv("CALLBACK_URL", "/auth/google/callback"),
		},
		Session: SessionConfig{
			Secret:     getEnv("SESSION_SECRET", "change-me-in-production"),
			Expiration: getEnvAsDuration("SESSION_EXPIRATION", 24*time.Hour),
		},
		Files: FilesConfig{
			AttachOwner: getEnvAsBool("FILE_ATTACH_OWNER", true),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		parsed, err := time.ParseDuration(value)
		if err == nil {
			return parsed
		}
	}
	return fallback
}
