// Package config reads runtime settings from the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/menucraft/menucraft/internal/ai"
	"github.com/menucraft/menucraft/internal/media"
)

const (
	StoreSQLite = "sqlite"
	StoreMongo  = "mongo"
)

type Config struct {
	Port      string
	BaseURL   string
	LogLevel  string
	LogFormat string

	Store    string
	DBPath   string
	MongoURI string
	MongoDB  string

	SessionSecret string
	SessionTTL    time.Duration

	Gemini ai.GeminiConfig
	S3     media.S3Config
}

// Load reads an optional .env file, then MENUCRAFT_* variables. Values
// already in the environment win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv(os.Getenv)
}

// FromEnv builds a Config from getenv.
func FromEnv(getenv func(string) string) (Config, error) {
	get := func(key, def string) string {
		if v := strings.TrimSpace(getenv("MENUCRAFT_" + key)); v != "" {
			return v
		}
		return def
	}

	cfg := Config{
		Port:      get("PORT", "8080"),
		LogLevel:  get("LOG_LEVEL", "info"),
		LogFormat: get("LOG_FORMAT", "text"),
		Store:     strings.ToLower(get("STORE", StoreSQLite)),
		DBPath:    get("DB_PATH", "menucraft.db"),
		MongoURI:  get("MONGO_URI", ""),
		MongoDB:   get("MONGO_DB", "menucraft"),

		SessionSecret: get("SESSION_SECRET", ""),

		Gemini: ai.GeminiConfig{
			APIKey:     get("GEMINI_API_KEY", ""),
			TextModel:  get("GEMINI_TEXT_MODEL", ""),
			ImageModel: get("GEMINI_IMAGE_MODEL", ""),
		},
		S3: media.S3Config{
			Endpoint:      get("S3_ENDPOINT", ""),
			Bucket:        get("S3_BUCKET", ""),
			Region:        get("S3_REGION", "auto"),
			AccessKey:     get("S3_ACCESS_KEY", ""),
			SecretKey:     get("S3_SECRET_KEY", ""),
			PublicBaseURL: get("S3_PUBLIC_BASE_URL", ""),
		},
	}
	cfg.BaseURL = strings.TrimSuffix(get("BASE_URL", "http://localhost:"+cfg.Port), "/")

	ttl := get("SESSION_TTL", "720h")
	d, err := time.ParseDuration(ttl)
	if err != nil || d <= 0 {
		return Config{}, fmt.Errorf("invalid MENUCRAFT_SESSION_TTL %q", ttl)
	}
	cfg.SessionTTL = d

	switch cfg.Store {
	case StoreSQLite:
	case StoreMongo:
		if cfg.MongoURI == "" {
			return Config{}, errors.New("MENUCRAFT_MONGO_URI is required when MENUCRAFT_STORE=mongo")
		}
	default:
		return Config{}, fmt.Errorf("unknown MENUCRAFT_STORE %q", cfg.Store)
	}

	if cfg.SessionSecret == "" {
		return Config{}, errors.New("MENUCRAFT_SESSION_SECRET is required")
	}
	return cfg, nil
}
