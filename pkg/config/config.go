package config

import (
	"errors"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env       string
	Port      int
	APIPrefix string

	School   SchoolConfig
	Snapshot SnapshotConfig
	Sync     SyncConfig
	JWT      JWTConfig
	CORS     CORSConfig
	Log      LogConfig
}

// SchoolConfig carries identity rendered on reports and messages.
type SchoolConfig struct {
	Name string
}

// SnapshotConfig locates the durable local state document.
type SnapshotConfig struct {
	Path string
}

// SyncConfig tunes the full-snapshot sync client. The effective remote
// endpoint lives inside the persisted document; DefaultEndpoint only seeds a
// fresh installation.
type SyncConfig struct {
	DefaultEndpoint string
	QueueBuffer     int
	PullOnStartup   bool
}

type JWTConfig struct {
	Secret     string
	Expiration time.Duration
	Issuer     string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.School = SchoolConfig{Name: v.GetString("SCHOOL_NAME")}

	cfg.Snapshot = SnapshotConfig{Path: v.GetString("SNAPSHOT_PATH")}

	cfg.Sync = SyncConfig{
		DefaultEndpoint: v.GetString("SYNC_DEFAULT_ENDPOINT"),
		QueueBuffer:     v.GetInt("SYNC_QUEUE_BUFFER"),
		PullOnStartup:   v.GetBool("SYNC_PULL_ON_STARTUP"),
	}

	cfg.JWT = JWTConfig{
		Secret:     v.GetString("JWT_SECRET"),
		Expiration: parseDuration(v.GetString("JWT_EXPIRATION"), 24*time.Hour),
		Issuer:     v.GetString("JWT_ISSUER"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")

	v.SetDefault("SCHOOL_NAME", "SD Negeri 5 Bilato")

	v.SetDefault("SNAPSHOT_PATH", "./data/absensi.json")

	v.SetDefault("SYNC_DEFAULT_ENDPOINT", "")
	v.SetDefault("SYNC_QUEUE_BUFFER", 16)
	v.SetDefault("SYNC_PULL_ON_STARTUP", true)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_EXPIRATION", "24h")
	v.SetDefault("JWT_ISSUER", "absensi-sd-api")

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
