package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	Log       LogConfig
	CORS      CORSConfig
	Storage   StorageConfig
	OCR       OCRConfig
	Extractor ExtractorConfig
	Queue     QueueConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Name     string `mapstructure:"name"`
	SSLMode  string `mapstructure:"sslmode"`
	MaxOpen  int    `mapstructure:"max_open"`
	MaxIdle  int    `mapstructure:"max_idle"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StorageConfig holds file storage settings. Backend selects between the
// local-disk store and S3.
type StorageConfig struct {
	Backend       string `mapstructure:"backend"`
	LocalDir      string `mapstructure:"local_dir"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	S3            S3Config
}

// S3Config holds AWS S3 settings for the s3 storage backend.
type S3Config struct {
	Region    string `mapstructure:"region"`
	Bucket    string `mapstructure:"bucket"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
}

// OCRConfig holds text recovery settings.
type OCRConfig struct {
	Pdftoppm    string `mapstructure:"pdftoppm"`
	Languages   string `mapstructure:"languages"`
	DPI         int    `mapstructure:"dpi"`
	MaxPages    int    `mapstructure:"max_pages"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// ExtractorConfig holds settings for the LLM field extractor provider.
type ExtractorConfig struct {
	Provider     string `mapstructure:"provider"`
	APIKey       string `mapstructure:"api_key"`
	DefaultModel string `mapstructure:"default_model"`
	TimeoutSecs  int    `mapstructure:"timeout_secs"`
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	Concurrency      int `mapstructure:"concurrency"`
}

// Load reads configuration from environment variables with the LOANDOCS_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("LOANDOCS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "loandocs")
	v.SetDefault("db.password", "loandocs_secret")
	v.SetDefault("db.name", "loandocs_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5173,http://127.0.0.1:5173")

	// Storage defaults
	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.max_file_size_mb", 50)
	v.SetDefault("storage.s3.region", "us-east-1")
	v.SetDefault("storage.s3.bucket", "loandocs-uploads")
	v.SetDefault("storage.s3.endpoint", "")

	// OCR defaults
	v.SetDefault("ocr.pdftoppm", "pdftoppm")
	v.SetDefault("ocr.languages", "kor+eng")
	v.SetDefault("ocr.dpi", 300)
	v.SetDefault("ocr.max_pages", 0)
	v.SetDefault("ocr.timeout_secs", 300)

	// Extractor defaults
	v.SetDefault("extractor.provider", "openai")
	v.SetDefault("extractor.api_key", "")
	v.SetDefault("extractor.default_model", "gpt-4o-mini")
	v.SetDefault("extractor.timeout_secs", 120)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.concurrency", 3)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "LOANDOCS_SERVER_PORT",
		"server.read_timeout":      "LOANDOCS_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "LOANDOCS_SERVER_WRITE_TIMEOUT",
		"server.environment":       "LOANDOCS_SERVER_ENVIRONMENT",
		"db.host":                  "LOANDOCS_DB_HOST",
		"db.port":                  "LOANDOCS_DB_PORT",
		"db.user":                  "LOANDOCS_DB_USER",
		"db.password":              "LOANDOCS_DB_PASSWORD",
		"db.name":                  "LOANDOCS_DB_NAME",
		"db.sslmode":               "LOANDOCS_DB_SSLMODE",
		"db.max_open":              "LOANDOCS_DB_MAX_OPEN",
		"db.max_idle":              "LOANDOCS_DB_MAX_IDLE",
		"log.level":                "LOANDOCS_LOG_LEVEL",
		"log.format":               "LOANDOCS_LOG_FORMAT",
		"cors.allowed_origins":     "LOANDOCS_CORS_ALLOWED_ORIGINS",
		"storage.backend":          "LOANDOCS_STORAGE_BACKEND",
		"storage.local_dir":        "LOANDOCS_STORAGE_LOCAL_DIR",
		"storage.max_file_size_mb": "LOANDOCS_STORAGE_MAX_FILE_SIZE_MB",
		"storage.s3.region":        "LOANDOCS_STORAGE_S3_REGION",
		"storage.s3.bucket":        "LOANDOCS_STORAGE_S3_BUCKET",
		"storage.s3.endpoint":      "LOANDOCS_STORAGE_S3_ENDPOINT",
		"storage.s3.access_key":    "LOANDOCS_STORAGE_S3_ACCESS_KEY",
		"storage.s3.secret_key":    "LOANDOCS_STORAGE_S3_SECRET_KEY",
		"ocr.pdftoppm":             "LOANDOCS_OCR_PDFTOPPM",
		"ocr.languages":            "LOANDOCS_OCR_LANGUAGES",
		"ocr.dpi":                  "LOANDOCS_OCR_DPI",
		"ocr.max_pages":            "LOANDOCS_OCR_MAX_PAGES",
		"ocr.timeout_secs":         "LOANDOCS_OCR_TIMEOUT_SECS",
		"extractor.provider":       "LOANDOCS_EXTRACTOR_PROVIDER",
		"extractor.api_key":        "LOANDOCS_EXTRACTOR_API_KEY",
		"extractor.default_model":  "LOANDOCS_EXTRACTOR_DEFAULT_MODEL",
		"extractor.timeout_secs":   "LOANDOCS_EXTRACTOR_TIMEOUT_SECS",
		"queue.poll_interval_secs": "LOANDOCS_QUEUE_POLL_INTERVAL_SECS",
		"queue.concurrency":        "LOANDOCS_QUEUE_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if LOANDOCS_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("LOANDOCS_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Host:     v.GetString("db.host"),
		Port:     v.GetInt("db.port"),
		User:     v.GetString("db.user"),
		Password: v.GetString("db.password"),
		Name:     v.GetString("db.name"),
		SSLMode:  v.GetString("db.sslmode"),
		MaxOpen:  v.GetInt("db.max_open"),
		MaxIdle:  v.GetInt("db.max_idle"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	cfg.Storage = StorageConfig{
		Backend:       v.GetString("storage.backend"),
		LocalDir:      v.GetString("storage.local_dir"),
		MaxFileSizeMB: v.GetInt64("storage.max_file_size_mb"),
		S3: S3Config{
			Region:    v.GetString("storage.s3.region"),
			Bucket:    v.GetString("storage.s3.bucket"),
			Endpoint:  v.GetString("storage.s3.endpoint"),
			AccessKey: v.GetString("storage.s3.access_key"),
			SecretKey: v.GetString("storage.s3.secret_key"),
		},
	}

	cfg.OCR = OCRConfig{
		Pdftoppm:    v.GetString("ocr.pdftoppm"),
		Languages:   v.GetString("ocr.languages"),
		DPI:         v.GetInt("ocr.dpi"),
		MaxPages:    v.GetInt("ocr.max_pages"),
		TimeoutSecs: v.GetInt("ocr.timeout_secs"),
	}

	cfg.Extractor = ExtractorConfig{
		Provider:     v.GetString("extractor.provider"),
		APIKey:       v.GetString("extractor.api_key"),
		DefaultModel: v.GetString("extractor.default_model"),
		TimeoutSecs:  v.GetInt("extractor.timeout_secs"),
	}

	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	return cfg, nil
}
