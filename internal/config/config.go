package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all worker configuration.
type Config struct {
	DB    DBConfig
	S3    S3Config
	Log   LogConfig
	OCR   OCRConfig
	Queue QueueConfig
}

// QueueConfig holds extraction queue worker settings.
type QueueConfig struct {
	PollIntervalSecs int `mapstructure:"poll_interval_secs"`
	MaxRetries       int `mapstructure:"max_retries"`
	Concurrency      int `mapstructure:"concurrency"`
}

// OCRConfig holds extraction pipeline settings.
type OCRConfig struct {
	// Per-call option defaults; callers may override per document.
	NativeEnabled  bool `mapstructure:"native_enabled"`
	OpticalEnabled bool `mapstructure:"optical_enabled"`
	RemoteEnabled  bool `mapstructure:"remote_enabled"`
	TimeoutMs      int  `mapstructure:"timeout_ms"`
	RetryAttempts  int  `mapstructure:"retry_attempts"`

	Tesseract TesseractConfig `mapstructure:"tesseract"`
	Remote    RemoteOcrConfig `mapstructure:"remote"`
}

// TesseractConfig holds optical-recognition engine settings.
type TesseractConfig struct {
	Languages      string `mapstructure:"languages"`
	MaxConcurrency int    `mapstructure:"max_concurrency"`
	MaxPages       int    `mapstructure:"max_pages"`
	RenderDPI      int    `mapstructure:"render_dpi"`
}

// RemoteOcrConfig holds hosted-fallback engine settings.
type RemoteOcrConfig struct {
	Endpoint    string `mapstructure:"endpoint"`
	APIKey      string `mapstructure:"api_key"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
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

// S3Config holds AWS S3 settings.
type S3Config struct {
	Region        string `mapstructure:"region"`
	Bucket        string `mapstructure:"bucket"`
	Endpoint      string `mapstructure:"endpoint"`
	AccessKey     string `mapstructure:"access_key"`
	SecretKey     string `mapstructure:"secret_key"`
	MaxFileSizeMB int64  `mapstructure:"max_file_size_mb"`
	PresignExpiry int64  `mapstructure:"presign_expiry"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the CASEFLOW_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("CASEFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "caseflow")
	v.SetDefault("db.password", "caseflow_secret")
	v.SetDefault("db.name", "caseflow_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "caseflow-uploads")
	v.SetDefault("s3.endpoint", "")
	v.SetDefault("s3.max_file_size_mb", 50)
	v.SetDefault("s3.presign_expiry", 3600)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// OCR defaults
	v.SetDefault("ocr.native_enabled", true)
	v.SetDefault("ocr.optical_enabled", true)
	v.SetDefault("ocr.remote_enabled", true)
	v.SetDefault("ocr.timeout_ms", 30000)
	v.SetDefault("ocr.retry_attempts", 2)
	v.SetDefault("ocr.tesseract.languages", "eng")
	v.SetDefault("ocr.tesseract.max_concurrency", 3)
	v.SetDefault("ocr.tesseract.max_pages", 20)
	v.SetDefault("ocr.tesseract.render_dpi", 150)
	v.SetDefault("ocr.remote.endpoint", "")
	v.SetDefault("ocr.remote.api_key", "")
	v.SetDefault("ocr.remote.timeout_secs", 60)

	// Queue defaults
	v.SetDefault("queue.poll_interval_secs", 10)
	v.SetDefault("queue.max_retries", 5)
	v.SetDefault("queue.concurrency", 3)

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"db.host":                       "CASEFLOW_DB_HOST",
		"db.port":                       "CASEFLOW_DB_PORT",
		"db.user":                       "CASEFLOW_DB_USER",
		"db.password":                   "CASEFLOW_DB_PASSWORD",
		"db.name":                       "CASEFLOW_DB_NAME",
		"db.sslmode":                    "CASEFLOW_DB_SSLMODE",
		"db.max_open":                   "CASEFLOW_DB_MAX_OPEN",
		"db.max_idle":                   "CASEFLOW_DB_MAX_IDLE",
		"s3.region":                     "CASEFLOW_S3_REGION",
		"s3.bucket":                     "CASEFLOW_S3_BUCKET",
		"s3.endpoint":                   "CASEFLOW_S3_ENDPOINT",
		"s3.access_key":                 "CASEFLOW_S3_ACCESS_KEY",
		"s3.secret_key":                 "CASEFLOW_S3_SECRET_KEY",
		"s3.max_file_size_mb":           "CASEFLOW_S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":             "CASEFLOW_S3_PRESIGN_EXPIRY",
		"log.level":                     "CASEFLOW_LOG_LEVEL",
		"log.format":                    "CASEFLOW_LOG_FORMAT",
		"ocr.native_enabled":            "CASEFLOW_OCR_NATIVE_ENABLED",
		"ocr.optical_enabled":           "CASEFLOW_OCR_OPTICAL_ENABLED",
		"ocr.remote_enabled":            "CASEFLOW_OCR_REMOTE_ENABLED",
		"ocr.timeout_ms":                "CASEFLOW_OCR_TIMEOUT_MS",
		"ocr.retry_attempts":            "CASEFLOW_OCR_RETRY_ATTEMPTS",
		"ocr.tesseract.languages":       "CASEFLOW_OCR_TESSERACT_LANGUAGES",
		"ocr.tesseract.max_concurrency": "CASEFLOW_OCR_TESSERACT_MAX_CONCURRENCY",
		"ocr.tesseract.max_pages":       "CASEFLOW_OCR_TESSERACT_MAX_PAGES",
		"ocr.tesseract.render_dpi":      "CASEFLOW_OCR_TESSERACT_RENDER_DPI",
		"ocr.remote.endpoint":           "CASEFLOW_OCR_REMOTE_ENDPOINT",
		"ocr.remote.api_key":            "CASEFLOW_OCR_REMOTE_API_KEY",
		"ocr.remote.timeout_secs":       "CASEFLOW_OCR_REMOTE_TIMEOUT_SECS",
		"queue.poll_interval_secs":      "CASEFLOW_QUEUE_POLL_INTERVAL_SECS",
		"queue.max_retries":             "CASEFLOW_QUEUE_MAX_RETRIES",
		"queue.concurrency":             "CASEFLOW_QUEUE_CONCURRENCY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

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
	cfg.S3 = S3Config{
		Region:        v.GetString("s3.region"),
		Bucket:        v.GetString("s3.bucket"),
		Endpoint:      v.GetString("s3.endpoint"),
		AccessKey:     v.GetString("s3.access_key"),
		SecretKey:     v.GetString("s3.secret_key"),
		MaxFileSizeMB: v.GetInt64("s3.max_file_size_mb"),
		PresignExpiry: v.GetInt64("s3.presign_expiry"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.OCR = OCRConfig{
		NativeEnabled:  v.GetBool("ocr.native_enabled"),
		OpticalEnabled: v.GetBool("ocr.optical_enabled"),
		RemoteEnabled:  v.GetBool("ocr.remote_enabled"),
		TimeoutMs:      v.GetInt("ocr.timeout_ms"),
		RetryAttempts:  v.GetInt("ocr.retry_attempts"),
		Tesseract: TesseractConfig{
			Languages:      v.GetString("ocr.tesseract.languages"),
			MaxConcurrency: v.GetInt("ocr.tesseract.max_concurrency"),
			MaxPages:       v.GetInt("ocr.tesseract.max_pages"),
			RenderDPI:      v.GetInt("ocr.tesseract.render_dpi"),
		},
		Remote: RemoteOcrConfig{
			Endpoint:    v.GetString("ocr.remote.endpoint"),
			APIKey:      v.GetString("ocr.remote.api_key"),
			TimeoutSecs: v.GetInt("ocr.remote.timeout_secs"),
		},
	}
	cfg.Queue = QueueConfig{
		PollIntervalSecs: v.GetInt("queue.poll_interval_secs"),
		MaxRetries:       v.GetInt("queue.max_retries"),
		Concurrency:      v.GetInt("queue.concurrency"),
	}

	return cfg, nil
}
