package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	S3        S3Config
	Log       LogConfig
	AI        AIConfig
	CORS      CORSConfig
	Email     EmailConfig
	Notify    NotifyConfig
	Scheduler SchedulerConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host         string        `mapstructure:"host" validate:"required"`
	Port         int           `mapstructure:"port" validate:"required,min=1,max=65535"`
	Environment  string        `mapstructure:"environment" validate:"oneof=development production test"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	StaticDir    string        `mapstructure:"static_dir"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// IsProduction reports whether the server runs with NODE_ENV=production.
func (s ServerConfig) IsProduction() bool {
	return s.Environment == "production"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	URL       string `mapstructure:"url" validate:"required"`
	DirectURL string `mapstructure:"direct_url"`
	MaxOpen   int    `mapstructure:"max_open" validate:"min=1"`
	MaxIdle   int    `mapstructure:"max_idle" validate:"min=0"`
}

// MigrationURL returns the URL migrations run against, preferring the
// direct (non-pooled) connection.
func (d DBConfig) MigrationURL() string {
	if d.DirectURL != "" {
		return d.DirectURL
	}
	return d.URL
}

// JWTConfig holds JWT signing and expiry settings.
type JWTConfig struct {
	Secret            string        `mapstructure:"secret" validate:"required,min=32"`
	AccessTokenExpiry time.Duration `mapstructure:"expiry" validate:"required"`
	Issuer            string        `mapstructure:"issuer"`
}

// CookieConfig holds the auth cookie settings.
type CookieConfig struct {
	Secret string `mapstructure:"secret" validate:"required,min=32"`
	Secure bool   `mapstructure:"secure"`
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
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Dir   string `mapstructure:"dir"`
}

// AIConfig holds generative-AI provider settings. An empty APIKey
// disables outbound calls.
type AIConfig struct {
	APIKey      string `mapstructure:"api_key"`
	Model       string `mapstructure:"model"`
	TimeoutSecs int    `mapstructure:"timeout_secs"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider" validate:"oneof=noop ses"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	FrontendURL string `mapstructure:"frontend_url"`
}

// NotifyConfig selects the appointment reminder channel.
type NotifyConfig struct {
	Provider string `mapstructure:"provider" validate:"oneof=log email nats"`
	NATSURL  string `mapstructure:"nats_url" validate:"required_if=Provider nats"`
}

// SchedulerConfig holds cron specs for background jobs.
type SchedulerConfig struct {
	ReminderSchedule  string        `mapstructure:"reminder_schedule" validate:"required"`
	ReconcileSchedule string        `mapstructure:"reconcile_schedule" validate:"required"`
	Timezone          string        `mapstructure:"timezone"`
	ReminderWorkers   int           `mapstructure:"reminder_workers" validate:"min=1"`
	JobTimeout        time.Duration `mapstructure:"job_timeout"` // per run; zero means unbounded
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.static_dir", "web/dist")

	// DB defaults
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)

	// JWT defaults
	v.SetDefault("jwt.expiry", "24h")
	v.SetDefault("jwt.issuer", "vetcare")

	// S3 defaults
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.bucket", "vetcare-attachments")
	v.SetDefault("s3.max_file_size_mb", 20)
	v.SetDefault("s3.presign_expiry", 900)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "logs")

	// AI defaults
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_secs", 30)

	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://localhost:5173")

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@vetcare.app")
	v.SetDefault("email.from_name", "VetCare")
	v.SetDefault("email.frontend_url", "http://localhost:3000")

	v.SetDefault("notify.provider", "log")

	// Scheduler defaults
	v.SetDefault("scheduler.reminder_schedule", "@every 60s")
	v.SetDefault("scheduler.reconcile_schedule", "0 3 * * *")
	v.SetDefault("scheduler.timezone", "UTC")
	v.SetDefault("scheduler.reminder_workers", 4)
	v.SetDefault("scheduler.job_timeout", "5m")

	envBindings := map[string]string{
		"server.host":                  "HOST",
		"server.port":                  "PORT",
		"server.environment":           "NODE_ENV",
		"server.read_timeout":          "SERVER_READ_TIMEOUT",
		"server.write_timeout":         "SERVER_WRITE_TIMEOUT",
		"server.static_dir":            "STATIC_DIR",
		"db.url":                       "DATABASE_URL",
		"db.direct_url":                "DIRECT_URL",
		"db.max_open":                  "DB_MAX_OPEN",
		"db.max_idle":                  "DB_MAX_IDLE",
		"jwt.secret":                   "JWT_SECRET",
		"jwt.expiry":                   "JWT_EXPIRY",
		"jwt.issuer":                   "JWT_ISSUER",
		"cookie.secret":                "COOKIE_SECRET",
		"s3.region":                    "S3_REGION",
		"s3.bucket":                    "S3_BUCKET",
		"s3.endpoint":                  "S3_ENDPOINT",
		"s3.access_key":                "S3_ACCESS_KEY",
		"s3.secret_key":                "S3_SECRET_KEY",
		"s3.max_file_size_mb":          "S3_MAX_FILE_SIZE_MB",
		"s3.presign_expiry":            "S3_PRESIGN_EXPIRY",
		"log.level":                    "LOG_LEVEL",
		"log.dir":                      "LOG_DIR",
		"ai.api_key":                   "API_KEY",
		"ai.model":                     "AI_MODEL",
		"ai.timeout_secs":              "AI_TIMEOUT_SECS",
		"cors.allowed_origins":         "CORS_ALLOWED_ORIGINS",
		"email.provider":               "EMAIL_PROVIDER",
		"email.region":                 "EMAIL_REGION",
		"email.from_address":           "EMAIL_FROM_ADDRESS",
		"email.from_name":              "EMAIL_FROM_NAME",
		"email.frontend_url":           "FRONTEND_URL",
		"notify.provider":              "NOTIFY_PROVIDER",
		"notify.nats_url":              "NATS_URL",
		"scheduler.reminder_schedule":  "REMINDER_SCHEDULE",
		"scheduler.reconcile_schedule": "RECONCILE_SCHEDULE",
		"scheduler.timezone":           "SCHEDULER_TIMEZONE",
		"scheduler.reminder_workers":   "REMINDER_WORKERS",
		"scheduler.job_timeout":        "SCHEDULER_JOB_TIMEOUT",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}
	cfg.Server = ServerConfig{
		Host:         v.GetString("server.host"),
		Port:         v.GetInt("server.port"),
		Environment:  v.GetString("server.environment"),
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		StaticDir:    v.GetString("server.static_dir"),
	}
	cfg.DB = DBConfig{
		URL:       v.GetString("db.url"),
		DirectURL: v.GetString("db.direct_url"),
		MaxOpen:   v.GetInt("db.max_open"),
		MaxIdle:   v.GetInt("db.max_idle"),
	}
	cfg.JWT = JWTConfig{
		Secret:            v.GetString("jwt.secret"),
		AccessTokenExpiry: v.GetDuration("jwt.expiry"),
		Issuer:            v.GetString("jwt.issuer"),
	}
	cfg.Cookie = CookieConfig{
		Secret: v.GetString("cookie.secret"),
		Secure: cfg.Server.IsProduction(),
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
		Level: v.GetString("log.level"),
		Dir:   v.GetString("log.dir"),
	}
	cfg.AI = AIConfig{
		APIKey:      v.GetString("ai.api_key"),
		Model:       v.GetString("ai.model"),
		TimeoutSecs: v.GetInt("ai.timeout_secs"),
	}

	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{AllowedOrigins: corsOrigins}

	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		FrontendURL: v.GetString("email.frontend_url"),
	}
	cfg.Notify = NotifyConfig{
		Provider: v.GetString("notify.provider"),
		NATSURL:  v.GetString("notify.nats_url"),
	}
	cfg.Scheduler = SchedulerConfig{
		ReminderSchedule:  v.GetString("scheduler.reminder_schedule"),
		ReconcileSchedule: v.GetString("scheduler.reconcile_schedule"),
		Timezone:          v.GetString("scheduler.timezone"),
		ReminderWorkers:   v.GetInt("scheduler.reminder_workers"),
		JobTimeout:        v.GetDuration("scheduler.job_timeout"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks every section and reports the first failing field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("invalid configuration: %s failed %q check", fe.Namespace(), fe.Tag())
		}
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// LoadDB reads only the database section, for tools that do not serve
// traffic.
func LoadDB() (*DBConfig, error) {
	v := viper.New()
	v.SetDefault("db.max_open", 2)
	v.SetDefault("db.max_idle", 1)
	_ = v.BindEnv("db.url", "DATABASE_URL")
	_ = v.BindEnv("db.direct_url", "DIRECT_URL")

	db := &DBConfig{
		URL:       v.GetString("db.url"),
		DirectURL: v.GetString("db.direct_url"),
		MaxOpen:   v.GetInt("db.max_open"),
		MaxIdle:   v.GetInt("db.max_idle"),
	}
	if db.MigrationURL() == "" {
		return nil, errors.New("invalid configuration: DATABASE_URL or DIRECT_URL is required")
	}
	return db, nil
}
