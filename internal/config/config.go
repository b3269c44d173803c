package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config 服务全部运行参数，均来自环境变量（可由 .env 提供）
type Config struct {
	AppEnv   string `env:"APP_ENV"   envDefault:"production"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`
	Port     string `env:"PORT"      envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL" envDefault:"host=localhost user=postgres password=postgres dbname=ngosocial port=5432 sslmode=disable"`

	JWTSecret string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTTL    time.Duration `env:"JWT_TTL" envDefault:"720h"`

	// 媒体存储
	Bucket             string `env:"GCS_BUCKET"`
	GCSCredentialsFile string `env:"GCS_CREDENTIALS_FILE"`
	MaxParallelUploads int    `env:"MAX_PARALLEL_UPLOADS" envDefault:"4"`
	MaxUploadFiles     int    `env:"MAX_UPLOAD_FILES"     envDefault:"10"`
	CompensateRetries  uint64 `env:"COMPENSATE_RETRIES"   envDefault:"3"`

	StripeSecretKey     string `env:"STRIPE_SECRET_KEY"`
	StripeWebhookSecret string `env:"STRIPE_WEBHOOK_SECRET"`
	Currency            string `env:"PAYMENT_CURRENCY" envDefault:"inr"`

	SMTPHost string `env:"SMTP_HOST"`
	SMTPPort string `env:"SMTP_PORT"`
	SMTPUser string `env:"SMTP_USER"`
	SMTPPass string `env:"SMTP_PASS"`
	SMTPFrom string `env:"SMTP_FROM"`

	// true 时 isOwner / isJoined 同时比较 Principal 类型与 id
	StrictOwnerKind bool `env:"ENGAGEMENT_STRICT_OWNER_KIND" envDefault:"false"`
}

// Load reads .env when present and parses the environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, finding env vars from system")
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.MaxParallelUploads < 1 {
		cfg.MaxParallelUploads = 1
	}
	return cfg, nil
}

func (c Config) Development() bool {
	return c.AppEnv == "development"
}
