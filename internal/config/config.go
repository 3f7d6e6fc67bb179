package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Server struct {
		Host string `yaml:"host"`
		Port int    `yaml:"port"`
		Env  string `yaml:"env"`
	} `yaml:"server"`

	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`

	JWT struct {
		Secret string `yaml:"secret"`
		TTL    int    `yaml:"ttl"` // minutes
	} `yaml:"jwt"`

	CORS struct {
		Origin string `yaml:"origin"`
	} `yaml:"cors"`

	Stripe struct {
		SecretKey string        `yaml:"secret_key"`
		Timeout   time.Duration `yaml:"timeout"`
	} `yaml:"stripe"`

	Payments PaymentsConfig `yaml:"payments"`
}

// PaymentsConfig is the pricing surface of the product. Prices are fixed
// server-side; clients never choose what they pay.
type PaymentsConfig struct {
	JobUnlockPrice    float64 `yaml:"job_unlock_price"`
	SubscriptionPrice float64 `yaml:"subscription_price"`
	Currency          string  `yaml:"currency"`
	FreeApplicantCap  int     `yaml:"free_applicant_cap"`
}

var AppConfig *Config

// LoadConfig reads config.yaml, or environment variables when DATABASE_URL
// is set (test and container deployments).
func LoadConfig() {
	// .env is optional; system environment wins when the file is absent.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	var cfg Config

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		configPath := os.Getenv("CONFIG_PATH")
		if configPath == "" {
			configPath = "config/config.yaml"
		}

		f, err := os.Open(configPath)
		if err != nil {
			log.Fatalf("Failed to open config file at %s: %v", configPath, err)
		}
		defer f.Close()

		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			log.Fatalf("Failed to parse config file at %s: %v", configPath, err)
		}

		applyPaymentDefaults(&cfg)
		AppConfig = &cfg
		return
	}

	cfg.Database.DSN = dbURL
	cfg.Server.Env = os.Getenv("SERVER_ENV")
	cfg.Server.Port, _ = strconv.Atoi(os.Getenv("SERVER_PORT"))
	cfg.JWT.Secret = os.Getenv("JWT_SECRET")
	cfg.JWT.TTL = 60
	cfg.CORS.Origin = os.Getenv("CORS_ORIGIN")
	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")

	applyPaymentDefaults(&cfg)
	AppConfig = &cfg
}

// applyPaymentDefaults fills the pricing knobs the original product ships
// with: $20 one-time unlock, $20/month subscription, 3 free applicants.
func applyPaymentDefaults(cfg *Config) {
	if cfg.Payments.JobUnlockPrice == 0 {
		cfg.Payments.JobUnlockPrice = 20.00
	}
	if cfg.Payments.SubscriptionPrice == 0 {
		cfg.Payments.SubscriptionPrice = 20.00
	}
	if cfg.Payments.Currency == "" {
		cfg.Payments.Currency = "usd"
	}
	if cfg.Payments.FreeApplicantCap == 0 {
		cfg.Payments.FreeApplicantCap = 3
	}
	if cfg.Stripe.Timeout == 0 {
		cfg.Stripe.Timeout = 5 * time.Second
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
}

func GetConfig() *Config {
	if AppConfig == nil {
		LoadConfig()
	}
	return AppConfig
}
