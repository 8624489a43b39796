package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type HTTPConfig struct {
	Host string
	Port int
}

type DBConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime string
}

type AuthConfig struct {
	AccessSecret string
}

type StripeConfig struct {
	SecretKey  string
	SuccessURL string
	CancelURL  string
	Currency   string
}

type PaymentConfig struct {
	StatusPollInterval   time.Duration
	StatusPollAttempts   int
	PendingRedirectDelay time.Duration
}

// ContractConfig carries the fixed amounts and the company identity printed
// on every rental contract.
type ContractConfig struct {
	DepositAmount   float64
	FilingFeeAmount float64
	CompanyName     string
	CompanyAddress  string
	CompanyCity     string
	CompanyPhone    string
	CompanyEmail    string
}

type Config struct {
	Environment string
	HTTP        HTTPConfig
	DB          DBConfig
	Auth        AuthConfig
	Stripe      StripeConfig
	Payment     PaymentConfig
	Contract    ContractConfig
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("app")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("./deploy")
	v.AddConfigPath("./internal/config")
	v.AutomaticEnv()

	_ = v.ReadInConfig()

	cfg := &Config{
		Environment: v.GetString("APP_ENV"),
		HTTP: HTTPConfig{
			Host: v.GetString("HTTP_HOST"),
			Port: v.GetInt("HTTP_PORT"),
		},
		DB: DBConfig{
			DSN:             v.GetString("DB_DSN"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetString("DB_CONN_MAX_LIFETIME"),
		},
		Auth: AuthConfig{
			AccessSecret: v.GetString("JWT_ACCESS_SECRET"),
		},
		Stripe: StripeConfig{
			SecretKey:  v.GetString("STRIPE_SECRET_KEY"),
			SuccessURL: v.GetString("STRIPE_SUCCESS_URL"),
			CancelURL:  v.GetString("STRIPE_CANCEL_URL"),
			Currency:   v.GetString("STRIPE_CURRENCY"),
		},
		Payment: PaymentConfig{
			StatusPollInterval:   v.GetDuration("PAYMENT_STATUS_POLL_INTERVAL"),
			StatusPollAttempts:   v.GetInt("PAYMENT_STATUS_POLL_ATTEMPTS"),
			PendingRedirectDelay: v.GetDuration("PAYMENT_PENDING_REDIRECT_DELAY"),
		},
		Contract: ContractConfig{
			DepositAmount:   v.GetFloat64("CONTRACT_DEPOSIT_AMOUNT"),
			FilingFeeAmount: v.GetFloat64("CONTRACT_FILING_FEE_AMOUNT"),
			CompanyName:     v.GetString("COMPANY_NAME"),
			CompanyAddress:  v.GetString("COMPANY_ADDRESS"),
			CompanyCity:     v.GetString("COMPANY_CITY"),
			CompanyPhone:    v.GetString("COMPANY_PHONE"),
			CompanyEmail:    v.GetString("COMPANY_EMAIL"),
		},
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.HTTP.Host == "" {
		cfg.HTTP.Host = "0.0.0.0"
	}
	if cfg.HTTP.Port == 0 {
		cfg.HTTP.Port = 7310
	}
	if cfg.Stripe.Currency == "" {
		cfg.Stripe.Currency = "eur"
	}
	if cfg.Payment.StatusPollInterval <= 0 {
		cfg.Payment.StatusPollInterval = 3 * time.Second
	}
	if cfg.Payment.StatusPollAttempts <= 0 {
		cfg.Payment.StatusPollAttempts = 5
	}
	if cfg.Payment.PendingRedirectDelay <= 0 {
		cfg.Payment.PendingRedirectDelay = 10 * time.Second
	}
	if cfg.Contract.DepositAmount <= 0 {
		cfg.Contract.DepositAmount = 100
	}
	if cfg.Contract.FilingFeeAmount <= 0 {
		cfg.Contract.FilingFeeAmount = 25
	}
	if cfg.Contract.CompanyName == "" {
		cfg.Contract.CompanyName = "BoxUp Self-Stockage"
	}
}

func validate(cfg *Config) error {
	if cfg.DB.DSN == "" {
		return fmt.Errorf("DB_DSN is required")
	}
	if cfg.Auth.AccessSecret == "" {
		return fmt.Errorf("JWT_ACCESS_SECRET is required")
	}
	if cfg.Stripe.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}
	if cfg.Stripe.Currency != strings.ToLower(cfg.Stripe.Currency) {
		return fmt.Errorf("STRIPE_CURRENCY must be lowercase")
	}
	return nil
}
