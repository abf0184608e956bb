package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort int
	LogLevel   string

	DatabaseURL string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	JWTSecret     []byte
	RefreshSecret []byte

	KafkaBrokers []string

	CarrierURL    string
	CarrierAPIKey string

	PaymentKeyID string

	Pricing PricingConfig
}

// PricingConfig is the single canonical tax/shipping policy. All amounts are
// in paise, rates in basis points.
type PricingConfig struct {
	SGSTBps         int64
	CGSTBps         int64
	FreeShippingMin int64
	ShippingFlatFee int64
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   EnvDefault("LOG_LEVEL", "info"),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		JWTSecret:     []byte(os.Getenv("JWT_SECRET")),
		RefreshSecret: []byte(os.Getenv("REFRESH_SECRET")),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),

		CarrierURL:    os.Getenv("CARRIER_URL"),
		CarrierAPIKey: os.Getenv("CARRIER_API_KEY"),

		PaymentKeyID: os.Getenv("PAYMENT_KEY_ID"),

		Pricing: PricingConfig{
			SGSTBps:         EnvInt64Default("PRICING_SGST_BPS", 500),
			CGSTBps:         EnvInt64Default("PRICING_CGST_BPS", 500),
			FreeShippingMin: EnvInt64Default("PRICING_FREE_SHIPPING_MIN", 50000),
			ShippingFlatFee: EnvInt64Default("PRICING_SHIPPING_FLAT_FEE", 10000),
		},
	}

	return cfg, nil
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvInt64Default(key string, def int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
