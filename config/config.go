package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"price-dashboard/pricing"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	HTTPAddr string
	BaseURL  string
	LogMode  string

	Locations          []string
	Periods            int
	DataSeed           int64
	PricingRule        string
	PricingRulesFile   string
	RegenerateOnChange bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisTTL      time.Duration
	RedisKey      string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	MaxConcurrency int
	RateLimitMs    int
	MaxRetries     int

	CSVOutputPath string
	SnapshotDir   string
	ChromeBin     string
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}
	return FromEnv()
}

// FromEnv builds a Config from the current environment without touching .env.
func FromEnv() *Config {
	addr := getEnv("HTTP_ADDR", ":8501")
	return &Config{
		HTTPAddr: addr,
		BaseURL:  getEnv("BASE_URL", "http://localhost"+addrPort(addr)),
		LogMode:  getEnv("LOG_MODE", "dev"),

		Locations:          getEnvList("LOCATIONS", []string{"Manila", "Quezon City"}),
		Periods:            getEnvInt("PERIODS", 10),
		DataSeed:           int64(getEnvInt("DATA_SEED", 0)),
		PricingRule:        getEnv("PRICING_RULE", pricing.Default),
		PricingRulesFile:   getEnv("PRICING_RULES_FILE", ""),
		RegenerateOnChange: getEnvBool("REGENERATE_ON_CHANGE", true),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		RedisTTL:      time.Duration(getEnvInt("REDIS_TTL_SECONDS", 3600)) * time.Second,
		RedisKey:      getEnv("REDIS_KEY", "price-dashboard:observations"),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "dashboard"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", "dashboard123"),
		PostgresDB:       getEnv("POSTGRES_DB", "pricing_db"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 2),
		RateLimitMs:    getEnvInt("RATE_LIMIT_MS", 500),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),

		CSVOutputPath: getEnv("CSV_OUTPUT_PATH", "./output/prescribed_prices.csv"),
		SnapshotDir:   getEnv("SNAPSHOT_DIR", "./output/snapshots"),
		ChromeBin:     getEnv("CHROME_BIN", ""),
	}
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// LoadRules returns the preset registry merged with rules from
// PricingRulesFile, if one is configured.
func (c *Config) LoadRules() (*pricing.Registry, error) {
	reg := pricing.DefaultRegistry()
	if c.PricingRulesFile == "" {
		return reg, nil
	}
	rules, err := pricing.LoadFile(c.PricingRulesFile)
	if err != nil {
		return nil, err
	}
	if err := reg.Merge(rules); err != nil {
		return nil, err
	}
	return reg, nil
}

func addrPort(addr string) string {
	if i := strings.LastIndex(addr, ":"); i >= 0 {
		return addr[i:]
	}
	return ""
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		b, err := strconv.ParseBool(val)
		if err == nil {
			return b
		}
	}
	return fallback
}

// getEnvList splits a comma separated value, dropping blanks and repeats.
func getEnvList(key string, fallback []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	seen := make(map[string]struct{})
	var out []string
	for _, part := range strings.Split(val, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if _, dup := seen[part]; dup {
			continue
		}
		seen[part] = struct{}{}
		out = append(out, part)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
