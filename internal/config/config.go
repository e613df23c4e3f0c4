package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable.
type Config struct {
	Env      string // application environment (e.g. "dev", "prod")
	Port     string // HTTP port to listen on
	DBDriver string // "mysql" (default) or "postgres"
	DBUser   string // database username
	DBPass   string // database password (optional)
	DBHost   string // database host address
	DBPort   string // database port number
	DBName   string // database name

	AllocSeed      *uint64       // fixed seed for the random strategies; nil means random
	LeaseTTL       time.Duration // lifetime of the cross-process allocation lease
	ForbiddenPairs [][2]string   // first-year department pairs that may not sit side by side
	AMQPURL        string        // RabbitMQ URL; empty disables event publishing
}

// LoadEnv reads a .env file into the process environment when one is
// present. Variables already set win over the file.
func LoadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("config: .env not loaded: %v", err)
	}
}

// Load reads configuration values from environment variables and returns a
// Config. Required variables are enforced by must() and missing values
// cause the program to exit with a fatal log message.
func Load() Config {
	LoadEnv()
	cfg := Config{
		Env:      must("APP_ENV"),                               // environment (dev/test/prod)
		Port:     must("APP_PORT"),                              // port to bind the HTTP server
		DBDriver: strings.ToLower(getenv("DB_DRIVER", "mysql")), // database/sql driver name
		DBUser:   must("DB_USER"),                               // database user
		DBPass:   os.Getenv("DB_PASS"),                          // database password (empty allowed)
		DBHost:   must("DB_HOST"),                               // database host
		DBPort:   must("DB_PORT"),                               // database port
		DBName:   must("DB_NAME"),                               // database name

		LeaseTTL: envDur("ALLOC_LEASE_TTL", 5*time.Minute),
		AMQPURL:  getenv("RABBITMQ_URL", os.Getenv("AMQP_URL")),
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "postgres" {
		log.Fatalf("invalid DB_DRIVER: %q", cfg.DBDriver)
	}
	if s := os.Getenv("ALLOC_SEED"); s != "" {
		seed, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			log.Fatalf("invalid uint for ALLOC_SEED: %q", s)
		}
		cfg.AllocSeed = &seed
	}
	if s := os.Getenv("ALLOC_FORBIDDEN_PAIRS"); s != "" {
		pairs, ok := ParsePairs(s)
		if !ok {
			log.Fatalf("invalid ALLOC_FORBIDDEN_PAIRS: %q", s)
		}
		cfg.ForbiddenPairs = pairs
	}
	return cfg
}

// ParsePairs parses "CSE:AIML,ECE:EEE" into department pairs. Names are
// upper-cased. ok is false when an entry is not of the form A:B.
func ParsePairs(s string) (pairs [][2]string, ok bool) {
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		a, b, found := strings.Cut(item, ":")
		a = strings.ToUpper(strings.TrimSpace(a))
		b = strings.ToUpper(strings.TrimSpace(b))
		if !found || a == "" || b == "" {
			return nil, false
		}
		pairs = append(pairs, [2]string{a, b})
	}
	return pairs, true
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
