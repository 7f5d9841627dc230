package config // package config loads application configuration from environment variables

import (
	"log"     // log is used to report configuration errors and halt execution
	"os"      // os provides access to environment variables
	"strconv" // strconv converts strings to other types

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration values.  Each field corresponds to
// an environment variable.  Only DATABASE_URL is mandatory; everything else
// falls back to a development default.
type Config struct {
	Env          string // application environment (e.g. "dev", "prod")
	LogLevel     string // optional zap level override
	Port         string // HTTP port to listen on
	DatabaseURL  string // connection string selecting the storage backend
	AutoMigrate  bool   // apply the bootstrap schema on startup
	JWTSecret    string // secret used to sign access tokens
	AccessTTLMin int    // access token time-to-live in minutes
	BcryptCost   int    // bcrypt cost for password hashing
}

// Load reads configuration values from the environment and returns a Config.
// A .env file in the working directory is loaded first when present; real
// environment variables win over it.  A missing DATABASE_URL is fatal.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Env:          envStr("APP_ENV", "dev"),
		LogLevel:     envStr("LOG_LEVEL", ""),
		Port:         envStr("APP_PORT", "5000"),
		DatabaseURL:  must("DATABASE_URL"),
		AutoMigrate:  envBool("DB_AUTO_MIGRATE", false),
		JWTSecret:    envStr("JWT_SECRET", "dev-secret-change-me"),
		AccessTTLMin: mustInt("ACCESS_TOKEN_TTL_MIN", 60),
		BcryptCost:   mustInt("BCRYPT_COST", 10),
	}
}

// must retrieves the value of a required environment variable.  If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

// mustInt reads an optional integer variable.  An unset variable yields def,
// but a value that does not parse is fatal.
func mustInt(key string, def int) int {
	s, ok := os.LookupEnv(key)
	if !ok || s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, s)
	}
	return n
}

// LoadLogging returns APP_ENV and LOG_LEVEL for processes that do not need
// the full Config, such as the event consumer.
func LoadLogging() (env, level string) {
	_ = godotenv.Load()
	return envStr("APP_ENV", "dev"), envStr("LOG_LEVEL", "")
}
