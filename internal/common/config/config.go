package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/AlibekovAA/user-registry/internal/common/constants"
)

var (
	ErrMissingRequiredEnv = errors.New("missing required environment variable")
	ErrInvalidJWTSecret   = errors.New("USERS_JWT_SECRET must be at least 32 bytes")
	ErrInvalidMinAge      = errors.New("USER_REGISTRATION_MIN_AGE must be a non-negative integer")
)

type UsersConfig struct {
	HTTPPort                string
	DatabaseURL             string
	MinRegistrationAge      int
	RequestTimeout          time.Duration
	JWTSecret               string
	RateLimitRPS            float64
	RateLimitBurst          int
	CircuitBreakerThreshold int32
	CircuitBreakerTimeout   time.Duration
	CircuitBreakerReset     time.Duration
	LogDir                  string
	LogLevel                string
}

// LoadDotEnv reads a .env file into the process environment when one is
// present. Variables already set are not overridden.
func LoadDotEnv(paths ...string) {
	_ = godotenv.Load(paths...)
}

// LoadUsersConfig reads the service configuration. DATABASE_URL is only
// required when requireDatabase is set, so the in-memory store can run without it.
func LoadUsersConfig(requireDatabase bool) (UsersConfig, error) {
	databaseURL := getEnv("DATABASE_URL", "")
	if requireDatabase {
		var err error
		databaseURL, err = mustEnv("DATABASE_URL")
		if err != nil {
			return UsersConfig{}, err
		}
	}

	minAge, err := getMinAge()
	if err != nil {
		return UsersConfig{}, err
	}

	jwtSecret := getEnv("USERS_JWT_SECRET", "")
	if jwtSecret != "" {
		if err := validateJWTSecret(jwtSecret); err != nil {
			return UsersConfig{}, err
		}
	}

	return UsersConfig{
		HTTPPort:                getEnv("USERS_HTTP_PORT", constants.DefaultUsersHTTPPort),
		DatabaseURL:             databaseURL,
		MinRegistrationAge:      minAge,
		RequestTimeout:          getDurationEnv("USERS_REQUEST_TIMEOUT", constants.DefaultUsersRequestTimeout),
		JWTSecret:               jwtSecret,
		RateLimitRPS:            getFloatEnv("USERS_RATE_LIMIT_RPS", constants.DefaultRateLimitRequestsPerSecond),
		RateLimitBurst:          getIntEnv("USERS_RATE_LIMIT_BURST", constants.DefaultRateLimitBurst),
		CircuitBreakerThreshold: int32(getIntEnv("USERS_DB_CB_THRESHOLD", constants.DefaultCircuitBreakerThreshold)),
		CircuitBreakerTimeout:   getDurationEnv("USERS_DB_CB_TIMEOUT", constants.DefaultCircuitBreakerTimeout),
		CircuitBreakerReset:     getDurationEnv("USERS_DB_CB_RESET", constants.DefaultCircuitBreakerReset),
		LogDir:                  getEnv("LOG_DIR", ""),
		LogLevel:                getEnv("LOG_LEVEL", "INFO"),
	}, nil
}

func getMinAge() (int, error) {
	v, ok := os.LookupEnv("USER_REGISTRATION_MIN_AGE")
	if !ok || v == "" {
		return constants.DefaultMinRegistrationAge, nil
	}
	age, err := strconv.Atoi(v)
	if err != nil || age < 0 {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidMinAge, v)
	}
	return age, nil
}

func validateJWTSecret(secret string) error {
	if len(secret) < constants.JWTSecretMinLength {
		return fmt.Errorf("%w: got %d bytes", ErrInvalidJWTSecret, len(secret))
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func mustEnv(key string) (string, error) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return "", fmt.Errorf("%w: %s", ErrMissingRequiredEnv, key)
	}
	return v, nil
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}

func getIntEnv(key string, fallback int) int {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return i
}

func getFloatEnv(key string, fallback float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
