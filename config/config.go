package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	AppPort        string
	AllowedOrigins string

	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	SQLitePath     string
	DBMaxIdleConns int
	DBMaxOpenConns int

	NatsURL string

	AdminToken         string
	AdminAllowedIPs    string
	JWTExpirationHours int

	ReporterHashSalt     string
	ContentEncryptionKey string

	MaxContentBytes int
	MaxBodyBytes    int

	RateLimitCreate        int
	RateLimitUpdate        int
	RateLimitReport        int
	RateLimitWindowMinutes int
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	log.Printf("%s not set, defaulting to %s", key, defaultValue)
	return defaultValue
}

// getEnvSecret reads an optional secret without logging anything about it.
func getEnvSecret(key string) string {
	value, _ := os.LookupEnv(key)
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
		log.Printf("Invalid integer value for %s, defaulting to %d", key, defaultValue)
	}
	return defaultValue
}

func Load() Config {
	log.Println("Loading configuration...")

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env file")
	}

	return Config{
		AppEnv:         getEnv("APP_ENV", "development"),
		AppPort:        getEnv("APP_PORT", "8080"),
		AllowedOrigins: getEnv("ALLOWED_ORIGINS", "*"),

		DBDriver:       getEnv("DB_DRIVER", "postgres"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "notebin"),
		DBPassword:     getEnv("DB_PASSWORD", "notebin"),
		DBName:         getEnv("DB_NAME", "notebin"),
		SQLitePath:     getEnv("SQLITE_PATH", "notebin.db"),
		DBMaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 10),
		DBMaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 100),

		NatsURL: getEnv("NATS_URL", "nats://localhost:4222"),

		AdminToken:         getEnvSecret("ADMIN_TOKEN"),
		AdminAllowedIPs:    getEnv("ADMIN_ALLOWED_IPS", ""),
		JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),

		ReporterHashSalt:     getEnvSecret("REPORTER_HASH_SALT"),
		ContentEncryptionKey: getEnvSecret("CONTENT_ENCRYPTION_KEY"),

		MaxContentBytes: getEnvAsInt("MAX_CONTENT_BYTES", 20*1024),
		MaxBodyBytes:    getEnvAsInt("MAX_BODY_BYTES", 200*1024),

		RateLimitCreate:        getEnvAsInt("RATE_LIMIT_CREATE", 5),
		RateLimitUpdate:        getEnvAsInt("RATE_LIMIT_UPDATE", 10),
		RateLimitReport:        getEnvAsInt("RATE_LIMIT_REPORT", 5),
		RateLimitWindowMinutes: getEnvAsInt("RATE_LIMIT_WINDOW_MINUTES", 60),
	}
}
