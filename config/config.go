package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	JWTKey    string
	SaltRound int

	DBDriver   string // postgres, mysql or sqlite
	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBDSN      string // overrides the discrete DB_* values when set

	EmailProvider  string // smtp, sendgrid or console
	SMTPHost       string
	SMTPPort       string
	EmailSender    string
	Password       string // SMTP Password
	EmailFrom      string
	SendgridAPIKey string
	ContactInbox   string

	AdminEmail    string
	AdminPassword string

	CertificateServiceURL string

	OTPBackend     string // memory or redis
	RedisAddr      string
	OTPTTL         time.Duration
	VideoTokenTTL  time.Duration
	ReferralReward int

	RateLimitPerMin int
	CORSOrigins     string

	LogLevel string
	LogDev   bool
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = FromEnv()

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.AdminPassword == "" {
		log.Println("Warning: ADMIN_PASSWORD not set. Admin routes are not protected.")
	}
}

// FromEnv builds a Config from the current environment without touching
// .env files.
func FromEnv() *Config {
	return &Config{
		Port:      getEnv("PORT", "5000"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		DBDriver:   getEnv("DB_DRIVER", "mysql"),
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", ""),
		DBName:     getEnv("DB_NAME", "student_db"),
		DBPort:     getEnv("DB_PORT", ""),
		DBDSN:      getEnv("DB_DSN", ""),

		EmailProvider:  strings.ToLower(getEnv("EMAIL_PROVIDER", "smtp")),
		SMTPHost:       getEnv("SMTP_HOST", "smtp.gmail.com"),
		SMTPPort:       getEnv("SMTP_PORT", "587"),
		EmailSender:    getEnv("EMAIL_SENDER", ""),
		Password:       getEnv("PASSWORD", ""),
		EmailFrom:      getEnv("EMAIL_FROM", getEnv("EMAIL_SENDER", "no-reply@sankalp.com")),
		SendgridAPIKey: getEnv("SENDGRID_API_KEY", ""),
		ContactInbox:   getEnv("CONTACT_INBOX", "admin@sankalp.com"),

		AdminEmail:    getEnv("ADMIN_EMAIL", "admin@sankalp.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),

		CertificateServiceURL: getEnv("CERTIFICATE_SERVICE_URL", "http://localhost:5001"),

		OTPBackend:     strings.ToLower(getEnv("OTP_BACKEND", "memory")),
		RedisAddr:      getEnv("REDIS_ADDR", "localhost:6379"),
		OTPTTL:         getEnvDuration("OTP_TTL", 10*time.Minute),
		VideoTokenTTL:  getEnvDuration("VIDEO_TOKEN_TTL", time.Minute),
		ReferralReward: getEnvInt("REFERRAL_REWARD", 10),

		RateLimitPerMin: getEnvInt("RATE_LIMIT_PER_MIN", 20),
		CORSOrigins:     getEnv("CORS_ORIGINS", "*"),

		LogLevel: getEnv("LOG_LEVEL", ""),
		LogDev:   getEnvBool("LOG_DEV", false),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s: %v, using %s", key, err, defaultValue)
		return defaultValue
	}
	return d
}

func getEnvBool(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		log.Printf("Invalid bool for %s, using %v", key, defaultValue)
		return defaultValue
	}
	return b
}
