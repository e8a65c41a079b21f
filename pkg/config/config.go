package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App         AppConfig
	Server      ServerConfig
	Database    DatabaseConfig
	JWT         JWTConfig
	Mailjet     MailjetConfig
	Paystack    PaystackConfig
	Redis       RedisConfig
	Calculation CalculationConfig
}

type MailjetConfig struct {
	MailjetBaseUrl           string
	MailjetBasicAuthUsername string
	MailjetBasicAuthPassword string
	MailjetSenderEmail       string
	MailjetSenderName        string
}

type AppConfig struct {
	Name                    string
	Version                 string
	Environment             string
	AppDeploymentUrl        string
	AppEmailVerificationKey string
	AllowOrigins            string
}

type ServerConfig struct {
	Port string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

type JWTConfig struct {
	SecretKey string
}

type PaystackConfig struct {
	PaystackSecretKey string
	PaystackBaseUrl   string
	CallbackUrl       string
	Currency          string
	// access fee, in the smallest currency unit
	AccessFee int64
}

type RedisConfig struct {
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

type CalculationConfig struct {
	MinSubjects         int
	RecommendationLimit int
	ClustersFile        string
	CatalogCacheTTL     time.Duration
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return nil, errors.New("invalid redis database")
	}

	accessFee, err := strconv.ParseInt(getEnv("PAYSTACK_ACCESS_FEE", "20000"), 10, 64)
	if err != nil {
		return nil, errors.New("invalid paystack access fee")
	}

	minSubjects, err := getEnvInt("MIN_SUBJECTS", 7)
	if err != nil {
		return nil, errors.New("invalid minimum subjects")
	}

	recoLimit, err := getEnvInt("RECOMMENDATION_LIMIT", 10)
	if err != nil {
		return nil, errors.New("invalid recommendation limit")
	}

	cacheTTL, err := time.ParseDuration(getEnv("CATALOG_CACHE_TTL", "10m"))
	if err != nil {
		return nil, fmt.Errorf("invalid catalog cache ttl: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                    getEnv("APP_NAME", "Course Compass API"),
			Version:                 getEnv("APP_VERSION", "1.0.0"),
			Environment:             getEnv("APP_ENV", "development"),
			AppDeploymentUrl:        getEnv("APP_DEPLOYMENT_URL", "http://localhost:8080"),
			AppEmailVerificationKey: getEnv("APP_EMAIL_VERIFICATION_KEY", ""),
			AllowOrigins:            getEnv("ALLOW_ORIGINS", "http://localhost:3000,http://localhost:8080"),
		},
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "course_compass"),
			SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET", ""),
		},
		Mailjet: MailjetConfig{
			MailjetBaseUrl:           getEnv("MAILJET_BASE_URL", "https://api.mailjet.com"),
			MailjetBasicAuthUsername: getEnv("MAILJET_BASIC_AUTH_USERNAME", ""),
			MailjetBasicAuthPassword: getEnv("MAILJET_BASIC_AUTH_PASSWORD", ""),
			MailjetSenderEmail:       getEnv("MAILJET_SENDER_EMAIL", ""),
			MailjetSenderName:        getEnv("MAILJET_SENDER_NAME", ""),
		},
		Paystack: PaystackConfig{
			PaystackSecretKey: getEnv("PAYSTACK_SECRET_KEY", ""),
			PaystackBaseUrl:   getEnv("PAYSTACK_BASE_URL", "https://api.paystack.co"),
			CallbackUrl:       getEnv("PAYSTACK_CALLBACK_URL", ""),
			Currency:          getEnv("PAYSTACK_CURRENCY", "KES"),
			AccessFee:         accessFee,
		},
		Redis: RedisConfig{
			RedisHost:     getEnv("REDIS_HOST", "localhost"),
			RedisPort:     getEnv("REDIS_PORT", "6379"),
			RedisPassword: getEnv("REDIS_PASSWORD", ""),
			RedisDB:       redisDB,
		},
		Calculation: CalculationConfig{
			MinSubjects:         minSubjects,
			RecommendationLimit: recoLimit,
			ClustersFile:        getEnv("CLUSTERS_FILE", ""),
			CatalogCacheTTL:     cacheTTL,
		},
	}

	if cfg.JWT.SecretKey == "" {
		return nil, errors.New("missing jwt secret")
	}

	if cfg.App.AppEmailVerificationKey == "" {
		return nil, errors.New("missing app email verification key")
	}

	if cfg.Database.Password == "" {
		return nil, errors.New("missing database password")
	}

	if cfg.Calculation.MinSubjects <= 0 {
		return nil, errors.New("minimum subjects must be positive")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}

	return strconv.Atoi(val)
}
