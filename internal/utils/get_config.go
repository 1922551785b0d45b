package utils

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application configuration
	AppPort      string `yaml:"APP_PORT"`
	AppURL       string `yaml:"APP_URL"`
	LogFile      string `yaml:"LOG_FILE"`
	CookieSecure string `yaml:"COOKIE_SECURE"`
	RateLimitMax string `yaml:"RATE_LIMIT_MAX"`
	CORSOrigins  string `yaml:"CORS_ALLOW_ORIGINS"`

	// Database configuration
	DBDriver   string `yaml:"DB_DRIVER"`
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`
	DBPath     string `yaml:"DB_PATH"`

	// JWT configuration
	JWTSecret        string `yaml:"JWT_SECRET"`
	JWTIssuer        string `yaml:"JWT_ISSUER"`
	JWTExpireMinutes string `yaml:"JWT_EXPIRE_MINUTES"`

	// Mailing configuration
	SMTPHost         string `yaml:"SMTP_HOST"`
	SMTPPort         string `yaml:"SMTP_PORT"`
	SMTPSenderName   string `yaml:"SMTP_SENDER_NAME"`
	SMTPAuthEmail    string `yaml:"SMTP_AUTH_EMAIL"`
	SMTPAuthPassword string `yaml:"SMTP_AUTH_PASSWORD"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`

	// Recipe recommendations
	GeminiAPIKey string `yaml:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"GEMINI_MODEL"`
}

var (
	config Config

	defaults = map[string]string{
		"APP_PORT":           "8080",
		"LOG_FILE":           "./logs/app.log",
		"COOKIE_SECURE":      "true",
		"RATE_LIMIT_MAX":     "10",
		"DB_DRIVER":          "postgres",
		"DB_PATH":            "food_inventory.db",
		"JWT_ISSUER":         "FOOD-INVENTORY",
		"JWT_EXPIRE_MINUTES": "120",
		"GEMINI_MODEL":       "gemini-2.0-flash",
	}
)

// LoadConfigFile reads .env (if any) and the YAML file at path (if any).
// Values from the process environment win over the YAML file.
func LoadConfigFile(path string) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Warnf("Error reading .env file: %s", err)
	}

	config = Config{}
	file, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warnf("Error reading YAML file: %s", err)
		}
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Warnf("Error parsing YAML file: %s", err)
	}
}

func fromFile(key string) string {
	switch key {
	case "APP_PORT":
		return config.AppPort
	case "APP_URL":
		return config.AppURL
	case "LOG_FILE":
		return config.LogFile
	case "COOKIE_SECURE":
		return config.CookieSecure
	case "RATE_LIMIT_MAX":
		return config.RateLimitMax
	case "CORS_ALLOW_ORIGINS":
		return config.CORSOrigins
	case "DB_DRIVER":
		return config.DBDriver
	case "DB_USER":
		return config.DBUser
	case "DB_NAME":
		return config.DBName
	case "DB_PASSWORD":
		return config.DBPassword
	case "DB_PORT":
		return config.DBPort
	case "DB_HOST":
		return config.DBHost
	case "DB_PATH":
		return config.DBPath
	case "JWT_SECRET":
		return config.JWTSecret
	case "JWT_ISSUER":
		return config.JWTIssuer
	case "JWT_EXPIRE_MINUTES":
		return config.JWTExpireMinutes
	case "SMTP_HOST":
		return config.SMTPHost
	case "SMTP_PORT":
		return config.SMTPPort
	case "SMTP_SENDER_NAME":
		return config.SMTPSenderName
	case "SMTP_AUTH_EMAIL":
		return config.SMTPAuthEmail
	case "SMTP_AUTH_PASSWORD":
		return config.SMTPAuthPassword
	case "AWS_S3_BUCKET":
		return config.AWSS3Bucket
	case "AWS_S3_REGION":
		return config.AWSS3Region
	case "AWS_ACCESS_KEY":
		return config.AWSAccessKey
	case "AWS_SECRET_KEY":
		return config.AWSSecretKey
	case "GEMINI_API_KEY":
		return config.GeminiAPIKey
	case "GEMINI_MODEL":
		return config.GeminiModel
	default:
		return ""
	}
}

func GetConfig(key string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	if value := fromFile(key); value != "" {
		return value
	}
	return defaults[key]
}

func GetConfigInt(key string) int {
	value, err := strconv.Atoi(GetConfig(key))
	if err != nil {
		fallback, _ := strconv.Atoi(defaults[key])
		return fallback
	}
	return value
}

func GetConfigBool(key string) bool {
	value, err := strconv.ParseBool(GetConfig(key))
	if err != nil {
		fallback, _ := strconv.ParseBool(defaults[key])
		return fallback
	}
	return value
}
