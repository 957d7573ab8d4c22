package utils

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

type Config struct {
	// Application
	AppPort          string `yaml:"APP_PORT"`
	AppTimezone      string `yaml:"APP_TIMEZONE"`
	CORSAllowOrigins string `yaml:"CORS_ALLOW_ORIGINS"`

	// Database configuration
	DBUser     string `yaml:"DB_USER"`
	DBName     string `yaml:"DB_NAME"`
	DBPassword string `yaml:"DB_PASSWORD"`
	DBPort     string `yaml:"DB_PORT"`
	DBHost     string `yaml:"DB_HOST"`

	// JWT
	JWTSecret string `yaml:"JWT_SECRET"`

	// Macro estimation: "nutritionix" or "gemini"
	MacroEstimator string `yaml:"MACRO_ESTIMATOR"`

	// Nutritionix configuration
	NutritionixAppID  string `yaml:"NUTRITIONIX_APP_ID"`
	NutritionixAppKey string `yaml:"NUTRITIONIX_APP_KEY"`
	NutritionixURL    string `yaml:"NUTRITIONIX_URL"`

	// Gemini API configuration
	GeminiAPIKey string `yaml:"GEMINI_API_KEY"`
	GeminiModel  string `yaml:"GEMINI_MODEL"`
	GeminiURL    string `yaml:"GEMINI_URL"`

	// AWS S3 configuration
	AWSS3Bucket  string `yaml:"AWS_S3_BUCKET"`
	AWSS3Region  string `yaml:"AWS_S3_REGION"`
	AWSAccessKey string `yaml:"AWS_ACCESS_KEY"`
	AWSSecretKey string `yaml:"AWS_SECRET_KEY"`
}

var config Config

// LoadConfig reads config.yaml, then lets a .env file and the process
// environment override any key that is set there.
func LoadConfig() {
	LoadConfigFrom("config.yaml", ".env")
}

func LoadConfigFrom(yamlPath, envPath string) {
	config = Config{}

	file, err := os.ReadFile(yamlPath)
	if err != nil {
		log.Printf("Error reading YAML file: %s\n", err)
	} else if err := yaml.Unmarshal(file, &config); err != nil {
		log.Printf("Error parsing YAML file: %s\n", err)
	}

	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading env file: %s\n", err)
		}
	}

	for key, field := range config.fields() {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*field = v
		}
	}
}

func (c *Config) fields() map[string]*string {
	return map[string]*string{
		"APP_PORT":            &c.AppPort,
		"APP_TIMEZONE":        &c.AppTimezone,
		"CORS_ALLOW_ORIGINS":  &c.CORSAllowOrigins,
		"DB_USER":             &c.DBUser,
		"DB_NAME":             &c.DBName,
		"DB_PASSWORD":         &c.DBPassword,
		"DB_PORT":             &c.DBPort,
		"DB_HOST":             &c.DBHost,
		"JWT_SECRET":          &c.JWTSecret,
		"MACRO_ESTIMATOR":     &c.MacroEstimator,
		"NUTRITIONIX_APP_ID":  &c.NutritionixAppID,
		"NUTRITIONIX_APP_KEY": &c.NutritionixAppKey,
		"NUTRITIONIX_URL":     &c.NutritionixURL,
		"GEMINI_API_KEY":      &c.GeminiAPIKey,
		"GEMINI_MODEL":        &c.GeminiModel,
		"GEMINI_URL":          &c.GeminiURL,
		"AWS_S3_BUCKET":       &c.AWSS3Bucket,
		"AWS_S3_REGION":       &c.AWSS3Region,
		"AWS_ACCESS_KEY":      &c.AWSAccessKey,
		"AWS_SECRET_KEY":      &c.AWSSecretKey,
	}
}

func GetConfig(key string) string {
	if field, ok := config.fields()[key]; ok {
		return *field
	}
	return ""
}

// GetConfigOr returns fallback when key is unset.
func GetConfigOr(key, fallback string) string {
	if v := GetConfig(key); v != "" {
		return v
	}
	return fallback
}
