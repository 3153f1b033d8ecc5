package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Port              string
	LogLevel          string
	CatalogServiceURL string
	RequestTimeout    time.Duration
	OrderSeqStart     int64
	RabbitMQURL       string
	RabbitMQQueue     string
	ChannelPoolSize   int
	NumWorkers        int
	SeedDemoData      bool
}

// LoadConfig reads the process environment, after merging a .env file from
// the working directory when one exists. defaultPort differs per binary.
func LoadConfig(defaultPort string) *Config {
	_ = godotenv.Load()

	return &Config{
		Port:              getEnv("PORT", defaultPort),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		CatalogServiceURL: getEnv("CATALOG_SERVICE_URL", "http://localhost:8080/api/v1"),
		RequestTimeout:    getEnvAsDuration("REQUEST_TIMEOUT", 10*time.Second),
		OrderSeqStart:     int64(getEnvAsInt("ORDER_SEQ_START", 1)),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue:     getEnv("RABBITMQ_QUEUE", "pos_orders"),
		ChannelPoolSize:   getEnvAsInt("CHANNEL_POOL_SIZE", 10),
		NumWorkers:        getEnvAsInt("NUM_WORKERS", 5),
		SeedDemoData:      getEnvAsBool("SEED_DEMO_DATA", true),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil || value <= 0 {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	value, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}
