package config

import (
	"fmt"
	"os"
	"strconv"
)

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

type KafkaConfig struct {
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

type MemberDirectoryConfig struct {
	BaseURL        string
	TimeoutSeconds int
}

type AuthConfig struct {
	JWTSecret string
	Issuer    string
}

type Config struct {
	HTTPPort        int
	DB              DatabaseConfig
	Kafka           KafkaConfig
	Auth            AuthConfig
	MemberDirectory MemberDirectoryConfig
	ServiceName     string
}

func (c Config) Validate() {
	if c.DB.Password == "" {
		panic("DB_PASSWORD environment variable is required")
	}
	if c.Auth.JWTSecret == "" {
		panic("JWT_SECRET environment variable is required")
	}
}

func Load() Config {
	return Config{
		HTTPPort: getEnvInt("HTTP_PORT", 8080),
		DB: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "tanda"),
			Password: getEnv("DB_PASSWORD", ""),
			Name:     getEnv("DB_NAME", "tanda"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
		},
		Kafka: KafkaConfig{
			Brokers:       []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Topic:         getEnv("KAFKA_TOPIC", "tanda.events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "tanda-notifications"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnv("JWT_SECRET", ""),
			Issuer:    getEnv("JWT_ISSUER", "tanda"),
		},
		// An empty base URL keeps the development fallback that accepts
		// every member id.
		MemberDirectory: MemberDirectoryConfig{
			BaseURL:        getEnv("MEMBER_DIRECTORY_URL", ""),
			TimeoutSeconds: getEnvInt("MEMBER_DIRECTORY_TIMEOUT_SECONDS", 5),
		},
		ServiceName: "tanda-service",
	}
}

func (c Config) HTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}
