package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Database struct {
		Host     string
		Port     int
		User     string
		Password string
		Name     string
	}
	RabbitMQ struct {
		Host     string
		Port     int
		User     string
		Password string
		Exchange string
	}
	HTTP struct {
		Port int
	}
	JWT struct {
		Secret    string
		AccessTTL time.Duration
	}
	Routing struct {
		ProviderURL     string
		RequestTimeout  time.Duration
		RecomputeMeters float64
	}
	Tracking struct {
		RoomGracePeriod time.Duration
	}
}

func getEnv(key, def string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			return d
		}
	}
	return def
}

func LoadConfig() (*Config, error) {
	cfg := &Config{}

	cfg.Database.Host = getEnv("DB_HOST", "localhost")
	cfg.Database.Port = getEnvInt("DB_PORT", 5432)
	cfg.Database.User = getEnv("DB_USER", "store2door_user")
	cfg.Database.Password = getEnv("DB_PASSWORD", "store2door_pass")
	cfg.Database.Name = getEnv("DB_NAME", "store2door_db")

	cfg.RabbitMQ.Host = getEnv("RABBITMQ_HOST", "localhost")
	cfg.RabbitMQ.Port = getEnvInt("RABBITMQ_PORT", 5672)
	cfg.RabbitMQ.User = getEnv("RABBITMQ_USER", "guest")
	cfg.RabbitMQ.Password = getEnv("RABBITMQ_PASSWORD", "guest")
	cfg.RabbitMQ.Exchange = getEnv("RABBITMQ_EXCHANGE", "store2door.orders")

	cfg.HTTP.Port = getEnvInt("HTTP_PORT", 8080)

	cfg.JWT.Secret = getEnv("JWT_SECRET", "super-secret-key")
	cfg.JWT.AccessTTL = getEnvDuration("JWT_ACCESS_TTL", time.Hour)

	cfg.Routing.ProviderURL = getEnv("ROUTE_PROVIDER_URL", "https://router.project-osrm.org")
	cfg.Routing.RequestTimeout = getEnvDuration("ROUTE_REQUEST_TIMEOUT", 5*time.Second)
	cfg.Routing.RecomputeMeters = getEnvFloat("ROUTE_RECOMPUTE_METERS", 30)

	cfg.Tracking.RoomGracePeriod = getEnvDuration("ROOM_GRACE_PERIOD", 2*time.Second)

	return cfg, nil
}

func (c *Config) Print() {
	fmt.Printf("📦 Database: %s@%s:%d/%s\n", c.Database.User, c.Database.Host, c.Database.Port, c.Database.Name)
	fmt.Printf("🐇 RabbitMQ: amqp://%s@%s:%d exchange=%s\n", c.RabbitMQ.User, c.RabbitMQ.Host, c.RabbitMQ.Port, c.RabbitMQ.Exchange)
	fmt.Printf("🌐 HTTP Port: %d\n", c.HTTP.Port)
	fmt.Printf("🗺️ Route provider: %s\n", c.Routing.ProviderURL)
}
