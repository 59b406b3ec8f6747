package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Simulator SimulatorConfig
	Feed      FeedConfig
	HTTP      HTTPConfig
	Kafka     KafkaConfig
	Redis     RedisConfig
	Alerting  AlertingConfig
	Log       LogConfig
}

type SimulatorConfig struct {
	Seed           uint32
	RegionsPath    string
	BoundariesPath string
	TickMin        time.Duration
	TickMax        time.Duration
}

type FeedConfig struct {
	Port              int
	MaxSubscribers    int
	SubscribeTimeout  time.Duration
	InactivityTimeout time.Duration
}

type HTTPConfig struct {
	Port int
}

type KafkaConfig struct {
	Brokers       []string
	TopicReadings string
	TopicAlerts   string
	NumPartitions int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AlertingConfig struct {
	ConsumerGroup string
	StateTTL      time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not present)
	_ = godotenv.Load()

	config := &Config{
		Simulator: SimulatorConfig{
			Seed:           uint32(getEnvAsInt("SIM_SEED", 20260226)),
			RegionsPath:    getEnv("SIM_REGIONS_PATH", ""),
			BoundariesPath: getEnv("SIM_BOUNDARIES_PATH", ""),
			TickMin:        getEnvAsDuration("SIM_TICK_MIN", 5*time.Second),
			TickMax:        getEnvAsDuration("SIM_TICK_MAX", 10*time.Second),
		},
		Feed: FeedConfig{
			Port:              getEnvAsInt("FEED_PORT", 8080),
			MaxSubscribers:    getEnvAsInt("FEED_MAX_SUBSCRIBERS", 1000),
			SubscribeTimeout:  getEnvAsDuration("FEED_SUBSCRIBE_TIMEOUT", 10*time.Second),
			InactivityTimeout: getEnvAsDuration("FEED_INACTIVITY_TIMEOUT", 2*time.Minute),
		},
		HTTP: HTTPConfig{
			Port: getEnvAsInt("HTTP_PORT", 8081),
		},
		Kafka: KafkaConfig{
			Brokers:       strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			TopicReadings: getEnv("KAFKA_TOPIC_READINGS", "airiq.readings.mock"),
			TopicAlerts:   getEnv("KAFKA_TOPIC_ALERTS", "airiq.alerts"),
			NumPartitions: getEnvAsInt("KAFKA_NUM_PARTITIONS", 10),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Alerting: AlertingConfig{
			ConsumerGroup: getEnv("ALERTING_CONSUMER_GROUP", "airiq-alerting"),
			StateTTL:      getEnvAsDuration("ALERTING_STATE_TTL", 24*time.Hour),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
