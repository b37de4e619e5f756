package config

import (
	"context"
	"database/sql"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
)

const (
	DefaultOrdersTopic = "order-events"

	// DashboardSnapshotKey holds the cached admin dashboard; order events drop it.
	DashboardSnapshotKey = "dashboard:snapshot"
)

func MustInitPostgres() *sql.DB {
	connStr := PostgresDSN()

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(GetEnvInt("DB_MAX_OPEN_CONNS", 25))
	db.SetMaxIdleConns(GetEnvInt("DB_MAX_IDLE_CONNS", 5))
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func PostgresDSN() string {
	return "host=" + GetEnv("DB_HOST", "localhost") +
		" port=" + GetEnv("DB_PORT", "5432") +
		" user=" + GetEnv("DB_USER", "postgres") +
		" password=" + os.Getenv("DB_PASSWORD") +
		" dbname=" + GetEnv("DB_NAME", "tablehouse") +
		" sslmode=" + GetEnv("DB_SSLMODE", "disable")
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: GetEnv("REDIS_HOST", "localhost") + ":" + GetEnv("REDIS_PORT", "6379"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func OrdersTopic() string {
	return GetEnv("KAFKA_ORDERS_TOPIC", DefaultOrdersTopic)
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{GetEnv("KAFKA_BROKER", "localhost:9092")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(GetEnv("KAFKA_BROKER", "localhost:9092")),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}
}

// MustLoadAWS uses static credentials when AWS_ACCESS_KEY_ID is set and the
// default provider chain otherwise.
func MustLoadAWS(ctx context.Context) aws.Config {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(GetEnv("AWS_REGION", "us-east-1")),
	}
	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(key, os.Getenv("AWS_SECRET_ACCESS_KEY"), ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		log.Fatal("Failed to load AWS config:", err)
	}
	return cfg
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func MustGetEnv(key string) string {
	value := os.Getenv(key)
	if value == "" {
		log.Fatalf("%s must be set", key)
	}
	return value
}

// GetEnvList splits a comma separated variable, dropping blanks.
func GetEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}

func GetEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

func GetEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		log.Printf("Invalid duration for %s=%q, using %s", key, value, defaultValue)
		return defaultValue
	}
	return parsed
}

// MustLocation resolves DASHBOARD_TZ style settings; an empty name means time.Local.
func MustLocation(name string) *time.Location {
	if name == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.Fatal("Failed to load time zone ", name, ": ", err)
	}
	return loc
}
