package config

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Config is the full configuration of the backend.
type Config struct {
	Database DBConfig
	RabbitMQ MQConfig
	Push     PushConfig
	Service  ServiceConfig
	JWT      JWTConfig
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type MQConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	VHost    string
}

// PushConfig configures the FCM fallback channel. Empty CredentialsFile
// disables push delivery entirely (the dispatcher degrades to live-only).
type PushConfig struct {
	CredentialsFile string
	ProjectID       string
}

type ServiceConfig struct {
	Port int
}

type JWTConfig struct {
	Secret        string
	ExpiryMinutes int
}

// Load reads CONFIG_DIR (default ./config), with ENV overriding file values.
func Load() Config {
	configDir := getEnv("CONFIG_DIR", "./config")
	cfg := Config{}

	dbKV := parseYAMLOrNil(filepath.Join(configDir, "db.yaml"))
	cfg.Database.Host = pick("DB_HOST", dbKV, "host", "localhost")
	cfg.Database.Port = pickInt("DB_PORT", dbKV, "port", 5432)
	cfg.Database.User = pick("DB_USER", dbKV, "user", "mechpro_user")
	cfg.Database.Password = pick("DB_PASSWORD", dbKV, "password", "mechpro_pass")
	cfg.Database.Database = pick("DB_NAME", dbKV, "database", "mechpro_db")
	cfg.Database.SSLMode = pick("DB_SSLMODE", dbKV, "sslmode", "disable")

	mqKV := parseYAMLOrNil(filepath.Join(configDir, "mq.yaml"))
	cfg.RabbitMQ.Host = pick("RABBITMQ_HOST", mqKV, "host", "localhost")
	cfg.RabbitMQ.Port = pickInt("RABBITMQ_PORT", mqKV, "port", 5672)
	cfg.RabbitMQ.User = pick("RABBITMQ_USER", mqKV, "user", "guest")
	cfg.RabbitMQ.Password = pick("RABBITMQ_PASSWORD", mqKV, "password", "guest")
	cfg.RabbitMQ.VHost = pick("RABBITMQ_VHOST", mqKV, "vhost", "/")

	pushKV := parseYAMLOrNil(filepath.Join(configDir, "push.yaml"))
	cfg.Push.CredentialsFile = pick("FCM_CREDENTIALS_FILE", pushKV, "credentials_file", "")
	cfg.Push.ProjectID = pick("FCM_PROJECT_ID", pushKV, "project_id", "")

	svcKV := parseYAMLOrNil(filepath.Join(configDir, "service.yaml"))
	cfg.Service.Port = pickInt("BOOKING_SERVICE_PORT", svcKV, "booking_service", 3000)

	jwtKV := parseYAMLOrNil(filepath.Join(configDir, "jwt.yaml"))
	cfg.JWT.Secret = pick("JWT_SECRET", jwtKV, "secret", "dev_secret")
	cfg.JWT.ExpiryMinutes = pickInt("JWT_EXPIRY_MINUTES", jwtKV, "expiry_minutes", 60)

	return cfg
}

// parseYAMLOrNil parses a flat "key: value" YAML file. Missing or malformed
// files yield nil; callers fall back to env/defaults.
func parseYAMLOrNil(path string) map[string]string {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil
	}
	defer f.Close()

	kv := map[string]string{}
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), `"'`)
		if key != "" {
			kv[key] = val
		}
	}
	return kv
}

func getEnv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

// pick resolves a value: ENV wins, then the YAML key, then the default.
func pick(envKey string, kv map[string]string, key, def string) string {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		return v
	}
	if v, ok := kv[key]; ok && v != "" {
		return v
	}
	return def
}

func pickInt(envKey string, kv map[string]string, key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(envKey)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	if v, ok := kv[key]; ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// DSN returns the Postgres connection string.
func (c DBConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// AMQPURL returns the RabbitMQ connection URL.
func (c MQConfig) AMQPURL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}
