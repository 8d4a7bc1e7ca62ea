package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/greengenius/greengenius/internal/types"
	"gopkg.in/yaml.v3"
)

// Config holds the GreenGenius server configuration. Values come from an
// optional YAML file (CONFIG_FILE) overlaid by environment variables.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	PlantID  PlantIDConfig  `yaml:"plant_id"`
	Trefle   TrefleConfig   `yaml:"trefle"`
	Storage  StorageConfig  `yaml:"storage"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Sensors  SensorsConfig  `yaml:"sensors"`

	AllowedOrigins []string `yaml:"allowed_origins"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // postgres, mysql, sqlite
	DSN    string `yaml:"dsn"`
}

type AuthConfig struct {
	JWTSecret    string `yaml:"jwt_secret"`
	CookieDomain string `yaml:"cookie_domain"`
}

type PlantIDConfig struct {
	APIKey string `yaml:"api_key"`
	URL    string `yaml:"url"`
}

type TrefleConfig struct {
	Token   string `yaml:"token"`
	BaseURL string `yaml:"base_url"`
}

type StorageConfig struct {
	Bucket         string `yaml:"bucket"`
	Region         string `yaml:"region"`
	PublicAssetURL string `yaml:"public_asset_url"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

type SensorsConfig struct {
	// SourceURL, when set, is polled for readings instead of the simulator.
	SourceURL     string        `yaml:"source_url"`
	PollInterval  time.Duration `yaml:"poll_interval"`
	RecordHistory bool          `yaml:"record_history"`
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	return &Config{
		Port:     "8000",
		LogLevel: "info",
		Database: DatabaseConfig{Driver: "postgres"},
		PlantID:  PlantIDConfig{URL: "https://plant.id/api/v3/identification"},
		Trefle:   TrefleConfig{BaseURL: "https://trefle.io/api/v1"},
		Kafka:    KafkaConfig{Topic: "greengenius.sensor-events"},
		Sensors: SensorsConfig{
			PollInterval: 5 * time.Second,
		},
	}
}

// Load reads CONFIG_FILE (if set) and then applies environment overrides.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)

	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	return nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Port, "PORT")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Database.Driver, "DB_DRIVER")
	setString(&c.Database.DSN, "DATABASE_URL")
	setString(&c.Auth.JWTSecret, "JWT_SECRET")
	setString(&c.Auth.CookieDomain, "DOMAIN")
	setString(&c.PlantID.APIKey, "PLANT_ID_API_KEY")
	setString(&c.PlantID.URL, "PLANT_ID_API_URL")
	setString(&c.Trefle.Token, "TREFLE_API_TOKEN")
	setString(&c.Trefle.BaseURL, "TREFLE_API_URL")
	setString(&c.Storage.Bucket, "S3_BUCKET")
	setString(&c.Storage.PublicAssetURL, "PUBLIC_ASSET_URL")
	setString(&c.Kafka.Topic, "KAFKA_TOPIC")
	setString(&c.Sensors.SourceURL, "SENSOR_SOURCE_URL")

	if c.Storage.Region == "" {
		setString(&c.Storage.Region, "AWS_REGION")
	}
	setString(&c.Storage.Region, "S3_REGION")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		c.Kafka.Brokers = types.SplitList(brokers)
	}

	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		c.AllowedOrigins = append(c.AllowedOrigins, types.SplitList(origins)...)
	}

	// types reads CLIENT_URL at init, before .env is loaded.
	if clientURL := strings.TrimSpace(os.Getenv("CLIENT_URL")); clientURL != "" {
		c.AllowedOrigins = append(c.AllowedOrigins, clientURL)
	}

	if interval := os.Getenv("SENSOR_POLL_INTERVAL"); interval != "" {
		d, err := time.ParseDuration(interval)

		if err != nil {
			return fmt.Errorf("invalid SENSOR_POLL_INTERVAL %q: %w", interval, err)
		}

		c.Sensors.PollInterval = d
	}

	if record := os.Getenv("RECORD_SENSOR_HISTORY"); record != "" {
		v, err := strconv.ParseBool(record)

		if err != nil {
			return fmt.Errorf("invalid RECORD_SENSOR_HISTORY %q: %w", record, err)
		}

		c.Sensors.RecordHistory = v
	}

	return nil
}

// Validate reports configuration that prevents the server from starting.
func (c *Config) Validate() error {
	if c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET environment variable is not set")
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	if c.Sensors.PollInterval <= 0 {
		return fmt.Errorf("sensor poll interval must be positive")
	}

	return nil
}

func setString(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// MaskSecret shows the first and last four characters of a secret.
func MaskSecret(secret string) string {
	if secret == "" {
		return ""
	}

	if len(secret) <= 8 {
		return strings.Repeat("*", len(secret))
	}

	return secret[:4] + "..." + secret[len(secret)-4:]
}
