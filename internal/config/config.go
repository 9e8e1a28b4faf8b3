package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	SES        SESConfig        `yaml:"ses"`
	Bedrock    BedrockConfig    `yaml:"bedrock"`
	Registry   RegistryConfig   `yaml:"registry"`
	CRM        CRMConfig        `yaml:"crm"`
	LiveSearch LiveSearchConfig `yaml:"live_search"`
	Outreach   OutreachConfig   `yaml:"outreach"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with ECS detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("AWS_EXECUTION_ENV") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	URL          string `yaml:"url"`
	MaxOpenConns int    `yaml:"max_open_conns"`
	MaxIdleConns int    `yaml:"max_idle_conns"`
	Enabled      bool   `yaml:"enabled"`
}

// RedisConfig holds Redis settings for caching and send-path locks
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Enabled  bool   `yaml:"enabled"`
}

// SESConfig holds AWS SES sending configuration
type SESConfig struct {
	Region         string `yaml:"region"`
	AccessKey      string `yaml:"access_key"`
	SecretKey      string `yaml:"secret_key"`
	FromName       string `yaml:"from_name"`
	FromEmail      string `yaml:"from_email"`
	ReplyTo        string `yaml:"reply_to"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c SESConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// BedrockConfig holds AWS Bedrock generation settings. When disabled the
// template generator is used instead.
type BedrockConfig struct {
	Region  string `yaml:"region"`
	ModelID string `yaml:"model_id"`
	Enabled bool   `yaml:"enabled"`
}

// RegistryConfig holds the organization registry source. Type is one of
// "seed", "file", or "s3".
type RegistryConfig struct {
	Type     string `yaml:"type"`
	Path     string `yaml:"path"`
	S3Bucket string `yaml:"s3_bucket"`
	S3Key    string `yaml:"s3_key"`
	S3Region string `yaml:"s3_region"`
}

// CRMConfig holds the partner CRM API settings
type CRMConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// Timeout returns the configured timeout as a duration
func (c CRMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LiveSearchConfig holds the optional live organization search backend
type LiveSearchConfig struct {
	BaseURL        string `yaml:"base_url"`
	APIKey         string `yaml:"api_key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	Enabled        bool   `yaml:"enabled"`
}

// OutreachConfig holds workflow tuning knobs
type OutreachConfig struct {
	TopCandidates        int    `yaml:"top_candidates"`
	FollowUpDelayHours   int    `yaml:"follow_up_delay_hours"`
	ApprovalExpiryHours  int    `yaml:"approval_expiry_hours"`
	DistributedSendLocks bool   `yaml:"distributed_send_locks"`
	LexiconPath          string `yaml:"lexicon_path"`
}

// FollowUpDelay returns the configured follow-up delay as a duration
func (c OutreachConfig) FollowUpDelay() time.Duration {
	return time.Duration(c.FollowUpDelayHours) * time.Hour
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Database.MaxOpenConns == 0 {
		cfg.Database.MaxOpenConns = 25
	}
	if cfg.Database.MaxIdleConns == 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.SES.TimeoutSeconds == 0 {
		cfg.SES.TimeoutSeconds = 30
	}
	if cfg.SES.Region == "" {
		cfg.SES.Region = "us-east-1"
	}
	if cfg.Bedrock.Region == "" {
		cfg.Bedrock.Region = "us-east-1"
	}
	if cfg.Registry.Type == "" {
		cfg.Registry.Type = "seed"
	}
	if cfg.CRM.TimeoutSeconds == 0 {
		cfg.CRM.TimeoutSeconds = 30
	}
	if cfg.LiveSearch.TimeoutSeconds == 0 {
		cfg.LiveSearch.TimeoutSeconds = 15
	}
	if cfg.Outreach.TopCandidates == 0 {
		cfg.Outreach.TopCandidates = 12
	}
	if cfg.Outreach.FollowUpDelayHours == 0 {
		cfg.Outreach.FollowUpDelayHours = 72
	}
	if cfg.Outreach.ApprovalExpiryHours == 0 {
		cfg.Outreach.ApprovalExpiryHours = 168
	}

	return &cfg, nil
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars on ECS.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Database override (critical for ECS deployment where config.yaml has local defaults)
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.Database.URL = dbURL
		cfg.Database.Enabled = true
	}
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		cfg.Redis.Addr = addr
		cfg.Redis.Enabled = true
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if accessKey := os.Getenv("AWS_SES_ACCESS_KEY"); accessKey != "" {
		cfg.SES.AccessKey = accessKey
	}
	if secretKey := os.Getenv("AWS_SES_SECRET_KEY"); secretKey != "" {
		cfg.SES.SecretKey = secretKey
	}
	if region := os.Getenv("AWS_SES_REGION"); region != "" {
		cfg.SES.Region = region
	}
	if v := os.Getenv("SES_FROM_EMAIL"); v != "" {
		cfg.SES.FromEmail = v
	}
	if v := os.Getenv("BEDROCK_MODEL_ID"); v != "" {
		cfg.Bedrock.ModelID = v
	}
	if v := os.Getenv("CRM_BASE_URL"); v != "" {
		cfg.CRM.BaseURL = v
	}
	if v := os.Getenv("CRM_API_KEY"); v != "" {
		cfg.CRM.APIKey = v
	}
	if v := os.Getenv("LIVE_SEARCH_BASE_URL"); v != "" {
		cfg.LiveSearch.BaseURL = v
	}
	if v := os.Getenv("LIVE_SEARCH_API_KEY"); v != "" {
		cfg.LiveSearch.APIKey = v
	}
	if v := os.Getenv("REGISTRY_PATH"); v != "" {
		cfg.Registry.Type = "file"
		cfg.Registry.Path = v
	}
	if v := os.Getenv("LEXICON_PATH"); v != "" {
		cfg.Outreach.LexiconPath = v
	}

	return cfg, nil
}
