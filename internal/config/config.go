package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Auth struct {
		Enabled bool `yaml:"enabled"`
		// inspector id -> API key
		Keys map[string]string `yaml:"keys"`
	} `yaml:"auth"`

	RateLimit struct {
		Enabled    bool `yaml:"enabled"`
		Capacity   int  `yaml:"capacity"`
		RefillRate int  `yaml:"refillRate"`
	} `yaml:"rateLimit"`

	Capture struct {
		// seconds Capture waits for a frame from the device feed
		FrameTimeoutSeconds int `yaml:"frameTimeoutSeconds"`
	} `yaml:"capture"`

	Permissions struct {
		Camera     bool `yaml:"camera"`
		Microphone bool `yaml:"microphone"`
	} `yaml:"permissions"`

	// Archive driver: "" (disabled), "mysql" or "postgres"
	Archive struct {
		Driver string `yaml:"driver"`
	} `yaml:"archive"`

	Database struct {
		Host     string `yaml:"host"`
		Port     int    `yaml:"port"`
		User     string `yaml:"user"`
		Password string `yaml:"password"`
		Name     string `yaml:"name"`
		SSLMode  string `yaml:"sslMode"`
	} `yaml:"database"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	OpenAI struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"openai"`
}

// Load baca file config.yaml; omitted keys keep their defaults.
func Load(path string) (*Config, error) {
	var cfg Config
	cfg.Server.Port = 8080
	cfg.Capture.FrameTimeoutSeconds = 5
	cfg.Permissions.Camera = true
	cfg.Permissions.Microphone = true
	cfg.RateLimit.Capacity = 60
	cfg.RateLimit.RefillRate = 10
	cfg.Database.SSLMode = "disable"

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Helper untuk build DSN MySQL
func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true&charset=utf8mb4&loc=UTC",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
	)
}

// Helper untuk build DSN Postgres
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
