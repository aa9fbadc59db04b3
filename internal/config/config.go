package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr         string
		ReadTimeout  time.Duration
		WriteTimeout time.Duration
	}
	Database struct {
		Path string
	}
	Auth struct {
		JWTSecret  string
		TokenTTL   time.Duration
		BcryptCost int
		Bootstrap  struct {
			Username string
			Password string
			Email    string
			Name     string
		}
	}
	Listings struct {
		DefaultPageSize int
		MaxPageSize     int
	}
	Log struct {
		Level  string
		Format string
	}
	Storage struct {
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
	Kafka struct {
		Brokers []string
		Topic   string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	// .env never overrides variables already set in the environment.
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("JOBBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Kafka.Brokers = splitList(cfg.Kafka.Brokers)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", "0.0.0.0:5000")
	v.SetDefault("server.readtimeout", 15*time.Second)
	v.SetDefault("server.writetimeout", 30*time.Second)
	v.SetDefault("database.path", "data/jobboard.db")
	v.SetDefault("auth.jwtsecret", "")
	v.SetDefault("auth.tokenttl", 24*time.Hour)
	v.SetDefault("auth.bcryptcost", 10)
	v.SetDefault("auth.bootstrap.username", "")
	v.SetDefault("auth.bootstrap.password", "")
	v.SetDefault("auth.bootstrap.email", "")
	v.SetDefault("auth.bootstrap.name", "Super Admin")
	v.SetDefault("listings.defaultpagesize", 10)
	v.SetDefault("listings.maxpagesize", 100)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("storage.bucket", "")
	v.SetDefault("storage.keyprefix", "jobboard-exports")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("aws.profile", "")
	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic", "listing-events")
}

// Validate reports configuration that the server cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return errors.New("auth jwt secret is required (JOBBOARD_AUTH_JWTSECRET)")
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth token ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if c.Listings.DefaultPageSize <= 0 || c.Listings.MaxPageSize < c.Listings.DefaultPageSize {
		return fmt.Errorf("invalid page sizes: default %d, max %d", c.Listings.DefaultPageSize, c.Listings.MaxPageSize)
	}
	if len(c.Kafka.Brokers) > 0 && strings.TrimSpace(c.Kafka.Topic) == "" {
		return errors.New("kafka topic is required when brokers are set")
	}
	return nil
}

// BootstrapEnabled reports whether a super admin should be seeded at startup.
func (c Config) BootstrapEnabled() bool {
	return c.Auth.Bootstrap.Username != "" && c.Auth.Bootstrap.Password != ""
}

// splitList accepts both list values and a single comma separated env value.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
