package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"
)

// configFile is read from the working directory.
const configFile = ".config.json"

type Config struct {
	Port          int             `json:"port"`
	Env           string          `json:"env"`
	Pepper        string          `json:"pepper"`
	JWTSecret     string          `json:"jwt_secret"`
	TokenTTLHours int             `json:"token_ttl_hours"`
	Database      PostgresConfig  `json:"database"`
	ImageHost     ImageHostConfig `json:"image_host"`
}

// IsProd reports whether the app runs in production.
func (c Config) IsProd() bool {
	return c.Env == "prod"
}

// TokenTTL returns how long issued tokens stay valid.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

type PostgresConfig struct {
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Name     string `json:"name"`
	// URL takes precedence over the separate fields when set.
	URL string `json:"url"`
}

func (pc PostgresConfig) Dialect() string {
	return "postgres"
}

func (pc PostgresConfig) ConnectionInfo() string {
	if pc.URL != "" {
		return pc.URL
	}
	if pc.Password == "" {
		return fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Name)
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable", pc.Host, pc.Port, pc.User, pc.Password, pc.Name)
}

// ImageHostConfig configures where uploaded images go. Without an endpoint,
// images are written to Dir and served by the app itself.
type ImageHostConfig struct {
	Endpoint  string `json:"endpoint"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Bucket    string `json:"bucket"`
	UseSSL    bool   `json:"use_ssl"`
	PublicURL string `json:"public_url"`
	Dir       string `json:"dir"`
}

// UsesS3 reports whether images go to an S3-compatible object store.
func (ic ImageHostConfig) UsesS3() bool {
	return ic.Endpoint != ""
}

func DefaultConfig() Config {
	return Config{
		Port:          3000,
		Env:           "dev",
		Pepper:        "secret-random-string",
		JWTSecret:     "secret-jwt-key",
		TokenTTLHours: 30 * 24,
		Database:      DefaultPostgresConfig(),
		ImageHost:     DefaultImageHostConfig(),
	}
}

func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "postgres",
		Password: "",
		Name:     "simple_twitter",
	}
}

func DefaultImageHostConfig() ImageHostConfig {
	return ImageHostConfig{
		Bucket: "simple-twitter",
		Dir:    "images",
	}
}

// LoadConfig loads configuration from the given json file on top of the default dev setup,
// then applies environment overrides. If required is true, a missing file is an error.
func LoadConfig(path string, required bool) (Config, error) {
	c := DefaultConfig()
	f, err := os.Open(path)
	switch {
	case errors.Is(err, fs.ErrNotExist) && !required:
		slog.Info("no config file found, using the default config", slog.String("path", path))
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&c); err != nil {
			return Config{}, fmt.Errorf("decode config %s: %w", path, err)
		}
		slog.Info("loaded config file", slog.String("path", path))
	}
	if err := applyEnv(&c, os.LookupEnv); err != nil {
		return Config{}, err
	}
	return c, nil
}

// applyEnv overrides config values with the environment variables that are set.
func applyEnv(c *Config, lookup func(string) (string, bool)) error {
	strs := map[string]*string{
		"ENV":           &c.Env,
		"PEPPER":        &c.Pepper,
		"JWT_SECRET":    &c.JWTSecret,
		"DATABASE_URL":  &c.Database.URL,
		"S3_ENDPOINT":   &c.ImageHost.Endpoint,
		"S3_ACCESS_KEY": &c.ImageHost.AccessKey,
		"S3_SECRET_KEY": &c.ImageHost.SecretKey,
		"S3_BUCKET":     &c.ImageHost.Bucket,
		"S3_PUBLIC_URL": &c.ImageHost.PublicURL,
	}
	for key, dst := range strs {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	ints := map[string]*int{
		"PORT":            &c.Port,
		"TOKEN_TTL_HOURS": &c.TokenTTLHours,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok && v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s: %w", key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("S3_USE_SSL"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid S3_USE_SSL: %w", err)
		}
		c.ImageHost.UseSSL = b
	}
	return nil
}
