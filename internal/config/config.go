package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Log        LogConfig        `yaml:"log"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Cloudinary CloudinaryConfig `yaml:"cloudinary"`
	Upload     UploadConfig     `yaml:"upload"`
	CORS       CORSConfig       `yaml:"cors"`
	Redis      RedisConfig      `yaml:"redis"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release, test
}

type LogConfig struct {
	Level              string `yaml:"level"` // debug, info, warn, error
	AuditRetentionDays int    `yaml:"audit_retention_days"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"` // sqlite, mysql, postgres
	DSN    string `yaml:"dsn"`
}

type JWTConfig struct {
	Secret     string `yaml:"secret"`
	ExpireHour int    `yaml:"expire_hour"`
}

// CloudinaryConfig holds the image host credentials.
type CloudinaryConfig struct {
	CloudName      string `yaml:"cloud_name"`
	APIKey         string `yaml:"api_key"`
	APISecret      string `yaml:"api_secret"`
	ProjectFolder  string `yaml:"project_folder"`
	ProfileFolder  string `yaml:"profile_folder"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Configured reports whether enough credentials are present to reach the host.
func (c CloudinaryConfig) Configured() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type UploadConfig struct {
	TempDir       string `yaml:"temp_dir"`
	MaxFileSizeMB int    `yaml:"max_file_size_mb"`
	MaxFiles      int    `yaml:"max_files"`
	TempTTLHours  int    `yaml:"temp_ttl_hours"`
	SweepCron     string `yaml:"sweep_cron"`
}

// MaxFileBytes returns the per-file upload limit in bytes.
func (u UploadConfig) MaxFileBytes() int64 {
	return int64(u.MaxFileSizeMB) << 20
}

type CORSConfig struct {
	AllowOrigins []string `yaml:"allow_origins"`
}

// RedisConfig for the optional project list cache
type RedisConfig struct {
	Enabled    bool   `yaml:"enabled"`
	URL        string `yaml:"url"` // redis://[:password@]host:port[/db]; overrides the fields below
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"`
}

// RateLimitConfig applies to the public write endpoints (login, register, contact form).
type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = "config.yaml"
	}

	// .env is optional; real environment variables always win.
	_ = godotenv.Load()

	var cfg *Config

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfg = DefaultConfig()
	} else {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, err
		}

		fileCfg := DefaultConfig()
		if err := yaml.Unmarshal(data, fileCfg); err != nil {
			return nil, err
		}
		cfg = fileCfg
	}

	cfg.overrideFromEnv()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: "5000",
			Mode: "debug",
		},
		Log: LogConfig{
			Level:              "info",
			AuditRetentionDays: 90,
		},
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "portfolio.db",
		},
		JWT: JWTConfig{
			Secret:     "portfolio-secret-key-change-in-production",
			ExpireHour: 24 * 7,
		},
		Cloudinary: CloudinaryConfig{
			ProjectFolder:  "portfolio-projects",
			ProfileFolder:  "portfolio-profiles",
			TimeoutSeconds: 60,
		},
		Upload: UploadConfig{
			TempDir:       "uploads",
			MaxFileSizeMB: 5,
			MaxFiles:      5,
			TempTTLHours:  24,
			SweepCron:     "@hourly",
		},
		CORS: CORSConfig{
			AllowOrigins: []string{"http://localhost:5173"},
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			TTLSeconds: 300,
		},
		RateLimit: RateLimitConfig{
			RPS:   1,
			Burst: 5,
		},
	}
}

// Validate rejects configurations the server cannot start with.
func (c *Config) Validate() error {
	if c.JWT.Secret == "" {
		return fmt.Errorf("jwt secret must not be empty")
	}
	if c.JWT.ExpireHour <= 0 {
		return fmt.Errorf("jwt expire_hour must be positive, got %d", c.JWT.ExpireHour)
	}
	if c.Upload.MaxFileSizeMB <= 0 {
		return fmt.Errorf("upload max_file_size_mb must be positive, got %d", c.Upload.MaxFileSizeMB)
	}
	if c.Upload.MaxFiles <= 0 {
		return fmt.Errorf("upload max_files must be positive, got %d", c.Upload.MaxFiles)
	}
	if c.Upload.TempDir == "" {
		return fmt.Errorf("upload temp_dir must not be empty")
	}
	if c.Redis.Enabled {
		if _, err := c.Redis.Options(); err != nil {
			return err
		}
	}
	return nil
}

// Options returns the go-redis client options, taken from URL when set.
func (r *RedisConfig) Options() (*redis.Options, error) {
	if r.URL != "" {
		opts, err := redis.ParseURL(r.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid redis url: %w", err)
		}
		return opts, nil
	}
	return &redis.Options{
		Addr:     r.Addr,
		Password: r.Password,
		DB:       r.DB,
	}, nil
}

func (c *Config) overrideFromEnv() {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		c.Server.Host = host
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Server.Port = port
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		c.Server.Port = port
	}
	if mode := os.Getenv("SERVER_MODE"); mode != "" {
		c.Server.Mode = mode
	}
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		c.Log.Level = level
	}
	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		c.Database.Driver = driver
	}
	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		c.Database.DSN = dsn
	}
	if secret := os.Getenv("JWT_SECRET"); secret != "" {
		c.JWT.Secret = secret
	}
	if hours := os.Getenv("JWT_EXPIRE_HOUR"); hours != "" {
		if h, err := strconv.Atoi(hours); err == nil {
			c.JWT.ExpireHour = h
		}
	}
	if cldURL := os.Getenv("CLOUDINARY_URL"); cldURL != "" {
		c.parseCloudinaryURL(cldURL)
	}
	if name := os.Getenv("CLOUDINARY_NAME"); name != "" {
		c.Cloudinary.CloudName = name
	}
	if name := os.Getenv("CLOUDINARY_CLOUD_NAME"); name != "" {
		c.Cloudinary.CloudName = name
	}
	if key := os.Getenv("CLOUDINARY_API_KEY"); key != "" {
		c.Cloudinary.APIKey = key
	}
	if secret := os.Getenv("CLOUDINARY_API_SECRET"); secret != "" {
		c.Cloudinary.APISecret = secret
	}
	if dir := os.Getenv("UPLOAD_TEMP_DIR"); dir != "" {
		c.Upload.TempDir = dir
	}
	if origin := os.Getenv("FRONTEND_URL"); origin != "" {
		c.CORS.AllowOrigins = []string{origin}
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		c.CORS.AllowOrigins = splitList(origins)
	}
	if redisURL := os.Getenv("REDIS_URL"); redisURL != "" {
		c.Redis.Enabled = true
		c.Redis.URL = redisURL
	}
}

// parseCloudinaryURL reads credentials from the SDK's conventional
// cloudinary://<api_key>:<api_secret>@<cloud_name> form.
func (c *Config) parseCloudinaryURL(raw string) {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "cloudinary" {
		return
	}
	c.Cloudinary.CloudName = u.Host
	if u.User != nil {
		c.Cloudinary.APIKey = u.User.Username()
		if secret, ok := u.User.Password(); ok {
			c.Cloudinary.APISecret = secret
		}
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
