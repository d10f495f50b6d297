package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type AppConfig struct {
	App       AppSettings       `mapstructure:"app"`
	TLS       TLSSettings       `mapstructure:"tls"`
	Auth      AuthSettings      `mapstructure:"auth"`
	Demo      DemoSettings      `mapstructure:"demo"`
	Storage   StorageSettings   `mapstructure:"storage"`
	Postgres  PostgresSettings  `mapstructure:"postgres"`
	Redis     RedisSettings     `mapstructure:"redis"`
	Kafka     KafkaSettings     `mapstructure:"kafka"`
	Events    EventSettings     `mapstructure:"events"`
	RateLimit RateLimitSettings `mapstructure:"rate_limit"`
	CORS      CORSSettings      `mapstructure:"cors"`
}

type AppSettings struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// TLSSettings controls the hosting boundary. When enabled the server terminates
// TLS itself using the referenced certificate pair (see cmd/gencert).
type TLSSettings struct {
	Enabled  bool   `mapstructure:"enabled"`
	CertFile string `mapstructure:"cert_file"`
	KeyFile  string `mapstructure:"key_file"`
}

// AuthSettings holds the process-wide signing secret, token lifetime, and
// bcrypt work factor. Rotating the secret invalidates all outstanding tokens.
type AuthSettings struct {
	JWTSecret  string        `mapstructure:"jwt_secret"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
	BcryptCost int           `mapstructure:"bcrypt_cost"`
}

// DemoSettings gates the teaching endpoints that intentionally expose hashing
// internals. Keep disabled outside classroom environments.
type DemoSettings struct {
	Enabled bool `mapstructure:"enabled"`
}

type StorageSettings struct {
	Driver string `mapstructure:"driver"` // memory | postgres
}

type PostgresSettings struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Database        string        `mapstructure:"database"`
	SSLMode         string        `mapstructure:"ssl_mode"`
	MaxConns        int32         `mapstructure:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
}

type RedisSettings struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	DB       int    `mapstructure:"db"`
	Password string `mapstructure:"password"`
}

// KafkaSettings configures the optional mirror of security events to a broker.
type KafkaSettings struct {
	Brokers     []string `mapstructure:"brokers"`
	TopicPrefix string   `mapstructure:"topic_prefix"`
}

type EventSettings struct {
	BufferSize int `mapstructure:"buffer_size"`
}

type RateLimitSettings struct {
	LoginMaxAttempts int           `mapstructure:"login_max_attempts"`
	Window           time.Duration `mapstructure:"window"`
}

type CORSSettings struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func Load() (*AppConfig, error) {
	v := viper.New()

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("AUTH")

	setDefaults(v)

	if err := bindEnvs(v, []string{
		"app.name",
		"app.env",
		"app.host",
		"app.port",
		"tls.enabled",
		"tls.cert_file",
		"tls.key_file",
		"auth.jwt_secret",
		"auth.token_ttl",
		"auth.bcrypt_cost",
		"demo.enabled",
		"storage.driver",
		"postgres.host",
		"postgres.port",
		"postgres.user",
		"postgres.password",
		"postgres.database",
		"postgres.ssl_mode",
		"postgres.max_conns",
		"postgres.min_conns",
		"postgres.max_conn_lifetime",
		"redis.host",
		"redis.port",
		"redis.db",
		"redis.password",
		"kafka.brokers",
		"kafka.topic_prefix",
		"events.buffer_size",
		"rate_limit.login_max_attempts",
		"rate_limit.window",
		"cors.allowed_origins",
	}); err != nil {
		return nil, err
	}

	v.AutomaticEnv()

	var cfg AppConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if strings.TrimSpace(cfg.Auth.JWTSecret) == "" {
		return nil, fmt.Errorf("auth.jwt_secret is required")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "secure-saas-platform")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.host", "0.0.0.0")
	v.SetDefault("app.port", 3001)

	v.SetDefault("tls.enabled", true)
	v.SetDefault("tls.cert_file", "./ssl/cert.pem")
	v.SetDefault("tls.key_file", "./ssl/key.pem")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("demo.enabled", true)

	v.SetDefault("storage.driver", "memory")

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "auth")
	v.SetDefault("postgres.password", "auth_password")
	v.SetDefault("postgres.database", "auth")
	v.SetDefault("postgres.ssl_mode", "disable")
	v.SetDefault("postgres.max_conns", 10)
	v.SetDefault("postgres.min_conns", 2)
	v.SetDefault("postgres.max_conn_lifetime", "60m")

	v.SetDefault("redis.host", "")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.password", "")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.topic_prefix", "authdemo")

	v.SetDefault("events.buffer_size", 64)

	v.SetDefault("rate_limit.login_max_attempts", 5)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:8080", "https://localhost:8080"})
}

func bindEnvs(v *viper.Viper, keys []string) error {
	for _, key := range keys {
		envKey := strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, "AUTH_"+envKey, envKey); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}
	return nil
}
