package config

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type DBConfig struct {
	Username string
	Password string
	Host     string
	Port     string
	DBName   string
	SSLMode  string
	MaxConns int32
}

func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.Username, c.Password),
		Host:   c.Host + ":" + c.Port,
		Path:   "/" + c.DBName,
	}
	sslMode := c.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}
	u.RawQuery = "sslmode=" + url.QueryEscape(sslMode)
	return u.String()
}

type ServerConfig struct {
	Port           string
	Handler        http.Handler
	MaxHeaderBytes int
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
}

type RedisConfig struct {
	Addr string
	TTL  time.Duration
}

type BlogConfig struct {
	Settings       model.SiteSettings
	AccessSecret   []byte
	ClientOrigins  []string
	Debounce       time.Duration
	RabbitMQURL    string
	LifecycleQueue string
}

type Config struct {
	DB    DBConfig
	Redis RedisConfig
	Blog  BlogConfig
	Port  string
	Debug bool
}

// LoadEnv reads .env when present. A missing file is not an error.
func LoadEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// InitViper points viper at app.yaml (or file, when set) and reads it.
func InitViper(file string) error {
	setDefaults()

	if file != "" {
		viper.SetConfigFile(file)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("./configs")
		viper.SetConfigType("yaml")
		viper.SetConfigName("app")
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file == "" && errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults() {
	viper.SetDefault("app.port", "8080")
	viper.SetDefault("client.origin", "*")
	viper.SetDefault("blog.categories", model.DefaultCategories)
	viper.SetDefault("blog.tags", []string{})
	viper.SetDefault("blog.page-size", 10)
	viper.SetDefault("cache.ttl", "5m")
	viper.SetDefault("view.debounce", "300ms")
	viper.SetDefault("rabbitmq.lifecycle-queue", "post.lifecycle")
	viper.SetDefault("postgres.max-conns", 10)
}

// Load assembles the runtime configuration from viper and the environment.
func Load() Config {
	return Config{
		DB: DBConfig{
			Username: os.Getenv("POSTGRES_USER"),
			Password: os.Getenv("POSTGRES_PASSWORD"),
			Host:     envOr("POSTGRES_HOST", "localhost"),
			Port:     envOr("POSTGRES_PORT", "5432"),
			DBName:   os.Getenv("POSTGRES_DATABASE"),
			SSLMode:  os.Getenv("POSTGRES_SSLMODE"),
			MaxConns: viper.GetInt32("postgres.max-conns"),
		},
		Redis: RedisConfig{
			Addr: os.Getenv("REDIS_ADDR"),
			TTL:  viper.GetDuration("cache.ttl"),
		},
		Blog: BlogConfig{
			Settings: model.SiteSettings{
				Categories:      viper.GetStringSlice("blog.categories"),
				Tags:            viper.GetStringSlice("blog.tags"),
				DefaultPageSize: viper.GetInt("blog.page-size"),
			},
			AccessSecret:   []byte(os.Getenv("ACCESS_SECRET")),
			ClientOrigins:  splitCSV(viper.GetString("client.origin")),
			Debounce:       viper.GetDuration("view.debounce"),
			RabbitMQURL:    os.Getenv("RABBITMQ_CONN_STRING"),
			LifecycleQueue: viper.GetString("rabbitmq.lifecycle-queue"),
		},
		Port:  viper.GetString("app.port"),
		Debug: viper.GetBool("debug"),
	}
}

func envOr(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if item := strings.TrimSpace(part); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}
