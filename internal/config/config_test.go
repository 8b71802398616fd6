package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDBConfig_DSN(t *testing.T) {
	cfg := DBConfig{
		Username: "blog",
		Password: "p@ss word",
		Host:     "db",
		Port:     "5432",
		DBName:   "console",
	}
	assert.Equal(t, "postgres://blog:p%40ss%20word@db:5432/console?sslmode=disable", cfg.DSN())

	cfg.SSLMode = "require"
	assert.Contains(t, cfg.DSN(), "sslmode=require")
}

func TestLoad_FromYAMLAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	file := filepath.Join(dir, "app.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
app:
  port: "9090"
client:
  origin: "https://admin.example.com, https://staging.example.com"
blog:
  categories: [go, design]
  page-size: 25
view:
  debounce: 150ms
`), 0o600))

	t.Setenv("ACCESS_SECRET", "secret")
	t.Setenv("POSTGRES_HOST", "")

	require.NoError(t, InitViper(file))
	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"https://admin.example.com", "https://staging.example.com"}, cfg.Blog.ClientOrigins)
	assert.Equal(t, []string{"go", "design"}, cfg.Blog.Settings.Categories)
	assert.Equal(t, 25, cfg.Blog.Settings.DefaultPageSize)
	assert.Equal(t, 150*time.Millisecond, cfg.Blog.Debounce)
	assert.Equal(t, 5*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, []byte("secret"), cfg.Blog.AccessSecret)
	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "post.lifecycle", cfg.Blog.LifecycleQueue)
}

func TestInitViper_MissingDefaultFileIsFine(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	require.NoError(t, InitViper(""))
	assert.Equal(t, "8080", Load().Port)
}

func TestLoadEnv_MissingFileIsFine(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "nope.env")))
}
