package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/facturation-ci/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://54.247.95.108/ws/external", cfg.FNE.BaseURL)
	assert.Equal(t, 20*time.Second, cfg.FNE.Timeout)
	assert.Equal(t, "mobile-money", cfg.FNE.PaymentMethod)
	assert.Equal(t, "B2B", cfg.FNE.Template)
	assert.Equal(t, "XOF", cfg.PDF.Currency)
	assert.True(t, cfg.DB.Migrate)
}

func TestLoad_SinJWTSecret_Error(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_FNEDesdeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "secreto")
	t.Setenv("FNE_BASE_URL", "https://fne.example.ci/ws/external/")
	t.Setenv("FNE_TIMEOUT_SECONDS", "5")
	t.Setenv("DB_MIGRATE", "false")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "https://fne.example.ci/ws/external", cfg.FNE.BaseURL, "la barra final se elimina")
	assert.Equal(t, 5*time.Second, cfg.FNE.Timeout)
	assert.False(t, cfg.DB.Migrate)
}

func TestDBConfig_DSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "fact", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/fact?sslmode=disable", c.DSN())
	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}
