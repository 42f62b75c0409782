package config

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViper_SinSecreto_Falla(t *testing.T) {
	v := viper.New()

	cfg, err := fromViper(v)
	assert.Nil(t, cfg)
	assert.ErrorIs(t, err, ErrMissingJWTSecret, "sin JWT_SECRET el arranque debe fallar")
}

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "cotiza-api", cfg.App.Name)
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, 30, cfg.JWT.Expiration, "la expiración por defecto del token es 30 minutos")
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.False(t, cfg.Redis.Enabled())
	assert.True(t, cfg.DB.Migrate)
	assert.Equal(t, 5, cfg.Login.MaxFailures)
}

func TestFromViper_ValoresDesdeStrings(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")
	v.Set("JWT_EXPIRATION_MINUTES", "45")
	v.Set("HTTP_PORT", "9090")
	v.Set("DB_DRIVER", "MEMORY")
	v.Set("REDIS_ADDR", "localhost:6379")

	cfg, err := fromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 45, cfg.JWT.Expiration)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.Equal(t, DriverMemory, cfg.DB.Driver)
	assert.True(t, cfg.Redis.Enabled())
}

func TestFromViper_DriverDesconocido(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")
	v.Set("DB_DRIVER", "mongo")

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ExpiracionInvalida(t *testing.T) {
	v := viper.New()
	v.Set("JWT_SECRET", "s3cret")
	v.Set("JWT_EXPIRATION_MINUTES", 0)

	_, err := fromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "cotiza", SSLMode: "disable"}

	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/cotiza?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://u:p@h:1/x"
	assert.Equal(t, "postgres://u:p@h:1/x", c.ConnectionString())
}

func TestLoad_DesdeEntorno(t *testing.T) {
	t.Setenv("JWT_SECRET", "desde-env")
	t.Setenv("APP_NAME", "cotiza-test")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "desde-env", cfg.JWT.Secret)
	assert.Equal(t, "cotiza-test", cfg.App.Name)
}
