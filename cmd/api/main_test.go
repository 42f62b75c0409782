package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraredis "github.com/jhoicas/Cotiza-api/internal/infrastructure/redis"
	"github.com/jhoicas/Cotiza-api/pkg/config"
	"github.com/jhoicas/Cotiza-api/pkg/jwt"
	"github.com/jhoicas/Cotiza-api/pkg/logger"
)

func memoryConfig() *config.Config {
	return &config.Config{
		App:   config.AppConfig{Env: "test", Name: "cotiza-api"},
		DB:    config.DBConfig{Driver: config.DriverMemory},
		JWT:   config.JWTConfig{Secret: "s", Expiration: 30, Issuer: "cotiza-api"},
		HTTP:  config.HTTPConfig{Host: "127.0.0.1", Port: 0, CORSOrigins: "*"},
		Login: config.LoginConfig{MaxFailures: 5, LockoutMinutes: 15},
	}
}

// Los fallos de arranque vuelven como error; run libera lo ya abierto antes de salir.
func TestRun_FallosDeArranque(t *testing.T) {
	// Caso 1: Redis configurado pero inalcanzable
	cfg := memoryConfig()
	cfg.Redis.Addr = "127.0.0.1:1"
	err := run(cfg, logger.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, infraredis.ErrThrottleUnavailable)
	assert.Contains(t, err.Error(), "conexión a Redis")

	// Caso 2: sin secreto JWT
	cfg = memoryConfig()
	cfg.JWT.Secret = ""
	err = run(cfg, logger.Nop())
	require.Error(t, err)
	assert.ErrorIs(t, err, jwt.ErrEmptySecret)
	assert.Contains(t, err.Error(), "inicializar auth")
}
