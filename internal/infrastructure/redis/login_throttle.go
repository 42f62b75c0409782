// Package redis implementa el bloqueo temporal de login sobre Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/Cotiza-api/internal/application/auth"
	"github.com/jhoicas/Cotiza-api/pkg/config"
)

// ErrThrottleUnavailable Redis no respondió.
var ErrThrottleUnavailable = errors.New("backend de bloqueo de login no disponible")

// LoginThrottle cuenta intentos fallidos por identidad. Al llegar a maxFailures la
// identidad queda bloqueada hasta que la clave expira (ventana = lockout).
type LoginThrottle struct {
	rdb         goredis.UniversalClient
	maxFailures int
	lockout     time.Duration
}

var _ auth.LoginThrottle = (*LoginThrottle)(nil)

// NewLoginThrottle construye el limitador.
func NewLoginThrottle(rdb goredis.UniversalClient, maxFailures int, lockout time.Duration) *LoginThrottle {
	return &LoginThrottle{rdb: rdb, maxFailures: maxFailures, lockout: lockout}
}

// NewClient abre el cliente Redis y verifica la conexión con PING.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}
	return rdb, nil
}

func (l *LoginThrottle) key(identity string) string {
	return "login:fail:" + identity
}

// Locked true si la identidad alcanzó el umbral dentro de la ventana.
func (l *LoginThrottle) Locked(ctx context.Context, identity string) (bool, error) {
	count, err := l.rdb.Get(ctx, l.key(identity)).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}
	return count >= int64(l.maxFailures), nil
}

// RecordFailure suma un fallo. Devuelve true si con este fallo se alcanza el umbral.
func (l *LoginThrottle) RecordFailure(ctx context.Context, identity string) (bool, error) {
	count, err := l.rdb.Incr(ctx, l.key(identity)).Result()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}
	if count == 1 {
		// La ventana arranca con el primer fallo
		if err := l.rdb.Expire(ctx, l.key(identity), l.lockout).Err(); err != nil {
			return false, fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
		}
	}
	return count >= int64(l.maxFailures), nil
}

// Reset limpia el contador tras un login exitoso.
func (l *LoginThrottle) Reset(ctx context.Context, identity string) error {
	if err := l.rdb.Del(ctx, l.key(identity)).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrThrottleUnavailable, err)
	}
	return nil
}
