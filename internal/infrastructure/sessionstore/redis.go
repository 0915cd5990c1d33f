package sessionstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"product-download-layer/internal/domain"
	"product-download-layer/internal/ports"
)

const shopKeyPrefix = "shop:"

// Redis stores shop sessions in Redis so installs survive a restart.
// Selected with SESSION_STORE=redis; the default memory store keeps the
// volatile semantics.
type Redis struct {
	client *redis.Client
	logger zerolog.Logger
}

// NewRedis connects a session store to the given Redis address.
func NewRedis(addr string, logger zerolog.Logger) *Redis {
	return &Redis{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}
}

var _ ports.SessionStore = (*Redis)(nil)

// Ping verifies the connection at startup.
func (r *Redis) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.client.Ping(ctx).Err()
}

func (r *Redis) Get(ctx context.Context, shop string) (*domain.Session, error) {
	fields, err := r.client.HGetAll(ctx, shopKeyPrefix+shop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read session for %s: %w", shop, err)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return &domain.Session{
		Shop:        shop,
		Scope:       fields["scope"],
		AccessToken: fields["access_token"],
	}, nil
}

func (r *Redis) Set(ctx context.Context, session *domain.Session) error {
	err := r.client.HSet(ctx, shopKeyPrefix+session.Shop, map[string]any{
		"scope":        session.Scope,
		"access_token": session.AccessToken,
	}).Err()
	if err != nil {
		return fmt.Errorf("failed to store session for %s: %w", session.Shop, err)
	}
	return nil
}

func (r *Redis) Delete(ctx context.Context, shop string) error {
	if err := r.client.Del(ctx, shopKeyPrefix+shop).Err(); err != nil {
		return fmt.Errorf("failed to delete session for %s: %w", shop, err)
	}
	r.logger.Info().Str("shop", shop).Msg("Session removed")
	return nil
}

func (r *Redis) Active(ctx context.Context, shop string) (bool, error) {
	n, err := r.client.Exists(ctx, shopKeyPrefix+shop).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check session for %s: %w", shop, err)
	}
	return n > 0, nil
}
