package redis_client

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/tisseo/pkg/config"
)

const connectionAttempts = 3

func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.Database,
	})

	retryBackoff := backoff.NewExponentialBackOff()
	retryBackoff.InitialInterval = 200 * time.Millisecond

	err := backoff.RetryNotify(
		func() error {
			return client.Ping(ctx).Err()
		},
		backoff.WithContext(backoff.WithMaxRetries(retryBackoff, connectionAttempts), ctx),
		func(err error, wait time.Duration) {
			log.Warn().Err(err).Str("address", cfg.Address).Str("retry", wait.String()).Msg("Redis ping failed")
		},
	)
	if err != nil {
		client.Close()
		return nil, err
	}

	log.Info().Str("address", cfg.Address).Int("database", cfg.Database).Msg("Connected to Redis")

	return client, nil
}
