package global

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/travigo/tisseo/pkg/config"
	"github.com/travigo/tisseo/pkg/dataaggregator"
	"github.com/travigo/tisseo/pkg/dataaggregator/source/cachedresults"
	"github.com/travigo/tisseo/pkg/dataaggregator/source/stopdirectory"
	"github.com/travigo/tisseo/pkg/dataaggregator/source/tisseo"
	"github.com/travigo/tisseo/pkg/redis_client"
	"github.com/travigo/tisseo/pkg/util"
)

type Environment struct {
	Config     *config.Config
	Aggregator *dataaggregator.Aggregator

	redisClient *redis.Client
}

// Setup loads the stop directory and registers every data source. Failures here are fatal startup errors.
func Setup(ctx context.Context, cfg *config.Config) (*Environment, error) {
	aggregator := &dataaggregator.Aggregator{}
	environment := &Environment{
		Config:     cfg,
		Aggregator: aggregator,
	}

	directory, err := stopdirectory.Load(cfg.StopAreasFile)
	if err != nil {
		return nil, err
	}
	aggregator.RegisterSource(directory)

	tisseoSource := tisseo.NewSource(cfg.APIBase, cfg.APIKey, cfg.RequestTimeout)

	if cfg.Redis.Enabled {
		client, err := redis_client.Connect(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}

		environment.redisClient = client
		tisseoSource.CachedResults = cachedresults.New(client, cfg.Redis.CacheExpiration)
	} else {
		log.Debug().Msg("Skipping Redis setup, departures will not be cached")
	}

	aggregator.RegisterSource(tisseoSource)

	return environment, nil
}

func (e *Environment) Close() error {
	if e.redisClient != nil {
		return e.redisClient.Close()
	}

	return nil
}

// SetupFromEnvironment loads the configuration from the TISSEO_ environment variables before calling Setup
func SetupFromEnvironment(ctx context.Context) (*Environment, error) {
	cfg, err := config.Load(util.GetEnvironmentVariables(config.EnvironmentPrefix))
	if err != nil {
		return nil, err
	}

	return Setup(ctx, cfg)
}
