package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/diwise/context-broker/pkg/ngsild/client"
	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/go-chi/chi"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/diwise/integration-geosphere/internal/pkg/application"
	"github.com/diwise/integration-geosphere/internal/pkg/application/fiware"
	"github.com/diwise/integration-geosphere/internal/pkg/application/geosphere"
	"github.com/diwise/integration-geosphere/internal/pkg/application/lwm2m"
	"github.com/diwise/integration-geosphere/internal/pkg/infrastructure/mqtt"
	"github.com/diwise/integration-geosphere/internal/pkg/infrastructure/router"
	"github.com/diwise/integration-geosphere/internal/pkg/presentation"
)

const serviceName string = "integration-geosphere"

func main() {
	_ = godotenv.Load()

	serviceVersion := buildinfo.SourceVersion()

	ctx, logger, cleanup := o11y.Init(context.Background(), serviceName, serviceVersion)
	defer cleanup()

	baseUrl := env.GetVariableOrDefault(logger, "GEOSPHERE_BASEURL", geosphere.DefaultBaseURL)
	relayUrl := geosphere.RelayURLFromEnv()
	stationID := env.GetVariableOrDefault(logger, "GEOSPHERE_STATION_ID", geosphere.DefaultStationID)
	servicePort := env.GetVariableOrDefault(logger, "SERVICE_PORT", "")

	policy, err := application.ParseFailurePolicy(env.GetVariableOrDefault(logger, "FAILURE_POLICY", "log"))
	if err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	runTimeout := durationOrDie(logger, "RUN_TIMEOUT", "30s")
	refreshInterval := durationOrDie(logger, "REFRESH_INTERVAL", "0s")

	publishers, closePublishers := setupPublishers(ctx, logger, stationID)
	defer closePublishers()

	board := presentation.NewBoard()

	if relayUrl == "" {
		logger.Info().Msg("calling upstream without relay")
	}

	fetcher := geosphere.NewFetcher(relayUrl)
	geoClient := geosphere.NewClient(fetcher, baseUrl, stationID)

	a := application.New(ctx, geoClient, board, board,
		application.WithFailurePolicy(policy),
		application.WithPublishers(publishers...),
	)

	err = runOnce(ctx, a, runTimeout)
	if err != nil {
		logger.Error().Err(err).Msg("update failed")
	}

	if refreshInterval <= 0 && servicePort == "" {
		logger.Info().Msg("job done")
		return
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if servicePort != "" {
		r := router.SetupRouter(chi.NewRouter(), board, logger)
		go func() {
			if err := r.Start(servicePort); err != nil {
				logger.Fatal().Err(err).Msg("failed to start router")
			}
		}()
	}

	if refreshInterval > 0 {
		ticker := time.NewTicker(refreshInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info().Msg("shutting down")
				return
			case <-ticker.C:
				if err := runOnce(ctx, a, runTimeout); err != nil {
					logger.Error().Err(err).Msg("update failed")
				}
			}
		}
	}

	<-ctx.Done()
	logger.Info().Msg("shutting down")
}

func runOnce(ctx context.Context, a application.IntegrationGeosphere, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	return a.Run(ctx)
}

func setupPublishers(ctx context.Context, logger zerolog.Logger, stationID string) ([]application.Publisher, func()) {
	publishers := []application.Publisher{}
	closers := []func(){}

	if contextBrokerUrl := env.GetVariableOrDefault(logger, "CONTEXT_BROKER_URL", ""); contextBrokerUrl != "" {
		publishers = append(publishers, fiware.NewPublisher(client.NewContextBrokerClient(contextBrokerUrl)))
	}

	if lwm2mEndpoint := env.GetVariableOrDefault(logger, "LWM2M_ENDPOINT", ""); lwm2mEndpoint != "" {
		publishers = append(publishers, lwm2m.NewPublisher(lwm2mEndpoint))
	}

	if brokerUrl := env.GetVariableOrDefault(logger, "MQTT_BROKER_URL", ""); brokerUrl != "" {
		topic := env.GetVariableOrDefault(logger, "MQTT_TOPIC", "geosphere/%s/current")
		clientID := fmt.Sprintf("%s-%s", serviceName, stationID)

		p, err := mqtt.NewPublisher(ctx, brokerUrl, clientID, topic)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to mqtt broker")
		}

		publishers = append(publishers, p)
		closers = append(closers, p.Disconnect)
	}

	return publishers, func() {
		for _, c := range closers {
			c()
		}
	}
}

func durationOrDie(logger zerolog.Logger, name, defaultValue string) time.Duration {
	value := env.GetVariableOrDefault(logger, name, defaultValue)

	d, err := time.ParseDuration(value)
	if err != nil {
		logger.Fatal().Err(err).Str("name", name).Msgf("invalid duration %q", value)
	}

	return d
}
