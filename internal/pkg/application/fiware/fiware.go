package fiware

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/diwise/context-broker/pkg/ngsild/client"
	ngsierrors "github.com/diwise/context-broker/pkg/ngsild/errors"
	"github.com/diwise/context-broker/pkg/ngsild/types"
	"github.com/diwise/context-broker/pkg/ngsild/types/entities"
	. "github.com/diwise/context-broker/pkg/ngsild/types/entities/decorators"
	"github.com/diwise/context-broker/pkg/ngsild/types/properties"
	"github.com/diwise/integration-geosphere/domain"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/tracing"
	"go.opentelemetry.io/otel"
)

const (
	WeatherObservedIDPrefix string = "urn:ngsi-ld:WeatherObserved:"
	WeatherObservedTypeName string = "WeatherObserved"

	unitMetersPerSecond string = "MTS"
	unitDegrees         string = "DD"
)

var tracer = otel.Tracer("integration-geosphere/fiware")

type publisher struct {
	cbClient client.ContextBrokerClient
}

func NewPublisher(cbClient client.ContextBrokerClient) *publisher {
	return &publisher{cbClient: cbClient}
}

func (p *publisher) Publish(ctx context.Context, conditions domain.Conditions) error {
	return CreateOrUpdateWeatherObserved(ctx, p.cbClient, conditions)
}

func CreateOrUpdateWeatherObserved(ctx context.Context, cbClient client.ContextBrokerClient, conditions domain.Conditions) error {
	var err error

	ctx, span := tracer.Start(ctx, "create-weather-observed")
	defer func() { tracing.RecordAnyErrorAndEndSpan(err, span) }()

	_, ctx, logger := o11y.AddTraceIDToLoggerAndStoreInContext(span, logging.GetFromContext(ctx), ctx)

	headers := map[string][]string{"Content-Type": {"application/ld+json"}}

	decorators := WeatherObservedDecorators(conditions)

	var fragment types.EntityFragment
	fragment, err = entities.NewFragment(decorators...)
	if err != nil {
		err = fmt.Errorf("failed to create entity fragment: %w", err)
		return err
	}

	entityID := WeatherObservedIDPrefix + conditions.StationID

	_, err = cbClient.MergeEntity(ctx, entityID, fragment, headers)
	if err == nil {
		logger.Info().Msgf("updated entity %s", entityID)
		return nil
	}

	if !errors.Is(err, ngsierrors.ErrNotFound) {
		logger.Error().Err(err).Msg("failed to merge entity")
	}

	var entity types.Entity
	entity, err = entities.New(entityID, WeatherObservedTypeName, decorators...)
	if err != nil {
		err = fmt.Errorf("failed to create new entity: %w", err)
		return err
	}

	_, err = cbClient.CreateEntity(ctx, entity, headers)
	if err != nil {
		err = fmt.Errorf("failed to post entity to context broker: %w", err)
		return err
	}

	logger.Info().Msgf("created entity %s", entityID)

	return nil
}

func WeatherObservedDecorators(c domain.Conditions) []entities.EntityDecoratorFunc {
	observedAt := c.Observed.UTC().Format(time.RFC3339)

	return []entities.EntityDecoratorFunc{
		entities.DefaultContext(),
		Location(c.Latitude, c.Longitude),
		DateTime(properties.DateObserved, observedAt),
		Number("windSpeed", c.AverageWindSpeed, properties.UnitCode(unitMetersPerSecond), properties.ObservedAt(observedAt)),
		Number("gustSpeed", c.GustWindSpeed, properties.UnitCode(unitMetersPerSecond), properties.ObservedAt(observedAt)),
		Number("windDirection", c.AverageWindDirection, properties.UnitCode(unitDegrees), properties.ObservedAt(observedAt)),
		Number("gustDirection", c.GustWindDirection, properties.UnitCode(unitDegrees), properties.ObservedAt(observedAt)),
	}
}
