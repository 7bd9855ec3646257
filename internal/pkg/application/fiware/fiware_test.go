package fiware

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/diwise/context-broker/pkg/ngsild/client"
	"github.com/diwise/integration-geosphere/domain"
	testutils "github.com/diwise/service-chassis/pkg/test/http"
	"github.com/diwise/service-chassis/pkg/test/http/expects"
	"github.com/diwise/service-chassis/pkg/test/http/response"
	"github.com/matryer/is"
)

var Expects = testutils.Expects
var Returns = testutils.Returns
var method = expects.RequestMethod

func TestThatWeatherObservedIsMergedIntoExistingEntity(t *testing.T) {
	is := is.New(t)

	s := testutils.NewMockServiceThat(
		Expects(
			is,
			method(http.MethodPatch),
		),
		Returns(
			response.Code(http.StatusNoContent),
			response.Body([]byte("")),
		),
	)

	cb := client.NewContextBrokerClient(s.URL())

	err := NewPublisher(cb).Publish(context.Background(), testConditions())
	is.NoErr(err)
}

func TestWeatherObservedDecorators(t *testing.T) {
	is := is.New(t)

	decorators := WeatherObservedDecorators(testConditions())
	is.Equal(len(decorators), 7)
}

func testConditions() domain.Conditions {
	return domain.Conditions{
		StationID:            "11241",
		Observed:             time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
		Latitude:             47.4,
		Longitude:            9.65,
		AverageWindSpeed:     5,
		GustWindSpeed:        10,
		AverageWindDirection: 90,
		GustWindDirection:    270,
	}
}
