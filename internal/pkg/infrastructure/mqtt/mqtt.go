package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/diwise/integration-geosphere/domain"
	"github.com/diwise/integration-geosphere/internal/pkg/application/formatting"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	paho "github.com/eclipse/paho.mqtt.golang"
)

const publishTimeout = 5 * time.Second

type Message struct {
	StationID            string    `json:"station_id"`
	Observed             time.Time `json:"observed"`
	AverageWindSpeed     float64   `json:"wind_avg_kmh"`
	GustWindSpeed        float64   `json:"wind_max_kmh"`
	AverageWindDirection float64   `json:"dir_avg_deg"`
	GustWindDirection    float64   `json:"dir_max_deg"`
	AverageBearing       string    `json:"dir_avg"`
	GustBearing          string    `json:"dir_max"`
}

func NewMessage(c domain.Conditions) Message {
	return Message{
		StationID:            c.StationID,
		Observed:             c.Observed.UTC(),
		AverageWindSpeed:     formatting.RoundOneDecimal(formatting.KilometersPerHour(c.AverageWindSpeed)),
		GustWindSpeed:        formatting.RoundOneDecimal(formatting.KilometersPerHour(c.GustWindSpeed)),
		AverageWindDirection: c.AverageWindDirection,
		GustWindDirection:    c.GustWindDirection,
		AverageBearing:       formatting.FormatBearing(c.AverageWindDirection),
		GustBearing:          formatting.FormatBearing(c.GustWindDirection),
	}
}

// Topic expands the station id into a topic template such as "geosphere/%s/current".
func Topic(template, stationID string) string {
	if !strings.Contains(template, "%s") {
		return template
	}
	return fmt.Sprintf(template, stationID)
}

// client is the part of paho.Client the publisher needs.
type client interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

type Publisher struct {
	client        client
	topicTemplate string
}

func NewPublisher(ctx context.Context, brokerURL, clientID, topicTemplate string) (*Publisher, error) {
	logger := logging.GetFromContext(ctx)

	opts := paho.NewClientOptions()
	opts.AddBroker(brokerURL)
	opts.SetClientID(clientID)
	opts.SetCleanSession(true)
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(30 * time.Second)
	opts.SetPingTimeout(10 * time.Second)

	opts.SetOnConnectHandler(func(_ paho.Client) {
		logger.Info().Str("broker", brokerURL).Msg("mqtt connected")
	})
	opts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		logger.Warn().Err(err).Msg("mqtt connection lost")
	})

	c := paho.NewClient(opts)

	token := c.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return nil, fmt.Errorf("mqtt connect timeout for broker %s", brokerURL)
	}
	if token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}

	return &Publisher{client: c, topicTemplate: topicTemplate}, nil
}

func (p *Publisher) Publish(ctx context.Context, conditions domain.Conditions) error {
	topic := Topic(p.topicTemplate, conditions.StationID)

	data, err := json.Marshal(NewMessage(conditions))
	if err != nil {
		return fmt.Errorf("marshal conditions: %w", err)
	}

	token := p.client.Publish(topic, 1, true, data)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish timeout for topic %s", topic)
	}
	if token.Error() != nil {
		return fmt.Errorf("publish conditions: %w", token.Error())
	}

	logger := logging.GetFromContext(ctx)
	logger.Debug().Str("topic", topic).Msg("published current conditions")

	return nil
}

func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
}
