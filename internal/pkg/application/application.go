package application

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/diwise/integration-geosphere/domain"
	"github.com/diwise/integration-geosphere/internal/pkg/application/geosphere"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"golang.org/x/sync/errgroup"
)

type Region string

const (
	SubHeader        Region = "subHeader"
	WindAverage      Region = "wind_avg"
	WindMax          Region = "wind_max"
	DirectionAverage Region = "dir_avg"
	DirectionMax     Region = "dir_max"
)

// TextWriter receives the text for a named region of the presentation surface.
type TextWriter interface {
	WriteText(region Region, text string)
}

type ChartSink interface {
	RenderChart(chart domain.Chart)
}

// Publisher forwards the latest conditions to an external system.
type Publisher interface {
	Publish(ctx context.Context, conditions domain.Conditions) error
}

type FailurePolicy int

const (
	// LogAndContinue logs a failed update and leaves the previous output in place.
	LogAndContinue FailurePolicy = iota
	// Propagate logs a failed update and returns the error to the caller.
	Propagate
)

func ParseFailurePolicy(s string) (FailurePolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "log", "continue":
		return LogAndContinue, nil
	case "propagate":
		return Propagate, nil
	default:
		return LogAndContinue, fmt.Errorf("invalid failure policy %q (allowed: log, propagate)", s)
	}
}

type IntegrationGeosphere interface {
	UpdateCurrent(ctx context.Context) error
	UpdateHistory(ctx context.Context) error
	Run(ctx context.Context) error
}

type integrationGeosphere struct {
	client     geosphere.Client
	text       TextWriter
	chart      ChartSink
	publishers []Publisher
	policy     FailurePolicy
	logger     zerolog.Logger
	now        func() time.Time
}

var tracer = otel.Tracer("integration-geosphere/app")

type Option func(*integrationGeosphere)

func WithFailurePolicy(policy FailurePolicy) Option {
	return func(i *integrationGeosphere) {
		i.policy = policy
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(i *integrationGeosphere) {
		i.logger = logger
	}
}

func WithPublishers(publishers ...Publisher) Option {
	return func(i *integrationGeosphere) {
		i.publishers = append(i.publishers, publishers...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(i *integrationGeosphere) {
		i.now = now
	}
}

func New(ctx context.Context, client geosphere.Client, text TextWriter, chart ChartSink, options ...Option) IntegrationGeosphere {
	i := &integrationGeosphere{
		client: client,
		text:   text,
		chart:  chart,
		policy: LogAndContinue,
		logger: logging.GetFromContext(ctx),
		now:    time.Now,
	}

	for _, opt := range options {
		opt(i)
	}

	return i
}

// Run performs one current and one history update concurrently and waits for both.
// The group is not bound to a context, so a failing update never cancels the other
// one, and both errors are joined instead of keeping only the first.
func (i *integrationGeosphere) Run(ctx context.Context) error {
	var g errgroup.Group
	errs := make([]error, 2)

	g.Go(func() error {
		errs[0] = i.UpdateCurrent(ctx)
		return errs[0]
	})

	g.Go(func() error {
		errs[1] = i.UpdateHistory(ctx)
		return errs[1]
	})

	if err := g.Wait(); err != nil {
		return errors.Join(errs...)
	}

	return nil
}

func (i *integrationGeosphere) fail(logger zerolog.Logger, err error, msg string) error {
	logger.Error().Err(err).Msg(msg)

	if i.policy == Propagate {
		return fmt.Errorf("%s: %w", msg, err)
	}

	return nil
}
