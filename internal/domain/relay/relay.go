package relay

import (
	"context"
	"net/url"
	"time"

	"github.com/GriffinCanCode/relay/internal/infrastructure/logging"
	"github.com/GriffinCanCode/relay/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/relay/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/relay/internal/shared/id"
	"github.com/GriffinCanCode/relay/internal/shared/types"
	"go.uber.org/zap"
)

// Dispatcher performs exactly one outbound call for a RequestSpec.
// Any upstream status is a success; an error means no response was obtained.
type Dispatcher interface {
	Dispatch(ctx context.Context, spec *RequestSpec) (*Upstream, error)
}

// Service composes validation, dispatch and normalization
type Service struct {
	validator  *Validator
	dispatcher Dispatcher
	logger     *logging.Logger
	metrics    *monitoring.Metrics
	tracer     *tracing.Tracer
}

// NewService creates a relay service around a dispatcher
func NewService(dispatcher Dispatcher, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Service{
		validator:  NewValidator(),
		dispatcher: dispatcher,
		logger:     logger.Named("relay"),
	}
}

// WithMetrics adds metrics tracking to the service
func (s *Service) WithMetrics(metrics *monitoring.Metrics) *Service {
	s.metrics = metrics
	return s
}

// WithTracer adds a dispatch span per call
func (s *Service) WithTracer(tracer *tracing.Tracer) *Service {
	s.tracer = tracer
	return s
}

// Relay validates req, dispatches it and normalizes the outcome.
// The returned Result holds exactly one of a response or an error.
func (s *Service) Relay(ctx context.Context, req *types.ProxyRequest) Result {
	spec, err := s.validator.Validate(req)
	if err != nil {
		return s.Reject(Classify(err))
	}
	return s.dispatch(ctx, spec)
}

// Reject reports an input failure detected before a RequestSpec could be
// built (for example an unreadable payload)
func (s *Service) Reject(env *ErrorEnvelope) Result {
	if s.metrics != nil && env.Kind == KindInput {
		s.metrics.RecordInputError()
	}
	s.logger.Debug("relay call rejected",
		zap.String("kind", string(env.Kind)),
		zap.String("message", env.Message),
	)
	return Result{Err: env}
}

func (s *Service) dispatch(ctx context.Context, spec *RequestSpec) Result {
	host := HostOf(spec.URL())

	var span *tracing.Span
	if s.tracer != nil {
		span, ctx = s.tracer.StartSpan(ctx, "dispatch")
		span.SetTag("http.method", spec.Method())
		span.SetTag("upstream.host", host)
		defer func() {
			span.Finish()
			s.tracer.Submit(span)
		}()
	}

	log := s.logger.With(
		zap.String("request_id", id.NewRequestID().String()),
		zap.String("trace_id", string(tracing.GetTraceID(ctx))),
		zap.String("span_id", string(tracing.GetSpanID(ctx))),
	)

	var timer *monitoring.Timer
	if s.metrics != nil {
		timer = monitoring.NewTimer(s.metrics, spec.Method())
	}
	start := time.Now()

	up, err := s.dispatcher.Dispatch(ctx, spec)
	if err != nil {
		env := Classify(err)
		if timer != nil {
			timer.Failure(string(env.Reason))
		}
		if span != nil {
			span.SetError(err)
		}
		log.Warn("dispatch failed",
			zap.String("method", spec.Method()),
			zap.String("host", host),
			zap.String("reason", string(env.Reason)),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		return Result{Err: env}
	}

	if timer != nil {
		timer.Success(up.StatusCode, len(up.Body))
	}
	if span != nil {
		span.SetStatus(up.StatusCode)
	}
	log.Info("dispatch completed",
		zap.String("method", spec.Method()),
		zap.String("host", host),
		zap.Int("status", up.StatusCode),
		zap.Int("bytes", len(up.Body)),
		zap.Bool("decoded", up.Decoded),
		zap.Duration("duration", time.Since(start)),
	)

	return Result{Response: Normalize(up)}
}

// HostOf returns the host of a URL for logs and breaker keys, or "" if unparsable
func HostOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return u.Host
}
