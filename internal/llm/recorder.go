package llm

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/finwise/internal/metrics"
	"github.com/abhisek/finwise/internal/store"
)

// RecordingProvider records every request to the event log, the request
// histogram and the debug log. Recording failures never fail the request.
type RecordingProvider struct {
	inner   Provider
	name    string
	events  store.EventRepo
	logger  *zap.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// WithRecording wraps p. name is the provider label, e.g. "anthropic".
// events and m may be nil.
func WithRecording(p Provider, name string, events store.EventRepo, logger *zap.Logger, m *metrics.Metrics) Provider {
	if events == nil {
		events = store.NopEventRepo{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecordingProvider{
		inner:   p,
		name:    name,
		events:  events,
		logger:  logger,
		metrics: m,
		now:     time.Now,
	}
}

func (r *RecordingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := r.now()
	resp, err := r.inner.Generate(ctx, req)
	latency := r.now().Sub(start)

	data := store.LLMRequestEventData{
		Provider:  r.name,
		Model:     r.inner.ModelID(),
		Purpose:   PurposeFrom(ctx),
		LatencyMs: latency.Milliseconds(),
		Success:   err == nil,
	}
	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
	}
	if err != nil {
		data.ErrorMessage = err.Error()
	}

	r.metrics.LLMRequest(r.name, data.Success, latency)
	fields := []zap.Field{
		zap.String("provider", data.Provider),
		zap.String("model", data.Model),
		zap.String("purpose", data.Purpose),
		zap.Duration("latency", latency),
		zap.Int("input_tokens", data.InputTokens),
		zap.Int("output_tokens", data.OutputTokens),
	}
	if err != nil {
		r.logger.Warn("model request failed", append(fields, zap.Error(err))...)
	} else {
		r.logger.Debug("model request", fields...)
	}

	// The caller's ctx may already be done; the event should still land.
	if logErr := r.events.AppendLLMRequest(context.WithoutCancel(ctx), data); logErr != nil {
		r.logger.Warn("record model request event", zap.Error(logErr))
	}
	return resp, err
}

func (r *RecordingProvider) ModelID() string { return r.inner.ModelID() }
