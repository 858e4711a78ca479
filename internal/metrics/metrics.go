// Package metrics exposes finwise counters on a private Prometheus registry.
// A nil *Metrics is valid and records nothing.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Metrics holds the app's collectors.
type Metrics struct {
	registry *prometheus.Registry

	lessonsCompleted *prometheus.CounterVec
	quizAnswers      *prometheus.CounterVec
	rewardsCollected prometheus.Counter
	storeErrors      *prometheus.CounterVec
	llmRequests      *prometheus.HistogramVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		lessonsCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finwise_lessons_completed_total",
				Help: "Lesson sessions completed, by lesson difficulty",
			},
			[]string{"difficulty"},
		),
		quizAnswers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finwise_quiz_answers_total",
				Help: "Quiz answers given, by correctness",
			},
			[]string{"correct"},
		),
		rewardsCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "finwise_rewards_collected_total",
			Help: "Successful reward claims",
		}),
		storeErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finwise_store_errors_total",
				Help: "Progress store failures, by operation",
			},
			[]string{"op"},
		),
		llmRequests: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finwise_llm_request_duration_seconds",
				Help:    "Duration of coach LLM requests",
				Buckets: []float64{0.5, 1, 2, 5, 10, 20},
			},
			[]string{"provider", "success"},
		),
	}
	m.registry.MustRegister(
		m.lessonsCompleted,
		m.quizAnswers,
		m.rewardsCollected,
		m.storeErrors,
		m.llmRequests,
		collectors.NewGoCollector(),
	)
	return m
}

// Registry returns the private registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) LessonCompleted(difficulty string) {
	if m == nil {
		return
	}
	m.lessonsCompleted.WithLabelValues(difficulty).Inc()
}

func (m *Metrics) QuizAnswered(correct bool) {
	if m == nil {
		return
	}
	m.quizAnswers.WithLabelValues(strconv.FormatBool(correct)).Inc()
}

func (m *Metrics) RewardCollected() {
	if m == nil {
		return
	}
	m.rewardsCollected.Inc()
}

func (m *Metrics) StoreError(op string) {
	if m == nil {
		return
	}
	m.storeErrors.WithLabelValues(op).Inc()
}

func (m *Metrics) LLMRequest(provider string, success bool, d time.Duration) {
	if m == nil {
		return
	}
	m.llmRequests.WithLabelValues(provider, strconv.FormatBool(success)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, m *Metrics, logger *zap.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", m.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("metrics listening", zap.String("addr", addr))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
