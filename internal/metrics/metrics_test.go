package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	m := New()
	m.LessonCompleted("Beginner")
	m.LessonCompleted("Beginner")
	m.LessonCompleted("Intermediate")
	m.QuizAnswered(true)
	m.QuizAnswered(false)
	m.QuizAnswered(false)
	m.RewardCollected()
	m.StoreError("update")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.lessonsCompleted.WithLabelValues("Beginner")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.lessonsCompleted.WithLabelValues("Intermediate")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.quizAnswers.WithLabelValues("false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rewardsCollected))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.storeErrors.WithLabelValues("update")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.LessonCompleted("Beginner")
	m.QuizAnswered(true)
	m.RewardCollected()
	m.StoreError("get")
	m.LLMRequest("mock", true, time.Second)
}

func TestHandlerExposesFinwiseMetrics(t *testing.T) {
	m := New()
	m.RewardCollected()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "finwise_rewards_collected_total 1"))
}
