package metrics

import (
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordPolicyDecision(t *testing.T) {
	PolicyDecisions.Reset()

	RecordPolicyDecision(true)
	RecordPolicyDecision(false)
	RecordPolicyDecision(false)

	assert.Equal(t, float64(1), testutil.ToFloat64(PolicyDecisions.WithLabelValues("allow")))
	assert.Equal(t, float64(2), testutil.ToFloat64(PolicyDecisions.WithLabelValues("deny")))
}

func TestEcnpFrameCounters(t *testing.T) {
	EcnpFramesEncoded.Reset()
	EcnpFramesEncoded.WithLabelValues("data").Inc()
	EcnpFramesEncoded.WithLabelValues("data").Inc()
	EcnpFramesEncoded.WithLabelValues("heartbeat").Inc()

	assert.Equal(t, float64(2), testutil.ToFloat64(EcnpFramesEncoded.WithLabelValues("data")))
	assert.Equal(t, float64(1), testutil.ToFloat64(EcnpFramesEncoded.WithLabelValues("heartbeat")))
}

func TestHandlerServesRegisteredMetrics(t *testing.T) {
	SessionsCreated.Add(0) // ensure the metric is registered and collectible

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	Handler().ServeHTTP(rec, req)

	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, rec.Body.String(), "edgeclaw_session_created_total")
}
