package observability

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Elm-as/ai-recruitment-score-sub000/internal/config"
	"github.com/Elm-as/ai-recruitment-score-sub000/internal/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func newTestManager(t *testing.T, cfg *config.Config) *Manager {
	t.Helper()
	om, err := NewManager(Settings{ServiceName: "recruiter", ServiceVersion: "test", Enabled: true, SampleRate: 1}, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = om.Shutdown(context.Background()) })
	require.NotNil(t, om.manualReader)
	return om
}

func collect(t *testing.T, om *Manager) map[string]metricdata.Aggregation {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, om.manualReader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Aggregation)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m.Data
		}
	}
	return out
}

func sumValue(t *testing.T, data metricdata.Aggregation) int64 {
	t.Helper()
	sum, ok := data.(metricdata.Sum[int64])
	require.True(t, ok, "expected an int64 sum, got %T", data)
	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestRecordEvent(t *testing.T) {
	om := newTestManager(t, nil)
	ctx := context.Background()

	om.RecordEvent(ctx, "presets_saved")
	om.RecordEvent(ctx, "presets_saved")
	om.RecordEvent(ctx, "candidates_analyzed")
	om.RecordEvent(ctx, "not_a_metric")

	metrics := collect(t, om)
	assert.Equal(t, int64(2), sumValue(t, metrics["recruiter_presets_saved_total"]))
	assert.Equal(t, int64(1), sumValue(t, metrics["recruiter_candidates_analyzed_total"]))
	assert.NotContains(t, metrics, "recruiter_not_a_metric_total")
}

func TestRecordEventHonoursConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.Observability.CustomMetrics.BusinessMetrics.Enabled = false
	om := newTestManager(t, cfg)

	om.RecordEvent(context.Background(), "orders_changed")

	metrics := collect(t, om)
	assert.NotContains(t, metrics, "recruiter_orders_changed_total")
}

func TestTrackAIOperation(t *testing.T) {
	om := newTestManager(t, nil)
	ctx := context.Background()

	err := om.TrackAIOperation(ctx, "analyze_candidate", func(context.Context) (*types.TokenUsage, error) {
		return &types.TokenUsage{InputTokens: 100, OutputTokens: 20, TotalTokens: 120}, nil
	})
	require.NoError(t, err)

	boom := errors.New("provider down")
	err = om.TrackAIOperation(ctx, "analyze_candidate", func(context.Context) (*types.TokenUsage, error) {
		return nil, boom
	})
	require.ErrorIs(t, err, boom)

	metrics := collect(t, om)
	assert.Equal(t, int64(2), sumValue(t, metrics["recruiter_ai_requests_total"]))
	assert.Equal(t, int64(1), sumValue(t, metrics["recruiter_ai_errors_total"]))

	tokens, ok := metrics["recruiter_ai_token_usage"].(metricdata.Histogram[int64])
	require.True(t, ok)
	byType := map[string]int64{}
	for _, dp := range tokens.DataPoints {
		tokenType, _ := dp.Attributes.Value(attribute.Key("token_type"))
		byType[tokenType.AsString()] += dp.Sum
	}
	assert.Equal(t, map[string]int64{"input": 100, "output": 20, "total": 120}, byType)
}

func TestRecordRateLimitHit(t *testing.T) {
	om := newTestManager(t, nil)
	om.RecordRateLimitHit(context.Background(), "POST /positions")

	assert.Equal(t, int64(1), sumValue(t, collect(t, om)["recruiter_rate_limit_hits_total"]))
}

func TestDisabledManagerIsNoop(t *testing.T) {
	om, err := NewManager(Settings{ServiceName: "recruiter"}, nil, nil)
	require.NoError(t, err)

	ctx := context.Background()
	om.RecordEvent(ctx, "presets_saved")
	om.RecordRateLimitHit(ctx, "/")

	called := false
	err = om.TrackAIOperation(ctx, "draft_email", func(context.Context) (*types.TokenUsage, error) {
		called = true
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	handler := om.HTTPMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.NoError(t, om.Shutdown(ctx))
}

func TestNewSettings(t *testing.T) {
	s := NewSettings(nil, "1.2.3")
	assert.Equal(t, "recruiter", s.ServiceName)
	assert.Equal(t, "1.2.3", s.ServiceVersion)
	assert.False(t, s.Enabled)

	cfg := &config.Config{}
	cfg.Observability.Enabled = true
	cfg.Observability.ServiceName = "hiring"
	cfg.Observability.ServiceVersion = "9"
	cfg.Observability.Prometheus.Enabled = true
	cfg.Observability.Prometheus.Port = "9464"

	s = NewSettings(cfg, "1.2.3")
	assert.Equal(t, "hiring", s.ServiceName)
	assert.Equal(t, "9", s.ServiceVersion)
	assert.True(t, s.Prometheus.Enabled)
	assert.Equal(t, "9464", s.Prometheus.Port)
}

func TestRouteAttributesPassesThrough(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /positions/{id}", RouteAttributes(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(r.PathValue("id")))
	}))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/positions/p-1", nil))
	assert.Equal(t, "p-1", rec.Body.String())
}
