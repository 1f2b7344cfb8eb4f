package telemetry_test

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.trai.ch/hotswap/internal/adapters/telemetry"
	"go.trai.ch/hotswap/internal/core/domain"
	"go.trai.ch/hotswap/internal/core/ports"
	"go.trai.ch/hotswap/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func scrape(t *testing.T, h http.Handler) string {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestProvider_ExportsReloadMetrics(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).AnyTimes()

	p, err := telemetry.NewProvider(logger)
	require.NoError(t, err)
	defer p.Shutdown(context.Background())

	ctx := t.Context()
	m := p.Metrics()
	m.ChangeAccepted(ctx)
	m.ChangeAccepted(ctx)
	m.BatchDrained(ctx, 2)
	m.BatchDropped(ctx)
	m.Reloaded(ctx, domain.ReloadRules, nil)
	m.Reloaded(ctx, domain.ReloadWeapons, errors.New("boom"))

	_, span := p.Tracer().Start(ctx, "rulewatch.dispatch", ports.WithAttribute("reload.kind", "rules"))
	span.End()

	body := scrape(t, p.Handler())
	assert.Contains(t, body, "hotswap_changes_accepted")
	assert.Contains(t, body, "hotswap_batches_drained")
	assert.Contains(t, body, "hotswap_batches_dropped")
	assert.Contains(t, body, "hotswap_batch_size")
	assert.Contains(t, body, `kind="rules"`)
	assert.Contains(t, body, `outcome="error"`)
	assert.Contains(t, body, "hotswap_reload_duration")
	assert.Contains(t, body, `span="rulewatch.dispatch"`)
	assert.Contains(t, body, "go_goroutines")
}

func TestOTelTracer_Spans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	tracer := telemetry.NewOTelTracer(tp, "test")

	_, span := tracer.Start(t.Context(), "ruleset.reload_weapons",
		ports.WithAttribute("files", []string{"weapons.yaml"}),
		ports.WithAttribute("kind", domain.ReloadWeapons),
	)
	span.SetAttribute("count", 3)
	span.SetAttribute("ratio", 0.5)
	span.SetAttribute("ok", false)
	span.RecordError(errors.New("boom"))
	span.End()

	ended := recorder.Ended()
	require.Len(t, ended, 1)
	s := ended[0]
	assert.Equal(t, "ruleset.reload_weapons", s.Name())
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, "boom", s.Status().Description)

	attrs := make(map[attribute.Key]attribute.Value)
	for _, kv := range s.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	assert.Equal(t, []string{"weapons.yaml"}, attrs["files"].AsStringSlice())
	assert.Equal(t, "weapons", attrs["kind"].AsString())
	assert.Equal(t, int64(3), attrs["count"].AsInt64())
	assert.InDelta(t, 0.5, attrs["ratio"].AsFloat64(), 0.0001)
	assert.False(t, attrs["ok"].AsBool())
}

func TestBridge_WarnsAboutSlowReloads(t *testing.T) {
	ctrl := gomock.NewController(t)
	logger := mocks.NewMockLogger(ctrl)
	logger.EXPECT().Warn(gomock.Any()).Times(1)

	mp := sdkmetric.NewMeterProvider()
	metrics, err := telemetry.NewOTelMetrics(mp.Meter("test"))
	require.NoError(t, err)

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(telemetry.NewBridge(metrics, logger, 100*time.Millisecond)),
	)
	tracer := tp.Tracer("test")
	start := time.Now()

	end := func(name string, d time.Duration) {
		_, span := tracer.Start(t.Context(), name, trace.WithTimestamp(start))
		span.End(trace.WithTimestamp(start.Add(d)))
	}

	end("ruleset.reload_rules", time.Second)
	end("ruleset.reload_weapons", 10*time.Millisecond)
	end("unrelated", time.Minute)
}

func TestServeListener(t *testing.T) {
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "hotswap_reloads_total 1\n")
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- telemetry.ServeListener(ctx, lis, handler) }()

	resp, err := http.Get("http://" + lis.Addr().String() + "/metrics")
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "hotswap_reloads_total 1\n", string(body))

	cancel()
	require.NoError(t, <-done)
}

func TestServe_InvalidAddress(t *testing.T) {
	err := telemetry.Serve(t.Context(), "256.0.0.1:bad", http.NotFoundHandler())
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrMetricsServerFailed.Error())
}
