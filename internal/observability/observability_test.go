package observability

import (
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/parts-assistant/internal/config"
	apperrors "github.com/spec-kit/parts-assistant/pkg/util/errorutil"
)

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "loud"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger(config.LoggerConfig{Level: "DEBUG"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordDecision("fallback", "search")
	m.RecordDecision("fallback", "search")
	m.RecordCacheLookup(true)
	m.RecordCacheLookup(false)
	m.RecordCacheLookup(false)
	m.RecordTool("search_products", true)
	m.RecordCompletion("gemini", time.Second, errors.New("quota"))
	m.RecordRequest("/api/chat", fiber.MethodPost, 200, 10*time.Millisecond)
	m.RecordError("/api/chat", fiber.MethodPost, "VALIDATION_FAILED")
	m.RecordNotification("webhook", "ticket_created")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.decisions.WithLabelValues("fallback", "search")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.cacheLookups.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.toolCalls.WithLabelValues("search_products", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.completions.WithLabelValues("gemini", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(fiber.MethodPost, "/api/chat", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues(fiber.MethodPost, "/api/chat", "VALIDATION_FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("webhook", "ticket_created")))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordTool("x", false) })
}

func TestRequestLoggerAndHandler(t *testing.T) {
	m := NewMetrics()
	core, logs := observer.New(zap.InfoLevel)

	app := fiber.New()
	app.Use(RequestLogger(zap.New(core), m))
	app.Get("/ok", func(c *fiber.Ctx) error { return c.SendString("ok") })
	app.Get("/missing", func(c *fiber.Ctx) error { return apperrors.NewNotFound("part", nil) })
	app.Get("/metrics", m.Handler())

	for _, path := range []string{"/ok", "/missing"} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil))
		require.NoError(t, err)
		resp.Body.Close()
	}

	entries := logs.FilterMessage("request completed").All()
	require.Len(t, entries, 2)
	assert.EqualValues(t, 200, entries[0].ContextMap()["status"])
	assert.EqualValues(t, 404, entries[1].ContextMap()["status"])
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(fiber.MethodGet, "/missing", "404")))

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/metrics", nil))
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "parts_assistant_http_requests_total"))
}
