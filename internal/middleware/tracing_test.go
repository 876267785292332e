package middleware

import (
	"net/http/httptest"
	"testing"

	"forum/internal/observability"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func recordSpans(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	prev := observability.Tracer
	observability.Tracer = tp.Tracer("test")
	t.Cleanup(func() { observability.Tracer = prev })
	return recorder
}

func spanAttrs(span sdktrace.ReadOnlySpan) map[attribute.Key]attribute.Value {
	attrs := map[attribute.Key]attribute.Value{}
	for _, kv := range span.Attributes() {
		attrs[kv.Key] = kv.Value
	}
	return attrs
}

func TestTracingMiddleware_NamesSpanAfterRoute(t *testing.T) {
	recorder := recordSpans(t)

	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Delete("/post/:id", func(c *fiber.Ctx) error {
		SetUserID(c, 5)
		return c.SendStatus(fiber.StatusOK)
	})

	resp, err := app.Test(httptest.NewRequest("DELETE", "/post/12", nil))
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Header.Get("X-Trace-ID"))

	spans := recorder.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "DELETE /post/:id", spans[0].Name())

	attrs := spanAttrs(spans[0])
	assert.Equal(t, "post", attrs["forum.entity"].AsString())
	assert.Equal(t, int64(5), attrs["forum.user_id"].AsInt64())
	assert.Equal(t, "/post/:id", attrs["http.route"].AsString())
	assert.Equal(t, "/post/12", attrs["url.path"].AsString())
	assert.Equal(t, int64(200), attrs["http.response.status_code"].AsInt64())
	assert.Equal(t, codes.Unset, spans[0].Status().Code)
}

func TestTracingMiddleware_ServerErrorMarksSpan(t *testing.T) {
	recorder := recordSpans(t)

	app := fiber.New()
	app.Use(TracingMiddleware())
	app.Get("/comment", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusInternalServerError)
	})
	app.Use(func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNotFound)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/comment", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/nowhere", nil))
	require.NoError(t, err)

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	assert.Equal(t, codes.Error, spans[0].Status().Code)
	assert.Equal(t, "comment", spanAttrs(spans[0])["forum.entity"].AsString())

	assert.Equal(t, "GET /nowhere", spans[1].Name())
	_, tagged := spanAttrs(spans[1])["forum.entity"]
	assert.False(t, tagged)
}

func TestRouteEntity(t *testing.T) {
	tests := map[string]string{
		"/user/:id":          "user",
		"/post/category/:id": "post",
		"/post/:id/comments": "post",
		"/auth/login":        "auth",
		"/health/ready":      "",
		"":                   "",
	}
	for route, want := range tests {
		assert.Equal(t, want, observability.RouteEntity(route), route)
	}
}
