package middleware

import (
	"fmt"

	"forum/internal/observability"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
)

// TracingMiddleware opens a server span per request, continuing any trace
// propagated by the caller. The span is renamed to the matched route once
// the handler chain has run.
func TracingMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := otel.GetTextMapPropagator().Extract(c.UserContext(), propagation.HeaderCarrier(c.GetReqHeaders()))

		ctx, span := observability.StartRequestSpan(ctx, c.Method(), c.Path(),
			attribute.String("client.address", c.IP()),
			attribute.String("user_agent.original", c.Get(fiber.HeaderUserAgent)),
		)
		defer span.End()

		traceID := span.SpanContext().TraceID().String()
		c.Locals("traceID", traceID)
		if requestID := c.Locals("requestid"); requestID != nil {
			span.SetAttributes(attribute.String("request.id", fmt.Sprintf("%v", requestID)))
		}
		c.Set("X-Trace-ID", traceID)
		c.SetUserContext(ctx)

		err := c.Next()

		if userID, ok := c.Locals("userID").(uint); ok {
			span.SetAttributes(attribute.Int64("forum.user_id", int64(userID)))
		}
		route := c.Route().Path
		if route == "/" && c.Path() != "/" {
			// matched only by a catch-all handler
			route = ""
		}
		observability.FinishRequestSpan(span, c.Method(), route, c.Response().StatusCode(), err)
		return err
	}
}
