package middleware

import (
	"ScheduleSync/pkg/metrics"
	"time"

	"github.com/gofiber/fiber/v2"
)

// NewMetricsMiddleware records request counts and latency per matched route pattern.
func (m *middleware) NewMetricsMiddleware(ctx *fiber.Ctx) error {
	start := time.Now()
	err := ctx.Next()

	status := ctx.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			status = fe.Code
		} else {
			status = fiber.StatusInternalServerError
		}
	}

	metrics.RecordHTTPRequest(ctx.Method(), ctx.Route().Path, status, time.Since(start))
	return err
}
