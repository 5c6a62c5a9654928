package fiber_handle

import (
	"context"

	"apkdist/pkg/core/consts"

	"github.com/gofiber/fiber/v2"
	uuid "github.com/satori/go.uuid"
)

// NewTracer 为每个请求分配链路 ID，优先沿用上游透传的请求头
func NewTracer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		traceID := c.Get(consts.TraceHeaderName)
		if traceID == "" {
			traceID = uuid.NewV4().String()
		}

		ctx := context.WithValue(c.UserContext(), consts.TraceKey, traceID)
		c.SetUserContext(ctx)
		c.Locals(consts.TraceKey, traceID)
		c.Set(consts.TraceHeaderName, traceID)
		return c.Next()
	}
}
