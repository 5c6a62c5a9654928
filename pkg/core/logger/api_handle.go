package logger

import (
	"strings"
	"time"

	"apkdist/pkg/core/consts"
	errorc "apkdist/pkg/core/err"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	Logger *Log
}

// NewApiLogger creates a new middleware handler
func NewApiLogger(config Config) fiber.Handler {
	log := config.Logger.WithEntryName("API")

	return func(c *fiber.Ctx) (err error) {
		path := strings.SplitN(c.OriginalURL(), "?", 2)[0]
		start := time.Now()

		err = c.Next()

		entry := log.WithField("latency", time.Since(start).Round(time.Millisecond)).
			WithField("method", c.Method()).
			WithField("path", path).
			WithField("TraceId", c.Locals(consts.TraceKey))

		if err != nil {
			errc := errorc.ParseError(err)
			errc.ToLog(log.WithTrace(c.UserContext()).GetLogger())
			entry.WithField("status", errc.HTTPStatus()).
				WithField("Err", errc.RootCause()).
				Warn("请求处理失败")
			return err
		}

		entry.WithField("status", c.Response().StatusCode()).Debug("请求处理完毕")
		return nil
	}
}
