package start

import (
	"apkdist/pkg/core/fiber_handle"
	"apkdist/pkg/core/logger"

	"github.com/gofiber/fiber/v2"
	recover2 "github.com/gofiber/fiber/v2/middleware/recover"
	jsoniter "github.com/json-iterator/go"
)

// multipart 表单字段和边界的额外开销
const bodyLimitSlack = 1 * 1024 * 1024

// GetApp 创建带有统一中间件的 fiber 应用
// 请求体上限按 APK 大小上限放宽，超出的部分由 fasthttp 直接拒绝
func GetApp(c *Configures) *fiber.App {
	app := fiber.New(
		fiber.Config{
			AppName:      c.Config.AppName,
			BodyLimit:    int(c.Config.Apk.MaxFileSize) + bodyLimitSlack,
			ErrorHandler: fiber_handle.NewErrHandler(!c.Config.IsProd()),
			JSONEncoder:  jsoniter.Marshal,
			JSONDecoder:  jsoniter.Unmarshal,
		})
	app.Use(fiber_handle.Cors())
	app.Use(recover2.New(recover2.Config{
		EnableStackTrace: true,
		StackTraceHandler: func(ctx *fiber.Ctx, e interface{}) {
			c.Logger.WithField("path", ctx.Path()).WithField("panic", e).Error("请求处理崩溃")
		},
	}))
	app.Use(fiber_handle.HealthCheck(fiber_handle.HealthCheckConfig{Path: "/health"}))
	app.Use(fiber_handle.NewTracer())
	app.Use(logger.NewApiLogger(logger.Config{Logger: c.Logger}))
	return app
}
