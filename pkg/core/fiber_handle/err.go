package fiber_handle

import (
	"errors"

	errorc "apkdist/pkg/core/err"

	"github.com/gofiber/fiber/v2"
)

// NewErrHandler 统一错误出口
// showDetails 为 false（生产环境）时不返回根因，避免泄漏内部信息
func NewErrHandler(showDetails bool) fiber.ErrorHandler {
	return func(ctx *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return ctx.Status(fe.Code).JSON(fiber.Map{"status": fe.Code, "error": fe.Message})
		}

		cError := errorc.ParseError(err)
		status := cError.HTTPStatus()
		body := fiber.Map{"status": status, "error": cError.Msg}
		if showDetails {
			body["details"] = cError.RootCause()
		}
		if cError.TraceID != "" {
			body["traceId"] = cError.TraceID
		}
		return ctx.Status(status).JSON(body)
	}
}
