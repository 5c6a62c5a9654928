package apk

import (
	controller "apkdist/system/apk/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册 APK 组件的所有 HTTP 路由
// adminAuth 作用于全部后台接口
func RegisterRoutes(m *Module, api, admin fiber.Router, adminAuth fiber.Handler) {
	apkController := controller.NewApkController(m.internalApp, adminAuth)
	apkController.RegisterRoutes(api, admin)
}
