package router

import (
	"apkdist/app"
	"apkdist/pkg/core/fiber_handle"
	"apkdist/system/apk"

	"github.com/gofiber/fiber/v2"
)

// Register 负责集中注册所有 HTTP 路由。
// 按规范：
//   - 只依赖 app.App（业务编排入口）和 fiber.App（HTTP Server）。
//   - 不直接依赖任何 DAO / Service / system/internal 包。
//   - 不包含业务逻辑，只做分组与路由绑定。
func Register(a *app.App, f *fiber.App, adminToken string) {
	// 公共 API 分组
	api := f.Group("/api")

	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "ok"})
	})

	// 后台管理路由分组
	admin := f.Group("/admin")

	// 注册 APK 发布组件路由
	apk.RegisterRoutes(a.ApkModule, api, admin, fiber_handle.AdminToken(adminToken))
}
