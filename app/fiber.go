package app

import (
	"apkdist/base"
	"apkdist/pkg/core/start"

	"github.com/gofiber/fiber/v2"
)

func GetApp() *fiber.App {
	return start.GetApp(base.Configures)
}
