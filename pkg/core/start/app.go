package start

import (
	"fmt"

	"shanchuan/pkg/core/fiber_handle"
	"shanchuan/pkg/core/logger"

	"github.com/gofiber/fiber/v2"
	recover2 "github.com/gofiber/fiber/v2/middleware/recover"
)

func GetApp(bodyLimitMB int) *fiber.App {
	if bodyLimitMB <= 0 {
		bodyLimitMB = 10
	}
	app := fiber.New(
		fiber.Config{
			BodyLimit:    bodyLimitMB * 1024 * 1024,
			ErrorHandler: fiber_handle.ErrHandler,
		})
	app.Use(fiber_handle.Cors())
	app.Use(recover2.New(recover2.Config{
		Next:             nil,
		EnableStackTrace: true,
		StackTraceHandler: func(c *fiber.Ctx, e interface{}) {
			logger.GetLogger().WithField("url", c.Path()).Error(fmt.Sprintf("请求处理崩溃。%+v", e))
		},
	}))
	app.Use(fiber_handle.HealthCheck(fiber_handle.HealthCheckConfig{Path: "/health"}))
	return app
}
