package app

import (
	"shanchuan/base"
	"shanchuan/pkg/core/start"

	"github.com/gofiber/fiber/v2"
)

// GetApp 创建 Fiber 应用，上传体积上限跟随闪传配置
func GetApp() *fiber.App {
	return start.GetApp(base.Configures.Config.Transfer.MaxUploadMB)
}
