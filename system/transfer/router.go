package transfer

import (
	controller "shanchuan/system/transfer/external/http"

	"github.com/gofiber/fiber/v2"
)

// RegisterRoutes 注册闪传组件的所有 HTTP 路由
func RegisterRoutes(m *Module, api fiber.Router) {
	apiController := controller.NewTransferAPIController(m.internalApp)
	apiController.RegisterRoutes(api)
}
