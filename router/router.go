package router

import (
	"shanchuan/app"
	"shanchuan/system/transfer"

	"github.com/gofiber/fiber/v2"
)

// Register 负责集中注册所有 HTTP 路由。
// 只依赖 app.App（业务编排入口）和 fiber.App（HTTP Server），
// 不直接依赖任何 DAO / Service / system/internal 包。
func Register(a *app.App, f *fiber.App) {
	api := f.Group("/api")

	// 简单健康检查路由
	api.Get("/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"msg": "ok"})
	})

	// 注册闪传组件路由（上传、下载、元数据查询）
	transfer.RegisterRoutes(a.TransferModule, api)
}
