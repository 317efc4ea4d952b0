package app

import (
	"shanchuan/system/transfer"
)

// App 业务编排入口，持有所有组件模块
type App struct {
	TransferModule *transfer.Module
}

// NewApp 创建应用组合根
func NewApp() *App {
	return &App{
		TransferModule: transfer.NewModule(),
	}
}
