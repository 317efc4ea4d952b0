package transfer

import (
	"context"

	"shanchuan/pkg/core/logger"
	internalapp "shanchuan/system/transfer/internal/app"
)

// Module 闪传组件模块
type Module struct {
	internalApp *internalapp.App
}

// NewModule 创建闪传组件模块
func NewModule() *Module {
	logger.GetLogger().WithEntryName("TransferModule").Info("初始化闪传组件")

	return &Module{
		internalApp: internalapp.NewApp(),
	}
}

// SweepExpired 清理过期记录及其文件，供后台调度任务调用
func (m *Module) SweepExpired(ctx context.Context) (int, error) {
	return m.internalApp.SweepExpired(ctx)
}
