package db

import (
	"shanchuan/pkg/core/logger"
	"shanchuan/system/transfer"

	"gorm.io/gorm"
)

// AutoMigrate 自动执行所有数据库迁移
func AutoMigrate(db *gorm.DB) error {
	log := logger.GetLogger().WithEntryName("DatabaseMigration")

	log.Info("开始执行数据库迁移...")

	// 闪传组件表迁移
	if err := transfer.AutoMigrate(db, log); err != nil {
		return err
	}

	log.Info("所有数据库迁移执行完成")
	return nil
}
