package transfer

import (
	"shanchuan/pkg/core/logger"
	"shanchuan/system/transfer/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 自动执行闪传组件的数据库迁移
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始迁移闪传组件表...")

	if err := db.AutoMigrate(
		&model.TransferRecord{},
	); err != nil {
		log.WithErr(err).Error("闪传组件表迁移失败")
		return err
	}

	log.Info("闪传组件表迁移完成")
	return nil
}
