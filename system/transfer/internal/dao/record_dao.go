package dao

import (
	"context"
	"errors"
	"time"

	errorc "shanchuan/pkg/core/err"
	"shanchuan/pkg/core/logger"
	"shanchuan/pkg/core/mvc"
	"shanchuan/system/transfer/internal/model"

	"gorm.io/gorm"
)

// RecordDao 闪传记录数据访问层
type RecordDao struct {
	mvc.IBaseDao[model.TransferRecord]
	log *logger.Log
	err *errorc.ErrorBuilder
	DB  *gorm.DB
}

// NewRecordDao 创建闪传记录 DAO 实例
func NewRecordDao(db *gorm.DB, log *logger.Log) *RecordDao {
	return &RecordDao{
		IBaseDao: mvc.NewGormDao[model.TransferRecord](db),
		log:      log.WithEntryName("RecordDao"),
		err:      errorc.NewErrorBuilder("RecordDao"),
		DB:       db,
	}
}

// Insert 插入记录，提取码撞上唯一索引时返回 Duplicate 错误供上层换码重试
func (d *RecordDao) Insert(ctx context.Context, record *model.TransferRecord) error {
	err := d.DB.WithContext(ctx).Create(record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return d.err.New("提取码已被占用", err).Duplicate()
		}
		return d.err.New("创建闪传记录失败", err).DB()
	}
	return nil
}

// FindActiveByCode 按提取码查找未过期的记录，cutoff 之前创建的视为已过期
func (d *RecordDao) FindActiveByCode(ctx context.Context, code string, cutoff time.Time) (*model.TransferRecord, error) {
	var result model.TransferRecord
	err := d.DB.WithContext(ctx).
		Where("code = ? AND created_at > ?", code, cutoff).
		First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, d.err.New("闪传记录不存在或已过期", err).NotFound()
		}
		return nil, d.err.New("查询闪传记录失败", err).DB()
	}
	return &result, nil
}

// DeleteByCode 按提取码删除记录，记录不存在不算错误
func (d *RecordDao) DeleteByCode(ctx context.Context, code string) error {
	err := d.DB.WithContext(ctx).
		Where("code = ?", code).
		Delete(&model.TransferRecord{}).Error
	if err != nil {
		return d.err.New("删除闪传记录失败", err).DB()
	}
	return nil
}

// IncrementDownloadCount 原子递增下载次数
func (d *RecordDao) IncrementDownloadCount(ctx context.Context, id int64) error {
	err := d.DB.WithContext(ctx).Model(&model.TransferRecord{}).
		Where("id = ?", id).
		UpdateColumn("download_count", gorm.Expr("download_count + ?", 1)).Error
	if err != nil {
		return d.err.New("更新下载次数失败", err).DB()
	}
	return nil
}

// ListExpired 列出 cutoff 之前创建的过期记录，供后台清理任务使用
func (d *RecordDao) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]*model.TransferRecord, error) {
	if limit <= 0 {
		limit = 100
	}

	var results []*model.TransferRecord
	err := d.DB.WithContext(ctx).
		Where("created_at <= ?", cutoff).
		Order("id ASC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, d.err.New("查询过期记录失败", err).DB()
	}
	return results, nil
}
