package service

import (
	"context"
	"time"

	errorc "shanchuan/pkg/core/err"
	"shanchuan/pkg/core/logger"
	"shanchuan/pkg/core/mvc"
	"shanchuan/system/transfer/internal/dao"
	"shanchuan/system/transfer/internal/model"
)

// RecordService 闪传记录业务逻辑层
type RecordService struct {
	mvc.IBaseService[model.TransferRecord]
	Dao *dao.RecordDao
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewRecordService 创建闪传记录服务实例
func NewRecordService(daoInstance *dao.RecordDao, log *logger.Log) *RecordService {
	return &RecordService{
		IBaseService: mvc.NewBaseService[model.TransferRecord](daoInstance),
		Dao:          daoInstance,
		log:          log.WithEntryName("RecordService"),
		err:          errorc.NewErrorBuilder("RecordService"),
	}
}

// Insert 插入记录，提取码冲突时返回 Duplicate 错误
func (s *RecordService) Insert(ctx context.Context, record *model.TransferRecord) error {
	return s.Dao.Insert(ctx, record)
}

// FindActiveByCode 按提取码查找未过期的记录
func (s *RecordService) FindActiveByCode(ctx context.Context, code string, cutoff time.Time) (*model.TransferRecord, error) {
	return s.Dao.FindActiveByCode(ctx, code, cutoff)
}

// DeleteByCode 按提取码删除记录，幂等
func (s *RecordService) DeleteByCode(ctx context.Context, code string) error {
	return s.Dao.DeleteByCode(ctx, code)
}

// IncrementDownloadCount 原子递增下载次数
func (s *RecordService) IncrementDownloadCount(ctx context.Context, id int64) error {
	return s.Dao.IncrementDownloadCount(ctx, id)
}

// ListExpired 列出过期记录
func (s *RecordService) ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]*model.TransferRecord, error) {
	return s.Dao.ListExpired(ctx, cutoff, limit)
}

// DeleteRecord 按主键删除记录
func (s *RecordService) DeleteRecord(ctx context.Context, id int64) error {
	return s.Dao.DeleteById(ctx, id)
}
