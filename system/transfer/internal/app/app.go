package app

import (
	"context"
	"time"

	"shanchuan/base"
	errorc "shanchuan/pkg/core/err"
	"shanchuan/pkg/core/logger"
	"shanchuan/system/transfer/internal/dao"
	"shanchuan/system/transfer/internal/model"
	"shanchuan/system/transfer/internal/service"
	"shanchuan/system/transfer/internal/service/storage"

	"github.com/go-redis/cache/v9"
)

const (
	defaultTTL      = 24 * time.Hour
	defaultLocalDir = "./data/transfer"
	// 提取码冲突时的最大换码次数
	maxCodeRetries = 5
	// 元数据缓存时长上限，实际缓存时长不会超过记录的剩余有效期
	maxCacheTTL = 5 * time.Minute
)

// RecordStore 记录存取接口，由 RecordService 实现
type RecordStore interface {
	Insert(ctx context.Context, record *model.TransferRecord) error
	FindActiveByCode(ctx context.Context, code string, cutoff time.Time) (*model.TransferRecord, error)
	DeleteByCode(ctx context.Context, code string) error
	IncrementDownloadCount(ctx context.Context, id int64) error
	ListExpired(ctx context.Context, cutoff time.Time, limit int) ([]*model.TransferRecord, error)
	DeleteRecord(ctx context.Context, id int64) error
}

// App 闪传组件应用层
type App struct {
	Records RecordStore
	Storage storage.Storage

	ttl        time.Duration
	codeLength int
	genCode    func(length int) (string, error)
	cache      *cache.Cache

	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewApp 创建闪传组件应用层实例
func NewApp() *App {
	log := logger.GetLogger().WithEntryName("TransferApp")

	recordDao := dao.NewRecordDao(base.DB, log)
	recordSvc := service.NewRecordService(recordDao, log)

	cfg := base.Configures.Config.Transfer

	ttl := defaultTTL
	if cfg.TTLHours > 0 {
		ttl = time.Duration(cfg.TTLHours) * time.Hour
	}

	codeLength := cfg.CodeLength
	if codeLength <= 0 {
		codeLength = service.DefaultCodeLength
	}

	var store storage.Storage
	switch cfg.StorageMode {
	case "oss":
		if base.OSS == nil {
			log.Panic("存储模式为 oss 但未初始化 OSS 服务")
		}
		store = storage.NewOSSStorage(base.OSS, cfg.OSSPrefix, log)
	default:
		localDir := cfg.LocalDir
		if localDir == "" {
			localDir = defaultLocalDir
		}
		local, err := storage.NewLocalStorage(localDir, log)
		if err != nil {
			log.WithErr(err).Panic("初始化本地存储失败")
		}
		store = local
	}

	log.WithField("storageMode", store.Mode()).WithField("ttl", ttl.String()).Info("闪传组件初始化完成")

	return &App{
		Records:    recordSvc,
		Storage:    store,
		ttl:        ttl,
		codeLength: codeLength,
		genCode:    service.GenerateCode,
		cache:      base.Cache,
		log:        log,
		err:        errorc.NewErrorBuilder("TransferApp"),
	}
}

// TTL 记录有效期
func (a *App) TTL() time.Duration {
	return a.ttl
}

func cacheKey(code string) string {
	return "shanchuan:transfer:code:" + code
}

// cacheGet 从缓存读取记录元数据，未命中或缓存不可用返回nil
func (a *App) cacheGet(ctx context.Context, code string) *model.TransferRecord {
	if a.cache == nil {
		return nil
	}

	var record model.TransferRecord
	if err := a.cache.Get(ctx, cacheKey(code), &record); err != nil {
		return nil
	}
	return &record
}

// cacheSet 写入记录元数据缓存，缓存时长不超过记录剩余有效期
func (a *App) cacheSet(ctx context.Context, record *model.TransferRecord) {
	if a.cache == nil {
		return
	}

	ttl := record.RemainingLifetime(time.Now(), a.ttl)
	if ttl <= 0 {
		return
	}
	if ttl > maxCacheTTL {
		ttl = maxCacheTTL
	}

	err := a.cache.Set(&cache.Item{
		Ctx:   ctx,
		Key:   cacheKey(record.Code),
		Value: record,
		TTL:   ttl,
	})
	if err != nil {
		a.log.WithErr(err).Warn("写入元数据缓存失败")
	}
}

// cacheDelete 删除记录元数据缓存
func (a *App) cacheDelete(ctx context.Context, code string) {
	if a.cache == nil {
		return
	}

	if err := a.cache.Delete(ctx, cacheKey(code)); err != nil && err != cache.ErrCacheMiss {
		a.log.WithErr(err).Warn("删除元数据缓存失败")
	}
}
