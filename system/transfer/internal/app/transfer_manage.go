package app

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	errorc "shanchuan/pkg/core/err"
	"shanchuan/system/transfer/internal/model"

	"github.com/google/uuid"
)

// UploadRequest 上传文件请求
type UploadRequest struct {
	FileName    string
	Size        int64
	ContentType string
	Reader      io.Reader
}

// Upload 上传文件并返回闪传记录
// 流程：先落盘存储，再生成提取码插入记录；撞码换码重试，记录写入失败时回收已上传的文件
func (a *App) Upload(ctx context.Context, req *UploadRequest) (*model.TransferRecord, error) {
	if req == nil || req.Reader == nil {
		return nil, a.err.New("上传内容不能为空", nil).ValidWithCtx()
	}
	if req.Size == 0 {
		return nil, a.err.New("不能上传空文件", nil).ValidWithCtx()
	}

	a.log.WithFields(map[string]interface{}{
		"fileName": req.FileName,
		"size":     req.Size,
	}).Info("开始上传文件")

	// 存储键与提取码解耦，用uuid加原始扩展名
	objectKey := uuid.New().String() + strings.ToLower(filepath.Ext(req.FileName))

	storedObject, err := a.Storage.Put(ctx, objectKey, req.Reader, req.Size, req.ContentType)
	if err != nil {
		return nil, a.err.New("上传文件失败", err)
	}

	if storedObject.Size == 0 {
		a.deleteBlobQuiet(ctx, objectKey)
		return nil, a.err.New("不能上传空文件", nil).ValidWithCtx()
	}

	record := &model.TransferRecord{
		StorageMode: a.Storage.Mode(),
		ObjectKey:   objectKey,
		FileName:    req.FileName,
		Size:        storedObject.Size,
		SHA256:      storedObject.SHA256,
		ContentType: req.ContentType,
	}

	// 唯一性靠数据库唯一索引保证，不做先查后写
	inserted := false
	for i := 0; i < maxCodeRetries; i++ {
		code, err := a.genCode(a.codeLength)
		if err != nil {
			a.deleteBlobQuiet(ctx, objectKey)
			return nil, a.err.New("生成提取码失败", err)
		}

		record.Code = code
		err = a.Records.Insert(ctx, record)
		if err == nil {
			inserted = true
			break
		}
		if !errorc.IsDuplicate(err) {
			a.deleteBlobQuiet(ctx, objectKey)
			return nil, err
		}

		a.log.WithField("code", code).WithField("attempt", i+1).Warn("提取码冲突，换码重试")
	}

	if !inserted {
		a.deleteBlobQuiet(ctx, objectKey)
		return nil, a.err.New("生成唯一提取码失败（超过重试次数）", nil).Unavailable()
	}

	a.cacheSet(ctx, record)

	a.log.WithFields(map[string]interface{}{
		"code":      record.Code,
		"objectKey": objectKey,
		"sha256":    record.SHA256,
	}).Info("文件上传成功")

	return record, nil
}

// Download 按提取码下载文件
// 记录过期、不存在或文件已丢失都返回 NotFound；文件丢失时顺手删掉孤儿记录
func (a *App) Download(ctx context.Context, code string) (*model.TransferRecord, io.ReadCloser, error) {
	record, err := a.findActive(ctx, code)
	if err != nil {
		return nil, nil, err
	}

	exists, err := a.Storage.Exists(ctx, record.ObjectKey)
	if err != nil {
		return nil, nil, a.err.New("检查文件是否存在失败", err)
	}
	if !exists {
		return nil, nil, a.healOrphan(ctx, code)
	}

	reader, err := a.Storage.Open(ctx, record.ObjectKey)
	if err != nil {
		if errorc.IsNotFound(err) {
			// 检查和打开之间文件被清掉了
			return nil, nil, a.healOrphan(ctx, code)
		}
		return nil, nil, a.err.New("打开文件失败", err)
	}

	if err := a.Records.IncrementDownloadCount(ctx, record.ID); err != nil {
		a.log.WithErr(err).Error("更新下载次数失败")
		// 不阻断下载流程
	}

	return record, reader, nil
}

// Meta 按提取码查询记录元数据
// 与下载一样校验文件仍在，孤儿记录同样收敛到 NotFound
func (a *App) Meta(ctx context.Context, code string) (*model.TransferRecord, error) {
	record, err := a.findActive(ctx, code)
	if err != nil {
		return nil, err
	}

	exists, err := a.Storage.Exists(ctx, record.ObjectKey)
	if err != nil {
		return nil, a.err.New("检查文件是否存在失败", err)
	}
	if !exists {
		return nil, a.healOrphan(ctx, code)
	}

	return record, nil
}

// SweepExpired 清理过期记录及其文件，返回清理的记录数
// 先删文件再删记录，文件删不掉就留着记录等下一轮
func (a *App) SweepExpired(ctx context.Context) (int, error) {
	const batchSize = 100

	cutoff := time.Now().Add(-a.ttl)
	deleted := 0

	for {
		records, err := a.Records.ListExpired(ctx, cutoff, batchSize)
		if err != nil {
			return deleted, err
		}
		if len(records) == 0 {
			break
		}

		skipped := 0
		for _, record := range records {
			if err := a.Storage.Delete(ctx, record.ObjectKey); err != nil {
				a.log.WithField("code", record.Code).WithErr(err).Warn("删除过期文件失败，下轮重试")
				skipped++
				continue
			}

			if err := a.Records.DeleteRecord(ctx, record.ID); err != nil {
				a.log.WithField("code", record.Code).WithErr(err).Error("删除过期记录失败")
				skipped++
				continue
			}

			a.cacheDelete(ctx, record.Code)
			deleted++
		}

		// 整批都没删掉时退出，避免死循环
		if len(records) < batchSize || skipped == len(records) {
			break
		}
	}

	if deleted > 0 {
		a.log.WithField("count", deleted).Info("过期记录清理完成")
	}

	return deleted, nil
}

// findActive 查找未过期的记录，优先走元数据缓存
func (a *App) findActive(ctx context.Context, code string) (*model.TransferRecord, error) {
	if code == "" {
		return nil, a.err.New("闪传记录不存在或已过期", nil).NotFound()
	}

	if cached := a.cacheGet(ctx, code); cached != nil {
		if !cached.IsExpired(time.Now(), a.ttl) {
			return cached, nil
		}
		a.cacheDelete(ctx, code)
	}

	record, err := a.Records.FindActiveByCode(ctx, code, time.Now().Add(-a.ttl))
	if err != nil {
		return nil, err
	}

	a.cacheSet(ctx, record)
	return record, nil
}

// healOrphan 文件已丢失，删除孤儿记录并返回 NotFound
func (a *App) healOrphan(ctx context.Context, code string) error {
	a.log.WithField("code", code).Warn("文件已丢失，清理孤儿记录")

	if err := a.Records.DeleteByCode(ctx, code); err != nil {
		a.log.WithErr(err).Error("清理孤儿记录失败")
	}
	a.cacheDelete(ctx, code)

	return a.err.New("闪传记录不存在或已过期", nil).NotFound()
}

// deleteBlobQuiet 回收已上传的文件，失败只打日志
func (a *App) deleteBlobQuiet(ctx context.Context, objectKey string) {
	if err := a.Storage.Delete(ctx, objectKey); err != nil {
		a.log.WithField("objectKey", objectKey).WithErr(err).Warn("回收文件失败")
	}
}
