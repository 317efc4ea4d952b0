package model

import (
	"time"

	"shanchuan/pkg/core/model/common"
)

// TransferRecord 闪传记录
// 一条记录对应一次上传，code 是对外的提取码，唯一索引保证并发写入不会撞码
type TransferRecord struct {
	common.Model
	Code          string `gorm:"type:varchar(16);uniqueIndex;not null" json:"code"` // 提取码
	StorageMode   string `gorm:"type:varchar(16);not null" json:"storageMode"`      // 存储模式：local/oss
	ObjectKey     string `gorm:"type:varchar(255);not null" json:"objectKey"`       // 存储键
	FileName      string `gorm:"type:varchar(255)" json:"fileName"`                 // 原始文件名
	Size          int64  `json:"size"`                                              // 文件大小（字节）
	SHA256        string `gorm:"type:varchar(64)" json:"sha256"`                    // 内容摘要
	ContentType   string `gorm:"type:varchar(128)" json:"contentType"`              // MIME 类型
	DownloadCount int64  `json:"downloadCount"`                                     // 下载次数
}

// TableName 指定表名
func (TransferRecord) TableName() string {
	return "transfer_record"
}

// ExpiresAt 记录的过期时间点
func (r *TransferRecord) ExpiresAt(ttl time.Duration) time.Time {
	return r.CreatedAt.Add(ttl)
}

// IsExpired 判断记录在给定时刻是否已过期
func (r *TransferRecord) IsExpired(now time.Time, ttl time.Duration) bool {
	return !now.Before(r.ExpiresAt(ttl))
}

// RemainingLifetime 剩余有效时长，已过期返回0
func (r *TransferRecord) RemainingLifetime(now time.Time, ttl time.Duration) time.Duration {
	remaining := r.ExpiresAt(ttl).Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
