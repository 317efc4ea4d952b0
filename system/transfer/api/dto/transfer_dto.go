package dto

import "time"

// UploadForm 上传表单校验
type UploadForm struct {
	FileName string `json:"fileName" validate:"required,max=255" comment:"文件名"`
	Size     int64  `json:"size" validate:"gt=0" comment:"文件大小"`
}

// TransferRecordDTO 闪传记录对外数据
type TransferRecordDTO struct {
	Code          string    `json:"code"`
	FileName      string    `json:"fileName"`
	Size          int64     `json:"size"`
	ContentType   string    `json:"contentType"`
	SHA256        string    `json:"sha256"`
	DownloadCount int64     `json:"downloadCount"`
	CreatedAt     time.Time `json:"createdAt"`
	ExpiresAt     time.Time `json:"expiresAt"`
}
