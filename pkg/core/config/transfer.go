package config

// TransferConfig 闪传组件配置
type TransferConfig struct {
	StorageMode          string `yaml:"storage-mode" validate:"omitempty,oneof=local oss" comment:"存储模式"` // 存储模式：local/oss
	LocalDir             string `yaml:"local-dir"`                                                        // 本地存储目录
	OSSPrefix            string `yaml:"oss-prefix"`                                                       // OSS key 前缀
	TTLHours             int    `yaml:"ttl-hours" validate:"gte=0" comment:"记录有效期"`                       // 记录有效期（小时），默认 24
	CodeLength           int    `yaml:"code-length" validate:"gte=0,lte=16" comment:"提取码长度"`              // 提取码长度，默认 8
	SweepIntervalMinutes int    `yaml:"sweep-interval-minutes" validate:"gte=0" comment:"清理任务间隔"`         // 过期清理任务间隔（分钟），默认 10
	MaxUploadMB          int    `yaml:"max-upload-mb" validate:"gte=0" comment:"上传体积上限"`                  // 上传体积上限（MB），默认 10
}
