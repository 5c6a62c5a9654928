package config

import (
	"fmt"
	"time"
)

// 预签名 URL 的最长有效期（S3 SigV4 / OSS V4 上限均为 7 天）
const MaxPresignTTL = 7 * 24 * time.Hour

// ApkConfig APK 发布相关配置
type ApkConfig struct {
	// MaxFileSize 单个 APK 的大小上限（字节）
	MaxFileSize int64 `yaml:"max-file-size"`
	// UploadTTL 上传 URL 有效期
	UploadTTL time.Duration `yaml:"upload-ttl"`
	// DownloadTTL 下载 URL 有效期
	DownloadTTL time.Duration `yaml:"download-ttl"`
	// AdminToken 后台接口令牌，为空则不校验
	AdminToken string `yaml:"admin-token"`
	// ReconcileCron 对账任务的 cron 表达式（秒级），为空则不启用
	ReconcileCron string `yaml:"reconcile-cron"`
	// OrphanGrace 孤儿对象的宽限期，未超过的不会被清理
	OrphanGrace time.Duration `yaml:"orphan-grace"`
}

// DefaultApkConfig 返回默认配置
func DefaultApkConfig() ApkConfig {
	return ApkConfig{
		MaxFileSize: 200 * 1024 * 1024,
		UploadTTL:   MaxPresignTTL,
		DownloadTTL: time.Hour,
		OrphanGrace: 24 * time.Hour,
	}
}

func (c ApkConfig) Validate() error {
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("apk.max-file-size 必须大于 0")
	}
	if c.UploadTTL <= 0 || c.UploadTTL > MaxPresignTTL {
		return fmt.Errorf("apk.upload-ttl 必须在 (0, 7d] 之间")
	}
	if c.DownloadTTL <= 0 || c.DownloadTTL > MaxPresignTTL {
		return fmt.Errorf("apk.download-ttl 必须在 (0, 7d] 之间")
	}
	if c.OrphanGrace < 0 {
		return fmt.Errorf("apk.orphan-grace 不能为负数")
	}
	return nil
}
