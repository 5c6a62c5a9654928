package dto

import (
	"time"

	"apkdist/system/apk/internal/model"
)

// PublishForm 发布新版本的表单字段，文件单独读取
type PublishForm struct {
	Version      string `form:"version" json:"version" validate:"required,semver"`
	ReleaseNotes string `form:"releaseNotes" json:"releaseNotes" validate:"required"`
}

// DeleteVersionRequest 删除版本
type DeleteVersionRequest struct {
	Version string `json:"version" validate:"required,semver"`
	ID      int64  `json:"id" validate:"required,gt=0"`
}

// UploadUrlResponse 直传 URL，客户端 PUT 时必须带上 headers 中的全部请求头
type UploadUrlResponse struct {
	Key       string            `json:"key"`
	UploadUrl string            `json:"uploadUrl"`
	Headers   map[string]string `json:"headers"`
}

// ConfirmUploadRequest 直传完成后登记版本
type ConfirmUploadRequest struct {
	Version      string `json:"version" validate:"required,semver"`
	ReleaseNotes string `json:"releaseNotes" validate:"required"`
}

type DownloadUrlResponse struct {
	DownloadUrl string `json:"downloadUrl"`
}

// MobileLatest 移动端自动更新使用的结构
type MobileLatest struct {
	ID            int64     `json:"id"`
	Version       string    `json:"version"`
	Url           string    `json:"url"`
	ReleaseNotes  string    `json:"releaseNotes"`
	LastUpdated   time.Time `json:"lastUpdated"`
	CreatedAt     time.Time `json:"createdAt"`
	IsForceUpdate bool      `json:"isForceUpdate"`
}

// CheckUpdateResponse 客户端版本检查结果
type CheckUpdateResponse struct {
	Update bool              `json:"update"`
	Latest *model.ApkVersion `json:"latest"`
}

// ReconcileReport 存储与元数据的对账结果
type ReconcileReport struct {
	CheckedAt      time.Time `json:"checkedAt"`
	ObjectCount    int       `json:"objectCount"`
	RecordCount    int       `json:"recordCount"`
	OrphanObjects  []string  `json:"orphanObjects"`
	MissingObjects []string  `json:"missingObjects"`
	RemovedObjects []string  `json:"removedObjects"`
	FailedObjects  []string  `json:"failedObjects"`
}
