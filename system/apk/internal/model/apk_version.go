package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ObjectKeyPrefix 对象存储中 APK 的 key 前缀
	ObjectKeyPrefix = "app-v"
	// ObjectKeySuffix 对象存储中 APK 的 key 后缀
	ObjectKeySuffix = ".apk"
	// ContentType 存储对象统一使用的 Content-Type，同时参与上传 URL 签名
	ContentType = "application/vnd.android.package-archive"
)

// ApkVersion 已发布的 APK 版本
// DownloadURL 不落库，每次读取时重新签发
type ApkVersion struct {
	ID            int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Version       string    `gorm:"size:32;not null;uniqueIndex" json:"version" comment:"版本号 x.y.z"`
	ReleaseNotes  string    `gorm:"type:text;not null" json:"releaseNotes" comment:"更新说明"`
	DownloadCount int64     `gorm:"not null;default:0" json:"downloadCount" comment:"下载次数，仅展示"`
	CreatedAt     time.Time `gorm:"not null;index" json:"createdAt"`
	LastUpdated   time.Time `gorm:"column:last_updated;not null" json:"lastUpdated"`
	DownloadURL   string    `gorm:"-" json:"downloadUrl,omitempty"`
}

func (ApkVersion) TableName() string {
	return "apk_version"
}

// ObjectKey 版本对应的存储 key
func (v *ApkVersion) ObjectKey() string {
	return ObjectKey(v.Version)
}

func ObjectKey(version string) string {
	return fmt.Sprintf("%s%s%s", ObjectKeyPrefix, version, ObjectKeySuffix)
}

// VersionFromKey 从存储 key 反解版本号，不符合命名规则时返回 false
func VersionFromKey(key string) (string, bool) {
	if !strings.HasPrefix(key, ObjectKeyPrefix) || !strings.HasSuffix(key, ObjectKeySuffix) {
		return "", false
	}
	v := strings.TrimSuffix(strings.TrimPrefix(key, ObjectKeyPrefix), ObjectKeySuffix)
	return v, v != ""
}
