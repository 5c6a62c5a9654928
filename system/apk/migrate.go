package apk

import (
	"apkdist/pkg/core/logger"
	"apkdist/system/apk/internal/model"

	"gorm.io/gorm"
)

// AutoMigrate 执行 APK 组件的数据库迁移
func AutoMigrate(db *gorm.DB, log *logger.Log) error {
	log.Info("开始执行 APK 组件数据库迁移...")

	if err := db.AutoMigrate(&model.ApkVersion{}); err != nil {
		log.WithErr(err).Error("APK 组件数据库迁移失败")
		return err
	}

	log.Info("APK 组件数据库迁移完成")
	return nil
}
