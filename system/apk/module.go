package apk

import (
	"apkdist/pkg/core/config"
	"apkdist/pkg/core/logger"
	"apkdist/system/apk/internal/app"
	"apkdist/system/apk/internal/service/storage"

	"gorm.io/gorm"
)

// Module APK 组件模块门面（对外暴露的根对象）
type Module struct {
	// internalApp 内部应用实例，不对外暴露，仅供组件内部使用
	internalApp *app.App
	log         *logger.Log
}

// NewModule 创建 APK 模块实例，根据配置选择对象存储实现
func NewModule(db *gorm.DB, storageCfg config.StorageConfig, apkCfg config.ApkConfig, log *logger.Log) (*Module, error) {
	store, err := storage.NewObjectStore(storageCfg, log)
	if err != nil {
		return nil, err
	}
	log.WithField("mode", store.Mode()).Info("APK 对象存储初始化完成")

	return &Module{
		internalApp: app.NewApp(db, store, storage.NewPresignedTransfer(log), apkCfg, log),
		log:         log.WithEntryName("ApkModule"),
	}, nil
}
