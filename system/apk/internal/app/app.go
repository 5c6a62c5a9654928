package app

import (
	"apkdist/pkg/core/config"
	errorc "apkdist/pkg/core/err"
	"apkdist/pkg/core/logger"
	"apkdist/system/apk/internal/dao"
	"apkdist/system/apk/internal/service"
	"apkdist/system/apk/internal/service/storage"

	"gorm.io/gorm"
)

// App APK 组件应用层
// 负责组合元数据服务与对象存储，实现发布、查询、删除、对账流程
type App struct {
	ApkVersionDao *dao.ApkVersionDao
	ApkVersionSvc *service.ApkVersionService

	Storage  storage.ObjectStore
	Transfer storage.Transferer

	Config config.ApkConfig

	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewApp 创建 APK 组件应用层实例，依赖全部由调用方注入
func NewApp(db *gorm.DB, store storage.ObjectStore, transfer storage.Transferer, cfg config.ApkConfig, log *logger.Log) *App {
	log = log.WithEntryName("ApkApp")

	apkVersionDao := dao.NewApkVersionDao(db, log)
	apkVersionSvc := service.NewApkVersionService(apkVersionDao, log)

	return &App{
		ApkVersionDao: apkVersionDao,
		ApkVersionSvc: apkVersionSvc,
		Storage:       store,
		Transfer:      transfer,
		Config:        cfg,
		log:           log,
		err:           errorc.NewErrorBuilder("ApkApp"),
	}
}
