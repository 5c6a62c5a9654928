package service

import (
	"context"

	errorc "apkdist/pkg/core/err"
	"apkdist/pkg/core/logger"
	"apkdist/system/apk/internal/dao"
	"apkdist/system/apk/internal/model"
)

// ApkVersionService APK 版本元数据服务
type ApkVersionService struct {
	dao *dao.ApkVersionDao
	log *logger.Log
	err *errorc.ErrorBuilder
}

// NewApkVersionService 创建 APK 版本服务实例
func NewApkVersionService(dao *dao.ApkVersionDao, log *logger.Log) *ApkVersionService {
	return &ApkVersionService{
		dao: dao,
		log: log.WithEntryName("ApkVersionService"),
		err: errorc.NewErrorBuilder("ApkVersionService"),
	}
}

// Insert 写入版本记录
func (s *ApkVersionService) Insert(ctx context.Context, record *model.ApkVersion) error {
	return s.dao.Insert(ctx, record)
}

// Latest 最新版本，没有时返回 nil
func (s *ApkVersionService) Latest(ctx context.Context) (*model.ApkVersion, error) {
	return s.dao.Latest(ctx)
}

// All 全部版本，最新的在前
func (s *ApkVersionService) All(ctx context.Context) ([]*model.ApkVersion, error) {
	return s.dao.ListAll(ctx)
}

// Exists 版本号是否已发布
func (s *ApkVersionService) Exists(ctx context.Context, version string) (bool, error) {
	return s.dao.ExistsByVersion(ctx, version)
}

// FindByVersion 根据版本号查询
func (s *ApkVersionService) FindByVersion(ctx context.Context, version string) (*model.ApkVersion, error) {
	return s.dao.FindByVersion(ctx, version)
}

// FindByID 不存在时返回 nil
func (s *ApkVersionService) FindByID(ctx context.Context, id int64) (*model.ApkVersion, error) {
	return s.dao.FindByID(ctx, id)
}

// DeleteByID 不存在时为空操作
func (s *ApkVersionService) DeleteByID(ctx context.Context, id int64) error {
	return s.dao.DeleteByID(ctx, id)
}
