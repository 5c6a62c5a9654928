package dao

import (
	"context"

	errorc "apkdist/pkg/core/err"
	"apkdist/pkg/core/logger"
	"apkdist/pkg/core/mvc"
	"apkdist/system/apk/internal/model"

	"gorm.io/gorm"
)

// 最新版本按创建时间判定，时间相同按自增 ID
var newestFirst = []string{"created_at DESC", "id DESC"}

// ApkVersionDao APK 版本数据访问层
type ApkVersionDao struct {
	mvc.IBaseDao[model.ApkVersion]
	log *logger.Log
	err *errorc.ErrorBuilder
	db  *gorm.DB
}

// NewApkVersionDao 创建 APK 版本 DAO 实例
func NewApkVersionDao(db *gorm.DB, log *logger.Log) *ApkVersionDao {
	return &ApkVersionDao{
		IBaseDao: mvc.NewGormDao[model.ApkVersion](db),
		log:      log.WithEntryName("ApkVersionDao"),
		err:      errorc.NewErrorBuilder("ApkVersionDao"),
		db:       db,
	}
}

// Insert 写入新版本，版本号重复时返回 Conflict
func (d *ApkVersionDao) Insert(ctx context.Context, record *model.ApkVersion) error {
	if err := d.Create(ctx, record); err != nil {
		if errorc.IsConflict(err) {
			return d.err.New("版本已存在", err).Conflict()
		}
		return d.err.New("写入版本记录失败", err).DB()
	}
	return nil
}

// Latest 没有任何版本时返回 nil, nil
func (d *ApkVersionDao) Latest(ctx context.Context) (*model.ApkVersion, error) {
	record, err := d.FindFirstOrdered(ctx, newestFirst...)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, nil
		}
		return nil, d.err.New("查询最新版本失败", err).DB()
	}
	return record, nil
}

// ListAll 全部版本，最新的在前，没有记录时返回空切片
func (d *ApkVersionDao) ListAll(ctx context.Context) ([]*model.ApkVersion, error) {
	list, err := d.FindAllOrdered(ctx, newestFirst...)
	if err != nil {
		return nil, d.err.New("查询版本列表失败", err).DB()
	}
	return list, nil
}

// FindByID 记录不存在时返回 nil, nil
func (d *ApkVersionDao) FindByID(ctx context.Context, id int64) (*model.ApkVersion, error) {
	record, err := d.FindById(ctx, id)
	if err != nil {
		if errorc.IsNotFound(err) {
			return nil, nil
		}
		return nil, d.err.New("查询版本记录失败", err).DB()
	}
	return record, nil
}

// FindByVersion 根据版本号查询
func (d *ApkVersionDao) FindByVersion(ctx context.Context, version string) (*model.ApkVersion, error) {
	return d.FindOneByColumn(ctx, "version", version)
}

// ExistsByVersion 版本号是否已发布
func (d *ApkVersionDao) ExistsByVersion(ctx context.Context, version string) (bool, error) {
	return d.ExistsByColumn(ctx, "version", version)
}

// DeleteByID 记录不存在时视为成功
func (d *ApkVersionDao) DeleteByID(ctx context.Context, id int64) error {
	if err := d.DeleteById(ctx, id); err != nil {
		if errorc.IsNotFound(err) {
			d.log.WithTrace(ctx).WithField("id", id).Info("要删除的版本记录不存在，忽略")
			return nil
		}
		return d.err.New("删除版本记录失败", err).DB()
	}
	return nil
}
