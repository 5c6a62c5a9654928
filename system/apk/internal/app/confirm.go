package app

import (
	"context"
	"strings"

	"apkdist/system/apk/internal/model"
	"apkdist/utils"
)

// ConfirmUpload 客户端通过 UploadURL 直传完成后登记版本
// 对象必须已经存在，否则不写入记录
func (a *App) ConfirmUpload(ctx context.Context, version, releaseNotes string) (*model.ApkVersion, error) {
	version = strings.TrimSpace(version)
	releaseNotes = strings.TrimSpace(releaseNotes)
	if !utils.IsSemver(version) {
		return nil, a.err.BadRequest("版本号必须是 x.y.z 格式").WithTraceID(ctx)
	}
	if releaseNotes == "" {
		return nil, a.err.BadRequest("更新说明不能为空").WithTraceID(ctx)
	}

	exists, err := a.ApkVersionSvc.Exists(ctx, version)
	if err != nil {
		return nil, a.err.New("查询版本是否存在失败", err).DB().WithTraceID(ctx)
	}
	if exists {
		return nil, a.err.New("版本 "+version+" 已存在", nil).Conflict().WithTraceID(ctx)
	}

	objectKey := model.ObjectKey(version)
	uploaded, err := a.Storage.Exists(ctx, objectKey)
	if err != nil {
		return nil, a.err.New("查询存储对象失败", err).Third().WithTraceID(ctx)
	}
	if !uploaded {
		return nil, a.err.New("对象 "+objectKey+" 尚未上传", nil).NotFound().WithTraceID(ctx)
	}

	record, err := a.saveVersion(ctx, version, releaseNotes)
	if err != nil {
		return nil, err
	}
	a.log.WithTrace(ctx).WithFields(map[string]interface{}{
		"id":        record.ID,
		"version":   version,
		"objectKey": objectKey,
	}).Info("直传版本登记成功")
	return record, nil
}
