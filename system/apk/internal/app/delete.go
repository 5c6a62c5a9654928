package app

import (
	"context"
	"strconv"
	"strings"

	errorc "apkdist/pkg/core/err"
	"apkdist/system/apk/internal/model"
	"apkdist/utils"
)

// Delete 删除对象与元数据
// 记录存在但版本号与 id 不匹配时直接拒绝，不做任何删除
// 两步互不阻塞，任一失败都会在返回的错误中说明
func (a *App) Delete(ctx context.Context, version string, id int64) error {
	version = strings.TrimSpace(version)
	if !utils.IsSemver(version) {
		return a.err.BadRequest("版本号必须是 x.y.z 格式").WithTraceID(ctx)
	}
	if id <= 0 {
		return a.err.BadRequest("id 无效").WithTraceID(ctx)
	}

	record, err := a.ApkVersionSvc.FindByID(ctx, id)
	if err != nil {
		return a.err.New("查询版本记录失败", err).DB().WithTraceID(ctx)
	}
	if record != nil && record.Version != version {
		return a.err.New("记录 "+strconv.FormatInt(id, 10)+" 的版本是 "+record.Version+"，与 "+version+" 不一致", nil).
			Conflict().WithTraceID(ctx)
	}

	objectKey := model.ObjectKey(version)
	log := a.log.WithTrace(ctx).WithFields(map[string]interface{}{
		"version":   version,
		"id":        id,
		"objectKey": objectKey,
	})

	var failed []string
	var cause error

	if err := a.Storage.Delete(ctx, objectKey); err != nil {
		log.WithErr(err).Error("删除存储对象失败")
		failed = append(failed, "存储对象")
		cause = err
	}
	if err := a.ApkVersionSvc.DeleteByID(ctx, id); err != nil {
		log.WithErr(err).Error("删除版本记录失败")
		failed = append(failed, "版本记录")
		if cause == nil {
			cause = err
		}
	}

	if len(failed) > 0 {
		return a.err.New("删除失败: "+strings.Join(failed, "、"), cause).
			WithCode(errorc.ErrorCodeInternal).WithTraceID(ctx)
	}

	log.Info("版本已删除")
	return nil
}
