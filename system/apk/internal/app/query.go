package app

import (
	"context"
	"strings"

	"apkdist/system/apk/internal/model"
	"apkdist/system/apk/internal/model/dto"
	"apkdist/utils"
)

// Latest 最新版本并附带新签发的下载 URL，没有版本时返回 nil
func (a *App) Latest(ctx context.Context) (*model.ApkVersion, error) {
	record, err := a.ApkVersionSvc.Latest(ctx)
	if err != nil {
		return nil, a.err.New("查询最新版本失败", err).DB().WithTraceID(ctx)
	}
	if record == nil {
		return nil, nil
	}
	if err := a.fillDownloadURL(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// List 全部版本，最新的在前
func (a *App) List(ctx context.Context) ([]*model.ApkVersion, error) {
	list, err := a.ApkVersionSvc.All(ctx)
	if err != nil {
		return nil, a.err.New("查询版本列表失败", err).DB().WithTraceID(ctx)
	}
	for _, record := range list {
		if err := a.fillDownloadURL(ctx, record); err != nil {
			return nil, err
		}
	}
	return list, nil
}

// MobileLatest 移动端自动更新接口，没有版本时返回 nil
func (a *App) MobileLatest(ctx context.Context) (*dto.MobileLatest, error) {
	record, err := a.Latest(ctx)
	if err != nil || record == nil {
		return nil, err
	}
	return &dto.MobileLatest{
		ID:            record.ID,
		Version:       record.Version,
		Url:           record.DownloadURL,
		ReleaseNotes:  record.ReleaseNotes,
		LastUpdated:   record.LastUpdated,
		CreatedAt:     record.CreatedAt,
		IsForceUpdate: false,
	}, nil
}

// CheckUpdate 比较客户端当前版本与最新版本
func (a *App) CheckUpdate(ctx context.Context, current string) (*dto.CheckUpdateResponse, error) {
	current = strings.TrimSpace(current)
	if !utils.IsSemver(current) {
		return nil, a.err.BadRequest("current 必须是 x.y.z 格式的版本号").WithTraceID(ctx)
	}
	record, err := a.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return &dto.CheckUpdateResponse{Update: false}, nil
	}
	return &dto.CheckUpdateResponse{
		Update: utils.CompareVersion(record.Version, current) > 0,
		Latest: record,
	}, nil
}

// UploadURL 签发 PUT 预签名 URL，供客户端直接上传
// version 非空时按版本号生成 key，上传完成后调用 ConfirmUpload 写入版本记录
func (a *App) UploadURL(ctx context.Context, key, version string) (*dto.UploadUrlResponse, error) {
	key = strings.TrimSpace(key)
	version = strings.TrimSpace(version)
	if key == "" && version != "" {
		if !utils.IsSemver(version) {
			return nil, a.err.BadRequest("版本号必须是 x.y.z 格式").WithTraceID(ctx)
		}
		key = model.ObjectKey(version)
	}
	if key == "" {
		return nil, a.err.BadRequest("key 和 version 不能同时为空").WithTraceID(ctx)
	}
	upload, err := a.Storage.PresignPut(ctx, key, model.ContentType, a.Config.UploadTTL)
	if err != nil {
		return nil, a.err.New("签发上传URL失败", err).Third().WithTraceID(ctx)
	}
	return &dto.UploadUrlResponse{
		Key:       key,
		UploadUrl: upload.URL,
		Headers:   upload.Headers,
	}, nil
}

// DownloadURL 签发 GET 预签名 URL，不校验对象是否存在
func (a *App) DownloadURL(ctx context.Context, key string) (string, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return "", a.err.BadRequest("key 不能为空").WithTraceID(ctx)
	}
	url, err := a.Storage.PresignGet(ctx, key, a.Config.DownloadTTL)
	if err != nil {
		return "", a.err.New("签发下载URL失败", err).Third().WithTraceID(ctx)
	}
	return url, nil
}

func (a *App) fillDownloadURL(ctx context.Context, record *model.ApkVersion) error {
	url, err := a.Storage.PresignGet(ctx, record.ObjectKey(), a.Config.DownloadTTL)
	if err != nil {
		return a.err.New("签发下载URL失败", err).Third().WithTraceID(ctx)
	}
	record.DownloadURL = url
	return nil
}
