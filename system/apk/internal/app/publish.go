package app

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	errorc "apkdist/pkg/core/err"
	"apkdist/system/apk/internal/model"
	"apkdist/utils"
)

// APK 允许的 Content-Type，浏览器无法识别时会发 octet-stream 或留空
var allowedContentTypes = map[string]bool{
	"application/vnd.android.package-archive": true,
	"application/octet-stream":                true,
	"":                                        true,
}

// APK 是 ZIP 格式，文件头为本地文件头签名
var zipMagic = []byte("PK\x03\x04")

// PublishRequest 发布新版本请求
type PublishRequest struct {
	Version      string
	ReleaseNotes string
	FileName     string
	ContentType  string
	Size         int64
	Reader       io.Reader
}

// Publish 发布新版本：校验 → 唯一性检查 → 签发上传 URL → 上传 → 写元数据
// 元数据写入失败时已上传的对象不会回滚，记录日志后交给对账任务处理
func (a *App) Publish(ctx context.Context, req *PublishRequest) (*model.ApkVersion, error) {
	log := a.log.WithTrace(ctx).WithFields(map[string]interface{}{
		"version":  req.Version,
		"fileName": req.FileName,
		"size":     req.Size,
	})
	log.Info("开始发布新版本")

	// 1. 校验，失败时不产生任何副作用
	body, err := a.validatePublish(req)
	if err != nil {
		return nil, errorc.ParseError(err).WithTraceID(ctx)
	}

	// 2. 唯一性检查
	exists, err := a.ApkVersionSvc.Exists(ctx, req.Version)
	if err != nil {
		return nil, a.err.New("查询版本是否存在失败", err).DB().WithTraceID(ctx)
	}
	if exists {
		return nil, a.err.New("版本 "+req.Version+" 已存在", nil).Conflict().WithTraceID(ctx)
	}

	// 3. 签发上传 URL
	objectKey := model.ObjectKey(req.Version)
	upload, err := a.Storage.PresignPut(ctx, objectKey, model.ContentType, a.Config.UploadTTL)
	if err != nil {
		return nil, a.err.New("签发上传URL失败", err).Third().WithTraceID(ctx)
	}

	// 4. 上传
	if err := a.Transfer.Transfer(ctx, upload, body, req.Size); err != nil {
		return nil, a.err.New("上传APK失败", err).Third().WithTraceID(ctx)
	}

	// 5. 写元数据
	record, err := a.saveVersion(ctx, req.Version, req.ReleaseNotes)
	if err != nil {
		return nil, err
	}

	log.WithFields(map[string]interface{}{
		"id":        record.ID,
		"objectKey": objectKey,
	}).Info("新版本发布成功")
	return record, nil
}

// saveVersion 对象已上传后写入版本记录
// 写入失败时对象成为孤儿对象，记录日志后由对账任务处理；版本号冲突保留 409
func (a *App) saveVersion(ctx context.Context, version, releaseNotes string) (*model.ApkVersion, error) {
	now := time.Now().UTC()
	record := &model.ApkVersion{
		Version:      version,
		ReleaseNotes: releaseNotes,
		CreatedAt:    now,
		LastUpdated:  now,
	}
	if err := a.ApkVersionSvc.Insert(ctx, record); err != nil {
		log := a.log.WithTrace(ctx).WithErr(err).WithFields(map[string]interface{}{
			"version":   version,
			"objectKey": model.ObjectKey(version),
		})
		if errorc.IsConflict(err) {
			log.Warn("版本已被并发发布，对象可能已被本次上传覆盖")
			return nil, a.err.New("版本 "+version+" 已存在", err).WithTraceID(ctx)
		}
		log.Error("写入版本记录失败，对象已上传成为孤儿对象")
		return nil, a.err.New("保存版本信息失败", err).DB().WithTraceID(ctx)
	}
	return record, nil
}

// validatePublish 校验请求并嗅探文件头，返回可以从头读取完整内容的 reader
func (a *App) validatePublish(req *PublishRequest) (io.Reader, error) {
	req.Version = strings.TrimSpace(req.Version)
	req.ReleaseNotes = strings.TrimSpace(req.ReleaseNotes)

	if req.Reader == nil || req.Size <= 0 {
		return nil, a.err.BadRequest("缺少APK文件")
	}
	if req.Version == "" {
		return nil, a.err.BadRequest("版本号不能为空")
	}
	if !utils.IsSemver(req.Version) {
		return nil, a.err.BadRequest("版本号必须是 x.y.z 格式")
	}
	if req.ReleaseNotes == "" {
		return nil, a.err.BadRequest("更新说明不能为空")
	}
	if !strings.EqualFold(filepath.Ext(req.FileName), model.ObjectKeySuffix) {
		return nil, a.err.New("只允许上传 .apk 文件", nil).UnsupportedMedia()
	}
	contentType := strings.ToLower(strings.TrimSpace(strings.SplitN(req.ContentType, ";", 2)[0]))
	if !allowedContentTypes[contentType] {
		return nil, a.err.New("不支持的文件类型 "+req.ContentType, nil).UnsupportedMedia()
	}
	req.ContentType = contentType
	if req.Size > a.Config.MaxFileSize {
		return nil, a.err.New("APK文件超过大小限制", nil).TooLarge()
	}

	head := make([]byte, len(zipMagic))
	if _, err := io.ReadFull(req.Reader, head); err != nil {
		return nil, a.err.New("读取APK文件失败", err).ValidWithCtx()
	}
	if !bytes.Equal(head, zipMagic) {
		return nil, a.err.New("文件内容不是有效的APK", nil).UnsupportedMedia()
	}
	return io.MultiReader(bytes.NewReader(head), req.Reader), nil
}
