package storage

import (
	"context"
	"io"
	"strings"

	errorc "apkdist/pkg/core/err"
	"apkdist/pkg/core/logger"
	"apkdist/pkg/core/util"

	"github.com/gofiber/fiber/v2"
)

// Transferer 将文件内容 PUT 到预签名 URL
type Transferer interface {
	Transfer(ctx context.Context, upload *PresignedUpload, body io.Reader, size int64) error
}

// PresignedTransfer 服务端直传实现
type PresignedTransfer struct {
	log *logger.Log
	err *errorc.ErrorBuilder
}

func NewPresignedTransfer(log *logger.Log) *PresignedTransfer {
	return &PresignedTransfer{
		log: log.WithEntryName("PresignedTransfer"),
		err: errorc.NewErrorBuilder("PresignedTransfer"),
	}
}

// Transfer 发送的请求头与签名时完全一致，未签名 Content-Type 时按 octet-stream 上传
func (t *PresignedTransfer) Transfer(ctx context.Context, upload *PresignedUpload, body io.Reader, size int64) error {
	headers := make([]util.Header, 0, len(upload.Headers)+1)
	hasContentType := false
	for k, v := range upload.Headers {
		if strings.EqualFold(k, fiber.HeaderContentType) {
			hasContentType = true
		}
		headers = append(headers, util.Header{Key: k, Value: v})
	}
	if !hasContentType {
		headers = append(headers, util.Header{Key: fiber.HeaderContentType, Value: fiber.MIMEOctetStream})
	}
	err := util.HttpPut(ctx, upload.URL, body, size, headers...)
	if err != nil {
		return t.err.New("上传文件到对象存储失败", err).Third().WithTraceID(ctx)
	}
	t.log.WithTrace(ctx).WithField("size", size).Info("文件上传到对象存储成功")
	return nil
}
