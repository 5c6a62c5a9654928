package s3

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"apkdist/pkg/core/config"
	errorc "apkdist/pkg/core/err"
	"apkdist/pkg/core/logger"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectInfo 列举对象时返回的元信息
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// UploadUrl PUT 预签名结果，上传时必须原样带上 Headers
type UploadUrl struct {
	URL     string
	Headers map[string]string
}

// Service S3 协议对象存储服务，兼容 Backblaze B2、MinIO、Cloudflare R2 等
type Service struct {
	bucket string
	client *minio.Client
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewService 创建 S3 服务实例
// region 必须配置，否则预签名时 SDK 会发起网络请求查询桶所在区域
func NewService(cfg config.StorageConfig) (*Service, error) {
	log := logger.GetLogger().WithEntryName("S3Service")
	errBuilder := errorc.NewErrorBuilder("S3Service")

	if cfg.Endpoint == "" || cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" || cfg.Region == "" {
		return nil, errBuilder.New("S3 配置不完整", nil).ValidWithCtx().ToLog(log.Entry)
	}

	host, secure, err := parseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, errBuilder.New("S3 endpoint 格式错误", err).ValidWithCtx().ToLog(log.Entry)
	}

	lookup := minio.BucketLookupAuto
	if cfg.PathStyle {
		lookup = minio.BucketLookupPath
	}
	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: lookup,
	})
	if err != nil {
		return nil, errBuilder.New("创建 S3 客户端失败", err).ToLog(log.Entry)
	}

	log.WithFields(map[string]interface{}{
		"endpoint": host,
		"bucket":   cfg.Bucket,
	}).Info("S3 服务初始化完成")
	return &Service{
		bucket: cfg.Bucket,
		client: client,
		log:    log,
		err:    errBuilder,
	}, nil
}

// parseEndpoint 支持带 scheme 的 URL，也支持裸 host（默认 https）
func parseEndpoint(endpoint string) (string, bool, error) {
	if !strings.Contains(endpoint, "://") {
		return strings.TrimSuffix(endpoint, "/"), true, nil
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, err
	}
	if u.Host == "" {
		return "", false, url.InvalidHostError(endpoint)
	}
	return u.Host, u.Scheme != "http", nil
}

func trimKey(objectKey string) string {
	return strings.TrimPrefix(objectKey, "/")
}

// GetUploadUrl 生成 PUT 预签名 URL，contentType 非空时参与签名
func (s *Service) GetUploadUrl(ctx context.Context, objectKey, contentType string, expire time.Duration) (*UploadUrl, error) {
	headers := map[string]string{}
	extra := http.Header{}
	if contentType != "" {
		headers["Content-Type"] = contentType
		extra.Set("Content-Type", contentType)
	}
	u, err := s.client.PresignHeader(ctx, http.MethodPut, s.bucket, trimKey(objectKey), expire, nil, extra)
	if err != nil {
		return nil, s.err.New("生成 S3 上传URL失败", err).Third().WithTraceID(ctx)
	}
	return &UploadUrl{URL: u.String(), Headers: headers}, nil
}

// GetDownloadUrl 生成 GET 预签名 URL
func (s *Service) GetDownloadUrl(ctx context.Context, objectKey string, expire time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, trimKey(objectKey), expire, nil)
	if err != nil {
		return "", s.err.New("生成 S3 下载URL失败", err).Third().WithTraceID(ctx)
	}
	return u.String(), nil
}

// DeleteFile 删除文件，S3 对不存在的 key 同样返回成功
func (s *Service) DeleteFile(ctx context.Context, objectKey string) error {
	s.log.WithTrace(ctx).WithField("objectKey", objectKey).Info("删除 S3 文件")

	if err := s.client.RemoveObject(ctx, s.bucket, trimKey(objectKey), minio.RemoveObjectOptions{}); err != nil {
		return s.err.New("删除 S3 文件失败", err).Third().WithTraceID(ctx)
	}
	return nil
}

// Exists 判断对象是否存在
func (s *Service) Exists(ctx context.Context, objectKey string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, trimKey(objectKey), minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, s.err.New("查询 S3 文件失败", err).Third().WithTraceID(ctx)
}

// ListFiles 按前缀列举全部对象
func (s *Service) ListFiles(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	var objects []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, s.err.New("列举 S3 文件失败", obj.Err).Third().WithTraceID(ctx)
		}
		objects = append(objects, ObjectInfo{
			Key:          obj.Key,
			Size:         obj.Size,
			LastModified: obj.LastModified,
		})
	}
	return objects, nil
}
