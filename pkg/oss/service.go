package oss

import (
	"context"
	"strings"
	"time"

	"apkdist/pkg/core/config"
	errorc "apkdist/pkg/core/err"
	"apkdist/pkg/core/logger"

	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss"
	"github.com/aliyun/alibabacloud-oss-go-sdk-v2/oss/credentials"
)

// ObjectInfo 列举对象时返回的元信息
type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// UploadUrl PUT 预签名结果
// OSS V4 签名默认包含 Content-Type，上传时必须原样带上 Headers
type UploadUrl struct {
	URL     string
	Headers map[string]string
}

// AliyunService 阿里云OSS服务实现
type AliyunService struct {
	bucket string
	client *oss.Client
	log    *logger.Log
	err    *errorc.ErrorBuilder
}

// NewAliyunService 创建阿里云OSS服务实例，endpoint 为空时按 region 推导
func NewAliyunService(cfg config.StorageConfig) (*AliyunService, error) {
	log := logger.GetLogger().WithEntryName("AliyunOSSService")
	errBuilder := errorc.NewErrorBuilder("AliyunOSSService")

	if cfg.AccessKey == "" || cfg.SecretKey == "" || cfg.Bucket == "" || cfg.Region == "" {
		return nil, errBuilder.New("阿里云配置不完整", nil).ValidWithCtx().ToLog(log.Entry)
	}

	provider := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	ossCfg := oss.LoadDefaultConfig().
		WithCredentialsProvider(provider).
		WithRegion(cfg.Region)
	if cfg.Endpoint != "" {
		ossCfg = ossCfg.WithEndpoint(cfg.Endpoint)
	}

	log.WithField("bucket", cfg.Bucket).Info("阿里云OSS服务初始化完成")
	return &AliyunService{
		bucket: cfg.Bucket,
		client: oss.NewClient(ossCfg),
		log:    log,
		err:    errBuilder,
	}, nil
}

// 保证objectKey不以"/"开头
func trimKey(objectKey string) string {
	return strings.TrimPrefix(objectKey, "/")
}

// GetUploadUrl 生成 PUT 预签名 URL，签名在本地完成
func (s *AliyunService) GetUploadUrl(ctx context.Context, objectKey, contentType string, expire time.Duration) (*UploadUrl, error) {
	request := &oss.PutObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(trimKey(objectKey)),
	}
	if contentType != "" {
		request.ContentType = oss.Ptr(contentType)
	}
	result, err := s.client.Presign(ctx, request, oss.PresignExpires(expire))
	if err != nil {
		return nil, s.err.New("生成阿里云上传URL失败", err).Third().WithTraceID(ctx)
	}
	headers := map[string]string{}
	for k, v := range result.SignedHeaders {
		headers[k] = v
	}
	return &UploadUrl{URL: result.URL, Headers: headers}, nil
}

// GetDownloadUrl 生成 GET 预签名 URL
func (s *AliyunService) GetDownloadUrl(ctx context.Context, objectKey string, expire time.Duration) (string, error) {
	request := &oss.GetObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(trimKey(objectKey)),
	}
	result, err := s.client.Presign(ctx, request, oss.PresignExpires(expire))
	if err != nil {
		return "", s.err.New("生成阿里云下载URL失败", err).Third().WithTraceID(ctx)
	}
	return result.URL, nil
}

// DeleteFile 删除文件，文件不存在时 OSS 同样返回成功
func (s *AliyunService) DeleteFile(ctx context.Context, objectKey string) error {
	s.log.WithTrace(ctx).WithField("objectKey", objectKey).Info("删除阿里云文件")

	request := &oss.DeleteObjectRequest{
		Bucket: oss.Ptr(s.bucket),
		Key:    oss.Ptr(trimKey(objectKey)),
	}
	if _, err := s.client.DeleteObject(ctx, request); err != nil {
		return s.err.New("删除阿里云文件失败", err).Third().WithTraceID(ctx)
	}
	return nil
}

// Exists 判断对象是否存在
func (s *AliyunService) Exists(ctx context.Context, objectKey string) (bool, error) {
	exist, err := s.client.IsObjectExist(ctx, s.bucket, trimKey(objectKey))
	if err != nil {
		return false, s.err.New("查询阿里云文件失败", err).Third().WithTraceID(ctx)
	}
	return exist, nil
}

// ListFiles 按前缀列举全部对象
func (s *AliyunService) ListFiles(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	p := s.client.NewListObjectsV2Paginator(&oss.ListObjectsV2Request{
		Bucket: oss.Ptr(s.bucket),
		Prefix: oss.Ptr(prefix),
	})

	var objects []ObjectInfo
	for p.HasNext() {
		page, err := p.NextPage(ctx)
		if err != nil {
			return nil, s.err.New("列举阿里云文件失败", err).Third().WithTraceID(ctx)
		}
		for _, obj := range page.Contents {
			info := ObjectInfo{Key: oss.ToString(obj.Key), Size: obj.Size}
			if obj.LastModified != nil {
				info.LastModified = *obj.LastModified
			}
			objects = append(objects, info)
		}
	}
	return objects, nil
}
