package storage

import (
	"context"
	"time"

	"apkdist/pkg/core/logger"
	"apkdist/pkg/oss"
)

// OSSStorage 阿里云 OSS 存储实现
type OSSStorage struct {
	ossService *oss.AliyunService
	log        *logger.Log
}

// NewOSSStorage 创建 OSS 存储实例
func NewOSSStorage(ossService *oss.AliyunService, log *logger.Log) *OSSStorage {
	return &OSSStorage{
		ossService: ossService,
		log:        log.WithEntryName("OSSStorage"),
	}
}

func (s *OSSStorage) Mode() string {
	return "oss"
}

func (s *OSSStorage) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*PresignedUpload, error) {
	u, err := s.ossService.GetUploadUrl(ctx, key, contentType, ttl)
	if err != nil {
		return nil, err
	}
	return &PresignedUpload{URL: u.URL, Headers: u.Headers}, nil
}

func (s *OSSStorage) Exists(ctx context.Context, key string) (bool, error) {
	return s.ossService.Exists(ctx, key)
}

func (s *OSSStorage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return s.ossService.GetDownloadUrl(ctx, key, ttl)
}

func (s *OSSStorage) Delete(ctx context.Context, key string) error {
	return s.ossService.DeleteFile(ctx, key)
}

func (s *OSSStorage) List(ctx context.Context, prefix string) ([]*StoredObject, error) {
	objects, err := s.ossService.ListFiles(ctx, prefix)
	if err != nil {
		return nil, err
	}
	list := make([]*StoredObject, 0, len(objects))
	for _, obj := range objects {
		list = append(list, &StoredObject{Key: obj.Key, Size: obj.Size, LastModified: obj.LastModified})
	}
	s.log.WithTrace(ctx).WithFields(map[string]interface{}{
		"prefix": prefix,
		"count":  len(list),
	}).Debug("列举 OSS 对象")
	return list, nil
}
