package storage

import (
	"context"
	"time"

	"apkdist/pkg/core/logger"
	"apkdist/pkg/s3"
)

// S3Storage S3 协议存储实现
type S3Storage struct {
	s3Service *s3.Service
	log       *logger.Log
}

// NewS3Storage 创建 S3 存储实例
func NewS3Storage(s3Service *s3.Service, log *logger.Log) *S3Storage {
	return &S3Storage{
		s3Service: s3Service,
		log:       log.WithEntryName("S3Storage"),
	}
}

func (s *S3Storage) Mode() string {
	return "s3"
}

func (s *S3Storage) PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*PresignedUpload, error) {
	u, err := s.s3Service.GetUploadUrl(ctx, key, contentType, ttl)
	if err != nil {
		return nil, err
	}
	return &PresignedUpload{URL: u.URL, Headers: u.Headers}, nil
}

func (s *S3Storage) Exists(ctx context.Context, key string) (bool, error) {
	return s.s3Service.Exists(ctx, key)
}

func (s *S3Storage) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	return s.s3Service.GetDownloadUrl(ctx, key, ttl)
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	return s.s3Service.DeleteFile(ctx, key)
}

func (s *S3Storage) List(ctx context.Context, prefix string) ([]*StoredObject, error) {
	objects, err := s.s3Service.ListFiles(ctx, prefix)
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
	}).Debug("列举 S3 对象")
	return list, nil
}
