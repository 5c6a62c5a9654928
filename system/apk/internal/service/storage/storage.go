package storage

import (
	"context"
	"time"

	"apkdist/pkg/core/config"
	"apkdist/pkg/core/logger"
	"apkdist/pkg/oss"
	"apkdist/pkg/s3"
)

// StoredObject 存储对象元信息
type StoredObject struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// PresignedUpload PUT 预签名结果
// Headers 为参与签名的请求头，上传方必须原样发送，否则签名校验失败
type PresignedUpload struct {
	URL     string            `json:"uploadUrl"`
	Headers map[string]string `json:"headers"`
}

// ObjectStore 对象存储网关
// 每个操作只调用一次底层接口，不做重试
type ObjectStore interface {
	// PresignPut 签发 PUT 预签名 URL，签名在本地完成，不校验对象是否存在
	// contentType 会写入签名，上传时必须使用相同的值
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (*PresignedUpload, error)

	// PresignGet 签发 GET 预签名 URL，对象不存在时要到访问 URL 时才会失败
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)

	// Delete 删除对象，对象不存在视为成功
	Delete(ctx context.Context, key string) error

	// Exists 判断对象是否存在
	Exists(ctx context.Context, key string) (bool, error)

	// List 按前缀列举对象
	List(ctx context.Context, prefix string) ([]*StoredObject, error)

	// Mode 返回存储模式标识
	Mode() string
}

// NewObjectStore 根据配置创建存储实现
func NewObjectStore(cfg config.StorageConfig, log *logger.Log) (ObjectStore, error) {
	switch cfg.Driver {
	case config.StorageDriverOSS:
		svc, err := oss.NewAliyunService(cfg)
		if err != nil {
			return nil, err
		}
		return NewOSSStorage(svc, log), nil
	default:
		svc, err := s3.NewService(cfg)
		if err != nil {
			return nil, err
		}
		return NewS3Storage(svc, log), nil
	}
}
