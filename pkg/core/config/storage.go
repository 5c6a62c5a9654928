package config

import "fmt"

// 对象存储驱动
const (
	StorageDriverS3  = "s3"
	StorageDriverOSS = "oss"
)

// StorageConfig 对象存储配置，s3 驱动兼容任意 S3 协议的服务（B2、MinIO、R2 等）
type StorageConfig struct {
	Driver    string `yaml:"driver"`
	Endpoint  string `yaml:"endpoint"` // s3 驱动必填，形如 https://s3.us-west-004.backblazeb2.com
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access-key"`
	SecretKey string `yaml:"secret-key"`
	Bucket    string `yaml:"bucket"`
	// PathStyle 使用 path-style 寻址（MinIO 等自建服务需要）
	PathStyle bool `yaml:"path-style"`
}

func (c StorageConfig) Validate() error {
	switch c.Driver {
	case StorageDriverS3:
		if c.Endpoint == "" {
			return fmt.Errorf("storage.endpoint 不能为空")
		}
	case StorageDriverOSS:
	default:
		return fmt.Errorf("不支持的存储驱动: %q", c.Driver)
	}
	if c.Region == "" {
		return fmt.Errorf("storage.region 不能为空")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("storage.access-key/secret-key 不能为空")
	}
	if c.Bucket == "" {
		return fmt.Errorf("storage.bucket 不能为空")
	}
	return nil
}
