package start

import (
	"fmt"
	"os"

	"apkdist/pkg/core/config"
	"apkdist/pkg/core/consts"
	"apkdist/pkg/core/logger"

	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

type Config struct {
	AppName  string               `yaml:"app-name"`
	Env      string               `yaml:"env"`
	Port     int                  `yaml:"port"`
	Log      config.LogConfig     `yaml:"log"`
	Database config.Database      `yaml:"db"`
	Storage  config.StorageConfig `yaml:"storage"`
	Apk      config.ApkConfig     `yaml:"apk"`
}

// 可以覆盖配置文件的环境变量，密钥类配置建议只放在环境变量中
var envOverrides = []struct {
	key string
	set func(c *Config, v string)
}{
	{"APK_STORAGE_DRIVER", func(c *Config, v string) { c.Storage.Driver = v }},
	{"APK_STORAGE_ENDPOINT", func(c *Config, v string) { c.Storage.Endpoint = v }},
	{"APK_STORAGE_REGION", func(c *Config, v string) { c.Storage.Region = v }},
	{"APK_STORAGE_ACCESS_KEY", func(c *Config, v string) { c.Storage.AccessKey = v }},
	{"APK_STORAGE_SECRET_KEY", func(c *Config, v string) { c.Storage.SecretKey = v }},
	{"APK_STORAGE_BUCKET", func(c *Config, v string) { c.Storage.Bucket = v }},
	{"APK_DB_DRIVER", func(c *Config, v string) { c.Database.Driver = v }},
	{"APK_DB_DSN", func(c *Config, v string) { c.Database.DSN = v }},
	{"APK_DB_PASSWORD", func(c *Config, v string) { c.Database.Password = v }},
	{"APK_ADMIN_TOKEN", func(c *Config, v string) { c.Apk.AdminToken = v }},
}

// LoadConfig 解析配置文件、应用环境变量覆盖、补默认值并校验
// 必填项缺失时直接返回错误，由启动流程终止进程
func LoadConfig(file []byte, env string) (*Config, error) {
	cfg := Config{
		Port:    8080,
		Storage: config.StorageConfig{Driver: config.StorageDriverS3},
		Database: config.Database{
			Driver: config.DBDriverPostgres,
		},
		Apk: config.DefaultApkConfig(),
	}
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}
	if env != "" {
		cfg.Env = env
	}
	if cfg.Env == "" {
		cfg.Env = consts.EnvDev
	}
	for _, o := range envOverrides {
		if v, ok := os.LookupEnv(o.key); ok && v != "" {
			o.set(&cfg, v)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Port <= 0 {
		return fmt.Errorf("port 配置无效: %d", c.Port)
	}
	if err := c.Storage.Validate(); err != nil {
		return err
	}
	if err := c.Database.Validate(); err != nil {
		return err
	}
	if err := c.Apk.Validate(); err != nil {
		return err
	}
	// 生产环境后台接口必须鉴权
	if c.IsProd() && c.Apk.AdminToken == "" {
		return fmt.Errorf("生产环境必须配置 apk.admin-token（或环境变量 APK_ADMIN_TOKEN）")
	}
	return nil
}

// IsProd 生产环境不向调用方暴露错误细节
func (c *Config) IsProd() bool {
	return c.Env == consts.EnvProd
}

type Configures struct {
	Config Config
	Logger *logger.Log
}

func NewConfigures(file []byte, env string) *Configures {
	cfg, err := LoadConfig(file, env)
	if err != nil {
		panic(fmt.Sprintf("加载配置失败，因为%v", err))
	}

	level := cfg.Log.Level
	if level == "" {
		level = "info"
		if !cfg.IsProd() {
			level = "debug"
		}
	}

	return &Configures{
		Config: *cfg,
		Logger: logger.InitLogger(level),
	}
}

func (c *Configures) EnableDB() *gorm.DB {
	db, err := config.Open(c.Config.Database)
	if err != nil {
		c.Logger.WithField("driver", c.Config.Database.Driver).WithErr(err).Panic("failed connect database")
	}
	c.Logger.WithField("driver", c.Config.Database.Driver).Info("connect database success")
	return db
}
