package config

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// 元数据库驱动
const (
	DBDriverPostgres = "postgres"
	DBDriverMysql    = "mysql"
	DBDriverSqlite   = "sqlite"
)

type Database struct {
	Driver   string `yaml:"driver" json:"driver,omitempty"`
	DSN      string `yaml:"dsn" json:"-"` // 设置后优先于 host/port 等字段
	Host     string `yaml:"host" json:"host,omitempty"`
	Port     int64  `yaml:"port" json:"port,omitempty"`
	User     string `yaml:"user" json:"user,omitempty"`
	Password string `yaml:"password" json:"-"`
	DbName   string `yaml:"db-name" json:"db-name,omitempty"`
	SSLMode  string `yaml:"ssl-mode" json:"ssl-mode,omitempty"`
}

func (d Database) Validate() error {
	switch d.Driver {
	case DBDriverPostgres, DBDriverMysql:
		if d.DSN != "" {
			return nil
		}
		if d.Host == "" || d.User == "" || d.DbName == "" {
			return fmt.Errorf("db.host/user/db-name 不能为空（或直接配置 db.dsn）")
		}
	case DBDriverSqlite:
		if d.DSN == "" {
			return fmt.Errorf("sqlite 驱动需要配置 db.dsn")
		}
	default:
		return fmt.Errorf("不支持的数据库驱动: %q", d.Driver)
	}
	return nil
}

// gormConfig TranslateError 打开后唯一键冲突会被翻译为 gorm.ErrDuplicatedKey
func gormConfig() *gorm.Config {
	return &gorm.Config{TranslateError: true}
}

func InitPg(database Database) (*gorm.DB, error) {
	dsn := database.DSN
	if dsn == "" {
		sslMode := database.SSLMode
		if sslMode == "" {
			sslMode = "require"
		}
		dsn = fmt.Sprintf("host=%s port=%d user=%s dbname=%s sslmode=%s password=%s",
			database.Host, database.Port, database.User, database.DbName, sslMode, database.Password)
	}

	db, err := gorm.Open(postgres.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetMaxOpenConns(20)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

func InitMysql(database Database) (*gorm.DB, error) {
	dsn := database.DSN
	if dsn == "" {
		dsn = fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			database.User, database.Password, database.Host, database.Port, database.DbName)
	}
	return gorm.Open(mysql.Open(dsn), gormConfig())
}

// InitSqlite 本地开发使用，dsn 可以是文件路径或 file::memory:
// 内存库每个连接都是独立的库，因此限制为单连接
func InitSqlite(database Database) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(database.DSN), gormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}

// Open 根据驱动打开连接
func Open(database Database) (*gorm.DB, error) {
	switch database.Driver {
	case DBDriverPostgres:
		return InitPg(database)
	case DBDriverMysql:
		return InitMysql(database)
	case DBDriverSqlite:
		return InitSqlite(database)
	}
	return nil, fmt.Errorf("不支持的数据库驱动: %q", database.Driver)
}
