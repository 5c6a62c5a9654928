package base

import (
	"apkdist/pkg/core/logger"
	"apkdist/pkg/core/start"
	"apkdist/pkg/scheduler"

	"gorm.io/gorm"
)

var (
	Configures *start.Configures
	Logger     *logger.Log
	ENV        string
	DB         *gorm.DB
	Scheduler  *scheduler.Scheduler
)
