package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"apkdist/app"
	"apkdist/base"
	"apkdist/pkg/core/consts"
	"apkdist/pkg/core/start"
	"apkdist/pkg/core/system"
	"apkdist/pkg/core/util"
	"apkdist/pkg/scheduler"
	"apkdist/router"
	"apkdist/system/apk"

	"github.com/joho/godotenv"
)

func main() {
	env, filename := getBaseInfo()

	// .env 不存在时忽略，环境变量仍可直接注入
	_ = godotenv.Load()

	file, err := os.ReadFile(filename)
	if err != nil {
		panic(fmt.Sprintf("读取配置文件失败,因为：%v", err))
	}

	configures := start.NewConfigures(file, env)
	base.Configures = configures
	base.Logger = configures.Logger
	base.ENV = configures.Config.Env

	base.DB = configures.EnableDB()
	system.RegisterClose(func() {
		if sqlDB, err := base.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	// 执行数据库迁移
	if err := apk.AutoMigrate(base.DB, base.Logger); err != nil {
		configures.Logger.Panic(fmt.Sprintf("数据库迁移失败: %v", err))
	}

	base.Scheduler = scheduler.NewScheduler(base.Logger)

	if base.ENV == consts.EnvDev {
		// 开发环境下添加数据库保活任务，防止代理超时导致连接断开
		err := base.Scheduler.AddCronTask("数据库连接保活", "@every 10s", 5*time.Second, func(ctx context.Context) error {
			sqlDB, err := base.DB.DB()
			if err != nil {
				base.Logger.WithErr(err).Error("获取数据库连接失败")
				return err
			}
			if err := sqlDB.PingContext(ctx); err != nil {
				base.Logger.WithErr(err).Error("数据库Ping失败")
				return err
			}
			return nil
		})
		if err != nil {
			configures.Logger.Panic(fmt.Sprintf("添加数据库保活任务失败: %v", err))
		}
		base.Logger.Info("已启动数据库保活任务，每10秒执行一次")
	}

	// 创建应用组合根
	appRoot, err := app.NewApp()
	if err != nil {
		configures.Logger.Panic(fmt.Sprintf("初始化应用失败: %v", err))
	}

	// 注册对象存储对账任务
	if err := apk.ScheduleReconcile(appRoot.ApkModule, base.Scheduler, configures.Config.Apk.ReconcileCron); err != nil {
		configures.Logger.Panic(fmt.Sprintf("添加对账任务失败: %v", err))
	}

	base.Scheduler.Start()
	system.RegisterClose(base.Scheduler.Stop)

	// 创建 Fiber 应用
	fiberApp := app.GetApp()

	// 注册路由
	router.Register(appRoot, fiberApp, configures.Config.Apk.AdminToken)

	system.RegisterClose(util.CloseIdleConnections)
	system.RegisterClose(func() {
		if err := fiberApp.ShutdownWithTimeout(30 * time.Second); err != nil {
			base.Logger.WithErr(err).Error("关闭 HTTP 服务失败")
		}
	})

	done := make(chan struct{})
	go func() {
		sig := system.WaitSignal()
		base.Logger.WithField("signal", sig.String()).Info("服务已退出")
		close(done)
	}()

	if err := fiberApp.Listen(fmt.Sprintf(":%d", configures.Config.Port)); err != nil {
		configures.Logger.WithErr(err).Fatal("HTTP 服务异常退出")
	}
	// Listen 在 Shutdown 后返回，等待其余清理函数执行完
	<-done
}

func getBaseInfo() (string, string) {
	// 定义命令行参数
	env := flag.String("env", "dev", "环境配置 (dev, prod, test等)")
	configFile := flag.String("config", "", "配置文件路径，默认为 ./resources/{env}.yaml")

	// 解析命令行参数
	flag.Parse()

	// 如果没有指定配置文件路径，则使用默认路径
	var filename string
	if *configFile == "" {
		getwd, err := os.Getwd()
		if err != nil {
			panic(fmt.Sprintf("获取当前文件位置失败,因为：%v", err))
		}
		filename = getwd + "/resources/" + *env + ".yaml"
	} else {
		filename = *configFile
	}
	return *env, filename
}
