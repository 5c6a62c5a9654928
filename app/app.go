package app

import (
	"apkdist/base"
	"apkdist/system/apk"
)

// App 应用组合根，持有各组件模块
// router 只依赖这里暴露的模块，不直接访问组件内部
type App struct {
	ApkModule *apk.Module
}

// NewApp 根据全局配置创建各组件模块，调用前需完成 base 的初始化
func NewApp() (*App, error) {
	apkModule, err := apk.NewModule(base.DB, base.Configures.Config.Storage, base.Configures.Config.Apk, base.Logger)
	if err != nil {
		return nil, err
	}
	return &App{ApkModule: apkModule}, nil
}
