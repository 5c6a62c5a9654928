package http

import (
	errorc "apkdist/pkg/core/err"
	"apkdist/pkg/core/logger"
	"apkdist/pkg/core/result"
	"apkdist/pkg/core/util"
	"apkdist/system/apk/internal/app"
	"apkdist/system/apk/internal/model/dto"
	"apkdist/utils"

	"github.com/gofiber/fiber/v2"
)

// ApkController APK 发布与下载控制器
type ApkController struct {
	app       *app.App
	adminAuth fiber.Handler
	log       *logger.Log
	err       *errorc.ErrorBuilder
}

// NewApkController 创建 APK 控制器实例
func NewApkController(app *app.App, adminAuth fiber.Handler) *ApkController {
	return &ApkController{
		app:       app,
		adminAuth: adminAuth,
		log:       logger.GetLogger().WithEntryName("ApkController"),
		err:       errorc.NewErrorBuilder("ApkController"),
	}
}

// RegisterRoutes 注册 APK 相关路由
func (c *ApkController) RegisterRoutes(api, admin fiber.Router) {
	// 公开接口
	pub := api.Group("/apk")
	pub.Get("/versions/latest", c.Latest)
	pub.Get("/versions", c.List)
	pub.Get("/mobile/latest", c.MobileLatest)
	pub.Get("/check-update", c.CheckUpdate)
	pub.Get("/download-url", c.DownloadURL)

	// 后台接口
	mgr := admin.Group("/apk", c.adminAuth)
	mgr.Post("/versions", c.Publish)
	mgr.Post("/versions/confirm", c.ConfirmUpload)
	mgr.Delete("/versions", c.Delete)
	mgr.Get("/upload-url", c.UploadURL)
	mgr.Get("/reconcile", c.Reconcile)
}

// Latest 最新版本，没有版本时 data 为 null
func (c *ApkController) Latest(ctx *fiber.Ctx) error {
	record, err := c.app.Latest(util.Context(ctx))
	return result.Once(ctx, record, err)
}

// List 全部版本
func (c *ApkController) List(ctx *fiber.Ctx) error {
	list, err := c.app.List(util.Context(ctx))
	return result.Once(ctx, list, err)
}

// MobileLatest 移动端最新版本
func (c *ApkController) MobileLatest(ctx *fiber.Ctx) error {
	latest, err := c.app.MobileLatest(util.Context(ctx))
	return result.Once(ctx, latest, err)
}

// CheckUpdate 检查是否有新版本
func (c *ApkController) CheckUpdate(ctx *fiber.Ctx) error {
	resp, err := c.app.CheckUpdate(util.Context(ctx), ctx.Query("current"))
	return result.Once(ctx, resp, err)
}

// DownloadURL 签发下载 URL
func (c *ApkController) DownloadURL(ctx *fiber.Ctx) error {
	url, err := c.app.DownloadURL(util.Context(ctx), ctx.Query("key"))
	if err != nil {
		return err
	}
	return result.OK(ctx, dto.DownloadUrlResponse{DownloadUrl: url})
}

// UploadURL 签发上传 URL，query: key 或 version
func (c *ApkController) UploadURL(ctx *fiber.Ctx) error {
	resp, err := c.app.UploadURL(util.Context(ctx), ctx.Query("key"), ctx.Query("version"))
	return result.Once(ctx, resp, err)
}

// ConfirmUpload 直传完成后登记版本，body: {version, releaseNotes}
func (c *ApkController) ConfirmUpload(ctx *fiber.Ctx) error {
	var req dto.ConfirmUploadRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	record, err := c.app.ConfirmUpload(util.Context(ctx), req.Version, req.ReleaseNotes)
	if err != nil {
		return err
	}
	return result.Created(ctx, record)
}

// Publish 上传并发布新版本
// multipart 字段：apk 文件、version、releaseNotes
func (c *ApkController) Publish(ctx *fiber.Ctx) error {
	var form dto.PublishForm
	if err := ctx.BodyParser(&form); err != nil {
		return c.err.New("解析表单失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&form); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	file, err := ctx.FormFile("apk")
	if err != nil {
		return c.err.New("缺少APK文件", err).ValidWithCtx()
	}
	src, err := file.Open()
	if err != nil {
		return c.err.New("打开上传文件失败", err).ValidWithCtx()
	}
	defer src.Close()

	req := &app.PublishRequest{
		Version:      form.Version,
		ReleaseNotes: form.ReleaseNotes,
		FileName:     file.Filename,
		ContentType:  file.Header.Get(fiber.HeaderContentType),
		Size:         file.Size,
		Reader:       src,
	}
	record, err := c.app.Publish(util.Context(ctx), req)
	if err != nil {
		return err
	}
	return result.Created(ctx, record)
}

// Delete 删除版本，body: {version, id}
func (c *ApkController) Delete(ctx *fiber.Ctx) error {
	var req dto.DeleteVersionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return c.err.New("解析请求体失败", err).ValidWithCtx()
	}
	if msg, err := utils.Validate(&req); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	err := c.app.Delete(util.Context(ctx), req.Version, req.ID)
	return result.Once(ctx, fiber.Map{"version": req.Version, "id": req.ID}, err)
}

// Reconcile 存储对账，remove=true 时清理过期孤儿对象
func (c *ApkController) Reconcile(ctx *fiber.Ctx) error {
	report, err := c.app.Reconcile(util.Context(ctx), ctx.QueryBool("remove", false))
	return result.Once(ctx, report, err)
}
