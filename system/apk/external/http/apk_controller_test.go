package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"apkdist/pkg/core/config"
	"apkdist/pkg/core/fiber_handle"
	"apkdist/pkg/core/logger"
	"apkdist/system/apk/internal/app"
	"apkdist/system/apk/internal/model"
	"apkdist/system/apk/internal/service/storage"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const adminToken = "test-admin-token"

// bucketServer 模拟 S3 桶，只处理预签名 PUT 和 DELETE
type bucketServer struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (b *bucketServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.URL.Path, "/apks/")
	b.mu.Lock()
	defer b.mu.Unlock()
	switch r.Method {
	case http.MethodPut:
		if r.URL.Query().Get("X-Amz-Signature") == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		// 签名包含 Content-Type 时请求头必须一致
		if strings.Contains(r.URL.Query().Get("X-Amz-SignedHeaders"), "content-type") &&
			r.Header.Get("Content-Type") != model.ContentType {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		data, _ := io.ReadAll(r.Body)
		b.objects[key] = data
		w.WriteHeader(http.StatusOK)
	case http.MethodHead:
		data, ok := b.objects[key]
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Length", fmt.Sprint(len(data)))
		w.Header().Set("Last-Modified", time.Now().UTC().Format(http.TimeFormat))
		w.Header().Set("ETag", `"etag"`)
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(b.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *bucketServer) get(key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.objects[key]
	return data, ok
}

type envelope struct {
	Status  int             `json:"status"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Details *string         `json:"details"`
}

func setupServer(t *testing.T, showDetails bool) (*fiber.App, *bucketServer) {
	bucket := &bucketServer{objects: map[string][]byte{}}
	srv := httptest.NewServer(bucket)
	t.Cleanup(srv.Close)

	log := logger.GetLogger()
	store, err := storage.NewObjectStore(config.StorageConfig{
		Driver:    config.StorageDriverS3,
		Endpoint:  srv.URL,
		Region:    "us-east-1",
		AccessKey: "key-id",
		SecretKey: "secret",
		Bucket:    "apks",
		PathStyle: true,
	}, log)
	require.NoError(t, err)

	db, err := config.InitSqlite(config.Database{Driver: config.DBDriverSqlite, DSN: "file::memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&model.ApkVersion{}))

	cfg := config.DefaultApkConfig()
	cfg.MaxFileSize = 1024
	apkApp := app.NewApp(db, store, storage.NewPresignedTransfer(log), cfg, log)

	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: fiber_handle.NewErrHandler(showDetails),
		JSONEncoder:  jsoniter.Marshal,
		JSONDecoder:  jsoniter.Unmarshal,
	})
	fiberApp.Use(fiber_handle.NewTracer())
	NewApkController(apkApp, fiber_handle.AdminToken(adminToken)).
		RegisterRoutes(fiberApp.Group("/api"), fiberApp.Group("/admin"))
	return fiberApp, bucket
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) (int, envelope) {
	resp, err := app.Test(req, int((10 * time.Second).Milliseconds()))
	require.NoError(t, err)
	defer resp.Body.Close()

	var body envelope
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, &body), string(raw))
	return resp.StatusCode, body
}

func publishRequest(t *testing.T, version, notes string, fileName string, data []byte, token string) *http.Request {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	require.NoError(t, w.WriteField("version", version))
	require.NoError(t, w.WriteField("releaseNotes", notes))
	if data != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="apk"; filename="%s"`, fileName))
		h.Set("Content-Type", "application/vnd.android.package-archive")
		part, err := w.CreatePart(h)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/admin/apk/versions", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func TestApkController_Lifecycle(t *testing.T) {
	fiberApp, bucket := setupServer(t, true)
	apk := []byte("PK\x03\x04first build")

	// 空库
	status, body := doRequest(t, fiberApp, httptest.NewRequest(http.MethodGet, "/api/apk/versions/latest", nil))
	assert.Equal(t, 200, status)
	assert.Equal(t, "null", string(body.Data))

	// 未带令牌
	status, _ = doRequest(t, fiberApp, publishRequest(t, "1.0.0", "first", "app.apk", apk, ""))
	assert.Equal(t, 401, status)

	// 发布
	status, body = doRequest(t, fiberApp, publishRequest(t, "1.0.0", "first", "app.apk", apk, adminToken))
	require.Equal(t, 201, status, body.Error)
	var created model.ApkVersion
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "1.0.0", created.Version)
	assert.Equal(t, "first", created.ReleaseNotes)
	assert.NotZero(t, created.ID)

	stored, ok := bucket.get("app-v1.0.0.apk")
	require.True(t, ok)
	assert.Equal(t, apk, stored)

	// 重复发布
	status, body = doRequest(t, fiberApp, publishRequest(t, "1.0.0", "again", "app.apk", []byte("PK\x03\x04other"), adminToken))
	assert.Equal(t, 409, status)
	assert.NotEmpty(t, body.Error)
	require.NotNil(t, body.Details)
	stored, _ = bucket.get("app-v1.0.0.apk")
	assert.Equal(t, apk, stored)

	// 最新版本附带下载 URL
	status, body = doRequest(t, fiberApp, httptest.NewRequest(http.MethodGet, "/api/apk/versions/latest", nil))
	assert.Equal(t, 200, status)
	var latest model.ApkVersion
	require.NoError(t, json.Unmarshal(body.Data, &latest))
	assert.Equal(t, "1.0.0", latest.Version)
	assert.Contains(t, latest.DownloadURL, "/apks/app-v1.0.0.apk")
	assert.Contains(t, latest.DownloadURL, "X-Amz-Expires=3600")

	// 列表
	status, body = doRequest(t, fiberApp, httptest.NewRequest(http.MethodGet, "/api/apk/versions", nil))
	assert.Equal(t, 200, status)
	var list []model.ApkVersion
	require.NoError(t, json.Unmarshal(body.Data, &list))
	require.Len(t, list, 1)

	// 移动端
	status, body = doRequest(t, fiberApp, httptest.NewRequest(http.MethodGet, "/api/apk/mobile/latest", nil))
	assert.Equal(t, 200, status)
	var mobile map[string]interface{}
	require.NoError(t, json.Unmarshal(body.Data, &mobile))
	assert.Equal(t, false, mobile["isForceUpdate"])
	assert.Contains(t, mobile["url"], "app-v1.0.0.apk")

	// 检查更新
	status, body = doRequest(t, fiberApp, httptest.NewRequest(http.MethodGet, "/api/apk/check-update?current=0.9.9", nil))
	assert.Equal(t, 200, status)
	assert.Contains(t, string(body.Data), `"update":true`)

	// 上传 URL
	req := httptest.NewRequest(http.MethodGet, "/admin/apk/upload-url?key=app-v2.0.0.apk", nil)
	req.Header.Set("Authorization", "Bearer "+adminToken)
	status, body = doRequest(t, fiberApp, req)
	assert.Equal(t, 200, status)
	assert.Contains(t, string(body.Data), "X-Amz-Expires=604800")

	// id 与版本号不一致时拒绝删除
	req = httptest.NewRequest(http.MethodDelete, "/admin/apk/versions",
		strings.NewReader(fmt.Sprintf(`{"version":"9.9.9","id":%d}`, created.ID)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	status, _ = doRequest(t, fiberApp, req)
	assert.Equal(t, 409, status)
	_, ok = bucket.get("app-v1.0.0.apk")
	assert.True(t, ok)

	// 删除
	req = httptest.NewRequest(http.MethodDelete, "/admin/apk/versions",
		strings.NewReader(fmt.Sprintf(`{"version":"1.0.0","id":%d}`, created.ID)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	status, body = doRequest(t, fiberApp, req)
	assert.Equal(t, 200, status, body.Error)
	_, ok = bucket.get("app-v1.0.0.apk")
	assert.False(t, ok)

	status, body = doRequest(t, fiberApp, httptest.NewRequest(http.MethodGet, "/api/apk/versions/latest", nil))
	assert.Equal(t, 200, status)
	assert.Equal(t, "null", string(body.Data))
}

func adminJSON(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	return req
}

func TestApkController_DirectUploadThenConfirm(t *testing.T) {
	fiberApp, bucket := setupServer(t, true)
	apk := []byte("PK\x03\x04direct build")

	// 未上传时登记失败
	status, _ := doRequest(t, fiberApp, adminJSON(http.MethodPost, "/admin/apk/versions/confirm",
		`{"version":"2.0.0","releaseNotes":"direct"}`))
	assert.Equal(t, 404, status)

	// 按版本号签发直传 URL
	status, body := doRequest(t, fiberApp, adminJSON(http.MethodGet, "/admin/apk/upload-url?version=2.0.0", ""))
	require.Equal(t, 200, status, body.Error)
	var upload struct {
		Key       string            `json:"key"`
		UploadUrl string            `json:"uploadUrl"`
		Headers   map[string]string `json:"headers"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &upload))
	assert.Equal(t, "app-v2.0.0.apk", upload.Key)
	assert.Equal(t, model.ContentType, upload.Headers["Content-Type"])

	// 客户端按返回的请求头直传
	put, err := http.NewRequest(http.MethodPut, upload.UploadUrl, bytes.NewReader(apk))
	require.NoError(t, err)
	for k, v := range upload.Headers {
		put.Header.Set(k, v)
	}
	resp, err := http.DefaultClient.Do(put)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stored, ok := bucket.get("app-v2.0.0.apk")
	require.True(t, ok)
	assert.Equal(t, apk, stored)

	// 登记
	status, body = doRequest(t, fiberApp, adminJSON(http.MethodPost, "/admin/apk/versions/confirm",
		`{"version":"2.0.0","releaseNotes":"direct"}`))
	require.Equal(t, 201, status, body.Error)
	var created model.ApkVersion
	require.NoError(t, json.Unmarshal(body.Data, &created))
	assert.Equal(t, "2.0.0", created.Version)

	// 重复登记
	status, _ = doRequest(t, fiberApp, adminJSON(http.MethodPost, "/admin/apk/versions/confirm",
		`{"version":"2.0.0","releaseNotes":"again"}`))
	assert.Equal(t, 409, status)

	// 参数校验
	status, _ = doRequest(t, fiberApp, adminJSON(http.MethodPost, "/admin/apk/versions/confirm",
		`{"version":"2.0","releaseNotes":"bad"}`))
	assert.Equal(t, 400, status)

	status, body = doRequest(t, fiberApp, httptest.NewRequest(http.MethodGet, "/api/apk/versions/latest", nil))
	assert.Equal(t, 200, status)
	assert.Contains(t, string(body.Data), `"version":"2.0.0"`)
}

func TestApkController_PublishValidation(t *testing.T) {
	fiberApp, bucket := setupServer(t, true)

	tests := []struct {
		name     string
		version  string
		notes    string
		fileName string
		data     []byte
		status   int
	}{
		{"版本号格式错误", "1.0", "notes", "app.apk", []byte("PK\x03\x04x"), 400},
		{"缺少更新说明", "1.0.0", "", "app.apk", []byte("PK\x03\x04x"), 400},
		{"缺少文件", "1.0.0", "notes", "", nil, 400},
		{"扩展名错误", "1.0.0", "notes", "app.ipa", []byte("PK\x03\x04x"), 415},
		{"文件过大", "1.0.0", "notes", "app.apk", append([]byte("PK\x03\x04"), make([]byte, 1024)...), 413},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := doRequest(t, fiberApp, publishRequest(t, tt.version, tt.notes, tt.fileName, tt.data, adminToken))
			assert.Equal(t, tt.status, status, body.Error)
			assert.NotEmpty(t, body.Error)
		})
	}
	assert.Empty(t, bucket.objects)
}

func TestApkController_ErrorDetailsHiddenInProd(t *testing.T) {
	fiberApp, _ := setupServer(t, false)

	status, body := doRequest(t, fiberApp, httptest.NewRequest(http.MethodGet, "/api/apk/download-url", nil))
	assert.Equal(t, 400, status)
	assert.NotEmpty(t, body.Error)
	assert.Nil(t, body.Details)
}

func TestApkController_DeleteValidation(t *testing.T) {
	fiberApp, _ := setupServer(t, true)

	req := httptest.NewRequest(http.MethodDelete, "/admin/apk/versions", strings.NewReader(`{"version":"1.0.0"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+adminToken)
	status, _ := doRequest(t, fiberApp, req)
	assert.Equal(t, 400, status)
}
