package app

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strings"
	"sync"
	"time"

	"apkdist/system/apk/internal/service/storage"
)

type presignCall struct {
	method      string
	key         string
	contentType string
	ttl         time.Duration
}

// memStore 内存对象存储，记录每次调用
type memStore struct {
	mu        sync.Mutex
	objects   map[string][]byte
	modified  map[string]time.Time
	presigns  []presignCall
	deletes   []string
	deleteErr error
}

func newMemStore() *memStore {
	return &memStore{
		objects:  map[string][]byte{},
		modified: map[string]time.Time{},
	}
}

func (m *memStore) Mode() string { return "memory" }

func (m *memStore) presign(method, key, contentType string, ttl time.Duration) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.presigns = append(m.presigns, presignCall{method: method, key: key, contentType: contentType, ttl: ttl})
	return fmt.Sprintf("https://mem.local/%s?method=%s&expires=%d&ct=%s",
		url.PathEscape(key), method, int64(ttl.Seconds()), url.QueryEscape(contentType))
}

// PresignPut 与真实存储一样把 Content-Type 写进签名
func (m *memStore) PresignPut(_ context.Context, key, contentType string, ttl time.Duration) (*storage.PresignedUpload, error) {
	return &storage.PresignedUpload{
		URL:     m.presign("PUT", key, contentType, ttl),
		Headers: map[string]string{"Content-Type": contentType},
	}, nil
}

func (m *memStore) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return m.presign("GET", key, "", ttl), nil
}

func (m *memStore) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deletes = append(m.deletes, key)
	if m.deleteErr != nil {
		return m.deleteErr
	}
	delete(m.objects, key)
	delete(m.modified, key)
	return nil
}

func (m *memStore) List(_ context.Context, prefix string) ([]*storage.StoredObject, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var list []*storage.StoredObject
	for k, v := range m.objects {
		if strings.HasPrefix(k, prefix) {
			list = append(list, &storage.StoredObject{Key: k, Size: int64(len(v)), LastModified: m.modified[k]})
		}
	}
	return list, nil
}

func (m *memStore) put(key string, data []byte, at time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = data
	m.modified[key] = at
}

func (m *memStore) checksum(key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func (m *memStore) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.presigns) + len(m.deletes)
}

// memTransfer 把 PUT URL 中的 key 写入 memStore
type memTransfer struct {
	store *memStore
	err   error
	count int
}

func (t *memTransfer) Transfer(_ context.Context, upload *storage.PresignedUpload, body io.Reader, size int64) error {
	t.count++
	if t.err != nil {
		return t.err
	}
	u, err := url.Parse(upload.URL)
	if err != nil {
		return err
	}
	if u.Query().Get("method") != "PUT" {
		return fmt.Errorf("not a PUT url: %s", upload.URL)
	}
	if got := upload.Headers["Content-Type"]; got != u.Query().Get("ct") {
		return fmt.Errorf("content type %q does not match signed %q", got, u.Query().Get("ct"))
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	if int64(len(data)) != size {
		return fmt.Errorf("size mismatch: %d != %d", len(data), size)
	}
	t.store.put(strings.TrimPrefix(u.Path, "/"), data, time.Now())
	return nil
}
