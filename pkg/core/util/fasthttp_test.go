package util

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHttpPut(t *testing.T) {
	var (
		gotMethod string
		gotQuery  string
		gotType   string
		gotBody   []byte
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
		gotType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	payload := []byte("PK\x03\x04apk-bytes")
	err := HttpPut(context.Background(), srv.URL+"/app-v1.0.0.apk?X-Amz-Expires=604800&X-Amz-Signature=abc",
		bytes.NewReader(payload), int64(len(payload)),
		Header{Key: "Content-Type", Value: "application/vnd.android.package-archive"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPut, gotMethod)
	assert.Equal(t, "X-Amz-Expires=604800&X-Amz-Signature=abc", gotQuery)
	assert.Equal(t, "application/vnd.android.package-archive", gotType)
	assert.Equal(t, payload, gotBody)
}

func TestHttpPut_Non2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.Copy(io.Discard, r.Body)
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte("SignatureDoesNotMatch"))
	}))
	defer srv.Close()

	err := HttpPut(context.Background(), srv.URL+"/k", bytes.NewReader([]byte("x")), 1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "403")
	assert.Contains(t, err.Error(), "SignatureDoesNotMatch")
}
