package util

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/valyala/fasthttp"
)

type Header struct {
	Key   string
	Value string
}

// 上传大文件时写超时需要足够长
var client = &fasthttp.Client{
	Name:                     "apkdist",
	ReadTimeout:              2 * time.Minute,
	WriteTimeout:             30 * time.Minute,
	MaxIdleConnDuration:      time.Minute,
	NoDefaultUserAgentHeader: true,
	DisablePathNormalizing:   true,
}

type Http struct {
	Url      string
	Headers  []Header
	Response *fasthttp.Response
}

func NewHttp(url string, headers ...Header) *Http {
	return &Http{
		Url:     url,
		Headers: headers,
	}
}

// Put 以流的方式上传请求体，size 必须与实际长度一致
func (h *Http) Put(ctx context.Context, body io.Reader, size int64) error {
	request := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(request)
	response := fasthttp.AcquireResponse()

	request.Header.SetMethod(fasthttp.MethodPut)
	request.SetRequestURI(h.Url)
	request.URI().DisablePathNormalizing = true
	for _, header := range h.Headers {
		request.Header.Set(header.Key, header.Value)
	}
	request.SetBodyStream(body, int(size))

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = client.DoDeadline(request, response, deadline)
	} else {
		err = client.Do(request, response)
	}
	if err != nil {
		fasthttp.ReleaseResponse(response)
		return err
	}

	if code := response.StatusCode(); code < 200 || code >= 300 {
		body := string(response.Body())
		fasthttp.ReleaseResponse(response)
		return fmt.Errorf("PUT request failed, status code: %d, body: %s", code, body)
	}

	h.Response = response
	return nil
}

func (h *Http) Close() {
	if h.Response != nil {
		fasthttp.ReleaseResponse(h.Response)
		h.Response = nil
	}
}

// HttpPut 上传后直接释放响应
func HttpPut(ctx context.Context, uri string, body io.Reader, size int64, headers ...Header) error {
	h := NewHttp(uri, headers...)
	if err := h.Put(ctx, body, size); err != nil {
		return err
	}
	h.Close()
	return nil
}

// CloseIdleConnections 进程退出前关闭共享客户端的空闲连接
func CloseIdleConnections() {
	client.CloseIdleConnections()
}
