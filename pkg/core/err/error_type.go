package errorc

import (
	"fmt"
)

type Error struct {
	*ErrorCode
	Msg      string
	Cause    error  `json:"-"`
	TraceID  string `json:"traceId,omitempty"`
	Entry    string `json:"-"`
	FileName string `json:"-"`
	Line     int    `json:"-"`
	FuncName string `json:"-"`
}

type ErrorCode struct {
	Code int
	Name string
}

func (c *ErrorCode) String() string {
	return fmt.Sprintf("%d: %s", c.Code, c.Name)
}

// HTTPStatus 错误码对应的 HTTP 状态码
// 自定义的 5xx 细分码（如 501 DB）统一按 500 返回，502/503 保留
func (c *ErrorCode) HTTPStatus() int {
	if c == nil {
		return 500
	}
	switch {
	case c.Code >= 400 && c.Code < 500:
		return c.Code
	case c.Code == 502 || c.Code == 503:
		return c.Code
	default:
		return 500
	}
}

var (
	ErrorCodeUnknown          = &ErrorCode{500, "Unknown"}
	ErrorCodeDB               = &ErrorCode{501, "DB"}
	ErrorCodeThird            = &ErrorCode{502, "Third"}
	ErrorCodeValid            = &ErrorCode{400, "Valid"}
	ErrorCodeNoAuth           = &ErrorCode{401, "Unauthenticated"}
	ErrorCodeForbidden        = &ErrorCode{403, "Forbidden"}
	ErrorCodeNotFound         = &ErrorCode{404, "NotFound"}
	ErrorCodeConflict         = &ErrorCode{409, "Conflict"}
	ErrorCodeTooLarge         = &ErrorCode{413, "PayloadTooLarge"}
	ErrorCodeUnsupportedMedia = &ErrorCode{415, "UnsupportedMediaType"}
	ErrorCodeUnavailable      = &ErrorCode{503, "Unavailable"}
	ErrorCodeInternal         = &ErrorCode{500, "InternalError"}
)
