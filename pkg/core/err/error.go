package errorc

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"

	"apkdist/pkg/core/consts"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type ErrorBuilder struct {
	entryName string
}

func NewErrorBuilder(entryName string) *ErrorBuilder {
	return &ErrorBuilder{entryName: entryName}
}

// New 创建错误并记录调用位置，err 可以为 nil
func (e *ErrorBuilder) New(msg string, err error) *Error {
	stack := caller(2)
	stack.Msg = msg
	stack.Cause = err
	stack.Entry = e.entryName
	stack.ErrorCode = getErrCode(err)
	return stack
}

// New err or msg can nil
func New(msg string, err error) *Error {
	stack := caller(2)
	stack.Msg = msg
	stack.Cause = err
	stack.ErrorCode = getErrCode(err)
	return stack
}

func (e *Error) WithTraceID(ctx context.Context) *Error {
	if ctx == nil {
		return e
	}
	if traceID, ok := ctx.Value(consts.TraceKey).(string); ok {
		e.TraceID = traceID
	}
	return e
}

func (e *Error) WithCode(code *ErrorCode) *Error {
	e.ErrorCode = code
	return e
}

func (e *Error) DB() *Error {
	if e.Code == 404 || e.Code == 409 {
		return e
	}
	e.ErrorCode = ErrorCodeDB
	return e
}

func (e *Error) Third() *Error {
	e.ErrorCode = ErrorCodeThird
	return e
}

func (e *Error) ValidWithCtx() *Error {
	e.ErrorCode = ErrorCodeValid
	return e
}

func (e *Error) NoAuth() *Error {
	e.ErrorCode = ErrorCodeNoAuth
	return e
}

func (e *Error) NotFound() *Error {
	e.ErrorCode = ErrorCodeNotFound
	return e
}

func (e *Error) Conflict() *Error {
	e.ErrorCode = ErrorCodeConflict
	return e
}

func (e *Error) TooLarge() *Error {
	e.ErrorCode = ErrorCodeTooLarge
	return e
}

func (e *Error) UnsupportedMedia() *Error {
	e.ErrorCode = ErrorCodeUnsupportedMedia
	return e
}

// Unwrap 让 errors.Is / errors.As 可以穿透到底层错误
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	chain := e.chain()
	var sb strings.Builder
	for i, err := range chain {
		if i > 0 {
			sb.WriteString(" <- ")
		}
		if err.ErrorCode != nil {
			sb.WriteString(fmt.Sprintf("[%s] ", err.ErrorCode.String()))
		}
		sb.WriteString(err.Msg)
	}
	if root, original := e.rootCause(); root != nil && original != nil {
		sb.WriteString(": ")
		sb.WriteString(original.Error())
	}
	return sb.String()
}

// chain 收集错误链，最外层在前
func (e *Error) chain() []*Error {
	var errChain []*Error
	curr := e
	for {
		errChain = append(errChain, curr)
		var next *Error
		if cause, ok := curr.Cause.(*Error); ok && cause != nil {
			next = cause
		}
		if next == nil {
			break
		}
		curr = next
	}
	return errChain
}

// rootCause 查找根因：第一个包装了非 *Error 错误的节点
func (e *Error) rootCause() (*Error, error) {
	errChain := e.chain()
	for i := len(errChain) - 1; i >= 0; i-- {
		err := errChain[i]
		if err.Cause != nil {
			if _, ok := err.Cause.(*Error); !ok {
				return err, err.Cause
			}
		}
	}
	last := errChain[len(errChain)-1]
	return last, last.Cause
}

// RootCause returns a simple string representing the root cause of the error.
func (e *Error) RootCause() string {
	if e == nil {
		return ""
	}
	root, original := e.rootCause()
	if root == nil {
		return e.Msg
	}

	var sb strings.Builder
	sb.WriteString(root.Msg)
	if original != nil {
		sb.WriteString(fmt.Sprintf(": %v", original))
	}
	if root.FileName != "" {
		sb.WriteString(fmt.Sprintf(" at %s:%d", root.FileName, root.Line))
	}
	return sb.String()
}

// ToLog 以结构化字段输出错误链
func (e *Error) ToLog(log *logrus.Entry, msgs ...string) *Error {
	if e == nil {
		return nil
	}

	fields := logrus.Fields{}
	if root, original := e.rootCause(); root != nil {
		fields["root_cause_file"] = root.FileName
		fields["root_cause_line"] = root.Line
		fields["root_cause_func"] = root.FuncName
		fields["root_cause_msg"] = root.Msg
		if original != nil {
			fields["root_cause_original_error"] = original.Error()
		}
		if root.ErrorCode != nil {
			fields["root_cause_error_code"] = root.ErrorCode.String()
		}
	}

	chain := make([]string, 0)
	for _, err := range e.chain() {
		chain = append(chain, fmt.Sprintf("%s (%s:%d)", err.Msg, err.FileName, err.Line))
	}
	fields["error_chain"] = chain
	if e.TraceID != "" {
		fields["trace_id"] = e.TraceID
	}

	finalMsg := e.Msg
	if len(msgs) > 0 {
		finalMsg = strings.Join(msgs, ", ")
	}
	log.WithFields(fields).Error(finalMsg)
	return e
}

func caller(num int) *Error {
	pc, file, line, ok := runtime.Caller(num)
	if !ok {
		return &Error{FileName: "<unknown>", FuncName: "<unknown>"}
	}
	funcName := "<unknown>"
	if details := runtime.FuncForPC(pc); details != nil {
		funcName = details.Name()
	}
	return &Error{FileName: file, Line: line, FuncName: funcName}
}

func getErrCode(err error) *ErrorCode {
	if err == nil {
		return ErrorCodeUnknown
	}
	var e *Error
	if errors.As(err, &e) && e.ErrorCode != nil {
		return e.ErrorCode
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorCodeNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrorCodeConflict
	}
	return ErrorCodeUnknown
}

// Quick 快速构造，不记录调用位置
func Quick(msg string, err error) *Error {
	return &Error{
		Msg:       msg,
		Cause:     err,
		ErrorCode: getErrCode(err),
	}
}

func (e *ErrorBuilder) BadRequest(msg string) *Error {
	stack := caller(2)
	stack.Msg = msg
	stack.Entry = e.entryName
	stack.ErrorCode = ErrorCodeValid
	return stack
}

func ParseError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Quick(err.Error(), err)
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

func IsConflict(err error) bool {
	return hasCode(err, ErrorCodeConflict) || errors.Is(err, gorm.ErrDuplicatedKey)
}

func hasCode(err error, code *ErrorCode) bool {
	if err == nil {
		return false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.ErrorCode == code
	}
	return false
}
