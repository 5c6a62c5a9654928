package logger

import (
	"context"
	"encoding/json"
	"sync"

	"apkdist/pkg/core/consts"

	"github.com/sirupsen/logrus"
)

type Log struct {
	*logrus.Entry
}

var (
	log *Log
	mu  sync.Mutex
)

func newLogrus(level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	logLevel := logrus.InfoLevel
	switch level {
	case "debug":
		logLevel = logrus.DebugLevel
	case "warn":
		logLevel = logrus.WarnLevel
	case "error":
		logLevel = logrus.ErrorLevel
	}
	logger.SetLevel(logLevel)
	return logger
}

// InitLogger 初始化全局日志，重复调用会覆盖之前的实例
func InitLogger(level string) *Log {
	mu.Lock()
	defer mu.Unlock()
	log = &Log{Entry: logrus.NewEntry(newLogrus(level))}
	return log
}

func GetLogger() *Log {
	mu.Lock()
	defer mu.Unlock()
	if log != nil {
		return log
	}
	return &Log{Entry: logrus.NewEntry(newLogrus("debug"))}
}

func (l *Log) WithField(key string, value interface{}) *Log {
	return &Log{l.Entry.WithField(key, value)}
}

func (l *Log) GetLogger() *logrus.Entry {
	return l.Entry
}

// WithFields 接受 map 或任意结构体，结构体按 json 标签展开
func (l *Log) WithFields(arg interface{}) *Log {
	if fields, ok := arg.(map[string]interface{}); ok {
		return &Log{l.Entry.WithFields(fields)}
	}
	var jsonMap map[string]interface{}
	bytes, err := json.Marshal(arg)
	if err != nil {
		return l.WithField("arg", arg)
	}
	if err = json.Unmarshal(bytes, &jsonMap); err != nil {
		return l.WithField("arg", arg)
	}
	return &Log{l.Entry.WithFields(jsonMap)}
}

func (l *Log) WithEntryName(entryName string) *Log {
	return l.WithField("EntryName", entryName)
}

func (l *Log) WithErr(err error) *Log {
	if err == nil {
		return l
	}
	return l.WithField("Err", err.Error())
}

// WithTrace 附加请求链路 ID，上下文中没有时不加字段
func (l *Log) WithTrace(ctx context.Context) *Log {
	if ctx == nil {
		return l
	}
	if traceID, ok := ctx.Value(consts.TraceKey).(string); ok && traceID != "" {
		return l.WithField("TraceId", traceID)
	}
	return l
}
