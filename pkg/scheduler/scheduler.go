package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"apkdist/pkg/core/logger"

	"github.com/robfig/cron/v3"
)

// TaskFunc 任务函数
type TaskFunc func(ctx context.Context) error

// Scheduler 进程内定时任务调度器
// 同一任务上一次未执行完时跳过本次触发
type Scheduler struct {
	cron   *cron.Cron
	parser cron.Parser
	ctx    context.Context
	cancel context.CancelFunc
	log    *logger.Log

	mu    sync.Mutex
	tasks map[string]cron.EntryID
}

// NewScheduler 创建调度器，表达式支持秒级字段和 @every 等描述符
func NewScheduler(log *logger.Log) *Scheduler {
	log = log.WithEntryName("Scheduler")
	parser := cron.NewParser(
		cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
	)
	cronLog := &cronLogger{log: log}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithParser(parser),
			cron.WithChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)),
			cron.WithLogger(cronLog),
		),
		parser: parser,
		ctx:    ctx,
		cancel: cancel,
		log:    log,
		tasks:  make(map[string]cron.EntryID),
	}
}

// AddCronTask 注册任务，同名任务不能重复注册
func (s *Scheduler) AddCronTask(name, cronExpr string, timeout time.Duration, fn TaskFunc) error {
	schedule, err := s.parser.Parse(cronExpr)
	if err != nil {
		return fmt.Errorf("解析 cron 表达式 %q 失败: %w", cronExpr, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[name]; ok {
		return fmt.Errorf("任务 %s 已存在", name)
	}

	id := s.cron.Schedule(schedule, cron.FuncJob(func() {
		s.runTask(name, timeout, fn)
	}))
	s.tasks[name] = id
	s.log.WithFields(map[string]interface{}{
		"task": name,
		"cron": cronExpr,
		"next": schedule.Next(time.Now()).Format(time.RFC3339),
	}).Info("注册定时任务")
	return nil
}

// runTask 运行任务
func (s *Scheduler) runTask(name string, timeout time.Duration, fn TaskFunc) {
	start := time.Now()
	s.log.WithField("task", name).Info("开始执行任务")

	ctx := s.ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(s.ctx, timeout)
		defer cancel()
	}

	err := fn(ctx)
	duration := time.Since(start)
	if err != nil {
		s.log.WithErr(err).WithField("task", name).WithField("duration", duration).Error("任务执行失败")
		return
	}
	s.log.WithField("task", name).WithField("duration", duration).Info("任务执行成功")
}

// Start 启动调度器
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止调度器，等待正在执行的任务结束
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}

// cronLogger 把 cron 内部日志转到 logrus
type cronLogger struct {
	log *logger.Log
}

func (l *cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.WithFields(kvToFields(keysAndValues)).Debug(msg)
}

func (l *cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.WithErr(err).WithFields(kvToFields(keysAndValues)).Error(msg)
}

func kvToFields(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
