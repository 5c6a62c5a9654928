package apk

import (
	"context"
	"time"

	"apkdist/pkg/scheduler"
)

// 单次对账的超时时间
const reconcileTimeout = 5 * time.Minute

// ScheduleReconcile 注册定时对账任务，只输出报告不删除对象
// cronExpr 为空时不注册
func ScheduleReconcile(m *Module, s *scheduler.Scheduler, cronExpr string) error {
	if cronExpr == "" {
		m.log.Info("未配置对账任务，跳过")
		return nil
	}
	return s.AddCronTask("apk-reconcile", cronExpr, reconcileTimeout, func(ctx context.Context) error {
		_, err := m.internalApp.Reconcile(ctx, false)
		return err
	})
}
