package app

import (
	"context"
	"sort"
	"time"

	"apkdist/system/apk/internal/model"
	"apkdist/system/apk/internal/model/dto"
)

// Reconcile 对比存储对象与版本记录
// 对象存在而记录不存在为孤儿对象，记录存在而对象不存在为缺失对象
// remove 为 true 时删除超过宽限期的孤儿对象，版本记录永远不会被删除
func (a *App) Reconcile(ctx context.Context, remove bool) (*dto.ReconcileReport, error) {
	objects, err := a.Storage.List(ctx, model.ObjectKeyPrefix)
	if err != nil {
		return nil, a.err.New("列举存储对象失败", err).Third().WithTraceID(ctx)
	}
	records, err := a.ApkVersionSvc.All(ctx)
	if err != nil {
		return nil, a.err.New("查询版本列表失败", err).DB().WithTraceID(ctx)
	}

	now := time.Now()
	report := &dto.ReconcileReport{
		CheckedAt:      now.UTC(),
		RecordCount:    len(records),
		OrphanObjects:  []string{},
		MissingObjects: []string{},
		RemovedObjects: []string{},
		FailedObjects:  []string{},
	}

	known := make(map[string]bool, len(records))
	for _, r := range records {
		known[r.ObjectKey()] = true
	}

	stored := make(map[string]bool, len(objects))
	for _, obj := range objects {
		if _, ok := model.VersionFromKey(obj.Key); !ok {
			continue
		}
		report.ObjectCount++
		stored[obj.Key] = true
		if known[obj.Key] {
			continue
		}
		report.OrphanObjects = append(report.OrphanObjects, obj.Key)

		if !remove || now.Sub(obj.LastModified) < a.Config.OrphanGrace {
			continue
		}
		if err := a.Storage.Delete(ctx, obj.Key); err != nil {
			a.log.WithTrace(ctx).WithErr(err).WithField("objectKey", obj.Key).Error("删除孤儿对象失败")
			report.FailedObjects = append(report.FailedObjects, obj.Key)
			continue
		}
		report.RemovedObjects = append(report.RemovedObjects, obj.Key)
	}

	for _, r := range records {
		if !stored[r.ObjectKey()] {
			report.MissingObjects = append(report.MissingObjects, r.ObjectKey())
		}
	}

	sort.Strings(report.OrphanObjects)
	sort.Strings(report.MissingObjects)
	sort.Strings(report.RemovedObjects)
	sort.Strings(report.FailedObjects)

	log := a.log.WithTrace(ctx).WithFields(map[string]interface{}{
		"objects": report.ObjectCount,
		"records": report.RecordCount,
		"orphan":  len(report.OrphanObjects),
		"missing": len(report.MissingObjects),
		"removed": len(report.RemovedObjects),
	})
	if len(report.OrphanObjects) > 0 || len(report.MissingObjects) > 0 {
		log.Warn("存储与版本记录不一致")
	} else {
		log.Info("对账完成，数据一致")
	}
	return report, nil
}
