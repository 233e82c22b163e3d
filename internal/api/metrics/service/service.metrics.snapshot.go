// Package metricssvc - chuyển đổi UnifiedMetrics <-> MetricsSnapshot và
// resolve capability của snapshot store.
package metricssvc

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
	"meta_tourism/internal/global"
	"meta_tourism/internal/logger"
)

// SnapshotFromMetrics đóng gói một UnifiedMetrics thành document snapshot.
// Serialize qua bson để giữ nguyên shape (kể cả các field nil).
func SnapshotFromMetrics(guideID, branchID primitive.ObjectID, m *UnifiedMetrics, runID string) (*tourmodels.MetricsSnapshot, error) {
	raw, err := bson.Marshal(m)
	if err != nil {
		return nil, err
	}
	var metrics map[string]interface{}
	if err := bson.Unmarshal(raw, &metrics); err != nil {
		return nil, err
	}
	now := time.Now().Unix()
	return &tourmodels.MetricsSnapshot{
		GuideID:     guideID,
		BranchID:    branchID,
		PeriodType:  string(m.Period.Type),
		PeriodStart: m.Period.StartMillis(),
		PeriodEnd:   m.Period.EndMillis(),
		Metrics:     metrics,
		RunID:       runID,
		ComputedAt:  now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// MetricsFromSnapshot giải mã document snapshot ngược về UnifiedMetrics.
func MetricsFromSnapshot(snap *tourmodels.MetricsSnapshot) (*UnifiedMetrics, error) {
	raw, err := bson.Marshal(snap.Metrics)
	if err != nil {
		return nil, err
	}
	var m UnifiedMetrics
	if err := bson.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

// ResolveSnapshotStoreCapability xác định snapshot store có sẵn sàng hay không
// và gán global.SnapshotStoreAvailable. Gọi MỘT LẦN lúc khởi động server;
// pipeline không bao giờ probe lại trong lúc phục vụ request.
func ResolveSnapshotStoreCapability(ctx context.Context) {
	log := logger.GetAppLogger()
	coll, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.MetricsSnapshots)
	if !ok {
		global.SnapshotStoreAvailable = false
		log.Warn("Snapshot store không được đăng ký, pipeline metrics luôn tính trực tiếp")
		return
	}
	if _, err := coll.EstimatedDocumentCount(ctx); err != nil {
		global.SnapshotStoreAvailable = false
		log.WithError(err).Warn("Snapshot store không truy cập được, pipeline metrics luôn tính trực tiếp")
		return
	}
	global.SnapshotStoreAvailable = true
	log.Info("Snapshot store sẵn sàng, bật fast-path đọc snapshot")
}
