package worker

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	metricssvc "meta_tourism/internal/api/metrics/service"
	tourmodels "meta_tourism/internal/api/tour/models"
	"meta_tourism/internal/global"
	"meta_tourism/internal/logger"
)

// SnapshotPrewarmWorker tính trước unified metrics chu kỳ tháng hiện tại cho
// guide của từng chi nhánh và upsert vào metrics_snapshots. Worker là BÊN GHI
// DUY NHẤT của snapshot store; pipeline metrics chỉ đọc.
// Chạy định kỳ, mỗi lần xử lý tối đa batchSize guide.
type SnapshotPrewarmWorker struct {
	service   *metricssvc.MetricsService
	repos     *metricssvc.Repos
	interval  time.Duration // Khoảng thời gian giữa các lần chạy
	batchSize int           // Số guide tối đa mỗi lần prewarm

	// onRunDone được gọi sau mỗi lần prewarm thành công (dùng cho digest delivery)
	onRunDone func(ctx context.Context, runID string, results []GuideRunResult)
}

// GuideRunResult kết quả prewarm của một guide, đầu vào cho digest.
type GuideRunResult struct {
	GuideID   primitive.ObjectID
	GuideName string
	BranchID  primitive.ObjectID
	Score     float64
	Tier      string
}

// NewSnapshotPrewarmWorker tạo mới SnapshotPrewarmWorker.
func NewSnapshotPrewarmWorker(interval time.Duration, batchSize int) (*SnapshotPrewarmWorker, error) {
	repos, err := metricssvc.NewMongoRepos()
	if err != nil {
		return nil, err
	}
	if interval < time.Minute {
		interval = time.Hour
	}
	if batchSize <= 0 {
		batchSize = 200
	}
	timeout := time.Duration(global.ServerConfig.MetricsTimeoutSeconds) * time.Second
	return &SnapshotPrewarmWorker{
		service:   metricssvc.NewMetricsService(repos, timeout, global.ServerConfig.MetricsPeerLimit),
		repos:     repos,
		interval:  interval,
		batchSize: batchSize,
	}, nil
}

// OnRunDone đăng ký callback chạy sau mỗi lần prewarm thành công.
func (w *SnapshotPrewarmWorker) OnRunDone(fn func(ctx context.Context, runID string, results []GuideRunResult)) {
	w.onRunDone = fn
}

// Start chạy worker trong vòng lặp: mỗi interval duyệt guide đang hoạt động
// theo chi nhánh, tính snapshot chu kỳ tháng hiện tại và upsert.
func (w *SnapshotPrewarmWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval":  w.interval.String(),
		"batchSize": w.batchSize,
	}).Info("Starting Snapshot Prewarm Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("Snapshot Prewarm Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("Panic khi prewarm snapshot, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()
				w.runOnce(ctx)
			}()
		}
	}
}

// runOnce một lượt prewarm: duyệt chi nhánh đang hoạt động, tính và ghi
// snapshot cho từng guide, tối đa batchSize guide trên toàn lượt.
func (w *SnapshotPrewarmWorker) runOnce(ctx context.Context) {
	log := logger.GetAppLogger()
	runID := uuid.NewString()
	period := metricssvc.MonthlyPeriod(time.Now())

	branchColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.Branches)
	if !ok {
		log.Error("Collection branches chưa được đăng ký, bỏ qua lượt prewarm")
		return
	}
	cursor, err := branchColl.Find(ctx, bson.M{"isActive": true})
	if err != nil {
		log.WithError(err).Error("Lỗi lấy danh sách chi nhánh")
		return
	}
	var branches []tourmodels.Branch
	if err := cursor.All(ctx, &branches); err != nil {
		log.WithError(err).Error("Lỗi đọc danh sách chi nhánh")
		return
	}

	var results []GuideRunResult
	processed := 0
	for _, branch := range branches {
		if processed >= w.batchSize {
			break
		}
		guideIDs, err := w.repos.Guides.FindGuideIDsByBranch(ctx, branch.ID, w.batchSize-processed)
		if err != nil {
			log.WithError(err).WithField("branchId", branch.ID.Hex()).
				Warn("Lỗi lấy guide của chi nhánh, bỏ qua chi nhánh")
			continue
		}
		for _, guideID := range guideIDs {
			result, err := w.prewarmGuide(ctx, guideID, branch.ID, period, runID)
			if err != nil {
				log.WithError(err).WithField("guideId", guideID.Hex()).
					Warn("Prewarm guide thất bại, bỏ qua và sẽ thử lại lần sau")
				continue
			}
			results = append(results, *result)
			processed++
		}
	}

	if processed > 0 {
		log.WithFields(map[string]interface{}{
			"runId":     runID,
			"processed": processed,
		}).Info("Đã prewarm snapshot metrics")
		if w.onRunDone != nil {
			w.onRunDone(ctx, runID, results)
		}
	}
}

// prewarmGuide tính và upsert snapshot cho một guide.
func (w *SnapshotPrewarmWorker) prewarmGuide(ctx context.Context, guideID, branchID primitive.ObjectID, period metricssvc.Period, runID string) (*GuideRunResult, error) {
	// Worker chạy với scope của chính chi nhánh guide. DefaultOptions có
	// CalculateTrends=true nên lần tính này không ăn snapshot fast-path,
	// tránh việc worker tự đọc lại snapshot cũ của chính nó.
	metrics, err := w.service.CalculateUnifiedMetrics(ctx, metricssvc.BranchScope(branchID), guideID, period, metricssvc.DefaultOptions())
	if err != nil {
		return nil, err
	}
	snap, err := metricssvc.SnapshotFromMetrics(guideID, branchID, metrics, runID)
	if err != nil {
		return nil, err
	}
	if err := w.repos.Snapshots.Upsert(ctx, snap); err != nil {
		return nil, err
	}

	guideName := guideID.Hex()
	if guide, err := w.repos.Guides.FindByID(ctx, guideID); err == nil {
		guideName = guide.Name
	}
	return &GuideRunResult{
		GuideID:   guideID,
		GuideName: guideName,
		BranchID:  branchID,
		Score:     metrics.Performance.Score,
		Tier:      metrics.Performance.Tier,
	}, nil
}
