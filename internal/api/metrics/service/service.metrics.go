// Package metricssvc - MetricsService: orchestrator của pipeline unified metrics.
//
// Hợp đồng degrade: sau khi phạm vi đã resolve thành công, orchestrator KHÔNG
// trả lỗi nữa. Dimension nào lỗi thì dimension đó về shape zero/neutral, các
// dimension khác vẫn tính bình thường; panic bất kỳ được recover và trả về
// snapshot default đầy đủ. Lỗi duy nhất thoát ra khỏi pipeline là lỗi
// validate chu kỳ và lỗi resolve phạm vi (fail-closed).
package metricssvc

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"meta_tourism/internal/common"
	"meta_tourism/internal/global"
	"meta_tourism/internal/logger"
)

// MetricsService orchestrator tổng hợp unified metrics cho một guide.
type MetricsService struct {
	repos       *Repos
	trips       *TripsCalculator
	earnings    *EarningsCalculator
	ratings     *RatingsCalculator
	performance *PerformanceCalculator
	development *DevelopmentCalculator
	extended    *ExtendedCalculator
	comparative *ComparativeEngine
	timeout     time.Duration
	log         *logrus.Logger
}

// NewMetricsService tạo mới MetricsService với đầy đủ calculator.
// timeout áp cho từng lần tính; peerLimit chặn trần số peer của comparative.
func NewMetricsService(repos *Repos, timeout time.Duration, peerLimit int) *MetricsService {
	log := logger.GetAppLogger()
	trips := NewTripsCalculator(repos.Assignments, repos.Trips)
	earnings := NewEarningsCalculator(repos.Assignments, repos.Trips, repos.Wallets, repos.Txs)
	ratings := NewRatingsCalculator(repos.Assignments, repos.Bookings, repos.Reviews)
	performance := NewPerformanceCalculator(trips, earnings, ratings, repos.Assignments, repos.Guides, peerLimit, log)
	return &MetricsService{
		repos:       repos,
		trips:       trips,
		earnings:    earnings,
		ratings:     ratings,
		performance: performance,
		development: NewDevelopmentCalculator(repos.Skills, repos.Assessments),
		extended:    NewExtendedCalculator(repos, earnings, ratings),
		comparative: NewComparativeEngine(trips, earnings, ratings, performance, repos.Guides, peerLimit, log),
		timeout:     timeout,
		log:         log,
	}
}

// CalculateUnifiedMetrics tính unified metrics cho guideID trong chu kỳ period
// theo phạm vi của principal gọi.
//
// Hai lỗi duy nhất: chu kỳ không hợp lệ và không resolve được phạm vi. Mọi
// lỗi khác (kể cả panic) degrade về dimension default, không bao giờ làm
// request fail.
func (s *MetricsService) CalculateUnifiedMetrics(ctx context.Context, caller ScopeContext, guideID primitive.ObjectID, period Period, opts Options) (*UnifiedMetrics, error) {
	if !period.Valid() {
		return nil, common.ErrInvalidPeriod
	}
	scope, err := s.repos.Scope.Resolve(ctx, caller, guideID)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	return s.calculate(ctx, scope, guideID, period, opts, true), nil
}

// calculate thân pipeline sau khi phạm vi đã resolve.
// allowRecursion là guard đệ quy tường minh: lần tính cho chu kỳ trước luôn
// chạy với allowRecursion=false nên độ sâu đệ quy tối đa là 1, không bao giờ
// kéo theo chuỗi chu kỳ trước của chu kỳ trước.
func (s *MetricsService) calculate(ctx context.Context, scope ScopeContext, guideID primitive.ObjectID, period Period, opts Options, allowRecursion bool) (result *UnifiedMetrics) {
	defer func() {
		if r := recover(); r != nil {
			s.log.WithFields(logrus.Fields{"guideId": guideID.Hex(), "panic": r}).
				Error("Panic trong pipeline metrics, trả về snapshot default")
			result = DefaultUnifiedMetrics(period)
		}
	}()

	if s.snapshotFastPathEligible(opts) {
		if m := s.readSnapshot(ctx, guideID, period); m != nil {
			return m
		}
	}

	result = DefaultUnifiedMetrics(period)

	if trips, err := s.trips.Calculate(ctx, guideID, period, scope); err != nil {
		s.logDegrade(guideID, DimTrips, err)
	} else {
		result.Trips = trips
	}
	if earnings, err := s.earnings.Calculate(ctx, guideID, period, scope); err != nil {
		s.logDegrade(guideID, DimEarnings, err)
	} else {
		result.Earnings = earnings
	}
	if ratings, err := s.ratings.Calculate(ctx, guideID, period, scope); err != nil {
		s.logDegrade(guideID, DimRatings, err)
	} else {
		result.Ratings = ratings
	}
	if performance, err := s.performance.Calculate(ctx, guideID, period, scope); err != nil {
		s.logDegrade(guideID, DimPerformance, err)
	} else {
		result.Performance = performance
	}
	if development, err := s.development.Calculate(ctx, guideID, period); err != nil {
		s.logDegrade(guideID, DimDevelopment, err)
	} else {
		result.Development = development
	}

	if opts.CalculateTrends && allowRecursion {
		prev := s.calculate(ctx, scope, guideID, PreviousPeriod(period), Options{}, false)
		result.Trips.Trend = trendOf(float64(result.Trips.Completed), float64(prev.Trips.Completed))
		result.Earnings.Trend = trendOf(result.Earnings.Total, prev.Earnings.Total)
	}

	s.calculateOptional(ctx, scope, guideID, period, opts, allowRecursion, result)
	return result
}

// calculateOptional tính các dimension optional được yêu cầu, ghi trực tiếp
// vào result. Lỗi của từng dimension chỉ để field đó là nil.
func (s *MetricsService) calculateOptional(ctx context.Context, scope ScopeContext, guideID primitive.ObjectID, period Period, opts Options, allowRecursion bool, result *UnifiedMetrics) {
	if opts.wantsDim(DimCustomerSatisfaction) {
		if m, err := s.extended.CustomerSatisfaction(ctx, guideID, period, scope); err != nil {
			s.logDegrade(guideID, DimCustomerSatisfaction, err)
		} else {
			result.CustomerSatisfaction = m
		}
	}
	if opts.wantsDim(DimEfficiency) {
		if m, err := s.extended.Efficiency(ctx, guideID, period, scope); err != nil {
			s.logDegrade(guideID, DimEfficiency, err)
		} else {
			result.Efficiency = m
		}
	}
	if opts.wantsDim(DimFinancial) {
		if m, err := s.extended.Financial(ctx, guideID, period, scope); err != nil {
			s.logDegrade(guideID, DimFinancial, err)
		} else {
			result.Financial = m
		}
	}
	if opts.wantsDim(DimQuality) {
		if m, err := s.extended.Quality(ctx, guideID, period, scope); err != nil {
			s.logDegrade(guideID, DimQuality, err)
		} else {
			result.Quality = m
		}
	}

	// Growth và comparative so sánh với chu kỳ trước / peer nên cũng nằm sau
	// guard đệ quy.
	wantGrowth := opts.wantsDim(DimGrowth) || opts.CompareWithPrevious
	wantComparative := opts.wantsDim(DimComparative) || opts.CompareWithPrevious
	if wantGrowth && allowRecursion {
		if m, err := s.comparative.Growth(ctx, guideID, period, scope); err != nil {
			s.logDegrade(guideID, DimGrowth, err)
		} else {
			result.Growth = m
		}
	}
	if wantComparative && allowRecursion {
		if m, err := s.comparative.Comparative(ctx, guideID, period, scope); err != nil {
			s.logDegrade(guideID, DimComparative, err)
		} else {
			result.Comparative = m
		}
	}
}

// snapshotFastPathEligible fast-path chỉ phục vụ request shape mặc định:
// không trend, không compare, không dimension bổ sung.
func (s *MetricsService) snapshotFastPathEligible(opts Options) bool {
	return global.SnapshotStoreAvailable &&
		!opts.CalculateTrends &&
		!opts.CompareWithPrevious &&
		len(opts.Include) == 0
}

// readSnapshot đọc snapshot đúng key; miss hoặc lỗi đều trả về nil để pipeline
// tính trực tiếp.
func (s *MetricsService) readSnapshot(ctx context.Context, guideID primitive.ObjectID, period Period) *UnifiedMetrics {
	snap, err := s.repos.Snapshots.FindExact(ctx, guideID, period)
	if err != nil {
		s.log.WithField("guideId", guideID.Hex()).WithError(err).
			Warn("Lỗi đọc snapshot, tính trực tiếp")
		return nil
	}
	if snap == nil {
		return nil
	}
	m, err := MetricsFromSnapshot(snap)
	if err != nil {
		s.log.WithField("guideId", guideID.Hex()).WithError(err).
			Warn("Snapshot hỏng, tính trực tiếp")
		return nil
	}
	return m
}

func (s *MetricsService) logDegrade(guideID primitive.ObjectID, dim string, err error) {
	s.log.WithFields(logrus.Fields{"guideId": guideID.Hex(), "dimension": dim}).
		WithError(err).Warn("Dimension degrade về shape mặc định")
}
