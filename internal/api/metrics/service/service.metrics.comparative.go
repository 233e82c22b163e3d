// Package metricssvc - ComparativeEngine: dimension growth và comparative.
package metricssvc

import (
	"context"
	"math"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ComparativeEngine tính tăng trưởng so với chu kỳ liền trước và vị trí của
// guide so với các peer cùng chi nhánh.
type ComparativeEngine struct {
	trips       *TripsCalculator
	earnings    *EarningsCalculator
	ratings     *RatingsCalculator
	performance *PerformanceCalculator
	guides      GuideRepo
	peerLimit   int
	log         *logrus.Logger
}

// NewComparativeEngine tạo mới ComparativeEngine.
func NewComparativeEngine(trips *TripsCalculator, earnings *EarningsCalculator, ratings *RatingsCalculator, performance *PerformanceCalculator, guides GuideRepo, peerLimit int, log *logrus.Logger) *ComparativeEngine {
	return &ComparativeEngine{
		trips:       trips,
		earnings:    earnings,
		ratings:     ratings,
		performance: performance,
		guides:      guides,
		peerLimit:   peerLimit,
		log:         log,
	}
}

// changePct tính (current - previous) / previous * 100; nil khi previous == 0.
func changePct(current, previous float64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := (current - previous) / previous * 100
	return &pct
}

// trendOf suy ra TrendDelta từ hai giá trị của hai chu kỳ liên tiếp.
func trendOf(current, previous float64) *TrendDelta {
	delta := &TrendDelta{ChangePct: changePct(current, previous), Direction: "stable"}
	if current > previous {
		delta.Direction = "up"
	} else if current < previous {
		delta.Direction = "down"
	}
	return delta
}

// Growth tính dimension growth: % thay đổi của completed trips, tổng thu nhập
// và điểm đánh giá trung bình so với chu kỳ liền trước. Từng field là nil khi
// giá trị chu kỳ trước bằng 0.
func (e *ComparativeEngine) Growth(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (*GrowthMetrics, error) {
	prev := PreviousPeriod(period)

	curTrips, err := e.trips.Calculate(ctx, guideID, period, scope)
	if err != nil {
		return nil, err
	}
	prevTrips, err := e.trips.Calculate(ctx, guideID, prev, scope)
	if err != nil {
		return nil, err
	}
	curEarnings, err := e.earnings.Calculate(ctx, guideID, period, scope)
	if err != nil {
		return nil, err
	}
	prevEarnings, err := e.earnings.Calculate(ctx, guideID, prev, scope)
	if err != nil {
		return nil, err
	}
	curRatings, err := e.ratings.Calculate(ctx, guideID, period, scope)
	if err != nil {
		return nil, err
	}
	prevRatings, err := e.ratings.Calculate(ctx, guideID, prev, scope)
	if err != nil {
		return nil, err
	}

	var curAvg, prevAvg float64
	if curRatings.Average != nil {
		curAvg = *curRatings.Average
	}
	if prevRatings.Average != nil {
		prevAvg = *prevRatings.Average
	}
	return &GrowthMetrics{
		TripsChangePct:    changePct(float64(curTrips.Completed), float64(prevTrips.Completed)),
		EarningsChangePct: changePct(curEarnings.Total, prevEarnings.Total),
		RatingChangePct:   changePct(curAvg, prevAvg),
	}, nil
}

// Comparative tính dimension comparative: xếp hạng score của guide trong tập
// tối đa peerLimit peer cùng chi nhánh, cùng chu kỳ.
// Không xác định được chi nhánh -> trả về shape all-null (không lỗi).
// Một peer tính lỗi thì bị bỏ qua (log), không làm hỏng cả dimension.
func (e *ComparativeEngine) Comparative(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (*ComparativeMetrics, error) {
	branchID := scope.BranchID
	if scope.AllBranches || branchID.IsZero() {
		guide, err := e.guides.FindByID(ctx, guideID)
		if err != nil || guide.BranchID.IsZero() {
			return &ComparativeMetrics{}, nil
		}
		branchID = guide.BranchID
	}
	branchScope := BranchScope(branchID)

	guidePerf, err := e.performance.Calculate(ctx, guideID, period, branchScope)
	if err != nil {
		return nil, err
	}
	guideScore := guidePerf.Score

	peerIDs, err := e.guides.FindGuideIDsByBranch(ctx, branchID, e.peerLimit)
	if err != nil {
		return nil, err
	}

	scores := []float64{guideScore}
	for _, peerID := range peerIDs {
		if peerID == guideID {
			continue
		}
		perf, err := e.performance.Calculate(ctx, peerID, period, branchScope)
		if err != nil {
			e.log.WithFields(logrus.Fields{"peerId": peerID.Hex(), "branchId": branchID.Hex()}).
				WithError(err).Warn("Bỏ qua peer lỗi khi tính comparative")
			continue
		}
		scores = append(scores, perf.Score)
	}

	rank := 1
	var sum float64
	for _, s := range scores {
		sum += s
		if s > guideScore {
			rank++
		}
	}
	peerCount := len(scores)
	branchAvg := sum / float64(peerCount)
	rankPct := float64(rank) / float64(peerCount) * 100
	topPercent := 100 - math.Round(rankPct)
	gap := guideScore - branchAvg

	return &ComparativeMetrics{
		Rank:             &rank,
		PeerCount:        peerCount,
		TopPercent:       &topPercent,
		BranchAvgScore:   &branchAvg,
		ScoreGapVsBranch: &gap,
	}, nil
}
