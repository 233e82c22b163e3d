// Package metricssvc - PerformanceCalculator: dimension performance.
package metricssvc

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
)

// PerformanceCalculator tính score tổng hợp từ 3 dimension thành phần.
// Từng thành phần degrade độc lập: lỗi của một nhánh chỉ làm thành phần đó
// về 0, không làm hỏng cả dimension.
type PerformanceCalculator struct {
	trips       *TripsCalculator
	earnings    *EarningsCalculator
	ratings     *RatingsCalculator
	assignments TripAssignmentRepo
	guides      GuideRepo
	peerLimit   int
	log         *logrus.Logger
}

// NewPerformanceCalculator tạo mới PerformanceCalculator.
func NewPerformanceCalculator(trips *TripsCalculator, earnings *EarningsCalculator, ratings *RatingsCalculator, assignments TripAssignmentRepo, guides GuideRepo, peerLimit int, log *logrus.Logger) *PerformanceCalculator {
	return &PerformanceCalculator{
		trips:       trips,
		earnings:    earnings,
		ratings:     ratings,
		assignments: assignments,
		guides:      guides,
		peerLimit:   peerLimit,
		log:         log,
	}
}

// scoreFrom tính score [0,100] từ 3 thành phần, mỗi thành phần bị chặn trần.
func scoreFrom(ratingAvg float64, completedTrips int64, totalEarnings float64) float64 {
	ratingPart := ratingAvg / 5 * scoreRatingWeight
	if ratingPart > scoreRatingWeight {
		ratingPart = scoreRatingWeight
	}
	tripsPart := float64(completedTrips) / scoreTripsTarget * scoreTripsWeight
	if tripsPart > scoreTripsWeight {
		tripsPart = scoreTripsWeight
	}
	earningsPart := totalEarnings / scoreEarningsTarget * scoreEarningsWeight
	if earningsPart > scoreEarningsWeight {
		earningsPart = scoreEarningsWeight
	}
	return ratingPart + tripsPart + earningsPart
}

// onTimeRateOf tính tỷ lệ đúng giờ [0,100] từ danh sách assignment có đủ
// check-in/check-out. Trả về nil khi danh sách rỗng.
func onTimeRateOf(list []tourmodels.TripAssignment) *float64 {
	if len(list) == 0 {
		return nil
	}
	var onTime int64
	for _, a := range list {
		if !a.LateFlag {
			onTime++
		}
	}
	rate := float64(onTime) / float64(len(list)) * 100
	return &rate
}

// Calculate tính dimension performance. Không bao giờ trả lỗi: thành phần nào
// hỏng thì degrade về zero/nil của riêng nó.
func (c *PerformanceCalculator) Calculate(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (PerformanceMetrics, error) {
	tripsM, err := c.trips.Calculate(ctx, guideID, period, scope)
	if err != nil {
		c.log.WithFields(logrus.Fields{"guideId": guideID.Hex(), "dimension": DimTrips}).
			WithError(err).Warn("Thành phần trips trong performance degrade về 0")
		tripsM = TripsMetrics{}
	}
	earningsM, err := c.earnings.Calculate(ctx, guideID, period, scope)
	if err != nil {
		c.log.WithFields(logrus.Fields{"guideId": guideID.Hex(), "dimension": DimEarnings}).
			WithError(err).Warn("Thành phần earnings trong performance degrade về 0")
		earningsM = EarningsMetrics{}
	}
	ratingsM, err := c.ratings.Calculate(ctx, guideID, period, scope)
	if err != nil {
		c.log.WithFields(logrus.Fields{"guideId": guideID.Hex(), "dimension": DimRatings}).
			WithError(err).Warn("Thành phần ratings trong performance degrade về 0")
		ratingsM = RatingsMetrics{Trend: []int{}}
	}

	var ratingAvg float64
	if ratingsM.Average != nil {
		ratingAvg = *ratingsM.Average
	}

	result := DefaultPerformanceMetrics()
	result.Score = scoreFrom(ratingAvg, tripsM.Completed, earningsM.Total)
	result.Tier = TierFromScore(result.Score)

	// OnTimeRate tính trực tiếp từ assignment; lỗi ở đây chỉ làm field về nil.
	list, err := c.assignments.FindCompletedInPeriod(ctx, guideID, period, scope)
	if err != nil {
		c.log.WithField("guideId", guideID.Hex()).WithError(err).
			Warn("Không đọc được assignment cho onTimeRate")
		return result, nil
	}
	result.OnTimeRate = onTimeRateOf(list)
	if result.OnTimeRate != nil {
		result.Percentile = c.percentileOf(ctx, guideID, period, scope, *result.OnTimeRate)
	}
	return result, nil
}

// percentileOf xếp hạng onTimeRate của guide so với các guide cùng chi nhánh
// có cùng cách tính trong cùng chu kỳ. So sánh strictly-less: hoà không tính
// là hơn. Trả về giá trị trung tính khi không xác định được chi nhánh hoặc
// không có peer nào có tỷ lệ so sánh được.
func (c *PerformanceCalculator) percentileOf(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext, ownRate float64) float64 {
	branchID := scope.BranchID
	if scope.AllBranches {
		guide, err := c.guides.FindByID(ctx, guideID)
		if err != nil || guide == nil {
			return percentileNeutral
		}
		branchID = guide.BranchID
	}
	if branchID.IsZero() {
		return percentileNeutral
	}

	peerIDs, err := c.guides.FindGuideIDsByBranch(ctx, branchID, c.peerLimit)
	if err != nil {
		c.log.WithField("branchId", branchID.Hex()).WithError(err).
			Warn("Không đọc được guide chi nhánh cho percentile đúng giờ")
		return percentileNeutral
	}

	branchScope := BranchScope(branchID)
	var below, comparable int
	for _, peerID := range peerIDs {
		if peerID == guideID {
			continue
		}
		peerList, err := c.assignments.FindCompletedInPeriod(ctx, peerID, period, branchScope)
		if err != nil {
			// Một peer lỗi thì bỏ qua peer đó, không làm hỏng cả phép xếp hạng.
			continue
		}
		peerRate := onTimeRateOf(peerList)
		if peerRate == nil {
			continue
		}
		comparable++
		if *peerRate < ownRate {
			below++
		}
	}
	if comparable == 0 {
		return percentileNeutral
	}
	// Mẫu số tính cả guide để percentile luôn nằm trong [0,100).
	return float64(below) / float64(comparable+1) * 100
}
