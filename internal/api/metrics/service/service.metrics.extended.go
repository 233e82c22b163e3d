// Package metricssvc - ExtendedCalculator: 4 dimension optional
// (customerSatisfaction, efficiency, financial, quality).
// Chỉ chạy khi được yêu cầu qua Options.Include; lỗi của từng dimension làm
// dimension đó thành nil, không lan sang dimension khác.
package metricssvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ExtendedCalculator tính các dimension mở rộng từ cùng nguồn dữ liệu với
// các dimension cơ bản.
type ExtendedCalculator struct {
	assignments TripAssignmentRepo
	trips       TripRepo
	wallets     WalletRepo
	txs         TransactionRepo
	bookings    BookingRepo
	reviews     ReviewRepo
	earnings    *EarningsCalculator
	ratings     *RatingsCalculator
}

// NewExtendedCalculator tạo mới ExtendedCalculator.
func NewExtendedCalculator(repos *Repos, earnings *EarningsCalculator, ratings *RatingsCalculator) *ExtendedCalculator {
	return &ExtendedCalculator{
		assignments: repos.Assignments,
		trips:       repos.Trips,
		wallets:     repos.Wallets,
		txs:         repos.Txs,
		bookings:    repos.Bookings,
		reviews:     repos.Reviews,
		earnings:    earnings,
		ratings:     ratings,
	}
}

// CustomerSatisfaction tính dimension customerSatisfaction.
// RepeatCustomerRate và ComplaintResolutionRate chưa có nguồn dữ liệu nên
// giữ nguyên nil.
func (c *ExtendedCalculator) CustomerSatisfaction(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (*CustomerSatisfactionMetrics, error) {
	result := &CustomerSatisfactionMetrics{}

	list, err := c.assignments.FindCompletedInPeriod(ctx, guideID, period, scope)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return result, nil
	}
	bookings, err := c.bookings.FindByTrips(ctx, tripIDsOf(list))
	if err != nil {
		return nil, err
	}
	if len(bookings) == 0 {
		return result, nil
	}
	bookingIDs := make([]primitive.ObjectID, 0, len(bookings))
	for _, b := range bookings {
		bookingIDs = append(bookingIDs, b.ID)
	}
	reviews, err := c.reviews.FindGuideRatedByBookings(ctx, bookingIDs)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return result, nil
	}

	var sum float64
	var responded int64
	for _, rv := range reviews {
		sum += float64(*rv.GuideRating)
		if rv.Responded {
			responded++
		}
	}
	result.ReviewCount = int64(len(reviews))
	avg := sum / float64(result.ReviewCount)
	result.AverageRating = &avg
	rate := float64(responded) / float64(result.ReviewCount) * 100
	result.ResponseRate = &rate
	return result, nil
}

// Efficiency tính dimension efficiency.
// UtilizationRate và ResponseTime chưa có nguồn dữ liệu nên giữ nguyên nil.
func (c *ExtendedCalculator) Efficiency(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (*EfficiencyMetrics, error) {
	result := &EfficiencyMetrics{}

	list, err := c.assignments.FindCompletedInPeriod(ctx, guideID, period, scope)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return result, nil
	}

	var onTime int64
	var totalHours float64
	for _, a := range list {
		if !a.LateFlag {
			onTime++
		}
		totalHours += float64(*a.CheckOutAt-*a.CheckInAt) / float64(3600*1000)
	}
	rate := float64(onTime) / float64(len(list)) * 100
	result.OnTimeRate = &rate
	avgHours := totalHours / float64(len(list))
	result.AvgTripDurationHours = &avgHours
	return result, nil
}

// Financial tính dimension financial: thu nhập gộp, khấu trừ và thu nhập ròng.
func (c *ExtendedCalculator) Financial(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (*FinancialMetrics, error) {
	result := &FinancialMetrics{}

	earningsM, err := c.earnings.Calculate(ctx, guideID, period, scope)
	if err != nil {
		return nil, err
	}
	result.TotalEarnings = earningsM.Total
	result.AveragePerTrip = earningsM.Average

	list, err := c.assignments.FindCompletedInPeriod(ctx, guideID, period, scope)
	if err != nil {
		return nil, err
	}
	if len(list) > 0 {
		wallet, err := c.wallets.FindByGuide(ctx, guideID, scope)
		if err != nil {
			return nil, err
		}
		if wallet != nil {
			deductions, err := c.txs.SumDeductionsByTrips(ctx, wallet.ID, tripIDsOf(list))
			if err != nil {
				return nil, err
			}
			result.Penalties = deductions
		}
	}
	result.NetEarnings = result.TotalEarnings - result.Penalties
	return result, nil
}

// Quality tính dimension quality.
// IssueResolutionRate chưa có nguồn dữ liệu nên giữ nguyên nil.
func (c *ExtendedCalculator) Quality(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (*QualityMetrics, error) {
	result := &QualityMetrics{}

	list, err := c.assignments.FindCompletedInPeriod(ctx, guideID, period, scope)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return result, nil
	}

	var documented int64
	for _, a := range list {
		if a.DocsComplete {
			documented++
		}
		if a.PenaltyAmount > 0 {
			result.PenaltyCount++
		}
	}
	rate := float64(documented) / float64(len(list)) * 100
	result.DocumentationRate = &rate
	return result, nil
}
