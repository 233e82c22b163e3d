// Package metricssvc chứa pipeline tổng hợp unified metrics cho guide.
// File: service.metrics.types.go - các kiểu kết quả của pipeline.
package metricssvc

// Tên các dimension có thể yêu cầu qua Options.Include.
// 5 dimension đầu luôn được tính; phần còn lại là optional.
const (
	DimTrips                = "trips"
	DimEarnings             = "earnings"
	DimRatings              = "ratings"
	DimPerformance          = "performance"
	DimDevelopment          = "development"
	DimCustomerSatisfaction = "customerSatisfaction"
	DimEfficiency           = "efficiency"
	DimFinancial            = "financial"
	DimQuality              = "quality"
	DimGrowth               = "growth"
	DimComparative          = "comparative"
	DimTrends               = "trends"
)

// Tier hiệu suất, suy ra từ score theo ngưỡng cố định 50/65/80.
const (
	TierExcellent        = "excellent"         // score >= 80
	TierGood             = "good"              // score >= 65
	TierAverage          = "average"           // score >= 50
	TierNeedsImprovement = "needs_improvement" // score < 50
)

// Ngưỡng của công thức score: mỗi thành phần bị chặn trần.
const (
	scoreRatingWeight   = 40.0      // Trọng số điểm đánh giá (ratingAvg/5 * 40)
	scoreTripsWeight    = 30.0      // Trọng số số trip hoàn thành (completed/10 * 30)
	scoreEarningsWeight = 30.0      // Trọng số thu nhập (earnings/5_000_000 * 30)
	scoreTripsTarget    = 10.0      // Số trip tham chiếu đạt trần
	scoreEarningsTarget = 5_000_000 // Thu nhập tham chiếu đạt trần (VND)
)

// Percentile trung tính khi không có dữ liệu xếp hạng đúng giờ trong chi nhánh.
const percentileNeutral = 50.0

// Số trip id gần nhất dùng cho mảng trend của ratings.
const ratingTrendSize = 5

// Options tùy chọn của một lần tính unified metrics.
type Options struct {
	Include             []string `json:"include,omitempty"`    // Các dimension bổ sung cần tính
	CalculateTrends     bool     `json:"calculateTrends"`      // Tính delta so với chu kỳ liền trước (mặc định true)
	CompareWithPrevious bool     `json:"compareWithPrevious"`  // So sánh với chu kỳ trước / peer (mặc định false)
}

// DefaultOptions trả về tùy chọn mặc định: có trend, không compare.
func DefaultOptions() Options {
	return Options{CalculateTrends: true}
}

// wantsDim kiểm tra một dimension optional có được yêu cầu hay không.
func (o Options) wantsDim(name string) bool {
	for _, d := range o.Include {
		if d == name {
			return true
		}
	}
	return false
}

// TrendDelta delta phần trăm so với chu kỳ liền trước.
// ChangePct = nil khi giá trị chu kỳ trước bằng 0 (tránh chia 0, không phải lỗi).
type TrendDelta struct {
	ChangePct *float64 `json:"changePct"` // (current - previous) / previous * 100
	Direction string   `json:"direction"` // up | down | stable
}

// TripsMetrics dimension trips: đếm assignment có đủ check-in/check-out trong chu kỳ.
// Bất biến: Completed + Cancelled <= Total (trip không có status terminal chỉ vào Total).
type TripsMetrics struct {
	Total     int64       `json:"total"`
	Completed int64       `json:"completed"`
	Cancelled int64       `json:"cancelled"`
	Trend     *TrendDelta `json:"trend,omitempty"`
}

// EarningsMetrics dimension earnings.
// ByTrip là SỐ GIAO DỊCH earning, không phải số trip - nhiều giao dịch có thể
// cùng tham chiếu một trip (refund + điều chỉnh).
type EarningsMetrics struct {
	Total   float64     `json:"total"`
	Average float64     `json:"average"` // Total / trips.Completed, 0 khi không có trip hoàn thành
	ByTrip  int64       `json:"byTrip"`
	Trend   *TrendDelta `json:"trend,omitempty"`
}

// RatingsMetrics dimension ratings.
// Average = nil khi và chỉ khi Total == 0.
// Trend chứa các rating thuộc 5 trip id gần nhất (theo thứ tự check-out giảm dần).
type RatingsMetrics struct {
	Average      *float64      `json:"average"`
	Total        int64         `json:"total"`
	Trend        []int         `json:"trend"`
	Distribution map[int]int64 `json:"distribution,omitempty"` // Histogram 1..5
}

// PerformanceMetrics dimension performance.
// Score luôn trong [0,100]; OnTimeRate = nil khi không có assignment hoàn chỉnh.
type PerformanceMetrics struct {
	Score      float64  `json:"score"`
	Tier       string   `json:"tier"`
	OnTimeRate *float64 `json:"onTimeRate"`
	Percentile float64  `json:"percentile"`
}

// DevelopmentMetrics dimension development.
type DevelopmentMetrics struct {
	SkillsImproved       int64 `json:"skillsImproved"`
	AssessmentsCompleted int64 `json:"assessmentsCompleted"`
}

// CustomerSatisfactionMetrics dimension optional customerSatisfaction.
// RepeatCustomerRate và ComplaintResolutionRate là placeholder chưa wire dữ liệu
// nguồn - luôn nil, không được gán giá trị tự chế.
type CustomerSatisfactionMetrics struct {
	AverageRating           *float64 `json:"averageRating"`
	ReviewCount             int64    `json:"reviewCount"`
	ResponseRate            *float64 `json:"responseRate"`
	RepeatCustomerRate      *float64 `json:"repeatCustomerRate"`      // Chưa wire - luôn nil
	ComplaintResolutionRate *float64 `json:"complaintResolutionRate"` // Chưa wire - luôn nil
}

// EfficiencyMetrics dimension optional efficiency.
// UtilizationRate và ResponseTime là placeholder chưa wire - luôn nil.
type EfficiencyMetrics struct {
	OnTimeRate           *float64 `json:"onTimeRate"`
	AvgTripDurationHours *float64 `json:"avgTripDurationHours"`
	UtilizationRate      *float64 `json:"utilizationRate"` // Chưa wire - luôn nil
	ResponseTime         *float64 `json:"responseTime"`    // Chưa wire - luôn nil
}

// FinancialMetrics dimension optional financial.
type FinancialMetrics struct {
	TotalEarnings  float64 `json:"totalEarnings"`
	AveragePerTrip float64 `json:"averagePerTrip"`
	Penalties      float64 `json:"penalties"`
	NetEarnings    float64 `json:"netEarnings"`
}

// QualityMetrics dimension optional quality.
// IssueResolutionRate là placeholder chưa wire - luôn nil.
type QualityMetrics struct {
	DocumentationRate   *float64 `json:"documentationRate"`
	PenaltyCount        int64    `json:"penaltyCount"`
	IssueResolutionRate *float64 `json:"issueResolutionRate"` // Chưa wire - luôn nil
}

// GrowthMetrics dimension optional growth: % thay đổi so với chu kỳ liền trước.
// Từng field nil khi giá trị chu kỳ trước bằng 0.
type GrowthMetrics struct {
	TripsChangePct    *float64 `json:"tripsChangePct"`
	EarningsChangePct *float64 `json:"earningsChangePct"`
	RatingChangePct   *float64 `json:"ratingChangePct"`
}

// ComparativeMetrics dimension optional comparative: vị trí của guide so với
// tối đa 50 peer cùng chi nhánh trong cùng chu kỳ.
// Khi không xác định được chi nhánh, toàn bộ field con là nil (all-null shape).
type ComparativeMetrics struct {
	Rank             *int     `json:"rank"`
	PeerCount        int      `json:"peerCount"`
	TopPercent       *float64 `json:"topPercent"`       // 100 - round(rank đã quy về thang 0-100)
	BranchAvgScore   *float64 `json:"branchAvgScore"`
	ScoreGapVsBranch *float64 `json:"scoreGapVsBranch"`
}

// UnifiedMetrics snapshot kết quả của một lần tính - giá trị bất biến, không
// được persist bởi pipeline (worker prewarm persist riêng).
// Các dimension optional là con trỏ: nil = không được yêu cầu hoặc không tính được.
type UnifiedMetrics struct {
	Period               Period                       `json:"period" bson:"period"`
	Trips                TripsMetrics                 `json:"trips" bson:"trips"`
	Earnings             EarningsMetrics              `json:"earnings" bson:"earnings"`
	Ratings              RatingsMetrics               `json:"ratings" bson:"ratings"`
	Performance          PerformanceMetrics           `json:"performance" bson:"performance"`
	Development          DevelopmentMetrics           `json:"development" bson:"development"`
	CustomerSatisfaction *CustomerSatisfactionMetrics `json:"customerSatisfaction,omitempty" bson:"customerSatisfaction,omitempty"`
	Efficiency           *EfficiencyMetrics           `json:"efficiency,omitempty" bson:"efficiency,omitempty"`
	Financial            *FinancialMetrics            `json:"financial,omitempty" bson:"financial,omitempty"`
	Quality              *QualityMetrics              `json:"quality,omitempty" bson:"quality,omitempty"`
	Growth               *GrowthMetrics               `json:"growth,omitempty" bson:"growth,omitempty"`
	Comparative          *ComparativeMetrics          `json:"comparative,omitempty" bson:"comparative,omitempty"`
}

// DefaultUnifiedMetrics trả về snapshot zero/neutral đầy đủ cho một chu kỳ.
// Đây là giá trị degrade của orchestrator: dashboard luôn render được dữ liệu này.
func DefaultUnifiedMetrics(period Period) *UnifiedMetrics {
	return &UnifiedMetrics{
		Period:      period,
		Trips:       TripsMetrics{},
		Earnings:    EarningsMetrics{},
		Ratings:     RatingsMetrics{Average: nil, Total: 0, Trend: []int{}},
		Performance: DefaultPerformanceMetrics(),
		Development: DevelopmentMetrics{},
	}
}

// DefaultPerformanceMetrics shape zero/neutral của dimension performance.
// Percentile 50 là giá trị trung tính khi không có dữ liệu xếp hạng.
func DefaultPerformanceMetrics() PerformanceMetrics {
	return PerformanceMetrics{
		Score:      0,
		Tier:       TierNeedsImprovement,
		OnTimeRate: nil,
		Percentile: percentileNeutral,
	}
}

// TierFromScore ánh xạ score [0,100] sang tier theo ngưỡng 50/65/80.
func TierFromScore(score float64) string {
	switch {
	case score >= 80:
		return TierExcellent
	case score >= 65:
		return TierGood
	case score >= 50:
		return TierAverage
	default:
		return TierNeedsImprovement
	}
}
