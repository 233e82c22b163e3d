// Package metricssvc - Test công thức score và dimension performance.
package metricssvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
	"meta_tourism/internal/logger"
)

func TestScoreFrom_CongThucCoChanTran(t *testing.T) {
	// avg 4.6 -> 36.8; 12 trip vượt mốc 10 -> chặn 30; 6.8M vượt mốc 5M -> chặn 30
	assert.InDelta(t, 96.8, scoreFrom(4.6, 12, 6_800_000), 0.0001)

	// Dưới mốc: tuyến tính theo từng thành phần
	// 2.5/5*40 = 20; 5/10*30 = 15; 2.5M/5M*30 = 15
	assert.InDelta(t, 50, scoreFrom(2.5, 5, 2_500_000), 0.0001)

	// Shape zero
	assert.InDelta(t, 0, scoreFrom(0, 0, 0), 0.0001)

	// Trần tuyệt đối là 100
	assert.InDelta(t, 100, scoreFrom(5, 100, 100_000_000), 0.0001)
}

func TestTierFromScore_Nguong(t *testing.T) {
	assert.Equal(t, TierNeedsImprovement, TierFromScore(0))
	assert.Equal(t, TierNeedsImprovement, TierFromScore(49.99))
	assert.Equal(t, TierAverage, TierFromScore(50))
	assert.Equal(t, TierAverage, TierFromScore(64.99))
	assert.Equal(t, TierGood, TierFromScore(65))
	assert.Equal(t, TierGood, TierFromScore(79.99))
	assert.Equal(t, TierExcellent, TierFromScore(80))
	assert.Equal(t, TierExcellent, TierFromScore(100))
}

// perfCalculator dựng PerformanceCalculator trên bộ repo fake.
func perfCalculator(repos *Repos) *PerformanceCalculator {
	trips := NewTripsCalculator(repos.Assignments, repos.Trips)
	earnings := NewEarningsCalculator(repos.Assignments, repos.Trips, repos.Wallets, repos.Txs)
	ratings := NewRatingsCalculator(repos.Assignments, repos.Bookings, repos.Reviews)
	return NewPerformanceCalculator(trips, earnings, ratings, repos.Assignments, repos.Guides, 50, logger.GetAppLogger())
}

func TestPerformanceCalculator_OnTimeRate(t *testing.T) {
	guideID := primitive.NewObjectID()
	period := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	t1, t2, t3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()

	// 2/3 assignment đúng giờ
	list := []tourmodels.TripAssignment{
		assignment(guideID, t1, period.StartMillis()+3000, false),
		assignment(guideID, t2, period.StartMillis()+2000, true),
		assignment(guideID, t3, period.StartMillis()+1000, false),
	}
	repos := testRepos()
	repos.Assignments = fakeAssignmentRepo{fn: func(primitive.ObjectID, Period) ([]tourmodels.TripAssignment, error) {
		return list, nil
	}}

	m, err := perfCalculator(repos).Calculate(context.Background(), guideID, period, SuperScope())
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	if m.OnTimeRate == nil {
		t.Fatal("OnTimeRate phải có giá trị khi có assignment")
	}
	assert.InDelta(t, 66.6667, *m.OnTimeRate, 0.001)
	assert.InDelta(t, 50, m.Percentile, 0.0001, "Percentile trung tính 50 khi không xác định được chi nhánh")
}

func TestPerformanceCalculator_PercentileXepHangDungGioTrongChiNhanh(t *testing.T) {
	branchID := primitive.NewObjectID()
	guideID := primitive.NewObjectID()
	peerA, peerB, peerC := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	period := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	ms := period.StartMillis()

	// guide: 2/2 đúng giờ (100%); peerA: 1/2 (50%, thấp hơn);
	// peerB: 2/2 (100%, hoà - không tính là hơn); peerC: không có assignment (bỏ qua)
	byGuide := map[primitive.ObjectID][]tourmodels.TripAssignment{
		guideID: {
			assignment(guideID, primitive.NewObjectID(), ms+2000, false),
			assignment(guideID, primitive.NewObjectID(), ms+1000, false),
		},
		peerA: {
			assignment(peerA, primitive.NewObjectID(), ms+2000, true),
			assignment(peerA, primitive.NewObjectID(), ms+1000, false),
		},
		peerB: {
			assignment(peerB, primitive.NewObjectID(), ms+2000, false),
			assignment(peerB, primitive.NewObjectID(), ms+1000, false),
		},
	}
	repos := testRepos()
	repos.Assignments = fakeAssignmentRepo{fn: func(id primitive.ObjectID, _ Period) ([]tourmodels.TripAssignment, error) {
		return byGuide[id], nil
	}}
	repos.Guides = fakeGuideRepo{peers: []primitive.ObjectID{guideID, peerA, peerB, peerC}}

	m, err := perfCalculator(repos).Calculate(context.Background(), guideID, period, BranchScope(branchID))
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	// 1 peer thấp hơn trong 2 peer so sánh được, mẫu số tính cả guide: 1/3*100
	assert.InDelta(t, 33.3333, m.Percentile, 0.001)
}

func TestPerformanceCalculator_PercentileTrungTinhKhiKhongCoPeer(t *testing.T) {
	branchID := primitive.NewObjectID()
	guideID := primitive.NewObjectID()
	period := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	repos := testRepos()
	repos.Assignments = fakeAssignmentRepo{fn: func(id primitive.ObjectID, _ Period) ([]tourmodels.TripAssignment, error) {
		if id == guideID {
			return []tourmodels.TripAssignment{
				assignment(guideID, primitive.NewObjectID(), period.StartMillis()+1000, false),
			}, nil
		}
		return nil, nil
	}}
	// Chi nhánh chỉ có mỗi guide
	repos.Guides = fakeGuideRepo{peers: []primitive.ObjectID{guideID}}

	m, err := perfCalculator(repos).Calculate(context.Background(), guideID, period, BranchScope(branchID))
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	assert.InDelta(t, 50, m.Percentile, 0.0001, "Một mình trong chi nhánh thì percentile trung tính")
}

func TestPerformanceCalculator_ThanhPhanLoiDegradeVeKhong(t *testing.T) {
	guideID := primitive.NewObjectID()
	period := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// Mọi nguồn dữ liệu đều lỗi -> score 0, tier thấp nhất, không trả lỗi
	repos := testRepos()
	repos.Assignments = fakeAssignmentRepo{fn: func(primitive.ObjectID, Period) ([]tourmodels.TripAssignment, error) {
		return nil, errors.New("db down")
	}}

	m, err := perfCalculator(repos).Calculate(context.Background(), guideID, period, SuperScope())
	if err != nil {
		t.Fatalf("Thành phần lỗi phải degrade, không trả lỗi: %v", err)
	}
	assert.InDelta(t, 0, m.Score, 0.0001)
	assert.Equal(t, TierNeedsImprovement, m.Tier)
	if m.OnTimeRate != nil {
		t.Errorf("OnTimeRate phải là nil khi không đọc được assignment, nhận được %v", *m.OnTimeRate)
	}
}
