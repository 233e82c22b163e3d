// Package metricssvc - Test growth và comparative.
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

func TestChangePct_NilKhiChuKyTruocBangKhong(t *testing.T) {
	if changePct(10, 0) != nil {
		t.Error("changePct phải là nil khi previous == 0 (không phải 0%)")
	}
	pct := changePct(15, 10)
	if pct == nil {
		t.Fatal("changePct không được nil khi previous > 0")
	}
	assert.InDelta(t, 50, *pct, 0.0001)

	pct = changePct(5, 10)
	assert.InDelta(t, -50, *pct, 0.0001)
}

func TestTrendOf_Direction(t *testing.T) {
	if d := trendOf(10, 5); d.Direction != "up" {
		t.Errorf("10 so với 5 phải là up, nhận được %s", d.Direction)
	}
	if d := trendOf(5, 10); d.Direction != "down" {
		t.Errorf("5 so với 10 phải là down, nhận được %s", d.Direction)
	}
	if d := trendOf(7, 7); d.Direction != "stable" {
		t.Errorf("7 so với 7 phải là stable, nhận được %s", d.Direction)
	}
	// previous == 0 vẫn có direction, chỉ ChangePct là nil
	d := trendOf(3, 0)
	if d.ChangePct != nil || d.Direction != "up" {
		t.Errorf("Trend từ 0 lên 3: ChangePct nil + direction up, nhận được %+v", d)
	}
}

// comparativeEngine dựng ComparativeEngine trên bộ repo fake.
func comparativeEngine(repos *Repos, peerLimit int) *ComparativeEngine {
	trips := NewTripsCalculator(repos.Assignments, repos.Trips)
	earnings := NewEarningsCalculator(repos.Assignments, repos.Trips, repos.Wallets, repos.Txs)
	ratings := NewRatingsCalculator(repos.Assignments, repos.Bookings, repos.Reviews)
	performance := NewPerformanceCalculator(trips, earnings, ratings, repos.Assignments, repos.Guides, peerLimit, logger.GetAppLogger())
	return NewComparativeEngine(trips, earnings, ratings, performance, repos.Guides, peerLimit, logger.GetAppLogger())
}

// completedAssignments sinh n assignment với trip completed cho guide, đăng ký
// status vào statuses.
func completedAssignments(guideID primitive.ObjectID, n int, startMs int64, statuses map[primitive.ObjectID]string) []tourmodels.TripAssignment {
	list := make([]tourmodels.TripAssignment, 0, n)
	for i := 0; i < n; i++ {
		tripID := primitive.NewObjectID()
		statuses[tripID] = tourmodels.TripStatusCompleted
		list = append(list, assignment(guideID, tripID, startMs+int64(n-i)*1000, false))
	}
	return list
}

func TestComparative_XepHangTrongChiNhanh(t *testing.T) {
	guideID := primitive.NewObjectID()
	peerA := primitive.NewObjectID()
	peerB := primitive.NewObjectID()
	branchID := primitive.NewObjectID()
	period := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// Score chỉ đến từ thành phần trips: guide 5 completed (15), peerA 10 (30), peerB 0 (0)
	statuses := map[primitive.ObjectID]string{}
	byGuide := map[primitive.ObjectID][]tourmodels.TripAssignment{
		guideID: completedAssignments(guideID, 5, period.StartMillis(), statuses),
		peerA:   completedAssignments(peerA, 10, period.StartMillis(), statuses),
	}

	repos := testRepos()
	repos.Assignments = fakeAssignmentRepo{fn: func(id primitive.ObjectID, p Period) ([]tourmodels.TripAssignment, error) {
		if p.Start.Equal(period.Start) {
			return byGuide[id], nil
		}
		return nil, nil
	}}
	repos.Trips = fakeTripRepo{statuses: statuses}
	repos.Guides = fakeGuideRepo{peers: []primitive.ObjectID{guideID, peerA, peerB}}

	m, err := comparativeEngine(repos, 50).Comparative(context.Background(), guideID, period, BranchScope(branchID))
	if err != nil {
		t.Fatalf("Comparative lỗi: %v", err)
	}
	if m.Rank == nil || *m.Rank != 2 {
		t.Fatalf("Guide 15 điểm sau peerA 30 điểm phải rank 2, nhận được %v", m.Rank)
	}
	assert.Equal(t, 3, m.PeerCount)
	// rank 2/3 -> 66.67 -> round 67 -> top 33
	assert.InDelta(t, 33, *m.TopPercent, 0.0001)
	assert.InDelta(t, 15, *m.BranchAvgScore, 0.0001)
	assert.InDelta(t, 0, *m.ScoreGapVsBranch, 0.0001)
}

func TestComparative_KhongXacDinhDuocChiNhanh_AllNull(t *testing.T) {
	period := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	repos := testRepos()
	repos.Guides = fakeGuideRepo{guideErr: errors.New("guide không tồn tại")}

	m, err := comparativeEngine(repos, 50).Comparative(context.Background(), primitive.NewObjectID(), period, SuperScope())
	if err != nil {
		t.Fatalf("Không xác định được chi nhánh phải trả về all-null, không lỗi: %v", err)
	}
	if m.Rank != nil || m.TopPercent != nil || m.BranchAvgScore != nil || m.ScoreGapVsBranch != nil {
		t.Errorf("Shape phải all-null, nhận được %+v", m)
	}
	if m.PeerCount != 0 {
		t.Errorf("PeerCount phải là 0, nhận được %d", m.PeerCount)
	}
}

func TestComparative_PeerLimitChanTran(t *testing.T) {
	guideID := primitive.NewObjectID()
	period := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	peers := []primitive.ObjectID{guideID}
	for i := 0; i < 10; i++ {
		peers = append(peers, primitive.NewObjectID())
	}
	repos := testRepos()
	repos.Guides = fakeGuideRepo{peers: peers}

	m, err := comparativeEngine(repos, 3).Comparative(context.Background(), guideID, period, BranchScope(primitive.NewObjectID()))
	if err != nil {
		t.Fatalf("Comparative lỗi: %v", err)
	}
	if m.PeerCount > 3 {
		t.Errorf("PeerCount không được vượt peerLimit 3, nhận được %d", m.PeerCount)
	}
}

func TestGrowth_FieldNilKhiChuKyTruocBangKhong(t *testing.T) {
	guideID := primitive.NewObjectID()
	period := MonthlyPeriod(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC))
	prev := PreviousPeriod(period)

	statuses := map[primitive.ObjectID]string{}
	cur := completedAssignments(guideID, 4, period.StartMillis(), statuses)
	prevList := completedAssignments(guideID, 2, prev.StartMillis(), statuses)

	repos := testRepos()
	repos.Assignments = fakeAssignmentRepo{fn: func(id primitive.ObjectID, p Period) ([]tourmodels.TripAssignment, error) {
		if p.Start.Equal(period.Start) {
			return cur, nil
		}
		if p.Start.Equal(prev.Start) {
			return prevList, nil
		}
		return nil, nil
	}}
	repos.Trips = fakeTripRepo{statuses: statuses}

	m, err := comparativeEngine(repos, 50).Growth(context.Background(), guideID, period, SuperScope())
	if err != nil {
		t.Fatalf("Growth lỗi: %v", err)
	}
	if m.TripsChangePct == nil {
		t.Fatal("TripsChangePct phải có giá trị khi chu kỳ trước có trip")
	}
	assert.InDelta(t, 100, *m.TripsChangePct, 0.0001)
	// Không có ví -> earnings cả hai chu kỳ bằng 0 -> nil
	if m.EarningsChangePct != nil {
		t.Errorf("EarningsChangePct phải là nil khi chu kỳ trước bằng 0, nhận được %v", *m.EarningsChangePct)
	}
	if m.RatingChangePct != nil {
		t.Errorf("RatingChangePct phải là nil khi chu kỳ trước không có rating, nhận được %v", *m.RatingChangePct)
	}
}
