// Package metricssvc - Test các calculator dimension trên fake repo.
package metricssvc

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
)

func testPeriod() Period {
	return MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
}

func TestTripsCalculator_CompletedCancelledTheoStatusTerminal(t *testing.T) {
	guideID := primitive.NewObjectID()
	t1, t2, t3 := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	period := testPeriod()

	list := []tourmodels.TripAssignment{
		assignment(guideID, t1, period.StartMillis()+3000, false),
		assignment(guideID, t2, period.StartMillis()+2000, false),
		assignment(guideID, t3, period.StartMillis()+1000, false),
	}
	calc := NewTripsCalculator(
		fakeAssignmentRepo{fn: func(primitive.ObjectID, Period) ([]tourmodels.TripAssignment, error) {
			return list, nil
		}},
		fakeTripRepo{statuses: map[primitive.ObjectID]string{
			t1: tourmodels.TripStatusCompleted,
			t2: tourmodels.TripStatusCancelled,
			// t3 chưa có status terminal
		}},
	)

	m, err := calc.Calculate(context.Background(), guideID, period, SuperScope())
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	if m.Total != 3 {
		t.Errorf("Total phải là 3, nhận được %d", m.Total)
	}
	if m.Completed != 1 || m.Cancelled != 1 {
		t.Errorf("Completed/Cancelled phải là 1/1, nhận được %d/%d", m.Completed, m.Cancelled)
	}
	if m.Completed+m.Cancelled > m.Total {
		t.Error("Bất biến Completed + Cancelled <= Total bị vi phạm")
	}
}

func TestTripsCalculator_KhongCoAssignment(t *testing.T) {
	calc := NewTripsCalculator(fakeAssignmentRepo{}, fakeTripRepo{})
	m, err := calc.Calculate(context.Background(), primitive.NewObjectID(), testPeriod(), SuperScope())
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	if m.Total != 0 || m.Completed != 0 || m.Cancelled != 0 {
		t.Errorf("Chu kỳ rỗng phải trả về shape zero, nhận được %+v", m)
	}
}

func TestEarningsCalculator_ByTripLaSoGiaoDich(t *testing.T) {
	guideID := primitive.NewObjectID()
	t1 := primitive.NewObjectID()
	period := testPeriod()
	walletID := primitive.NewObjectID()

	list := []tourmodels.TripAssignment{assignment(guideID, t1, period.StartMillis()+1000, false)}
	// Hai giao dịch earning cùng tham chiếu một trip (điều chỉnh sau refund)
	txs := []tourmodels.WalletTransaction{
		{WalletID: walletID, TripID: &t1, Type: tourmodels.TransactionTypeEarning, Amount: 2_000_000},
		{WalletID: walletID, TripID: &t1, Type: tourmodels.TransactionTypeEarning, Amount: 1_000_000},
	}
	calc := NewEarningsCalculator(
		fakeAssignmentRepo{fn: func(primitive.ObjectID, Period) ([]tourmodels.TripAssignment, error) {
			return list, nil
		}},
		fakeTripRepo{statuses: map[primitive.ObjectID]string{t1: tourmodels.TripStatusCompleted}},
		fakeWalletRepo{wallet: &tourmodels.Wallet{ID: walletID, GuideID: guideID}},
		fakeTxRepo{earnings: txs},
	)

	m, err := calc.Calculate(context.Background(), guideID, period, SuperScope())
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	if m.Total != 3_000_000 {
		t.Errorf("Total phải là 3,000,000, nhận được %v", m.Total)
	}
	if m.ByTrip != 2 {
		t.Errorf("ByTrip đếm SỐ GIAO DỊCH earning (2), không phải số trip distinct (1), nhận được %d", m.ByTrip)
	}
	if m.Average != 3_000_000 {
		t.Errorf("Average = Total / completed = 3,000,000 / 1, nhận được %v", m.Average)
	}
}

func TestEarningsCalculator_ChuaCoViKhongPhaiLoi(t *testing.T) {
	guideID := primitive.NewObjectID()
	period := testPeriod()
	list := []tourmodels.TripAssignment{assignment(guideID, primitive.NewObjectID(), period.StartMillis()+1000, false)}

	calc := NewEarningsCalculator(
		fakeAssignmentRepo{fn: func(primitive.ObjectID, Period) ([]tourmodels.TripAssignment, error) {
			return list, nil
		}},
		fakeTripRepo{},
		fakeWalletRepo{wallet: nil},
		fakeTxRepo{},
	)

	m, err := calc.Calculate(context.Background(), guideID, period, SuperScope())
	if err != nil {
		t.Fatalf("Guide chưa có ví phải trả về shape zero không lỗi, nhận lỗi: %v", err)
	}
	if m.Total != 0 || m.ByTrip != 0 || m.Average != 0 {
		t.Errorf("Guide chưa có ví phải trả về shape zero, nhận được %+v", m)
	}
}

func TestRatingsCalculator_AverageNilKhiVaChiKhiTotalBangKhong(t *testing.T) {
	guideID := primitive.NewObjectID()
	period := testPeriod()

	// Không có assignment nào -> Total = 0, Average = nil, Trend = []
	calc := NewRatingsCalculator(fakeAssignmentRepo{}, fakeBookingRepo{}, fakeReviewRepo{})
	m, err := calc.Calculate(context.Background(), guideID, period, SuperScope())
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	if m.Average != nil {
		t.Errorf("Average phải là nil khi Total == 0, nhận được %v", *m.Average)
	}
	if m.Trend == nil || len(m.Trend) != 0 {
		t.Errorf("Trend phải là mảng rỗng (không phải nil), nhận được %v", m.Trend)
	}
}

func TestRatingsCalculator_TrendTheoTripGanNhat(t *testing.T) {
	guideID := primitive.NewObjectID()
	t1, t2 := primitive.NewObjectID(), primitive.NewObjectID()
	b1, b2 := primitive.NewObjectID(), primitive.NewObjectID()
	period := testPeriod()
	r5, r4 := 5, 4

	// t1 check-out muộn hơn t2 -> t1 đứng đầu danh sách (gần nhất)
	list := []tourmodels.TripAssignment{
		assignment(guideID, t1, period.StartMillis()+2000, false),
		assignment(guideID, t2, period.StartMillis()+1000, false),
	}
	calc := NewRatingsCalculator(
		fakeAssignmentRepo{fn: func(primitive.ObjectID, Period) ([]tourmodels.TripAssignment, error) {
			return list, nil
		}},
		fakeBookingRepo{bookings: []tourmodels.Booking{
			{ID: b1, TripID: t1},
			{ID: b2, TripID: t2},
		}},
		fakeReviewRepo{reviews: []tourmodels.Review{
			{BookingID: b1, GuideRating: &r5},
			{BookingID: b2, GuideRating: &r4},
		}},
	)

	m, err := calc.Calculate(context.Background(), guideID, period, SuperScope())
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	if m.Total != 2 {
		t.Errorf("Total phải là 2, nhận được %d", m.Total)
	}
	if m.Average == nil || *m.Average != 4.5 {
		t.Errorf("Average phải là 4.5, nhận được %v", m.Average)
	}
	if len(m.Trend) != 2 || m.Trend[0] != 5 || m.Trend[1] != 4 {
		t.Errorf("Trend phải là [5 4] (trip gần nhất đứng đầu), nhận được %v", m.Trend)
	}
	if m.Distribution[5] != 1 || m.Distribution[4] != 1 {
		t.Errorf("Distribution phải là {5:1, 4:1}, nhận được %v", m.Distribution)
	}
}

func TestRatingsCalculator_TrendGioiHanNamTrip(t *testing.T) {
	guideID := primitive.NewObjectID()
	period := testPeriod()
	rating := 5

	var list []tourmodels.TripAssignment
	var bookings []tourmodels.Booking
	var reviews []tourmodels.Review
	for i := 0; i < 7; i++ {
		tripID := primitive.NewObjectID()
		bookingID := primitive.NewObjectID()
		list = append(list, assignment(guideID, tripID, period.StartMillis()+int64(7-i)*1000, false))
		bookings = append(bookings, tourmodels.Booking{ID: bookingID, TripID: tripID})
		reviews = append(reviews, tourmodels.Review{BookingID: bookingID, GuideRating: &rating})
	}
	calc := NewRatingsCalculator(
		fakeAssignmentRepo{fn: func(primitive.ObjectID, Period) ([]tourmodels.TripAssignment, error) {
			return list, nil
		}},
		fakeBookingRepo{bookings: bookings},
		fakeReviewRepo{reviews: reviews},
	)

	m, err := calc.Calculate(context.Background(), guideID, period, SuperScope())
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	if m.Total != 7 {
		t.Errorf("Total phải là 7, nhận được %d", m.Total)
	}
	if len(m.Trend) != 5 {
		t.Errorf("Trend chỉ lấy rating của 5 trip gần nhất, nhận được %d phần tử", len(m.Trend))
	}
}

func TestDevelopmentCalculator(t *testing.T) {
	calc := NewDevelopmentCalculator(fakeSkillRepo{count: 2}, fakeAssessmentRepo{count: 1})
	m, err := calc.Calculate(context.Background(), primitive.NewObjectID(), testPeriod())
	if err != nil {
		t.Fatalf("Calculate lỗi: %v", err)
	}
	if m.SkillsImproved != 2 || m.AssessmentsCompleted != 1 {
		t.Errorf("Phải là 2 skill / 1 assessment, nhận được %+v", m)
	}
}

func TestDevelopmentCalculator_LoiMotNguonLamHongCaDimension(t *testing.T) {
	calc := NewDevelopmentCalculator(fakeSkillRepo{err: errors.New("db down")}, fakeAssessmentRepo{count: 1})
	if _, err := calc.Calculate(context.Background(), primitive.NewObjectID(), testPeriod()); err == nil {
		t.Error("Lỗi đọc skill phải làm cả dimension lỗi (orchestrator mới là nơi degrade)")
	}
}
