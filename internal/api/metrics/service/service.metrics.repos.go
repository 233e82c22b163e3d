// Package metricssvc - các repository interface hẹp, typed theo entity.
// Calculator chỉ nhận repo, không bao giờ chạm trực tiếp vào collection;
// mọi implementation BẮT BUỘC áp predicate chi nhánh từ ScopeContext.
package metricssvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
)

// ScopeContext phạm vi hiển thị dữ liệu đã resolve cho một lần tính.
// AllBranches = true chỉ dành cho principal super-scope; khi false, mọi truy
// vấn phải filter branchId = BranchID.
type ScopeContext struct {
	BranchID    primitive.ObjectID // Chi nhánh được phép nhìn thấy
	AllBranches bool               // true = không áp filter chi nhánh
}

// SuperScope trả về scope nhìn thấy mọi chi nhánh.
func SuperScope() ScopeContext {
	return ScopeContext{AllBranches: true}
}

// BranchScope trả về scope giới hạn trong một chi nhánh.
func BranchScope(branchID primitive.ObjectID) ScopeContext {
	return ScopeContext{BranchID: branchID}
}

// ScopeResolver xác định phạm vi dữ liệu cho một lần tính metrics của guideID,
// dựa trên phạm vi của principal gọi. Lỗi resolve là fail-closed: không bao giờ
// được nuốt hay thay bằng giá trị mặc định.
type ScopeResolver interface {
	Resolve(ctx context.Context, caller ScopeContext, guideID primitive.ObjectID) (ScopeContext, error)
}

// TripAssignmentRepo đọc phân công trip của guide.
type TripAssignmentRepo interface {
	// FindCompletedInPeriod trả về các assignment của guide có đủ check-in và
	// check-out với check-out trong [period.Start, period.End), sort theo
	// checkOutAt giảm dần (trip gần nhất đứng đầu).
	FindCompletedInPeriod(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) ([]tourmodels.TripAssignment, error)
}

// TripRepo đọc trạng thái terminal của trip.
type TripRepo interface {
	// StatusesByIDs trả về map tripId -> status terminal. Trip không có status
	// terminal không xuất hiện trong map.
	StatusesByIDs(ctx context.Context, tripIDs []primitive.ObjectID, scope ScopeContext) (map[primitive.ObjectID]string, error)
}

// WalletRepo đọc ví của guide.
type WalletRepo interface {
	// FindByGuide trả về (nil, nil) khi guide chưa có ví - không phải lỗi.
	FindByGuide(ctx context.Context, guideID primitive.ObjectID, scope ScopeContext) (*tourmodels.Wallet, error)
}

// TransactionRepo đọc giao dịch ví.
type TransactionRepo interface {
	// FindEarningsByTrips trả về các giao dịch type=earning của ví tham chiếu
	// đến một trong các trip id đã cho.
	FindEarningsByTrips(ctx context.Context, walletID primitive.ObjectID, tripIDs []primitive.ObjectID) ([]tourmodels.WalletTransaction, error)
	// SumDeductionsByTrips tổng tiền các giao dịch type=deduction của ví tham
	// chiếu đến một trong các trip id đã cho.
	SumDeductionsByTrips(ctx context.Context, walletID primitive.ObjectID, tripIDs []primitive.ObjectID) (float64, error)
}

// BookingRepo đọc booking theo trip.
type BookingRepo interface {
	FindByTrips(ctx context.Context, tripIDs []primitive.ObjectID) ([]tourmodels.Booking, error)
}

// ReviewRepo đọc review theo booking.
type ReviewRepo interface {
	// FindGuideRatedByBookings trả về các review có GuideRating khác nil.
	FindGuideRatedByBookings(ctx context.Context, bookingIDs []primitive.ObjectID) ([]tourmodels.Review, error)
}

// SkillRepo đọc tín hiệu phát triển kỹ năng.
type SkillRepo interface {
	// CountImprovedInPeriod đếm skill có level > 1 được cập nhật trong chu kỳ.
	CountImprovedInPeriod(ctx context.Context, guideID primitive.ObjectID, period Period) (int64, error)
}

// AssessmentRepo đọc bài đánh giá năng lực.
type AssessmentRepo interface {
	// CountCompletedInPeriod đếm assessment có completedAt trong chu kỳ.
	CountCompletedInPeriod(ctx context.Context, guideID primitive.ObjectID, period Period) (int64, error)
}

// GuideRepo đọc thông tin guide và tập peer trong chi nhánh.
type GuideRepo interface {
	FindByID(ctx context.Context, guideID primitive.ObjectID) (*tourmodels.User, error)
	// FindGuideIDsByBranch trả về tối đa limit guide id đang hoạt động trong
	// chi nhánh (bao gồm cả guideID nếu thuộc chi nhánh).
	FindGuideIDsByBranch(ctx context.Context, branchID primitive.ObjectID, limit int) ([]primitive.ObjectID, error)
}

// SnapshotRepo đọc/ghi store snapshot đã tính trước.
// Pipeline chỉ gọi FindExact; Upsert dành cho worker prewarm (bên ghi duy nhất).
type SnapshotRepo interface {
	// FindExact trả về (nil, nil) khi không có snapshot cho đúng key
	// (guideId, periodType, periodStart, periodEnd).
	FindExact(ctx context.Context, guideID primitive.ObjectID, period Period) (*tourmodels.MetricsSnapshot, error)
	Upsert(ctx context.Context, snap *tourmodels.MetricsSnapshot) error
}

// Repos gom toàn bộ repository mà pipeline cần, inject vào MetricsService.
type Repos struct {
	Scope       ScopeResolver
	Assignments TripAssignmentRepo
	Trips       TripRepo
	Wallets     WalletRepo
	Txs         TransactionRepo
	Bookings    BookingRepo
	Reviews     ReviewRepo
	Skills      SkillRepo
	Assessments AssessmentRepo
	Guides      GuideRepo
	Snapshots   SnapshotRepo
}
