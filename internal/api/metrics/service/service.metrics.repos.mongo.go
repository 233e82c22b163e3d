// Package metricssvc - implementation MongoDB của các repository interface.
// Mọi truy vấn đều đi qua scopeFilter: predicate chi nhánh là bắt buộc, không
// calculator nào được bypass.
package metricssvc

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	tourmodels "meta_tourism/internal/api/tour/models"
	"meta_tourism/internal/common"
	"meta_tourism/internal/global"
)

// scopeFilter bổ sung predicate chi nhánh vào filter nếu scope không phải super-scope.
func scopeFilter(filter bson.M, scope ScopeContext) bson.M {
	if scope.AllBranches {
		return filter
	}
	filter["branchId"] = scope.BranchID
	return filter
}

// getCollection lấy collection từ registry, lỗi nếu chưa đăng ký.
func getCollection(name string) (*mongo.Collection, error) {
	coll, ok := global.RegistryCollections.Get(name)
	if !ok {
		return nil, fmt.Errorf("không tìm thấy collection %s: %w", name, common.ErrNotFound)
	}
	return coll, nil
}

// ====================================
// SCOPE RESOLVER
// ====================================

// MongoScopeResolver resolve phạm vi từ collection users.
type MongoScopeResolver struct {
	userColl *mongo.Collection
}

// NewMongoScopeResolver tạo mới MongoScopeResolver.
func NewMongoScopeResolver() (*MongoScopeResolver, error) {
	coll, err := getCollection(global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, err
	}
	return &MongoScopeResolver{userColl: coll}, nil
}

// Resolve xác định phạm vi dữ liệu cho guideID theo phạm vi của caller.
// Fail-closed: mọi lỗi (guide không tồn tại, guide ngoài chi nhánh của caller,
// lỗi truy vấn) đều trả về ErrScopeResolution - không bao giờ degrade.
func (r *MongoScopeResolver) Resolve(ctx context.Context, caller ScopeContext, guideID primitive.ObjectID) (ScopeContext, error) {
	var guide tourmodels.User
	err := r.userColl.FindOne(ctx, bson.M{"_id": guideID, "isGuide": true}).Decode(&guide)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return ScopeContext{}, common.ErrScopeResolution
		}
		return ScopeContext{}, fmt.Errorf("%w: %v", common.ErrScopeResolution, err)
	}
	if guide.BranchID.IsZero() {
		return ScopeContext{}, common.ErrScopeResolution
	}
	if !caller.AllBranches && guide.BranchID != caller.BranchID {
		return ScopeContext{}, common.ErrScopeResolution
	}
	return BranchScope(guide.BranchID), nil
}

// ====================================
// TRIP ASSIGNMENT / TRIP
// ====================================

// MongoTripAssignmentRepo đọc trip_assignments.
type MongoTripAssignmentRepo struct {
	coll *mongo.Collection
}

// NewMongoTripAssignmentRepo tạo mới MongoTripAssignmentRepo.
func NewMongoTripAssignmentRepo() (*MongoTripAssignmentRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.TripAssignments)
	if err != nil {
		return nil, err
	}
	return &MongoTripAssignmentRepo{coll: coll}, nil
}

// FindCompletedInPeriod assignment có đủ check-in/check-out, check-out trong
// [start, end), sort checkOutAt giảm dần.
func (r *MongoTripAssignmentRepo) FindCompletedInPeriod(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) ([]tourmodels.TripAssignment, error) {
	filter := scopeFilter(bson.M{
		"guideId":   guideID,
		"checkInAt": bson.M{"$ne": nil},
		"checkOutAt": bson.M{
			"$gte": period.StartMillis(),
			"$lt":  period.EndMillis(),
		},
	}, scope)
	opts := options.Find().SetSort(bson.D{{Key: "checkOutAt", Value: -1}})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var list []tourmodels.TripAssignment
	if err := cursor.All(ctx, &list); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return list, nil
}

// MongoTripRepo đọc trips.
type MongoTripRepo struct {
	coll *mongo.Collection
}

// NewMongoTripRepo tạo mới MongoTripRepo.
func NewMongoTripRepo() (*MongoTripRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.Trips)
	if err != nil {
		return nil, err
	}
	return &MongoTripRepo{coll: coll}, nil
}

// StatusesByIDs map tripId -> status terminal; trip không có status terminal bị bỏ qua.
func (r *MongoTripRepo) StatusesByIDs(ctx context.Context, tripIDs []primitive.ObjectID, scope ScopeContext) (map[primitive.ObjectID]string, error) {
	result := make(map[primitive.ObjectID]string)
	if len(tripIDs) == 0 {
		return result, nil
	}
	filter := scopeFilter(bson.M{
		"_id":    bson.M{"$in": tripIDs},
		"status": bson.M{"$in": []string{tourmodels.TripStatusCompleted, tourmodels.TripStatusCancelled}},
	}, scope)
	opts := options.Find().SetProjection(bson.M{"_id": 1, "status": 1})
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var doc struct {
			ID     primitive.ObjectID `bson:"_id"`
			Status string             `bson:"status"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, common.ConvertMongoError(err)
		}
		result[doc.ID] = doc.Status
	}
	if err := cursor.Err(); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return result, nil
}

// ====================================
// WALLET / TRANSACTION
// ====================================

// MongoWalletRepo đọc wallets.
type MongoWalletRepo struct {
	coll *mongo.Collection
}

// NewMongoWalletRepo tạo mới MongoWalletRepo.
func NewMongoWalletRepo() (*MongoWalletRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.Wallets)
	if err != nil {
		return nil, err
	}
	return &MongoWalletRepo{coll: coll}, nil
}

// FindByGuide trả về (nil, nil) khi guide chưa có ví.
func (r *MongoWalletRepo) FindByGuide(ctx context.Context, guideID primitive.ObjectID, scope ScopeContext) (*tourmodels.Wallet, error) {
	filter := scopeFilter(bson.M{"guideId": guideID}, scope)
	var wallet tourmodels.Wallet
	err := r.coll.FindOne(ctx, filter).Decode(&wallet)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, common.ConvertMongoError(err)
	}
	return &wallet, nil
}

// MongoTransactionRepo đọc wallet_transactions.
type MongoTransactionRepo struct {
	coll *mongo.Collection
}

// NewMongoTransactionRepo tạo mới MongoTransactionRepo.
func NewMongoTransactionRepo() (*MongoTransactionRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.WalletTransactions)
	if err != nil {
		return nil, err
	}
	return &MongoTransactionRepo{coll: coll}, nil
}

// FindEarningsByTrips các giao dịch earning của ví tham chiếu các trip đã cho.
func (r *MongoTransactionRepo) FindEarningsByTrips(ctx context.Context, walletID primitive.ObjectID, tripIDs []primitive.ObjectID) ([]tourmodels.WalletTransaction, error) {
	if len(tripIDs) == 0 {
		return []tourmodels.WalletTransaction{}, nil
	}
	filter := bson.M{
		"walletId": walletID,
		"type":     tourmodels.TransactionTypeEarning,
		"tripId":   bson.M{"$in": tripIDs},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var list []tourmodels.WalletTransaction
	if err := cursor.All(ctx, &list); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return list, nil
}

// SumDeductionsByTrips tổng tiền giao dịch deduction tham chiếu các trip đã cho.
func (r *MongoTransactionRepo) SumDeductionsByTrips(ctx context.Context, walletID primitive.ObjectID, tripIDs []primitive.ObjectID) (float64, error) {
	if len(tripIDs) == 0 {
		return 0, nil
	}
	pipeline := []bson.M{
		{"$match": bson.M{
			"walletId": walletID,
			"type":     tourmodels.TransactionTypeDeduction,
			"tripId":   bson.M{"$in": tripIDs},
		}},
		{"$group": bson.M{"_id": nil, "total": bson.M{"$sum": "$amount"}}},
	}
	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	if cursor.Next(ctx) {
		var doc struct {
			Total float64 `bson:"total"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return 0, common.ConvertMongoError(err)
		}
		return doc.Total, nil
	}
	if err := cursor.Err(); err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return 0, nil
}

// ====================================
// BOOKING / REVIEW
// ====================================

// MongoBookingRepo đọc bookings.
type MongoBookingRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRepo tạo mới MongoBookingRepo.
func NewMongoBookingRepo() (*MongoBookingRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.Bookings)
	if err != nil {
		return nil, err
	}
	return &MongoBookingRepo{coll: coll}, nil
}

// FindByTrips booking thuộc các trip đã cho.
func (r *MongoBookingRepo) FindByTrips(ctx context.Context, tripIDs []primitive.ObjectID) ([]tourmodels.Booking, error) {
	if len(tripIDs) == 0 {
		return []tourmodels.Booking{}, nil
	}
	cursor, err := r.coll.Find(ctx, bson.M{"tripId": bson.M{"$in": tripIDs}})
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var list []tourmodels.Booking
	if err := cursor.All(ctx, &list); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return list, nil
}

// MongoReviewRepo đọc reviews.
type MongoReviewRepo struct {
	coll *mongo.Collection
}

// NewMongoReviewRepo tạo mới MongoReviewRepo.
func NewMongoReviewRepo() (*MongoReviewRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.Reviews)
	if err != nil {
		return nil, err
	}
	return &MongoReviewRepo{coll: coll}, nil
}

// FindGuideRatedByBookings review có guideRating khác nil thuộc các booking đã cho.
func (r *MongoReviewRepo) FindGuideRatedByBookings(ctx context.Context, bookingIDs []primitive.ObjectID) ([]tourmodels.Review, error) {
	if len(bookingIDs) == 0 {
		return []tourmodels.Review{}, nil
	}
	filter := bson.M{
		"bookingId":   bson.M{"$in": bookingIDs},
		"guideRating": bson.M{"$ne": nil},
	}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var list []tourmodels.Review
	if err := cursor.All(ctx, &list); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return list, nil
}

// ====================================
// SKILL / ASSESSMENT
// ====================================

// MongoSkillRepo đọc guide_skills.
type MongoSkillRepo struct {
	coll *mongo.Collection
}

// NewMongoSkillRepo tạo mới MongoSkillRepo.
func NewMongoSkillRepo() (*MongoSkillRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.GuideSkills)
	if err != nil {
		return nil, err
	}
	return &MongoSkillRepo{coll: coll}, nil
}

// CountImprovedInPeriod đếm skill level > 1 cập nhật trong chu kỳ.
// UpdatedAt của skill lưu unix seconds nên quy đổi biên chu kỳ về giây.
func (r *MongoSkillRepo) CountImprovedInPeriod(ctx context.Context, guideID primitive.ObjectID, period Period) (int64, error) {
	filter := bson.M{
		"guideId": guideID,
		"level":   bson.M{"$gt": 1},
		"updatedAt": bson.M{
			"$gte": period.Start.Unix(),
			"$lt":  period.End.Unix(),
		},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// MongoAssessmentRepo đọc guide_assessments.
type MongoAssessmentRepo struct {
	coll *mongo.Collection
}

// NewMongoAssessmentRepo tạo mới MongoAssessmentRepo.
func NewMongoAssessmentRepo() (*MongoAssessmentRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.GuideAssessments)
	if err != nil {
		return nil, err
	}
	return &MongoAssessmentRepo{coll: coll}, nil
}

// CountCompletedInPeriod đếm assessment có completedAt trong chu kỳ.
func (r *MongoAssessmentRepo) CountCompletedInPeriod(ctx context.Context, guideID primitive.ObjectID, period Period) (int64, error) {
	filter := bson.M{
		"guideId": guideID,
		"completedAt": bson.M{
			"$gte": period.Start.Unix(),
			"$lt":  period.End.Unix(),
		},
	}
	count, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, common.ConvertMongoError(err)
	}
	return count, nil
}

// ====================================
// GUIDE / SNAPSHOT
// ====================================

// MongoGuideRepo đọc users (guide).
type MongoGuideRepo struct {
	coll *mongo.Collection
}

// NewMongoGuideRepo tạo mới MongoGuideRepo.
func NewMongoGuideRepo() (*MongoGuideRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.Users)
	if err != nil {
		return nil, err
	}
	return &MongoGuideRepo{coll: coll}, nil
}

// FindByID lấy guide theo id.
func (r *MongoGuideRepo) FindByID(ctx context.Context, guideID primitive.ObjectID) (*tourmodels.User, error) {
	var guide tourmodels.User
	err := r.coll.FindOne(ctx, bson.M{"_id": guideID, "isGuide": true}).Decode(&guide)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, common.ErrNotFound
		}
		return nil, common.ConvertMongoError(err)
	}
	return &guide, nil
}

// FindGuideIDsByBranch tối đa limit guide id đang hoạt động trong chi nhánh.
func (r *MongoGuideRepo) FindGuideIDsByBranch(ctx context.Context, branchID primitive.ObjectID, limit int) ([]primitive.ObjectID, error) {
	filter := bson.M{"branchId": branchID, "isGuide": true, "isActive": true}
	opts := options.Find().
		SetProjection(bson.M{"_id": 1}).
		SetLimit(int64(limit))
	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)

	var ids []primitive.ObjectID
	for cursor.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, common.ConvertMongoError(err)
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return ids, nil
}

// MongoSnapshotRepo đọc/ghi metrics_snapshots.
type MongoSnapshotRepo struct {
	coll *mongo.Collection
}

// NewMongoSnapshotRepo tạo mới MongoSnapshotRepo.
func NewMongoSnapshotRepo() (*MongoSnapshotRepo, error) {
	coll, err := getCollection(global.MongoDB_ColNames.MetricsSnapshots)
	if err != nil {
		return nil, err
	}
	return &MongoSnapshotRepo{coll: coll}, nil
}

// FindExact snapshot theo đúng key (guideId, periodType, periodStart, periodEnd).
// Trả về (nil, nil) nếu không có - miss không phải lỗi.
func (r *MongoSnapshotRepo) FindExact(ctx context.Context, guideID primitive.ObjectID, period Period) (*tourmodels.MetricsSnapshot, error) {
	filter := bson.M{
		"guideId":     guideID,
		"periodType":  string(period.Type),
		"periodStart": period.StartMillis(),
		"periodEnd":   period.EndMillis(),
	}
	var snap tourmodels.MetricsSnapshot
	err := r.coll.FindOne(ctx, filter).Decode(&snap)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, common.ConvertMongoError(err)
	}
	return &snap, nil
}

// Upsert ghi đè snapshot theo key định danh.
func (r *MongoSnapshotRepo) Upsert(ctx context.Context, snap *tourmodels.MetricsSnapshot) error {
	filter := bson.M{
		"guideId":     snap.GuideID,
		"periodType":  snap.PeriodType,
		"periodStart": snap.PeriodStart,
		"periodEnd":   snap.PeriodEnd,
	}
	update := bson.M{
		"$set": bson.M{
			"branchId":   snap.BranchID,
			"metrics":    snap.Metrics,
			"runId":      snap.RunID,
			"computedAt": snap.ComputedAt,
			"updatedAt":  snap.UpdatedAt,
		},
		"$setOnInsert": bson.M{"createdAt": snap.CreatedAt},
	}
	opts := options.Update().SetUpsert(true)
	_, err := r.coll.UpdateOne(ctx, filter, update, opts)
	return common.ConvertMongoError(err)
}

// NewMongoRepos khởi tạo đầy đủ bộ repo MongoDB cho pipeline.
func NewMongoRepos() (*Repos, error) {
	scope, err := NewMongoScopeResolver()
	if err != nil {
		return nil, err
	}
	assignments, err := NewMongoTripAssignmentRepo()
	if err != nil {
		return nil, err
	}
	trips, err := NewMongoTripRepo()
	if err != nil {
		return nil, err
	}
	wallets, err := NewMongoWalletRepo()
	if err != nil {
		return nil, err
	}
	txs, err := NewMongoTransactionRepo()
	if err != nil {
		return nil, err
	}
	bookings, err := NewMongoBookingRepo()
	if err != nil {
		return nil, err
	}
	reviews, err := NewMongoReviewRepo()
	if err != nil {
		return nil, err
	}
	skills, err := NewMongoSkillRepo()
	if err != nil {
		return nil, err
	}
	assessments, err := NewMongoAssessmentRepo()
	if err != nil {
		return nil, err
	}
	guides, err := NewMongoGuideRepo()
	if err != nil {
		return nil, err
	}
	snapshots, err := NewMongoSnapshotRepo()
	if err != nil {
		return nil, err
	}
	return &Repos{
		Scope:       scope,
		Assignments: assignments,
		Trips:       trips,
		Wallets:     wallets,
		Txs:         txs,
		Bookings:    bookings,
		Reviews:     reviews,
		Skills:      skills,
		Assessments: assessments,
		Guides:      guides,
		Snapshots:   snapshots,
	}, nil
}
