// Package metricssvc - các fake repo dùng chung cho test của pipeline.
package metricssvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
)

type fakeScopeResolver struct {
	scope ScopeContext
	err   error
}

func (f fakeScopeResolver) Resolve(ctx context.Context, caller ScopeContext, guideID primitive.ObjectID) (ScopeContext, error) {
	return f.scope, f.err
}

type fakeAssignmentRepo struct {
	fn func(guideID primitive.ObjectID, period Period) ([]tourmodels.TripAssignment, error)
}

func (f fakeAssignmentRepo) FindCompletedInPeriod(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) ([]tourmodels.TripAssignment, error) {
	if f.fn == nil {
		return nil, nil
	}
	return f.fn(guideID, period)
}

type fakeTripRepo struct {
	statuses map[primitive.ObjectID]string
	err      error
}

func (f fakeTripRepo) StatusesByIDs(ctx context.Context, tripIDs []primitive.ObjectID, scope ScopeContext) (map[primitive.ObjectID]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.statuses == nil {
		return map[primitive.ObjectID]string{}, nil
	}
	return f.statuses, nil
}

type fakeWalletRepo struct {
	wallet *tourmodels.Wallet
	err    error
}

func (f fakeWalletRepo) FindByGuide(ctx context.Context, guideID primitive.ObjectID, scope ScopeContext) (*tourmodels.Wallet, error) {
	return f.wallet, f.err
}

type fakeTxRepo struct {
	earnings   []tourmodels.WalletTransaction
	deductions float64
	err        error
}

func (f fakeTxRepo) FindEarningsByTrips(ctx context.Context, walletID primitive.ObjectID, tripIDs []primitive.ObjectID) ([]tourmodels.WalletTransaction, error) {
	return f.earnings, f.err
}

func (f fakeTxRepo) SumDeductionsByTrips(ctx context.Context, walletID primitive.ObjectID, tripIDs []primitive.ObjectID) (float64, error) {
	return f.deductions, f.err
}

type fakeBookingRepo struct {
	bookings []tourmodels.Booking
	err      error
}

func (f fakeBookingRepo) FindByTrips(ctx context.Context, tripIDs []primitive.ObjectID) ([]tourmodels.Booking, error) {
	return f.bookings, f.err
}

type fakeReviewRepo struct {
	reviews []tourmodels.Review
	err     error
}

func (f fakeReviewRepo) FindGuideRatedByBookings(ctx context.Context, bookingIDs []primitive.ObjectID) ([]tourmodels.Review, error) {
	return f.reviews, f.err
}

type fakeSkillRepo struct {
	count int64
	err   error
	fn    func(guideID primitive.ObjectID, period Period) (int64, error)
}

func (f fakeSkillRepo) CountImprovedInPeriod(ctx context.Context, guideID primitive.ObjectID, period Period) (int64, error) {
	if f.fn != nil {
		return f.fn(guideID, period)
	}
	return f.count, f.err
}

type fakeAssessmentRepo struct {
	count int64
	err   error
}

func (f fakeAssessmentRepo) CountCompletedInPeriod(ctx context.Context, guideID primitive.ObjectID, period Period) (int64, error) {
	return f.count, f.err
}

type fakeGuideRepo struct {
	guide    *tourmodels.User
	guideErr error
	peers    []primitive.ObjectID
	peersErr error
}

func (f fakeGuideRepo) FindByID(ctx context.Context, guideID primitive.ObjectID) (*tourmodels.User, error) {
	if f.guideErr != nil {
		return nil, f.guideErr
	}
	return f.guide, nil
}

func (f fakeGuideRepo) FindGuideIDsByBranch(ctx context.Context, branchID primitive.ObjectID, limit int) ([]primitive.ObjectID, error) {
	if f.peersErr != nil {
		return nil, f.peersErr
	}
	if len(f.peers) > limit {
		return f.peers[:limit], nil
	}
	return f.peers, nil
}

type fakeSnapshotRepo struct {
	find    func(guideID primitive.ObjectID, period Period) (*tourmodels.MetricsSnapshot, error)
	upserts []*tourmodels.MetricsSnapshot
}

func (f *fakeSnapshotRepo) FindExact(ctx context.Context, guideID primitive.ObjectID, period Period) (*tourmodels.MetricsSnapshot, error) {
	if f.find == nil {
		return nil, nil
	}
	return f.find(guideID, period)
}

func (f *fakeSnapshotRepo) Upsert(ctx context.Context, snap *tourmodels.MetricsSnapshot) error {
	f.upserts = append(f.upserts, snap)
	return nil
}

// testRepos trả về bộ repo fake trống, từng test ghi đè phần mình cần.
func testRepos() *Repos {
	return &Repos{
		Scope:       fakeScopeResolver{scope: SuperScope()},
		Assignments: fakeAssignmentRepo{},
		Trips:       fakeTripRepo{},
		Wallets:     fakeWalletRepo{},
		Txs:         fakeTxRepo{},
		Bookings:    fakeBookingRepo{},
		Reviews:     fakeReviewRepo{},
		Skills:      fakeSkillRepo{},
		Assessments: fakeAssessmentRepo{},
		Guides:      fakeGuideRepo{},
		Snapshots:   &fakeSnapshotRepo{},
	}
}

// assignment dựng nhanh một TripAssignment hoàn chỉnh trong chu kỳ.
func assignment(guideID, tripID primitive.ObjectID, checkOutMs int64, late bool) tourmodels.TripAssignment {
	checkIn := checkOutMs - 4*3600*1000
	return tourmodels.TripAssignment{
		ID:         primitive.NewObjectID(),
		GuideID:    guideID,
		TripID:     tripID,
		CheckInAt:  &checkIn,
		CheckOutAt: &checkOutMs,
		LateFlag:   late,
	}
}
