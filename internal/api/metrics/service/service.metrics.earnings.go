// Package metricssvc - EarningsCalculator: dimension earnings.
package metricssvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
)

// EarningsCalculator tổng hợp thu nhập của guide từ giao dịch ví trong chu kỳ.
type EarningsCalculator struct {
	assignments TripAssignmentRepo
	trips       TripRepo
	wallets     WalletRepo
	txs         TransactionRepo
}

// NewEarningsCalculator tạo mới EarningsCalculator.
func NewEarningsCalculator(assignments TripAssignmentRepo, trips TripRepo, wallets WalletRepo, txs TransactionRepo) *EarningsCalculator {
	return &EarningsCalculator{assignments: assignments, trips: trips, wallets: wallets, txs: txs}
}

// Calculate tính dimension earnings.
// Guide chưa có ví là trạng thái hợp lệ: trả về shape zero, không lỗi.
// ByTrip là SỐ GIAO DỊCH earning chứ không phải số trip distinct; Average chia
// cho số trip completed của chu kỳ, bằng 0 khi không có trip completed.
func (c *EarningsCalculator) Calculate(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (EarningsMetrics, error) {
	list, err := c.assignments.FindCompletedInPeriod(ctx, guideID, period, scope)
	if err != nil {
		return EarningsMetrics{}, err
	}
	if len(list) == 0 {
		return EarningsMetrics{}, nil
	}

	wallet, err := c.wallets.FindByGuide(ctx, guideID, scope)
	if err != nil {
		return EarningsMetrics{}, err
	}
	if wallet == nil {
		return EarningsMetrics{}, nil
	}

	tripIDs := tripIDsOf(list)
	earnings, err := c.txs.FindEarningsByTrips(ctx, wallet.ID, tripIDs)
	if err != nil {
		return EarningsMetrics{}, err
	}

	result := EarningsMetrics{ByTrip: int64(len(earnings))}
	for _, tx := range earnings {
		result.Total += tx.Amount
	}

	statuses, err := c.trips.StatusesByIDs(ctx, tripIDs, scope)
	if err != nil {
		return EarningsMetrics{}, err
	}
	var completed int64
	for _, a := range list {
		if statuses[a.TripID] == tourmodels.TripStatusCompleted {
			completed++
		}
	}
	if completed > 0 {
		result.Average = result.Total / float64(completed)
	}
	return result, nil
}
