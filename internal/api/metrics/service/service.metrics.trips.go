// Package metricssvc - TripsCalculator: dimension trips.
package metricssvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
)

// TripsCalculator đếm trip của guide trong chu kỳ theo trạng thái terminal.
type TripsCalculator struct {
	assignments TripAssignmentRepo
	trips       TripRepo
}

// NewTripsCalculator tạo mới TripsCalculator.
func NewTripsCalculator(assignments TripAssignmentRepo, trips TripRepo) *TripsCalculator {
	return &TripsCalculator{assignments: assignments, trips: trips}
}

// tripIDsOf trích danh sách trip id từ assignment, giữ nguyên thứ tự.
func tripIDsOf(list []tourmodels.TripAssignment) []primitive.ObjectID {
	ids := make([]primitive.ObjectID, 0, len(list))
	for _, a := range list {
		ids = append(ids, a.TripID)
	}
	return ids
}

// Calculate tính dimension trips.
// Total đếm mọi assignment có đủ check-in/check-out với check-out trong chu kỳ;
// Completed/Cancelled đếm theo status terminal của trip. Trip không có status
// terminal chỉ vào Total nên Completed + Cancelled <= Total.
func (c *TripsCalculator) Calculate(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (TripsMetrics, error) {
	list, err := c.assignments.FindCompletedInPeriod(ctx, guideID, period, scope)
	if err != nil {
		return TripsMetrics{}, err
	}
	result := TripsMetrics{Total: int64(len(list))}
	if len(list) == 0 {
		return result, nil
	}

	statuses, err := c.trips.StatusesByIDs(ctx, tripIDsOf(list), scope)
	if err != nil {
		return TripsMetrics{}, err
	}
	for _, a := range list {
		switch statuses[a.TripID] {
		case tourmodels.TripStatusCompleted:
			result.Completed++
		case tourmodels.TripStatusCancelled:
			result.Cancelled++
		}
	}
	return result, nil
}
