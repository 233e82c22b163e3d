// Package metricssvc - RatingsCalculator: dimension ratings.
package metricssvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	tourmodels "meta_tourism/internal/api/tour/models"
)

// RatingsCalculator tổng hợp điểm đánh giá guide từ review của khách.
// Đường dữ liệu: assignment -> trip -> booking -> review có guideRating.
type RatingsCalculator struct {
	assignments TripAssignmentRepo
	bookings    BookingRepo
	reviews     ReviewRepo
}

// NewRatingsCalculator tạo mới RatingsCalculator.
func NewRatingsCalculator(assignments TripAssignmentRepo, bookings BookingRepo, reviews ReviewRepo) *RatingsCalculator {
	return &RatingsCalculator{assignments: assignments, bookings: bookings, reviews: reviews}
}

// Calculate tính dimension ratings.
// Average = nil khi và chỉ khi Total == 0; Trend chứa rating thuộc 5 trip
// gần nhất theo thứ tự check-out giảm dần.
func (c *RatingsCalculator) Calculate(ctx context.Context, guideID primitive.ObjectID, period Period, scope ScopeContext) (RatingsMetrics, error) {
	empty := RatingsMetrics{Average: nil, Total: 0, Trend: []int{}}

	list, err := c.assignments.FindCompletedInPeriod(ctx, guideID, period, scope)
	if err != nil {
		return empty, err
	}
	if len(list) == 0 {
		return empty, nil
	}

	bookings, err := c.bookings.FindByTrips(ctx, tripIDsOf(list))
	if err != nil {
		return empty, err
	}
	if len(bookings) == 0 {
		return empty, nil
	}

	bookingIDs := make([]primitive.ObjectID, 0, len(bookings))
	bookingTrip := make(map[primitive.ObjectID]primitive.ObjectID, len(bookings))
	for _, b := range bookings {
		bookingIDs = append(bookingIDs, b.ID)
		bookingTrip[b.ID] = b.TripID
	}

	reviews, err := c.reviews.FindGuideRatedByBookings(ctx, bookingIDs)
	if err != nil {
		return empty, err
	}
	if len(reviews) == 0 {
		return empty, nil
	}

	result := RatingsMetrics{
		Total:        int64(len(reviews)),
		Trend:        []int{},
		Distribution: make(map[int]int64),
	}
	var sum float64
	ratingsByTrip := make(map[primitive.ObjectID][]int)
	for _, rv := range reviews {
		rating := *rv.GuideRating
		sum += float64(rating)
		result.Distribution[rating]++
		tripID := bookingTrip[rv.BookingID]
		ratingsByTrip[tripID] = append(ratingsByTrip[tripID], rating)
	}
	avg := sum / float64(result.Total)
	result.Average = &avg

	// list đã sort checkOutAt giảm dần nên duyệt tuần tự là đủ.
	result.Trend = recentTripRatings(list, ratingsByTrip, ratingTrendSize)
	return result, nil
}

// recentTripRatings gom rating của tối đa n trip gần nhất (trip gần nhất đứng đầu).
func recentTripRatings(list []tourmodels.TripAssignment, ratingsByTrip map[primitive.ObjectID][]int, n int) []int {
	trend := []int{}
	seen := make(map[primitive.ObjectID]bool)
	taken := 0
	for _, a := range list {
		if seen[a.TripID] {
			continue
		}
		seen[a.TripID] = true
		if taken >= n {
			break
		}
		taken++
		trend = append(trend, ratingsByTrip[a.TripID]...)
	}
	return trend
}
