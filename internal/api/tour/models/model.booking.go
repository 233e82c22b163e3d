// Package models - Booking và Review thuộc domain Tour.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking một lượt đặt tour của khách (bookings)
type Booking struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`         // MongoDB _id
	TripID       primitive.ObjectID `json:"tripId" bson:"tripId" index:"single:1"`     // Trip được đặt
	BranchID     primitive.ObjectID `json:"branchId" bson:"branchId" index:"single:1"` // Chi nhánh sở hữu
	CustomerName string             `json:"customerName" bson:"customerName"`          // Tên khách
	PaxCount     int                `json:"paxCount" bson:"paxCount"`                  // Số khách
	CreatedAt    int64              `json:"createdAt" bson:"createdAt"`                // Unix seconds
}

// Review đánh giá của khách trên một booking (reviews).
// GuideRating là điểm 1-5 dành cho guide; nil nếu khách không chấm.
type Review struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`             // MongoDB _id
	BookingID   primitive.ObjectID `json:"bookingId" bson:"bookingId" index:"single:1"`   // Booking được đánh giá
	GuideRating *int               `json:"guideRating,omitempty" bson:"guideRating,omitempty"` // Điểm guide 1-5, nil = không chấm
	TripRating  *int               `json:"tripRating,omitempty" bson:"tripRating,omitempty"`   // Điểm trip 1-5
	Comment     string             `json:"comment,omitempty" bson:"comment,omitempty"`    // Nhận xét
	Responded   bool               `json:"responded" bson:"responded"`                    // Guide/branch đã phản hồi review
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`                    // Unix seconds
}
