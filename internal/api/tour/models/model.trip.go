// Package models - Trip thuộc domain Tour.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái terminal của một trip. Trip chưa kết thúc không có status terminal
// (Status rỗng) và khi tính metrics chỉ được đếm vào total.
const (
	TripStatusCompleted = "completed" // Trip đã hoàn thành
	TripStatusCancelled = "cancelled" // Trip đã hủy
)

// Trip một chuyến tour (trips)
type Trip struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`         // MongoDB _id
	BranchID  primitive.ObjectID `json:"branchId" bson:"branchId" index:"single:1"` // Chi nhánh sở hữu
	Name      string             `json:"name" bson:"name"`                          // Tên tour
	Status    string             `json:"status,omitempty" bson:"status,omitempty"`  // completed | cancelled | "" (đang chạy)
	StartAt   int64              `json:"startAt" bson:"startAt"`                    // Unix ms - thời điểm khởi hành
	EndAt     int64              `json:"endAt,omitempty" bson:"endAt,omitempty"`    // Unix ms - thời điểm kết thúc
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`                // Unix seconds
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`                // Unix seconds
}
