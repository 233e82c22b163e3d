// Package models - TripAssignment thuộc domain Tour.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TripAssignment phân công một guide vào một trip (trip_assignments).
// Assignment chỉ được coi là "hoàn thành" cho mục đích metrics khi có đủ
// cả CheckInAt và CheckOutAt.
type TripAssignment struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`                                  // MongoDB _id
	GuideID       primitive.ObjectID `json:"guideId" bson:"guideId" index:"single:1,compound:guide_checkout"`    // Guide được phân công
	TripID        primitive.ObjectID `json:"tripId" bson:"tripId" index:"single:1"`                              // Trip
	BranchID      primitive.ObjectID `json:"branchId" bson:"branchId" index:"single:1"`                          // Chi nhánh sở hữu
	Role          string             `json:"role" bson:"role"`                                                   // Vai trò trên trip (lead | assistant)
	CheckInAt     *int64             `json:"checkInAt,omitempty" bson:"checkInAt,omitempty"`                     // Unix ms - thời điểm check-in
	CheckOutAt    *int64             `json:"checkOutAt,omitempty" bson:"checkOutAt,omitempty" index:"compound:guide_checkout"` // Unix ms - thời điểm check-out
	LateFlag      bool               `json:"lateFlag" bson:"lateFlag"`                                           // true nếu guide check-in muộn
	Fee           float64            `json:"fee" bson:"fee"`                                                     // Phí trả cho guide (VND)
	DocsComplete  bool               `json:"docsComplete" bson:"docsComplete"`                                   // Hồ sơ trip đã hoàn tất
	PenaltyAmount float64            `json:"penaltyAmount,omitempty" bson:"penaltyAmount,omitempty"`             // Tiền phạt trên assignment (VND)
	CreatedAt     int64              `json:"createdAt" bson:"createdAt"`                                         // Unix seconds
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt"`                                         // Unix seconds
}

// IsCompleted assignment có đủ cả check-in và check-out hay không.
func (a *TripAssignment) IsCompleted() bool {
	return a.CheckInAt != nil && a.CheckOutAt != nil
}
