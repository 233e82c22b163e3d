// Package models - các model thuộc domain Tour (guide, trip, booking, ví, đánh giá).
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User người dùng hệ thống (guide hoặc admin), scoped theo chi nhánh (users)
type User struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`                       // MongoDB _id
	FirebaseUID string             `json:"firebaseUid,omitempty" bson:"firebaseUid,omitempty" index:"single:1"` // Firebase UID
	Name        string             `json:"name" bson:"name"`                                        // Tên hiển thị
	Email       string             `json:"email" bson:"email" index:"single:1"`                     // Email đăng nhập
	Phone       string             `json:"phone,omitempty" bson:"phone,omitempty"`                  // Số điện thoại
	IsGuide     bool               `json:"isGuide" bson:"isGuide"`                                  // true nếu user là guide
	BranchID    primitive.ObjectID `json:"branchId" bson:"branchId" index:"single:1"`               // Chi nhánh sở hữu
	IsActive    bool               `json:"isActive" bson:"isActive"`                                // Trạng thái hoạt động
	Tokens      []UserToken        `json:"-" bson:"tokens,omitempty"`                               // Danh sách token đang hiệu lực
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`                              // Unix seconds
	UpdatedAt   int64              `json:"updatedAt" bson:"updatedAt"`                              // Unix seconds
}

// UserToken một token đăng nhập của user
type UserToken struct {
	JwtToken string `json:"-" bson:"jwtToken"` // JWT đã cấp
	Device   string `json:"device" bson:"device"` // Thiết bị đăng nhập
	IssuedAt int64  `json:"issuedAt" bson:"issuedAt"` // Unix seconds
}
