// Package models - Role và UserRole thuộc domain Tour.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role vai trò người dùng, gắn với một chi nhánh (roles)
type Role struct {
	ID            primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`                 // MongoDB _id
	Name          string             `json:"name" bson:"name"`                                  // Tên vai trò (vd: BranchAdmin, Guide)
	OwnerBranchID primitive.ObjectID `json:"ownerBranchId" bson:"ownerBranchId" index:"single:1"` // Chi nhánh sở hữu
	Permissions   []string           `json:"permissions" bson:"permissions"`                    // Danh sách permission (vd: Metrics.Read)
	IsSuperScope  bool               `json:"isSuperScope" bson:"isSuperScope"`                  // true = nhìn thấy mọi chi nhánh
	CreatedAt     int64              `json:"createdAt" bson:"createdAt"`                        // Unix seconds
	UpdatedAt     int64              `json:"updatedAt" bson:"updatedAt"`                        // Unix seconds
}

// UserRole liên kết user với role (user_roles)
type UserRole struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`        // MongoDB _id
	UserID    primitive.ObjectID `json:"userId" bson:"userId" index:"single:1"`    // User
	RoleID    primitive.ObjectID `json:"roleId" bson:"roleId" index:"single:1"`    // Role
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`               // Unix seconds
}
