// Package models - Branch (tenant) thuộc domain Tour.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Branch chi nhánh vận hành tour, đơn vị tenant của hệ thống (branches)
type Branch struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // MongoDB _id
	Name      string             `json:"name" bson:"name"`                  // Tên chi nhánh
	Code      string             `json:"code" bson:"code" index:"single:1"` // Mã chi nhánh (vd: HAN, SGN)
	IsActive  bool               `json:"isActive" bson:"isActive"`          // Trạng thái hoạt động
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`        // Unix seconds
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`        // Unix seconds
}
