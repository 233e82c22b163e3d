// Package models - GuideSkill và GuideAssessment thuộc domain Tour.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GuideSkill một kỹ năng của guide với level hiện tại (guide_skills).
// Level 1 là mức khởi điểm; level > 1 được coi là đã cải thiện.
type GuideSkill struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`       // MongoDB _id
	GuideID   primitive.ObjectID `json:"guideId" bson:"guideId" index:"single:1"` // Guide
	Name      string             `json:"name" bson:"name"`                        // Tên kỹ năng (vd: English, FirstAid)
	Level     int                `json:"level" bson:"level"`                      // Level hiện tại (1..5)
	UpdatedAt int64              `json:"updatedAt" bson:"updatedAt"`              // Unix seconds - lần bump level gần nhất
	CreatedAt int64              `json:"createdAt" bson:"createdAt"`              // Unix seconds
}

// GuideAssessment một bài đánh giá năng lực guide (guide_assessments)
type GuideAssessment struct {
	ID          primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`                 // MongoDB _id
	GuideID     primitive.ObjectID `json:"guideId" bson:"guideId" index:"single:1"`           // Guide
	Name        string             `json:"name" bson:"name"`                                  // Tên bài đánh giá
	Score       *float64           `json:"score,omitempty" bson:"score,omitempty"`            // Điểm (nếu đã chấm)
	CompletedAt *int64             `json:"completedAt,omitempty" bson:"completedAt,omitempty"` // Unix seconds - nil nếu chưa hoàn thành
	CreatedAt   int64              `json:"createdAt" bson:"createdAt"`                        // Unix seconds
}
