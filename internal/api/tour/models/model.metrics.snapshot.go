// Package models - MetricsSnapshot thuộc domain Tour.
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricsSnapshot lưu kết quả unified metrics đã tính trước cho một guide
// theo một chu kỳ chính xác (metrics_snapshots).
// Key định danh: (guideId, periodType, periodStart, periodEnd) - unique index.
// Pipeline metrics CHỈ ĐỌC collection này; worker prewarm là bên ghi duy nhất.
type MetricsSnapshot struct {
	ID          primitive.ObjectID     `json:"id,omitempty" bson:"_id,omitempty"`                                              // MongoDB _id
	GuideID     primitive.ObjectID     `json:"guideId" bson:"guideId" index:"single:1,compound:guide_period_unique"`           // Guide
	BranchID    primitive.ObjectID     `json:"branchId" bson:"branchId" index:"single:1"`                                      // Chi nhánh sở hữu
	PeriodType  string                 `json:"periodType" bson:"periodType" index:"compound:guide_period_unique"`              // monthly | weekly | custom
	PeriodStart int64                  `json:"periodStart" bson:"periodStart" index:"compound:guide_period_unique"`            // Unix ms - đầu chu kỳ (inclusive)
	PeriodEnd   int64                  `json:"periodEnd" bson:"periodEnd" index:"compound:guide_period_unique"`                // Unix ms - cuối chu kỳ (exclusive)
	Metrics     map[string]interface{} `json:"metrics" bson:"metrics"`                                                         // UnifiedMetrics đã serialize
	RunID       string                 `json:"runId,omitempty" bson:"runId,omitempty"`                                         // Id của lần prewarm sinh ra snapshot
	ComputedAt  int64                  `json:"computedAt" bson:"computedAt"`                                                   // Unix seconds
	CreatedAt   int64                  `json:"createdAt" bson:"createdAt"`                                                     // Unix seconds
	UpdatedAt   int64                  `json:"updatedAt" bson:"updatedAt"`                                                     // Unix seconds
}
