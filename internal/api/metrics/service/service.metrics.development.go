// Package metricssvc - DevelopmentCalculator: dimension development.
package metricssvc

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// DevelopmentCalculator đếm tín hiệu phát triển nghề nghiệp của guide trong chu kỳ.
type DevelopmentCalculator struct {
	skills      SkillRepo
	assessments AssessmentRepo
}

// NewDevelopmentCalculator tạo mới DevelopmentCalculator.
func NewDevelopmentCalculator(skills SkillRepo, assessments AssessmentRepo) *DevelopmentCalculator {
	return &DevelopmentCalculator{skills: skills, assessments: assessments}
}

// Calculate tính dimension development. Hai nguồn độc lập nhau: lỗi một nguồn
// làm cả dimension lỗi, orchestrator sẽ degrade về shape zero.
func (c *DevelopmentCalculator) Calculate(ctx context.Context, guideID primitive.ObjectID, period Period) (DevelopmentMetrics, error) {
	skillsImproved, err := c.skills.CountImprovedInPeriod(ctx, guideID, period)
	if err != nil {
		return DevelopmentMetrics{}, err
	}
	assessments, err := c.assessments.CountCompletedInPeriod(ctx, guideID, period)
	if err != nil {
		return DevelopmentMetrics{}, err
	}
	return DevelopmentMetrics{
		SkillsImproved:       skillsImproved,
		AssessmentsCompleted: assessments,
	}, nil
}
