// Package metricsdto - DTO cho các endpoint metrics.
package metricsdto

import (
	"strings"
	"time"

	metricssvc "meta_tourism/internal/api/metrics/service"
	"meta_tourism/internal/common"
)

// UnifiedMetricsQuery query params của GET /guides/:guideId/metrics.
// start/end theo RFC3339; bắt buộc với periodType=custom, optional với
// monthly/weekly (mặc định là chu kỳ chứa thời điểm hiện tại).
type UnifiedMetricsQuery struct {
	PeriodType          string `query:"periodType" validate:"omitempty,period_type"`
	Start               string `query:"start" validate:"omitempty"`
	End                 string `query:"end" validate:"omitempty"`
	Include             string `query:"include" validate:"omitempty"` // csv các dimension bổ sung
	CalculateTrends     *bool  `query:"calculateTrends"`
	CompareWithPrevious bool   `query:"compareWithPrevious"`
}

// ToPeriod dựng Period từ query.
func (q *UnifiedMetricsQuery) ToPeriod() (metricssvc.Period, error) {
	periodType := metricssvc.PeriodType(q.PeriodType)
	if periodType == "" {
		periodType = metricssvc.PeriodMonthly
	}

	var anchor time.Time
	if q.Start != "" {
		t, err := time.Parse(time.RFC3339, q.Start)
		if err != nil {
			return metricssvc.Period{}, common.ErrInvalidPeriod
		}
		anchor = t
	} else {
		anchor = time.Now()
	}

	switch periodType {
	case metricssvc.PeriodMonthly:
		return metricssvc.MonthlyPeriod(anchor), nil
	case metricssvc.PeriodWeekly:
		return metricssvc.WeeklyPeriod(anchor), nil
	case metricssvc.PeriodCustom:
		if q.Start == "" || q.End == "" {
			return metricssvc.Period{}, common.ErrInvalidPeriod
		}
		end, err := time.Parse(time.RFC3339, q.End)
		if err != nil {
			return metricssvc.Period{}, common.ErrInvalidPeriod
		}
		p := metricssvc.Period{Start: anchor, End: end, Type: metricssvc.PeriodCustom}
		if !p.Valid() {
			return metricssvc.Period{}, common.ErrInvalidPeriod
		}
		return p, nil
	default:
		return metricssvc.Period{}, common.ErrInvalidPeriod
	}
}

// ToOptions dựng Options từ query. calculateTrends mặc định true.
func (q *UnifiedMetricsQuery) ToOptions() metricssvc.Options {
	opts := metricssvc.DefaultOptions()
	if q.CalculateTrends != nil {
		opts.CalculateTrends = *q.CalculateTrends
	}
	opts.CompareWithPrevious = q.CompareWithPrevious
	if q.Include != "" {
		for _, d := range strings.Split(q.Include, ",") {
			if d = strings.TrimSpace(d); d != "" {
				opts.Include = append(opts.Include, d)
			}
		}
	}
	return opts
}

// SnapshotListQuery query params của GET /metric-snapshot.
type SnapshotListQuery struct {
	Page       int64  `query:"page" validate:"omitempty,min=0"`
	Limit      int64  `query:"limit" validate:"omitempty,min=1,max=100"`
	GuideID    string `query:"guideId" validate:"omitempty,len=24"`
	PeriodType string `query:"periodType" validate:"omitempty,period_type"`
}
