// Package metricssvc - Period: chu kỳ nửa mở [start, end) dùng làm đơn vị tổng hợp.
package metricssvc

import (
	"time"
)

// PeriodType loại chu kỳ tổng hợp.
type PeriodType string

const (
	PeriodMonthly PeriodType = "monthly"
	PeriodWeekly  PeriodType = "weekly"
	PeriodCustom  PeriodType = "custom"
)

// Period chu kỳ nửa mở [Start, End). Bất biến: Start < End.
type Period struct {
	Start time.Time  `json:"start" bson:"start"`
	End   time.Time  `json:"end" bson:"end"`
	Type  PeriodType `json:"type" bson:"type"`
}

// Valid kiểm tra bất biến Start < End.
func (p Period) Valid() bool {
	return p.Start.Before(p.End)
}

// Duration độ dài chu kỳ.
func (p Period) Duration() time.Duration {
	return p.End.Sub(p.Start)
}

// MonthlyPeriod tạo chu kỳ monthly [đầu tháng, đầu tháng sau) chứa thời điểm t.
func MonthlyPeriod(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Period{Start: start, End: start.AddDate(0, 1, 0), Type: PeriodMonthly}
}

// WeeklyPeriod tạo chu kỳ weekly [thứ Hai, thứ Hai sau) chứa thời điểm t.
func WeeklyPeriod(t time.Time) Period {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	start := day.AddDate(0, 0, -(weekday - 1))
	return Period{Start: start, End: start.AddDate(0, 0, 7), Type: PeriodWeekly}
}

// PreviousPeriod trả về chu kỳ liền trước p, kết thúc đúng tại p.Start và giữ
// nguyên Type. Với monthly dùng số học theo tháng dương lịch (tháng trước của
// [Jan1,Feb1) là [Dec1,Jan1)); weekly lùi đúng 7 ngày; custom lùi đúng độ dài
// chu kỳ.
func PreviousPeriod(p Period) Period {
	switch p.Type {
	case PeriodMonthly:
		return Period{Start: p.Start.AddDate(0, -1, 0), End: p.Start, Type: p.Type}
	case PeriodWeekly:
		return Period{Start: p.Start.AddDate(0, 0, -7), End: p.Start, Type: p.Type}
	default:
		return Period{Start: p.Start.Add(-p.Duration()), End: p.Start, Type: p.Type}
	}
}

// StartMillis / EndMillis - biên chu kỳ theo unix ms, dạng lưu của timestamp
// trong các collection nguồn.
func (p Period) StartMillis() int64 { return p.Start.UnixMilli() }
func (p Period) EndMillis() int64   { return p.End.UnixMilli() }

// ContainsMillis kiểm tra một timestamp unix ms có nằm trong [Start, End) không.
func (p Period) ContainsMillis(ms int64) bool {
	return ms >= p.StartMillis() && ms < p.EndMillis()
}
