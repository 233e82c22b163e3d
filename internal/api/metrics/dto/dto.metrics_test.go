// Package metricsdto - Test dựng Period/Options từ query params.
package metricsdto

import (
	"errors"
	"testing"

	metricssvc "meta_tourism/internal/api/metrics/service"
	"meta_tourism/internal/common"
)

func TestToPeriod_MacDinhMonthly(t *testing.T) {
	q := UnifiedMetricsQuery{}
	p, err := q.ToPeriod()
	if err != nil {
		t.Fatalf("ToPeriod lỗi: %v", err)
	}
	if p.Type != metricssvc.PeriodMonthly {
		t.Errorf("Không truyền periodType phải mặc định monthly, nhận được %s", p.Type)
	}
	if !p.Valid() {
		t.Error("Chu kỳ mặc định phải hợp lệ")
	}
}

func TestToPeriod_CustomBatBuocStartEnd(t *testing.T) {
	q := UnifiedMetricsQuery{PeriodType: "custom", Start: "2025-01-01T00:00:00Z"}
	if _, err := q.ToPeriod(); !errors.Is(err, common.ErrInvalidPeriod) {
		t.Errorf("Custom thiếu end phải trả về ErrInvalidPeriod, nhận được %v", err)
	}

	q = UnifiedMetricsQuery{PeriodType: "custom", Start: "2025-01-10T00:00:00Z", End: "2025-01-01T00:00:00Z"}
	if _, err := q.ToPeriod(); !errors.Is(err, common.ErrInvalidPeriod) {
		t.Errorf("Custom với start >= end phải trả về ErrInvalidPeriod, nhận được %v", err)
	}

	q = UnifiedMetricsQuery{PeriodType: "custom", Start: "2025-01-01T00:00:00Z", End: "2025-01-10T00:00:00Z"}
	p, err := q.ToPeriod()
	if err != nil {
		t.Fatalf("Custom hợp lệ bị từ chối: %v", err)
	}
	if p.Type != metricssvc.PeriodCustom {
		t.Errorf("Type phải là custom, nhận được %s", p.Type)
	}
}

func TestToPeriod_StartKhongParseDuoc(t *testing.T) {
	q := UnifiedMetricsQuery{PeriodType: "monthly", Start: "15/01/2025"}
	if _, err := q.ToPeriod(); !errors.Is(err, common.ErrInvalidPeriod) {
		t.Errorf("Start sai định dạng RFC3339 phải trả về ErrInvalidPeriod, nhận được %v", err)
	}
}

func TestToOptions_TrendsMacDinhTrue(t *testing.T) {
	q := UnifiedMetricsQuery{}
	opts := q.ToOptions()
	if !opts.CalculateTrends {
		t.Error("CalculateTrends phải mặc định true")
	}
	if opts.CompareWithPrevious {
		t.Error("CompareWithPrevious phải mặc định false")
	}

	off := false
	q = UnifiedMetricsQuery{CalculateTrends: &off}
	if q.ToOptions().CalculateTrends {
		t.Error("calculateTrends=false phải tắt được trend")
	}
}

func TestToOptions_IncludeCSV(t *testing.T) {
	q := UnifiedMetricsQuery{Include: "financial, quality ,growth"}
	opts := q.ToOptions()
	if len(opts.Include) != 3 {
		t.Fatalf("Include csv phải tách được 3 dimension, nhận được %v", opts.Include)
	}
	if opts.Include[1] != "quality" {
		t.Errorf("Include phải được trim space, nhận được %q", opts.Include[1])
	}
}
