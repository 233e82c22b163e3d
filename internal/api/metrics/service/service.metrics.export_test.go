// Package metricssvc - Test xuất Excel.
package metricssvc

import (
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func TestExportExcel_SinhFileDocDuoc(t *testing.T) {
	period := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	avg := 4.5
	m := DefaultUnifiedMetrics(period)
	m.Trips = TripsMetrics{Total: 5, Completed: 4, Cancelled: 1}
	m.Ratings = RatingsMetrics{Average: &avg, Total: 2, Trend: []int{5, 4}}
	m.Performance.Score = 62.5
	m.Performance.Tier = TierFromScore(62.5)

	buf, err := ExportExcel("Nguyễn Văn A", m)
	if err != nil {
		t.Fatalf("ExportExcel lỗi: %v", err)
	}
	if buf.Len() == 0 {
		t.Fatal("File xuất ra không được rỗng")
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("File xuất ra phải mở lại được bằng excelize: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Metrics")
	if err != nil {
		t.Fatalf("Sheet Metrics phải tồn tại: %v", err)
	}
	if len(rows) == 0 {
		t.Error("Sheet Metrics phải có dữ liệu")
	}
}

func TestExportExcel_SnapshotDefaultKhongLoi(t *testing.T) {
	period := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	buf, err := ExportExcel("", DefaultUnifiedMetrics(period))
	if err != nil {
		t.Fatalf("Xuất snapshot default phải thành công: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("File xuất ra không được rỗng")
	}
}
