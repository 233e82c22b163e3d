// Package metricssvc - xuất UnifiedMetrics ra workbook Excel.
package metricssvc

import (
	"bytes"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const exportSheet = "Metrics"

// ExportExcel render một UnifiedMetrics thành workbook Excel một sheet,
// mỗi dòng một chỉ số. Field nil render thành chuỗi rỗng.
func ExportExcel(guideName string, m *UnifiedMetrics) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	rows := [][]interface{}{
		{"Hướng dẫn viên", guideName},
		{"Chu kỳ", fmt.Sprintf("%s: %s - %s",
			m.Period.Type,
			m.Period.Start.Format(time.RFC3339),
			m.Period.End.Format(time.RFC3339))},
		{},
		{"Chỉ số", "Giá trị"},
		{"Tổng trip", m.Trips.Total},
		{"Trip hoàn thành", m.Trips.Completed},
		{"Trip hủy", m.Trips.Cancelled},
		{"Tổng thu nhập (VND)", m.Earnings.Total},
		{"Thu nhập trung bình/trip (VND)", m.Earnings.Average},
		{"Số giao dịch thu nhập", m.Earnings.ByTrip},
		{"Điểm đánh giá trung bình", floatOrBlank(m.Ratings.Average)},
		{"Số lượt đánh giá", m.Ratings.Total},
		{"Score", m.Performance.Score},
		{"Tier", m.Performance.Tier},
		{"Tỷ lệ đúng giờ (%)", floatOrBlank(m.Performance.OnTimeRate)},
		{"Kỹ năng cải thiện", m.Development.SkillsImproved},
		{"Bài đánh giá hoàn thành", m.Development.AssessmentsCompleted},
	}
	if m.Financial != nil {
		rows = append(rows,
			[]interface{}{"Thu nhập gộp (VND)", m.Financial.TotalEarnings},
			[]interface{}{"Khấu trừ (VND)", m.Financial.Penalties},
			[]interface{}{"Thu nhập ròng (VND)", m.Financial.NetEarnings},
		)
	}
	if m.Growth != nil {
		rows = append(rows,
			[]interface{}{"Tăng trưởng trip (%)", floatOrBlank(m.Growth.TripsChangePct)},
			[]interface{}{"Tăng trưởng thu nhập (%)", floatOrBlank(m.Growth.EarningsChangePct)},
			[]interface{}{"Tăng trưởng điểm đánh giá (%)", floatOrBlank(m.Growth.RatingChangePct)},
		)
	}
	if m.Comparative != nil && m.Comparative.Rank != nil {
		rows = append(rows,
			[]interface{}{"Xếp hạng trong chi nhánh", *m.Comparative.Rank},
			[]interface{}{"Số guide so sánh", m.Comparative.PeerCount},
		)
	}

	for i, row := range rows {
		for j, val := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, val); err != nil {
				return nil, err
			}
		}
	}
	f.SetColWidth(exportSheet, "A", "A", 32)
	f.SetColWidth(exportSheet, "B", "B", 28)

	return f.WriteToBuffer()
}

func floatOrBlank(v *float64) interface{} {
	if v == nil {
		return ""
	}
	return *v
}
