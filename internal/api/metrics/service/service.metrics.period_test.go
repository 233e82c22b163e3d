// Package metricssvc - Test chu kỳ nửa mở [start, end).
package metricssvc

import (
	"testing"
	"time"
)

func TestMonthlyPeriod_DungBienThang(t *testing.T) {
	p := MonthlyPeriod(time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC))
	if !p.Start.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Start phải là đầu tháng, nhận được %v", p.Start)
	}
	if !p.End.Equal(time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("End phải là đầu tháng sau, nhận được %v", p.End)
	}
	if p.Type != PeriodMonthly {
		t.Errorf("Type phải là monthly, nhận được %s", p.Type)
	}
}

func TestWeeklyPeriod_BatDauThuHai(t *testing.T) {
	// 2025-01-15 là thứ Tư -> tuần bắt đầu thứ Hai 2025-01-13
	p := WeeklyPeriod(time.Date(2025, 1, 15, 23, 0, 0, 0, time.UTC))
	if !p.Start.Equal(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Tuần phải bắt đầu thứ Hai 13/01, nhận được %v", p.Start)
	}
	if !p.End.Equal(time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Tuần phải kết thúc thứ Hai 20/01, nhận được %v", p.End)
	}

	// Chủ Nhật vẫn thuộc tuần bắt đầu từ thứ Hai trước đó
	p = WeeklyPeriod(time.Date(2025, 1, 19, 1, 0, 0, 0, time.UTC))
	if !p.Start.Equal(time.Date(2025, 1, 13, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Chủ Nhật 19/01 phải thuộc tuần từ 13/01, nhận được %v", p.Start)
	}
}

func TestPreviousPeriod_MonthlyLuiTheoThangDuongLich(t *testing.T) {
	jan := MonthlyPeriod(time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))

	dec := PreviousPeriod(jan)
	if !dec.Start.Equal(time.Date(2024, 12, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Chu kỳ trước của tháng 1 phải bắt đầu 01/12, nhận được %v", dec.Start)
	}
	if !dec.End.Equal(jan.Start) {
		t.Errorf("Chu kỳ trước phải kết thúc đúng tại Start của chu kỳ hiện tại")
	}

	nov := PreviousPeriod(dec)
	if !nov.Start.Equal(time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Lùi tiếp phải ra 01/11 (tháng 12 chỉ lùi 1 tháng, không lùi theo số ngày), nhận được %v", nov.Start)
	}
	if nov.Type != PeriodMonthly {
		t.Errorf("PreviousPeriod phải giữ nguyên Type")
	}
}

func TestPreviousPeriod_CustomLuiDungDoDai(t *testing.T) {
	p := Period{
		Start: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC),
		Type:  PeriodCustom,
	}
	prev := PreviousPeriod(p)
	if !prev.End.Equal(p.Start) {
		t.Errorf("Chu kỳ trước phải kết thúc tại Start")
	}
	if prev.Duration() != p.Duration() {
		t.Errorf("Chu kỳ custom trước phải cùng độ dài: %v != %v", prev.Duration(), p.Duration())
	}
}

func TestContainsMillis_NuaMo(t *testing.T) {
	p := MonthlyPeriod(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	if !p.ContainsMillis(p.StartMillis()) {
		t.Error("Biên start phải thuộc chu kỳ (đóng tại start)")
	}
	if p.ContainsMillis(p.EndMillis()) {
		t.Error("Biên end không được thuộc chu kỳ (mở tại end)")
	}
	if !p.ContainsMillis(p.EndMillis() - 1) {
		t.Error("Thời điểm ngay trước end phải thuộc chu kỳ")
	}
}

func TestPeriodValid(t *testing.T) {
	now := time.Now()
	if (Period{Start: now, End: now}).Valid() {
		t.Error("Chu kỳ rỗng (start == end) phải không hợp lệ")
	}
	if (Period{Start: now, End: now.Add(-time.Hour)}).Valid() {
		t.Error("Chu kỳ đảo ngược phải không hợp lệ")
	}
	if !(Period{Start: now, End: now.Add(time.Hour)}).Valid() {
		t.Error("Chu kỳ start < end phải hợp lệ")
	}
}
