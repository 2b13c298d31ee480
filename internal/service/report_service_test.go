package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func markMay(t *testing.T, st *AttendanceService) {
	t.Helper()
	_, err := st.Mark(context.Background(), MarkAttendanceRequest{
		Date: "2024-05-20",
		Entries: []MarkEntry{
			{StudentID: "s1", Status: "H"},
			{StudentID: "s2", Status: "S"},
		},
	})
	require.NoError(t, err)
}

func TestReportMonthlyMatrix(t *testing.T) {
	st := newTestStore(t)
	sync := quietSync(st)
	markMay(t, NewAttendanceService(st, sync, nil, nil))
	svc := NewReportService(st, "SD Negeri 5 Bilato", nil)

	report, err := svc.Monthly(context.Background(), "1", 2024, 5)
	require.NoError(t, err)

	assert.Equal(t, "Mei", report.MonthName)
	assert.Equal(t, "2023/2024", report.AcademicYear)
	assert.Equal(t, "Budi Santoso, S.Pd", report.HomeroomName)
	assert.Len(t, report.Days, 31)

	// May 2024: 8 weekend days plus Hari Buruh on the 1st
	assert.Equal(t, 22, report.EffectiveDays)
	assert.True(t, report.Days[0].Holiday)
	assert.True(t, report.Days[3].Weekend)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "Ahmad Dani", report.Rows[0].Name)
	assert.Equal(t, "L", report.Rows[0].Codes[0])
	assert.Equal(t, "", report.Rows[0].Codes[3])
	assert.Equal(t, "H", report.Rows[0].Codes[19])
	assert.Equal(t, 1, report.Rows[0].Tally.Hadir)
	assert.Equal(t, 1, report.Rows[1].Tally.Sakit)

	assert.Equal(t, 1, report.Totals.Hadir)
	assert.Equal(t, 1, report.Totals.Sakit)
	// 1 hadir of 2 students x 22 effective days
	assert.InDelta(t, 2.27, report.Percentage, 0.01)
}

func TestReportMonthlyAllClasses(t *testing.T) {
	st := newTestStore(t)
	svc := NewReportService(st, "SD Negeri 5 Bilato", nil)

	report, err := svc.Monthly(context.Background(), ClassAll, 2024, 5)
	require.NoError(t, err)
	assert.Len(t, report.Rows, 4)
	assert.Empty(t, report.HomeroomName)
}

func TestReportMonthlyRejectsBadPeriod(t *testing.T) {
	st := newTestStore(t)
	svc := NewReportService(st, "SD Negeri 5 Bilato", nil)

	_, err := svc.Monthly(context.Background(), "1", 2024, 13)
	require.Error(t, err)
	_, err = svc.Monthly(context.Background(), "1", 1800, 5)
	require.Error(t, err)
}

func TestReportMonthlyCSV(t *testing.T) {
	st := newTestStore(t)
	sync := quietSync(st)
	markMay(t, NewAttendanceService(st, sync, nil, nil))
	svc := NewReportService(st, "SD Negeri 5 Bilato", nil)

	data, err := svc.MonthlyCSV(context.Background(), "1", 2024, 5)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "Nama Siswa")
	assert.Contains(t, lines[1], "Ahmad Dani")
}

func TestReportMonthlyPDF(t *testing.T) {
	st := newTestStore(t)
	svc := NewReportService(st, "SD Negeri 5 Bilato", nil)

	data, err := svc.MonthlyPDF(context.Background(), "1", 2024, 5)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestReportDashboard(t *testing.T) {
	st := newTestStore(t)
	sync := quietSync(st)
	markMay(t, NewAttendanceService(st, sync, nil, nil))
	svc := NewReportService(st, "SD Negeri 5 Bilato", nil)

	now := time.Date(2024, 5, 20, 8, 0, 0, 0, time.UTC)
	summary := svc.Dashboard(context.Background(), now)

	assert.Equal(t, 4, summary.StudentCount)
	assert.Equal(t, 3, summary.TeacherCount)
	assert.Equal(t, "2023/2024", summary.ActiveYear)
	assert.False(t, summary.TodayOff)
	assert.Equal(t, 1, summary.TodayTally.Hadir)
	assert.Equal(t, 1, summary.TodayTally.Sakit)
	assert.Equal(t, 2, summary.TodayUnmarked)
}

func TestReportDashboardDayOff(t *testing.T) {
	st := newTestStore(t)
	svc := NewReportService(st, "SD Negeri 5 Bilato", nil)

	now := time.Date(2024, 8, 17, 8, 0, 0, 0, time.UTC)
	summary := svc.Dashboard(context.Background(), now)
	assert.True(t, summary.TodayOff)
	assert.Equal(t, "Kemerdekaan RI", summary.TodayReason)
}
