package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/schoolday"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
	"github.com/noah-isme/absensi-sd-api/pkg/export"
)

var monthNames = []string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// ClassAll selects every class in report filters.
const ClassAll = "ALL"

// ReportService builds read-only projections of attendance data: the monthly
// matrix and its CSV/PDF renderings, plus the dashboard summary.
type ReportService struct {
	store      *store.Store
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
	schoolName string
	logger     *zap.Logger
}

// NewReportService constructs the report service.
func NewReportService(st *store.Store, schoolName string, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		store:      st,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
		schoolName: schoolName,
		logger:     logger,
	}
}

// Monthly assembles the month matrix for a class (or ClassAll). Gated days
// show Libur/blank codes and are excluded from tallies and effective days.
func (s *ReportService) Monthly(ctx context.Context, classID string, year, month int) (*models.MonthlyReport, error) {
	if month < 1 || month > 12 || year < 2000 || year > 2100 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid report period")
	}

	holidays := s.store.Holidays()
	report := &models.MonthlyReport{
		ClassID:    classID,
		Year:       year,
		Month:      month,
		MonthName:  monthNames[month-1],
		Headmaster: s.store.Headmaster(),
	}
	if y, ok := s.store.ActiveYear(); ok {
		report.AcademicYear = y.Name
	}
	if classID != ClassAll {
		for _, t := range s.store.Teachers() {
			if t.ClassID == classID {
				report.HomeroomName = t.Name
				break
			}
		}
	}

	days := schoolday.DaysInMonth(year, month)
	for d := 1; d <= days; d++ {
		date := schoolday.Date{Year: year, Month: month, Day: d}
		cell := models.DayCell{Day: d, Date: date.String(), Weekend: date.IsWeekend()}
		if _, ok := schoolday.FindHoliday(date, holidays); ok {
			cell.Holiday = true
		}
		if reason, off := schoolday.DayOff(date, holidays); off {
			cell.DayOff = true
			cell.OffReason = reason
		} else {
			report.EffectiveDays++
		}
		report.Days = append(report.Days, cell)
	}

	students := make([]models.Student, 0)
	for _, st := range s.store.Students() {
		if st.Active && (classID == ClassAll || st.ClassID == classID) {
			students = append(students, st)
		}
	}
	sort.Slice(students, func(i, j int) bool {
		if students[i].ClassID != students[j].ClassID {
			return classLess(students[i].ClassID, students[j].ClassID)
		}
		return students[i].Name < students[j].Name
	})

	recordByKey := make(map[string]models.AttendanceStatus)
	for _, r := range s.store.Attendance() {
		recordByKey[r.StudentID+"|"+schoolday.Normalize(r.Date)] = r.Status
	}

	for _, st := range students {
		row := models.MonthlyReportRow{StudentID: st.ID, NISN: st.NISN, Name: st.Name, ClassID: st.ClassID}
		for _, cell := range report.Days {
			code := string(models.AttendanceStatusNone)
			switch {
			case cell.Holiday:
				code = string(models.AttendanceStatusLibur)
			case cell.Weekend:
				code = ""
			default:
				if status, ok := recordByKey[st.ID+"|"+cell.Date]; ok {
					code = string(status)
					switch status {
					case models.AttendanceStatusHadir:
						row.Tally.Hadir++
					case models.AttendanceStatusSakit:
						row.Tally.Sakit++
					case models.AttendanceStatusIzin:
						row.Tally.Izin++
					case models.AttendanceStatusAlpa:
						row.Tally.Alpa++
					}
				}
			}
			row.Codes = append(row.Codes, code)
		}
		report.Totals.Hadir += row.Tally.Hadir
		report.Totals.Sakit += row.Tally.Sakit
		report.Totals.Izin += row.Tally.Izin
		report.Totals.Alpa += row.Tally.Alpa
		report.Rows = append(report.Rows, row)
	}

	possible := len(report.Rows) * report.EffectiveDays
	if possible > 0 {
		report.Percentage = math.Round(float64(report.Totals.Hadir)/float64(possible)*10000) / 100
	}
	return report, nil
}

// classLess orders class ids numerically when possible so "10" sorts after "2".
func classLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}

func (s *ReportService) dataset(report *models.MonthlyReport) export.Dataset {
	headers := []string{"No", "Nama Siswa", "NISN"}
	for _, cell := range report.Days {
		headers = append(headers, strconv.Itoa(cell.Day))
	}
	headers = append(headers, "H", "S", "I", "A")

	rows := make([]map[string]string, 0, len(report.Rows))
	for i, r := range report.Rows {
		row := map[string]string{
			"No":         strconv.Itoa(i + 1),
			"Nama Siswa": r.Name,
			"NISN":       r.NISN,
			"H":          strconv.Itoa(r.Tally.Hadir),
			"S":          strconv.Itoa(r.Tally.Sakit),
			"I":          strconv.Itoa(r.Tally.Izin),
			"A":          strconv.Itoa(r.Tally.Alpa),
		}
		for j, cell := range report.Days {
			row[strconv.Itoa(cell.Day)] = r.Codes[j]
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: headers, Rows: rows}
}

// MonthlyCSV renders the monthly matrix as CSV bytes.
func (s *ReportService) MonthlyCSV(ctx context.Context, classID string, year, month int) ([]byte, error) {
	report, err := s.Monthly(ctx, classID, year, month)
	if err != nil {
		return nil, err
	}
	data, err := s.csv.Render(s.dataset(report))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
	}
	return data, nil
}

// MonthlyPDF renders the printable monthly matrix with the sign-off block.
func (s *ReportService) MonthlyPDF(ctx context.Context, classID string, year, month int) ([]byte, error) {
	report, err := s.Monthly(ctx, classID, year, month)
	if err != nil {
		return nil, err
	}

	ds := s.dataset(report)
	widths := []float64{8, 55, 24}
	dayWidth := (277.0 - 87 - 32) / float64(len(report.Days))
	for range report.Days {
		widths = append(widths, dayWidth)
	}
	widths = append(widths, 8, 8, 8, 8)

	subtitle := fmt.Sprintf("Kelas %s - %s %d - Tahun Pelajaran %s", report.ClassID, report.MonthName, report.Year, report.AcademicYear)
	if report.ClassID == ClassAll {
		subtitle = fmt.Sprintf("Semua Kelas - %s %d - Tahun Pelajaran %s", report.MonthName, report.Year, report.AcademicYear)
	}

	signatures := []export.Signature{
		{Role: "Mengetahui, Kepala Sekolah", Name: report.Headmaster.Name, NIP: report.Headmaster.NIP},
	}
	if report.HomeroomName != "" {
		signatures = append(signatures, export.Signature{Role: "Wali Kelas " + report.ClassID, Name: report.HomeroomName})
	}

	data, err := s.pdf.RenderReport(ds, export.ReportOptions{
		Title:      "Laporan Absensi Bulanan " + s.schoolName,
		Subtitle:   subtitle,
		Landscape:  true,
		ColWidths:  widths,
		Signatures: signatures,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
	}
	return data, nil
}

// Dashboard assembles the landing-page summary for today.
func (s *ReportService) Dashboard(ctx context.Context, now time.Time) *models.DashboardSummary {
	summary := &models.DashboardSummary{
		StudentCount: len(s.store.Students()),
		TeacherCount: len(s.store.Teachers()),
		AlumniCount:  len(s.store.Alumni()),
		HolidayCount: len(s.store.Holidays()),
	}
	if y, ok := s.store.ActiveYear(); ok {
		summary.ActiveYear = y.Name
	}

	today := schoolday.Date{Year: now.Year(), Month: int(now.Month()), Day: now.Day()}
	if reason, off := schoolday.DayOff(today, s.store.Holidays()); off {
		summary.TodayOff = true
		summary.TodayReason = reason
		return summary
	}

	key := today.String()
	marked := 0
	for _, r := range s.store.Attendance() {
		if schoolday.Normalize(r.Date) != key {
			continue
		}
		marked++
		switch r.Status {
		case models.AttendanceStatusHadir:
			summary.TodayTally.Hadir++
		case models.AttendanceStatusSakit:
			summary.TodayTally.Sakit++
		case models.AttendanceStatusIzin:
			summary.TodayTally.Izin++
		case models.AttendanceStatusAlpa:
			summary.TodayTally.Alpa++
		}
	}
	if summary.StudentCount > marked {
		summary.TodayUnmarked = summary.StudentCount - marked
	}
	return summary
}
