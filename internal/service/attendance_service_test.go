package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/absensi-sd-api/internal/models"
	"github.com/noah-isme/absensi-sd-api/internal/store"
	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
)

// quietSync builds a sync service whose pushes go nowhere; the seed has no
// remote endpoint so TriggerPush is a no-op.
func quietSync(st *store.Store) *SyncService {
	return NewSyncService(st, &fakeSyncClient{}, nil, nil, 4)
}

func TestAttendanceMarkReplacesByStudentAndDate(t *testing.T) {
	st := newTestStore(t)
	svc := NewAttendanceService(st, quietSync(st), nil, nil)

	n, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		Date: "2024-05-20",
		Entries: []MarkEntry{
			{StudentID: "s1", Status: "H"},
			{StudentID: "s2", Status: "S"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	n, err = svc.Mark(context.Background(), MarkAttendanceRequest{
		Date:    "2024-05-20",
		Entries: []MarkEntry{{StudentID: "s1", Status: "A"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	records := st.Attendance()
	require.Len(t, records, 2)
	byStudent := map[string]models.AttendanceStatus{}
	for _, r := range records {
		byStudent[r.StudentID] = r.Status
		assert.Equal(t, "2023/2024", r.AcademicYear)
	}
	assert.Equal(t, models.AttendanceStatusAlpa, byStudent["s1"])
	assert.Equal(t, models.AttendanceStatusSakit, byStudent["s2"])
}

func TestAttendanceMarkRejectsGatedDates(t *testing.T) {
	st := newTestStore(t)
	svc := NewAttendanceService(st, quietSync(st), nil, nil)

	cases := []struct {
		name string
		date string
	}{
		{"saturday", "2024-05-18"},
		{"sunday", "2024-05-19"},
		{"declared holiday", "2024-05-01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
				Date:    tc.date,
				Entries: []MarkEntry{{StudentID: "s1", Status: "H"}},
			})
			require.Error(t, err)
			var appErr *appErrors.Error
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, appErrors.ErrDayOff.Code, appErr.Code)
			assert.Empty(t, st.Attendance())
		})
	}
}

func TestAttendanceMarkLowercaseStatusAccepted(t *testing.T) {
	st := newTestStore(t)
	svc := NewAttendanceService(st, quietSync(st), nil, nil)

	n, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		Date:    "2024-05-20",
		Entries: []MarkEntry{{StudentID: "s1", Status: "h"}},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, models.AttendanceStatusHadir, st.Attendance()[0].Status)
}

func TestAttendanceMarkSkipsUnsetStatus(t *testing.T) {
	st := newTestStore(t)
	svc := NewAttendanceService(st, quietSync(st), nil, nil)

	n, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		Date: "2024-05-20",
		Entries: []MarkEntry{
			{StudentID: "s1", Status: "-"},
			{StudentID: "s2", Status: "I"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, st.Attendance(), 1)
	assert.Equal(t, "s2", st.Attendance()[0].StudentID)
}

func TestAttendanceMarkRequiresActiveYear(t *testing.T) {
	snap := store.Seed()
	for i := range snap.AcademicYears {
		snap.AcademicYears[i].Active = false
	}
	st := store.New(snap, nil)
	svc := NewAttendanceService(st, quietSync(st), nil, nil)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		Date:    "2024-05-20",
		Entries: []MarkEntry{{StudentID: "s1", Status: "H"}},
	})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNoActiveYear.Code, appErr.Code)
}

func TestAttendanceMarkRejectsBadStatus(t *testing.T) {
	st := newTestStore(t)
	svc := NewAttendanceService(st, quietSync(st), nil, nil)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		Date:    "2024-05-20",
		Entries: []MarkEntry{{StudentID: "s1", Status: "X"}},
	})
	require.Error(t, err)
}

func TestAttendanceSheetSortedWithStatuses(t *testing.T) {
	st := newTestStore(t)
	svc := NewAttendanceService(st, quietSync(st), nil, nil)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		Date:    "2024-05-20",
		Entries: []MarkEntry{{StudentID: "s2", Status: "S"}},
	})
	require.NoError(t, err)

	sheet, err := svc.Sheet(context.Background(), "1", "2024-05-20")
	require.NoError(t, err)
	assert.False(t, sheet.DayOff)
	require.Len(t, sheet.Entries, 2)
	assert.Equal(t, "Ahmad Dani", sheet.Entries[0].Name)
	assert.Equal(t, models.AttendanceStatusNone, sheet.Entries[0].Status)
	assert.Equal(t, models.AttendanceStatusSakit, sheet.Entries[1].Status)
}

func TestAttendanceSheetMarksDayOff(t *testing.T) {
	st := newTestStore(t)
	svc := NewAttendanceService(st, quietSync(st), nil, nil)

	sheet, err := svc.Sheet(context.Background(), "1", "2024-08-17")
	require.NoError(t, err)
	assert.True(t, sheet.DayOff)
	assert.Equal(t, "Kemerdekaan RI", sheet.OffReason)
}

func TestAttendanceDayRecap(t *testing.T) {
	st := newTestStore(t)
	svc := NewAttendanceService(st, quietSync(st), nil, nil)

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{
		Date: "2024-05-20",
		Entries: []MarkEntry{
			{StudentID: "s1", Status: "H"},
			{StudentID: "s2", Status: "A"},
		},
	})
	require.NoError(t, err)

	recap, err := svc.DayRecap(context.Background(), "1", "2024-05-20")
	require.NoError(t, err)
	assert.Equal(t, 1, recap.Hadir)
	assert.Equal(t, []string{"Bunga Citra"}, recap.Alpa)
	assert.Empty(t, recap.Sakit)
	assert.Zero(t, recap.Unmarked)
}
