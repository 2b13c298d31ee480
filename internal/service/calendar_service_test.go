package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/noah-isme/absensi-sd-api/pkg/errors"
)

func TestCalendarAddHoliday(t *testing.T) {
	st := newTestStore(t)
	svc := NewCalendarService(st, quietSync(st), nil, nil)

	h, err := svc.AddHoliday(context.Background(), HolidayRequest{
		Date:        "2024-12-25",
		Description: "Hari Raya Natal",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.Equal(t, "2024-12-25", h.Date)
	assert.Len(t, svc.Holidays(context.Background()), 3)
}

func TestCalendarAddHolidayRejectsBadDate(t *testing.T) {
	st := newTestStore(t)
	svc := NewCalendarService(st, quietSync(st), nil, nil)

	_, err := svc.AddHoliday(context.Background(), HolidayRequest{
		Date:        "25-12-2024",
		Description: "terbalik",
	})
	require.Error(t, err)
}

func TestCalendarDeleteHoliday(t *testing.T) {
	st := newTestStore(t)
	svc := NewCalendarService(st, quietSync(st), nil, nil)

	svc.DeleteHoliday(context.Background(), "h1")
	holidays := svc.Holidays(context.Background())
	require.Len(t, holidays, 1)
	assert.Equal(t, "h2", holidays[0].ID)
}

func TestCalendarImportHolidays(t *testing.T) {
	st := newTestStore(t)
	svc := NewCalendarService(st, quietSync(st), nil, nil)

	text := "2025-01-01\tTahun Baru\n" +
		"2025-03-31\tIdul Fitri\n" +
		"bukan tanggal\tdilewati\n" +
		"2025-05-01\n"
	n := svc.ImportHolidays(context.Background(), text)
	assert.Equal(t, 2, n)
	assert.Len(t, svc.Holidays(context.Background()), 4)
}

func TestCalendarAddYearStartsInactive(t *testing.T) {
	st := newTestStore(t)
	svc := NewCalendarService(st, quietSync(st), nil, nil)

	y, err := svc.AddYear(context.Background(), YearRequest{Name: "2025/2026"})
	require.NoError(t, err)
	assert.False(t, y.Active)

	active, ok := st.ActiveYear()
	require.True(t, ok)
	assert.Equal(t, "2023/2024", active.Name)
}

func TestCalendarActivateYearDemotesOthers(t *testing.T) {
	st := newTestStore(t)
	svc := NewCalendarService(st, quietSync(st), nil, nil)

	svc.ActivateYear(context.Background(), "2")

	active := 0
	for _, y := range svc.Years(context.Background()) {
		if y.Active {
			active++
			assert.Equal(t, "2024/2025", y.Name)
		}
	}
	assert.Equal(t, 1, active)
}

func TestCalendarDeleteActiveYearRefused(t *testing.T) {
	st := newTestStore(t)
	svc := NewCalendarService(st, quietSync(st), nil, nil)

	err := svc.DeleteYear(context.Background(), "1")
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrActiveYearDelete.Code, appErr.Code)
	assert.Len(t, svc.Years(context.Background()), 2)
}

func TestCalendarDeleteInactiveYear(t *testing.T) {
	st := newTestStore(t)
	svc := NewCalendarService(st, quietSync(st), nil, nil)

	require.NoError(t, svc.DeleteYear(context.Background(), "2"))
	assert.Len(t, svc.Years(context.Background()), 1)
}
