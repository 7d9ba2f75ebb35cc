package mealplan_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocy-sync/internal/application/mealplan"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestClampFirstDayOfWeek(t *testing.T) {
	assert.Equal(t, 0, mealplan.ClampFirstDayOfWeek(-1))
	assert.Equal(t, 0, mealplan.ClampFirstDayOfWeek(7))
	assert.Equal(t, 3, mealplan.ClampFirstDayOfWeek(3))
	assert.Equal(t, 0, mealplan.ClampFirstDayOfWeek(0))
	assert.Equal(t, 6, mealplan.ClampFirstDayOfWeek(6))
}

func TestWeekStartMondayConvention(t *testing.T) {
	// 2026-08-26 es miércoles; con lunes como primer día la semana arranca el 24
	wednesday := date(2026, time.August, 26)
	assert.Equal(t, date(2026, time.August, 24), mealplan.WeekStart(wednesday, 1))
	assert.Equal(t, 2, mealplan.DayOffsetToWeekStart(wednesday, 1))
}

func TestWeekStartSundayConvention(t *testing.T) {
	wednesday := date(2026, time.August, 26)
	assert.Equal(t, date(2026, time.August, 23), mealplan.WeekStart(wednesday, 0))
	assert.Equal(t, 3, mealplan.DayOffsetToWeekStart(wednesday, 0))
}

func TestWeekStartOnFirstDayIsIdentity(t *testing.T) {
	monday := date(2026, time.August, 24)
	assert.Equal(t, monday, mealplan.WeekStart(monday, 1))
	assert.Equal(t, 0, mealplan.DayOffsetToWeekStart(monday, 1))
}

func TestWeekStartOutOfRangeFallsBackToSunday(t *testing.T) {
	wednesday := date(2026, time.August, 26)
	assert.Equal(t, mealplan.WeekStart(wednesday, 0), mealplan.WeekStart(wednesday, 9))
}

func TestSelectedWeekCalendarPosition(t *testing.T) {
	week := mealplan.SelectedWeek(date(2026, time.August, 26), 1)
	assert.Equal(t, date(2026, time.August, 24), week.StartDate)
	assert.Equal(t, 2, week.CalendarPosition())
}

func TestCalendarPositionAcrossClockChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// el 8 de marzo de 2026 el huso adelanta una hora: el domingo dura 23 horas,
	// pero el lunes sigue siendo el día 1 de la semana
	sunday := time.Date(2026, time.March, 8, 0, 0, 0, 0, loc)
	monday := time.Date(2026, time.March, 9, 0, 0, 0, 0, loc)
	week := mealplan.Week{StartDate: sunday, SelectedDay: monday}

	assert.Equal(t, 1, week.CalendarPosition())
	assert.Equal(t, 6, mealplan.Week{
		StartDate:   sunday,
		SelectedDay: time.Date(2026, time.March, 14, 0, 0, 0, 0, loc),
	}.CalendarPosition())
}

func TestShiftKeepsPosition(t *testing.T) {
	week := mealplan.SelectedWeek(date(2026, time.August, 26), 1)

	next := week.Shift(1)
	assert.Equal(t, date(2026, time.August, 31), next.StartDate)
	assert.Equal(t, 2, next.CalendarPosition())

	previous := week.Shift(-1)
	assert.Equal(t, date(2026, time.August, 17), previous.StartDate)
	assert.Equal(t, 2, previous.CalendarPosition())
}
