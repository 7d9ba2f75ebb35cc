// Package mealplan aritmética de semanas del plan de comidas: inicio de semana
// según el primer día configurado y posición de un día dentro de su semana.
package mealplan

import "time"

// ClampFirstDayOfWeek normaliza el primer día de la semana configurado al rango
// [0, 6]; cualquier valor fuera de rango cae en domingo (0).
func ClampFirstDayOfWeek(day int) int {
	if day < 0 || day > 6 {
		return 0
	}
	return day
}

// DayOffsetToWeekStart días transcurridos desde el inicio de la semana que
// contiene a date, con firstDayOfWeek en la convención 0=domingo..6=sábado.
func DayOffsetToWeekStart(date time.Time, firstDayOfWeek int) int {
	firstDayOfWeek = ClampFirstDayOfWeek(firstDayOfWeek)
	// ordinal con lunes=0 .. domingo=6
	ordinal := (int(date.Weekday()) + 6) % 7
	offset := (ordinal - (firstDayOfWeek - 1)) % 7
	if offset < 0 {
		offset += 7
	}
	return offset
}

// WeekStart fecha (medianoche, misma zona) del primer día de la semana que
// contiene a date.
func WeekStart(date time.Time, firstDayOfWeek int) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return day.AddDate(0, 0, -DayOffsetToWeekStart(date, firstDayOfWeek))
}

// Week semana del plan con el día seleccionado dentro de ella.
type Week struct {
	StartDate   time.Time
	SelectedDay time.Time
}

// SelectedWeek construye la semana que contiene al día seleccionado.
func SelectedWeek(selected time.Time, firstDayOfWeek int) Week {
	return Week{
		StartDate:   WeekStart(selected, firstDayOfWeek),
		SelectedDay: time.Date(selected.Year(), selected.Month(), selected.Day(), 0, 0, 0, 0, selected.Location()),
	}
}

// CalendarPosition índice [0, 6] del día seleccionado dentro de su semana. La
// cuenta va por días de calendario, no por horas transcurridas: un día de 23 horas
// por cambio de horario sigue contando como un día.
func (w Week) CalendarPosition() int {
	start := time.Date(w.StartDate.Year(), w.StartDate.Month(), w.StartDate.Day(), 0, 0, 0, 0, time.UTC)
	day := time.Date(w.SelectedDay.Year(), w.SelectedDay.Month(), w.SelectedDay.Day(), 0, 0, 0, 0, time.UTC)
	return int(day.Sub(start).Hours() / 24)
}

// Shift devuelve la semana desplazada n semanas, con el día seleccionado en la
// misma posición.
func (w Week) Shift(n int) Week {
	return Week{
		StartDate:   w.StartDate.AddDate(0, 0, 7*n),
		SelectedDay: w.SelectedDay.AddDate(0, 0, 7*n),
	}
}
