package echoapi

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/calendar"
)

const (
	limitParam = "limit"
	yearParam  = "year"
	monthParam = "month"
)

// bindLimit reads ?limit; absent or invalid values give 0 (the service default).
func bindLimit(ctx echo.Context) int {
	n, err := strconv.Atoi(ctx.QueryParam(limitParam))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// bindMonth reads ?year and ?month (1..12). Missing parts default to the
// clock's current month. Out of range months roll over into adjacent years.
func bindMonth(ctx echo.Context, clock core.Clock) (calendar.Month, error) {
	m := calendar.MonthOf(clock.Now())

	if val := ctx.QueryParam(yearParam); val != "" {
		year, err := strconv.Atoi(val)
		if err != nil {
			return m, core.NewValidationError(err, core.FieldError{Field: yearParam, Error: "el año debe ser un número"})
		}
		m.Year = year
	}
	if val := ctx.QueryParam(monthParam); val != "" {
		month, err := strconv.Atoi(val)
		if err != nil {
			return m, core.NewValidationError(err, core.FieldError{Field: monthParam, Error: "el mes debe ser un número"})
		}
		m.Month = month - 1
	}
	return calendar.NewMonth(m.Year, m.Month), nil
}
