package calendar

import (
	"fmt"
	"time"
)

var monthNames = map[string][12]string{
	"es": {"Enero", "Febrero", "Marzo", "Abril", "Mayo", "Junio", "Julio", "Agosto", "Septiembre", "Octubre", "Noviembre", "Diciembre"},
	"en": {"January", "February", "March", "April", "May", "June", "July", "August", "September", "October", "November", "December"},
}

// Month is a displayed calendar month. Month is 0-based (0 = January).
type Month struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// NewMonth normalizes month into 0..11, carrying into the year.
func NewMonth(year, month int) Month {
	year += month / 12
	month %= 12
	if month < 0 {
		month += 12
		year--
	}
	return Month{Year: year, Month: month}
}

// MonthOf returns the month containing t.
func MonthOf(t time.Time) Month {
	return Month{Year: t.Year(), Month: int(t.Month()) - 1}
}

func (m Month) Add(n int) Month { return NewMonth(m.Year, m.Month+n) }
func (m Month) Next() Month     { return m.Add(1) }
func (m Month) Prev() Month     { return m.Add(-1) }

// First returns the first day of the month, UTC.
func (m Month) First() time.Time {
	return time.Date(m.Year, time.Month(m.Month+1), 1, 0, 0, 0, 0, time.UTC)
}

func (m Month) Days() int {
	return m.First().AddDate(0, 1, -1).Day()
}

// Name returns the month name in lang ("es" or "en"), Spanish otherwise.
func (m Month) Name(lang string) string {
	names, ok := monthNames[lang]
	if !ok {
		names = monthNames["es"]
	}
	return names[NewMonth(m.Year, m.Month).Month]
}

// Title is the grid heading, e.g. "Enero 2025".
func (m Month) Title(lang string) string {
	return fmt.Sprintf("%s %d", m.Name(lang), m.Year)
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, m.Month+1)
}
