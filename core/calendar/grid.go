// Package calendar lays sessions out on Monday-first month grids.
package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/session"
)

type (
	// Cell is one day of a month grid. Filler cells (InMonth false) belong to
	// the adjacent months and never carry items.
	Cell struct {
		Day     int               `json:"day"`
		Date    string            `json:"date,omitempty"`
		InMonth bool              `json:"in_month"`
		IsToday bool              `json:"is_today"`
		Items   []session.Session `json:"items,omitempty"`
	}

	// Grid spans whole weeks: len(Cells) is a multiple of 7.
	Grid struct {
		Month    Month  `json:"-"`
		Leading  int    `json:"leading"`
		Trailing int    `json:"trailing"`
		Cells    []Cell `json:"cells"`
	}
)

// mondayIndex maps time.Weekday (Sunday = 0) to Monday = 0 .. Sunday = 6.
func mondayIndex(d time.Weekday) int {
	return (int(d) + 6) % 7
}

// BuildMonthGrid builds the grid of month (0..11, normalized across years)
// and attaches every item to the cell of its exposition date, in input order.
// today is an ISO date.
func BuildMonthGrid(month, year int, items []session.Session, today string) Grid {
	m := NewMonth(year, month)
	first := m.First()
	days := m.Days()
	leading := mondayIndex(first.Weekday())
	trailing := (7 - ((leading + days) % 7)) % 7

	byDate := make(map[string][]session.Session)
	for _, it := range items {
		if it.ExpositionDate == "" {
			continue
		}
		byDate[it.ExpositionDate] = append(byDate[it.ExpositionDate], it)
	}

	g := Grid{
		Month:    m,
		Leading:  leading,
		Trailing: trailing,
		Cells:    make([]Cell, 0, leading+days+trailing),
	}

	prevDays := m.Prev().Days()
	for i := leading - 1; i >= 0; i-- {
		g.Cells = append(g.Cells, Cell{Day: prevDays - i})
	}
	for d := 1; d <= days; d++ {
		date := fmt.Sprintf("%04d-%02d-%02d", m.Year, m.Month+1, d)
		g.Cells = append(g.Cells, Cell{
			Day:     d,
			Date:    date,
			InMonth: true,
			IsToday: date == today,
			Items:   byDate[date],
		})
	}
	for d := 1; d <= trailing; d++ {
		g.Cells = append(g.Cells, Cell{Day: d})
	}
	return g
}

// Build is BuildMonthGrid for m with today taken from clock.
func Build(m Month, items []session.Session, clock core.Clock) Grid {
	return BuildMonthGrid(m.Month, m.Year, items, core.Today(clock))
}

// Source lists the sessions not yet completed exposed in [from, to), both ISO dates.
type Source interface {
	ScheduledBetween(ctx context.Context, from, to string) ([]session.Session, error)
}

// Load fetches the scheduled sessions exposed during m and lays them out on its grid.
func Load(ctx context.Context, src Source, m Month, clock core.Clock) (Grid, error) {
	from := m.First().Format(core.ISODate)
	to := m.Next().First().Format(core.ISODate)
	items, err := src.ScheduledBetween(ctx, from, to)
	if err != nil {
		return Grid{}, err
	}
	return Build(m, items, clock), nil
}

// Day returns the in-month cell of day d (1-based).
func (g Grid) Day(d int) (Cell, bool) {
	i := g.Leading + d - 1
	if d < 1 || i >= len(g.Cells)-g.Trailing {
		return Cell{}, false
	}
	return g.Cells[i], true
}

// Weeks splits the cells into rows of 7.
func (g Grid) Weeks() [][]Cell {
	weeks := make([][]Cell, 0, len(g.Cells)/7)
	for i := 0; i+7 <= len(g.Cells); i += 7 {
		weeks = append(weeks, g.Cells[i:i+7])
	}
	return weeks
}
