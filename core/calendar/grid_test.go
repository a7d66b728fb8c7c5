package calendar

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/session"
	inmemdb "github.com/trezcool/sesiones/storage/database/inmem"
)

func TestBuildMonthGrid_January2025(t *testing.T) {
	item := session.Session{ID: "a", Title: "Farmacogenética", ExpositionDate: "2025-01-15"}
	g := BuildMonthGrid(0, 2025, []session.Session{item}, "2025-01-20")

	// 1 Jan 2025 is a Wednesday
	require.Equal(t, 2, g.Leading)
	assert.Equal(t, 2, g.Trailing) // 2 + 31 = 33 -> 35
	require.Len(t, g.Cells, 35)

	assert.Equal(t, Cell{Day: 30}, g.Cells[0])
	assert.Equal(t, Cell{Day: 31}, g.Cells[1])
	assert.Equal(t, Cell{Day: 1}, g.Cells[33])
	assert.Equal(t, Cell{Day: 2}, g.Cells[34])

	for i, c := range g.Cells {
		hasItems := len(c.Items) > 0
		if c.Day == 15 && c.InMonth {
			assert.Equal(t, []session.Session{item}, c.Items)
			assert.Equal(t, "2025-01-15", c.Date)
		} else {
			assert.False(t, hasItems, "cell %d", i)
		}
		assert.Equal(t, c.InMonth && c.Day == 20, c.IsToday, "cell %d", i)
	}

	c, ok := g.Day(15)
	require.True(t, ok)
	assert.Equal(t, 15, c.Day)
	_, ok = g.Day(32)
	assert.False(t, ok)
	assert.Len(t, g.Weeks(), 5)
}

func TestBuildMonthGrid_Properties(t *testing.T) {
	for year := 2023; year <= 2026; year++ {
		for month := 0; month < 12; month++ {
			m := NewMonth(year, month)
			g := BuildMonthGrid(month, year, nil, "")
			days := m.Days()

			require.Equal(t, 0, len(g.Cells)%7, m.String())
			assert.Equal(t, g.Leading+days+g.Trailing, len(g.Cells), m.String())
			assert.Less(t, g.Leading, 7)
			assert.Less(t, g.Trailing, 7)

			seen := make(map[int]int)
			for i, c := range g.Cells {
				inRange := i >= g.Leading && i < g.Leading+days
				assert.Equal(t, inRange, c.InMonth, "%s cell %d", m, i)
				assert.Empty(t, c.Items)
				if c.InMonth {
					seen[c.Day]++
				}
			}
			assert.Len(t, seen, days)
			for d := 1; d <= days; d++ {
				assert.Equal(t, 1, seen[d], "%s day %d", m, d)
			}

			// the first in-month cell is a Monday-based weekday of the 1st
			assert.Equal(t, mondayIndex(m.First().Weekday()), g.Leading)
			if g.Leading > 0 {
				assert.Equal(t, m.Prev().Days(), g.Cells[g.Leading-1].Day)
			}
		}
	}
}

func TestBuildMonthGrid_Items(t *testing.T) {
	items := []session.Session{
		{ID: "1", ExpositionDate: "2025-03-10"},
		{ID: "2"},                             // no exposition date
		{ID: "3", ExpositionDate: "2025-04-01"}, // other month
		{ID: "4", ExpositionDate: "2025-03-10"},
		{ID: "5", ExpositionDate: "2025-03-31", ScheduledDate: "2025-03-01"},
	}
	g := BuildMonthGrid(2, 2025, items, "2025-03-31")

	var attached []string
	for _, c := range g.Cells {
		for _, it := range c.Items {
			attached = append(attached, it.ID)
		}
	}
	assert.Equal(t, []string{"1", "4", "5"}, attached)

	c, _ := g.Day(10)
	assert.Equal(t, []session.Session{items[0], items[3]}, c.Items)
	c, _ = g.Day(31)
	assert.True(t, c.IsToday)
	assert.Equal(t, "5", c.Items[0].ID)

	// March 2025 starts on a Saturday and ends on a Monday
	assert.Equal(t, 5, g.Leading)
	assert.Equal(t, 6, g.Trailing)
}

func TestBuildMonthGrid_Normalizes(t *testing.T) {
	g := BuildMonthGrid(-1, 2025, nil, "")
	assert.Equal(t, Month{Year: 2024, Month: 11}, g.Month)
	assert.Equal(t, "2024-12-01", g.Cells[g.Leading].Date)

	g = BuildMonthGrid(12, 2024, nil, "")
	assert.Equal(t, Month{Year: 2025, Month: 0}, g.Month)
	assert.Equal(t, "2025-01-01", g.Cells[g.Leading].Date)
}

func TestBuild(t *testing.T) {
	clock := core.FixedClock(time.Date(2024, time.February, 29, 12, 0, 0, 0, time.UTC))
	g := Build(MonthOf(clock.Now()), nil, clock)
	c, ok := g.Day(29)
	require.True(t, ok)
	assert.True(t, c.IsToday)
	assert.Equal(t, 3, g.Leading) // Thursday
	assert.Equal(t, 35, len(g.Cells))
}

type sourceFunc func(ctx context.Context, from, to string) ([]session.Session, error)

func (f sourceFunc) ScheduledBetween(ctx context.Context, from, to string) ([]session.Session, error) {
	return f(ctx, from, to)
}

func TestLoad(t *testing.T) {
	clock := core.FixedClock(time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC))

	var gotFrom, gotTo string
	src := sourceFunc(func(_ context.Context, from, to string) ([]session.Session, error) {
		gotFrom, gotTo = from, to
		return []session.Session{{ID: "a", Title: "Sepsis", ExpositionDate: "2024-12-31"}}, nil
	})
	g, err := Load(context.Background(), src, NewMonth(2024, 11), clock)
	require.NoError(t, err)
	assert.Equal(t, "2024-12-01", gotFrom)
	assert.Equal(t, "2025-01-01", gotTo)
	c, ok := g.Day(31)
	require.True(t, ok)
	require.Len(t, c.Items, 1)
	assert.Equal(t, "a", c.Items[0].ID)

	boom := errors.New("boom")
	_, err = Load(context.Background(), sourceFunc(func(context.Context, string, string) ([]session.Session, error) {
		return nil, boom
	}), NewMonth(2025, 0), clock)
	assert.Equal(t, boom, err)
}

func TestLoad_SkipsCompleted(t *testing.T) {
	ctx := context.Background()
	clock := core.FixedClock(time.Date(2025, time.January, 15, 10, 0, 0, 0, time.UTC))
	repo := inmemdb.NewSessionRepository(inmemdb.Open())
	done, err := repo.CreateSession(ctx, session.Session{
		Title: "Antibióticos", Speaker: "Ana", Status: session.StatusCompleted, ExpositionDate: "2025-01-10",
	})
	require.NoError(t, err)
	next, err := repo.CreateSession(ctx, session.Session{
		Title: "Sepsis", Speaker: "Luis", Status: session.StatusPending, ExpositionDate: "2025-01-20",
	})
	require.NoError(t, err)
	svc := session.NewService(repo, clock, validator.New())

	g, err := Load(ctx, svc, NewMonth(2025, 0), clock)
	require.NoError(t, err)

	c, ok := g.Day(10)
	require.True(t, ok)
	assert.Empty(t, c.Items, "%s is completed", done.ID)
	c, ok = g.Day(20)
	require.True(t, ok)
	require.Len(t, c.Items, 1)
	assert.Equal(t, next.ID, c.Items[0].ID)
}

func TestMonth(t *testing.T) {
	tests := []struct {
		name string
		got  Month
		want Month
	}{
		{name: "next in year", got: Month{2025, 5}.Next(), want: Month{2025, 6}},
		{name: "next over year", got: Month{2024, 11}.Next(), want: Month{2025, 0}},
		{name: "prev over year", got: Month{2025, 0}.Prev(), want: Month{2024, 11}},
		{name: "add negative", got: Month{2025, 1}.Add(-26), want: Month{2022, 11}},
		{name: "normalize 12", got: NewMonth(2024, 12), want: Month{2025, 0}},
		{name: "normalize -1", got: NewMonth(2025, -1), want: Month{2024, 11}},
		{name: "normalize -13", got: NewMonth(2025, -13), want: Month{2023, 11}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}

	// +12 then -12 is the identity
	for month := 0; month < 12; month++ {
		m := Month{Year: 2025, Month: month}
		assert.Equal(t, m, m.Add(12).Add(-12))
		back := m
		for i := 0; i < 12; i++ {
			back = back.Next()
		}
		for i := 0; i < 12; i++ {
			back = back.Prev()
		}
		assert.Equal(t, m, back)
	}

	assert.Equal(t, 29, Month{2024, 1}.Days())
	assert.Equal(t, 28, Month{2025, 1}.Days())
	assert.Equal(t, "Enero 2025", Month{2025, 0}.Title("es"))
	assert.Equal(t, "December 2024", Month{2024, 11}.Title("en"))
	assert.Equal(t, "Marzo", Month{2025, 2}.Name("fr"))
	assert.Equal(t, "2025-03", Month{2025, 2}.String())
}

func TestEncodeICS(t *testing.T) {
	now := time.Date(2025, time.January, 1, 8, 0, 0, 0, time.UTC)

	out, err := EncodeICS("Sesiones", nil, now)
	require.NoError(t, err)
	assert.Equal(t, stubVCalendar, string(out))

	// sessions without exposition date are skipped
	out, err = EncodeICS("Sesiones", []session.Session{{ID: "x", Title: "T"}}, now)
	require.NoError(t, err)
	assert.Equal(t, stubVCalendar, string(out))

	out, err = EncodeICS("Sesiones", []session.Session{
		{ID: "a", Title: "Farmacogenética", Speaker: "Ana", Group: session.GroupFIR, Status: session.StatusConfirmed, ExpositionDate: "2025-01-15", AccessURL: "https://meet.example.com/a"},
		{ID: "b", Title: "Nutrición", Speaker: "Luis", Status: session.StatusCancelled, ExpositionDate: "2025-01-20"},
	}, now)
	require.NoError(t, err)
	ics := string(out)
	assert.True(t, strings.HasPrefix(ics, "BEGIN:VCALENDAR"))
	assert.Equal(t, 2, strings.Count(ics, "BEGIN:VEVENT"))
	assert.Contains(t, ics, "UID:a@sesiones")
	assert.Contains(t, ics, "DTSTART;VALUE=DATE:20250115")
	assert.Contains(t, ics, "DTEND;VALUE=DATE:20250116")
	assert.Contains(t, ics, "STATUS:CANCELLED")
	assert.Contains(t, ics, "CATEGORIES:FIR")

	_, err = EncodeICS("Sesiones", []session.Session{{ID: "bad", ExpositionDate: "15/01/2025"}}, now)
	assert.Error(t, err)
}
