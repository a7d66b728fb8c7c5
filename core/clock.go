package core

import "time"

// ISODate is the layout of every date column (fecha_prevista, fecha_exposicion).
const ISODate = "2006-01-02"

// Clock abstracts time.Now so "today" can be fixed in tests.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

// Today formats the clock's current local date as YYYY-MM-DD.
func Today(c Clock) string {
	return c.Now().Format(ISODate)
}
