package calendar

import (
	"bytes"
	"fmt"
	"time"

	"github.com/emersion/go-ical"
	"github.com/pkg/errors"

	"github.com/trezcool/sesiones/core"
	"github.com/trezcool/sesiones/core/session"
)

const (
	icsProdID = "-//sesiones//calendario//ES"
	icsDomain = "sesiones"

	// a VCALENDAR without components cannot be encoded
	stubVCalendar = "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:" + icsProdID + "\r\nEND:VCALENDAR\r\n"
)

var icsStatuses = map[string]string{
	session.StatusPending:   "TENTATIVE",
	session.StatusConfirmed: "CONFIRMED",
	session.StatusCompleted: "CONFIRMED",
	session.StatusCancelled: "CANCELLED",
}

// EncodeICS renders the sessions that have an exposition date as all-day events.
func EncodeICS(calName string, sessions []session.Session, now time.Time) ([]byte, error) {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, icsProdID)
	cal.Props.SetText("X-WR-CALNAME", calName)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")

	for _, s := range sessions {
		ev, err := newEvent(s, now)
		if err != nil {
			return nil, err
		}
		if ev != nil {
			cal.Children = append(cal.Children, ev.Component)
		}
	}

	if len(cal.Children) == 0 {
		return []byte(stubVCalendar), nil
	}

	var buf bytes.Buffer
	if err := ical.NewEncoder(&buf).Encode(cal); err != nil {
		return nil, errors.Wrap(err, "encoding calendar")
	}
	return buf.Bytes(), nil
}

func newEvent(s session.Session, now time.Time) (*ical.Event, error) {
	if s.ExpositionDate == "" {
		return nil, nil
	}
	day, err := time.Parse(core.ISODate, s.ExpositionDate)
	if err != nil {
		return nil, errors.Wrapf(err, "session %s", s.ID)
	}

	ev := ical.NewEvent()
	ev.Props.SetText(ical.PropUID, fmt.Sprintf("%s@%s", s.ID, icsDomain))
	ev.Props.SetText(ical.PropSummary, fmt.Sprintf("%s (%s)", s.Title, s.Speaker))
	stamp := ical.NewProp(ical.PropDateTimeStamp)
	stamp.SetDateTime(now.UTC())
	ev.Props.Set(stamp)

	start := ical.NewProp(ical.PropDateTimeStart)
	start.SetDate(day)
	ev.Props.Set(start)
	end := ical.NewProp(ical.PropDateTimeEnd)
	end.SetDate(day.AddDate(0, 0, 1))
	ev.Props.Set(end)

	if st, ok := icsStatuses[s.Status]; ok {
		ev.Props.SetText(ical.PropStatus, st)
	}
	if s.Group != "" {
		ev.Props.SetText(ical.PropCategories, s.Group)
	}
	if s.Notes != "" {
		ev.Props.SetText(ical.PropDescription, s.Notes)
	}
	if s.AccessURL != "" {
		u := ical.NewProp(ical.PropURL)
		u.Value = s.AccessURL
		ev.Props.Set(u)
	}
	return ev, nil
}
