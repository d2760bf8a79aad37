// Package calendar exports the events of a day as an iCalendar feed so
// they can be added to a regular calendar app.
package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"github.com/MrSnakeDoc/mapbuddy/internal/domain"
)

const (
	productID       = "-//MapBuddy//Discovery//EN"
	uidDomain       = "mapbuddy"
	defaultDuration = 2 * time.Hour
	clockLayout     = "3:04 PM"
)

// Export renders events as occurring on day. Events whose time of day
// cannot be read become all-day entries. stamp is written as DTSTAMP.
func Export(events []*domain.Event, day, stamp time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)
	cal.SetXWRCalName("Map Buddy " + day.Format(time.DateOnly))

	for _, e := range events {
		if e == nil {
			continue
		}
		ve := cal.AddEvent(fmt.Sprintf("%s-%s@%s", e.ID, day.Format("20060102"), uidDomain))
		ve.SetDtStampTime(stamp)
		ve.SetSummary(e.Name)

		if start, end, ok := TimeRange(e.TimeOfDay, day); ok {
			ve.SetStartAt(start)
			ve.SetEndAt(end)
		} else {
			d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
			ve.SetAllDayStartAt(d)
			ve.SetAllDayEndAt(d.AddDate(0, 0, 1))
		}

		if e.Description != "" {
			ve.SetDescription(e.Description)
		}
		if e.Location != "" {
			ve.SetLocation(e.Location)
		}
		if strings.HasPrefix(e.Source, "http://") || strings.HasPrefix(e.Source, "https://") {
			ve.SetURL(e.Source)
		}
		if len(e.Categories) > 0 {
			ve.SetProperty(ical.ComponentPropertyCategories, strings.Join(e.Categories, ","))
		}
		ve.SetProperty(ical.ComponentPropertyGeo, geo(e.Coordinates))
	}

	return cal.Serialize()
}

// TimeRange reads "8:00 PM" or "12:00 PM - 9:00 PM" on day. A single
// time lasts two hours; an end before the start runs past midnight.
func TimeRange(text string, day time.Time) (start, end time.Time, ok bool) {
	from, to, hasEnd := strings.Cut(text, "-")
	start, ok = clockOn(from, day)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if !hasEnd {
		return start, start.Add(defaultDuration), true
	}
	end, ok = clockOn(to, day)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	if !end.After(start) {
		end = end.AddDate(0, 0, 1)
	}
	return start, end, true
}

func clockOn(text string, day time.Time) (time.Time, bool) {
	t, err := time.Parse(clockLayout, strings.ToUpper(strings.TrimSpace(text)))
	if err != nil {
		return time.Time{}, false
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location()), true
}

// geo is "lat;lon", the reverse of the map's order.
func geo(c domain.Coordinates) string {
	return strconv.FormatFloat(c.Lat, 'f', 6, 64) + ";" + strconv.FormatFloat(c.Lng, 'f', 6, 64)
}
