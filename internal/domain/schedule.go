package domain

import (
	"regexp"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// namedDays are matched as substrings, in this order, before the
// "every <weekday>" rule runs. Only the first name found decides.
var namedDays = []struct {
	name string
	day  time.Weekday
}{
	{"wednesday", time.Wednesday},
	{"thursday", time.Thursday},
	{"friday", time.Friday},
	{"saturday", time.Saturday},
}

var everyWeekday = regexp.MustCompile(`every\s+(monday|tuesday|wednesday|thursday|friday|saturday|sunday)\b`)

var byDay = map[string]string{
	"monday":    "MO",
	"tuesday":   "TU",
	"wednesday": "WE",
	"thursday":  "TH",
	"friday":    "FR",
	"saturday":  "SA",
	"sunday":    "SU",
}

// Applies reports whether an event with the given schedule text is on
// for the calendar day of ref. now is only used for relative phrases
// ("tomorrow"). Unknown or empty text always applies.
//
// Rules, first match wins:
//  1. "today" / "daily"
//  2. "tomorrow": ref falls on now's next calendar day
//  3. "this weekend" / "friday & saturday": ref is Friday or Saturday
//  4. contains wednesday, thursday, friday or saturday (that order)
//  5. "every <weekday>"
//  6. anything else
func Applies(schedule string, ref, now time.Time) bool {
	s := strings.ToLower(strings.TrimSpace(schedule))
	if s == "" {
		return true
	}

	switch s {
	case "today", "daily":
		return true
	case "tomorrow":
		return sameDate(ref, now.In(ref.Location()).AddDate(0, 0, 1))
	case "this weekend", "friday & saturday":
		wd := ref.Weekday()
		return wd == time.Friday || wd == time.Saturday
	}

	for _, nd := range namedDays {
		if strings.Contains(s, nd.name) {
			return ref.Weekday() == nd.day
		}
	}

	if m := everyWeekday.FindStringSubmatch(s); m != nil {
		return occursOn(byDay[m[1]], ref)
	}

	return true
}

// occursOn evaluates a weekly recurrence on the given RFC 5545 day and
// reports whether an occurrence lands inside ref's calendar day.
func occursOn(day string, ref time.Time) bool {
	r, err := rrule.StrToRRule("FREQ=WEEKLY;BYDAY=" + day)
	if err != nil {
		return true
	}

	start := startOfDay(ref)
	r.DTStart(start.AddDate(0, 0, -7))

	end := start.AddDate(0, 0, 1).Add(-time.Second)
	return len(r.Between(start, end, true)) > 0
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
