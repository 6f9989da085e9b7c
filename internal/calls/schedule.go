package calls

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Schedule values are stored as "<date>T<time-part>". The time part is
// either a 24h clock time ("11:30") or one of the sentinel tokens below.
const (
	TokenWaiting      = "waiting"
	TokenUrgent       = "urgent"
	TokenAfterOK      = "after_ok"
	TokenNoTime       = "no_time"
	TokenAwaitingCall = "awaiting_call"
)

// Time priorities order rows within a single date. Sentinels sort ahead
// of any clock time (negative), or after every clock time (large).
const (
	priorityWaiting      = -3
	priorityUrgent       = -2
	priorityAfterOK      = -1
	priorityNoTime       = 9999
	priorityAwaitingCall = 10000
	priorityUnparseable  = 99998
	priorityEmpty        = 99999
)

const dateLayout = "2006-01-02"

// SplitDateTime splits a stored schedule value into its date and time parts.
// A value with no "T" separator is treated as date-only.
func SplitDateTime(value string) (date string, timePart string) {
	date, timePart, found := strings.Cut(value, "T")
	if !found {
		return value, ""
	}
	return date, timePart
}

// JoinDateTime composes the stored schedule value from date and time parts.
func JoinDateTime(date, timePart string) string {
	if timePart == "" {
		return date
	}
	return date + "T" + timePart
}

// TimePriority maps a time part to its intra-day sort key. Clock times map
// to hour*100+minute so "09:05" (905) sorts before "14:30" (1430).
func TimePriority(timePart string) int {
	switch timePart {
	case "":
		return priorityEmpty
	case TokenWaiting:
		return priorityWaiting
	case TokenUrgent:
		return priorityUrgent
	case TokenAfterOK:
		return priorityAfterOK
	case TokenNoTime:
		return priorityNoTime
	case TokenAwaitingCall:
		return priorityAwaitingCall
	}

	hour, minute, ok := parseClock(timePart)
	if !ok {
		return priorityUnparseable
	}
	return hour*100 + minute
}

// IsClockTime reports whether the time part is a concrete HH:MM value.
func IsClockTime(timePart string) bool {
	_, _, ok := parseClock(timePart)
	return ok
}

// ScheduledAt resolves a schedule value to a wall-clock instant in loc.
// Values without a concrete clock time resolve to ok=false.
func ScheduledAt(value string, loc *time.Location) (time.Time, bool) {
	date, timePart := SplitDateTime(value)
	hour, minute, ok := parseClock(timePart)
	if !ok {
		return time.Time{}, false
	}
	day, err := time.ParseInLocation(dateLayout, date, loc)
	if err != nil {
		return time.Time{}, false
	}
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute), true
}

// ValidateTimePart checks a user-supplied time part.
func ValidateTimePart(timePart string) error {
	if timePart == "" {
		return nil
	}
	switch timePart {
	case TokenWaiting, TokenUrgent, TokenAfterOK, TokenNoTime, TokenAwaitingCall:
		return nil
	}
	if _, _, ok := parseClock(timePart); !ok {
		return fmt.Errorf("invalid time value %q", timePart)
	}
	return nil
}

func parseClock(timePart string) (hour, minute int, ok bool) {
	h, m, found := strings.Cut(timePart, ":")
	if !found || len(h) == 0 || len(m) != 2 {
		return 0, 0, false
	}
	hour, err := strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, false
	}
	return hour, minute, true
}
