package enums

import (
	"fmt"
	"time"
)

// NotifyTiming is a configured reminder offset ahead of a scheduled call.
type NotifyTiming string

const (
	NotifyTimingExact NotifyTiming = "exact"
	NotifyTiming5Min  NotifyTiming = "5min"
	NotifyTiming10Min NotifyTiming = "10min"
	NotifyTiming15Min NotifyTiming = "15min"
	NotifyTiming30Min NotifyTiming = "30min"
)

var validNotifyTimings = []NotifyTiming{
	NotifyTimingExact,
	NotifyTiming5Min,
	NotifyTiming10Min,
	NotifyTiming15Min,
	NotifyTiming30Min,
}

func (t NotifyTiming) IsValid() bool {
	for _, candidate := range validNotifyTimings {
		if candidate == t {
			return true
		}
	}
	return false
}

// Offset converts the timing into the lead duration before the call.
func (t NotifyTiming) Offset() time.Duration {
	switch t {
	case NotifyTiming5Min:
		return 5 * time.Minute
	case NotifyTiming10Min:
		return 10 * time.Minute
	case NotifyTiming15Min:
		return 15 * time.Minute
	case NotifyTiming30Min:
		return 30 * time.Minute
	default:
		return 0
	}
}

// Label is the human-readable form used in notification bodies.
func (t NotifyTiming) Label() string {
	switch t {
	case NotifyTimingExact:
		return "now"
	case NotifyTiming5Min:
		return "5 minutes ahead"
	case NotifyTiming10Min:
		return "10 minutes ahead"
	case NotifyTiming15Min:
		return "15 minutes ahead"
	case NotifyTiming30Min:
		return "30 minutes ahead"
	default:
		return string(t)
	}
}

func ParseNotifyTiming(value string) (NotifyTiming, error) {
	for _, candidate := range validNotifyTimings {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid notify timing %q", value)
}
