package enums

import "fmt"

// Availability is a member's current capacity to take new call assignments.
type Availability string

const (
	AvailabilityAvailable        Availability = "available"
	AvailabilityUnavailable      Availability = "unavailable"
	AvailabilityUnavailableToday Availability = "unavailable_today"
	AvailabilityOffDuty          Availability = "off_duty"
)

var validAvailabilities = []Availability{
	AvailabilityAvailable,
	AvailabilityUnavailable,
	AvailabilityUnavailableToday,
	AvailabilityOffDuty,
}

func (a Availability) IsValid() bool {
	for _, candidate := range validAvailabilities {
		if candidate == a {
			return true
		}
	}
	return false
}

func ParseAvailability(value string) (Availability, error) {
	for _, candidate := range validAvailabilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid availability %q", value)
}
