package enums

import "fmt"

// CallStatus maps to the status column on call_requests.
type CallStatus string

const (
	CallStatusInProgress CallStatus = "in_progress"
	CallStatusDone       CallStatus = "done"
)

var validCallStatuses = []CallStatus{
	CallStatusInProgress,
	CallStatusDone,
}

// IsValid checks whether the given status matches the canonical enum.
func (s CallStatus) IsValid() bool {
	for _, candidate := range validCallStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseCallStatus converts raw strings into CallStatus.
func ParseCallStatus(value string) (CallStatus, error) {
	for _, candidate := range validCallStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid call status %q", value)
}

// SortOrder ranks in-progress work ahead of finished work in list views.
func (s CallStatus) SortOrder() int {
	switch s {
	case CallStatusInProgress:
		return 0
	case CallStatusDone:
		return 1
	default:
		return 99
	}
}
