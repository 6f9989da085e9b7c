package enums

import "fmt"

// ListType is the coarse product category used to route call requests.
type ListType string

const (
	ListTypeLine ListType = "line"
	ListTypeMF   ListType = "mf"
	ListTypeOK   ListType = "ok"
	ListTypeNG   ListType = "ng"
)

var validListTypes = []ListType{
	ListTypeLine,
	ListTypeMF,
	ListTypeOK,
	ListTypeNG,
}

// IsValid accepts the empty string: requests may carry no list type.
func (l ListType) IsValid() bool {
	if l == "" {
		return true
	}
	for _, candidate := range validListTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

func ParseListType(value string) (ListType, error) {
	if value == "" {
		return "", nil
	}
	for _, candidate := range validListTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid list type %q", value)
}
