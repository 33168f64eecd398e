package enums

import "fmt"

// SenderType distinguishes which side of a conversation authored a message.
// It drives display styling only; no authorization is derived from it.
type SenderType string

const (
	SenderTypeUser SenderType = "user"
	SenderTypeStar SenderType = "star"
)

var validSenderTypes = []SenderType{
	SenderTypeUser,
	SenderTypeStar,
}

// String implements fmt.Stringer.
func (s SenderType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SenderType.
func (s SenderType) IsValid() bool {
	for _, candidate := range validSenderTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSenderType converts raw input into a SenderType.
func ParseSenderType(value string) (SenderType, error) {
	for _, candidate := range validSenderTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid sender type %q", value)
}
