package enums

import "fmt"

// AccountStatus tracks the settlement state of a payable or receivable.
type AccountStatus string

const (
	AccountStatusOpen     AccountStatus = "open"
	AccountStatusSettled  AccountStatus = "settled"
	AccountStatusCanceled AccountStatus = "canceled"
)

var validAccountStatuses = []AccountStatus{
	AccountStatusOpen,
	AccountStatusSettled,
	AccountStatusCanceled,
}

// String implements fmt.Stringer.
func (s AccountStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known AccountStatus.
func (s AccountStatus) IsValid() bool {
	for _, candidate := range validAccountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAccountStatus converts raw input into an AccountStatus.
func ParseAccountStatus(value string) (AccountStatus, error) {
	for _, candidate := range validAccountStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid account status %q", value)
}
