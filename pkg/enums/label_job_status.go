package enums

import "fmt"

// LabelJobStatus tracks a queued label print request.
type LabelJobStatus string

const (
	LabelJobStatusPending  LabelJobStatus = "pending"
	LabelJobStatusPrinted  LabelJobStatus = "printed"
	LabelJobStatusCanceled LabelJobStatus = "canceled"
)

var validLabelJobStatuses = []LabelJobStatus{
	LabelJobStatusPending,
	LabelJobStatusPrinted,
	LabelJobStatusCanceled,
}

// String implements fmt.Stringer.
func (s LabelJobStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known LabelJobStatus.
func (s LabelJobStatus) IsValid() bool {
	for _, candidate := range validLabelJobStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLabelJobStatus converts raw input into a LabelJobStatus.
func ParseLabelJobStatus(value string) (LabelJobStatus, error) {
	for _, candidate := range validLabelJobStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid label job status %q", value)
}
