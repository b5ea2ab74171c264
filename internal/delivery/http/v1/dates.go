package v1

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04",
	time.DateOnly,
}

// parseDate accepts an RFC 3339 timestamp, a datetime-local value or a
// plain date. It returns nil for an empty or unparsable value.
func parseDate(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}

	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, value)
		if err == nil {
			t = t.UTC()
			return &t
		}
	}
	return nil
}

func parseOptionalDate(value *string) *time.Time {
	if value == nil {
		return nil
	}
	return parseDate(*value)
}

// nilIfEmpty maps an absent or blank optional string to nil.
func nilIfEmpty(value *string) *string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil
	}
	return value
}
