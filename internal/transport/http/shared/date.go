package shared

import "time"

const dateLayout = "2006-01-02"

// ParseDate accepts RFC3339 timestamps or bare YYYY-MM-DD dates. An empty
// value parses to the zero time so optional fields pass through untouched.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse(dateLayout, value)
}

// FormatDate renders the date part only, for date columns in exports.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
