package db

import "time"

// NullIfEmpty helps store optional strings without wiping existing data.
func NullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// NullTime maps an optional time to a driver value.
func NullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}
