package utils

import (
	"database/sql"
	"time"
)

// TimestampLayout is how reservation and attendance times are rendered.
const TimestampLayout = "2006-01-02 15:04:05"

func FormatTimestamp(t time.Time) string {
	return t.Format(TimestampLayout)
}

// FormatNullTimestamp returns nil for a NULL time.
func FormatNullTimestamp(t sql.NullTime) *string {
	if !t.Valid {
		return nil
	}
	s := FormatTimestamp(t.Time)
	return &s
}

// ParseTimestamp parses a value rendered by FormatTimestamp, as UTC.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.UTC)
}

// TruncateToSecond drops sub-second precision so stored and rendered times agree.
func TruncateToSecond(t time.Time) time.Time {
	return t.Truncate(time.Second)
}
