package core

import (
	"strings"
	"time"
)

// Storage dates are canonical ISO (YYYY-MM-DD); entry forms use DD-MM-YYYY.
const (
	StorageDateLayout = "2006-01-02"
	DisplayDateLayout = "02-01-2006"
)

// FormatDateForDisplay converts a storage date (YYYY-MM-DD) to its display
// form (DD-MM-YYYY). Strings that are not three dash-separated components
// pass through unchanged.
func FormatDateForDisplay(s string) string {
	return swapDateComponents(s)
}

// ParseDateForStorage converts a display date (DD-MM-YYYY) back to storage
// form (YYYY-MM-DD). It is the exact inverse of FormatDateForDisplay for
// well-formed inputs; anything else passes through unchanged.
func ParseDateForStorage(s string) string {
	return swapDateComponents(s)
}

// The two layouts are mirror images, so both directions are the same swap.
func swapDateComponents(s string) string {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return s
	}
	return parts[2] + "-" + parts[1] + "-" + parts[0]
}

// ParseDate parses a canonical storage date string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(StorageDateLayout, s)
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// Storage renders the date in canonical storage form.
func (d Date) Storage() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(StorageDateLayout)
}

// Display renders the date in the entry-form layout.
func (d Date) Display() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DisplayDateLayout)
}
