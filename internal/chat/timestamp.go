package chat

import (
	"strings"
	"time"
)

// timestampLayouts are tried in order. Day-first layouts come before
// month-first ones, matching how the desktop export writes dates; an
// ambiguous date like 04/05/24 therefore parses day-first.
var timestampLayouts = []string{
	"2/1/2006, 15:04:05", // desktop: 16/04/2024, 11:59:24
	"2/1/2006, 15:04",
	"1/2/06, 15:04", // US mobile: 8/22/23, 10:33
	"2/1/06, 15:04", // European mobile: 22/8/23, 10:33
	"2/1/06, 15:04:05",
	"1/2/2006, 15:04",
	"1/2/2006, 15:04:05",
}

// ParseTimestamp parses a transcript timestamp string, tolerating the bracket
// and layout variations across export tools. Returns the zero time when no
// layout matches; callers sort such messages as the minimum value.
func ParseTimestamp(s string) time.Time {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "[")
	s = strings.TrimSuffix(s, "]")

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
