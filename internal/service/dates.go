package service

import (
	"strings"
	"time"

	"budget_system/internal/apperr"
	"budget_system/internal/domain"
)

// ISO 8601 shapes accepted for transaction dates. Values without an offset
// are taken as UTC.
var dateLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate parses an ISO 8601 date-time. A trailing "Z" means UTC. Dates
// outside years 1 to 9999 once converted to UTC are rejected.
func ParseDate(raw string) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if strings.HasSuffix(s, "Z") {
		s = strings.TrimSuffix(s, "Z") + "+00:00"
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		if t.Year() < domain.MinYear || t.Year() > domain.MaxYear {
			return time.Time{}, apperr.ErrInvalidDateFormat
		}
		return t, nil
	}
	return time.Time{}, apperr.ErrInvalidDateFormat
}
