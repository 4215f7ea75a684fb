package entity

import (
	"fmt"
	"strings"
	"time"
)

type DayHours struct {
	Enabled bool   `json:"enabled"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

// WorkingHours is keyed by lowercase weekday name ("monday" ... "sunday").
type WorkingHours map[string]DayHours

func DefaultDayHours(day time.Weekday) DayHours {
	if day == time.Saturday || day == time.Sunday {
		return DayHours{Enabled: false, Start: "09:00", End: "17:00"}
	}
	return DayHours{Enabled: true, Start: "09:00", End: "17:00"}
}

// ForDay returns the configured hours of a weekday or the 09:00-17:00 Mon-Fri default.
func (w WorkingHours) ForDay(day time.Weekday) DayHours {
	if w == nil {
		return DefaultDayHours(day)
	}
	hours, ok := w[strings.ToLower(day.String())]
	if !ok {
		return DefaultDayHours(day)
	}
	return hours
}

// ParseClock parses "HH:MM" into minutes after midnight.
func ParseClock(value string) (int, error) {
	var h, m int
	if _, err := fmt.Sscanf(strings.TrimSpace(value), "%d:%d", &h, &m); err != nil {
		return 0, fmt.Errorf("invalid clock value %q: %w", value, err)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	return h*60 + m, nil
}
