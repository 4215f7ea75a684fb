package rules

import (
	"ScheduleSync/internal/entity"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var clockValuePattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{2}))?\s*(am|pm)?$`)

var dayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tues": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

func (e *Engine) matches(rule entity.SchedulingRule, f facts) (bool, error) {
	value := strings.TrimSpace(rule.TriggerValue)

	switch rule.TriggerType {
	case entity.TriggerAll:
		return true, nil

	case entity.TriggerDomain:
		if f.domain == "" {
			return false, nil
		}
		for _, d := range splitList(value) {
			d = strings.TrimPrefix(d, "@")
			if d == "" {
				continue
			}
			if f.domain == d || strings.HasSuffix(f.domain, "."+d) {
				return true, nil
			}
		}
		return false, nil

	case entity.TriggerEmail:
		for _, addr := range splitList(value) {
			if addr != "" && strings.EqualFold(addr, f.email) {
				return true, nil
			}
		}
		return false, nil

	case entity.TriggerKeyword:
		for _, kw := range splitList(value) {
			if kw != "" && strings.Contains(f.text, kw) {
				return true, nil
			}
		}
		return false, nil

	case entity.TriggerTimeBefore:
		limit, err := ParseClockValue(value)
		if err != nil {
			return false, err
		}
		return f.minutes < limit, nil

	case entity.TriggerTimeAfter:
		limit, err := ParseClockValue(value)
		if err != nil {
			return false, err
		}
		return f.minutes >= limit, nil

	case entity.TriggerDayOfWeek:
		days, err := ParseDays(value)
		if err != nil {
			return false, err
		}
		return days[f.weekday], nil

	case entity.TriggerDurationGreater:
		n, err := parsePositiveInt(value)
		if err != nil {
			return false, err
		}
		return f.duration > n, nil

	case entity.TriggerDurationLess:
		n, err := parsePositiveInt(value)
		if err != nil {
			return false, err
		}
		return f.duration < n, nil
	}

	if e.log != nil {
		e.log.WithField("trigger_type", rule.TriggerType).Warn("Unknown rule trigger, skipping")
	}
	return false, nil
}

// ParseClockValue reads "9", "09:30", "9am" or "5:30pm" as minutes after midnight.
// Without am/pm the hour is taken as 24-hour.
func ParseClockValue(value string) (int, error) {
	m := clockValuePattern.FindStringSubmatch(strings.ToLower(strings.TrimSpace(value)))
	if m == nil {
		return 0, fmt.Errorf("invalid time value %q", value)
	}
	hours, _ := strconv.Atoi(m[1])
	minutes := 0
	if m[2] != "" {
		minutes, _ = strconv.Atoi(m[2])
	}
	switch m[3] {
	case "am":
		if hours < 1 || hours > 12 {
			return 0, fmt.Errorf("invalid time value %q", value)
		}
		if hours == 12 {
			hours = 0
		}
	case "pm":
		if hours < 1 || hours > 12 {
			return 0, fmt.Errorf("invalid time value %q", value)
		}
		if hours != 12 {
			hours += 12
		}
	}
	if hours > 23 || minutes > 59 {
		return 0, fmt.Errorf("invalid time value %q", value)
	}
	return hours*60 + minutes, nil
}

// ParseDays reads a comma list of day names, 0-6 indices, "weekend" or "weekdays".
func ParseDays(value string) (map[time.Weekday]bool, error) {
	days := make(map[time.Weekday]bool)
	for _, item := range splitList(value) {
		switch item {
		case "":
			continue
		case "weekend", "weekends":
			days[time.Saturday] = true
			days[time.Sunday] = true
			continue
		case "weekday", "weekdays":
			for d := time.Monday; d <= time.Friday; d++ {
				days[d] = true
			}
			continue
		}
		if d, ok := dayNames[strings.TrimSuffix(item, "s")]; ok {
			days[d] = true
			continue
		}
		if d, ok := dayNames[item]; ok {
			days[d] = true
			continue
		}
		if n, err := strconv.Atoi(item); err == nil && n >= 0 && n <= 6 {
			days[time.Weekday(n)] = true
			continue
		}
		return nil, fmt.Errorf("invalid day value %q", item)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("empty day value")
	}
	return days, nil
}

func parsePositiveInt(value string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid number %q", value)
	}
	return n, nil
}

func splitList(value string) []string {
	parts := strings.Split(strings.ToLower(value), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
