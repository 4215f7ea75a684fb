package nlp

import (
	"regexp"
	"strconv"
	"time"
)

var (
	meridiemTimePattern = regexp.MustCompile(`\b(\d{1,2})(?::(\d{2}))?\s*(am|pm)\b`)
	atTimePattern       = regexp.MustCompile(`\b(?:at|around|by)\s+(\d{1,2})(?::(\d{2}))?(?:\s|$|[.,!?;])`)
	clockTimePattern    = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\b`)
	noonPattern         = regexp.MustCompile(`\b(noon|midday|lunchtime)\b`)
	morningPattern      = regexp.MustCompile(`\bmorning\b`)
	afternoonPattern    = regexp.MustCompile(`\bafternoon\b`)
	eveningPattern      = regexp.MustCompile(`\bevening\b`)
)

// ParseNaturalTime resolves the first time-of-day expression in text, or nil.
// Bare hours below 8 without am/pm are read as afternoon hours.
func (p *Parser) ParseNaturalTime(text string) *ParsedTime {
	lower := Normalize(text)

	if m := meridiemTimePattern.FindStringSubmatch(lower); m != nil {
		hours, _ := strconv.Atoi(m[1])
		minutes := atoiOrZero(m[2])
		if hours >= 1 && hours <= 12 && minutes < 60 {
			if m[3] == "pm" && hours != 12 {
				hours += 12
			}
			if m[3] == "am" && hours == 12 {
				hours = 0
			}
			return newParsedTime(hours, minutes)
		}
	}

	if m := atTimePattern.FindStringSubmatch(lower); m != nil {
		if t := bareTime(m[1], m[2]); t != nil {
			return t
		}
	}

	if m := clockTimePattern.FindStringSubmatch(lower); m != nil {
		if t := bareTime(m[1], m[2]); t != nil {
			return t
		}
	}

	switch {
	case noonPattern.MatchString(lower):
		return newParsedTime(12, 0)
	case morningPattern.MatchString(lower):
		return newParsedTime(9, 0)
	case afternoonPattern.MatchString(lower):
		return newParsedTime(14, 0)
	case eveningPattern.MatchString(lower):
		return newParsedTime(17, 0)
	}

	return nil
}

func bareTime(hourStr, minuteStr string) *ParsedTime {
	hours, err := strconv.Atoi(hourStr)
	if err != nil {
		return nil
	}
	minutes := atoiOrZero(minuteStr)
	if hours > 23 || minutes > 59 {
		return nil
	}
	if hours >= 1 && hours < 8 {
		hours += 12
	}
	return newParsedTime(hours, minutes)
}

func atoiOrZero(s string) int {
	if s == "" {
		return 0
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

func newParsedTime(hours, minutes int) *ParsedTime {
	clock := time.Date(2000, time.January, 1, hours, minutes, 0, 0, time.UTC)
	return &ParsedTime{Hours: hours, Minutes: minutes, TimeStr: clock.Format("3:04 PM")}
}
