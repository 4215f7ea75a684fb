package nlp

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

const dateLayout = "Monday, January 2"

var (
	dayAfterTomorrowPattern = regexp.MustCompile(`\bday after tomorrow\b`)
	todayPattern            = regexp.MustCompile(`\b(today|tonight)\b`)
	tomorrowPattern         = regexp.MustCompile(`\b(tomorrow|tmrw|tmr)\b`)
	relativeOffsetPattern   = regexp.MustCompile(`\bin\s+(\d{1,3}|a|an|one|two|three|four|five|six|seven)\s+(days?|weeks?)\b`)
	nextWeekPattern         = regexp.MustCompile(`\bnext week\b`)
	endOfWeekPattern        = regexp.MustCompile(`\b(end of (the )?week|end of this week)\b`)
	weekdayPattern          = regexp.MustCompile(`\b(?:(next|this|coming)\s+)?(sunday|monday|tuesday|wednesday|thursday|friday|saturday)\b`)
	monthDayPattern         = regexp.MustCompile(`\b(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b(?:,?\s+(\d{4})\b)?`)
	dayMonthPattern         = regexp.MustCompile(`\b(\d{1,2})(?:st|nd|rd|th)?\s+(?:of\s+)?(january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept|sep|oct|nov|dec)\b(?:,?\s+(\d{4})\b)?`)
	slashDatePattern        = regexp.MustCompile(`\b(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?\b`)
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

var months = map[string]time.Month{
	"jan": time.January, "january": time.January,
	"feb": time.February, "february": time.February,
	"mar": time.March, "march": time.March,
	"apr": time.April, "april": time.April,
	"may": time.May,
	"jun": time.June, "june": time.June,
	"jul": time.July, "july": time.July,
	"aug": time.August, "august": time.August,
	"sep": time.September, "sept": time.September, "september": time.September,
	"oct": time.October, "october": time.October,
	"nov": time.November, "november": time.November,
	"dec": time.December, "december": time.December,
}

var smallNumbers = map[string]int{
	"a": 1, "an": 1, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5, "six": 6, "seven": 7,
}

// ParseNaturalDate resolves the first date expression in text, or nil when none is found.
// Resolution order: literal keywords, "in N days/weeks", "next week", "end of week",
// weekday names, month name with day, then M/D[/Y].
func (p *Parser) ParseNaturalDate(text string) *ParsedDate {
	lower := Normalize(text)
	today := p.today()

	switch {
	case dayAfterTomorrowPattern.MatchString(lower):
		return newParsedDate(today.AddDate(0, 0, 2))
	case todayPattern.MatchString(lower):
		return newParsedDate(today)
	case tomorrowPattern.MatchString(lower):
		return newParsedDate(today.AddDate(0, 0, 1))
	}

	if m := relativeOffsetPattern.FindStringSubmatch(lower); m != nil {
		n, ok := smallNumbers[m[1]]
		if !ok {
			n, _ = strconv.Atoi(m[1])
		}
		if strings.HasPrefix(m[2], "week") {
			n *= 7
		}
		return newParsedDate(today.AddDate(0, 0, n))
	}

	if nextWeekPattern.MatchString(lower) {
		return newParsedDate(today.AddDate(0, 0, daysUntil(today.Weekday(), time.Monday)))
	}

	if endOfWeekPattern.MatchString(lower) {
		return newParsedDate(today.AddDate(0, 0, daysUntil(today.Weekday(), time.Friday)))
	}

	if m := weekdayPattern.FindStringSubmatch(lower); m != nil {
		target := weekdays[m[2]]
		diff := (int(target) - int(today.Weekday()) + 7) % 7
		switch m[1] {
		case "this":
		case "next":
			if diff == 0 {
				diff = 7
			}
			diff += 7
		default:
			if diff == 0 {
				diff = 7
			}
		}
		return newParsedDate(today.AddDate(0, 0, diff))
	}

	if m := monthDayPattern.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[2])
		if d := p.calendarDate(today, months[m[1]], day, m[3]); d != nil {
			return d
		}
	}

	if m := dayMonthPattern.FindStringSubmatch(lower); m != nil {
		day, _ := strconv.Atoi(m[1])
		if d := p.calendarDate(today, months[m[2]], day, m[3]); d != nil {
			return d
		}
	}

	if m := slashDatePattern.FindStringSubmatch(lower); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			if d := p.calendarDate(today, time.Month(month), day, m[3]); d != nil {
				return d
			}
		}
	}

	return nil
}

// calendarDate builds an absolute date; without an explicit year a past date rolls to next year.
func (p *Parser) calendarDate(today time.Time, month time.Month, day int, yearStr string) *ParsedDate {
	year := today.Year()
	explicitYear := yearStr != ""
	if explicitYear {
		y, err := strconv.Atoi(yearStr)
		if err != nil {
			return nil
		}
		if y < 100 {
			y += 2000
		}
		year = y
	}

	date, ok := validDate(year, month, day, today.Location())
	if !ok {
		return nil
	}
	if !explicitYear && date.Before(today) {
		date, ok = validDate(year+1, month, day, today.Location())
		if !ok {
			return nil
		}
	}
	return newParsedDate(date)
}

func validDate(year int, month time.Month, day int, loc *time.Location) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	date := time.Date(year, month, day, 0, 0, 0, 0, loc)
	if date.Month() != month || date.Day() != day {
		return time.Time{}, false
	}
	return date, true
}

// daysUntil counts days to the next occurrence of target, never 0.
func daysUntil(from, target time.Weekday) int {
	diff := (int(target) - int(from) + 7) % 7
	if diff == 0 {
		diff = 7
	}
	return diff
}

func newParsedDate(date time.Time) *ParsedDate {
	return &ParsedDate{Date: date, DateStr: date.Format(dateLayout)}
}
