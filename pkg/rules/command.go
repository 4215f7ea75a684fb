package rules

import (
	"ScheduleSync/internal/entity"
	"ScheduleSync/pkg/nlp"
	"regexp"
	"strconv"
	"strings"
)

// Draft is a rule parsed from a chat message, not yet persisted.
type Draft struct {
	Name         string             `json:"name"`
	TriggerType  entity.TriggerType `json:"trigger_type"`
	TriggerValue string             `json:"trigger_value"`
	ActionType   entity.ActionType  `json:"action_type"`
	ActionValue  string             `json:"action_value"`
	Priority     int                `json:"priority"`
}

const (
	subjectPattern = `(@?[a-z0-9._%+\-]*@?[a-z0-9.\-]+\.[a-z]{2,})`
	meetingWords   = `(?:meetings?|bookings?|calls?|appointments?)`
	clockPattern   = `(\d{1,2}(?::\d{2})?\s*(?:am|pm)?)`
)

var (
	explicitRulePattern = regexp.MustCompile(`(?:create|add|make|new)\s+(?:a\s+)?(?:new\s+)?(?:scheduling\s+)?rule:?\s+([a-z_]+)\s*[=:]\s*(.+?)\s*(?:->|=>|\bthen\b)\s*([a-z_]+)(?:\s*[=:]\s*(.+))?$`)

	blockSubjectPattern    = regexp.MustCompile(`\b(?:block|blacklist)\b(?:\s+(?:all\s+)?` + meetingWords + `)?(?:\s+(?:from|with))?\s+` + subjectPattern)
	neverAllowPattern      = regexp.MustCompile(`\b(?:don't|do not|never)\s+(?:allow|accept|book)\b.*\b(?:from|with)\s+` + subjectPattern)
	noBeforePattern        = regexp.MustCompile(`\bno\s+` + meetingWords + `\s+before\s+` + clockPattern)
	noAfterPattern         = regexp.MustCompile(`\bno\s+` + meetingWords + `\s+after\s+` + clockPattern)
	noOnDaysPattern        = regexp.MustCompile(`\bno\s+` + meetingWords + `\s+on\s+([a-z, ]+)`)
	blockKeywordPattern    = regexp.MustCompile(`\bblock\b.*\b(?:mentioning|containing|about)\s+"?([a-z0-9\-]+)"?`)
	autoApprovePattern     = regexp.MustCompile(`\bauto[- ]?approve\b(?:\s+(?:all\s+)?` + meetingWords + `)?\s+(?:from|with)\s+` + subjectPattern)
	autoApproveAllPattern  = regexp.MustCompile(`\bauto[- ]?approve\s+(?:all|every)\b`)
	approvalSubjectPattern = regexp.MustCompile(`\brequire\s+(?:manual\s+)?approval\s+for\s+(?:all\s+)?` + meetingWords + `\s+(?:from|with)\s+` + subjectPattern)
	approvalLongerPattern  = regexp.MustCompile(`\brequire\s+(?:manual\s+)?approval\s+for\s+(?:all\s+)?` + meetingWords + `\s+(longer|shorter)\s+than\s+(\d+)\s*(?:minutes|mins|min|hours|hour)?`)
	setDurationPattern     = regexp.MustCompile(`\b(?:make|set)\s+(?:all\s+)?` + meetingWords + `\s+(?:from|with)\s+` + subjectPattern + `\s+(?:to\s+)?(\d{1,3})\s*(?:minutes|mins|min)\b`)
	keywordPriorityPattern = regexp.MustCompile(`\b(?:mark|set|make)\s+(?:all\s+)?` + meetingWords + `\s+(?:mentioning|containing|about)\s+"?([a-z0-9\-]+)"?\s+(?:as\s+)?(high|medium|low|urgent)\s+priority`)
	locationPattern        = regexp.MustCompile(`\b(?:set|use)\s+(?:the\s+)?location\s+(?:to\s+)?(.+?)\s+for\s+(?:all\s+)?` + meetingWords + `(?:\s+(?:from|with)\s+` + subjectPattern + `)?`)
	prefixPattern          = regexp.MustCompile(`\bprefix\s+(?:all\s+)?(?:meeting\s+)?titles?\s+with\s+"?([^"]+?)"?$`)
	bufferPattern          = regexp.MustCompile(`\badd\s+(?:a\s+)?(\d{1,3})\s*(?:-\s*)?(?:minutes|minute|mins|min)\s+buffer\b`)
	notePattern            = regexp.MustCompile(`\badd\s+(?:the\s+)?note\s+"([^"]+)"`)
)

// ParseRuleCommand turns a chat message into a rule draft. It understands the explicit
// "create rule <trigger>=<value> -> <action>=<value>" form and a set of plain phrasings.
func ParseRuleCommand(message string) (Draft, bool) {
	text := nlp.Normalize(message)

	if m := explicitRulePattern.FindStringSubmatch(text); m != nil {
		trigger, action := entity.TriggerType(m[1]), entity.ActionType(m[3])
		if trigger.IsValid() && action.IsValid() {
			d := Draft{
				TriggerType:  trigger,
				TriggerValue: strings.Trim(m[2], `"' `),
				ActionType:   action,
				ActionValue:  strings.Trim(m[4], `"' `),
			}
			d.Name = defaultName(d)
			return d, true
		}
	}

	for _, parse := range naturalParsers {
		if d, ok := parse(text); ok {
			if d.Name == "" {
				d.Name = defaultName(d)
			}
			return d, true
		}
	}
	return Draft{}, false
}

var naturalParsers = []func(string) (Draft, bool){
	func(t string) (Draft, bool) {
		m := noBeforePattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		value := strings.ReplaceAll(m[1], " ", "")
		return Draft{
			TriggerType: entity.TriggerTimeBefore, TriggerValue: value,
			ActionType: entity.ActionBlock, ActionValue: "No meetings before " + value, Priority: 10,
		}, true
	},
	func(t string) (Draft, bool) {
		m := noAfterPattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		value := strings.ReplaceAll(m[1], " ", "")
		return Draft{
			TriggerType: entity.TriggerTimeAfter, TriggerValue: value,
			ActionType: entity.ActionBlock, ActionValue: "No meetings after " + value, Priority: 10,
		}, true
	},
	func(t string) (Draft, bool) {
		m := noOnDaysPattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		value := daysValue(m[1])
		if _, err := ParseDays(value); err != nil {
			return Draft{}, false
		}
		return Draft{
			TriggerType: entity.TriggerDayOfWeek, TriggerValue: value,
			ActionType: entity.ActionBlock, ActionValue: "No meetings on " + value, Priority: 10,
		}, true
	},
	func(t string) (Draft, bool) {
		m := blockSubjectPattern.FindStringSubmatch(t)
		if m == nil {
			m = neverAllowPattern.FindStringSubmatch(t)
		}
		if m == nil {
			return Draft{}, false
		}
		trigger, value := subject(m[1])
		return Draft{TriggerType: trigger, TriggerValue: value, ActionType: entity.ActionBlock, Priority: 10}, true
	},
	func(t string) (Draft, bool) {
		m := blockKeywordPattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		return Draft{TriggerType: entity.TriggerKeyword, TriggerValue: m[1], ActionType: entity.ActionBlock, Priority: 10}, true
	},
	func(t string) (Draft, bool) {
		if m := autoApprovePattern.FindStringSubmatch(t); m != nil {
			trigger, value := subject(m[1])
			return Draft{TriggerType: trigger, TriggerValue: value, ActionType: entity.ActionAutoApprove, ActionValue: "true"}, true
		}
		if autoApproveAllPattern.MatchString(t) {
			return Draft{TriggerType: entity.TriggerAll, ActionType: entity.ActionAutoApprove, ActionValue: "true"}, true
		}
		return Draft{}, false
	},
	func(t string) (Draft, bool) {
		if m := approvalLongerPattern.FindStringSubmatch(t); m != nil {
			trigger := entity.TriggerDurationGreater
			if m[1] == "shorter" {
				trigger = entity.TriggerDurationLess
			}
			value := m[2]
			if strings.Contains(m[0], "hour") {
				value = multiplyHours(m[2])
			}
			return Draft{TriggerType: trigger, TriggerValue: value, ActionType: entity.ActionRequireApproval}, true
		}
		if m := approvalSubjectPattern.FindStringSubmatch(t); m != nil {
			trigger, value := subject(m[1])
			return Draft{TriggerType: trigger, TriggerValue: value, ActionType: entity.ActionRequireApproval}, true
		}
		return Draft{}, false
	},
	func(t string) (Draft, bool) {
		m := setDurationPattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		trigger, value := subject(m[1])
		return Draft{TriggerType: trigger, TriggerValue: value, ActionType: entity.ActionSetDuration, ActionValue: m[2]}, true
	},
	func(t string) (Draft, bool) {
		m := keywordPriorityPattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		return Draft{TriggerType: entity.TriggerKeyword, TriggerValue: m[1], ActionType: entity.ActionSetPriority, ActionValue: m[2]}, true
	},
	func(t string) (Draft, bool) {
		m := locationPattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		d := Draft{TriggerType: entity.TriggerAll, ActionType: entity.ActionSetLocation, ActionValue: m[1]}
		if m[2] != "" {
			d.TriggerType, d.TriggerValue = subject(m[2])
		}
		return d, true
	},
	func(t string) (Draft, bool) {
		m := prefixPattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		return Draft{TriggerType: entity.TriggerAll, ActionType: entity.ActionSetTitlePrefix, ActionValue: m[1]}, true
	},
	func(t string) (Draft, bool) {
		m := bufferPattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		return Draft{TriggerType: entity.TriggerAll, ActionType: entity.ActionSetBuffer, ActionValue: m[1]}, true
	},
	func(t string) (Draft, bool) {
		m := notePattern.FindStringSubmatch(t)
		if m == nil {
			return Draft{}, false
		}
		return Draft{TriggerType: entity.TriggerAll, ActionType: entity.ActionAddNote, ActionValue: m[1]}, true
	},
}

// subject decides whether "acme.com", "@acme.com" or "bob@acme.com" is a domain or an email trigger.
func subject(value string) (entity.TriggerType, string) {
	value = strings.TrimRight(value, ".")
	if at := strings.Index(value, "@"); at > 0 {
		return entity.TriggerEmail, value
	}
	return entity.TriggerDomain, strings.TrimPrefix(value, "@")
}

func daysValue(raw string) string {
	raw = strings.ReplaceAll(raw, " and ", ",")
	raw = strings.ReplaceAll(raw, " or ", ",")
	var days []string
	for _, part := range strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == ' ' }) {
		if part == "" {
			continue
		}
		days = append(days, part)
	}
	return strings.Join(days, ",")
}

func multiplyHours(n string) string {
	hours, _ := strconv.Atoi(n)
	return strconv.Itoa(hours * 60)
}

func defaultName(d Draft) string {
	return truncate(Describe(entity.SchedulingRule{
		TriggerType:  d.TriggerType,
		TriggerValue: d.TriggerValue,
		ActionType:   d.ActionType,
		ActionValue:  d.ActionValue,
	}), 80)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return strings.TrimSpace(s[:n-3]) + "..."
}
