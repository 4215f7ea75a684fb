package rules

import (
	"ScheduleSync/internal/entity"
	"fmt"
	"strings"
)

// Describe renders a rule as a sentence, e.g. "When the attendee's domain is acme.com, set the duration to 45 minutes".
func Describe(rule entity.SchedulingRule) string {
	return fmt.Sprintf("%s, %s", describeTrigger(rule.TriggerType, rule.TriggerValue), describeAction(rule.ActionType, rule.ActionValue))
}

func describeTrigger(t entity.TriggerType, value string) string {
	switch t {
	case entity.TriggerAll:
		return "For every booking"
	case entity.TriggerDomain:
		return fmt.Sprintf("When the attendee's domain is %s", value)
	case entity.TriggerEmail:
		return fmt.Sprintf("When the attendee is %s", value)
	case entity.TriggerKeyword:
		return fmt.Sprintf("When the booking mentions %q", value)
	case entity.TriggerTimeBefore:
		return fmt.Sprintf("When the meeting starts before %s", value)
	case entity.TriggerTimeAfter:
		return fmt.Sprintf("When the meeting starts at or after %s", value)
	case entity.TriggerDayOfWeek:
		return fmt.Sprintf("When the meeting falls on %s", value)
	case entity.TriggerDurationGreater:
		return fmt.Sprintf("When the meeting is longer than %s minutes", value)
	case entity.TriggerDurationLess:
		return fmt.Sprintf("When the meeting is shorter than %s minutes", value)
	}
	return fmt.Sprintf("When %s is %s", t, value)
}

func describeAction(a entity.ActionType, value string) string {
	switch a {
	case entity.ActionSetDuration:
		return fmt.Sprintf("set the duration to %s minutes", value)
	case entity.ActionAutoApprove:
		return "approve it automatically"
	case entity.ActionBlock:
		if value != "" {
			return fmt.Sprintf("block it (%s)", value)
		}
		return "block it"
	case entity.ActionSetPriority:
		return fmt.Sprintf("mark it %s priority", strings.ToLower(value))
	case entity.ActionSetLocation:
		return fmt.Sprintf("set the location to %s", value)
	case entity.ActionSetBuffer:
		return fmt.Sprintf("keep a %s minute buffer", value)
	case entity.ActionAddNote:
		return fmt.Sprintf("add the note %q", value)
	case entity.ActionSetTitlePrefix:
		return fmt.Sprintf("prefix the title with %q", value)
	case entity.ActionRequireApproval:
		return "hold it for manual approval"
	case entity.ActionSendNotification:
		return fmt.Sprintf("notify %s", value)
	}
	return fmt.Sprintf("%s %s", a, value)
}

// Help lists the trigger and action vocabulary for the explain_rules reply.
func Help() string {
	var b strings.Builder
	b.WriteString("Scheduling rules run on every new booking, highest priority first. ")
	b.WriteString("Each rule pairs a trigger with an action, and a block stops all later rules.\n\n")
	b.WriteString("Triggers: domain, email, keyword, time_before, time_after, day_of_week, duration_greater, duration_less, all.\n")
	b.WriteString("Actions: set_duration, auto_approve, block, set_priority, set_location, set_buffer, add_note, set_title_prefix, require_approval, send_notification.\n\n")
	b.WriteString("Try: \"block meetings from competitor.com\", \"no meetings before 9am\", \"auto-approve meetings from acme.com\" ")
	b.WriteString("or \"create rule domain=acme.com -> set_duration=45\".")
	return b.String()
}
