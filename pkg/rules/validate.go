package rules

import (
	"ScheduleSync/internal/entity"
	"fmt"
	"strings"
)

// Validate reports trigger and action values the engine cannot evaluate.
func Validate(rule entity.SchedulingRule) error {
	if !rule.TriggerType.IsValid() {
		return fmt.Errorf("unknown trigger type %q", rule.TriggerType)
	}
	if !rule.ActionType.IsValid() {
		return fmt.Errorf("unknown action type %q", rule.ActionType)
	}

	tv := strings.TrimSpace(rule.TriggerValue)
	switch rule.TriggerType {
	case entity.TriggerDomain, entity.TriggerEmail, entity.TriggerKeyword:
		if tv == "" {
			return fmt.Errorf("%s trigger needs a value", rule.TriggerType)
		}
	case entity.TriggerTimeBefore, entity.TriggerTimeAfter:
		if _, err := ParseClockValue(tv); err != nil {
			return err
		}
	case entity.TriggerDayOfWeek:
		if _, err := ParseDays(tv); err != nil {
			return err
		}
	case entity.TriggerDurationGreater, entity.TriggerDurationLess:
		if _, err := parsePositiveInt(tv); err != nil {
			return err
		}
	}

	av := strings.TrimSpace(rule.ActionValue)
	switch rule.ActionType {
	case entity.ActionSetDuration, entity.ActionSetBuffer:
		if _, err := parsePositiveInt(av); err != nil {
			return err
		}
	case entity.ActionSetPriority, entity.ActionSetLocation, entity.ActionSetTitlePrefix, entity.ActionSendNotification:
		if av == "" {
			return fmt.Errorf("%s action needs a value", rule.ActionType)
		}
	}

	return nil
}
