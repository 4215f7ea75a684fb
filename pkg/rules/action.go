package rules

import (
	"ScheduleSync/internal/entity"
	"fmt"
	"strings"
	"time"
)

func (e *Engine) apply(rule entity.SchedulingRule, result *Result) error {
	value := strings.TrimSpace(rule.ActionValue)
	b := &result.ModifiedData

	switch rule.ActionType {
	case entity.ActionSetDuration:
		n, err := parsePositiveInt(value)
		if err != nil {
			return err
		}
		b.Duration = n
		b.EndTime = b.StartTime.Add(time.Duration(n) * time.Minute)

	case entity.ActionAutoApprove:
		result.AutoApproved = true
		if truthy(value) {
			b.Status = entity.BookingStatusConfirmed
		}

	case entity.ActionBlock:
		result.Blocked = true
		result.BlockReason = value
		if result.BlockReason == "" {
			result.BlockReason = fmt.Sprintf("Blocked by scheduling rule %q", rule.Name)
		}

	case entity.ActionSetPriority:
		if value == "" {
			return fmt.Errorf("empty priority")
		}
		b.Priority = strings.ToLower(value)

	case entity.ActionSetLocation:
		if value == "" {
			return fmt.Errorf("empty location")
		}
		b.Location = value

	case entity.ActionSetBuffer:
		n, err := parsePositiveInt(value)
		if err != nil {
			return err
		}
		b.BufferMinutes = n

	case entity.ActionAddNote:
		if value == "" {
			return nil
		}
		if b.Notes == "" {
			b.Notes = value
		} else {
			b.Notes = b.Notes + "\n" + value
		}

	case entity.ActionSetTitlePrefix:
		if value == "" {
			return nil
		}
		if !strings.HasPrefix(b.Title, value) {
			b.Title = strings.TrimSpace(value + " " + b.Title)
		}

	case entity.ActionRequireApproval:
		b.Status = entity.BookingStatusPending

	case entity.ActionSendNotification:
		if value == "" {
			return fmt.Errorf("empty notification address")
		}
		b.NotifyEmail = value

	default:
		if e.log != nil {
			e.log.WithField("action_type", rule.ActionType).Warn("Unknown rule action, ignoring")
		}
	}

	return nil
}

func truthy(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "false", "0", "no", "off":
		return false
	}
	return true
}
