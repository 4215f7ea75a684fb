package entity

import "time"

type TriggerType string

const (
	TriggerDomain          TriggerType = "domain"
	TriggerKeyword         TriggerType = "keyword"
	TriggerEmail           TriggerType = "email"
	TriggerTimeBefore      TriggerType = "time_before"
	TriggerTimeAfter       TriggerType = "time_after"
	TriggerDayOfWeek       TriggerType = "day_of_week"
	TriggerDurationGreater TriggerType = "duration_greater"
	TriggerDurationLess    TriggerType = "duration_less"
	TriggerAll             TriggerType = "all"
)

func (t TriggerType) IsValid() bool {
	switch t {
	case TriggerDomain, TriggerKeyword, TriggerEmail, TriggerTimeBefore, TriggerTimeAfter,
		TriggerDayOfWeek, TriggerDurationGreater, TriggerDurationLess, TriggerAll:
		return true
	default:
		return false
	}
}

type ActionType string

const (
	ActionSetDuration      ActionType = "set_duration"
	ActionAutoApprove      ActionType = "auto_approve"
	ActionBlock            ActionType = "block"
	ActionSetPriority      ActionType = "set_priority"
	ActionSetLocation      ActionType = "set_location"
	ActionSetBuffer        ActionType = "set_buffer"
	ActionAddNote          ActionType = "add_note"
	ActionSetTitlePrefix   ActionType = "set_title_prefix"
	ActionRequireApproval  ActionType = "require_approval"
	ActionSendNotification ActionType = "send_notification"
)

func (a ActionType) IsValid() bool {
	switch a {
	case ActionSetDuration, ActionAutoApprove, ActionBlock, ActionSetPriority, ActionSetLocation,
		ActionSetBuffer, ActionAddNote, ActionSetTitlePrefix, ActionRequireApproval, ActionSendNotification:
		return true
	default:
		return false
	}
}

type SchedulingRule struct {
	ID           string      `json:"id"`
	UserID       string      `json:"user_id"`
	Name         string      `json:"name"`
	TriggerType  TriggerType `json:"trigger_type"`
	TriggerValue string      `json:"trigger_value"`
	ActionType   ActionType  `json:"action_type"`
	ActionValue  string      `json:"action_value"`
	IsActive     bool        `json:"is_active"`
	Priority     int         `json:"priority"`
	CreatedAt    time.Time   `json:"created_at"`
}
