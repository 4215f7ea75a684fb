package rules

import (
	"ScheduleSync/internal/entity"
	"time"
)

type CreateRuleRequest struct {
	Name         string `json:"name" validate:"required,max=255"`
	TriggerType  string `json:"trigger_type" validate:"required,oneof=domain keyword email time_before time_after day_of_week duration_greater duration_less all"`
	TriggerValue string `json:"trigger_value" validate:"max=1000"`
	ActionType   string `json:"action_type" validate:"required,oneof=set_duration auto_approve block set_priority set_location set_buffer add_note set_title_prefix require_approval send_notification"`
	ActionValue  string `json:"action_value" validate:"max=1000"`
	IsActive     *bool  `json:"is_active,omitempty"`
	Priority     int    `json:"priority" validate:"min=-1000,max=1000"`
}

type UpdateRuleRequest struct {
	Name         *string `json:"name,omitempty" validate:"omitempty,max=255"`
	TriggerType  *string `json:"trigger_type,omitempty" validate:"omitempty,oneof=domain keyword email time_before time_after day_of_week duration_greater duration_less all"`
	TriggerValue *string `json:"trigger_value,omitempty" validate:"omitempty,max=1000"`
	ActionType   *string `json:"action_type,omitempty" validate:"omitempty,oneof=set_duration auto_approve block set_priority set_location set_buffer add_note set_title_prefix require_approval send_notification"`
	ActionValue  *string `json:"action_value,omitempty" validate:"omitempty,max=1000"`
	IsActive     *bool   `json:"is_active,omitempty"`
	Priority     *int    `json:"priority,omitempty" validate:"omitempty,min=-1000,max=1000"`
}

// TestRulesRequest is a dry-run booking; nothing is persisted.
type TestRulesRequest struct {
	AttendeeEmail string    `json:"attendee_email" validate:"required,email"`
	AttendeeName  string    `json:"attendee_name"`
	Title         string    `json:"title"`
	Notes         string    `json:"notes"`
	StartTime     time.Time `json:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time"`
	Duration      int       `json:"duration" validate:"min=0,max=1440"`
}

func (r TestRulesRequest) Candidate(userID string) entity.BookingCandidate {
	end := r.EndTime
	duration := r.Duration
	if duration <= 0 && !end.IsZero() {
		duration = int(end.Sub(r.StartTime).Minutes())
	}
	if duration <= 0 {
		duration = 30
	}
	if end.IsZero() || !end.After(r.StartTime) {
		end = r.StartTime.Add(time.Duration(duration) * time.Minute)
	}
	return entity.BookingCandidate{
		AttendeeName:  r.AttendeeName,
		AttendeeEmail: r.AttendeeEmail,
		StartTime:     r.StartTime,
		EndTime:       end,
		UserID:        userID,
		Title:         r.Title,
		Notes:         r.Notes,
		Duration:      duration,
		Status:        entity.BookingStatusConfirmed,
	}
}

type RuleResponse struct {
	entity.SchedulingRule
	Description string `json:"description"`
}

type ListRulesResponse struct {
	Rules []RuleResponse `json:"rules"`
}

type CheckBlockResponse struct {
	Email   string `json:"email"`
	Blocked bool   `json:"blocked"`
}
