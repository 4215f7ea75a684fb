package entity

import "time"

type PendingActionType string

const (
	PendingActionCancel         PendingActionType = "cancel"
	PendingActionReschedule     PendingActionType = "reschedule"
	PendingActionSelectMeeting  PendingActionType = "select_meeting"
	PendingActionTemplateChoice PendingActionType = "template_choice"
)

// PendingAIAction holds one unresolved conversational step; at most one row per (UserID, ActionType).
type PendingAIAction struct {
	UserID     string            `json:"user_id"`
	ActionType PendingActionType `json:"action_type"`
	ActionData []byte            `json:"action_data"`
	ExpiresAt  time.Time         `json:"expires_at"`
	CreatedAt  time.Time         `json:"created_at"`
}
