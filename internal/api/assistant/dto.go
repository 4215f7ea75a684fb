package assistant

import (
	"ScheduleSync/internal/entity"
	"ScheduleSync/pkg/nlp"
	chatGPT "ScheduleSync/pkg/openai"
	ruleEngine "ScheduleSync/pkg/rules"
	"ScheduleSync/pkg/slots"
	"time"
)

// Response types the client switches on. Intent tags are passed through as-is for
// informational replies; the ones below carry a follow-up step.
const (
	TypeClarification     = "clarification"
	TypeConfirmCancel     = "confirm_cancel"
	TypeConfirmReschedule = "confirm_reschedule"
	TypeConfirmBooking    = "confirm_booking"
	TypeSelectMeeting     = "select_meeting"
	TypeTemplateChoice    = "template_choice"
	TypeSuccess           = "success"
	TypeInfo              = "info"
	TypeBlocked           = "blocked"
	TypeNotFound          = "not_found"
)

type ScheduleRequest struct {
	Message string                        `json:"message" validate:"required,max=2000"`
	History []chatGPT.ConversationMessage `json:"history" validate:"max=50"`
}

type ScheduleResponse struct {
	Type    string      `json:"type"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ConfirmBookingRequest struct {
	Title         string    `json:"title" validate:"max=255"`
	StartTime     time.Time `json:"start_time" validate:"required"`
	EndTime       time.Time `json:"end_time"`
	AttendeeEmail string    `json:"attendee_email" validate:"required,email"`
	AttendeeName  string    `json:"attendee_name" validate:"max=255"`
	Notes         string    `json:"notes" validate:"max=5000"`
	Duration      int       `json:"duration" validate:"min=0,max=1440"`
	TeamID        string    `json:"team_id"`
}

type ConfirmBookingResponse struct {
	Success      bool                     `json:"success"`
	Booking      entity.Booking           `json:"booking"`
	AppliedRules []ruleEngine.AppliedRule `json:"appliedRules,omitempty"`
	AutoApproved bool                     `json:"autoApproved,omitempty"`
}

type SuggestResponse struct {
	Suggestions []string `json:"suggestions"`
}

// BookingPreview is what a confirm_booking reply hands back for the client to post to /schedule/confirm.
type BookingPreview struct {
	Title         string    `json:"title"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	AttendeeEmail string    `json:"attendee_email"`
	AttendeeName  string    `json:"attendee_name"`
	Notes         string    `json:"notes,omitempty"`
	Duration      int       `json:"duration"`
	MeetingType   string    `json:"meeting_type,omitempty"`
	TemplateID    string    `json:"template_id,omitempty"`
}

type MeetingSummary struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	AttendeeName  string    `json:"attendee_name"`
	AttendeeEmail string    `json:"attendee_email"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Status        string    `json:"status"`
}

type AvailabilityData struct {
	Date  string       `json:"date"`
	Slots []slots.Slot `json:"slots"`
}

type AnalyticsData struct {
	Total         int `json:"total"`
	Upcoming      int `json:"upcoming"`
	ThisWeek      int `json:"this_week"`
	Cancelled     int `json:"cancelled"`
	AIQueriesUsed int `json:"ai_queries_used"`
	AIQueryLimit  int `json:"ai_query_limit"`
}

type LinkData struct {
	URL   string `json:"url"`
	Title string `json:"title,omitempty"`
}

type PlanData struct {
	Tier          string `json:"tier"`
	AIQueriesUsed int    `json:"ai_queries_used"`
	AIQueryLimit  int    `json:"ai_query_limit"`
}

// Pending action payloads, stored as JSON in ai_pending_actions.action_data.

type CancelPayload struct {
	Booking MeetingSummary `json:"booking"`
}

type ReschedulePayload struct {
	Booking  MeetingSummary `json:"booking"`
	NewStart time.Time      `json:"new_start"`
	NewEnd   time.Time      `json:"new_end"`
}

type SelectMeetingPayload struct {
	Action     entity.PendingActionType `json:"action"`
	Candidates []MeetingSummary         `json:"candidates"`
	// Set when Action is reschedule. A missing part keeps the chosen meeting's own date or time.
	NewDate *nlp.ParsedDate `json:"new_date,omitempty"`
	NewTime *nlp.ParsedTime `json:"new_time,omitempty"`
}

type TemplateOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type TemplateChoicePayload struct {
	Booking   BookingPreview   `json:"booking"`
	Templates []TemplateOption `json:"templates"`
}
