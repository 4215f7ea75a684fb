package nlp

import "time"

type Intent string

const (
	IntentCancel            Intent = "cancel"
	IntentReschedule        Intent = "reschedule"
	IntentCheckAvailability Intent = "check_availability"
	IntentFindMeetings      Intent = "find_meetings"
	IntentAnalytics         Intent = "analytics"
	IntentShowRules         Intent = "show_rules"
	IntentCreateRule        Intent = "create_rule"
	IntentExplainRules      Intent = "explain_rules"
	IntentGetLink           Intent = "get_link"
	IntentUpcoming          Intent = "upcoming"
	IntentCreateQuickLink   Intent = "create_quick_link"
	IntentTeamLinks         Intent = "team_links"
	IntentPlanInfo          Intent = "plan_info"
	IntentBookMeeting       Intent = "book_meeting"
	IntentTemplateChoice    Intent = "template_choice"
	IntentConfirmYes        Intent = "confirm_yes"
	IntentConfirmNo         Intent = "confirm_no"
	IntentGeneral           Intent = "general"
)

type ParsedDate struct {
	Date    time.Time `json:"date"`
	DateStr string    `json:"dateStr"`
}

type ParsedTime struct {
	Hours   int    `json:"hours"`
	Minutes int    `json:"minutes"`
	TimeStr string `json:"timeStr"`
}

// On returns the wall-clock time t on the given date, in the date's location.
func (t ParsedTime) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), t.Hours, t.Minutes, 0, 0, date.Location())
}

type BookingDetails struct {
	AttendeeEmail string      `json:"attendee_email,omitempty"`
	AttendeeName  string      `json:"attendee_name,omitempty"`
	Date          *ParsedDate `json:"date,omitempty"`
	Time          *ParsedTime `json:"time,omitempty"`
	Duration      int         `json:"duration,omitempty"`
	MeetingType   string      `json:"meeting_type,omitempty"`
	Title         string      `json:"title,omitempty"`
}

// Missing lists the fields a booking cannot be created without.
func (b BookingDetails) Missing() []string {
	var missing []string
	if b.AttendeeEmail == "" {
		missing = append(missing, "email")
	}
	if b.Date == nil {
		missing = append(missing, "date")
	}
	if b.Time == nil {
		missing = append(missing, "time")
	}
	return missing
}

type MeetingReference struct {
	Email string      `json:"email,omitempty"`
	Name  string      `json:"name,omitempty"`
	Date  *ParsedDate `json:"date,omitempty"`
	Time  *ParsedTime `json:"time,omitempty"`
	Next  bool        `json:"next,omitempty"`
}

func (r MeetingReference) IsEmpty() bool {
	return r.Email == "" && r.Name == "" && r.Date == nil && r.Time == nil && !r.Next
}

type DateParser interface {
	ParseNaturalDate(text string) *ParsedDate
}

type TimeParser interface {
	ParseNaturalTime(text string) *ParsedTime
}

type EntityExtractor interface {
	ParseBookingDetails(message string) BookingDetails
	ParseMeetingReference(message string) MeetingReference
}
