package entity

import "time"

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusPending   = "pending"
	BookingStatusCancelled = "cancelled"
)

type Booking struct {
	ID            string    `json:"id"`
	UserID        string    `json:"user_id"`
	TeamID        string    `json:"team_id,omitempty"`
	Title         string    `json:"title"`
	AttendeeName  string    `json:"attendee_name"`
	AttendeeEmail string    `json:"attendee_email"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	Duration      int       `json:"duration"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	Location      string    `json:"location,omitempty"`
	Priority      string    `json:"priority,omitempty"`
	BufferMinutes int       `json:"buffer_minutes,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// BookingCandidate is a booking before persistence; the rule engine rewrites a copy of it.
type BookingCandidate struct {
	AttendeeName  string    `json:"attendee_name"`
	AttendeeEmail string    `json:"attendee_email"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	UserID        string    `json:"user_id"`
	TeamID        string    `json:"team_id,omitempty"`
	Title         string    `json:"title"`
	Notes         string    `json:"notes"`
	Duration      int       `json:"duration"`
	Status        string    `json:"status"`
	Location      string    `json:"location,omitempty"`
	Priority      string    `json:"priority,omitempty"`
	BufferMinutes int       `json:"buffer_minutes,omitempty"`
	NotifyEmail   string    `json:"notify_email,omitempty"`
}

// DurationMinutes prefers the explicit duration and falls back to the time span.
func (b BookingCandidate) DurationMinutes() int {
	if b.Duration > 0 {
		return b.Duration
	}
	return int(b.EndTime.Sub(b.StartTime).Minutes())
}
