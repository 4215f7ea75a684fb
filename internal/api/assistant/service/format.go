package assistantService

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	"fmt"
	"strings"
	"time"
)

func formatWhen(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("Mon, Jan 2 at 3:04 PM")
}

func formatDay(t time.Time) string {
	return t.Format("Monday, January 2")
}

func formatClock(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("3:04 PM")
}

func summarize(b entity.Booking) assistant.MeetingSummary {
	return assistant.MeetingSummary{
		ID:            b.ID,
		Title:         b.Title,
		AttendeeName:  b.AttendeeName,
		AttendeeEmail: b.AttendeeEmail,
		StartTime:     b.StartTime,
		EndTime:       b.EndTime,
		Status:        b.Status,
	}
}

func summarizeAll(bookings []entity.Booking) []assistant.MeetingSummary {
	out := make([]assistant.MeetingSummary, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, summarize(b))
	}
	return out
}

func attendeeLabel(m assistant.MeetingSummary) string {
	if m.AttendeeName != "" {
		return m.AttendeeName
	}
	return m.AttendeeEmail
}

// describeMeeting renders `"Title" with Name on Mon, Jan 2 at 3:04 PM`.
func describeMeeting(m assistant.MeetingSummary, loc *time.Location) string {
	return fmt.Sprintf("%q with %s on %s", m.Title, attendeeLabel(m), formatWhen(m.StartTime, loc))
}

func numberedMeetings(meetings []assistant.MeetingSummary, loc *time.Location) string {
	var b strings.Builder
	for i, m := range meetings {
		fmt.Fprintf(&b, "\n%d. %s", i+1, describeMeeting(m, loc))
	}
	return b.String()
}

func joinFields(fields []string) string {
	switch len(fields) {
	case 0:
		return ""
	case 1:
		return fields[0]
	default:
		return strings.Join(fields[:len(fields)-1], ", ") + " and " + fields[len(fields)-1]
	}
}
