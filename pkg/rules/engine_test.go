package rules

import (
	"ScheduleSync/internal/entity"
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func candidate(email string, start time.Time, minutes int) entity.BookingCandidate {
	return entity.BookingCandidate{
		AttendeeName:  "Bob",
		AttendeeEmail: email,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(minutes) * time.Minute),
		Title:         "Meeting with Bob",
		Duration:      minutes,
		Status:        entity.BookingStatusConfirmed,
	}
}

func rule(id string, priority int, trigger entity.TriggerType, tv string, action entity.ActionType, av string) entity.SchedulingRule {
	return entity.SchedulingRule{
		ID:           id,
		Name:         id,
		TriggerType:  trigger,
		TriggerValue: tv,
		ActionType:   action,
		ActionValue:  av,
		IsActive:     true,
		Priority:     priority,
		CreatedAt:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Wednesday 2025-06-11 14:00 UTC
var wednesdayAfternoon = time.Date(2025, 6, 11, 14, 0, 0, 0, time.UTC)

func TestApply_NonBlockingActionsCompose(t *testing.T) {
	engine := NewEngine(quietLogger(), time.UTC)
	rules := []entity.SchedulingRule{
		rule("duration", 0, entity.TriggerDomain, "acme.com", entity.ActionSetDuration, "45"),
		rule("note", 0, entity.TriggerAll, "", entity.ActionAddNote, "hi"),
	}

	result := engine.Apply(context.Background(), rules, candidate("bob@acme.com", wednesdayAfternoon, 30))

	assert.False(t, result.Blocked)
	assert.Equal(t, 45, result.ModifiedData.Duration)
	assert.Equal(t, wednesdayAfternoon.Add(45*time.Minute), result.ModifiedData.EndTime)
	assert.Equal(t, "hi", result.ModifiedData.Notes)
	require.Len(t, result.AppliedRules, 2)
}

func TestApply_BlockShortCircuits(t *testing.T) {
	engine := NewEngine(quietLogger(), time.UTC)
	rules := []entity.SchedulingRule{
		rule("duration", 1, entity.TriggerAll, "", entity.ActionSetDuration, "90"),
		rule("block", 5, entity.TriggerDomain, "acme.com", entity.ActionBlock, ""),
	}

	result := engine.Apply(context.Background(), rules, candidate("bob@acme.com", wednesdayAfternoon, 30))

	assert.True(t, result.Blocked)
	assert.Equal(t, `Blocked by scheduling rule "block"`, result.BlockReason)
	assert.Equal(t, 30, result.ModifiedData.Duration)
	require.Len(t, result.AppliedRules, 1)
	assert.Equal(t, "block", result.AppliedRules[0].ID)
}

func TestApply_OrderingByPriorityThenCreation(t *testing.T) {
	engine := NewEngine(quietLogger(), time.UTC)
	older := rule("older", 1, entity.TriggerAll, "", entity.ActionAddNote, "older")
	newer := rule("newer", 1, entity.TriggerAll, "", entity.ActionAddNote, "newer")
	newer.CreatedAt = older.CreatedAt.Add(time.Hour)
	top := rule("top", 9, entity.TriggerAll, "", entity.ActionAddNote, "top")

	result := engine.Apply(context.Background(), []entity.SchedulingRule{newer, older, top},
		candidate("bob@acme.com", wednesdayAfternoon, 30))

	assert.Equal(t, "top\nolder\nnewer", result.ModifiedData.Notes)
}

func TestApply_SkipsInactiveRules(t *testing.T) {
	engine := NewEngine(quietLogger(), time.UTC)
	r := rule("block", 0, entity.TriggerAll, "", entity.ActionBlock, "nope")
	r.IsActive = false

	result := engine.Apply(context.Background(), []entity.SchedulingRule{r}, candidate("bob@acme.com", wednesdayAfternoon, 30))

	assert.False(t, result.Blocked)
	assert.Empty(t, result.AppliedRules)
}

func TestApply_FailOpenOnMalformedRule(t *testing.T) {
	engine := NewEngine(quietLogger(), time.UTC)
	rules := []entity.SchedulingRule{
		rule("note", 9, entity.TriggerAll, "", entity.ActionAddNote, "hi"),
		rule("broken", 1, entity.TriggerTimeBefore, "whenever", entity.ActionBlock, ""),
	}
	in := candidate("bob@acme.com", wednesdayAfternoon, 30)

	result := engine.Apply(context.Background(), rules, in)

	assert.False(t, result.Blocked)
	assert.Equal(t, in, result.ModifiedData)
	assert.Empty(t, result.AppliedRules)
}

func TestApply_AutoApprove(t *testing.T) {
	engine := NewEngine(quietLogger(), time.UTC)

	tests := []struct {
		value      string
		wantStatus string
	}{
		{"true", entity.BookingStatusConfirmed},
		{"yes", entity.BookingStatusConfirmed},
		{"false", entity.BookingStatusPending},
		{"", entity.BookingStatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			in := candidate("bob@acme.com", wednesdayAfternoon, 30)
			in.Status = entity.BookingStatusPending
			result := engine.Apply(context.Background(), []entity.SchedulingRule{
				rule("auto", 0, entity.TriggerEmail, "BOB@acme.com", entity.ActionAutoApprove, tt.value),
			}, in)

			assert.True(t, result.AutoApproved)
			assert.Equal(t, tt.wantStatus, result.ModifiedData.Status)
		})
	}
}

func TestApply_Triggers(t *testing.T) {
	engine := NewEngine(quietLogger(), time.UTC)

	tests := []struct {
		name    string
		trigger entity.TriggerType
		value   string
		email   string
		start   time.Time
		minutes int
		want    bool
	}{
		{"domain exact", entity.TriggerDomain, "acme.com", "bob@acme.com", wednesdayAfternoon, 30, true},
		{"domain subdomain", entity.TriggerDomain, "@acme.com", "bob@eu.acme.com", wednesdayAfternoon, 30, true},
		{"domain list", entity.TriggerDomain, "foo.io, acme.com", "bob@acme.com", wednesdayAfternoon, 30, true},
		{"domain lookalike", entity.TriggerDomain, "acme.com", "bob@notacme.com", wednesdayAfternoon, 30, false},
		{"keyword in email", entity.TriggerKeyword, "acme", "bob@acme.com", wednesdayAfternoon, 30, true},
		{"keyword in title", entity.TriggerKeyword, "bob", "x@y.com", wednesdayAfternoon, 30, true},
		{"keyword miss", entity.TriggerKeyword, "invoice", "x@y.com", wednesdayAfternoon, 30, false},
		{"time before hit", entity.TriggerTimeBefore, "15:00", "x@y.com", wednesdayAfternoon, 30, true},
		{"time before boundary", entity.TriggerTimeBefore, "14", "x@y.com", wednesdayAfternoon, 30, false},
		{"time after meridiem", entity.TriggerTimeAfter, "2pm", "x@y.com", wednesdayAfternoon, 30, true},
		{"time after miss", entity.TriggerTimeAfter, "5pm", "x@y.com", wednesdayAfternoon, 30, false},
		{"day name", entity.TriggerDayOfWeek, "monday, wednesday", "x@y.com", wednesdayAfternoon, 30, true},
		{"day index", entity.TriggerDayOfWeek, "3", "x@y.com", wednesdayAfternoon, 30, true},
		{"day weekend", entity.TriggerDayOfWeek, "weekend", "x@y.com", wednesdayAfternoon, 30, false},
		{"longer than", entity.TriggerDurationGreater, "45", "x@y.com", wednesdayAfternoon, 60, true},
		{"shorter than", entity.TriggerDurationLess, "45", "x@y.com", wednesdayAfternoon, 60, false},
		{"unknown trigger", entity.TriggerType("moon_phase"), "full", "x@y.com", wednesdayAfternoon, 30, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := engine.Apply(context.Background(), []entity.SchedulingRule{
				rule("r", 0, tt.trigger, tt.value, entity.ActionSetLocation, "Zoom"),
			}, candidate(tt.email, tt.start, tt.minutes))

			assert.Equal(t, tt.want, len(result.AppliedRules) == 1)
		})
	}
}

func TestApply_TimeTriggersUseEngineLocation(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	engine := NewEngine(quietLogger(), jakarta)

	// 02:00 UTC is 09:00 in UTC+7
	start := time.Date(2025, 6, 11, 2, 0, 0, 0, time.UTC)
	result := engine.Apply(context.Background(), []entity.SchedulingRule{
		rule("early", 0, entity.TriggerTimeBefore, "8am", entity.ActionBlock, "too early"),
	}, candidate("x@y.com", start, 30))

	assert.False(t, result.Blocked)
}

func TestApply_Actions(t *testing.T) {
	engine := NewEngine(quietLogger(), time.UTC)
	rules := []entity.SchedulingRule{
		rule("prio", 9, entity.TriggerAll, "", entity.ActionSetPriority, "HIGH"),
		rule("loc", 8, entity.TriggerAll, "", entity.ActionSetLocation, "Room 4"),
		rule("buffer", 7, entity.TriggerAll, "", entity.ActionSetBuffer, "15"),
		rule("prefix", 6, entity.TriggerAll, "", entity.ActionSetTitlePrefix, "[VIP]"),
		rule("prefix again", 5, entity.TriggerAll, "", entity.ActionSetTitlePrefix, "[VIP]"),
		rule("approval", 4, entity.TriggerAll, "", entity.ActionRequireApproval, ""),
		rule("notify", 3, entity.TriggerAll, "", entity.ActionSendNotification, "ops@example.com"),
		rule("mystery", 2, entity.TriggerAll, "", entity.ActionType("teleport"), ""),
	}

	result := engine.Apply(context.Background(), rules, candidate("bob@acme.com", wednesdayAfternoon, 30))

	got := result.ModifiedData
	assert.Equal(t, "high", got.Priority)
	assert.Equal(t, "Room 4", got.Location)
	assert.Equal(t, 15, got.BufferMinutes)
	assert.Equal(t, "[VIP] Meeting with Bob", got.Title)
	assert.Equal(t, entity.BookingStatusPending, got.Status)
	assert.Equal(t, "ops@example.com", got.NotifyEmail)
	assert.False(t, result.Blocked)
}

func TestParseClockValue(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"9", 9 * 60, false},
		{"09:30", 9*60 + 30, false},
		{"9am", 9 * 60, false},
		{"12am", 0, false},
		{"12pm", 12 * 60, false},
		{"5:45 PM", 17*60 + 45, false},
		{"17", 17 * 60, false},
		{"25", 0, true},
		{"13pm", 0, true},
		{"noonish", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClockValue(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
