package assistantService

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	"ScheduleSync/pkg/response"
	ruleEngine "ScheduleSync/pkg/rules"
	"context"
	"io"
	"testing"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Monday, 16 June 2025, 10:00 UTC.
var testNow = time.Date(2025, time.June, 16, 10, 0, 0, 0, time.UTC)

var testLogin = entity.UserLoginData{ID: "user-1", Name: "Ada", Email: "ada@schedulesync.io"}

func testUser() entity.User {
	return entity.User{
		ID:               "user-1",
		Email:            "ada@schedulesync.io",
		Name:             "Ada",
		Username:         "ada",
		Timezone:         "UTC",
		SubscriptionTier: entity.SubscriptionTierFree,
	}
}

func booking(id, name, email string, start time.Time) entity.Booking {
	return entity.Booking{
		ID:            id,
		UserID:        "user-1",
		Title:         "Call with " + name,
		AttendeeName:  name,
		AttendeeEmail: email,
		StartTime:     start,
		EndTime:       start.Add(30 * time.Minute),
		Duration:      30,
		Status:        entity.BookingStatusConfirmed,
	}
}

type harness struct {
	svc      *assistantService
	store    *fakeStore
	rules    *fakeRules
	notifier *fakeNotifier
}

func newHarness(t *testing.T, bookings ...entity.Booking) *harness {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	clock := func() time.Time { return testNow }
	store := newFakeStore(testUser(), clock, bookings...)
	rulesSvc := &fakeRules{blockedEmails: map[string]bool{}}
	notifier := &fakeNotifier{}

	svc := NewAssistantService(logger, store, rulesSvc, nil, notifier, &fakeUtils{}, Config{AppURL: "https://app.schedulesync.io/"}).(*assistantService)
	svc.now = clock
	return &harness{svc: svc, store: store, rules: rulesSvc, notifier: notifier}
}

func (h *harness) say(t *testing.T, message string) *assistant.ScheduleResponse {
	t.Helper()
	res, err := h.svc.ProcessMessage(context.Background(), testLogin, assistant.ScheduleRequest{Message: message})
	require.NoError(t, err)
	require.NotNil(t, res)
	return res
}

func TestProcessMessage_CancelThenConfirm(t *testing.T) {
	h := newHarness(t, booking("b-1", "John", "john@acme.com", testNow.Add(52*time.Hour)))

	res := h.say(t, "Cancel my meeting with john@acme.com")
	assert.Equal(t, assistant.TypeConfirmCancel, res.Type)
	assert.Contains(t, res.Message, "Wed, Jun 18 at 2:00 PM")
	require.Contains(t, h.store.pending, entity.PendingActionCancel)
	assert.Equal(t, testNow.Add(5*time.Minute), h.store.pending[entity.PendingActionCancel].ExpiresAt)

	var payload assistant.CancelPayload
	require.NoError(t, jsoniter.Unmarshal(h.store.pending[entity.PendingActionCancel].ActionData, &payload))
	assert.Equal(t, "b-1", payload.Booking.ID)

	res = h.say(t, "yes")
	assert.Equal(t, assistant.TypeSuccess, res.Type)
	assert.Equal(t, entity.BookingStatusCancelled, h.store.bookings["b-1"].Status)
	assert.Empty(t, h.store.pending)
	assert.Equal(t, 1, h.store.commits)
	assert.Equal(t, 2, h.store.user.AIQueriesUsed)
}

func TestProcessMessage_CancelUnknownMeeting(t *testing.T) {
	h := newHarness(t, booking("b-1", "John", "john@acme.com", testNow.Add(52*time.Hour)))

	res := h.say(t, "Cancel my meeting with nobody@acme.com")
	assert.Equal(t, assistant.TypeNotFound, res.Type)
	assert.Empty(t, h.store.pending)
}

func TestProcessMessage_MultipleMatchesNeedSelection(t *testing.T) {
	h := newHarness(t,
		booking("b-early", "Jane Smith", "jane@x.com", testNow.Add(23*time.Hour)),
		booking("b-late", "Jane Smith", "jane@x.com", testNow.Add(73*time.Hour)),
		booking("b-other", "Bob", "bob@x.com", testNow.Add(30*time.Hour)),
	)

	res := h.say(t, "Cancel my meeting with Jane")
	assert.Equal(t, assistant.TypeSelectMeeting, res.Type)
	assert.Contains(t, res.Message, "1. ")
	assert.Contains(t, res.Message, "2. ")
	require.Contains(t, h.store.pending, entity.PendingActionSelectMeeting)

	res = h.say(t, "2")
	assert.Equal(t, assistant.TypeConfirmCancel, res.Type)
	summary, ok := res.Data.(assistant.MeetingSummary)
	require.True(t, ok)
	assert.Equal(t, "b-late", summary.ID)
	assert.NotContains(t, h.store.pending, entity.PendingActionSelectMeeting)
	assert.Contains(t, h.store.pending, entity.PendingActionCancel)

	res = h.say(t, "no")
	assert.Equal(t, assistant.TypeInfo, res.Type)
	assert.Empty(t, h.store.pending)
	assert.Equal(t, entity.BookingStatusConfirmed, h.store.bookings["b-late"].Status)
}

func TestProcessMessage_SelectionOutOfRange(t *testing.T) {
	h := newHarness(t,
		booking("b-1", "Jane", "jane@x.com", testNow.Add(23*time.Hour)),
		booking("b-2", "Jane", "jane@x.com", testNow.Add(47*time.Hour)),
	)

	h.say(t, "Cancel my meeting with Jane")
	res := h.say(t, "7")
	assert.Equal(t, assistant.TypeClarification, res.Type)
	assert.Contains(t, h.store.pending, entity.PendingActionSelectMeeting)
}

func TestProcessMessage_RescheduleThenConfirm(t *testing.T) {
	h := newHarness(t, booking("b-1", "John", "john@acme.com", testNow.Add(52*time.Hour)))

	res := h.say(t, "Move my meeting with john@acme.com to Friday at 3pm")
	assert.Equal(t, assistant.TypeConfirmReschedule, res.Type)

	payload, ok := res.Data.(assistant.ReschedulePayload)
	require.True(t, ok)
	wantStart := time.Date(2025, time.June, 20, 15, 0, 0, 0, time.UTC)
	assert.True(t, wantStart.Equal(payload.NewStart))
	assert.True(t, wantStart.Add(30*time.Minute).Equal(payload.NewEnd))

	res = h.say(t, "yes")
	assert.Equal(t, assistant.TypeSuccess, res.Type)
	assert.True(t, wantStart.Equal(h.store.bookings["b-1"].StartTime))
	assert.Empty(t, h.store.pending)
}

func TestProcessMessage_RescheduleSelection(t *testing.T) {
	tests := []struct {
		name      string
		message   string
		choice    string
		wantID    string
		wantStart time.Time
	}{
		{
			name:      "new date and time",
			message:   "Move my meeting with Jane to Friday at 3pm",
			choice:    "2",
			wantID:    "b-late",
			wantStart: time.Date(2025, time.June, 20, 15, 0, 0, 0, time.UTC),
		},
		{
			name:      "new time keeps the chosen day",
			message:   "Move my meeting with Jane to 4pm",
			choice:    "first",
			wantID:    "b-early",
			wantStart: time.Date(2025, time.June, 17, 16, 0, 0, 0, time.UTC),
		},
		{
			name:      "new date keeps the chosen time",
			message:   "Move my meeting with Jane  to Friday, it’s urgent",
			choice:    "last",
			wantID:    "b-late",
			wantStart: time.Date(2025, time.June, 20, 11, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t,
				booking("b-early", "Jane Smith", "jane@x.com", testNow.Add(23*time.Hour)),
				booking("b-late", "Jane Smith", "jane@x.com", testNow.Add(73*time.Hour)),
				booking("b-other", "Bob", "bob@x.com", testNow.Add(30*time.Hour)),
			)

			res := h.say(t, tt.message)
			require.Equal(t, assistant.TypeSelectMeeting, res.Type)
			require.Contains(t, h.store.pending, entity.PendingActionSelectMeeting)

			res = h.say(t, tt.choice)
			require.Equal(t, assistant.TypeConfirmReschedule, res.Type)
			payload, ok := res.Data.(assistant.ReschedulePayload)
			require.True(t, ok)
			assert.Equal(t, tt.wantID, payload.Booking.ID)
			assert.True(t, tt.wantStart.Equal(payload.NewStart), "got %s", payload.NewStart)
			assert.True(t, tt.wantStart.Add(30*time.Minute).Equal(payload.NewEnd))
			assert.NotContains(t, h.store.pending, entity.PendingActionSelectMeeting)
			assert.Contains(t, h.store.pending, entity.PendingActionReschedule)

			res = h.say(t, "yes")
			assert.Equal(t, assistant.TypeSuccess, res.Type)
			assert.True(t, tt.wantStart.Equal(h.store.bookings[tt.wantID].StartTime))
			assert.Empty(t, h.store.pending)
		})
	}
}

func TestProcessMessage_RescheduleSelectionKeepsListOnBadChoice(t *testing.T) {
	h := newHarness(t,
		booking("b-1", "Jane", "jane@x.com", testNow.Add(23*time.Hour)),
		booking("b-2", "Jane", "jane@x.com", testNow.Add(47*time.Hour)),
	)

	h.say(t, "Move my meeting with Jane to Friday at 3pm")
	res := h.say(t, "9")
	assert.Equal(t, assistant.TypeClarification, res.Type)
	require.Contains(t, h.store.pending, entity.PendingActionSelectMeeting)

	var payload assistant.SelectMeetingPayload
	require.NoError(t, jsoniter.Unmarshal(h.store.pending[entity.PendingActionSelectMeeting].ActionData, &payload))
	require.NotNil(t, payload.NewDate)
	assert.Equal(t, 20, payload.NewDate.Date.Day())
	require.NotNil(t, payload.NewTime)
	assert.Equal(t, 15, payload.NewTime.Hours)
}

func TestProcessMessage_ConfirmWithoutPending(t *testing.T) {
	h := newHarness(t)

	res := h.say(t, "yes")
	assert.Equal(t, assistant.TypeInfo, res.Type)
	assert.Equal(t, notSureMessage, res.Message)
}

func TestProcessMessage_ExpiredPendingIsIgnored(t *testing.T) {
	h := newHarness(t, booking("b-1", "John", "john@acme.com", testNow.Add(52*time.Hour)))
	h.say(t, "Cancel my meeting with john@acme.com")

	action := h.store.pending[entity.PendingActionCancel]
	action.ExpiresAt = testNow.Add(-time.Second)
	h.store.pending[entity.PendingActionCancel] = action

	res := h.say(t, "yes")
	assert.Equal(t, assistant.TypeInfo, res.Type)
	assert.Equal(t, entity.BookingStatusConfirmed, h.store.bookings["b-1"].Status)

	n, err := h.svc.SweepExpiredPendingActions(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
	assert.Empty(t, h.store.pending)
}

func TestProcessMessage_BookMeeting(t *testing.T) {
	t.Run("missing email asks for it", func(t *testing.T) {
		h := newHarness(t)
		res := h.say(t, "Book a call tomorrow at 2pm")
		assert.Equal(t, assistant.TypeClarification, res.Type)
		data, ok := res.Data.(map[string]interface{})
		require.True(t, ok)
		assert.Equal(t, []string{"email"}, data["missing"])
	})

	t.Run("blocked attendee", func(t *testing.T) {
		h := newHarness(t)
		h.rules.blockedEmails["bob@rival.com"] = true
		res := h.say(t, "Book a call with bob@rival.com tomorrow at 2pm")
		assert.Equal(t, assistant.TypeBlocked, res.Type)
		assert.Empty(t, h.store.pending)
	})

	t.Run("preview without templates", func(t *testing.T) {
		h := newHarness(t)
		res := h.say(t, "Book a call with jane@acme.com tomorrow at 2pm")
		assert.Equal(t, assistant.TypeConfirmBooking, res.Type)
		preview, ok := res.Data.(assistant.BookingPreview)
		require.True(t, ok)
		assert.True(t, time.Date(2025, time.June, 17, 14, 0, 0, 0, time.UTC).Equal(preview.StartTime))
		assert.Equal(t, 30, preview.Duration)
		assert.Equal(t, "jane@acme.com", preview.AttendeeEmail)
	})

	t.Run("template choice", func(t *testing.T) {
		h := newHarness(t)
		h.store.templates = []entity.EmailTemplate{{ID: "tpl-1", Name: "Intro"}, {ID: "tpl-2", Name: "Follow-up"}}

		res := h.say(t, "Book a call with jane@acme.com tomorrow at 2pm")
		assert.Equal(t, assistant.TypeTemplateChoice, res.Type)
		assert.Contains(t, res.Message, "3. No template")
		require.Contains(t, h.store.pending, entity.PendingActionTemplateChoice)

		res = h.say(t, "1")
		assert.Equal(t, assistant.TypeConfirmBooking, res.Type)
		preview, ok := res.Data.(assistant.BookingPreview)
		require.True(t, ok)
		assert.Equal(t, "tpl-1", preview.TemplateID)
		assert.Empty(t, h.store.pending)
	})
}

func TestProcessMessage_CheckAvailability(t *testing.T) {
	tomorrow10 := time.Date(2025, time.June, 17, 10, 0, 0, 0, time.UTC)
	h := newHarness(t, entity.Booking{
		ID: "b-1", UserID: "user-1", StartTime: tomorrow10, EndTime: tomorrow10.Add(time.Hour),
		Status: entity.BookingStatusConfirmed,
	})

	res := h.say(t, "Am I free tomorrow?")
	assert.Equal(t, "check_availability", res.Type)
	data, ok := res.Data.(assistant.AvailabilityData)
	require.True(t, ok)
	assert.Equal(t, "2025-06-17", data.Date)
	assert.Len(t, data.Slots, 14)
	for _, s := range data.Slots {
		assert.False(t, s.Start.Equal(tomorrow10))
	}
}

func TestProcessMessage_InfoIntents(t *testing.T) {
	h := newHarness(t, booking("b-1", "John", "john@acme.com", testNow.Add(2*time.Hour)))
	h.store.events = []entity.EventType{{ID: "e1", Title: "Intro call", Slug: "intro"}}

	res := h.say(t, "what plan am I on?")
	assert.Equal(t, "plan_info", res.Type)
	assert.Contains(t, res.Message, "Free")

	res = h.say(t, "what's my booking link")
	assert.Equal(t, "get_link", res.Type)
	assert.Contains(t, res.Message, "https://app.schedulesync.io/ada/intro")

	res = h.say(t, "hello there")
	assert.Equal(t, "general", res.Type)
	assert.Equal(t, fallbackHelp, res.Message)

	res = h.say(t, "block meetings from competitor.com")
	assert.Equal(t, assistant.TypeSuccess, res.Type)
	require.Len(t, h.rules.drafts, 1)
	assert.Equal(t, entity.ActionBlock, h.rules.drafts[0].ActionType)
}

func TestConfirmBooking(t *testing.T) {
	start := time.Date(2025, time.June, 17, 14, 0, 0, 0, time.UTC)

	t.Run("defaults and persists", func(t *testing.T) {
		h := newHarness(t)
		res, err := h.svc.ConfirmBooking(context.Background(), testLogin, assistant.ConfirmBookingRequest{
			StartTime:     start,
			AttendeeEmail: "Jane.Doe@Acme.com",
		})
		require.NoError(t, err)
		assert.True(t, res.Success)
		assert.Equal(t, "Meeting with Jane Doe", res.Booking.Title)
		assert.Equal(t, 30, res.Booking.Duration)
		assert.True(t, start.Add(30*time.Minute).Equal(res.Booking.EndTime))
		assert.Equal(t, entity.BookingStatusConfirmed, res.Booking.Status)
		assert.Contains(t, h.store.bookings, res.Booking.ID)
	})

	t.Run("rule changes are kept", func(t *testing.T) {
		h := newHarness(t)
		h.rules.result = &ruleEngine.Result{
			ModifiedData: entity.BookingCandidate{
				AttendeeEmail: "jane@acme.com",
				StartTime:     start,
				EndTime:       start.Add(45 * time.Minute),
				Title:         "[VIP] Meeting",
				Duration:      45,
				Status:        entity.BookingStatusPending,
				NotifyEmail:   "ops@acme.com",
			},
			AppliedRules: []ruleEngine.AppliedRule{{ID: "r1", ActionType: entity.ActionRequireApproval}},
		}
		res, err := h.svc.ConfirmBooking(context.Background(), testLogin, assistant.ConfirmBookingRequest{
			StartTime:     start,
			AttendeeEmail: "jane@acme.com",
		})
		require.NoError(t, err)
		assert.Equal(t, entity.BookingStatusPending, res.Booking.Status)
		assert.Equal(t, 45, res.Booking.Duration)
		assert.Len(t, res.AppliedRules, 1)
		assert.Equal(t, []string{"ops@acme.com"}, h.notifier.sent)
	})

	t.Run("blocked", func(t *testing.T) {
		h := newHarness(t)
		h.rules.result = &ruleEngine.Result{Blocked: true, BlockReason: "Blocked domain: rival.com"}
		_, err := h.svc.ConfirmBooking(context.Background(), testLogin, assistant.ConfirmBookingRequest{
			StartTime:     start,
			AttendeeEmail: "bob@rival.com",
		})
		var blocked *response.BlockedError
		require.ErrorAs(t, err, &blocked)
		assert.Equal(t, "Blocked domain: rival.com", blocked.Reason)
		assert.Empty(t, h.store.bookings)
	})

	t.Run("invalid times", func(t *testing.T) {
		h := newHarness(t)
		_, err := h.svc.ConfirmBooking(context.Background(), testLogin, assistant.ConfirmBookingRequest{
			StartTime:     start,
			EndTime:       start.Add(-time.Hour),
			AttendeeEmail: "jane@acme.com",
		})
		assert.ErrorIs(t, err, assistant.ErrInvalidTimeRange)

		_, err = h.svc.ConfirmBooking(context.Background(), testLogin, assistant.ConfirmBookingRequest{
			StartTime:     testNow.Add(-time.Hour),
			AttendeeEmail: "jane@acme.com",
		})
		assert.ErrorIs(t, err, assistant.ErrBookingInPast)
	})
}

func TestWeekBounds(t *testing.T) {
	sunday := time.Date(2025, time.June, 22, 18, 0, 0, 0, time.UTC)
	start, end := weekBounds(sunday)
	assert.Equal(t, time.Date(2025, time.June, 16, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2025, time.June, 23, 0, 0, 0, 0, time.UTC), end)
}
