package assistantService

import (
	"ScheduleSync/internal/api/assistant"
	assistantRepository "ScheduleSync/internal/api/assistant/repository"
	"ScheduleSync/internal/api/rules"
	"ScheduleSync/internal/entity"
	ruleEngine "ScheduleSync/pkg/rules"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
)

type fakeStore struct {
	user      entity.User
	bookings  map[string]entity.Booking
	pending   map[entity.PendingActionType]entity.PendingAIAction
	templates []entity.EmailTemplate
	events    []entity.EventType
	teams     []entity.Team
	links     []entity.MagicLink
	commits   int
	clock     func() time.Time
}

func newFakeStore(user entity.User, clock func() time.Time, bookings ...entity.Booking) *fakeStore {
	f := &fakeStore{
		user:     user,
		bookings: make(map[string]entity.Booking),
		pending:  make(map[entity.PendingActionType]entity.PendingAIAction),
		clock:    clock,
	}
	for _, b := range bookings {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeStore) NewClient(_ bool) (assistantRepository.Client, error) {
	return assistantRepository.Client{
		Bookings:       f,
		PendingActions: (*fakePending)(f),
		Users:          (*fakeUsers)(f),
		Templates:      (*fakeLinks)(f),
		Links:          (*fakeLinks)(f),
		Teams:          (*fakeLinks)(f),
		Commit: func() error {
			f.commits++
			return nil
		},
		Rollback: func() error { return nil },
	}, nil
}

func sortedBookings(in []entity.Booking) []entity.Booking {
	sort.Slice(in, func(i, j int) bool { return in[i].StartTime.Before(in[j].StartTime) })
	return in
}

func (f *fakeStore) CreateBooking(_ context.Context, booking entity.Booking) error {
	f.bookings[booking.ID] = booking
	return nil
}

func (f *fakeStore) GetBooking(_ context.Context, userID, id string) (entity.Booking, error) {
	b, ok := f.bookings[id]
	if !ok || b.UserID != userID {
		return entity.Booking{}, assistant.ErrBookingNotFound
	}
	return b, nil
}

func (f *fakeStore) ListUpcomingBookings(_ context.Context, userID string, from time.Time, limit int) ([]entity.Booking, error) {
	var out []entity.Booking
	for _, b := range f.bookings {
		if b.UserID == userID && b.Status != entity.BookingStatusCancelled && b.StartTime.After(from) {
			out = append(out, b)
		}
	}
	out = sortedBookings(out)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeStore) ListBookingsInRange(_ context.Context, userID string, from, to time.Time) ([]entity.Booking, error) {
	var out []entity.Booking
	for _, b := range f.bookings {
		if b.UserID == userID && b.StartTime.Before(to) && b.EndTime.After(from) {
			out = append(out, b)
		}
	}
	return sortedBookings(out), nil
}

func (f *fakeStore) FindBookings(_ context.Context, userID string, filter assistantRepository.BookingFilter) ([]entity.Booking, error) {
	email := strings.ToLower(filter.Email)
	name := strings.ToLower(filter.Name)
	var out []entity.Booking
	for _, b := range f.bookings {
		if b.UserID != userID || b.Status == entity.BookingStatusCancelled {
			continue
		}
		if b.StartTime.Before(filter.From) || !b.StartTime.Before(filter.To) {
			continue
		}
		if email != "" && strings.ToLower(b.AttendeeEmail) != email {
			continue
		}
		if name != "" && !strings.Contains(strings.ToLower(b.AttendeeName), name) &&
			!strings.Contains(strings.ToLower(b.Title), name) {
			continue
		}
		out = append(out, b)
	}
	return sortedBookings(out), nil
}

func (f *fakeStore) UpdateBookingStatus(_ context.Context, userID, id, status string) error {
	b, ok := f.bookings[id]
	if !ok || b.UserID != userID {
		return assistant.ErrBookingNotFound
	}
	b.Status = status
	f.bookings[id] = b
	return nil
}

func (f *fakeStore) RescheduleBooking(_ context.Context, userID, id string, start, end time.Time) error {
	b, ok := f.bookings[id]
	if !ok || b.UserID != userID {
		return assistant.ErrBookingNotFound
	}
	b.StartTime, b.EndTime = start, end
	f.bookings[id] = b
	return nil
}

func (f *fakeStore) GetBookingStats(_ context.Context, userID string, now, weekStart, weekEnd time.Time) (assistantRepository.BookingStats, error) {
	var stats assistantRepository.BookingStats
	for _, b := range f.bookings {
		if b.UserID != userID {
			continue
		}
		stats.Total++
		if b.Status == entity.BookingStatusCancelled {
			stats.Cancelled++
			continue
		}
		if b.StartTime.After(now) {
			stats.Upcoming++
		}
		if !b.StartTime.Before(weekStart) && b.StartTime.Before(weekEnd) {
			stats.ThisWeek++
		}
	}
	return stats, nil
}

type fakePending fakeStore

func (f *fakePending) UpsertPendingAction(_ context.Context, action entity.PendingAIAction) error {
	f.pending[action.ActionType] = action
	return nil
}

func (f *fakePending) live(actionType entity.PendingActionType) (entity.PendingAIAction, bool) {
	p, ok := f.pending[actionType]
	if !ok || !p.ExpiresAt.After(f.clock()) {
		return entity.PendingAIAction{}, false
	}
	return p, true
}

func (f *fakePending) GetPendingAction(_ context.Context, _ string, actionType entity.PendingActionType) (entity.PendingAIAction, error) {
	p, ok := f.live(actionType)
	if !ok {
		return entity.PendingAIAction{}, assistant.ErrPendingActionNotFound
	}
	return p, nil
}

func (f *fakePending) GetLatestPendingAction(_ context.Context, _ string, actionTypes ...entity.PendingActionType) (entity.PendingAIAction, error) {
	var latest *entity.PendingAIAction
	for _, t := range actionTypes {
		p, ok := f.live(t)
		if !ok {
			continue
		}
		if latest == nil || p.CreatedAt.After(latest.CreatedAt) {
			latest = &p
		}
	}
	if latest == nil {
		return entity.PendingAIAction{}, assistant.ErrPendingActionNotFound
	}
	return *latest, nil
}

func (f *fakePending) DeletePendingAction(_ context.Context, _ string, actionType entity.PendingActionType) error {
	delete(f.pending, actionType)
	return nil
}

func (f *fakePending) DeleteExpiredPendingActions(_ context.Context) (int64, error) {
	var n int64
	for t, p := range f.pending {
		if !p.ExpiresAt.After(f.clock()) {
			delete(f.pending, t)
			n++
		}
	}
	return n, nil
}

type fakeUsers fakeStore

func (f *fakeUsers) GetUser(_ context.Context, id string) (entity.User, error) {
	if id != f.user.ID {
		return entity.User{}, assistant.ErrUserNotFound
	}
	return f.user, nil
}

func (f *fakeUsers) IncrementAIQueries(_ context.Context, id string) (int, error) {
	if id != f.user.ID {
		return 0, assistant.ErrUserNotFound
	}
	f.user.AIQueriesUsed++
	return f.user.AIQueriesUsed, nil
}

type fakeLinks fakeStore

func (f *fakeLinks) ListTemplates(_ context.Context, _ string) ([]entity.EmailTemplate, error) {
	return f.templates, nil
}

func (f *fakeLinks) ListActiveEventTypes(_ context.Context, _ string) ([]entity.EventType, error) {
	return f.events, nil
}

func (f *fakeLinks) CreateMagicLink(_ context.Context, link entity.MagicLink) error {
	f.links = append(f.links, link)
	return nil
}

func (f *fakeLinks) ListTeamsForUser(_ context.Context, _ string) ([]entity.Team, error) {
	return f.teams, nil
}

// fakeRules stands in for the rules service; only the booking path is exercised here.
type fakeRules struct {
	blockedEmails map[string]bool
	blockErr      error
	result        *ruleEngine.Result
	drafts        []ruleEngine.Draft
	list          []rules.RuleResponse
}

func (f *fakeRules) ActiveRules(context.Context, string) ([]entity.SchedulingRule, error) {
	return nil, nil
}

func (f *fakeRules) ListRules(context.Context, string) ([]rules.RuleResponse, error) {
	return f.list, nil
}

func (f *fakeRules) CreateRule(context.Context, string, rules.CreateRuleRequest) (entity.SchedulingRule, error) {
	return entity.SchedulingRule{}, fmt.Errorf("not used")
}

func (f *fakeRules) CreateFromDraft(_ context.Context, userID string, draft ruleEngine.Draft) (entity.SchedulingRule, error) {
	f.drafts = append(f.drafts, draft)
	return entity.SchedulingRule{
		ID:           "rule-1",
		UserID:       userID,
		Name:         draft.Name,
		TriggerType:  draft.TriggerType,
		TriggerValue: draft.TriggerValue,
		ActionType:   draft.ActionType,
		ActionValue:  draft.ActionValue,
		IsActive:     true,
	}, nil
}

func (f *fakeRules) UpdateRule(context.Context, string, string, rules.UpdateRuleRequest) (entity.SchedulingRule, error) {
	return entity.SchedulingRule{}, fmt.Errorf("not used")
}

func (f *fakeRules) DeleteRule(context.Context, string, string) error {
	return fmt.Errorf("not used")
}

func (f *fakeRules) ApplyRules(_ context.Context, _ string, booking entity.BookingCandidate) ruleEngine.Result {
	if f.result != nil {
		return *f.result
	}
	return ruleEngine.Result{ModifiedData: booking}
}

func (f *fakeRules) TestRules(context.Context, string, rules.TestRulesRequest) (ruleEngine.Result, error) {
	return ruleEngine.Result{}, fmt.Errorf("not used")
}

func (f *fakeRules) ShouldBlockBooking(_ context.Context, _ string, email string) (bool, error) {
	return f.blockedEmails[strings.ToLower(email)], f.blockErr
}

type fakeUtils struct {
	n int
}

func (u *fakeUtils) NewULIDFromTimestamp(time.Time) (string, error) {
	u.n++
	return fmt.Sprintf("id-%d", u.n), nil
}

func (u *fakeUtils) NewToken(int) (string, error) {
	return "tok123", nil
}

func (u *fakeUtils) Slugify(s string) string {
	return strings.ToLower(s)
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) SendBookingNotification(_ context.Context, to string, _ entity.Booking) error {
	f.sent = append(f.sent, to)
	return nil
}
