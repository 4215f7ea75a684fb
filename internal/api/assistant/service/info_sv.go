package assistantService

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	"ScheduleSync/pkg/metrics"
	"ScheduleSync/pkg/nlp"
	"ScheduleSync/pkg/response"
	ruleEngine "ScheduleSync/pkg/rules"
	"ScheduleSync/pkg/slots"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const upcomingLimit = 5

func (s *assistantService) handleCheckAvailability(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	day := time.Date(t.now.Year(), t.now.Month(), t.now.Day(), 0, 0, 0, 0, t.loc)
	if parsed := t.parser.ParseNaturalDate(t.message); parsed != nil {
		d := parsed.Date.In(t.loc)
		day = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, t.loc)
	}

	bookings, err := t.client.Bookings.ListBookingsInRange(ctx, t.user.ID, day, day.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	busy := make([]slots.Busy, 0, len(bookings))
	for _, b := range bookings {
		if b.Status == entity.BookingStatusCancelled {
			continue
		}
		busy = append(busy, slots.Busy{Start: b.StartTime, End: b.EndTime})
	}

	free := slots.AvailableSlotsForDate(t.user.WorkingHours, busy, day, t.now)
	data := assistant.AvailabilityData{Date: day.Format("2006-01-02"), Slots: free}

	if len(free) == 0 {
		return &assistant.ScheduleResponse{
			Type:    string(nlp.IntentCheckAvailability),
			Message: fmt.Sprintf("You have no free slots on %s.", formatDay(day)),
			Data:    data,
		}, nil
	}

	shown := free
	if len(shown) > 8 {
		shown = shown[:8]
	}
	times := make([]string, 0, len(shown))
	for _, slot := range shown {
		times = append(times, formatClock(slot.Start, t.loc))
	}
	msg := fmt.Sprintf("You have %d free slots on %s: %s", len(free), formatDay(day), strings.Join(times, ", "))
	if len(free) > len(shown) {
		msg += fmt.Sprintf(" and %d more", len(free)-len(shown))
	}

	return &assistant.ScheduleResponse{
		Type:    string(nlp.IntentCheckAvailability),
		Message: msg + ".",
		Data:    data,
	}, nil
}

func (s *assistantService) handleFindMeetings(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	ref := t.parser.ParseMeetingReference(t.message)
	if ref.IsEmpty() {
		return s.handleUpcoming(ctx, t)
	}

	found, err := s.findMatchingMeetings(ctx, t, ref)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeNotFound,
			Message: "I couldn't find an upcoming meeting matching that.",
		}, nil
	}

	meetings := summarizeAll(found)
	return &assistant.ScheduleResponse{
		Type:    string(nlp.IntentFindMeetings),
		Message: fmt.Sprintf("I found %d meeting(s):%s", len(meetings), numberedMeetings(meetings, t.loc)),
		Data:    meetings,
	}, nil
}

func (s *assistantService) handleUpcoming(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	found, err := t.client.Bookings.ListUpcomingBookings(ctx, t.user.ID, t.now, upcomingLimit)
	if err != nil {
		return nil, err
	}

	meetings := summarizeAll(found)
	if len(meetings) == 0 {
		return &assistant.ScheduleResponse{
			Type:    string(nlp.IntentUpcoming),
			Message: "You have no upcoming meetings.",
			Data:    meetings,
		}, nil
	}

	return &assistant.ScheduleResponse{
		Type:    string(nlp.IntentUpcoming),
		Message: fmt.Sprintf("Your next %d meeting(s):%s", len(meetings), numberedMeetings(meetings, t.loc)),
		Data:    meetings,
	}, nil
}

// weekBounds returns Monday 00:00 of now's week and the Monday after, in now's location.
func weekBounds(now time.Time) (time.Time, time.Time) {
	offset := (int(now.Weekday()) + 6) % 7
	start := time.Date(now.Year(), now.Month(), now.Day()-offset, 0, 0, 0, 0, now.Location())
	return start, start.AddDate(0, 0, 7)
}

func (s *assistantService) handleAnalytics(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	weekStart, weekEnd := weekBounds(t.now)
	stats, err := t.client.Bookings.GetBookingStats(ctx, t.user.ID, t.now, weekStart, weekEnd)
	if err != nil {
		return nil, err
	}

	data := assistant.AnalyticsData{
		Total:         stats.Total,
		Upcoming:      stats.Upcoming,
		ThisWeek:      stats.ThisWeek,
		Cancelled:     stats.Cancelled,
		AIQueriesUsed: t.user.AIQueriesUsed,
		AIQueryLimit:  t.user.SubscriptionTier.AIQueryLimit(),
	}

	return &assistant.ScheduleResponse{
		Type: string(nlp.IntentAnalytics),
		Message: fmt.Sprintf("You have %d meetings in total: %d upcoming, %d this week and %d cancelled.",
			data.Total, data.Upcoming, data.ThisWeek, data.Cancelled),
		Data: data,
	}, nil
}

func (s *assistantService) handleShowRules(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	list, err := s.rulesService.ListRules(ctx, t.user.ID)
	if err != nil {
		return nil, err
	}

	if len(list) == 0 {
		return &assistant.ScheduleResponse{
			Type:    string(nlp.IntentShowRules),
			Message: "You don't have any scheduling rules yet. Try \"block meetings from competitor.com\".",
			Data:    list,
		}, nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You have %d scheduling rule(s):", len(list))
	for i, r := range list {
		state := ""
		if !r.IsActive {
			state = " (paused)"
		}
		fmt.Fprintf(&b, "\n%d. %s: %s%s", i+1, r.Name, r.Description, state)
	}

	return &assistant.ScheduleResponse{
		Type:    string(nlp.IntentShowRules),
		Message: b.String(),
		Data:    list,
	}, nil
}

func (s *assistantService) handleCreateRule(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	draft, ok := ruleEngine.ParseRuleCommand(t.message)
	if !ok {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: "I couldn't turn that into a rule. " + ruleEngine.Help(),
		}, nil
	}

	rule, err := s.rulesService.CreateFromDraft(ctx, t.user.ID, draft)
	var coded *response.Error
	if errors.As(err, &coded) {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: fmt.Sprintf("I couldn't save that rule: %s. %s", coded.Error(), ruleEngine.Help()),
		}, nil
	}
	if err != nil {
		return nil, err
	}

	return &assistant.ScheduleResponse{
		Type:    assistant.TypeSuccess,
		Message: fmt.Sprintf("Rule created: %s.", ruleEngine.Describe(rule)),
		Data:    rule,
	}, nil
}

func (s *assistantService) handleExplainRules(_ context.Context, _ *turn) (*assistant.ScheduleResponse, error) {
	return &assistant.ScheduleResponse{
		Type:    string(nlp.IntentExplainRules),
		Message: ruleEngine.Help(),
	}, nil
}

func (s *assistantService) profileURL(username string) string {
	return strings.TrimRight(s.config.AppURL, "/") + "/" + username
}

func (s *assistantService) handleGetLink(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	eventTypes, err := t.client.Links.ListActiveEventTypes(ctx, t.user.ID)
	if err != nil {
		return nil, err
	}

	base := s.profileURL(t.user.Username)
	links := []assistant.LinkData{{URL: base, Title: "Booking page"}}
	for _, et := range eventTypes {
		links = append(links, assistant.LinkData{URL: base + "/" + et.Slug, Title: et.Title})
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Your booking page is %s", base)
	if len(eventTypes) > 0 {
		b.WriteString("\nEvent types:")
		for _, l := range links[1:] {
			fmt.Fprintf(&b, "\n- %s: %s", l.Title, l.URL)
		}
	}

	return &assistant.ScheduleResponse{
		Type:    string(nlp.IntentGetLink),
		Message: b.String(),
		Data:    links,
	}, nil
}

func (s *assistantService) handleCreateQuickLink(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	duration := nlp.ExtractDuration(t.message)
	if duration <= 0 {
		duration = defaultDuration
	}

	token, err := s.utils.NewToken(16)
	if err != nil {
		return nil, err
	}
	now := s.now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return nil, err
	}

	link := entity.MagicLink{
		ID:        id,
		UserID:    t.user.ID,
		Token:     token,
		Title:     fmt.Sprintf("%d minute meeting", duration),
		Duration:  duration,
		ExpiresAt: now.Add(s.config.QuickLinkTTL),
		CreatedAt: now,
	}
	if err := t.client.Links.CreateMagicLink(ctx, link); err != nil {
		return nil, err
	}

	url := strings.TrimRight(s.config.AppURL, "/") + "/m/" + token
	return &assistant.ScheduleResponse{
		Type:    string(nlp.IntentCreateQuickLink),
		Message: fmt.Sprintf("Here's a one-time link for a %d minute meeting: %s (valid until %s).", duration, url, formatWhen(link.ExpiresAt, t.loc)),
		Data:    assistant.LinkData{URL: url, Title: link.Title},
	}, nil
}

func (s *assistantService) handleTeamLinks(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	teams, err := t.client.Teams.ListTeamsForUser(ctx, t.user.ID)
	if err != nil {
		return nil, err
	}

	links := make([]assistant.LinkData, 0, len(teams))
	for _, team := range teams {
		links = append(links, assistant.LinkData{
			URL:   strings.TrimRight(s.config.AppURL, "/") + "/team/" + team.Slug,
			Title: team.Name,
		})
	}

	if len(links) == 0 {
		return &assistant.ScheduleResponse{
			Type:    string(nlp.IntentTeamLinks),
			Message: "You're not a member of any team yet.",
			Data:    links,
		}, nil
	}

	var b strings.Builder
	b.WriteString("Your team booking pages:")
	for _, l := range links {
		fmt.Fprintf(&b, "\n- %s: %s", l.Title, l.URL)
	}
	return &assistant.ScheduleResponse{
		Type:    string(nlp.IntentTeamLinks),
		Message: b.String(),
		Data:    links,
	}, nil
}

func (s *assistantService) handlePlanInfo(_ context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	tier := t.user.SubscriptionTier
	limit := tier.AIQueryLimit()
	data := assistant.PlanData{Tier: string(tier), AIQueriesUsed: t.user.AIQueriesUsed, AIQueryLimit: limit}

	usage := fmt.Sprintf("%d of %d", t.user.AIQueriesUsed, limit)
	if limit < 0 {
		usage = fmt.Sprintf("%d (unlimited)", t.user.AIQueriesUsed)
	}

	return &assistant.ScheduleResponse{
		Type:    string(nlp.IntentPlanInfo),
		Message: fmt.Sprintf("You're on the %s plan. Assistant queries used this month: %s.", tier.DisplayName(), usage),
		Data:    data,
	}, nil
}

const fallbackHelp = "I can book, cancel and reschedule meetings, check your availability, " +
	"show upcoming meetings and manage scheduling rules. Try \"book a call with jane@acme.com tomorrow at 2pm\"."

func (s *assistantService) handleGeneral(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	if s.chatGPT == nil {
		return &assistant.ScheduleResponse{Type: string(nlp.IntentGeneral), Message: fallbackHelp}, nil
	}

	reply, err := s.chatGPT.ProcessConversation(ctx, t.message, t.history)
	if err != nil || reply == "" {
		metrics.RecordLLMCall("error")
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"user_id":    t.user.ID,
				"error":      err.Error(),
			}).Warn("LLM fallback failed")
		}
		return &assistant.ScheduleResponse{Type: string(nlp.IntentGeneral), Message: fallbackHelp}, nil
	}

	metrics.RecordLLMCall("ok")
	return &assistant.ScheduleResponse{Type: string(nlp.IntentGeneral), Message: reply}, nil
}
