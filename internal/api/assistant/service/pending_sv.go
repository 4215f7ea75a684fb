package assistantService

import (
	"ScheduleSync/internal/api/assistant"
	assistantRepository "ScheduleSync/internal/api/assistant/repository"
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	"ScheduleSync/pkg/nlp"
	"context"
	"errors"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const (
	notSureMessage  = "I'm not sure what you're confirming. Ask me to cancel, reschedule or book a meeting first."
	lookaheadWindow = 90 * 24 * time.Hour
)

func (s *assistantService) savePending(ctx context.Context, t *turn, actionType entity.PendingActionType, payload interface{}) error {
	data, err := jsoniter.Marshal(payload)
	if err != nil {
		return err
	}

	now := s.now()
	return t.client.PendingActions.UpsertPendingAction(ctx, entity.PendingAIAction{
		UserID:     t.user.ID,
		ActionType: actionType,
		ActionData: data,
		ExpiresAt:  now.Add(s.config.PendingActionTTL),
		CreatedAt:  now,
	})
}

// latestPending returns the newest live pending action among types, or nil when there is none.
func (s *assistantService) latestPending(ctx context.Context, t *turn, types ...entity.PendingActionType) (*entity.PendingAIAction, error) {
	pending, err := t.client.PendingActions.GetLatestPendingAction(ctx, t.user.ID, types...)
	if errors.Is(err, assistant.ErrPendingActionNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &pending, nil
}

// findMatchingMeetings resolves a free-text reference to upcoming, non-cancelled bookings.
func (s *assistantService) findMatchingMeetings(ctx context.Context, t *turn, ref nlp.MeetingReference) ([]entity.Booking, error) {
	filter := assistantRepository.BookingFilter{
		Email: ref.Email,
		From:  t.now,
		To:    t.now.Add(lookaheadWindow),
		Limit: 10,
	}
	if ref.Email == "" {
		filter.Name = ref.Name
	}
	if ref.Date != nil {
		dayStart := ref.Date.Date
		if dayStart.After(filter.From) {
			filter.From = dayStart
		}
		filter.To = dayStart.AddDate(0, 0, 1)
	}

	found, err := t.client.Bookings.FindBookings(ctx, t.user.ID, filter)
	if err != nil {
		return nil, err
	}

	if ref.Time != nil {
		kept := found[:0]
		for _, b := range found {
			local := b.StartTime.In(t.loc)
			if local.Hour() == ref.Time.Hours && local.Minute() == ref.Time.Minutes {
				kept = append(kept, b)
			}
		}
		found = kept
	}

	if ref.Next && len(found) > 1 {
		found = found[:1]
	}
	return found, nil
}

func (s *assistantService) handleCancel(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	ref := t.parser.ParseMeetingReference(t.message)
	if ref.IsEmpty() {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: "Which meeting should I cancel? Tell me who it's with or when it is.",
		}, nil
	}

	matches, err := s.findMatchingMeetings(ctx, t, ref)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeNotFound,
			Message: "I couldn't find an upcoming meeting matching that.",
		}, nil
	case 1:
		return s.proposeCancel(ctx, t, summarize(matches[0]))
	default:
		return s.proposeSelection(ctx, t, assistant.SelectMeetingPayload{
			Action:     entity.PendingActionCancel,
			Candidates: summarizeAll(matches),
		}, "cancel")
	}
}

func (s *assistantService) proposeCancel(ctx context.Context, t *turn, meeting assistant.MeetingSummary) (*assistant.ScheduleResponse, error) {
	if err := s.savePending(ctx, t, entity.PendingActionCancel, assistant.CancelPayload{Booking: meeting}); err != nil {
		return nil, err
	}

	return &assistant.ScheduleResponse{
		Type:    assistant.TypeConfirmCancel,
		Message: fmt.Sprintf("Cancel %s? Reply yes to confirm or no to keep it.", describeMeeting(meeting, t.loc)),
		Data:    meeting,
	}, nil
}

func (s *assistantService) handleReschedule(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	ref, newDate, newTime := t.parser.ParseRescheduleRequest(t.message)
	if newDate == nil && newTime == nil {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: "When should I move it to? For example \"move my meeting with jane@acme.com to Friday at 3pm\".",
		}, nil
	}
	if ref.IsEmpty() {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: "Which meeting should I move? Tell me who it's with or when it is.",
		}, nil
	}

	matches, err := s.findMatchingMeetings(ctx, t, ref)
	if err != nil {
		return nil, err
	}

	switch len(matches) {
	case 0:
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeNotFound,
			Message: "I couldn't find an upcoming meeting matching that.",
		}, nil
	case 1:
		return s.proposeReschedule(ctx, t, summarize(matches[0]), newDate, newTime)
	default:
		payload := assistant.SelectMeetingPayload{
			Action:     entity.PendingActionReschedule,
			Candidates: summarizeAll(matches),
			NewDate:    newDate,
			NewTime:    newTime,
		}
		return s.proposeSelection(ctx, t, payload, "move")
	}
}

// rescheduleTarget keeps whatever part of the start the request did not mention, and the duration.
func rescheduleTarget(m assistant.MeetingSummary, newDate *nlp.ParsedDate, newTime *nlp.ParsedTime, loc *time.Location) (time.Time, time.Time) {
	current := m.StartTime.In(loc)
	day := time.Date(current.Year(), current.Month(), current.Day(), 0, 0, 0, 0, loc)
	if newDate != nil {
		d := newDate.Date.In(loc)
		day = time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	}

	clock := nlp.ParsedTime{Hours: current.Hour(), Minutes: current.Minute()}
	if newTime != nil {
		clock = *newTime
	}

	start := clock.On(day)
	return start, start.Add(m.EndTime.Sub(m.StartTime))
}

func (s *assistantService) proposeReschedule(
	ctx context.Context,
	t *turn,
	meeting assistant.MeetingSummary,
	newDate *nlp.ParsedDate,
	newTime *nlp.ParsedTime,
) (*assistant.ScheduleResponse, error) {
	newStart, newEnd := rescheduleTarget(meeting, newDate, newTime, t.loc)
	if !newStart.After(t.now) {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: fmt.Sprintf("%s has already passed. When should I move the meeting to?", formatWhen(newStart, t.loc)),
		}, nil
	}

	payload := assistant.ReschedulePayload{Booking: meeting, NewStart: newStart, NewEnd: newEnd}
	if err := s.savePending(ctx, t, entity.PendingActionReschedule, payload); err != nil {
		return nil, err
	}

	return &assistant.ScheduleResponse{
		Type: assistant.TypeConfirmReschedule,
		Message: fmt.Sprintf("Move %s to %s? Reply yes to confirm or no to keep it.",
			describeMeeting(meeting, t.loc), formatWhen(newStart, t.loc)),
		Data: payload,
	}, nil
}

func (s *assistantService) proposeSelection(
	ctx context.Context,
	t *turn,
	payload assistant.SelectMeetingPayload,
	verb string,
) (*assistant.ScheduleResponse, error) {
	if err := s.savePending(ctx, t, entity.PendingActionSelectMeeting, payload); err != nil {
		return nil, err
	}

	return &assistant.ScheduleResponse{
		Type: assistant.TypeSelectMeeting,
		Message: fmt.Sprintf("I found %d meetings. Which one should I %s? Reply with a number.%s",
			len(payload.Candidates), verb, numberedMeetings(payload.Candidates, t.loc)),
		Data: payload.Candidates,
	}, nil
}

// handleChoice answers a numbered reply to an open meeting selection or template prompt.
func (s *assistantService) handleChoice(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	pending, err := s.latestPending(ctx, t, entity.PendingActionSelectMeeting, entity.PendingActionTemplateChoice)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeInfo,
			Message: "There's nothing to choose from right now.",
		}, nil
	}

	if pending.ActionType == entity.PendingActionTemplateChoice {
		return s.resolveTemplateChoice(ctx, t, *pending)
	}
	return s.resolveMeetingSelection(ctx, t, *pending)
}

func (s *assistantService) resolveMeetingSelection(ctx context.Context, t *turn, pending entity.PendingAIAction) (*assistant.ScheduleResponse, error) {
	var payload assistant.SelectMeetingPayload
	if err := unmarshalPayload(pending, &payload); err != nil {
		return nil, err
	}

	idx, ok := pickIndex(t.message, len(payload.Candidates))
	if !ok {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: fmt.Sprintf("Please reply with a number between 1 and %d.", len(payload.Candidates)),
			Data:    payload.Candidates,
		}, nil
	}

	chosen := payload.Candidates[idx]
	if err := t.client.PendingActions.DeletePendingAction(ctx, t.user.ID, entity.PendingActionSelectMeeting); err != nil {
		return nil, err
	}

	if payload.Action == entity.PendingActionReschedule {
		return s.proposeReschedule(ctx, t, chosen, payload.NewDate, payload.NewTime)
	}
	return s.proposeCancel(ctx, t, chosen)
}

// pickIndex maps a 1-based or "last" reply onto a 0-based index.
func pickIndex(message string, n int) (int, bool) {
	choice, ok := nlp.ExtractChoiceNumber(message)
	if !ok {
		return 0, false
	}
	if choice == -1 {
		choice = n
	}
	if choice < 1 || choice > n {
		return 0, false
	}
	return choice - 1, true
}

func (s *assistantService) handleConfirmYes(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	pending, err := s.latestPending(ctx, t, entity.PendingActionCancel, entity.PendingActionReschedule)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return &assistant.ScheduleResponse{Type: assistant.TypeInfo, Message: notSureMessage}, nil
	}

	client, err := s.assistantRepo.NewClient(true)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = client.Rollback()
	}()

	if err := client.PendingActions.DeletePendingAction(ctx, t.user.ID, pending.ActionType); err != nil {
		return nil, err
	}

	var res *assistant.ScheduleResponse
	switch pending.ActionType {
	case entity.PendingActionCancel:
		res, err = s.applyCancel(ctx, t, client.Bookings, pending.ActionData)
	default:
		res, err = s.applyReschedule(ctx, t, client.Bookings, pending.ActionData)
	}
	if err != nil && !errors.Is(err, assistant.ErrBookingNotFound) {
		return nil, err
	}
	if errors.Is(err, assistant.ErrBookingNotFound) {
		res = &assistant.ScheduleResponse{
			Type:    assistant.TypeNotFound,
			Message: "That meeting no longer exists, so there was nothing to change.",
		}
	}

	if err := client.Commit(); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id":  contextPkg.GetRequestID(ctx),
		"user_id":     t.user.ID,
		"action_type": pending.ActionType,
	}).Info("Pending assistant action applied")

	return res, nil
}

type bookingWriter interface {
	UpdateBookingStatus(ctx context.Context, userID, id, status string) error
	RescheduleBooking(ctx context.Context, userID, id string, start, end time.Time) error
}

func (s *assistantService) applyCancel(ctx context.Context, t *turn, bookings bookingWriter, data []byte) (*assistant.ScheduleResponse, error) {
	var payload assistant.CancelPayload
	if err := jsoniter.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	if err := bookings.UpdateBookingStatus(ctx, t.user.ID, payload.Booking.ID, entity.BookingStatusCancelled); err != nil {
		return nil, err
	}

	meeting := payload.Booking
	meeting.Status = entity.BookingStatusCancelled
	return &assistant.ScheduleResponse{
		Type:    assistant.TypeSuccess,
		Message: fmt.Sprintf("Done. I cancelled %s.", describeMeeting(meeting, t.loc)),
		Data:    meeting,
	}, nil
}

func (s *assistantService) applyReschedule(ctx context.Context, t *turn, bookings bookingWriter, data []byte) (*assistant.ScheduleResponse, error) {
	var payload assistant.ReschedulePayload
	if err := jsoniter.Unmarshal(data, &payload); err != nil {
		return nil, err
	}

	if err := bookings.RescheduleBooking(ctx, t.user.ID, payload.Booking.ID, payload.NewStart, payload.NewEnd); err != nil {
		return nil, err
	}

	meeting := payload.Booking
	meeting.StartTime = payload.NewStart
	meeting.EndTime = payload.NewEnd
	return &assistant.ScheduleResponse{
		Type:    assistant.TypeSuccess,
		Message: fmt.Sprintf("Done. %q with %s is now on %s.", meeting.Title, attendeeLabel(meeting), formatWhen(meeting.StartTime, t.loc)),
		Data:    meeting,
	}, nil
}

func (s *assistantService) handleConfirmNo(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	pending, err := s.latestPending(ctx, t,
		entity.PendingActionCancel,
		entity.PendingActionReschedule,
		entity.PendingActionSelectMeeting,
		entity.PendingActionTemplateChoice,
	)
	if err != nil {
		return nil, err
	}
	if pending == nil {
		return &assistant.ScheduleResponse{Type: assistant.TypeInfo, Message: notSureMessage}, nil
	}

	if err := t.client.PendingActions.DeletePendingAction(ctx, t.user.ID, pending.ActionType); err != nil {
		return nil, err
	}

	return &assistant.ScheduleResponse{
		Type:    assistant.TypeInfo,
		Message: "Okay, I left everything as it was.",
	}, nil
}

func unmarshalPayload(pending entity.PendingAIAction, v interface{}) error {
	return jsoniter.Unmarshal(pending.ActionData, v)
}
