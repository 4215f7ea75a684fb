package assistantService

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	"ScheduleSync/pkg/metrics"
	"ScheduleSync/pkg/nlp"
	"ScheduleSync/pkg/response"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const defaultDuration = 30

func (s *assistantService) handleBookMeeting(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error) {
	details := t.parser.ParseBookingDetails(t.message)

	if missing := details.Missing(); len(missing) > 0 {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: fmt.Sprintf("I can book that. I still need the attendee's %s.", joinFields(missingLabels(missing))),
			Data: map[string]interface{}{
				"missing": missing,
				"details": details,
			},
		}, nil
	}

	duration := details.Duration
	if duration <= 0 {
		duration = defaultDuration
	}
	start := details.Time.On(details.Date.Date.In(t.loc))
	if !start.After(t.now) {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: fmt.Sprintf("%s has already passed. When should the meeting be?", formatWhen(start, t.loc)),
		}, nil
	}

	blocked, err := s.rulesService.ShouldBlockBooking(ctx, t.user.ID, details.AttendeeEmail)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"user_id":    t.user.ID,
			"error":      err.Error(),
		}).Warn("Block preflight failed, continuing")
	}
	if blocked {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeBlocked,
			Message: fmt.Sprintf("Meetings with %s are blocked by one of your scheduling rules.", details.AttendeeEmail),
		}, nil
	}

	preview := assistant.BookingPreview{
		Title:         details.Title,
		StartTime:     start,
		EndTime:       start.Add(time.Duration(duration) * time.Minute),
		AttendeeEmail: details.AttendeeEmail,
		AttendeeName:  details.AttendeeName,
		Duration:      duration,
		MeetingType:   details.MeetingType,
	}

	templates, err := t.client.Templates.ListTemplates(ctx, t.user.ID)
	if err != nil {
		return nil, err
	}
	if len(templates) > 0 {
		return s.offerTemplates(ctx, t, preview, templates)
	}

	return confirmBookingReply(preview, t.loc), nil
}

func missingLabels(missing []string) []string {
	labels := make([]string, 0, len(missing))
	for _, m := range missing {
		switch m {
		case "email":
			labels = append(labels, "email address")
		default:
			labels = append(labels, "meeting "+m)
		}
	}
	return labels
}

func confirmBookingReply(preview assistant.BookingPreview, loc *time.Location) *assistant.ScheduleResponse {
	who := preview.AttendeeName
	if who == "" {
		who = preview.AttendeeEmail
	}
	return &assistant.ScheduleResponse{
		Type: assistant.TypeConfirmBooking,
		Message: fmt.Sprintf("Book %q with %s on %s for %d minutes?",
			preview.Title, who, formatWhen(preview.StartTime, loc), preview.Duration),
		Data: preview,
	}
}

func (s *assistantService) offerTemplates(
	ctx context.Context,
	t *turn,
	preview assistant.BookingPreview,
	templates []entity.EmailTemplate,
) (*assistant.ScheduleResponse, error) {
	payload := assistant.TemplateChoicePayload{Booking: preview}
	for _, tpl := range templates {
		payload.Templates = append(payload.Templates, assistant.TemplateOption{ID: tpl.ID, Name: tpl.Name})
	}
	if err := s.savePending(ctx, t, entity.PendingActionTemplateChoice, payload); err != nil {
		return nil, err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Which email template should I use for %q?", preview.Title)
	for i, tpl := range payload.Templates {
		fmt.Fprintf(&b, "\n%d. %s", i+1, tpl.Name)
	}
	fmt.Fprintf(&b, "\n%d. No template", len(payload.Templates)+1)

	return &assistant.ScheduleResponse{
		Type:    assistant.TypeTemplateChoice,
		Message: b.String(),
		Data:    payload,
	}, nil
}

// resolveTemplateChoice turns a template pick into the booking preview. The last number means no template.
func (s *assistantService) resolveTemplateChoice(ctx context.Context, t *turn, pending entity.PendingAIAction) (*assistant.ScheduleResponse, error) {
	var payload assistant.TemplateChoicePayload
	if err := unmarshalPayload(pending, &payload); err != nil {
		return nil, err
	}

	options := len(payload.Templates) + 1
	idx, ok := pickIndex(t.message, options)
	if !ok && strings.Contains(nlp.Normalize(t.message), "no template") {
		idx, ok = options-1, true
	}
	if !ok {
		return &assistant.ScheduleResponse{
			Type:    assistant.TypeClarification,
			Message: fmt.Sprintf("Please reply with a number between 1 and %d.", options),
			Data:    payload,
		}, nil
	}

	if err := t.client.PendingActions.DeletePendingAction(ctx, t.user.ID, entity.PendingActionTemplateChoice); err != nil {
		return nil, err
	}

	preview := payload.Booking
	if idx < len(payload.Templates) {
		preview.TemplateID = payload.Templates[idx].ID
	}
	return confirmBookingReply(preview, t.loc), nil
}

func (s *assistantService) ConfirmBooking(
	ctx context.Context,
	login entity.UserLoginData,
	req assistant.ConfirmBookingRequest,
) (*assistant.ConfirmBookingResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	duration := req.Duration
	end := req.EndTime
	switch {
	case duration <= 0 && end.IsZero():
		duration = defaultDuration
		end = req.StartTime.Add(time.Duration(duration) * time.Minute)
	case duration <= 0:
		duration = int(end.Sub(req.StartTime).Minutes())
	case end.IsZero():
		end = req.StartTime.Add(time.Duration(duration) * time.Minute)
	}
	if !end.After(req.StartTime) || duration <= 0 {
		return nil, assistant.ErrInvalidTimeRange
	}
	if !req.StartTime.After(s.now()) {
		return nil, assistant.ErrBookingInPast
	}

	name := req.AttendeeName
	if name == "" {
		name = nlp.NameFromEmail(req.AttendeeEmail)
	}
	title := req.Title
	if title == "" {
		title = "Meeting with " + name
	}

	candidate := entity.BookingCandidate{
		AttendeeName:  name,
		AttendeeEmail: strings.ToLower(strings.TrimSpace(req.AttendeeEmail)),
		StartTime:     req.StartTime,
		EndTime:       end,
		UserID:        login.ID,
		TeamID:        req.TeamID,
		Title:         title,
		Notes:         req.Notes,
		Duration:      duration,
		Status:        entity.BookingStatusConfirmed,
	}

	result := s.rulesService.ApplyRules(ctx, login.ID, candidate)
	if result.Blocked {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    login.ID,
			"reason":     result.BlockReason,
		}).Info("Booking blocked by scheduling rule")
		return nil, response.NewBlockedError(result.BlockReason)
	}

	modified := result.ModifiedData
	if modified.Status == "" {
		modified.Status = entity.BookingStatusConfirmed
	}

	now := s.now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return nil, err
	}

	booking := entity.Booking{
		ID:            id,
		UserID:        login.ID,
		TeamID:        modified.TeamID,
		Title:         modified.Title,
		AttendeeName:  modified.AttendeeName,
		AttendeeEmail: modified.AttendeeEmail,
		StartTime:     modified.StartTime,
		EndTime:       modified.EndTime,
		Duration:      modified.DurationMinutes(),
		Notes:         modified.Notes,
		Status:        modified.Status,
		Location:      modified.Location,
		Priority:      modified.Priority,
		BufferMinutes: modified.BufferMinutes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	client, err := s.assistantRepo.NewClient(false)
	if err != nil {
		return nil, err
	}
	if err := client.Bookings.CreateBooking(ctx, booking); err != nil {
		return nil, err
	}
	metrics.RecordBookingCreated(booking.Status)

	if modified.NotifyEmail != "" {
		s.notify(ctx, modified.NotifyEmail, booking)
	}

	return &assistant.ConfirmBookingResponse{
		Success:      true,
		Booking:      booking,
		AppliedRules: result.AppliedRules,
		AutoApproved: result.AutoApproved,
	}, nil
}

// notify never fails the booking; a delivery problem is only logged.
func (s *assistantService) notify(ctx context.Context, to string, booking entity.Booking) {
	entry := s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"booking_id": booking.ID,
		"notify":     to,
	})

	if s.notifier == nil {
		entry.Info("Booking notification requested, no mailer configured")
		return
	}
	if err := s.notifier.SendBookingNotification(ctx, to, booking); err != nil {
		entry.WithField("error", err.Error()).Warn("Booking notification failed")
		return
	}
	entry.Info("Booking notification sent")
}
