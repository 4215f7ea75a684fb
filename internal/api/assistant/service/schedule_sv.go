package assistantService

import (
	"ScheduleSync/internal/api/assistant"
	assistantRepository "ScheduleSync/internal/api/assistant/repository"
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	"ScheduleSync/pkg/metrics"
	"ScheduleSync/pkg/nlp"
	chatGPT "ScheduleSync/pkg/openai"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// turn is everything one message is answered with.
type turn struct {
	user    entity.User
	message string
	history []chatGPT.ConversationMessage
	loc     *time.Location
	now     time.Time
	parser  *nlp.Parser
	client  assistantRepository.Client
}

type intentHandler func(ctx context.Context, t *turn) (*assistant.ScheduleResponse, error)

func (s *assistantService) handlerFor(intent nlp.Intent) intentHandler {
	switch intent {
	case nlp.IntentCancel:
		return s.handleCancel
	case nlp.IntentReschedule:
		return s.handleReschedule
	case nlp.IntentCheckAvailability:
		return s.handleCheckAvailability
	case nlp.IntentFindMeetings:
		return s.handleFindMeetings
	case nlp.IntentAnalytics:
		return s.handleAnalytics
	case nlp.IntentShowRules:
		return s.handleShowRules
	case nlp.IntentCreateRule:
		return s.handleCreateRule
	case nlp.IntentExplainRules:
		return s.handleExplainRules
	case nlp.IntentGetLink:
		return s.handleGetLink
	case nlp.IntentUpcoming:
		return s.handleUpcoming
	case nlp.IntentCreateQuickLink:
		return s.handleCreateQuickLink
	case nlp.IntentTeamLinks:
		return s.handleTeamLinks
	case nlp.IntentPlanInfo:
		return s.handlePlanInfo
	case nlp.IntentBookMeeting:
		return s.handleBookMeeting
	case nlp.IntentTemplateChoice:
		return s.handleChoice
	case nlp.IntentConfirmYes:
		return s.handleConfirmYes
	case nlp.IntentConfirmNo:
		return s.handleConfirmNo
	default:
		return s.handleGeneral
	}
}

func (s *assistantService) ProcessMessage(
	ctx context.Context,
	login entity.UserLoginData,
	req assistant.ScheduleRequest,
) (*assistant.ScheduleResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	client, err := s.assistantRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	user, err := client.Users.GetUser(ctx, login.ID)
	if err != nil {
		return nil, err
	}

	used, err := client.Users.IncrementAIQueries(ctx, login.ID)
	if err != nil {
		return nil, err
	}
	user.AIQueriesUsed = used

	loc := user.Location(s.config.DefaultLocation)
	t := &turn{
		user:    user,
		message: req.Message,
		history: req.History,
		loc:     loc,
		now:     s.now().In(loc),
		parser:  nlp.NewParser(loc, s.now),
		client:  client,
	}

	intent := nlp.DetectIntent(req.Message)
	metrics.RecordIntent(string(intent))

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    login.ID,
		"intent":     intent,
	}).Debug("Assistant message classified")

	return s.handlerFor(intent)(ctx, t)
}

func (s *assistantService) Suggest(_ context.Context, _ string) (*assistant.SuggestResponse, error) {
	return &assistant.SuggestResponse{Suggestions: []string{}}, nil
}

func (s *assistantService) SweepExpiredPendingActions(ctx context.Context) (int64, error) {
	client, err := s.assistantRepo.NewClient(false)
	if err != nil {
		return 0, err
	}

	n, err := client.PendingActions.DeleteExpiredPendingActions(ctx)
	if err != nil {
		return 0, err
	}
	metrics.RecordPendingActionsSwept(n)
	return n, nil
}
