package assistantService

import (
	"ScheduleSync/internal/api/assistant"
	assistantRepository "ScheduleSync/internal/api/assistant/repository"
	rulesService "ScheduleSync/internal/api/rules/service"
	"ScheduleSync/internal/entity"
	chatGPT "ScheduleSync/pkg/openai"
	"ScheduleSync/pkg/smtp"
	"ScheduleSync/pkg/utils"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type IAssistantService interface {
	// ProcessMessage classifies one chat message and answers it, possibly opening or
	// resolving a pending action. Every call counts against the user's AI query usage.
	ProcessMessage(ctx context.Context, user entity.UserLoginData, req assistant.ScheduleRequest) (*assistant.ScheduleResponse, error)
	ConfirmBooking(ctx context.Context, user entity.UserLoginData, req assistant.ConfirmBookingRequest) (*assistant.ConfirmBookingResponse, error)
	Suggest(ctx context.Context, userID string) (*assistant.SuggestResponse, error)

	SweepExpiredPendingActions(ctx context.Context) (int64, error)
}

type Config struct {
	AppURL           string
	PendingActionTTL time.Duration
	QuickLinkTTL     time.Duration
	DefaultLocation  *time.Location
}

type assistantService struct {
	log           *logrus.Logger
	assistantRepo assistantRepository.Repository
	rulesService  rulesService.IRulesService
	chatGPT       chatGPT.IChatGPT
	notifier      smtp.INotifier
	utils         utils.IUtils
	config        Config
	now           func() time.Time
}

// NewAssistantService builds the chat assistant. chat may be nil, in which case
// unrecognised messages get the built-in help text instead of an LLM reply. A nil
// notifier only logs send_notification requests.
func NewAssistantService(
	log *logrus.Logger,
	assistantRepo assistantRepository.Repository,
	rulesService rulesService.IRulesService,
	chat chatGPT.IChatGPT,
	notifier smtp.INotifier,
	utils utils.IUtils,
	config Config,
) IAssistantService {
	if config.PendingActionTTL <= 0 {
		config.PendingActionTTL = 5 * time.Minute
	}
	if config.QuickLinkTTL <= 0 {
		config.QuickLinkTTL = 24 * time.Hour
	}
	if config.DefaultLocation == nil {
		config.DefaultLocation = time.UTC
	}

	return &assistantService{
		log:           log,
		assistantRepo: assistantRepo,
		rulesService:  rulesService,
		chatGPT:       chat,
		notifier:      notifier,
		utils:         utils,
		config:        config,
		now:           time.Now,
	}
}
