package rulesService

import (
	"ScheduleSync/internal/api/rules"
	rulesRepository "ScheduleSync/internal/api/rules/repository"
	"ScheduleSync/internal/entity"
	"ScheduleSync/pkg/redis"
	ruleEngine "ScheduleSync/pkg/rules"
	"ScheduleSync/pkg/utils"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type IRulesService interface {
	ActiveRules(ctx context.Context, userID string) ([]entity.SchedulingRule, error)
	ListRules(ctx context.Context, userID string) ([]rules.RuleResponse, error)
	CreateRule(ctx context.Context, userID string, req rules.CreateRuleRequest) (entity.SchedulingRule, error)
	CreateFromDraft(ctx context.Context, userID string, draft ruleEngine.Draft) (entity.SchedulingRule, error)
	UpdateRule(ctx context.Context, userID, id string, req rules.UpdateRuleRequest) (entity.SchedulingRule, error)
	DeleteRule(ctx context.Context, userID, id string) error

	// ApplyRules never fails; a rule lookup or evaluation problem leaves the booking untouched.
	ApplyRules(ctx context.Context, userID string, booking entity.BookingCandidate) ruleEngine.Result
	TestRules(ctx context.Context, userID string, req rules.TestRulesRequest) (ruleEngine.Result, error)
	ShouldBlockBooking(ctx context.Context, userID, email string) (bool, error)
}

type rulesService struct {
	log       *logrus.Logger
	rulesRepo rulesRepository.Repository
	cache     redis.IRuleCache
	engine    *ruleEngine.Engine
	utils     utils.IUtils
	now       func() time.Time
}

// NewRulesService wires the rule store. cache may be nil, in which case every lookup reads Postgres.
func NewRulesService(
	log *logrus.Logger,
	rulesRepo rulesRepository.Repository,
	cache redis.IRuleCache,
	engine *ruleEngine.Engine,
	utils utils.IUtils,
) IRulesService {
	return &rulesService{
		log:       log,
		rulesRepo: rulesRepo,
		cache:     cache,
		engine:    engine,
		utils:     utils,
		now:       time.Now,
	}
}
