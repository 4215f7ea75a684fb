package rulesService

import (
	"ScheduleSync/internal/api/rules"
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	"ScheduleSync/pkg/metrics"
	ruleEngine "ScheduleSync/pkg/rules"
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
)

func (s *rulesService) ActiveRules(ctx context.Context, userID string) ([]entity.SchedulingRule, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.cache != nil {
		cached, ok, err := s.cache.GetRules(ctx, userID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Rule cache read failed, falling back to database")
		} else if ok {
			return cached, nil
		}
	}

	client, err := s.rulesRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	active, err := client.Rules.ListActiveRules(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetRules(ctx, userID, active); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Rule cache write failed")
		}
	}

	return active, nil
}

func (s *rulesService) ListRules(ctx context.Context, userID string) ([]rules.RuleResponse, error) {
	client, err := s.rulesRepo.NewClient(false)
	if err != nil {
		return nil, err
	}

	all, err := client.Rules.ListRules(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]rules.RuleResponse, 0, len(all))
	for _, r := range all {
		out = append(out, rules.RuleResponse{SchedulingRule: r, Description: ruleEngine.Describe(r)})
	}
	return out, nil
}

func (s *rulesService) CreateRule(ctx context.Context, userID string, req rules.CreateRuleRequest) (entity.SchedulingRule, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	return s.create(ctx, entity.SchedulingRule{
		UserID:       userID,
		Name:         strings.TrimSpace(req.Name),
		TriggerType:  entity.TriggerType(req.TriggerType),
		TriggerValue: strings.TrimSpace(req.TriggerValue),
		ActionType:   entity.ActionType(req.ActionType),
		ActionValue:  strings.TrimSpace(req.ActionValue),
		IsActive:     active,
		Priority:     req.Priority,
	})
}

func (s *rulesService) CreateFromDraft(ctx context.Context, userID string, draft ruleEngine.Draft) (entity.SchedulingRule, error) {
	return s.create(ctx, entity.SchedulingRule{
		UserID:       userID,
		Name:         draft.Name,
		TriggerType:  draft.TriggerType,
		TriggerValue: draft.TriggerValue,
		ActionType:   draft.ActionType,
		ActionValue:  draft.ActionValue,
		IsActive:     true,
		Priority:     draft.Priority,
	})
}

func (s *rulesService) create(ctx context.Context, rule entity.SchedulingRule) (entity.SchedulingRule, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if rule.Name == "" {
		rule.Name = ruleEngine.Describe(rule)
	}
	if err := validate(rule); err != nil {
		return entity.SchedulingRule{}, err
	}

	rule.CreatedAt = s.now()
	id, err := s.utils.NewULIDFromTimestamp(rule.CreatedAt)
	if err != nil {
		return entity.SchedulingRule{}, err
	}
	rule.ID = id

	client, err := s.rulesRepo.NewClient(false)
	if err != nil {
		return entity.SchedulingRule{}, err
	}
	if err := client.Rules.CreateRule(ctx, rule); err != nil {
		return entity.SchedulingRule{}, err
	}

	s.invalidate(ctx, rule.UserID)

	s.log.WithFields(logrus.Fields{
		"request_id":   requestID,
		"rule_id":      rule.ID,
		"trigger_type": rule.TriggerType,
		"action_type":  rule.ActionType,
	}).Info("Scheduling rule created")

	return rule, nil
}

func (s *rulesService) UpdateRule(ctx context.Context, userID, id string, req rules.UpdateRuleRequest) (entity.SchedulingRule, error) {
	client, err := s.rulesRepo.NewClient(true)
	if err != nil {
		return entity.SchedulingRule{}, err
	}
	defer func() {
		_ = client.Rollback()
	}()

	rule, err := client.Rules.GetRule(ctx, userID, id)
	if err != nil {
		return entity.SchedulingRule{}, err
	}

	if req.Name != nil {
		rule.Name = strings.TrimSpace(*req.Name)
	}
	if req.TriggerType != nil {
		rule.TriggerType = entity.TriggerType(*req.TriggerType)
	}
	if req.TriggerValue != nil {
		rule.TriggerValue = strings.TrimSpace(*req.TriggerValue)
	}
	if req.ActionType != nil {
		rule.ActionType = entity.ActionType(*req.ActionType)
	}
	if req.ActionValue != nil {
		rule.ActionValue = strings.TrimSpace(*req.ActionValue)
	}
	if req.IsActive != nil {
		rule.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		rule.Priority = *req.Priority
	}

	if rule.Name == "" {
		return entity.SchedulingRule{}, rules.ErrRuleNameRequired
	}
	if err := validate(rule); err != nil {
		return entity.SchedulingRule{}, err
	}

	if err := client.Rules.UpdateRule(ctx, rule); err != nil {
		return entity.SchedulingRule{}, err
	}
	if err := client.Commit(); err != nil {
		return entity.SchedulingRule{}, err
	}

	s.invalidate(ctx, userID)
	return rule, nil
}

func (s *rulesService) DeleteRule(ctx context.Context, userID, id string) error {
	client, err := s.rulesRepo.NewClient(false)
	if err != nil {
		return err
	}
	if err := client.Rules.DeleteRule(ctx, userID, id); err != nil {
		return err
	}

	s.invalidate(ctx, userID)
	return nil
}

func (s *rulesService) ApplyRules(ctx context.Context, userID string, booking entity.BookingCandidate) ruleEngine.Result {
	active, err := s.ActiveRules(ctx, userID)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error("Failed to load scheduling rules, continuing with unmodified booking")
		return ruleEngine.Result{ModifiedData: booking, AppliedRules: []ruleEngine.AppliedRule{}}
	}

	result := s.engine.Apply(ctx, active, booking)
	for _, applied := range result.AppliedRules {
		metrics.RecordRuleApplied(string(applied.ActionType))
	}
	if result.Blocked {
		metrics.RecordBookingBlocked()
	}
	return result
}

func (s *rulesService) TestRules(ctx context.Context, userID string, req rules.TestRulesRequest) (ruleEngine.Result, error) {
	active, err := s.ActiveRules(ctx, userID)
	if err != nil {
		return ruleEngine.Result{}, err
	}
	return s.engine.Apply(ctx, active, req.Candidate(userID)), nil
}

func (s *rulesService) ShouldBlockBooking(ctx context.Context, userID, email string) (bool, error) {
	if strings.TrimSpace(email) == "" {
		return false, rules.ErrEmailRequired
	}

	client, err := s.rulesRepo.NewClient(false)
	if err != nil {
		return false, err
	}
	return client.Rules.ShouldBlock(ctx, userID, email)
}

func (s *rulesService) invalidate(ctx context.Context, userID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"user_id":    userID,
			"error":      err.Error(),
		}).Warn("Failed to invalidate rule cache")
	}
}

func validate(rule entity.SchedulingRule) error {
	err := ruleEngine.Validate(rule)
	switch {
	case err == nil:
		return nil
	case !rule.TriggerType.IsValid():
		return rules.ErrInvalidTrigger
	case !rule.ActionType.IsValid():
		return rules.ErrInvalidAction
	default:
		return fmt.Errorf("%w: %s", rules.ErrInvalidRuleValue, err.Error())
	}
}
