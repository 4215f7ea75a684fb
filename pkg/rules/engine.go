package rules

import (
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type AppliedRule struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	TriggerType entity.TriggerType `json:"trigger_type"`
	ActionType  entity.ActionType  `json:"action_type"`
	ActionValue string             `json:"action_value,omitempty"`
}

type Result struct {
	ModifiedData entity.BookingCandidate `json:"modifiedData"`
	AppliedRules []AppliedRule           `json:"appliedRules"`
	Blocked      bool                    `json:"blocked"`
	BlockReason  string                  `json:"blockReason,omitempty"`
	AutoApproved bool                    `json:"autoApproved"`
}

// Engine evaluates a user's condition -> action rules against a booking candidate.
// Hour and weekday triggers are read in the engine's location.
type Engine struct {
	log *logrus.Logger
	loc *time.Location
}

func NewEngine(log *logrus.Logger, loc *time.Location) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{log: log, loc: loc}
}

// SortRules orders rules by priority descending, then creation time ascending.
func SortRules(rules []entity.SchedulingRule) []entity.SchedulingRule {
	sorted := make([]entity.SchedulingRule, len(rules))
	copy(sorted, rules)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Priority != sorted[j].Priority {
			return sorted[i].Priority > sorted[j].Priority
		}
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})
	return sorted
}

// Apply runs every active rule in order. A block stops evaluation. Any failure while
// evaluating returns the booking untouched and unblocked so a broken rule never stops scheduling.
func (e *Engine) Apply(ctx context.Context, rules []entity.SchedulingRule, booking entity.BookingCandidate) (result Result) {
	requestID := contextPkg.GetRequestID(ctx)
	unmodified := Result{ModifiedData: booking, AppliedRules: []AppliedRule{}}

	defer func() {
		if r := recover(); r != nil {
			e.logError(requestID, fmt.Errorf("panic: %v", r), "")
			result = unmodified
		}
	}()

	result = Result{ModifiedData: booking, AppliedRules: []AppliedRule{}}
	f := e.factsOf(booking)

	for _, rule := range SortRules(rules) {
		if !rule.IsActive {
			continue
		}

		matched, err := e.matches(rule, f)
		if err != nil {
			e.logError(requestID, err, rule.ID)
			return unmodified
		}
		if !matched {
			continue
		}

		if err := e.apply(rule, &result); err != nil {
			e.logError(requestID, err, rule.ID)
			return unmodified
		}

		result.AppliedRules = append(result.AppliedRules, AppliedRule{
			ID:          rule.ID,
			Name:        rule.Name,
			TriggerType: rule.TriggerType,
			ActionType:  rule.ActionType,
			ActionValue: rule.ActionValue,
		})

		if result.Blocked {
			break
		}

		// later triggers see the rewritten booking
		f = e.factsOf(result.ModifiedData)
	}

	if e.log != nil && len(result.AppliedRules) > 0 {
		e.log.WithFields(logrus.Fields{
			"request_id":    requestID,
			"applied_rules": len(result.AppliedRules),
			"blocked":       result.Blocked,
			"auto_approved": result.AutoApproved,
		}).Debug("Scheduling rules applied")
	}

	return result
}

func (e *Engine) logError(requestID string, err error, ruleID string) {
	if e.log == nil {
		return
	}
	e.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"rule_id":    ruleID,
		"error":      err.Error(),
	}).Error("Scheduling rule evaluation failed, continuing with unmodified booking")
}

type facts struct {
	email    string
	domain   string
	text     string
	minutes  int
	weekday  time.Weekday
	duration int
}

func (e *Engine) factsOf(b entity.BookingCandidate) facts {
	email := strings.ToLower(strings.TrimSpace(b.AttendeeEmail))
	domain := ""
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain = email[at+1:]
	}
	start := b.StartTime.In(e.loc)
	return facts{
		email:    email,
		domain:   domain,
		text:     strings.ToLower(strings.Join([]string{b.Title, b.Notes, b.AttendeeEmail}, " ")),
		minutes:  start.Hour()*60 + start.Minute(),
		weekday:  start.Weekday(),
		duration: b.DurationMinutes(),
	}
}
