package rulesRepository

import (
	"ScheduleSync/internal/api/rules"
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

type RuleDB struct {
	ID           sql.NullString `db:"id"`
	UserID       sql.NullString `db:"user_id"`
	Name         sql.NullString `db:"name"`
	TriggerType  sql.NullString `db:"trigger_type"`
	TriggerValue sql.NullString `db:"trigger_value"`
	ActionType   sql.NullString `db:"action_type"`
	ActionValue  sql.NullString `db:"action_value"`
	IsActive     sql.NullBool   `db:"is_active"`
	Priority     sql.NullInt64  `db:"priority"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (r *ruleRepository) ListActiveRules(ctx context.Context, userID string) ([]entity.SchedulingRule, error) {
	return r.list(ctx, queryListActiveRules, userID, "ListActiveRules")
}

func (r *ruleRepository) ListRules(ctx context.Context, userID string) ([]entity.SchedulingRule, error) {
	return r.list(ctx, queryListRules, userID, "ListRules")
}

func (r *ruleRepository) list(ctx context.Context, q, userID, op string) ([]entity.SchedulingRule, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(q, map[string]interface{}{"user_id": userID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var rows []RuleDB
	if err := r.q.SelectContext(ctx, &rows, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    userID,
			"error":      err.Error(),
		}).Error(op + " execution err")
		return nil, err
	}

	out := make([]entity.SchedulingRule, 0, len(rows))
	for _, row := range rows {
		out = append(out, r.makeRule(row))
	}
	return out, nil
}

func (r *ruleRepository) GetRule(ctx context.Context, userID, id string) (entity.SchedulingRule, error) {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryGetRule, map[string]interface{}{
		"id":      id,
		"user_id": userID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetRule named query preparation err")
		return entity.SchedulingRule{}, err
	}
	query = r.q.Rebind(query)

	var row RuleDB
	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.SchedulingRule{}, rules.ErrRuleNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"rule_id":    id,
			"error":      err.Error(),
		}).Error("GetRule execution err")
		return entity.SchedulingRule{}, err
	}

	return r.makeRule(row), nil
}

func (r *ruleRepository) CreateRule(ctx context.Context, rule entity.SchedulingRule) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryCreateRule, ruleArgs(rule))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateRule")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(ctx, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Database error when creating scheduling rule")
		return err
	}

	return nil
}

func (r *ruleRepository) UpdateRule(ctx context.Context, rule entity.SchedulingRule) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryUpdateRule, ruleArgs(rule))
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for UpdateRule")
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"rule_id":    rule.ID,
			"error":      err.Error(),
		}).Error("Database error when updating scheduling rule")
		return err
	}

	return r.expectOneRow(res, requestID, rule.ID)
}

func (r *ruleRepository) DeleteRule(ctx context.Context, userID, id string) error {
	requestID := contextPkg.GetRequestID(ctx)

	query, args, err := sqlx.Named(queryDeleteRule, map[string]interface{}{
		"id":      id,
		"user_id": userID,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for DeleteRule")
		return err
	}
	query = r.q.Rebind(query)

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"rule_id":    id,
			"error":      err.Error(),
		}).Error("Database error when deleting scheduling rule")
		return err
	}

	return r.expectOneRow(res, requestID, id)
}

// ShouldBlock is the pre-flight check used before a booking reaches the full rule pipeline.
func (r *ruleRepository) ShouldBlock(ctx context.Context, userID, email string) (bool, error) {
	requestID := contextPkg.GetRequestID(ctx)

	email = strings.ToLower(strings.TrimSpace(email))
	domain := ""
	if at := strings.LastIndex(email, "@"); at >= 0 {
		domain = email[at+1:]
	}

	query, args, err := sqlx.Named(queryShouldBlock, map[string]interface{}{
		"user_id": userID,
		"email":   email,
		"domain":  domain,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ShouldBlock named query preparation err")
		return false, err
	}
	query = r.q.Rebind(query)

	var blocked bool
	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&blocked); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ShouldBlock execution err")
		return false, err
	}

	return blocked, nil
}

func (r *ruleRepository) expectOneRow(res sql.Result, requestID, id string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to read affected rows")
		return err
	}
	if affected == 0 {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"rule_id":    id,
		}).Debug("No scheduling rule matched")
		return rules.ErrRuleNotFound
	}
	return nil
}

func ruleArgs(rule entity.SchedulingRule) map[string]interface{} {
	return map[string]interface{}{
		"id":            rule.ID,
		"user_id":       rule.UserID,
		"name":          rule.Name,
		"trigger_type":  string(rule.TriggerType),
		"trigger_value": rule.TriggerValue,
		"action_type":   string(rule.ActionType),
		"action_value":  rule.ActionValue,
		"is_active":     rule.IsActive,
		"priority":      rule.Priority,
		"created_at":    rule.CreatedAt,
	}
}

func (r *ruleRepository) makeRule(row RuleDB) entity.SchedulingRule {
	return entity.SchedulingRule{
		ID:           row.ID.String,
		UserID:       row.UserID.String,
		Name:         row.Name.String,
		TriggerType:  entity.TriggerType(row.TriggerType.String),
		TriggerValue: row.TriggerValue.String,
		ActionType:   entity.ActionType(row.ActionType.String),
		ActionValue:  row.ActionValue.String,
		IsActive:     row.IsActive.Bool,
		Priority:     int(row.Priority.Int64),
		CreatedAt:    row.CreatedAt,
	}
}
