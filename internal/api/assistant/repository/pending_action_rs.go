package assistantRepository

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

type PendingActionDB struct {
	UserID     sql.NullString `db:"user_id"`
	ActionType sql.NullString `db:"action_type"`
	ActionData []byte         `db:"action_data"`
	ExpiresAt  time.Time      `db:"expires_at"`
	CreatedAt  time.Time      `db:"created_at"`
}

// UpsertPendingAction keeps one slot per (user, action type); a newer action replaces the older one.
func (r *pendingActionRepository) UpsertPendingAction(ctx context.Context, a entity.PendingAIAction) error {
	_, err := r.exec(ctx, "UpsertPendingAction", queryUpsertPendingAction, map[string]interface{}{
		"user_id":     a.UserID,
		"action_type": string(a.ActionType),
		"action_data": string(a.ActionData),
		"expires_at":  a.ExpiresAt,
		"created_at":  a.CreatedAt,
	})
	return err
}

func (r *pendingActionRepository) GetPendingAction(ctx context.Context, userID string, actionType entity.PendingActionType) (entity.PendingAIAction, error) {
	query, args, err := r.bind(ctx, "GetPendingAction", queryGetPendingAction, map[string]interface{}{
		"user_id":     userID,
		"action_type": string(actionType),
	})
	if err != nil {
		return entity.PendingAIAction{}, err
	}
	return r.scanOne(ctx, "GetPendingAction", query, args)
}

func (r *pendingActionRepository) GetLatestPendingAction(ctx context.Context, userID string, actionTypes ...entity.PendingActionType) (entity.PendingAIAction, error) {
	types := make([]string, 0, len(actionTypes))
	for _, t := range actionTypes {
		types = append(types, string(t))
	}

	query, args, err := r.bind(ctx, "GetLatestPendingAction", queryGetLatestPendingAction, map[string]interface{}{
		"user_id":      userID,
		"action_types": pq.Array(types),
	})
	if err != nil {
		return entity.PendingAIAction{}, err
	}
	return r.scanOne(ctx, "GetLatestPendingAction", query, args)
}

func (r *pendingActionRepository) scanOne(ctx context.Context, op, query string, args []interface{}) (entity.PendingAIAction, error) {
	var row PendingActionDB
	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
			}).Debug(op + " no live pending action")
			return entity.PendingAIAction{}, assistant.ErrPendingActionNotFound
		}
		return entity.PendingAIAction{}, r.fail(ctx, op, err, nil)
	}

	return entity.PendingAIAction{
		UserID:     row.UserID.String,
		ActionType: entity.PendingActionType(row.ActionType.String),
		ActionData: row.ActionData,
		ExpiresAt:  row.ExpiresAt,
		CreatedAt:  row.CreatedAt,
	}, nil
}

func (r *pendingActionRepository) DeletePendingAction(ctx context.Context, userID string, actionType entity.PendingActionType) error {
	_, err := r.exec(ctx, "DeletePendingAction", queryDeletePendingAction, map[string]interface{}{
		"user_id":     userID,
		"action_type": string(actionType),
	})
	return err
}

func (r *pendingActionRepository) DeleteExpiredPendingActions(ctx context.Context) (int64, error) {
	return r.exec(ctx, "DeleteExpiredPendingActions", queryDeleteExpiredPendingActions, map[string]interface{}{})
}
