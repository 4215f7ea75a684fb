package assistantRepository

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	contextPkg "ScheduleSync/pkg/context"
	"context"
	"database/sql"
	"errors"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

type UserDB struct {
	ID               sql.NullString `db:"id"`
	Email            sql.NullString `db:"email"`
	Name             sql.NullString `db:"name"`
	Username         sql.NullString `db:"username"`
	Timezone         sql.NullString `db:"timezone"`
	WorkingHours     []byte         `db:"working_hours"`
	SubscriptionTier sql.NullString `db:"subscription_tier"`
	AIQueriesUsed    sql.NullInt64  `db:"ai_queries_used"`
	CreatedAt        time.Time      `db:"created_at"`
	UpdatedAt        time.Time      `db:"updated_at"`
}

func (r *userRepository) GetUser(ctx context.Context, id string) (entity.User, error) {
	query, args, err := r.bind(ctx, "GetUser", queryGetUser, map[string]interface{}{"id": id})
	if err != nil {
		return entity.User{}, err
	}

	var row UserDB
	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.User{}, assistant.ErrUserNotFound
		}
		return entity.User{}, r.fail(ctx, "GetUser", err, logrus.Fields{"user_id": id})
	}

	return r.makeUser(ctx, row), nil
}

func (r *userRepository) IncrementAIQueries(ctx context.Context, id string) (int, error) {
	query, args, err := r.bind(ctx, "IncrementAIQueries", queryIncrementAIQueries, map[string]interface{}{"id": id})
	if err != nil {
		return 0, err
	}

	var used int
	if err := r.q.QueryRowxContext(ctx, query, args...).Scan(&used); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, assistant.ErrUserNotFound
		}
		return 0, r.fail(ctx, "IncrementAIQueries", err, logrus.Fields{"user_id": id})
	}
	return used, nil
}

func (r *userRepository) makeUser(ctx context.Context, row UserDB) entity.User {
	var hours entity.WorkingHours
	if len(row.WorkingHours) > 0 {
		if err := jsoniter.Unmarshal(row.WorkingHours, &hours); err != nil {
			// unreadable hours fall back to the Mon-Fri defaults
			r.log.WithFields(logrus.Fields{
				"request_id": contextPkg.GetRequestID(ctx),
				"user_id":    row.ID.String,
				"error":      err.Error(),
			}).Warn("Ignoring malformed working hours")
			hours = nil
		}
	}

	return entity.User{
		ID:               row.ID.String,
		Email:            row.Email.String,
		Name:             row.Name.String,
		Username:         row.Username.String,
		Timezone:         row.Timezone.String,
		WorkingHours:     hours,
		SubscriptionTier: entity.SubscriptionTier(row.SubscriptionTier.String),
		AIQueriesUsed:    int(row.AIQueriesUsed.Int64),
		CreatedAt:        row.CreatedAt,
		UpdatedAt:        row.UpdatedAt,
	}
}
