package rulesRepository

import (
	"ScheduleSync/internal/entity"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

type SQLExecutor interface {
	sqlx.ExtContext
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	QueryRowxContext(ctx context.Context, query string, args ...interface{}) *sqlx.Row
	Rebind(query string) string
}

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var sqlExecutor SQLExecutor = r.DB
	commitFunc := func() error { return nil }
	rollbackFunc := func() error { return nil }

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}
		sqlExecutor = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	}

	return Client{
		Rules:    &ruleRepository{q: sqlExecutor, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type Client struct {
	Rules interface {
		ListActiveRules(ctx context.Context, userID string) ([]entity.SchedulingRule, error)
		ListRules(ctx context.Context, userID string) ([]entity.SchedulingRule, error)
		GetRule(ctx context.Context, userID, id string) (entity.SchedulingRule, error)
		CreateRule(ctx context.Context, rule entity.SchedulingRule) error
		UpdateRule(ctx context.Context, rule entity.SchedulingRule) error
		DeleteRule(ctx context.Context, userID, id string) error
		ShouldBlock(ctx context.Context, userID, email string) (bool, error)
	}

	Commit   func() error
	Rollback func() error
}

type ruleRepository struct {
	q   SQLExecutor
	log *logrus.Logger
}
