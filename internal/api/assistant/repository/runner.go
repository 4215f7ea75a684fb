package assistantRepository

import (
	contextPkg "ScheduleSync/pkg/context"
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

// bind expands named parameters and rebinds them for the driver.
func (r queryRunner) bind(ctx context.Context, op, query string, argsKV map[string]interface{}) (string, []interface{}, error) {
	query, args, err := sqlx.Named(query, argsKV)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"error":      err.Error(),
		}).Error(op + " named query preparation err")
		return "", nil, err
	}
	return r.q.Rebind(query), args, nil
}

func (r queryRunner) fail(ctx context.Context, op string, err error, fields logrus.Fields) error {
	entry := r.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"error":      err.Error(),
	})
	if len(fields) > 0 {
		entry = entry.WithFields(fields)
	}
	entry.Error(op + " execution err")
	return err
}

func (r queryRunner) exec(ctx context.Context, op, query string, argsKV map[string]interface{}) (int64, error) {
	query, args, err := r.bind(ctx, op, query, argsKV)
	if err != nil {
		return 0, err
	}

	res, err := r.q.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, r.fail(ctx, op, err, nil)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, r.fail(ctx, op, err, nil)
	}
	return affected, nil
}

func (r queryRunner) selectInto(ctx context.Context, op string, dest interface{}, query string, argsKV map[string]interface{}) error {
	query, args, err := r.bind(ctx, op, query, argsKV)
	if err != nil {
		return err
	}

	if err := r.q.SelectContext(ctx, dest, query, args...); err != nil {
		return r.fail(ctx, op, err, nil)
	}
	return nil
}
