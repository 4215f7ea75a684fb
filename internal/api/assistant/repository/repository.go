package assistantRepository

import (
	"ScheduleSync/internal/entity"
	"time"

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

	base := queryRunner{q: sqlExecutor, log: r.log}
	return Client{
		Bookings:       &bookingRepository{base},
		PendingActions: &pendingActionRepository{base},
		Users:          &userRepository{base},
		Templates:      &templateRepository{base},
		Links:          &linkRepository{base},
		Teams:          &teamRepository{base},
		Commit:         commitFunc,
		Rollback:       rollbackFunc,
	}, nil
}

// BookingFilter narrows a meeting lookup; empty fields match everything.
type BookingFilter struct {
	Email string
	Name  string
	From  time.Time
	To    time.Time
	Limit int
}

type BookingStats struct {
	Total     int `db:"total"`
	Upcoming  int `db:"upcoming"`
	ThisWeek  int `db:"this_week"`
	Cancelled int `db:"cancelled"`
}

type Client struct {
	Bookings interface {
		CreateBooking(ctx context.Context, booking entity.Booking) error
		GetBooking(ctx context.Context, userID, id string) (entity.Booking, error)
		ListUpcomingBookings(ctx context.Context, userID string, from time.Time, limit int) ([]entity.Booking, error)
		ListBookingsInRange(ctx context.Context, userID string, from, to time.Time) ([]entity.Booking, error)
		FindBookings(ctx context.Context, userID string, filter BookingFilter) ([]entity.Booking, error)
		UpdateBookingStatus(ctx context.Context, userID, id, status string) error
		RescheduleBooking(ctx context.Context, userID, id string, start, end time.Time) error
		GetBookingStats(ctx context.Context, userID string, now, weekStart, weekEnd time.Time) (BookingStats, error)
	}

	PendingActions interface {
		UpsertPendingAction(ctx context.Context, action entity.PendingAIAction) error
		GetPendingAction(ctx context.Context, userID string, actionType entity.PendingActionType) (entity.PendingAIAction, error)
		GetLatestPendingAction(ctx context.Context, userID string, actionTypes ...entity.PendingActionType) (entity.PendingAIAction, error)
		DeletePendingAction(ctx context.Context, userID string, actionType entity.PendingActionType) error
		DeleteExpiredPendingActions(ctx context.Context) (int64, error)
	}

	Users interface {
		GetUser(ctx context.Context, id string) (entity.User, error)
		IncrementAIQueries(ctx context.Context, id string) (int, error)
	}

	Templates interface {
		ListTemplates(ctx context.Context, userID string) ([]entity.EmailTemplate, error)
	}

	Links interface {
		ListActiveEventTypes(ctx context.Context, userID string) ([]entity.EventType, error)
		CreateMagicLink(ctx context.Context, link entity.MagicLink) error
	}

	Teams interface {
		ListTeamsForUser(ctx context.Context, userID string) ([]entity.Team, error)
	}

	Commit   func() error
	Rollback func() error
}

type queryRunner struct {
	q   SQLExecutor
	log *logrus.Logger
}

type bookingRepository struct{ queryRunner }

type pendingActionRepository struct{ queryRunner }

type userRepository struct{ queryRunner }

type templateRepository struct{ queryRunner }

type linkRepository struct{ queryRunner }

type teamRepository struct{ queryRunner }
