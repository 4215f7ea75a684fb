package assistantRepository

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	"context"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	client, err := New(sqlx.NewDb(db, "postgres"), logger).NewClient(false)
	require.NoError(t, err)
	return client, mock
}

func TestUpsertPendingAction_OnConflict(t *testing.T) {
	client, mock := newMockClient(t)
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(`INSERT INTO ai_pending_actions .* ON CONFLICT \(user_id, action_type\) DO UPDATE`).
		WithArgs("user-1", "cancel", `{"booking":{"id":"b1"}}`, now.Add(5*time.Minute), now).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := client.PendingActions.UpsertPendingAction(context.Background(), entity.PendingAIAction{
		UserID:     "user-1",
		ActionType: entity.PendingActionCancel,
		ActionData: []byte(`{"booking":{"id":"b1"}}`),
		ExpiresAt:  now.Add(5 * time.Minute),
		CreatedAt:  now,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetLatestPendingAction(t *testing.T) {
	client, mock := newMockClient(t)
	now := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM ai_pending_actions WHERE user_id = \$1 AND action_type = ANY\(\$2\) AND expires_at > NOW\(\) ORDER BY created_at DESC LIMIT 1`).
		WithArgs("user-1", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "action_type", "action_data", "expires_at", "created_at"}).
			AddRow("user-1", "reschedule", []byte(`{}`), now.Add(5*time.Minute), now))

	got, err := client.PendingActions.GetLatestPendingAction(context.Background(), "user-1",
		entity.PendingActionCancel, entity.PendingActionReschedule)
	require.NoError(t, err)
	assert.Equal(t, entity.PendingActionReschedule, got.ActionType)
	assert.Equal(t, []byte(`{}`), got.ActionData)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetPendingAction_ExpiredIsNotFound(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`FROM ai_pending_actions`).
		WithArgs("user-1", "cancel").
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "action_type", "action_data", "expires_at", "created_at"}))

	_, err := client.PendingActions.GetPendingAction(context.Background(), "user-1", entity.PendingActionCancel)
	assert.ErrorIs(t, err, assistant.ErrPendingActionNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteExpiredPendingActions(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectExec(`DELETE FROM ai_pending_actions WHERE expires_at <= NOW\(\)`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	n, err := client.PendingActions.DeleteExpiredPendingActions(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindBookings_NormalisesFilter(t *testing.T) {
	client, mock := newMockClient(t)
	from := time.Date(2025, 6, 11, 10, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 90)

	cols := []string{
		"id", "user_id", "team_id", "title", "attendee_name", "attendee_email",
		"start_time", "end_time", "duration", "notes", "status", "location",
		"priority", "buffer_minutes", "created_at", "updated_at",
	}
	mock.ExpectQuery(`FROM bookings`).
		WithArgs("user-1", from, to, "john@acme.com", "john@acme.com", "", "", "", 10).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(
			"b1", "user-1", nil, "Sync", "John", "john@acme.com",
			from.Add(24*time.Hour), from.Add(24*time.Hour+30*time.Minute), 30, "", "confirmed", "",
			"", 0, from, from,
		))

	got, err := client.Bookings.FindBookings(context.Background(), "user-1", BookingFilter{
		Email: " John@Acme.com ",
		From:  from,
		To:    to,
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "", got[0].TeamID)
	assert.Equal(t, 30, got[0].Duration)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateBookingStatus_MissingBooking(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectExec(`UPDATE bookings SET status = \$1`).
		WithArgs("cancelled", "b404", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := client.Bookings.UpdateBookingStatus(context.Background(), "user-1", "b404", entity.BookingStatusCancelled)
	assert.ErrorIs(t, err, assistant.ErrBookingNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetUser_DecodesWorkingHours(t *testing.T) {
	client, mock := newMockClient(t)
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`FROM users WHERE id = \$1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "email", "name", "username", "timezone", "working_hours",
			"subscription_tier", "ai_queries_used", "created_at", "updated_at",
		}).AddRow(
			"user-1", "owner@example.com", "Owner", "owner", "Asia/Jakarta",
			[]byte(`{"monday":{"enabled":true,"start":"10:00","end":"18:00"}}`),
			"pro", 7, created, created,
		))

	user, err := client.Users.GetUser(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, "10:00", user.WorkingHours.ForDay(time.Monday).Start)
	assert.Equal(t, entity.SubscriptionTierPro, user.SubscriptionTier)
	assert.Equal(t, 7, user.AIQueriesUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrementAIQueries(t *testing.T) {
	client, mock := newMockClient(t)

	mock.ExpectQuery(`UPDATE users SET ai_queries_used = ai_queries_used \+ 1`).
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"ai_queries_used"}).AddRow(8))

	used, err := client.Users.IncrementAIQueries(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, 8, used)
	assert.NoError(t, mock.ExpectationsWereMet())
}
