package assistantRepository

import (
	"ScheduleSync/internal/api/assistant"
	"ScheduleSync/internal/entity"
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

type BookingDB struct {
	ID            sql.NullString `db:"id"`
	UserID        sql.NullString `db:"user_id"`
	TeamID        sql.NullString `db:"team_id"`
	Title         sql.NullString `db:"title"`
	AttendeeName  sql.NullString `db:"attendee_name"`
	AttendeeEmail sql.NullString `db:"attendee_email"`
	StartTime     time.Time      `db:"start_time"`
	EndTime       time.Time      `db:"end_time"`
	Duration      sql.NullInt64  `db:"duration"`
	Notes         sql.NullString `db:"notes"`
	Status        sql.NullString `db:"status"`
	Location      sql.NullString `db:"location"`
	Priority      sql.NullString `db:"priority"`
	BufferMinutes sql.NullInt64  `db:"buffer_minutes"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r *bookingRepository) CreateBooking(ctx context.Context, b entity.Booking) error {
	_, err := r.exec(ctx, "CreateBooking", queryCreateBooking, map[string]interface{}{
		"id":             b.ID,
		"user_id":        b.UserID,
		"team_id":        sql.NullString{String: b.TeamID, Valid: b.TeamID != ""},
		"title":          b.Title,
		"attendee_name":  b.AttendeeName,
		"attendee_email": b.AttendeeEmail,
		"start_time":     b.StartTime,
		"end_time":       b.EndTime,
		"duration":       b.Duration,
		"notes":          b.Notes,
		"status":         b.Status,
		"location":       b.Location,
		"priority":       b.Priority,
		"buffer_minutes": b.BufferMinutes,
		"created_at":     b.CreatedAt,
		"updated_at":     b.UpdatedAt,
	})
	return err
}

func (r *bookingRepository) GetBooking(ctx context.Context, userID, id string) (entity.Booking, error) {
	query, args, err := r.bind(ctx, "GetBooking", queryGetBooking, map[string]interface{}{
		"id":      id,
		"user_id": userID,
	})
	if err != nil {
		return entity.Booking{}, err
	}

	var row BookingDB
	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return entity.Booking{}, assistant.ErrBookingNotFound
		}
		return entity.Booking{}, r.fail(ctx, "GetBooking", err, logrus.Fields{"booking_id": id})
	}

	return makeBooking(row), nil
}

func (r *bookingRepository) ListUpcomingBookings(ctx context.Context, userID string, from time.Time, limit int) ([]entity.Booking, error) {
	var rows []BookingDB
	err := r.selectInto(ctx, "ListUpcomingBookings", &rows, queryListUpcomingBookings, map[string]interface{}{
		"user_id": userID,
		"from":    from,
		"limit":   limit,
	})
	if err != nil {
		return nil, err
	}
	return makeBookings(rows), nil
}

func (r *bookingRepository) ListBookingsInRange(ctx context.Context, userID string, from, to time.Time) ([]entity.Booking, error) {
	var rows []BookingDB
	err := r.selectInto(ctx, "ListBookingsInRange", &rows, queryListBookingsInRange, map[string]interface{}{
		"user_id": userID,
		"from":    from,
		"to":      to,
	})
	if err != nil {
		return nil, err
	}
	return makeBookings(rows), nil
}

func (r *bookingRepository) FindBookings(ctx context.Context, userID string, filter BookingFilter) ([]entity.Booking, error) {
	name := strings.ToLower(strings.TrimSpace(filter.Name))
	nameLike := ""
	if name != "" {
		nameLike = "%" + name + "%"
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = 10
	}

	var rows []BookingDB
	err := r.selectInto(ctx, "FindBookings", &rows, queryFindBookings, map[string]interface{}{
		"user_id":   userID,
		"from":      filter.From,
		"to":        filter.To,
		"email":     strings.ToLower(strings.TrimSpace(filter.Email)),
		"name":      name,
		"name_like": nameLike,
		"limit":     limit,
	})
	if err != nil {
		return nil, err
	}
	return makeBookings(rows), nil
}

func (r *bookingRepository) UpdateBookingStatus(ctx context.Context, userID, id, status string) error {
	affected, err := r.exec(ctx, "UpdateBookingStatus", queryUpdateBookingStatus, map[string]interface{}{
		"id":      id,
		"user_id": userID,
		"status":  status,
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return assistant.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) RescheduleBooking(ctx context.Context, userID, id string, start, end time.Time) error {
	affected, err := r.exec(ctx, "RescheduleBooking", queryRescheduleBooking, map[string]interface{}{
		"id":         id,
		"user_id":    userID,
		"start_time": start,
		"end_time":   end,
		"duration":   int(end.Sub(start).Minutes()),
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return assistant.ErrBookingNotFound
	}
	return nil
}

func (r *bookingRepository) GetBookingStats(ctx context.Context, userID string, now, weekStart, weekEnd time.Time) (BookingStats, error) {
	query, args, err := r.bind(ctx, "GetBookingStats", queryGetBookingStats, map[string]interface{}{
		"user_id":    userID,
		"now":        now,
		"week_start": weekStart,
		"week_end":   weekEnd,
	})
	if err != nil {
		return BookingStats{}, err
	}

	var stats BookingStats
	if err := r.q.QueryRowxContext(ctx, query, args...).StructScan(&stats); err != nil {
		return BookingStats{}, r.fail(ctx, "GetBookingStats", err, nil)
	}
	return stats, nil
}

func makeBookings(rows []BookingDB) []entity.Booking {
	out := make([]entity.Booking, 0, len(rows))
	for _, row := range rows {
		out = append(out, makeBooking(row))
	}
	return out
}

func makeBooking(row BookingDB) entity.Booking {
	return entity.Booking{
		ID:            row.ID.String,
		UserID:        row.UserID.String,
		TeamID:        row.TeamID.String,
		Title:         row.Title.String,
		AttendeeName:  row.AttendeeName.String,
		AttendeeEmail: row.AttendeeEmail.String,
		StartTime:     row.StartTime,
		EndTime:       row.EndTime,
		Duration:      int(row.Duration.Int64),
		Notes:         row.Notes.String,
		Status:        row.Status.String,
		Location:      row.Location.String,
		Priority:      row.Priority.String,
		BufferMinutes: int(row.BufferMinutes.Int64),
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
}
