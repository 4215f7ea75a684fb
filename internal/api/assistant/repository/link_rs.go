package assistantRepository

import (
	"ScheduleSync/internal/entity"
	"context"
	"database/sql"
)

type EmailTemplateDB struct {
	ID      sql.NullString `db:"id"`
	UserID  sql.NullString `db:"user_id"`
	Name    sql.NullString `db:"name"`
	Subject sql.NullString `db:"subject"`
	Body    sql.NullString `db:"body"`
}

type EventTypeDB struct {
	ID       sql.NullString `db:"id"`
	UserID   sql.NullString `db:"user_id"`
	Title    sql.NullString `db:"title"`
	Slug     sql.NullString `db:"slug"`
	Duration sql.NullInt64  `db:"duration"`
	IsActive sql.NullBool   `db:"is_active"`
}

type TeamDB struct {
	ID   sql.NullString `db:"id"`
	Name sql.NullString `db:"name"`
	Slug sql.NullString `db:"slug"`
}

func (r *templateRepository) ListTemplates(ctx context.Context, userID string) ([]entity.EmailTemplate, error) {
	var rows []EmailTemplateDB
	if err := r.selectInto(ctx, "ListTemplates", &rows, queryListTemplates, map[string]interface{}{"user_id": userID}); err != nil {
		return nil, err
	}

	out := make([]entity.EmailTemplate, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.EmailTemplate{
			ID:      row.ID.String,
			UserID:  row.UserID.String,
			Name:    row.Name.String,
			Subject: row.Subject.String,
			Body:    row.Body.String,
		})
	}
	return out, nil
}

func (r *linkRepository) ListActiveEventTypes(ctx context.Context, userID string) ([]entity.EventType, error) {
	var rows []EventTypeDB
	if err := r.selectInto(ctx, "ListActiveEventTypes", &rows, queryListActiveEventTypes, map[string]interface{}{"user_id": userID}); err != nil {
		return nil, err
	}

	out := make([]entity.EventType, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.EventType{
			ID:       row.ID.String,
			UserID:   row.UserID.String,
			Title:    row.Title.String,
			Slug:     row.Slug.String,
			Duration: int(row.Duration.Int64),
			IsActive: row.IsActive.Bool,
		})
	}
	return out, nil
}

func (r *linkRepository) CreateMagicLink(ctx context.Context, link entity.MagicLink) error {
	_, err := r.exec(ctx, "CreateMagicLink", queryCreateMagicLink, map[string]interface{}{
		"id":         link.ID,
		"user_id":    link.UserID,
		"token":      link.Token,
		"title":      link.Title,
		"duration":   link.Duration,
		"expires_at": link.ExpiresAt,
		"created_at": link.CreatedAt,
	})
	return err
}

func (r *teamRepository) ListTeamsForUser(ctx context.Context, userID string) ([]entity.Team, error) {
	var rows []TeamDB
	if err := r.selectInto(ctx, "ListTeamsForUser", &rows, queryListTeamsForUser, map[string]interface{}{"user_id": userID}); err != nil {
		return nil, err
	}

	out := make([]entity.Team, 0, len(rows))
	for _, row := range rows {
		out = append(out, entity.Team{
			ID:   row.ID.String,
			Name: row.Name.String,
			Slug: row.Slug.String,
		})
	}
	return out, nil
}
