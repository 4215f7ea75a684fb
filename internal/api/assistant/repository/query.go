package assistantRepository

const (
	bookingColumns = `
			id, user_id, team_id, title, attendee_name, attendee_email,
			start_time, end_time, duration, notes, status, location,
			priority, buffer_minutes, created_at, updated_at`

	queryCreateBooking = `
		INSERT INTO bookings (
			id, user_id, team_id, title, attendee_name, attendee_email,
			start_time, end_time, duration, notes, status, location,
			priority, buffer_minutes, created_at, updated_at
		) VALUES (
			:id, :user_id, :team_id, :title, :attendee_name, :attendee_email,
			:start_time, :end_time, :duration, :notes, :status, :location,
			:priority, :buffer_minutes, :created_at, :updated_at
		)
	`

	queryGetBooking = `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE id = :id AND user_id = :user_id
	`

	queryListUpcomingBookings = `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = :user_id
			AND status <> 'cancelled'
			AND start_time >= :from
		ORDER BY start_time ASC
		LIMIT :limit
	`

	queryListBookingsInRange = `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = :user_id
			AND status <> 'cancelled'
			AND start_time < :to
			AND end_time > :from
		ORDER BY start_time ASC
	`

	queryFindBookings = `
		SELECT` + bookingColumns + `
		FROM bookings
		WHERE user_id = :user_id
			AND status <> 'cancelled'
			AND start_time >= :from
			AND start_time < :to
			AND (:email = '' OR LOWER(attendee_email) = :email)
			AND (:name = '' OR LOWER(attendee_name) LIKE :name_like OR LOWER(title) LIKE :name_like)
		ORDER BY start_time ASC
		LIMIT :limit
	`

	queryUpdateBookingStatus = `
		UPDATE bookings
		SET status = :status, updated_at = NOW()
		WHERE id = :id AND user_id = :user_id
	`

	queryRescheduleBooking = `
		UPDATE bookings
		SET start_time = :start_time,
			end_time = :end_time,
			duration = :duration,
			updated_at = NOW()
		WHERE id = :id AND user_id = :user_id
	`

	queryGetBookingStats = `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status <> 'cancelled' AND start_time >= :now) AS upcoming,
			COUNT(*) FILTER (WHERE status <> 'cancelled' AND start_time >= :week_start AND start_time < :week_end) AS this_week,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled
		FROM bookings
		WHERE user_id = :user_id
	`

	queryUpsertPendingAction = `
		INSERT INTO ai_pending_actions (
			user_id, action_type, action_data, expires_at, created_at
		) VALUES (
			:user_id, :action_type, :action_data, :expires_at, :created_at
		)
		ON CONFLICT (user_id, action_type) DO UPDATE
		SET action_data = EXCLUDED.action_data,
			expires_at = EXCLUDED.expires_at,
			created_at = EXCLUDED.created_at
	`

	queryGetPendingAction = `
		SELECT user_id, action_type, action_data, expires_at, created_at
		FROM ai_pending_actions
		WHERE user_id = :user_id
			AND action_type = :action_type
			AND expires_at > NOW()
	`

	queryGetLatestPendingAction = `
		SELECT user_id, action_type, action_data, expires_at, created_at
		FROM ai_pending_actions
		WHERE user_id = :user_id
			AND action_type = ANY(:action_types)
			AND expires_at > NOW()
		ORDER BY created_at DESC
		LIMIT 1
	`

	queryDeletePendingAction = `
		DELETE FROM ai_pending_actions
		WHERE user_id = :user_id AND action_type = :action_type
	`

	queryDeleteExpiredPendingActions = `
		DELETE FROM ai_pending_actions
		WHERE expires_at <= NOW()
	`

	queryGetUser = `
		SELECT
			id, email, name, username, timezone, working_hours,
			subscription_tier, ai_queries_used, created_at, updated_at
		FROM users
		WHERE id = :id
	`

	queryIncrementAIQueries = `
		UPDATE users
		SET ai_queries_used = ai_queries_used + 1, updated_at = NOW()
		WHERE id = :id
		RETURNING ai_queries_used
	`

	queryListTemplates = `
		SELECT id, user_id, name, subject, body
		FROM email_templates
		WHERE user_id = :user_id
		ORDER BY created_at ASC
	`

	queryListActiveEventTypes = `
		SELECT id, user_id, title, slug, duration, is_active
		FROM event_types
		WHERE user_id = :user_id AND is_active = TRUE
		ORDER BY created_at ASC
	`

	queryCreateMagicLink = `
		INSERT INTO magic_links (
			id, user_id, token, title, duration, expires_at, created_at
		) VALUES (
			:id, :user_id, :token, :title, :duration, :expires_at, :created_at
		)
	`

	queryListTeamsForUser = `
		SELECT t.id, t.name, t.slug
		FROM teams t
		JOIN team_members m ON m.team_id = t.id
		WHERE m.user_id = :user_id
		ORDER BY t.name ASC
	`
)
