package rulesRepository

const (
	ruleColumns = `
			id, user_id, name, trigger_type, trigger_value,
			action_type, action_value, is_active, priority, created_at`

	queryListActiveRules = `
		SELECT` + ruleColumns + `
		FROM scheduling_rules
		WHERE user_id = :user_id AND is_active = TRUE
		ORDER BY priority DESC, created_at ASC
	`

	queryListRules = `
		SELECT` + ruleColumns + `
		FROM scheduling_rules
		WHERE user_id = :user_id
		ORDER BY priority DESC, created_at ASC
	`

	queryGetRule = `
		SELECT` + ruleColumns + `
		FROM scheduling_rules
		WHERE id = :id AND user_id = :user_id
	`

	queryCreateRule = `
		INSERT INTO scheduling_rules (
			id, user_id, name, trigger_type, trigger_value,
			action_type, action_value, is_active, priority, created_at
		) VALUES (
			:id, :user_id, :name, :trigger_type, :trigger_value,
			:action_type, :action_value, :is_active, :priority, :created_at
		)
	`

	queryUpdateRule = `
		UPDATE scheduling_rules
		SET name = :name,
			trigger_type = :trigger_type,
			trigger_value = :trigger_value,
			action_type = :action_type,
			action_value = :action_value,
			is_active = :is_active,
			priority = :priority
		WHERE id = :id AND user_id = :user_id
	`

	queryDeleteRule = `
		DELETE FROM scheduling_rules
		WHERE id = :id AND user_id = :user_id
	`

	// Matches only block rules keyed by an email or by the attendee's domain (or a parent domain).
	// Comma lists are split the same way the rule engine splits them; suffixes are compared
	// with RIGHT so "_" and "%" in a stored value stay literal.
	queryShouldBlock = `
		SELECT EXISTS (
			SELECT 1
			FROM scheduling_rules r
			CROSS JOIN LATERAL unnest(string_to_array(LOWER(r.trigger_value), ',')) AS item(raw)
			CROSS JOIN LATERAL (SELECT LTRIM(BTRIM(item.raw), '@') AS domain) AS d
			WHERE r.user_id = :user_id
				AND r.is_active = TRUE
				AND r.action_type = 'block'
				AND (
					(r.trigger_type = 'email' AND BTRIM(item.raw) = :email)
					OR (r.trigger_type = 'domain' AND d.domain <> '' AND (
						d.domain = :domain
						OR RIGHT(:domain, LENGTH(d.domain) + 1) = '.' || d.domain
					))
				)
		)
	`
)
