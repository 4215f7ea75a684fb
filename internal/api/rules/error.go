package rules

import "ScheduleSync/pkg/response"

var (
	ErrRuleNotFound     = response.NewCodedError(404, "RULE_NOT_FOUND", "scheduling rule not found")
	ErrInvalidTrigger   = response.NewCodedError(400, "INVALID_TRIGGER", "invalid trigger type")
	ErrInvalidAction    = response.NewCodedError(400, "INVALID_ACTION", "invalid action type")
	ErrInvalidRuleValue = response.NewCodedError(400, "INVALID_RULE_VALUE", "rule value does not fit its trigger or action")
	ErrEmailRequired    = response.NewCodedError(400, "EMAIL_REQUIRED", "email query parameter is required")
	ErrRuleNameRequired = response.NewCodedError(400, "RULE_NAME_REQUIRED", "rule name is required")
)
