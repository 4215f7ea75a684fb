package assistant

import "ScheduleSync/pkg/response"

var (
	ErrUserNotFound          = response.NewCodedError(404, "USER_NOT_FOUND", "user not found")
	ErrBookingNotFound       = response.NewCodedError(404, "BOOKING_NOT_FOUND", "booking not found")
	ErrPendingActionNotFound = response.NewCodedError(404, "PENDING_ACTION_NOT_FOUND", "no pending action")
	ErrInvalidTimeRange      = response.NewCodedError(400, "INVALID_TIME_RANGE", "end_time must be after start_time")
	ErrBookingInPast         = response.NewCodedError(400, "BOOKING_IN_PAST", "start_time must be in the future")
)
