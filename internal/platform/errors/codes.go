package errors

import "net/http"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// CodeInvalidArgument represents malformed or unparseable input.
	CodeInvalidArgument Code = "INVALID_ARGUMENT"

	// Auth errors
	CodeUnauthenticated  Code = "UNAUTHENTICATED"
	CodePermissionDenied Code = "PERMISSION_DENIED"
	CodeAuthTokenInvalid Code = "AUTH_TOKEN_INVALID"
	CodeAuthTokenExpired Code = "AUTH_TOKEN_EXPIRED"
	CodeSessionExpired   Code = "SESSION_EXPIRED"

	// Organization and user errors
	CodeOrgNameEmpty    Code = "ORG_NAME_EMPTY"
	CodeUserNameEmpty   Code = "USER_NAME_EMPTY"
	CodeUserEmailEmpty  Code = "USER_EMAIL_EMPTY"
	CodeUserInvalidRole Code = "USER_INVALID_ROLE"
	CodeUserInactive    Code = "USER_INACTIVE"
	CodeUserEmailTaken  Code = "USER_EMAIL_TAKEN"

	// Project errors
	CodeProjectNameEmpty     Code = "PROJECT_NAME_EMPTY"
	CodeProjectInvalidBudget Code = "PROJECT_INVALID_BUDGET"
	CodeProjectInvalidStatus Code = "PROJECT_INVALID_STATUS"
	CodeProjectArchived      Code = "PROJECT_ARCHIVED"
	CodeTaskNameEmpty        Code = "TASK_NAME_EMPTY"

	// Timer and time entry errors
	CodeTimerAlreadyRunning Code = "TIMER_ALREADY_RUNNING"
	CodeTimerAlreadyStopped Code = "TIMER_ALREADY_STOPPED"
	CodeEntryInvalidMinutes Code = "ENTRY_INVALID_MINUTES"

	// Planning errors
	CodeAllocationInvalidHours Code = "ALLOCATION_INVALID_HOURS"
	CodeAllocationInvalidWeek  Code = "ALLOCATION_INVALID_WEEK"

	// Rate errors
	CodeRateInvalid Code = "RATE_INVALID"

	// Invitation errors
	CodeInviteEmailEmpty      Code = "INVITE_EMAIL_EMPTY"
	CodeInviteInvalidRole     Code = "INVITE_INVALID_ROLE"
	CodeInviteDuplicate       Code = "INVITE_DUPLICATE"
	CodeInviteMemberExists    Code = "INVITE_MEMBER_EXISTS"
	CodeInviteTokenInvalid    Code = "INVITE_TOKEN_INVALID"
	CodeInviteTokenExpired    Code = "INVITE_TOKEN_EXPIRED"
	CodeInviteAlreadyAccepted Code = "INVITE_ALREADY_ACCEPTED"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// HTTPStatus maps domain codes to HTTP status codes.
func (c Code) HTTPStatus() int {
	switch c {
	// Bad request - validation failures, bad input
	case CodeInvalidArgument,
		CodeOrgNameEmpty,
		CodeUserNameEmpty,
		CodeUserEmailEmpty,
		CodeUserInvalidRole,
		CodeProjectNameEmpty,
		CodeProjectInvalidBudget,
		CodeProjectInvalidStatus,
		CodeTaskNameEmpty,
		CodeEntryInvalidMinutes,
		CodeAllocationInvalidHours,
		CodeAllocationInvalidWeek,
		CodeRateInvalid,
		CodeInviteEmailEmpty,
		CodeInviteInvalidRole,
		CodeInviteTokenInvalid,
		CodeAuthTokenInvalid:
		return http.StatusBadRequest

	// Unauthorized - missing or expired credentials
	case CodeUnauthenticated,
		CodeAuthTokenExpired,
		CodeSessionExpired:
		return http.StatusUnauthorized

	// Forbidden - authenticated but not allowed
	case CodePermissionDenied,
		CodeUserInactive:
		return http.StatusForbidden

	// Not found
	case CodeNotFound:
		return http.StatusNotFound

	// Conflict - state rules
	case CodeTimerAlreadyRunning,
		CodeTimerAlreadyStopped,
		CodeProjectArchived,
		CodeUserEmailTaken,
		CodeInviteDuplicate,
		CodeInviteMemberExists,
		CodeInviteTokenExpired,
		CodeInviteAlreadyAccepted:
		return http.StatusConflict

	default:
		return http.StatusInternalServerError
	}
}
