// Package messages centralizes every user-facing message of the application.
// The catalog is a closed set of (domain, key) pairs resolving to display text,
// built once at init and never mutated, so concurrent reads need no locking.
package messages

import (
	"fmt"

	apperrors "github.com/svckit/svckit/internal/errors"
)

// Domain groups related message keys.
type Domain string

// The closed set of message domains.
const (
	DomainGeneral    Domain = "general"
	DomainUser       Domain = "user"
	DomainAuth       Domain = "auth"
	DomainReport     Domain = "report"
	DomainClient     Domain = "client"
	DomainRole       Domain = "role"
	DomainPermission Domain = "permission"
)

// Key identifies a single message within a domain.
type Key string

// General messages.
const (
	Success               Key = "success"
	Error                 Key = "error"
	InternalServerError   Key = "internal_server_error"
	NotFound              Key = "not_found"
	Forbidden             Key = "forbidden"
	Unauthorized          Key = "unauthorized"
	BadRequest            Key = "bad_request"
	Conflict              Key = "conflict"
	InvalidInput          Key = "invalid_input"
	MissingRequiredFields Key = "missing_required_fields"
	InvalidCredentials    Key = "invalid_credentials"
	SessionExpired        Key = "session_expired"
	OperationNotAllowed   Key = "operation_not_allowed"
)

// User messages.
const (
	UserCreated        Key = "user_created"
	UserUpdated        Key = "user_updated"
	UserDeleted        Key = "user_deleted"
	UserNotFound       Key = "user_not_found"
	UserAlreadyExists  Key = "user_already_exists"
	UserInactive       Key = "user_inactive"
	InvalidPassword    Key = "invalid_password"
	PasswordUpdated    Key = "password_updated"
	EmailAlreadyExists Key = "email_already_exists"
	InvalidEmailFormat Key = "invalid_email_format"
	RoleAssigned       Key = "role_assigned"
	PermissionDenied   Key = "permission_denied"
)

// Auth messages.
const (
	LoginSuccess        Key = "login_success"
	LoginFailed         Key = "login_failed"
	LogoutSuccess       Key = "logout_success"
	TokenExpired        Key = "token_expired"
	TokenInvalid        Key = "token_invalid"
	TokenRevoked        Key = "token_revoked"
	TokenRefreshSuccess Key = "token_refresh_success"
)

// Report messages.
const (
	ReportCreated       Key = "report_created"
	ReportUpdated       Key = "report_updated"
	ReportDeleted       Key = "report_deleted"
	ReportNotFound      Key = "report_not_found"
	ReportAlreadyExists Key = "report_already_exists"
	ReportPartUpdated   Key = "report_part_updated"
	ReportFinished      Key = "report_finished"
	InvalidReportNumber Key = "invalid_report_number"
	ReportNotEditable   Key = "report_not_editable"
)

// Client messages.
const (
	ClientCreated       Key = "client_created"
	ClientUpdated       Key = "client_updated"
	ClientDeleted       Key = "client_deleted"
	ClientNotFound      Key = "client_not_found"
	ClientAlreadyExists Key = "client_already_exists"
)

// Role messages.
const (
	RoleRetrieved             Key = "role_retrieved"
	RoleCreated               Key = "role_created"
	RoleUpdated               Key = "role_updated"
	RoleDeleted               Key = "role_deleted"
	RoleNotFound              Key = "role_not_found"
	RoleAlreadyExists         Key = "role_already_exists"
	PermissionAddedToRole     Key = "permission_added_to_role"
	PermissionRemovedFromRole Key = "permission_removed_from_role"
	InvalidRoleName           Key = "invalid_role_name"
)

// Permission messages.
const (
	PermissionCreated        Key = "permission_created"
	PermissionUpdated        Key = "permission_updated"
	PermissionDeleted        Key = "permission_deleted"
	PermissionNotFound       Key = "permission_not_found"
	PermissionAlreadyExists  Key = "permission_already_exists"
	InvalidPermissionName    Key = "invalid_permission_name"
	PermissionAssignedToRole Key = "permission_assigned_to_role"
)

// catalog holds every message, keyed by domain then key.
// Defined at process start and read-only afterwards.
var catalog = map[Domain]map[Key]string{
	DomainGeneral: {
		Success:               "operation completed",
		Error:                 "error occurred",
		InternalServerError:   "internal server error",
		NotFound:              "resource not found",
		Forbidden:             "access denied",
		Unauthorized:          "unauthorized access",
		BadRequest:            "bad request",
		Conflict:              "conflict with existing resource",
		InvalidInput:          "invalid input data",
		MissingRequiredFields: "missing required fields",
		InvalidCredentials:    "invalid credentials",
		SessionExpired:        "session expired",
		OperationNotAllowed:   "operation not allowed",
	},
	DomainUser: {
		UserCreated:        "user created successfully",
		UserUpdated:        "user updated successfully",
		UserDeleted:        "user deleted successfully",
		UserNotFound:       "user not found",
		UserAlreadyExists:  "user already exists",
		UserInactive:       "user is inactive",
		InvalidPassword:    "invalid password",
		PasswordUpdated:    "password updated successfully",
		EmailAlreadyExists: "email is already registered",
		InvalidEmailFormat: "invalid email format",
		RoleAssigned:       "role assigned successfully",
		RoleNotFound:       "role not found",
		PermissionDenied:   "permission denied",
	},
	DomainAuth: {
		LoginSuccess:        "login successful",
		LoginFailed:         "login failed",
		LogoutSuccess:       "logout successful",
		TokenExpired:        "token expired",
		TokenInvalid:        "invalid token",
		TokenRevoked:        "token revoked",
		TokenRefreshSuccess: "token refreshed successfully",
	},
	DomainReport: {
		ReportCreated:       "report created successfully",
		ReportUpdated:       "report updated successfully",
		ReportDeleted:       "report deleted successfully",
		ReportNotFound:      "report not found",
		ReportAlreadyExists: "report already exists",
		ReportPartUpdated:   "report section updated successfully",
		ReportFinished:      "report finished successfully",
		InvalidReportNumber: "invalid report number",
		ReportNotEditable:   "report cannot be edited",
	},
	DomainClient: {
		ClientCreated:       "client created successfully",
		ClientUpdated:       "client updated successfully",
		ClientDeleted:       "client deleted successfully",
		ClientNotFound:      "client not found",
		ClientAlreadyExists: "client already exists",
	},
	DomainRole: {
		RoleRetrieved:             "role retrieved successfully",
		RoleCreated:               "role created successfully",
		RoleUpdated:               "role updated successfully",
		RoleDeleted:               "role deleted successfully",
		RoleNotFound:              "role not found",
		RoleAlreadyExists:         "role already exists",
		PermissionAddedToRole:     "permission added to role successfully",
		PermissionRemovedFromRole: "permission removed from role successfully",
		InvalidRoleName:           "invalid role name",
	},
	DomainPermission: {
		PermissionCreated:         "permission created successfully",
		PermissionUpdated:         "permission updated successfully",
		PermissionDeleted:         "permission deleted successfully",
		PermissionNotFound:        "permission not found",
		PermissionAlreadyExists:   "permission already exists",
		InvalidPermissionName:     "invalid permission name",
		PermissionAssignedToRole:  "permission assigned to role successfully",
		PermissionRemovedFromRole: "permission removed from role successfully",
	},
}

// codeMap maps the HTTP status codes with a canonical message.
var codeMap = map[int]Key{
	400: BadRequest,
	401: Unauthorized,
	403: Forbidden,
	404: NotFound,
	409: Conflict,
	500: InternalServerError,
}

// Lookup resolves a message by domain and key.
// Returns ErrNotFound when the key is absent from the domain; with the closed
// catalog this only happens for keys built from untrusted input.
func Lookup(domain Domain, key Key) (string, error) {
	entries, ok := catalog[domain]
	if !ok {
		return "", apperrors.Wrap(apperrors.ErrNotFound, fmt.Sprintf("unknown message domain %q", domain))
	}
	text, ok := entries[key]
	if !ok {
		return "", apperrors.Wrap(
			apperrors.ErrNotFound,
			fmt.Sprintf("unknown message key %q in domain %q", key, domain),
		)
	}
	return text, nil
}

// General resolves a key from the general domain, falling back to the generic
// error text for unknown keys. Convenience for the response builder.
func General(key Key) string {
	if text, ok := catalog[DomainGeneral][key]; ok {
		return text
	}
	return catalog[DomainGeneral][Error]
}

// ByCode maps an HTTP status code to its canonical message.
// Codes outside {400, 401, 403, 404, 409, 500} return the fallback when given,
// otherwise the generic error message.
func ByCode(code int, fallback ...string) string {
	if key, ok := codeMap[code]; ok {
		return catalog[DomainGeneral][key]
	}
	if len(fallback) > 0 && fallback[0] != "" {
		return fallback[0]
	}
	return catalog[DomainGeneral][Error]
}

// Domains returns the closed set of message domains.
func Domains() []Domain {
	return []Domain{
		DomainGeneral,
		DomainUser,
		DomainAuth,
		DomainReport,
		DomainClient,
		DomainRole,
		DomainPermission,
	}
}
