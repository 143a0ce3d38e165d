// Package policy is the static role → operation table.
package policy

import (
	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/models"
)

// Operation names a role-gated action.
type Operation string

const (
	AlertCreate Operation = "alert.create"
	AlertUpdate Operation = "alert.update"
	AlertDelete Operation = "alert.delete"

	ReportUpdateStatus Operation = "report.update_status"
	ReportDeleteAny    Operation = "report.delete_any"
	ReportViewAny      Operation = "report.view_any"

	UserList          Operation = "user.list"
	UserUpdateRole    Operation = "user.update_role"
	UserUpdateStatus  Operation = "user.update_status"
	UserResetPassword Operation = "user.reset_password"

	StatsView Operation = "stats.view"
	LogsView  Operation = "logs.view"
)

var (
	staff     = []models.Role{models.RoleAdmin, models.RoleOfficial}
	adminOnly = []models.Role{models.RoleAdmin}
)

var table = map[Operation][]models.Role{
	AlertCreate: staff,
	AlertUpdate: staff,
	AlertDelete: staff,

	ReportUpdateStatus: staff,
	ReportDeleteAny:    staff,
	ReportViewAny:      staff,

	UserList:          adminOnly,
	UserUpdateRole:    adminOnly,
	UserUpdateStatus:  adminOnly,
	UserResetPassword: adminOnly,

	StatsView: staff,
	LogsView:  adminOnly,
}

var denyMessages = map[Operation]string{
	AlertCreate:        "only officials can create alerts",
	AlertUpdate:        "only officials can update alerts",
	AlertDelete:        "only officials can delete alerts",
	ReportUpdateStatus: "only officials can update report status",
	StatsView:          "officials only",
}

// Authorize reports whether role may perform op. Unknown operations are denied.
func Authorize(role models.Role, op Operation) bool {
	for _, r := range table[op] {
		if r == role {
			return true
		}
	}
	return false
}

// Require returns a forbidden error when role may not perform op.
func Require(role models.Role, op Operation) error {
	if Authorize(role, op) {
		return nil
	}
	if msg, ok := denyMessages[op]; ok {
		return apperr.Forbidden(msg)
	}
	if isAdminOnly(op) {
		return apperr.Forbidden("admin access required")
	}
	return apperr.Forbidden("insufficient permissions")
}

// CanAccessReport decides owner-scoped report access: staff may touch any row,
// residents only rows they created.
func CanAccessReport(role models.Role, actorID, ownerID string) bool {
	if Authorize(role, ReportViewAny) {
		return true
	}
	return actorID != "" && actorID == ownerID
}

// CanDeleteReport mirrors CanAccessReport for deletion.
func CanDeleteReport(role models.Role, actorID, ownerID string) bool {
	if Authorize(role, ReportDeleteAny) {
		return true
	}
	return actorID != "" && actorID == ownerID
}

func isAdminOnly(op Operation) bool {
	roles := table[op]
	return len(roles) == 1 && roles[0] == models.RoleAdmin
}
