package models

import "strings"

// Role governs operation-level authorization.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleOfficial Role = "OFFICIAL"
	RoleResident Role = "RESIDENT"
)

// ParseRole accepts any casing of the three role names. Unknown input is rejected.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleAdmin:
		return RoleAdmin, true
	case RoleOfficial:
		return RoleOfficial, true
	case RoleResident:
		return RoleResident, true
	}
	return "", false
}

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleOfficial || r == RoleResident
}

// IsStaff reports whether the role belongs to barangay personnel.
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RoleOfficial
}

// UserStatus marks whether an account may sign in.
type UserStatus string

const (
	UserActive   UserStatus = "active"
	UserInactive UserStatus = "inactive"
)

func ParseUserStatus(s string) (UserStatus, bool) {
	switch UserStatus(strings.ToLower(strings.TrimSpace(s))) {
	case UserActive:
		return UserActive, true
	case UserInactive, "deactivated", "disabled":
		return UserInactive, true
	}
	return "", false
}

// ReportType classifies an incident report.
type ReportType string

const (
	ReportEmergency      ReportType = "emergency"
	ReportCrime          ReportType = "crime"
	ReportInfrastructure ReportType = "infrastructure"
	ReportHealth         ReportType = "health"
	ReportFlood          ReportType = "flood"
	ReportComplaint      ReportType = "complaint"
	ReportRequest        ReportType = "request"
	ReportOther          ReportType = "other"
)

var reportTypes = []ReportType{
	ReportEmergency, ReportCrime, ReportInfrastructure, ReportHealth,
	ReportFlood, ReportComplaint, ReportRequest, ReportOther,
}

// ReportTypes lists every report type in display order.
func ReportTypes() []ReportType {
	out := make([]ReportType, len(reportTypes))
	copy(out, reportTypes)
	return out
}

// NormalizeReportType maps free text onto a report type. Unrecognised input becomes ReportOther.
func NormalizeReportType(s string) ReportType {
	v := ReportType(strings.ToLower(strings.TrimSpace(s)))
	for _, t := range reportTypes {
		if v == t {
			return t
		}
	}
	return ReportOther
}

// ReportStatus is a state of the report lifecycle.
type ReportStatus string

const (
	ReportPending    ReportStatus = "pending"
	ReportInProgress ReportStatus = "in_progress"
	ReportResolved   ReportStatus = "resolved"
	ReportRejected   ReportStatus = "rejected"
)

// ParseReportStatus is strict: a status update with an unknown value is a client error.
func ParseReportStatus(s string) (ReportStatus, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.NewReplacer(" ", "_", "-", "_").Replace(v)
	switch ReportStatus(v) {
	case ReportPending:
		return ReportPending, true
	case ReportInProgress:
		return ReportInProgress, true
	case ReportResolved:
		return ReportResolved, true
	case ReportRejected:
		return ReportRejected, true
	}
	return "", false
}

// Terminal reports whether no forward transition leaves this status.
func (s ReportStatus) Terminal() bool {
	return s == ReportResolved || s == ReportRejected
}

// AlertType classifies a barangay alert.
type AlertType string

const (
	AlertEmergency    AlertType = "emergency"
	AlertAnnouncement AlertType = "announcement"
	AlertWarning      AlertType = "warning"
	AlertInfo         AlertType = "info"
)

// NormalizeAlertType maps free text onto an alert type. "advisory" was the name used by
// the first release for warnings; anything else unrecognised becomes AlertInfo.
func NormalizeAlertType(s string) AlertType {
	switch v := strings.ToLower(strings.TrimSpace(s)); v {
	case string(AlertEmergency):
		return AlertEmergency
	case string(AlertAnnouncement):
		return AlertAnnouncement
	case string(AlertWarning), "advisory":
		return AlertWarning
	default:
		return AlertInfo
	}
}

// AlertPriority orders alerts for display.
type AlertPriority string

const (
	PriorityHigh   AlertPriority = "high"
	PriorityMedium AlertPriority = "medium"
	PriorityLow    AlertPriority = "low"
)

// NormalizeAlertPriority defaults to PriorityMedium for empty or unknown input.
func NormalizeAlertPriority(s string) AlertPriority {
	switch AlertPriority(strings.ToLower(strings.TrimSpace(s))) {
	case PriorityHigh:
		return PriorityHigh
	case PriorityLow:
		return PriorityLow
	default:
		return PriorityMedium
	}
}

// AlertStatus tracks whether an alert is still shown to residents.
type AlertStatus string

const (
	AlertActive   AlertStatus = "active"
	AlertInactive AlertStatus = "inactive"
	AlertExpired  AlertStatus = "expired"
)

func ParseAlertStatus(s string) (AlertStatus, bool) {
	switch AlertStatus(strings.ToLower(strings.TrimSpace(s))) {
	case AlertActive:
		return AlertActive, true
	case AlertInactive:
		return AlertInactive, true
	case AlertExpired:
		return AlertExpired, true
	}
	return "", false
}
