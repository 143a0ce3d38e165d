package config

import "time"

const (
	// Session
	TokenTTL      = 24 * time.Hour
	DefaultIssuer = "brgyalert-service"

	// Login / registration throttling
	AuthAttemptLimit  = 5
	AuthAttemptWindow = 300 * time.Second

	// Password policy
	PasswordMinLength = 8
	PasswordMaxLength = 128

	// Field limits, applied after sanitisation
	MaxNameLength        = 255
	MinNameLength        = 2
	MaxPhoneLength       = 20
	MaxAddressLength     = 500
	MaxTitleLength       = 255
	MinTitleLength       = 3
	MaxBodyLength        = 5000
	MinBodyLength        = 10
	MaxLocationLength    = 500
	MaxResponseLength    = 5000
	MaxChatMessageLength = 1000
	MaxSessionIDLength   = 100
	MaxAreaLength        = 100
	MaxAreas             = 20

	// Page sizes
	ResidentReportPage = 100
	StaffReportPage    = 500
	AlertPage          = 100
	UserPage           = 500
	LogPageDefault     = 100
	LogPageMax         = 500
	RecentReports      = 5

	// Audit details for chatbot queries keep only the start of the question
	ChatLogPreview = 100
)
