package telegram

import (
	"fmt"
	"strings"

	"brgyalert/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// FormatAlertEvent renders an event as Telegram Markdown. Deletions carry no
// alert body and are not announced, so they render as "".
func FormatAlertEvent(event models.AlertEvent) string {
	if event.Alert == nil {
		return ""
	}
	switch event.Type {
	case models.EventAlertCreated:
		return formatAlert(headline(event.Alert), event.Alert)
	case models.EventAlertUpdated:
		return formatAlert("✏️ *ALERT UPDATED*", event.Alert)
	default:
		return ""
	}
}

func headline(a *models.Alert) string {
	switch a.Type {
	case models.AlertEmergency:
		return "🚨 *EMERGENCY ALERT*"
	case models.AlertWarning:
		return "⚠️ *WARNING*"
	case models.AlertAnnouncement:
		return "📢 *ANNOUNCEMENT*"
	default:
		return "ℹ️ *INFO*"
	}
}

func formatAlert(head string, a *models.Alert) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s priority)\n", head, strings.ToUpper(string(a.Priority)))
	fmt.Fprintf(&b, "*%s*\n", escape(a.Title))
	b.WriteString(escape(a.Message))
	if len(a.Areas) > 0 {
		fmt.Fprintf(&b, "\n\nAffected areas: %s", escape(strings.Join(a.Areas, ", ")))
	}
	if a.Status != "" && a.Status != models.AlertActive {
		fmt.Fprintf(&b, "\nStatus: %s", escape(string(a.Status)))
	}
	return b.String()
}

// escape neutralises Markdown in stored text. Titles and messages are already
// HTML-escaped by the sanitizer, which Telegram shows literally in Markdown mode.
func escape(s string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, s)
}
