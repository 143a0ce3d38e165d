// Package telegram connects the barangay's Telegram bot: it broadcasts alert
// events to a group chat and answers a few read-only commands.
package telegram

import (
	"context"
	"fmt"
	"log"
	"strings"

	"brgyalert/backend/internal/alert"
	"brgyalert/backend/internal/localization"
	"brgyalert/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const commandAlertLimit = 5

// AlertLister is satisfied by *alert.Service.
type AlertLister interface {
	List(ctx context.Context, opts alert.ListOptions) ([]models.Alert, error)
}

// BotService receives Telegram updates and replies to commands.
type BotService struct {
	BotAPI    *tgbotapi.BotAPI
	Alerts    AlertLister
	Localizer *localization.Localizer
}

// NewBotService authorises the bot token with Telegram.
func NewBotService(token string, alerts AlertLister, l *localization.Localizer) (*BotService, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	bot.Debug = false
	log.Printf("INFO: telegram authorized on account %s", bot.Self.UserName)

	return &BotService{BotAPI: bot, Alerts: alerts, Localizer: l}, nil
}

// Run long-polls for updates until ctx is cancelled.
func (s *BotService) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := s.BotAPI.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			s.BotAPI.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || !update.Message.IsCommand() {
				continue
			}
			reply := tgbotapi.NewMessage(update.Message.Chat.ID, s.HandleCommand(ctx, update.Message))
			reply.ParseMode = tgbotapi.ModeMarkdown
			if _, err := s.BotAPI.Send(reply); err != nil {
				log.Printf("ERROR: telegram reply to chat %d failed: %v", update.Message.Chat.ID, err)
			}
		}
	}
}

// HandleCommand builds the reply text for a command message.
func (s *BotService) HandleCommand(ctx context.Context, msg *tgbotapi.Message) string {
	lang := "en"
	if msg.From != nil {
		lang = s.Localizer.Resolve(msg.From.LanguageCode)
	}

	switch msg.Command() {
	case "start", "help":
		return escape(s.Localizer.GetString(lang, "tg_welcome"))
	case "alerts":
		alerts, err := s.Alerts.List(ctx, alert.ListOptions{ActiveOnly: true})
		if err != nil {
			log.Printf("ERROR: listing alerts for telegram: %v", err)
			return escape(s.Localizer.GetString(lang, "tg_error"))
		}
		if len(alerts) == 0 {
			return escape(s.Localizer.GetString(lang, "tg_no_alerts"))
		}
		return formatAlertList(s.Localizer.GetString(lang, "tg_alerts_header"), alerts)
	default:
		return escape(s.Localizer.GetString(lang, "tg_unknown_command"))
	}
}

func formatAlertList(header string, alerts []models.Alert) string {
	var b strings.Builder
	b.WriteString(escape(header))
	for i, a := range alerts {
		if i == commandAlertLimit {
			break
		}
		fmt.Fprintf(&b, "\n• *[%s]* %s", strings.ToUpper(string(a.Priority)), escape(a.Title))
	}
	return b.String()
}
