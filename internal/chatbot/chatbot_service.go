// Package chatbot answers common resident questions from a fixed rule table,
// in English or Tagalog.
package chatbot

import (
	"context"
	"strings"
	"unicode/utf8"

	"brgyalert/backend/internal/apperr"
	"brgyalert/backend/internal/audit"
	"brgyalert/backend/internal/config"
	"brgyalert/backend/internal/localization"
	"brgyalert/backend/internal/models"
	"brgyalert/backend/internal/sanitize"
	"brgyalert/backend/internal/storage"

	"github.com/google/uuid"
)

type QueryInput struct {
	Message   string
	SessionID string
	Language  string
}

type Reply struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	Topic     Topic  `json:"topic"`
	Language  string `json:"language"`
}

type Service struct {
	Storage   storage.Storage
	Localizer *localization.Localizer
}

func NewService(s storage.Storage, l *localization.Localizer) *Service {
	return &Service{Storage: s, Localizer: l}
}

// Query answers one message. A missing session id is generated so clients can
// thread follow-up questions; the question is recorded in the audit log.
func (s *Service) Query(ctx context.Context, actor *models.User, in QueryInput) (*Reply, error) {
	message := strings.TrimSpace(in.Message)
	if message == "" {
		return nil, apperr.Validation("message is required")
	}
	if utf8.RuneCountInString(message) > config.MaxChatMessageLength {
		return nil, apperr.Validation("message must be at most %d characters", config.MaxChatMessageLength)
	}

	sessionID := strings.TrimSpace(in.SessionID)
	if utf8.RuneCountInString(sessionID) > config.MaxSessionIDLength {
		return nil, apperr.Validation("session_id must be at most %d characters", config.MaxSessionIDLength)
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}

	lang := s.Localizer.Resolve(in.Language)
	topic := Classify(message)

	preview := sanitize.Text(message, config.ChatLogPreview)
	if err := audit.Append(ctx, s.Storage, audit.ActionChatbotQuery, actor.ID, "User asked: "+preview); err != nil {
		return nil, apperr.Internal(err)
	}

	return &Reply{
		Response:  s.Localizer.GetString(lang, topic.key()),
		SessionID: sessionID,
		Topic:     topic,
		Language:  lang,
	}, nil
}
