package handler

import (
	"brgyalert/backend/internal/api/middleware"
	"brgyalert/backend/internal/api/response"
	"brgyalert/backend/internal/chatbot"

	"github.com/gin-gonic/gin"
)

type chatbotRequest struct {
	Message   string `json:"message" binding:"required"`
	SessionID string `json:"session_id"`
	Language  string `json:"language"`
}

func (h *Handler) ChatbotQuery(c *gin.Context) {
	var req chatbotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BindError(c, err)
		return
	}

	lang := req.Language
	if lang == "" {
		lang = c.GetHeader("Accept-Language")
	}

	reply, err := h.Chatbot.Query(c.Request.Context(), middleware.CurrentUser(c), chatbot.QueryInput{
		Message:   req.Message,
		SessionID: req.SessionID,
		Language:  lang,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, reply)
}
