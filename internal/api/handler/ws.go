package handler

import (
	"log"
	"net/http"

	"brgyalert/backend/internal/alerthub"
	"brgyalert/backend/internal/api/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The token is checked before the upgrade; browsers connect from the web app's origin.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// AlertFeed upgrades an authenticated request to the live alert WebSocket.
func (h *Handler) AlertFeed(c *gin.Context) {
	user := middleware.CurrentUser(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written the HTTP error.
		log.Printf("WARN: websocket upgrade for user %s failed: %v", user.ID, err)
		return
	}

	client := alerthub.NewWebSocketClient(uuid.New().String(), user.ID, conn, h.Hub)
	h.Hub.Register(client)
	client.Run()
}
