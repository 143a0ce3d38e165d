package telegram

import (
	"log"
	"strconv"
	"sync"

	"brgyalert/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const sendBuffer = 64

// Sender is the part of *tgbotapi.BotAPI the broadcaster needs.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Client implements alerthub.Client. It forwards alert events to a single
// Telegram chat, usually the barangay's public group.
type Client struct {
	ChatID int64
	Bot    Sender
	Send   chan models.AlertEvent

	closeOnce sync.Once
	done      chan struct{}
}

func NewClient(bot Sender, chatID int64) *Client {
	return &Client{
		ChatID: chatID,
		Bot:    bot,
		Send:   make(chan models.AlertEvent, sendBuffer),
		done:   make(chan struct{}),
	}
}

func (c *Client) GetID() string                            { return "telegram:" + strconv.FormatInt(c.ChatID, 10) }
func (c *Client) GetSendChannel() chan<- models.AlertEvent { return c.Send }

// Run starts the write pump. Telegram has no read side here; commands are
// handled by BotService.
func (c *Client) Run() {
	go c.writePump()
}

func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.Send) })
}

// Done is closed once the write pump has drained.
func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) writePump() {
	defer func() {
		close(c.done)
		log.Printf("INFO: telegram broadcaster for chat %d stopped", c.ChatID)
	}()

	for event := range c.Send {
		text := FormatAlertEvent(event)
		if text == "" {
			continue
		}
		msg := tgbotapi.NewMessage(c.ChatID, text)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if _, err := c.Bot.Send(msg); err != nil {
			log.Printf("ERROR: telegram send for alert %s failed: %v", event.AlertID, err)
		}
	}
}
