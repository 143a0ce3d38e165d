package alerthub

import (
	"context"
	"encoding/json"
	"log"

	"brgyalert/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// Subscriber opens the Redis subscription alert events are published on.
type Subscriber interface {
	SubscribeToAlerts(ctx context.Context) *redis.PubSub
}

// StartPubSubListener relays alert events published by any instance into this
// hub. It returns once the subscription is confirmed.
func (m *ManagerService) StartPubSubListener(ctx context.Context, sub Subscriber) error {
	pubsub := sub.SubscribeToAlerts(ctx)
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return err
	}

	go func() {
		defer pubsub.Close()
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					log.Println("WARN: alert subscription closed")
					return
				}
				var event models.AlertEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					log.Printf("ERROR: decoding alert event from redis: %v", err)
					continue
				}
				m.Broadcast(event)
			}
		}
	}()
	return nil
}
