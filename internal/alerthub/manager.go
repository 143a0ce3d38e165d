// Package alerthub fans alert events out to live subscribers.
package alerthub

import (
	"context"
	"log"
	"sync"

	"brgyalert/backend/internal/models"
)

const broadcastBuffer = 64

// ManagerService keeps the set of connected clients and delivers every alert event
// to each of them.
type ManagerService struct {
	mu      sync.RWMutex
	Clients map[string]Client

	RegisterCh   chan Client
	UnregisterCh chan Client
	BroadcastCh  chan models.AlertEvent

	done chan struct{}
}

func NewManagerService() *ManagerService {
	return &ManagerService{
		Clients:      make(map[string]Client),
		RegisterCh:   make(chan Client),
		UnregisterCh: make(chan Client),
		BroadcastCh:  make(chan models.AlertEvent, broadcastBuffer),
		done:         make(chan struct{}),
	}
}

// Run is the hub loop. It returns when ctx is cancelled, closing every client.
func (m *ManagerService) Run(ctx context.Context) {
	defer close(m.done)

	for {
		select {
		case <-ctx.Done():
			m.mu.Lock()
			for id, client := range m.Clients {
				delete(m.Clients, id)
				client.Close()
			}
			m.mu.Unlock()
			log.Println("INFO: alert hub stopped")
			return

		case client := <-m.RegisterCh:
			m.mu.Lock()
			m.Clients[client.GetID()] = client
			m.mu.Unlock()
			log.Printf("INFO: live client %s connected", client.GetID())

		case client := <-m.UnregisterCh:
			m.remove(client)

		case event := <-m.BroadcastCh:
			m.deliver(event)
		}
	}
}

// Register hands a client to the hub. It is a no-op once the hub has stopped.
func (m *ManagerService) Register(client Client) {
	select {
	case m.RegisterCh <- client:
	case <-m.done:
	}
}

// Unregister asks the hub to drop a client. Safe to call after the hub stopped.
func (m *ManagerService) Unregister(client Client) {
	select {
	case m.UnregisterCh <- client:
	case <-m.done:
	}
}

// Broadcast queues an event for delivery. It never blocks the caller: when the
// queue is full the event is dropped and logged.
func (m *ManagerService) Broadcast(event models.AlertEvent) {
	select {
	case m.BroadcastCh <- event:
	default:
		log.Printf("WARN: alert hub queue full, dropping %s for alert %s", event.Type, event.AlertID)
	}
}

// ClientCount returns the number of connected clients.
func (m *ManagerService) ClientCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.Clients)
}

func (m *ManagerService) remove(client Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	// A reconnect may have replaced the entry under the same id.
	if existing, ok := m.Clients[client.GetID()]; ok && existing == client {
		delete(m.Clients, client.GetID())
		client.Close()
		log.Printf("INFO: live client %s disconnected", client.GetID())
	}
}

func (m *ManagerService) deliver(event models.AlertEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, client := range m.Clients {
		select {
		case client.GetSendChannel() <- event:
		default:
			// slow consumer
			delete(m.Clients, id)
			client.Close()
			log.Printf("WARN: live client %s dropped, send buffer full", id)
		}
	}
}
