package messaging

import (
	"context"
	"log"
	"sync"
	"time"

	"brgyalert/backend/internal/storage"
)

const (
	workerInterval     = 1 * time.Second
	batchSize          = 50
	cleanupInterval    = 1 * time.Hour
	publishedRetention = 24 * time.Hour
)

// Publisher is satisfied by *RabbitMQ.
type Publisher interface {
	Publish(ctx context.Context, messageID, routingKey string, body []byte) error
}

// OutboxWorker publishes pending outbox rows and prunes old published ones.
type OutboxWorker struct {
	store storage.Storage
	pub   Publisher
	now   func() time.Time

	done chan struct{}
	wg   sync.WaitGroup
}

func NewOutboxWorker(s storage.Storage, pub Publisher) *OutboxWorker {
	return &OutboxWorker{
		store: s,
		pub:   pub,
		now:   time.Now,
		done:  make(chan struct{}),
	}
}

func (w *OutboxWorker) Start() {
	w.wg.Add(2)
	go w.processLoop()
	go w.cleanupLoop()
	log.Println("INFO: outbox worker started")
}

func (w *OutboxWorker) Stop() {
	close(w.done)
	w.wg.Wait()
	log.Println("INFO: outbox worker stopped")
}

func (w *OutboxWorker) processLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(workerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			if _, err := w.ProcessOnce(context.Background()); err != nil {
				log.Printf("ERROR: outbox batch: %v", err)
			}
		}
	}
}

// ProcessOnce publishes one batch of pending rows. The batch is read with row
// locks inside a transaction so concurrent instances never publish the same row.
// It returns how many rows were published.
func (w *OutboxWorker) ProcessOnce(ctx context.Context) (int, error) {
	published := 0
	err := w.store.WithinTx(ctx, func(tx storage.Repository) error {
		msgs, err := tx.PendingOutbox(ctx, batchSize)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			if err := w.pub.Publish(ctx, msg.ID, msg.RoutingKey, msg.Payload); err != nil {
				log.Printf("WARN: outbox publish %s (%s): %v", msg.ID, msg.RoutingKey, err)
				if err := tx.MarkOutboxFailed(ctx, msg.ID, err.Error()); err != nil {
					return err
				}
				continue
			}
			if err := tx.MarkOutboxPublished(ctx, msg.ID); err != nil {
				return err
			}
			published++
		}
		return nil
	})
	return published, err
}

func (w *OutboxWorker) cleanupLoop() {
	defer w.wg.Done()

	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			if _, err := w.Cleanup(context.Background()); err != nil {
				log.Printf("ERROR: outbox cleanup: %v", err)
			}
		}
	}
}

// Cleanup deletes rows published more than a day ago.
func (w *OutboxWorker) Cleanup(ctx context.Context) (int64, error) {
	deleted, err := w.store.DeletePublishedOutbox(ctx, w.now().UTC().Add(-publishedRetention))
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		log.Printf("INFO: outbox cleaned %d published messages", deleted)
	}
	return deleted, nil
}
