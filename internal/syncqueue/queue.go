// Package syncqueue hands completed investigations off to the authorization
// workflow. Field devices work offline for long stretches, so completions
// are queued in order and drained whenever connectivity returns; the
// in-process queue is a mirror of the persisted record, not the system of
// record, so losing it on crash only delays the hand-off until the next
// drain of the stored completed records.
package syncqueue

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/edd1080/project-olympo-sub002/internal/investigation/models"
)

// Publisher delivers one completed-investigation envelope to the broker.
type Publisher interface {
	Publish(ctx context.Context, key string, payload []byte) error
}

// Envelope is the wire message for a completed investigation.
type Envelope struct {
	Event         string                `json:"event"`
	ApplicationID string                `json:"application_id"`
	OccurredAt    time.Time             `json:"occurred_at"`
	Investigation *models.Investigation `json:"investigation"`
}

// EventCompleted is the only event the engine emits.
const EventCompleted = "investigation.completed"

// Outbox is an ordered, connectivity-aware queue in front of a Publisher.
// It satisfies the investigation service's CompletedPublisher: Enqueue never
// fails on broker trouble, it only defers delivery.
type Outbox struct {
	sink   Publisher
	logger *slog.Logger

	// drainMu serializes drainers. The Run ticker and every enqueue call
	// Drain concurrently; without exclusion two drainers can publish the
	// same head and then each drop a head, losing the envelope in between.
	drainMu sync.Mutex

	mu      sync.Mutex
	online  bool
	pending []Envelope
}

// NewOutbox constructs an outbox that starts online.
func NewOutbox(sink Publisher, logger *slog.Logger) *Outbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Outbox{sink: sink, logger: logger, online: true}
}

// PublishCompleted queues the hand-off and attempts an immediate drain when
// online. The record is already a private clone from the service.
func (o *Outbox) PublishCompleted(ctx context.Context, record *models.Investigation) error {
	if record == nil {
		return fmt.Errorf("investigation record is required")
	}

	o.mu.Lock()
	o.pending = append(o.pending, Envelope{
		Event:         EventCompleted,
		ApplicationID: record.ApplicationID.String(),
		OccurredAt:    record.UpdatedAt,
		Investigation: record,
	})
	o.mu.Unlock()

	o.Drain(ctx)
	return nil
}

// SetOnline flips connectivity. Going online does not drain by itself; the
// Run loop or the next enqueue picks the backlog up.
func (o *Outbox) SetOnline(online bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.online = online
}

// Online reports current connectivity.
func (o *Outbox) Online() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.online
}

// Pending reports the backlog size.
func (o *Outbox) Pending() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// Drain delivers queued envelopes in FIFO order while online. Delivery
// stops at the first failure so ordering survives broker flaps; the failed
// envelope stays at the head for the next attempt. Only one drainer runs at
// a time; each envelope is published exactly once per delivery.
func (o *Outbox) Drain(ctx context.Context) {
	o.drainMu.Lock()
	defer o.drainMu.Unlock()

	for {
		o.mu.Lock()
		if !o.online || len(o.pending) == 0 {
			o.mu.Unlock()
			return
		}
		next := o.pending[0]
		o.mu.Unlock()

		payload, err := json.Marshal(next)
		if err != nil {
			// Unmarshalable envelopes cannot ever deliver; drop with a log.
			o.logger.ErrorContext(ctx, "dropping undeliverable completion envelope",
				"application_id", next.ApplicationID,
				"error", err,
			)
			o.dropHead()
			continue
		}

		if err := o.sink.Publish(ctx, next.ApplicationID, payload); err != nil {
			o.logger.WarnContext(ctx, "completion hand-off failed; will retry",
				"application_id", next.ApplicationID,
				"pending", o.Pending(),
				"error", err,
			)
			return
		}

		o.logger.InfoContext(ctx, "completion handed off",
			"application_id", next.ApplicationID,
		)
		o.dropHead()
	}
}

func (o *Outbox) dropHead() {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.pending) > 0 {
		o.pending = o.pending[1:]
	}
}

// Run drains on a fixed interval until the context ends. One goroutine per
// process.
func (o *Outbox) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.Drain(ctx)
		}
	}
}
