// Package notification fans a composed trigger message out to every
// configured channel. Per-channel success or failure is opaque to the
// orchestrator; a channel that cannot be enqueued is logged and skipped, it
// never blocks the others.
package notification

import (
	"context"
	"fmt"
	"log"

	"github.com/clearpathlegal/growth-engine/internal/entity"
	"github.com/clearpathlegal/growth-engine/internal/infra/queue"
)

type Fanout struct {
	producer queue.ProducerInterface
	channels []string
}

func NewFanout(producer queue.ProducerInterface, channels []string) *Fanout {
	if len(channels) == 0 {
		channels = []string{"email"}
	}
	return &Fanout{producer: producer, channels: channels}
}

func (f *Fanout) Dispatch(ctx context.Context, msg entity.Message) error {
	var failed int
	for _, channel := range f.channels {
		payload := queue.NotificationPayload{
			Channel:   channel,
			Recipient: msg.Recipient,
			Title:     msg.Title,
			Body:      msg.Body,
			Priority:  string(msg.Priority),
			Metadata:  msg.Metadata,
		}
		if err := f.producer.PublishNotification(ctx, payload); err != nil {
			log.Printf("⚠️ fanout: enqueue on %s failed for %s: %v", channel, msg.Recipient, err)
			failed++
		}
	}

	if failed == len(f.channels) {
		return fmt.Errorf("fanout: all %d channels failed", failed)
	}
	return nil
}
