package queue

import (
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"
)

// ChannelSender delivers one notification on a single channel.
type ChannelSender interface {
	Send(recipient, title, body string, metadata map[string]string) error
}

// Worker consumes the notification queue and routes each job to its
// channel sender. Malformed messages are rejected without requeue so a
// poison message cannot wedge the queue; the DLQ keeps them for inspection.
type Worker struct {
	Channel *amqp.Channel
	Senders map[string]ChannelSender
}

func NewWorker(ch *amqp.Channel, senders map[string]ChannelSender) *Worker {
	return &Worker{Channel: ch, Senders: senders}
}

func (w *Worker) Start(queueName string) {
	msgs, err := w.Channel.Consume(
		queueName,
		"",    // consumer
		false, // manual ack
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		log.Fatalf("❌ [WORKER] registering RabbitMQ consumer: %s", err)
	}

	forever := make(chan bool)

	go func() {
		for d := range msgs {
			var payload NotificationPayload
			if err := json.Unmarshal(d.Body, &payload); err != nil {
				log.Printf("❌ [WORKER] invalid JSON: %s", err)
				d.Nack(false, false)
				continue
			}

			sender, ok := w.Senders[payload.Channel]
			if !ok {
				// Unknown channel: ack and move on, there is nothing to retry.
				log.Printf("⚠️ [WORKER] unknown channel %q, dropping", payload.Channel)
				d.Ack(false)
				continue
			}

			if err := sender.Send(payload.Recipient, payload.Title, payload.Body, payload.Metadata); err != nil {
				log.Printf("❌ [WORKER] %s delivery to %s failed: %s", payload.Channel, payload.Recipient, err)
				d.Nack(false, false)
			} else {
				log.Printf("✅ [WORKER] %s delivered to %s", payload.Channel, payload.Recipient)
				d.Ack(false)
			}
		}
	}()

	log.Printf(" [*] notification worker waiting on queue '%s'", queueName)
	<-forever
}
