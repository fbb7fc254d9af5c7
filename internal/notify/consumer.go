package notify

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// StartEmailConsumer connects to RabbitMQ, declares the contact.email
// queue and delivers each message through the given Sender.  It runs a
// reconnect loop with exponential backoff and never returns under
// normal operation; call it in its own goroutine.  Delivery failures
// reject the message without requeueing so a broken address cannot
// wedge the queue.
func StartEmailConsumer(sender Sender, log zerolog.Logger) {
	url := brokerURL()
	backoff := time.Second
	for {
		conn, err := amqp.Dial(url)
		if err != nil {
			log.Warn().Err(err).Dur("retry_in", backoff).Msg("email-consumer: dial failed")
			time.Sleep(backoff)
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		if err := consumeLoop(conn, sender, log); err != nil {
			log.Warn().Err(err).Msg("email-consumer: consume loop ended, reconnecting")
		}
		_ = conn.Close()
		time.Sleep(2 * time.Second)
	}
}

func consumeLoop(conn *amqp.Connection, sender Sender, log zerolog.Logger) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(10, 0, false); err != nil {
		log.Warn().Err(err).Msg("email-consumer: set QoS failed")
	}

	if _, err := ch.QueueDeclare(emailQueueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}

	msgs, err := ch.Consume(emailQueueName, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for d := range msgs {
		var msg EmailMessage
		if err := json.Unmarshal(d.Body, &msg); err != nil {
			log.Error().Err(err).Msg("email-consumer: bad payload")
			_ = d.Nack(false, false)
			continue
		}
		if err := sender.Send(msg); err != nil {
			log.Error().Err(err).Str("to", msg.To).Msg("email-consumer: send failed")
			_ = d.Nack(false, false)
			continue
		}
		log.Info().Str("to", msg.To).Str("subject", msg.Subject).Msg("email delivered")
		_ = d.Ack(false)
	}
	return errors.New("deliveries channel closed")
}
