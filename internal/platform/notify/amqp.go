// Copyright (c) 2026 Komiko. All rights reserved.
// Author: hoang.bui.dev@gmail.com

package notify

import (
	stdctx "context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/hoangbui/komiko/pkg/uuidv7"
)

// publishTimeout bounds a single broker publish attempt.
const publishTimeout = 5 * time.Second

// AMQPNotifier is a [Notifier] backed by a RabbitMQ queue.
type AMQPNotifier struct {
	channel   *amqp.Channel
	queueName string
	logger    *slog.Logger
}

// NewAMQPNotifier declares the notification queue and returns a ready notifier.
//
// # Parameters
//   - connection: An established AMQP connection. The caller owns its lifecycle.
//   - queueName: Name of the durable queue to publish to.
//   - logger: Structured logger for delivery events.
func NewAMQPNotifier(connection *amqp.Connection, queueName string, logger *slog.Logger) (*AMQPNotifier, error) {
	channel, err := connection.Channel()
	if err != nil {
		return nil, err
	}

	// Durable queue so notifications survive broker restarts.
	_, err = channel.QueueDeclare(
		queueName,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	)
	if err != nil {
		_ = channel.Close()
		return nil, err
	}

	return &AMQPNotifier{
		channel:   channel,
		queueName: queueName,
		logger:    logger,
	}, nil
}

// Send publishes the notification as a persistent JSON message.
func (notifier *AMQPNotifier) Send(context stdctx.Context, kind string, recipientID string, payload map[string]any) bool {
	message := Message{
		ID:          uuidv7.New(),
		Kind:        kind,
		RecipientID: recipientID,
		Payload:     payload,
		SentAt:      time.Now().UTC(),
	}

	body, err := json.Marshal(message)
	if err != nil {
		notifier.logger.ErrorContext(context, "notification_encode_failed",
			slog.String("kind", kind),
			slog.Any("error", err),
		)
		return false
	}

	publishCtx, cancel := stdctx.WithTimeout(context, publishTimeout)
	defer cancel()

	err = notifier.channel.PublishWithContext(
		publishCtx,
		"",                 // exchange (default)
		notifier.queueName, // routing key
		false,              // mandatory
		false,              // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    message.ID,
			Timestamp:    message.SentAt,
			Body:         body,
		},
	)
	if err != nil {
		notifier.logger.ErrorContext(context, "notification_publish_failed",
			slog.String("kind", kind),
			slog.String("recipient_id", recipientID),
			slog.Any("error", err),
		)
		return false
	}

	notifier.logger.DebugContext(context, "notification_published",
		slog.String("kind", kind),
		slog.String("recipient_id", recipientID),
	)
	return true
}

// Close releases the underlying channel.
func (notifier *AMQPNotifier) Close() error {
	return notifier.channel.Close()
}
