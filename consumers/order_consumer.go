package consumers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	amqp "github.com/rabbitmq/amqp091-go"

	"marketplace-service/config"
	"marketplace-service/middlewares"
	"marketplace-service/models"
)

// EventHandler processes one decoded order event.
type EventHandler interface {
	Handle(ctx context.Context, evt models.OrderEvent) error
}

// StartOrderConsumer drains the order queue into h and logs dead letters.
// It returns once both consumers are registered; they stop when ctx is done
// or the channel closes.
func StartOrderConsumer(ctx context.Context, ch *amqp.Channel, cfg *config.Config, h EventHandler) error {
	// 消费主订单队列
	msgs, err := ch.Consume(
		cfg.OrderQueue,
		"marketplace-service", // consumer tag
		false,                 // auto-ack
		false,                 // exclusive
		false,                 // no-local
		false,                 // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("register order consumer: %w", err)
	}

	// 消费死信队列
	dlqMsgs, err := ch.Consume(
		cfg.DeadLetterQueue,
		"marketplace-service-dlq",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("register dead letter consumer: %w", err)
	}

	go consume(ctx, msgs, func(msg amqp.Delivery) { processOrderMessage(ctx, h, msg) })
	go consume(ctx, dlqMsgs, processDeadLetterMessage)
	return nil
}

func consume(ctx context.Context, msgs <-chan amqp.Delivery, fn func(amqp.Delivery)) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			fn(msg)
		}
	}
}

func processOrderMessage(ctx context.Context, h EventHandler, msg amqp.Delivery) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Recovered from panic in message processing", "panic", r)
			_ = msg.Nack(false, false)
		}
	}()

	var evt models.OrderEvent
	if err := json.Unmarshal(msg.Body, &evt); err != nil || evt.OrderID == "" {
		slog.Error("Invalid order message", "body", string(msg.Body), "err", err)
		_ = msg.Nack(false, false) // 拒绝消息，不重新入队
		middlewares.RecordEventConsumed(evt.Type, false)
		return
	}

	if err := h.Handle(ctx, evt); err != nil {
		slog.Error("Order event failed", "order_id", evt.OrderID, "type", evt.Type, "err", err)
		_ = msg.Nack(false, false)
		middlewares.RecordEventConsumed(evt.Type, false)
		return
	}

	if err := msg.Ack(false); err != nil {
		slog.Warn("Ack failed", "order_id", evt.OrderID, "err", err)
	}
	middlewares.RecordEventConsumed(evt.Type, true)
}

func processDeadLetterMessage(msg amqp.Delivery) {
	slog.Warn("Received dead letter", "type", msg.Type, "body", string(msg.Body))
	_ = msg.Ack(false)
}
