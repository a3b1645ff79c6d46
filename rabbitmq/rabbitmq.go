package rabbitmq

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"marketplace-service/config"
	"marketplace-service/models"
)

// ErrDelayUnsupported is returned by PublishDelayedEvent when the broker
// lacks the delayed message exchange.
var ErrDelayUnsupported = errors.New("delayed messages not supported by broker")

type RabbitMQ struct {
	Conn    *amqp.Connection
	Channel *amqp.Channel
	Cfg     *config.Config

	delayed bool
}

func NewRabbitMQ(cfg *config.Config) (*RabbitMQ, error) {
	conn, err := amqp.Dial(cfg.RabbitMQURL)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	return &RabbitMQ{
		Conn:    conn,
		Channel: ch,
		Cfg:     cfg,
	}, nil
}

func (r *RabbitMQ) deadLetterExchange() string {
	return r.Cfg.DeadLetterQueue + "_exchange"
}

func (r *RabbitMQ) SetupQueues() error {
	// 声明死信交换机和队列
	if err := r.Channel.ExchangeDeclare(
		r.deadLetterExchange(),
		"direct",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	if _, err := r.Channel.QueueDeclare(
		r.Cfg.DeadLetterQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{"x-queue-type": "classic"},
	); err != nil {
		return err
	}

	if err := r.Channel.QueueBind(r.Cfg.DeadLetterQueue, r.Cfg.DeadLetterQueue, r.deadLetterExchange(), false, nil); err != nil {
		return err
	}

	if err := r.Channel.ExchangeDeclare(
		r.Cfg.OrderExchange,
		"fanout",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return err
	}

	// 声明延迟交换机（需要RabbitMQ安装延迟插件）
	delayed := true
	if err := r.Channel.ExchangeDeclare(
		r.Cfg.DelayExchange,
		"x-delayed-message",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		amqp.Table{"x-delayed-type": "direct"},
	); err != nil {
		// a failed declare closes the channel
		slog.Warn("Delayed exchange not supported, payment checks disabled", "err", err)
		delayed = false
		if r.Channel, err = r.Conn.Channel(); err != nil {
			return fmt.Errorf("reopen channel: %w", err)
		}
	}

	// 声明主订单队列（带优先级和死信）
	if _, err := r.Channel.QueueDeclare(
		r.Cfg.OrderQueue,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		amqp.Table{
			"x-max-priority":            r.Cfg.MaxPriority,
			"x-dead-letter-exchange":    r.deadLetterExchange(),
			"x-dead-letter-routing-key": r.Cfg.DeadLetterQueue,
		},
	); err != nil {
		return err
	}

	if err := r.Channel.QueueBind(r.Cfg.OrderQueue, "", r.Cfg.OrderExchange, false, nil); err != nil {
		return err
	}
	if delayed {
		if err := r.Channel.QueueBind(r.Cfg.OrderQueue, r.Cfg.OrderQueue, r.Cfg.DelayExchange, false, nil); err != nil {
			return err
		}
	}
	r.delayed = delayed
	return nil
}

func encode(evt models.OrderEvent) ([]byte, error) {
	if evt.Occurred.IsZero() {
		evt.Occurred = time.Now().UTC()
	}
	return json.Marshal(evt)
}

// PublishOrderEvent sends evt to the order exchange. Higher priorities are
// consumed first.
func (r *RabbitMQ) PublishOrderEvent(ctx context.Context, evt models.OrderEvent, priority uint8) error {
	body, err := encode(evt)
	if err != nil {
		return err
	}
	return r.Channel.PublishWithContext(ctx,
		r.Cfg.OrderExchange,
		"",
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Type:         evt.Type,
			MessageId:    evt.OrderID + ":" + evt.Type,
			Body:         body,
			Priority:     priority,
		},
	)
}

// PublishDelayedEvent sends evt through the delayed exchange so it reaches
// the order queue after delay.
func (r *RabbitMQ) PublishDelayedEvent(ctx context.Context, evt models.OrderEvent, delay time.Duration) error {
	if !r.delayed {
		return ErrDelayUnsupported
	}
	body, err := encode(evt)
	if err != nil {
		return err
	}
	return r.Channel.PublishWithContext(ctx,
		r.Cfg.DelayExchange,
		r.Cfg.OrderQueue,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now(),
			ContentType:  "application/json",
			Type:         evt.Type,
			Body:         body,
			Headers: amqp.Table{
				"x-delay": delay.Milliseconds(), // 延迟时间（毫秒）
			},
		},
	)
}

func (r *RabbitMQ) Close() {
	if r.Channel != nil {
		if err := r.Channel.Close(); err != nil {
			slog.Warn("Closing rabbitmq channel", "err", err)
		}
	}
	if r.Conn != nil {
		if err := r.Conn.Close(); err != nil {
			slog.Warn("Closing rabbitmq connection", "err", err)
		}
	}
}
