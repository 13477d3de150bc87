package driver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/Veraticus/hotel-itemizer/internal/common"
)

const publishTimeout = 5 * time.Second

// publisher is the subset of *amqp091.Channel the queue driver uses.
type publisher interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp091.Publishing) error
}

// QueueDriver publishes payloads to a RabbitMQ exchange for a remote
// automation worker that owns the destination UI.
type QueueDriver struct {
	pub      publisher
	conn     *amqp091.Connection
	channel  *amqp091.Channel
	exchange string
	queue    string
}

// NewQueueDriver dials url and declares a durable direct exchange with a
// queue bound under its own name.
func NewQueueDriver(url, exchange, queue string) (*QueueDriver, error) {
	conn, err := amqp091.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial AMQP: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}

	d := &QueueDriver{
		pub:      channel,
		conn:     conn,
		channel:  channel,
		exchange: exchange,
		queue:    queue,
	}

	if err := d.setup(); err != nil {
		_ = d.Close()
		return nil, fmt.Errorf("setup exchange and queue: %w", err)
	}

	return d, nil
}

func (d *QueueDriver) setup() error {
	err := d.channel.ExchangeDeclare(
		d.exchange, // name
		"direct",   // type
		true,       // durable
		false,      // auto-deleted
		false,      // internal
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}

	_, err = d.channel.QueueDeclare(
		d.queue, // name
		true,    // durable
		false,   // delete when unused
		false,   // exclusive
		false,   // no-wait
		nil,     // arguments
	)
	if err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	// Routing key is the queue name for a direct exchange.
	if err := d.channel.QueueBind(d.queue, d.queue, d.exchange, false, nil); err != nil {
		return fmt.Errorf("bind queue: %w", err)
	}

	return nil
}

// Name identifies the driver in reports.
func (d *QueueDriver) Name() string {
	return "amqp"
}

// SubmitEntry publishes p as a persistent JSON message.
func (d *QueueDriver) SubmitEntry(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = d.pub.PublishWithContext(
		ctx,
		d.exchange, // exchange
		d.queue,    // routing key
		false,      // mandatory
		false,      // immediate
		amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now(),
			Type:         "itemization.entry",
			Body:         body,
		},
	)
	if err != nil {
		return classifyPublishError(err)
	}

	slog.InfoContext(ctx, "Published itemization entry",
		"index", p.Index,
		"subcategory", p.Subcategory,
		"exchange", d.exchange,
		"queue", d.queue)

	return nil
}

func classifyPublishError(err error) error {
	if errors.Is(err, amqp091.ErrClosed) {
		return fmt.Errorf("%w: %v", common.ErrDriverUnavailable, err)
	}
	var amqpErr *amqp091.Error
	if errors.As(err, &amqpErr) {
		return &common.RetryableError{Err: fmt.Errorf("publish message: %w", err), Retryable: amqpErr.Recover}
	}
	return fmt.Errorf("publish message: %w", err)
}

// Close closes the channel and connection.
func (d *QueueDriver) Close() error {
	if d.channel != nil {
		_ = d.channel.Close()
	}
	if d.conn != nil {
		return d.conn.Close()
	}
	return nil
}
