package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	publishTimeout = 5 * time.Second
	dialTimeout    = 3 * time.Second
)

// AMQPPublisher publishes events as persistent JSON messages to a durable
// queue on the default exchange. The connection is opened lazily and
// re-dialled after the broker drops it.
//
// A single slot guards the connection. Callers waiting for it give up when
// their context ends, so a stalled broker cannot hold a request past its
// publish timeout.
type AMQPPublisher struct {
	url         string
	queue       string
	logger      *slog.Logger
	dialTimeout time.Duration

	slot chan struct{}
	conn *amqp.Connection
	ch   *amqp.Channel
}

func NewAMQPPublisher(url, queue string, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		url:         url,
		queue:       queue,
		logger:      logger,
		dialTimeout: dialTimeout,
		slot:        make(chan struct{}, 1),
	}
}

func (p *AMQPPublisher) acquire(ctx context.Context) error {
	select {
	case p.slot <- struct{}{}:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("amqp publisher busy: %w", ctx.Err())
	}
}

func (p *AMQPPublisher) release() { <-p.slot }

// Connect dials the broker and declares the queue. Calling it at startup
// surfaces configuration errors early; publishing connects on demand anyway.
func (p *AMQPPublisher) Connect() error {
	if err := p.acquire(context.Background()); err != nil {
		return err
	}
	defer p.release()
	return p.ensureChannel()
}

func (p *AMQPPublisher) ensureChannel() error {
	if p.ch != nil && !p.ch.IsClosed() && p.conn != nil && !p.conn.IsClosed() {
		return nil
	}
	p.reset()

	// DefaultDial bounds both the TCP connect and the AMQP handshake.
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Locale: "en_US",
		Dial:   amqp.DefaultDial(p.dialTimeout),
	})
	if err != nil {
		return fmt.Errorf("amqp dial failed: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("amqp channel open failed: %w", err)
	}

	if _, err := ch.QueueDeclare(
		p.queue,
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("amqp queue declare failed: %w", err)
	}

	p.conn = conn
	p.ch = ch
	p.logger.Info("connected to message broker", slog.String("queue", p.queue))
	return nil
}

func (p *AMQPPublisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func (p *AMQPPublisher) PublishStatusChanged(ctx context.Context, event StatusChangedEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.acquire(ctx); err != nil {
		return err
	}
	defer p.release()

	if err := p.ensureChannel(); err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key = queue name
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Type:         "complaint.status_changed",
			Body:         body,
		},
	)
	if err != nil {
		p.reset()
		return fmt.Errorf("amqp publish failed: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if err := p.acquire(context.Background()); err != nil {
		return err
	}
	defer p.release()
	p.reset()
	return nil
}
