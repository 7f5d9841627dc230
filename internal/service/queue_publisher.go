// Package service publishes domain events to RabbitMQ.  Publishing is best
// effort: callers log failures and carry on with the request.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	q "github.com/iliyamo/eco-education/internal/queue"
)

// Publisher emits domain events.
type Publisher interface {
	PublishActivityLogged(ctx context.Context, ev q.ActivityLoggedEvent) error
	PublishPostLiked(ctx context.Context, ev q.PostLikedEvent) error
	Close() error
}

// Noop discards every event.  It is used when EVENTS_ENABLED is off.
type Noop struct{}

func (Noop) PublishActivityLogged(context.Context, q.ActivityLoggedEvent) error { return nil }
func (Noop) PublishPostLiked(context.Context, q.PostLikedEvent) error           { return nil }
func (Noop) Close() error                                                       { return nil }

// AMQPPublisher publishes persistent JSON messages on the default exchange.
// The connection is dialled lazily and re-dialled after it drops.
type AMQPPublisher struct {
	url  string
	mu   sync.Mutex
	conn *amqp.Connection
}

func NewAMQPPublisher(url string) *AMQPPublisher { return &AMQPPublisher{url: url} }

func (p *AMQPPublisher) PublishActivityLogged(ctx context.Context, ev q.ActivityLoggedEvent) error {
	return p.publish(ctx, q.ActivityLoggedQueue, ev)
}

func (p *AMQPPublisher) PublishPostLiked(ctx context.Context, ev q.PostLikedEvent) error {
	return p.publish(ctx, q.PostLikedQueue, ev)
}

// dialTimeout bounds the TCP connect and AMQP handshake when the caller's
// context has no deadline.
const dialTimeout = 2 * time.Second

// connection returns the open connection or dials a new one.  The dial runs
// outside p.mu and is bounded by ctx, so a silent broker holds up a caller
// no longer than its own deadline.
func (p *AMQPPublisher) connection(ctx context.Context) (*amqp.Connection, error) {
	p.mu.Lock()
	if p.conn != nil && !p.conn.IsClosed() {
		conn := p.conn
		p.mu.Unlock()
		return conn, nil
	}
	p.mu.Unlock()

	timeout := dialTimeout
	if dl, ok := ctx.Deadline(); ok {
		timeout = time.Until(dl)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("rabbitmq dial: %w", context.DeadlineExceeded)
	}
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(timeout),
	})
	if err != nil {
		return nil, fmt.Errorf("rabbitmq dial: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn != nil && !p.conn.IsClosed() {
		// another publish won the race
		_ = conn.Close()
		return p.conn, nil
	}
	p.conn = conn
	return conn, nil
}

func (p *AMQPPublisher) publish(ctx context.Context, queue string, event any) error {
	conn, err := p.connection(ctx)
	if err != nil {
		return err
	}
	// channels are not safe for concurrent use, so each publish opens its own
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("rabbitmq channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("rabbitmq queue declare %s: %w", queue, err)
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue, false, false, pub); err != nil {
		return fmt.Errorf("rabbitmq publish %s: %w", queue, err)
	}
	return nil
}

// Close closes the broker connection if one is open.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}
	return p.conn.Close()
}
