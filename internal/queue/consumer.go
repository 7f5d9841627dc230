package queue

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// EventLogFile is the file, inside the consumer's log directory, that
// receives one line per consumed event.
const EventLogFile = "events.log"

// Consumer drains the event queues into a log file.
type Consumer struct {
	URL    string
	LogDir string
	Log    *zap.Logger

	mu sync.Mutex // serializes appends from the per-queue goroutines
}

// Run connects to RabbitMQ, declares every queue in Queues (durable) and
// consumes them until ctx is cancelled.  Broker failures are retried with
// exponential backoff capped at 30s; only cancellation makes Run return.
func (c *Consumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			c.Log.Warn("event consumer dial failed", zap.Error(err), zap.Duration("retry_in", backoff))
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = c.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		c.Log.Warn("event consumer loop ended, reconnecting", zap.Error(err))
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		c.Log.Warn("event consumer set QoS failed", zap.Error(err))
	}

	var wg sync.WaitGroup
	done := make(chan string, len(Queues))
	for _, name := range Queues {
		if _, err := ch.QueueDeclare(name, true, false, false, false, nil); err != nil {
			return fmt.Errorf("queue declare %s: %w", name, err)
		}
		msgs, err := ch.Consume(name, "", false, false, false, false, nil)
		if err != nil {
			return fmt.Errorf("queue consume %s: %w", name, err)
		}
		wg.Add(1)
		go func(name string, msgs <-chan amqp.Delivery) {
			defer wg.Done()
			for d := range msgs {
				if err := c.Handle(name, d.Body); err != nil {
					c.Log.Error("event handle failed", zap.String("queue", name), zap.Error(err))
					_ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
					continue
				}
				_ = d.Ack(false)
			}
			done <- name
		}(name, msgs)
	}

	select {
	case <-ctx.Done():
	case name := <-done:
		c.Log.Warn("deliveries channel closed", zap.String("queue", name))
	}
	_ = ch.Close()
	wg.Wait()
	return errors.New("deliveries channel closed")
}

// Handle appends one delivery from queue to the event log.
func (c *Consumer) Handle(queue string, body []byte) error {
	line, err := FormatLine(queue, body)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.MkdirAll(c.LogDir, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", c.LogDir, err)
	}
	f, err := os.OpenFile(filepath.Join(c.LogDir, EventLogFile), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(line + "\n"); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}
