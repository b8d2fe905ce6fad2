package kafka

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"
)

const commitTimeout = 5 * time.Second

// RecordHandler processes one record. A returned error triggers redelivery.
type RecordHandler func(ctx context.Context, rec *kgo.Record) error

// DeadLetter receives records that exhausted their delivery attempts.
type DeadLetter interface {
	Publish(ctx context.Context, key, value []byte) error
}

// Consumer polls a topic as part of a consumer group and commits offsets
// only after each polled record has been delivered or dead-lettered.
type Consumer struct {
	client      *kgo.Client
	handler     RecordHandler
	logger      *slog.Logger
	maxAttempts int
	backoff     time.Duration
	deadLetter  DeadLetter
}

type Option func(c *Consumer)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Consumer) {
		c.logger = logger
	}
}

func WithRetry(maxAttempts int, backoff time.Duration) Option {
	return func(c *Consumer) {
		if maxAttempts > 0 {
			c.maxAttempts = maxAttempts
		}
		c.backoff = backoff
	}
}

func WithDeadLetter(dl DeadLetter) Option {
	return func(c *Consumer) {
		c.deadLetter = dl
	}
}

func NewConsumer(brokers []string, group, topic string, handler RecordHandler, opts ...Option) (*Consumer, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ConsumerGroup(group),
		kgo.ConsumeTopics(topic),
		kgo.DisableAutoCommit(),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka consumer: %w", err)
	}
	return newConsumer(client, handler, opts...), nil
}

func newConsumer(client *kgo.Client, handler RecordHandler, opts ...Option) *Consumer {
	c := &Consumer{
		client:      client,
		handler:     handler,
		logger:      slog.Default(),
		maxAttempts: 1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run polls until ctx is cancelled or the client is closed.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		fetches := c.client.PollFetches(ctx)
		if fetches.IsClientClosed() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		fetches.EachError(func(topic string, partition int32, err error) {
			c.logger.Error("kafka fetch failed", "topic", topic, "partition", partition, "error", err)
		})

		var (
			done    []*kgo.Record
			stopped bool
		)
		fetches.EachRecord(func(rec *kgo.Record) {
			if stopped {
				return
			}
			if err := c.deliver(ctx, rec); err != nil {
				// Only context cancellation ends up here. Committing later
				// records would skip this one, so stop at it.
				stopped = true
				return
			}
			done = append(done, rec)
		})

		if len(done) == 0 {
			if stopped {
				return ctx.Err()
			}
			continue
		}
		// Delivered records are committed even when shutdown has begun.
		commitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), commitTimeout)
		err := c.client.CommitRecords(commitCtx, done...)
		cancel()
		if err != nil {
			c.logger.Error("kafka commit failed", "records", len(done), "error", err)
		}
		if stopped {
			return ctx.Err()
		}
	}
}

// deliver hands rec to the handler up to maxAttempts times. After the last
// failed attempt the record goes to the dead letter (if any) and is
// considered done. Only a cancelled context yields an error.
func (c *Consumer) deliver(ctx context.Context, rec *kgo.Record) error {
	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if attempt > 1 && c.backoff > 0 {
			select {
			case <-time.After(c.backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		lastErr = c.handler(ctx, rec)
		if lastErr == nil {
			return nil
		}
		if errors.Is(lastErr, context.Canceled) && ctx.Err() != nil {
			return ctx.Err()
		}
		c.logger.Warn("kafka record handler failed",
			"topic", rec.Topic,
			"partition", rec.Partition,
			"offset", rec.Offset,
			"attempt", attempt,
			"error", lastErr,
		)
	}

	c.logger.Error("kafka record exhausted delivery attempts",
		"topic", rec.Topic,
		"partition", rec.Partition,
		"offset", rec.Offset,
		"attempts", c.maxAttempts,
		"error", lastErr,
	)
	if c.deadLetter != nil {
		if err := c.deadLetter.Publish(ctx, rec.Key, rec.Value); err != nil {
			c.logger.Error("kafka dead letter publish failed", "offset", rec.Offset, "error", err)
		}
	}
	return nil
}

// Close leaves the consumer group and releases the client.
func (c *Consumer) Close() {
	c.client.Close()
}
