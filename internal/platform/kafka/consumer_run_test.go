package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kfake"
	"github.com/twmb/franz-go/pkg/kgo"
)

const testTopic = "book-synchronization"

func newTestCluster(t *testing.T) []string {
	t.Helper()
	cluster, err := kfake.NewCluster(kfake.NumBrokers(1), kfake.SeedTopics(1, testTopic))
	require.NoError(t, err)
	t.Cleanup(cluster.Close)
	return cluster.ListenAddrs()
}

func produce(t *testing.T, brokers []string, isbns ...string) {
	t.Helper()
	p, err := NewProducer(brokers, testTopic)
	require.NoError(t, err)
	defer p.Close()

	for _, isbn := range isbns {
		require.NoError(t, p.Publish(t.Context(), []byte(isbn), []byte(`{"isbn":"`+isbn+`"}`)))
	}
}

// firstUncommitted joins group and returns the key of the first record it is
// handed, without committing it.
func firstUncommitted(t *testing.T, brokers []string, group string) string {
	t.Helper()
	ctx, cancel := context.WithTimeout(t.Context(), 15*time.Second)
	defer cancel()

	var key string
	c, err := NewConsumer(brokers, group, testTopic, func(ctx context.Context, rec *kgo.Record) error {
		if key == "" {
			key = string(rec.Key)
		}
		cancel()
		return ctx.Err()
	}, WithLogger(quietLogger()))
	require.NoError(t, err)
	defer c.Close()

	assert.ErrorIs(t, c.Run(ctx), context.Canceled)
	return key
}

func TestConsumer_Run_CommitsOnlyDeliveredRecords(t *testing.T) {
	brokers := newTestCluster(t)
	produce(t, brokers, "9780000000001", "9780000000002", "9780000000003")

	ctx, cancel := context.WithTimeout(t.Context(), 15*time.Second)
	defer cancel()

	var handled []string
	c, err := NewConsumer(brokers, "catalog-sync", testTopic, func(ctx context.Context, rec *kgo.Record) error {
		handled = append(handled, string(rec.Key))
		if len(handled) == 2 {
			cancel()
			return ctx.Err()
		}
		return nil
	}, WithLogger(quietLogger()))
	require.NoError(t, err)

	err = c.Run(ctx)
	c.Close()

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, []string{"9780000000001", "9780000000002"}, handled)

	// The in-flight record and everything after it is redelivered.
	assert.Equal(t, "9780000000002", firstUncommitted(t, brokers, "catalog-sync"))
}

func TestConsumer_Run_CommitsDeadLetteredRecords(t *testing.T) {
	brokers := newTestCluster(t)
	produce(t, brokers, "9780000000001", "9780000000002")

	ctx, cancel := context.WithTimeout(t.Context(), 15*time.Second)
	defer cancel()

	dl := &recordingDeadLetter{}
	c, err := NewConsumer(brokers, "catalog-sync", testTopic, func(ctx context.Context, rec *kgo.Record) error {
		if string(rec.Key) == "9780000000002" {
			cancel()
			return ctx.Err()
		}
		return assert.AnError
	}, WithLogger(quietLogger()), WithRetry(2, 0), WithDeadLetter(dl))
	require.NoError(t, err)

	err = c.Run(ctx)
	c.Close()

	assert.ErrorIs(t, err, context.Canceled)
	require.Len(t, dl.keys, 1)
	assert.Equal(t, "9780000000001", string(dl.keys[0]))
	assert.Equal(t, "9780000000002", firstUncommitted(t, brokers, "catalog-sync"))
}
