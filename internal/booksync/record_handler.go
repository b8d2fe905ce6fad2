package booksync

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/twmb/franz-go/pkg/kgo"

	"bookcatalog/internal/platform/kafka"
)

// NewRecordHandler adapts the listener to the Kafka consumer. Records that
// do not decode are logged and skipped since redelivery cannot fix them.
func NewRecordHandler(l *Listener, logger *slog.Logger) kafka.RecordHandler {
	return func(ctx context.Context, rec *kgo.Record) error {
		var event BookSynchronization
		if err := json.Unmarshal(rec.Value, &event); err != nil {
			logger.WarnContext(ctx, "skipping undecodable book sync record",
				slog.String("topic", rec.Topic),
				slog.Int("partition", int(rec.Partition)),
				slog.Int64("offset", rec.Offset),
				slog.String("error", err.Error()),
			)
			return nil
		}
		return l.ConsumeBookUpdates(ctx, event)
	}
}
