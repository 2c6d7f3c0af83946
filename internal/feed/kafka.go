package feed

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Shopify/sarama"
	"github.com/buzzline-lab/buzzline/internal/core/analytics"
	"github.com/buzzline-lab/buzzline/internal/core/storage"
)

// KafkaFeed consumes records from a Kafka topic as part of a consumer group.
// Delivery is at-least-once: an offset is marked only after the record has
// been applied to the aggregator, so an interrupted process replays unacked
// messages on restart (the archive's idempotent insert absorbs the replays).
type KafkaFeed struct {
	group      sarama.ConsumerGroup
	topic      string
	aggregator *analytics.Aggregator
	store      storage.RecordStore
}

// NewKafkaFeed joins the consumer group. The archive store may be nil.
func NewKafkaFeed(brokers []string, topic, groupID string, agg *analytics.Aggregator, store storage.RecordStore) (*KafkaFeed, error) {
	if agg == nil {
		panic("feed: aggregator must not be nil")
	}

	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_8_0_0
	cfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	cfg.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(brokers, groupID, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to join consumer group %q: %w", groupID, err)
	}

	return &KafkaFeed{
		group:      group,
		topic:      topic,
		aggregator: agg,
		store:      store,
	}, nil
}

// Run consumes until the context is cancelled. Rebalances re-enter Consume;
// transport errors surface on the group's error channel.
func (f *KafkaFeed) Run(ctx context.Context) error {
	defer f.group.Close()

	go func() {
		for err := range f.group.Errors() {
			slog.Error("[KafkaFeed] Consumer group error", "error", err)
		}
	}()

	slog.Info("[KafkaFeed] Starting consumer", "topic", f.topic)

	handler := &claimHandler{aggregator: f.aggregator, store: f.store}
	for {
		if err := f.group.Consume(ctx, []string{f.topic}, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return nil
			}
			return fmt.Errorf("consume: %w", err)
		}
		if ctx.Err() != nil {
			slog.Info("[KafkaFeed] Stopping (context cancelled)", "topic", f.topic)
			return nil
		}
	}
}

// claimHandler implements sarama.ConsumerGroupHandler. One instance serves
// all claims of a session; it holds no per-claim state.
type claimHandler struct {
	aggregator *analytics.Aggregator
	store      storage.RecordStore
}

func (h *claimHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *claimHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *claimHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for msg := range claim.Messages() {
		h.handle(session.Context(), msg)

		// Mark after processing - this is the manual acknowledgment.
		// Undecodable payloads are also marked so they are not redelivered forever.
		session.MarkMessage(msg, "")
	}
	return nil
}

func (h *claimHandler) handle(ctx context.Context, msg *sarama.ConsumerMessage) {
	rec, err := decodeRecord(msg.Value)
	if err != nil {
		slog.Warn("[KafkaFeed] Skipping malformed message",
			"topic", msg.Topic,
			"partition", msg.Partition,
			"offset", msg.Offset,
			"error", err)
		return
	}

	if h.store != nil {
		if err := h.store.SaveRecord(ctx, rec); err != nil {
			if errors.Is(err, storage.ErrDuplicate) {
				// Redelivery of an already-counted record.
				slog.Info("[KafkaFeed] Duplicate record delivery", "record_id", rec.ID, "offset", msg.Offset)
				return
			}
			// Live analytics win over the archive: count the record anyway.
			slog.Error("[KafkaFeed] Failed to archive record, ingesting without archive",
				"record_id", rec.ID,
				"error", err)
		}
	}

	h.aggregator.Ingest(rec)
}
