// Package events publishes engine lifecycle events to Kafka. Events are
// advisory: the engine state has already committed by the time an event
// goes out, and a broker outage never fails the originating call.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"
	"go.uber.org/zap"

	"github.com/patcito/nftickets/pkg/logger"
	"github.com/patcito/nftickets/pkg/money"
)

// Event types
const (
	TypeTicketMinted      = "ticket.minted"
	TypeTicketListed      = "ticket.listed"
	TypeTicketResold      = "ticket.resold"
	TypeTreasuryWithdrawn = "treasury.withdrawn"
	TypeBalanceClaimed    = "balance.claimed"
)

// Event is the envelope written to the event topic
type Event struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	TokenID    int64        `json:"token_id,omitempty"`
	Actor      string       `json:"actor,omitempty"`
	Amount     money.Amount `json:"amount,omitempty"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// Publisher emits engine events
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close()
}

// KafkaPublisher writes events to a Kafka topic using franz-go
type KafkaPublisher struct {
	client *kgo.Client
	topic  string
	log    *logger.Logger
}

// NewKafkaPublisher connects to the brokers and returns a publisher
func NewKafkaPublisher(brokers []string, clientID, topic string, log *logger.Logger) (*KafkaPublisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.ClientID(clientID),
		kgo.ProducerBatchCompression(kgo.SnappyCompression()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}
	return &KafkaPublisher{client: client, topic: topic, log: log}, nil
}

// Publish sends the event asynchronously. Delivery failures are logged,
// not propagated: the state change the event describes has already
// committed.
func (p *KafkaPublisher) Publish(ctx context.Context, event *Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		Key:   []byte(event.Type),
		Value: value,
	}
	p.client.Produce(ctx, record, func(r *kgo.Record, err error) {
		if err != nil {
			p.log.Error("failed to publish event",
				zap.String("event_type", event.Type),
				zap.Error(err),
			)
		}
	})
	return nil
}

// Close flushes and closes the underlying client
func (p *KafkaPublisher) Close() {
	_ = p.client.Flush(context.Background())
	p.client.Close()
}

// NoopPublisher drops all events. Used when Kafka is disabled.
type NoopPublisher struct{}

// Publish drops the event
func (NoopPublisher) Publish(ctx context.Context, event *Event) error { return nil }

// Close does nothing
func (NoopPublisher) Close() {}
