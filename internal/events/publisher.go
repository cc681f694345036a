package events

import (
	"context"
	"encoding/json"
	"time"

	"variantd/internal/variant"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
)

// Topic carries every draft lifecycle event.
const Topic = "draft-events"

// DraftSubmitted is published when an editing session submits. Variants
// carry absolute prices; the worker applies this payload to the catalog.
type DraftSubmitted struct {
	Type        string                      `json:"type"`
	ProductID   string                      `json:"product_id"`
	Title       string                      `json:"title"`
	Currency    string                      `json:"currency"`
	BasePrice   decimal.Decimal             `json:"base_price"`
	Variants    []variant.SubmissionVariant `json:"variants"`
	SubmittedAt time.Time                   `json:"submitted_at"`
}

// Publisher writes draft events to Kafka.
type Publisher struct {
	writer *kafka.Writer
}

func NewPublisher(brokers string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers),
			Topic:        Topic,
			Balancer:     &kafka.LeastBytes{},
			RequiredAcks: kafka.RequireOne,
		},
	}
}

// PublishDraftSubmitted emits one draft.submitted event keyed by product id,
// so every submission of the same product lands on the same partition.
func (p *Publisher) PublishDraftSubmitted(ctx context.Context, event DraftSubmitted) error {
	event.Type = "draft.submitted"
	value, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.ProductID),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
