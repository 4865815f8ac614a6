package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	domoutbox "github.com/Zhima-Mochi/storefront/internal/domain/outbox"
	"github.com/Zhima-Mochi/storefront/internal/observability"
	"github.com/Zhima-Mochi/storefront/internal/observability/logctx"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

const peerKafka = "kafka"

// MessageWriter is the subset of *kafkago.Writer the relay needs.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Envelope is the JSON value written for every relayed event.
type Envelope struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	RelayedAt time.Time       `json:"relayed_at"`
	Payload   json.RawMessage `json:"payload"`
}

// Relay forwards bus events to one Kafka topic, keyed by aggregate id when the event has one.
type Relay struct {
	writer  MessageWriter
	topic   string
	log     observability.Logger
	calls   observability.Counter
	latency observability.Histogram
}

type Config struct {
	Brokers    []string
	Topic      string
	MaxRetries int
}

// NewWriter builds a producer that waits for all in-sync replicas.
func NewWriter(cfg Config) *kafkago.Writer {
	attempts := cfg.MaxRetries
	if attempts <= 0 {
		attempts = 3
	}
	return &kafkago.Writer{
		Addr:                   kafkago.TCP(cfg.Brokers...),
		Balancer:               &kafkago.Hash{},
		AllowAutoTopicCreation: true,
		Compression:            kafkago.Gzip,
		RequiredAcks:           kafkago.RequireAll,
		MaxAttempts:            attempts,
		WriteBackoffMin:        100 * time.Millisecond,
		WriteBackoffMax:        time.Second,
	}
}

func NewRelay(w MessageWriter, topic string, tel observability.Observability) *Relay {
	m := observability.MetricsOf(tel)
	return &Relay{
		writer:  w,
		topic:   topic,
		log:     observability.LoggerOf(tel).With(observability.F("component", "kafka_relay"), observability.F("topic", topic)),
		calls:   m.Counter(observability.MExternalRequests),
		latency: m.Histogram(observability.MExternalRequestDuration),
	}
}

// Register subscribes the relay to each named event.
func (r *Relay) Register(sub domoutbox.Subscriber, eventNames ...string) {
	for _, name := range eventNames {
		sub.Subscribe(name, r.Handle)
	}
}

func (r *Relay) Handle(ctx context.Context, e domoutbox.Event) error {
	logger := logctx.FromOr(ctx, r.log)

	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("kafka relay: marshal %s: %w", e.EventName(), err)
	}
	value, err := json.Marshal(Envelope{
		ID:        uuid.NewString(),
		Name:      e.EventName(),
		RelayedAt: time.Now().UTC(),
		Payload:   payload,
	})
	if err != nil {
		return fmt.Errorf("kafka relay: marshal envelope: %w", err)
	}

	msg := kafkago.Message{
		Topic: r.topic,
		Value: value,
		Headers: []kafkago.Header{
			{Key: "event", Value: []byte(e.EventName())},
		},
	}
	if k, ok := e.(domoutbox.Keyed); ok {
		msg.Key = []byte(k.AggregateID())
	}
	// a Writer with its own Topic rejects messages that also set one
	if w, ok := r.writer.(*kafkago.Writer); ok && w.Topic != "" {
		msg.Topic = ""
	}

	start := time.Now()
	err = r.writer.WriteMessages(ctx, msg)
	r.latency.Observe(time.Since(start).Seconds(),
		observability.L("peer", peerKafka),
		observability.L("endpoint", r.topic),
	)

	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	r.calls.Add(1,
		observability.L("peer", peerKafka),
		observability.L("endpoint", r.topic),
		observability.L("outcome", outcome),
	)

	if err != nil {
		logger.Error("kafka_relay_failed", observability.F("event", e.EventName()), observability.F("error", err))
		return fmt.Errorf("kafka relay: write %s: %w", e.EventName(), err)
	}
	logger.Debug("kafka_relayed", observability.F("event", e.EventName()))
	return nil
}

func (r *Relay) Close() error {
	return r.writer.Close()
}
