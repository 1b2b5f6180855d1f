// Package kafka streams audit events to a Kafka-compatible broker.
//
// Produce is asynchronous. Failed deliveries are handed to a fallback
// publisher, and a circuit breaker tracks broker health: while it is open
// every event is also written to the fallback so nothing is lost while the
// broker recovers.
package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"linkshelf/pkg/platform/audit"
	"linkshelf/pkg/platform/circuit"
)

type Publisher struct {
	client   *kgo.Client
	topic    string
	logger   *slog.Logger
	fallback audit.Publisher
	breaker  *circuit.Breaker
}

type Option func(*Publisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger
	}
}

// WithFallback sets where undeliverable events go.
func WithFallback(fallback audit.Publisher) Option {
	return func(p *Publisher) {
		p.fallback = fallback
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *Publisher) {
		p.breaker = b
	}
}

// New connects to brokers and produces to topic by default.
func New(brokers []string, topic string, opts ...Option) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka audit publisher: no brokers configured")
	}
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.ProducerLinger(50*time.Millisecond),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	p := &Publisher{
		client:  client,
		topic:   topic,
		logger:  slog.Default(),
		breaker: circuit.New("audit-kafka"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// EnsureTopic creates the audit topic with one partition and replica if it
// does not exist yet.
func (p *Publisher) EnsureTopic(ctx context.Context) error {
	adm := kadm.NewClient(p.client)
	resp, err := adm.CreateTopics(ctx, 1, 1, nil, p.topic)
	if err != nil {
		return fmt.Errorf("create audit topic: %w", err)
	}
	for _, r := range resp {
		if r.Err != nil && !errors.Is(r.Err, kerr.TopicAlreadyExists) {
			return fmt.Errorf("create audit topic %s: %w", r.Topic, r.Err)
		}
	}
	return nil
}

// Ping checks broker connectivity. A successful ping closes an open breaker
// so the next event goes to the broker without waiting out the fallback.
func (p *Publisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx); err != nil {
		return err
	}
	if p.breaker.IsOpen() {
		p.breaker.Reset()
		p.logger.InfoContext(ctx, "audit stream reachable again", "topic", p.topic)
	}
	return nil
}

func (p *Publisher) Emit(ctx context.Context, e audit.Event) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
	if e.Category == "" {
		e.Category = audit.CategoryOf(e.Action)
	}
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode audit event: %w", err)
	}
	if p.breaker.IsOpen() {
		p.toFallback(ctx, e)
	}

	record := &kgo.Record{
		Key:   []byte(e.Action),
		Value: payload,
	}
	// Delivery outlives the request that emitted the event.
	p.client.Produce(context.WithoutCancel(ctx), record, func(_ *kgo.Record, err error) {
		p.recordOutcome(ctx, e, err)
	})
	return nil
}

func (p *Publisher) recordOutcome(ctx context.Context, e audit.Event, err error) {
	if err == nil {
		if _, change := p.breaker.RecordSuccess(); change.Closed {
			p.logger.InfoContext(ctx, "audit stream recovered", "topic", p.topic)
		}
		return
	}
	alreadyOpen, change := p.breaker.RecordFailure()
	if change.Opened {
		p.logger.WarnContext(ctx, "audit stream unavailable, writing to fallback", "topic", p.topic, "error", err)
	}
	// While open, Emit already wrote the event to the fallback.
	if !alreadyOpen || change.Opened {
		p.toFallback(ctx, e)
	}
	p.logger.DebugContext(ctx, "audit produce failed", "action", string(e.Action), "error", err)
}

func (p *Publisher) toFallback(ctx context.Context, e audit.Event) {
	if p.fallback == nil {
		return
	}
	if err := p.fallback.Emit(ctx, e); err != nil {
		p.logger.ErrorContext(ctx, "audit fallback failed", "action", string(e.Action), "error", err)
	}
}

// Close flushes buffered records and disconnects.
func (p *Publisher) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := p.client.Flush(ctx)
	p.client.Close()
	if err != nil {
		return fmt.Errorf("flush audit stream: %w", err)
	}
	return nil
}
