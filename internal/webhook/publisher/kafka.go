// Package publisher delivers signed webhook events to a Kafka topic.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/twmb/franz-go/pkg/kadm"
	"github.com/twmb/franz-go/pkg/kerr"
	"github.com/twmb/franz-go/pkg/kgo"

	"warden/internal/webhook/signing"
)

// Header carrying the event ID on each Kafka record.
const HeaderEventID = "warden-event-id"

// DefaultDeliveryTimeout bounds how long Publish waits for an acknowledgement.
const DefaultDeliveryTimeout = 10 * time.Second

// Kafka produces one record per event, keyed by result ID so events for a
// record stay ordered within a partition.
type Kafka struct {
	client          *kgo.Client
	topic           string
	deliveryTimeout time.Duration
}

// Option configures the Kafka publisher.
type Option func(*Kafka)

// WithDeliveryTimeout caps the time a record may wait for a broker
// acknowledgement. Non-positive values keep the default.
func WithDeliveryTimeout(d time.Duration) Option {
	return func(k *Kafka) {
		if d > 0 {
			k.deliveryTimeout = d
		}
	}
}

// NewKafka connects to brokers and makes sure topic exists.
func NewKafka(ctx context.Context, brokers []string, topic string, opts ...Option) (*Kafka, error) {
	if len(brokers) == 0 || topic == "" {
		return nil, errors.New("kafka publisher requires brokers and a topic")
	}
	k := &Kafka{topic: topic, deliveryTimeout: DefaultDeliveryTimeout}
	for _, opt := range opts {
		opt(k)
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
		kgo.RecordDeliveryTimeout(k.deliveryTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	if err := ensureTopic(ctx, client, topic); err != nil {
		client.Close()
		return nil, err
	}
	k.client = client
	return k, nil
}

func ensureTopic(ctx context.Context, client *kgo.Client, topic string) error {
	resp, err := kadm.NewClient(client).CreateTopic(ctx, 1, -1, nil, topic)
	if err == nil {
		err = resp.Err
	}
	if err != nil && !errors.Is(err, kerr.TopicAlreadyExists) {
		return fmt.Errorf("ensure topic %s: %w", topic, err)
	}
	return nil
}

// Publish sends the signed body with its signing headers and waits for the
// broker acknowledgement, at most for the delivery timeout.
func (k *Kafka) Publish(ctx context.Context, ev signing.Event) error {
	ctx, cancel := context.WithTimeout(ctx, k.deliveryTimeout)
	defer cancel()

	rec := &kgo.Record{
		Key:   []byte(ev.ResultID.String()),
		Value: []byte(ev.PayloadJSON),
		Headers: []kgo.RecordHeader{
			{Key: HeaderEventID, Value: []byte(ev.ID)},
			{Key: signing.HeaderDate, Value: []byte(ev.Headers.Date)},
			{Key: signing.HeaderContentSHA256, Value: []byte(ev.Headers.ContentSHA256)},
			{Key: signing.HeaderAuthorization, Value: []byte(ev.Headers.Authorization)},
		},
	}
	if err := k.client.ProduceSync(ctx, rec).FirstErr(); err != nil {
		return fmt.Errorf("produce webhook event %s: %w", ev.ID, err)
	}
	return nil
}

func (k *Kafka) Topic() string { return k.topic }

func (k *Kafka) Close() {
	k.client.Close()
}
