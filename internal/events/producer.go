package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fathima-sithara/person-service/internal/domain"
	kafkago "github.com/segmentio/kafka-go"
)

// MessageWriter is the part of *kafkago.Writer the producer uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type Producer struct {
	writer MessageWriter
	topic  string
}

func NewProducer(brokers []string, topic string) *Producer {
	w := &kafkago.Writer{
		Addr:                   kafkago.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafkago.Hash{},
		RequiredAcks:           kafkago.RequireAll,
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w, topic: topic}
}

// NewProducerWithWriter is used by tests and by callers that manage their
// own writer.
func NewProducerWithWriter(w MessageWriter, topic string) *Producer {
	return &Producer{writer: w, topic: topic}
}

func (p *Producer) PublishPersonCreated(ctx context.Context, person *domain.Person) error {
	return p.publish(ctx, TypePersonCreated, person)
}

func (p *Producer) PublishPhoneUpdated(ctx context.Context, person *domain.Person) error {
	return p.publish(ctx, TypePersonPhoneUpdated, person)
}

func (p *Producer) publish(ctx context.Context, typ string, person *domain.Person) error {
	now := time.Now().UTC()
	b, err := json.Marshal(PersonEvent{Type: typ, Person: person, At: now})
	if err != nil {
		return err
	}
	msg := kafkago.Message{
		Key:     []byte(person.ID),
		Value:   b,
		Time:    now,
		Headers: []kafkago.Header{{Key: "type", Value: []byte(typ)}},
	}
	return p.writer.WriteMessages(ctx, msg)
}

func (p *Producer) Close() error {
	return p.writer.Close()
}

// Noop drops every event. It is used when no brokers are configured.
type Noop struct{}

func (Noop) PublishPersonCreated(ctx context.Context, person *domain.Person) error { return nil }
func (Noop) PublishPhoneUpdated(ctx context.Context, person *domain.Person) error  { return nil }
func (Noop) Close() error                                                          { return nil }
