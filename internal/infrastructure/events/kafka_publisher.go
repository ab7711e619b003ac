package events

import (
	"context"
	"encoding/json"
	"time"

	"payment_relay/internal/usecase/interfaces"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const (
	PaymentVerifiedEventType    = "payment.verified"
	PaymentVerifiedEventVersion = 1
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// paymentVerifiedMessage is the JSON value written to the topic.
type paymentVerifiedMessage struct {
	EventID       string  `json:"event_id"`
	EventType     string  `json:"event_type"`
	EventVersion  int     `json:"event_version"`
	OccurredAt    string  `json:"occurred_at"`
	OrderID       string  `json:"order_id"`
	Reference     string  `json:"reference"`
	Status        string  `json:"status"`
	AmountPaid    float64 `json:"amount_paid"`
	CustomerEmail string  `json:"customer_email"`
	VerifiedAt    string  `json:"verified_at"`
}

// KafkaPaymentEventPublisher emits payment.verified events keyed by order id,
// so all events of one order land on the same partition.
type KafkaPaymentEventPublisher struct {
	writer messageWriter
	topic  string
	newID  func() string
	now    func() time.Time
}

var _ interfaces.IPaymentEventPublisher = (*KafkaPaymentEventPublisher)(nil)

func NewKafkaPaymentEventPublisher(brokers []string, topic string) *KafkaPaymentEventPublisher {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}
	log.WithFields(log.Fields{"brokers": brokers, "topic": topic}).Info("[events][kafka] publisher created")
	return newKafkaPaymentEventPublisher(writer, topic)
}

func newKafkaPaymentEventPublisher(w messageWriter, topic string) *KafkaPaymentEventPublisher {
	return &KafkaPaymentEventPublisher{
		writer: w,
		topic:  topic,
		newID:  uuid.NewString,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (p *KafkaPaymentEventPublisher) Close() error {
	return p.writer.Close()
}

func (p *KafkaPaymentEventPublisher) PublishPaymentVerified(ctx context.Context, event interfaces.PaymentVerifiedEvent) error {
	logger := log.WithFields(log.Fields{
		"topic":     p.topic,
		"order_id":  event.OrderID,
		"reference": event.Reference,
	})

	value, err := json.Marshal(p.buildMessage(event))
	if err != nil {
		logger.WithError(err).Error("[events][kafka] failed to marshal payment verified event")
		return err
	}

	if err := p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(event.OrderID),
		Value: value,
	}); err != nil {
		logger.WithError(err).Error("[events][kafka] failed to publish payment verified event")
		return err
	}

	logger.WithField("status", event.Status).Info("[events][kafka] payment verified event published")
	return nil
}

func (p *KafkaPaymentEventPublisher) buildMessage(event interfaces.PaymentVerifiedEvent) paymentVerifiedMessage {
	verifiedAt := event.VerifiedAt
	if verifiedAt.IsZero() {
		verifiedAt = p.now()
	}
	return paymentVerifiedMessage{
		EventID:       p.newID(),
		EventType:     PaymentVerifiedEventType,
		EventVersion:  PaymentVerifiedEventVersion,
		OccurredAt:    p.now().Format(time.RFC3339Nano),
		OrderID:       event.OrderID,
		Reference:     event.Reference,
		Status:        string(event.Status),
		AmountPaid:    event.AmountPaid,
		CustomerEmail: event.CustomerEmail,
		VerifiedAt:    verifiedAt.UTC().Format(time.RFC3339Nano),
	}
}
