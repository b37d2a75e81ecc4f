package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
)

// TopicPlanChanged топик по умолчанию для событий смены тарифа
const TopicPlanChanged = "subscription_plan_changed"

const writeTimeout = 5 * time.Second

// PlanChangedEvent публикуется после успешного обновления подписки у провайдера.
type PlanChangedEvent struct {
	EventID          string    `json:"eventId"`
	SubscriptionID   string    `json:"subscriptionId"`
	Provider         string    `json:"provider"`
	PreviousValue    float64   `json:"previousValue"`
	NewValue         float64   `json:"newValue"`
	Description      string    `json:"description,omitempty"`
	ApplyImmediately bool      `json:"applyImmediately"`
	ProRataAmount    float64   `json:"proRataAmount"`
	ProRataPaymentID string    `json:"proRataPaymentId,omitempty"`
	OccurredAt       time.Time `json:"occurredAt"`
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer публикует события подписок в Kafka.
type Producer struct {
	writer messageWriter
	topic  string
	log    *logger.Logger
}

// NewProducer создает и настраивает новый продюсер Kafka.
func NewProducer(brokers []string, topic string, log *logger.Logger) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafka brokers are not configured")
	}
	if topic == "" {
		topic = TopicPlanChanged
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Balancer:     &kafka.Hash{}, // один ключ - одна партиция
		RequiredAcks: kafka.RequireOne,
		BatchTimeout: 10 * time.Millisecond,
		WriteTimeout: writeTimeout,
		ReadTimeout:  writeTimeout,
	}

	log.Infow("Kafka producer initialized", "brokers", brokers, "topic", topic)
	return newProducer(writer, topic, log), nil
}

func newProducer(w messageWriter, topic string, log *logger.Logger) *Producer {
	return &Producer{writer: w, topic: topic, log: log}
}

// PublishPlanChanged отправляет событие смены тарифа. Ключ сообщения - ID подписки,
// так события одной подписки сохраняют порядок.
func (p *Producer) PublishPlanChanged(ctx context.Context, ev PlanChangedEvent) error {
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now().UTC()
	}

	value, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("kafka: failed to marshal message data: %w", err)
	}

	message := kafka.Message{
		Topic: p.topic,
		Key:   []byte(ev.SubscriptionID),
		Value: value,
		Time:  ev.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(ev.EventID)},
		},
	}

	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := p.writer.WriteMessages(writeCtx, message); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			p.log.Errorw("Kafka write timeout exceeded", "error", err, "topic", p.topic, "subscriptionID", ev.SubscriptionID)
			return fmt.Errorf("kafka: write timeout: %w", err)
		}
		p.log.Errorw("Failed to write message to Kafka", "error", err, "topic", p.topic, "subscriptionID", ev.SubscriptionID)
		return fmt.Errorf("kafka: failed to write message: %w", err)
	}

	p.log.Infow("Published plan change event", "topic", p.topic, "subscriptionID", ev.SubscriptionID, "eventID", ev.EventID)
	return nil
}

// Close закрывает writer. Вызывается при graceful shutdown.
func (p *Producer) Close() error {
	if err := p.writer.Close(); err != nil {
		p.log.Errorw("Failed to close Kafka writer", "error", err)
		return fmt.Errorf("kafka: failed to close writer: %w", err)
	}
	p.log.Infow("Kafka producer writer closed")
	return nil
}
