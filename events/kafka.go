package events

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// messageWriter, kafka.Writer'ın kullandığımız kısmı.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher, olayları tek bir topic'e JSON olarak yazar.
type KafkaPublisher struct {
	writer messageWriter
	log    *zap.Logger
}

// NewKafkaPublisher, verilen broker listesi ve topic için publisher oluşturur.
// Bağlantı ilk yazmada kurulur; broker'a erişilemiyorsa Publish hata döner.
func NewKafkaPublisher(brokers []string, topic string, log *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Topic:                  topic,
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		log: log,
	}
}

// Publish, olayı yazar. Yazma 5 saniyeden uzun sürerse iptal edilir.
func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) error {
	msg, err := toMessage(evt)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("failed to publish %s: %w", evt.Type, err)
	}
	p.log.Debug("event published", zap.String("type", evt.Type), zap.String("aggregate_id", evt.AggregateID))
	return nil
}

// Close, bekleyen mesajları gönderir ve bağlantıları kapatır.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

func toMessage(evt Event) (kafka.Message, error) {
	value, err := json.Marshal(evt)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("failed to encode event %s: %w", evt.Type, err)
	}
	return kafka.Message{
		Key:   []byte(evt.AggregateID),
		Value: value,
		Time:  evt.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(evt.Type)},
		},
	}, nil
}
