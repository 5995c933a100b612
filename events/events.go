// Package events, platformdaki iş olaylarını (iletişim formu, randevu durumu,
// rapor gönderimi vb.) dış sistemlere yayınlar.
//
// KAFKA_BROKERS tanımlıysa olaylar Kafka topic'ine JSON olarak yazılır,
// değilse Nop publisher kullanılır. Yayın hataları akışı bozmaz; çağıran
// sadece log'a yazar.
package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Olay tipleri.
const (
	UserRegistered           = "user.registered"
	CompanyCreated           = "company.created"
	ContactSubmitted         = "contact.submitted"
	AppointmentRequested     = "appointment.requested"
	AppointmentStatusChanged = "appointment.status_changed"
	ReportSubmitted          = "report.submitted"
	ReportReviewed           = "report.reviewed"
	NewsPublished            = "news.published"
)

// Event, yayınlanan tek bir iş olayı.
// AggregateID Kafka mesaj key'i olarak kullanılır; aynı kayda ait olaylar aynı partition'a düşer.
type Event struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	ActorID     string    `json:"actor_id,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
	Data        any       `json:"data,omitempty"`
}

// New, ID ve zaman damgası atanmış Event oluşturur.
func New(typ, aggregateID, actorID string, data any) Event {
	return Event{
		ID:          uuid.NewString(),
		Type:        typ,
		AggregateID: aggregateID,
		ActorID:     actorID,
		OccurredAt:  time.Now().UTC(),
		Data:        data,
	}
}

// Publisher, olay yayınlama interface'i.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
	Close() error
}

type nopPublisher struct{}

// Nop, hiçbir şey yapmayan Publisher.
func Nop() Publisher { return nopPublisher{} }

func (nopPublisher) Publish(context.Context, Event) error { return nil }
func (nopPublisher) Close() error                         { return nil }

// Memory, olayları bellekte biriktiren Publisher. Testlerde kullanılır.
type Memory struct {
	mu     sync.Mutex
	events []Event
}

// NewMemory, boş Memory publisher döner.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Publish(_ context.Context, evt Event) error {
	m.mu.Lock()
	m.events = append(m.events, evt)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Close() error { return nil }

// Events, yayınlanan olayların kopyasını döner.
func (m *Memory) Events() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

// Types, yayınlanan olay tiplerini sırayla döner.
func (m *Memory) Types() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	types := make([]string, len(m.events))
	for i, e := range m.events {
		types[i] = e.Type
	}
	return types
}
