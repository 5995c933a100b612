package events

import (
	"context"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestKafkaPublisher_WritesKeyedJSON(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w, log: zap.NewNop()}

	evt := New(ContactSubmitted, "msg-1", "", map[string]string{"email": "a@example.com"})
	require.NoError(t, p.Publish(context.Background(), evt))
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, "msg-1", string(msg.Key))
	assert.Equal(t, ContactSubmitted, string(msg.Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(msg.Value, &decoded))
	assert.Equal(t, ContactSubmitted, decoded["type"])
	assert.Equal(t, evt.ID, decoded["id"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_WrapsWriteError(t *testing.T) {
	boom := errors.New("broker down")
	p := &KafkaPublisher{writer: &fakeWriter{err: boom}, log: zap.NewNop()}

	err := p.Publish(context.Background(), New(ReportSubmitted, "r1", "u1", nil))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), ReportSubmitted)
}

func TestMemoryPublisher(t *testing.T) {
	m := NewMemory()
	_ = m.Publish(context.Background(), New(NewsPublished, "n1", "", nil))
	_ = m.Publish(context.Background(), New(CompanyCreated, "c1", "", nil))

	assert.Equal(t, []string{NewsPublished, CompanyCreated}, m.Types())
	assert.Len(t, m.Events(), 2)
	assert.NoError(t, Nop().Publish(context.Background(), Event{}))
}
