package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Dhoini/billing-gateway/pkg/logger"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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

func TestPublishPlanChanged(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, TopicPlanChanged, logger.NewNop())

	err := p.PublishPlanChanged(context.Background(), PlanChangedEvent{
		SubscriptionID: "sub_1",
		Provider:       "asaas",
		PreviousValue:  39.9,
		NewValue:       59.9,
		ProRataAmount:  10,
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)

	msg := w.msgs[0]
	assert.Equal(t, TopicPlanChanged, msg.Topic)
	assert.Equal(t, "sub_1", string(msg.Key))

	var ev PlanChangedEvent
	require.NoError(t, json.Unmarshal(msg.Value, &ev))
	assert.NotEmpty(t, ev.EventID)
	assert.False(t, ev.OccurredAt.IsZero())
	assert.Equal(t, 59.9, ev.NewValue)
	assert.Equal(t, ev.EventID, string(msg.Headers[0].Value))
}

func TestPublishPlanChanged_KeepsGivenIdentity(t *testing.T) {
	w := &fakeWriter{}
	p := newProducer(w, "custom", logger.NewNop())
	at := time.Date(2026, time.October, 17, 10, 0, 0, 0, time.UTC)

	require.NoError(t, p.PublishPlanChanged(context.Background(), PlanChangedEvent{EventID: "ev-1", SubscriptionID: "sub_1", OccurredAt: at}))
	assert.Equal(t, "custom", w.msgs[0].Topic)
	assert.Equal(t, at, w.msgs[0].Time)
}

func TestPublishPlanChanged_WrapsWriteErrors(t *testing.T) {
	p := newProducer(&fakeWriter{err: context.DeadlineExceeded}, TopicPlanChanged, logger.NewNop())
	err := p.PublishPlanChanged(context.Background(), PlanChangedEvent{SubscriptionID: "sub_1"})
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
	assert.Contains(t, err.Error(), "timeout")
}

func TestNewProducerRequiresBrokers(t *testing.T) {
	_, err := NewProducer(nil, "", logger.NewNop())
	assert.Error(t, err)
}

func TestClose(t *testing.T) {
	w := &fakeWriter{}
	require.NoError(t, newProducer(w, TopicPlanChanged, logger.NewNop()).Close())
	assert.True(t, w.closed)
}
