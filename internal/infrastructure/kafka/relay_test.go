package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Zhima-Mochi/storefront/internal/domain/order"
	domoutbox "github.com/Zhima-Mochi/storefront/internal/domain/outbox"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafkago.Message
	err    error
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafkago.Message) error {
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

type subscriberFunc func(string, domoutbox.Handler)

func (f subscriberFunc) Subscribe(name string, h domoutbox.Handler) { f(name, h) }

func TestRelayWritesKeyedEnvelope(t *testing.T) {
	w := &fakeWriter{}
	relay := NewRelay(w, "storefront.events", nil)

	e := order.NewOrderStatusChangedEvent("o-1", order.StatusShipped, "mgr")
	require.NoError(t, relay.Handle(context.Background(), e))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "storefront.events", msg.Topic)
	assert.Equal(t, "o-1", string(msg.Key))

	var env Envelope
	require.NoError(t, json.Unmarshal(msg.Value, &env))
	assert.Equal(t, "order.status_changed", env.Name)
	assert.NotEmpty(t, env.ID)

	var payload order.OrderStatusChangedEvent
	require.NoError(t, json.Unmarshal(env.Payload, &payload))
	assert.Equal(t, order.StatusShipped, payload.Status)

	require.NoError(t, relay.Close())
	assert.True(t, w.closed)
}

func TestRelayReportsWriteFailure(t *testing.T) {
	boom := errors.New("broker down")
	relay := NewRelay(&fakeWriter{err: boom}, "t", nil)
	err := relay.Handle(context.Background(), order.NewOrderStatusChangedEvent("o", order.StatusConfirmed, "m"))
	assert.ErrorIs(t, err, boom)
}

func TestRegisterSubscribesEachName(t *testing.T) {
	var names []string
	relay := NewRelay(&fakeWriter{}, "t", nil)
	relay.Register(subscriberFunc(func(name string, h domoutbox.Handler) {
		names = append(names, name)
	}), "order.placed", "order.status_changed")
	assert.Equal(t, []string{"order.placed", "order.status_changed"}, names)
}
