package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (f *fakeWriter) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeWriter) Close() error {
	f.closed = true
	return nil
}

func TestProducer_Publish_KeyedByDevice(t *testing.T) {
	t.Parallel()

	w := &fakeWriter{}
	p := &Producer{w: w}

	err := p.Publish(context.Background(), Event{
		DeviceID: "dev-1",
		UserID:   "u1",
		Kind:     KindPageView,
		Path:     "/wellness",
	})
	require.NoError(t, err)
	require.Len(t, w.msgs, 1)
	assert.Equal(t, []byte("dev-1"), w.msgs[0].Key)

	var got Event
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &got))
	assert.Equal(t, KindPageView, got.Kind)
	assert.Equal(t, "/wellness", got.Path)
	assert.False(t, got.At.IsZero())
}

func TestProducer_NilIsSafe(t *testing.T) {
	t.Parallel()

	var p *Producer
	assert.NoError(t, p.Publish(context.Background(), Event{Kind: KindLogin}))
	assert.NoError(t, p.Close())
}

func TestNewProducer_NoBrokersDisabled(t *testing.T) {
	t.Parallel()

	assert.Nil(t, NewProducer(nil, "engagement-events"))
}
