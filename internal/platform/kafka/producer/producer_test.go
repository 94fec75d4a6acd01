package producer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitBrokers(""))
	assert.Empty(t, SplitBrokers(" , "))
}

func TestNewRequiresBrokers(t *testing.T) {
	_, err := New(DefaultConfig(" "), nil)
	require.Error(t, err)
}

func TestClosedProducerRejects(t *testing.T) {
	p, err := New(DefaultConfig("127.0.0.1:1"), nil)
	require.NoError(t, err)
	require.NoError(t, p.Close(context.Background()))

	assert.ErrorIs(t, p.Produce(context.Background(), &Message{Topic: "t"}), errClosed)
	assert.ErrorIs(t, p.Health(context.Background()), errClosed)
	assert.NoError(t, p.Close(context.Background()))
}

func TestNoopDiscards(t *testing.T) {
	assert.NoError(t, Noop{}.Produce(context.Background(), &Message{Topic: "t"}))
}
