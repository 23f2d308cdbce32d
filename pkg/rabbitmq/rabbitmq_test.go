package rabbitmq

import (
	"context"
	"io"
	"os"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestPublishConsume needs a broker; set RABBITMQ_URL to run it.
func TestPublishConsume(t *testing.T) {
	url := os.Getenv("RABBITMQ_URL")
	if url == "" {
		t.Skip("RABBITMQ_URL not set")
	}

	queue := "autolog_test_" + uuid.NewString()
	client, err := NewClient(Config{URL: url, Queues: []string{queue}}, log.New(io.Discard))
	require.NoError(t, err)
	defer client.Close()
	defer client.channel.QueueDelete(queue, false, false, false)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	got := make(chan []byte, 1)
	require.NoError(t, client.Consume(ctx, queue, func(_ context.Context, body []byte) error {
		got <- body
		return nil
	}))
	require.NoError(t, client.Publish(ctx, queue, []byte(`{"to":"a@b.co"}`)))

	select {
	case body := <-got:
		assert.JSONEq(t, `{"to":"a@b.co"}`, string(body))
	case <-time.After(5 * time.Second):
		t.Fatal("message was not consumed")
	}
}

func TestPublish_WithoutChannel(t *testing.T) {
	c := &Client{logger: log.New(io.Discard)}
	assert.Error(t, c.Publish(context.Background(), "mail", nil))
	assert.Error(t, c.Consume(context.Background(), "mail", nil))
}
