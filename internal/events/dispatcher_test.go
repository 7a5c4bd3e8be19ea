package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublishReachesEverySubscriber(t *testing.T) {
	d := NewInMemoryDispatcher(nil)

	var calls []string
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "first:"+e.TicketNumber)
		return errors.New("mail server down")
	})
	d.Subscribe(EventTicketCreated, func(_ context.Context, e Event) error {
		calls = append(calls, "second:"+e.TicketNumber)
		return nil
	})
	d.Subscribe(EventTicketSuggested, func(context.Context, Event) error {
		calls = append(calls, "suggested")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventTicketCreated, TicketNumber: "ST-2024-10001"})
	require.NoError(t, err)
	assert.Equal(t, []string{"first:ST-2024-10001", "second:ST-2024-10001"}, calls)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher(nil)
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventTicketSuggested}))
}
