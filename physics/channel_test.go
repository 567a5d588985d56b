package physics

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNotificationChannelEmpty(t *testing.T) {
	_, receiver := NewNotificationChannel()
	require.Empty(t, receiver.DrainAll(nil))
	require.Empty(t, receiver.DrainAll(nil))
}

func TestNotificationChannelKeepsOrder(t *testing.T) {
	sender, receiver := NewNotificationChannel()

	for idx := range 100 {
		require.NoError(t, sender.Send(CollisionNotification{ColliderA: ColliderHandle(idx)}))
	}

	drained := receiver.DrainAll(nil)
	require.Len(t, drained, 100)

	for idx, notification := range drained {
		require.Equal(t, ColliderHandle(idx), notification.ColliderA)
	}

	// everything was consumed
	require.Empty(t, receiver.DrainAll(nil))

	// the queue is usable after it ran empty
	require.NoError(t, sender.Send(CollisionNotification{ColliderA: 100}))
	require.Equal(t, []CollisionNotification{{ColliderA: 100}}, receiver.DrainAll(nil))
}

func TestNotificationChannelConcurrentProducers(t *testing.T) {
	sender, receiver := NewNotificationChannel()

	const producers = 8
	const perProducer = 1000

	var wg sync.WaitGroup
	for producer := range producers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for idx := range perProducer {
				_ = sender.Send(CollisionNotification{
					ColliderA: ColliderHandle(producer),
					ColliderB: ColliderHandle(idx),
				})
			}
		}()
	}

	// drain while producers are still running
	var drained []CollisionNotification
	for range 10 {
		drained = receiver.DrainAll(drained)
	}

	wg.Wait()

	drained = receiver.DrainAll(drained)
	require.Len(t, drained, producers*perProducer)

	// per producer order is kept
	next := map[ColliderHandle]ColliderHandle{}
	for _, notification := range drained {
		require.Equal(t, next[notification.ColliderA], notification.ColliderB)
		next[notification.ColliderA] += 1
	}
}

func TestNotificationChannelClosed(t *testing.T) {
	sender, receiver := NewNotificationChannel()
	receiver.Close()

	err := sender.Send(CollisionNotification{})
	require.ErrorIs(t, err, ErrChannelClosed)
	require.Empty(t, receiver.DrainAll(nil))
}
