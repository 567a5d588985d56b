package physics

import (
	"sync/atomic"
)

// NewNotificationChannel creates a new multi producer, single consumer channel
// for collision notifications. Sending never blocks and never takes a lock, it can be
// called from within engine callbacks on any goroutine.
func NewNotificationChannel() (*NotificationSender, *NotificationReceiver) {
	q := newNotificationQueue()
	return &NotificationSender{queue: q}, &NotificationReceiver{queue: q}
}

type NotificationSender struct {
	queue *notificationQueue
}

// Send publishes a notification. It fails with ErrChannelClosed once the receiver was closed.
func (s *NotificationSender) Send(notification CollisionNotification) error {
	if s.queue.closed.Load() {
		return ErrChannelClosed
	}

	s.queue.push(&notificationNode{value: notification})
	return nil
}

// NotificationReceiver is the consuming side of the channel.
// It must only be used by a single goroutine at a time.
type NotificationReceiver struct {
	queue *notificationQueue
}

// DrainAll appends all notifications currently published to dst. It never blocks.
// Notifications of one producer are returned in the order they were sent.
// A notification whose send is still in progress is returned by the next call.
func (r *NotificationReceiver) DrainAll(dst []CollisionNotification) []CollisionNotification {
	for {
		node := r.queue.pop()
		if node == nil {
			return dst
		}

		dst = append(dst, node.value)
	}
}

// Close marks the channel as closed, further sends will fail.
func (r *NotificationReceiver) Close() {
	r.queue.closed.Store(true)
}

type notificationNode struct {
	next  atomic.Pointer[notificationNode]
	value CollisionNotification
}

// notificationQueue is an intrusive mpsc queue after Dmitry Vyukov.
// Producers only touch head, the consumer owns tail.
type notificationQueue struct {
	head atomic.Pointer[notificationNode]
	tail *notificationNode
	stub notificationNode

	closed atomic.Bool
}

func newNotificationQueue() *notificationQueue {
	q := &notificationQueue{}
	q.head.Store(&q.stub)
	q.tail = &q.stub
	return q
}

func (q *notificationQueue) push(node *notificationNode) {
	node.next.Store(nil)
	prev := q.head.Swap(node)

	// between the swap and this store the queue is briefly disconnected,
	// the consumer treats that as empty
	prev.next.Store(node)
}

func (q *notificationQueue) pop() *notificationNode {
	tail := q.tail
	next := tail.next.Load()

	if tail == &q.stub {
		if next == nil {
			return nil
		}

		q.tail = next
		tail = next
		next = next.next.Load()
	}

	if next != nil {
		q.tail = next
		return tail
	}

	if tail != q.head.Load() {
		// a producer is in the middle of a push
		return nil
	}

	q.push(&q.stub)

	next = tail.next.Load()
	if next != nil {
		q.tail = next
		return tail
	}

	return nil
}
