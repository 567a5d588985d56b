package kesko

import (
	"fmt"
	"reflect"
)

// MessageType creates the registration for messages of type E, see App.AddMessage.
func MessageType[E any]() AddMessageType {
	return newMessage[E]{}
}

type AddMessageType interface {
	configureMessageIn(world *World)
}

type newMessage[E any] struct{}

func (newMessage[E]) configureMessageIn(world *World) {
	if _, exists := ResourceOf[Messages[E]](world); exists {
		return
	}

	world.InsertResource(Messages[E]{})

	messages, _ := ResourceOf[Messages[E]](world)

	registry := messageRegistryOf(world)
	registry.updates = append(registry.updates, messages.Update)
}

// messageRegistry keeps the update functions of all registered message types.
// A single system swaps the buffers of all message types at the start of a frame,
// a message is therefore visible in the frame it was written in and in the next one,
// even if it was written in Last.
type messageRegistry struct {
	updates []func()
}

func messageRegistryOf(world *World) *messageRegistry {
	registry, ok := ResourceOf[messageRegistry](world)
	if !ok {
		world.InsertResource(messageRegistry{})
		world.AddSystems(First, updateMessagesSystem)

		registry, _ = ResourceOf[messageRegistry](world)
	}

	return registry
}

func updateMessagesSystem(registry *messageRegistry) {
	for _, update := range registry.updates {
		update()
	}
}

type MessageId uint64

type MessageWithId[M any] struct {
	Id      MessageId
	Message M
}

// Messages is a double buffered queue of messages of type E. A message
// is readable in the frame it was written in and in the following frame.
type Messages[E any] struct {
	_ noCopy

	prevId MessageId
	curr   []MessageWithId[E]
	prev   []MessageWithId[E]
}

func (e *Messages[E]) AppendTo(target []MessageWithId[E]) []MessageWithId[E] {
	target = append(target, e.prev...)
	target = append(target, e.curr...)
	return target
}

func (e *Messages[E]) Send(message E) MessageId {
	e.prevId += 1

	e.curr = append(e.curr, MessageWithId[E]{
		Id:      e.prevId,
		Message: message,
	})

	return e.prevId
}

func (e *Messages[E]) Update() {
	e.curr, e.prev = e.prev, e.curr

	// reuse the memory of the current buffer
	clear(e.curr)
	e.curr = e.curr[:0]
}

// Len returns the number of messages currently readable.
func (e *Messages[E]) Len() int {
	return len(e.prev) + len(e.curr)
}

func (e *Messages[E]) Reader() *MessageReader[E] {
	return &MessageReader[E]{messages: e}
}

func (e *Messages[E]) Writer() *MessageWriter[E] {
	return &MessageWriter[E]{messages: e}
}

type MessageWriter[E any] struct {
	_ noCopy

	messages *Messages[E]
}

func (w *MessageWriter[E]) Write(message E) {
	w.messages.Send(message)
}

func (w *MessageWriter[E]) init(world *World) SystemParamState {
	messages := mustMessagesOf[E](world)
	return valueSystemParamState(reflect.ValueOf(messages.Writer()))
}

type MessageReader[E any] struct {
	_ noCopy

	messages *Messages[E]
	lastId   MessageId

	scratch       []E
	scratchWithId []MessageWithId[E]
}

// Read returns all messages this reader has not yet seen. The returned slice
// is only valid until the next call to Read.
func (r *MessageReader[E]) Read() []E {
	r.scratchWithId = r.messages.AppendTo(r.scratchWithId[:0])

	buffer := r.scratchWithId

	// limit buffer to only the messages we've not yet read
	for len(buffer) > 0 {
		if buffer[0].Id > r.lastId {
			break
		}

		buffer = buffer[1:]
	}

	if len(buffer) > 0 {
		// store the last id we've seen
		r.lastId = buffer[len(buffer)-1].Id
	}

	// convert to message slice, reuse scratch buffer
	messages := r.scratch[:0]
	for _, message := range buffer {
		messages = append(messages, message.Message)
	}

	// keep scratch buffer for reuse
	r.scratch = messages

	return messages
}

func (r *MessageReader[E]) init(world *World) SystemParamState {
	messages := mustMessagesOf[E](world)
	return valueSystemParamState(reflect.ValueOf(messages.Reader()))
}

func mustMessagesOf[E any](world *World) *Messages[E] {
	messages, ok := ResourceOf[Messages[E]](world)
	if !ok {
		panic(fmt.Sprintf("message type %s not registered", reflect.TypeFor[E]()))
	}

	return messages
}
