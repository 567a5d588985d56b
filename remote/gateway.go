package remote

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/physics"
)

// ErrGatewayClosed is returned by Gateway.Submit once the gateway was closed.
var ErrGatewayClosed = errors.New("gateway closed")

// ErrSteppingDisabled is returned by Gateway.Step if the frames are not driven by RunStepped.
var ErrSteppingDisabled = errors.New("simulation is not stepped externally")

// ErrInvalidFrameCount is returned by Gateway.Step for a frame count less than one.
var ErrInvalidFrameCount = errors.New("frame count must be positive")

// RecordedCollision is a collision event together with the frame it was published in.
type RecordedCollision struct {
	Tick  uint64                 `json:"tick" jsonschema:"frame in which the collision was reported"`
	Event physics.CollisionEvent `json:"event"`
}

// Gateway connects callers on other goroutines with the simulation. Requests are
// collected until the next frame starts and answered at the end of that frame.
type Gateway struct {
	mu     sync.Mutex
	closed bool

	// closed by Close, releases callers blocked in Step
	done chan struct{}

	// signalled on Submit, wakes up an idle RunStepped loop
	wake chan struct{}

	stepping atomic.Bool
	steps    chan stepRequest

	shutdown     chan struct{}
	shutdownOnce sync.Once

	nextId    uint64
	submitted []physics.ControlRequest
	pending   map[uint64]chan physics.ControlResponse

	collisions collisionRing
}

// NewGateway creates a gateway that remembers up to collisionCapacity collision events.
func NewGateway(collisionCapacity int) *Gateway {
	return &Gateway{
		done:       make(chan struct{}),
		wake:       make(chan struct{}, 1),
		steps:      make(chan stepRequest),
		shutdown:   make(chan struct{}),
		pending:    map[uint64]chan physics.ControlResponse{},
		collisions: newCollisionRing(collisionCapacity),
	}
}

// Submit enqueues a request and blocks until the simulation answered it or ctx is done.
// A request that was cancelled might still be processed by the simulation.
func (g *Gateway) Submit(ctx context.Context, action physics.ControlAction) (physics.ControlResponse, error) {
	g.mu.Lock()

	if g.closed {
		g.mu.Unlock()
		return physics.ControlResponse{}, ErrGatewayClosed
	}

	g.nextId += 1
	id := g.nextId

	result := make(chan physics.ControlResponse, 1)
	g.pending[id] = result
	g.submitted = append(g.submitted, physics.ControlRequest{Id: id, Action: action})

	g.mu.Unlock()

	select {
	case g.wake <- struct{}{}:
	default:
	}

	select {
	case response, ok := <-result:
		if !ok {
			return physics.ControlResponse{}, ErrGatewayClosed
		}

		return response, nil

	case <-ctx.Done():
		g.mu.Lock()
		delete(g.pending, id)
		g.mu.Unlock()

		return physics.ControlResponse{}, ctx.Err()
	}
}

// RecentCollisions returns up to limit of the most recent collision events, oldest first.
// A limit of zero or less returns all events still remembered.
func (g *Gateway) RecentCollisions(limit int) []RecordedCollision {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.collisions.Latest(limit)
}

// Close fails all pending and future submissions.
func (g *Gateway) Close() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.closed {
		return
	}

	g.closed = true
	close(g.done)

	for id, result := range g.pending {
		close(result)
		delete(g.pending, id)
	}

	g.submitted = nil
}

// RequestShutdown asks the loop running the simulation to stop.
// It is safe to call multiple times.
func (g *Gateway) RequestShutdown() {
	g.shutdownOnce.Do(func() { close(g.shutdown) })
}

// ShutdownRequested is closed once RequestShutdown was called.
func (g *Gateway) ShutdownRequested() <-chan struct{} {
	return g.shutdown
}

func (g *Gateway) takeSubmitted(dst []physics.ControlRequest) []physics.ControlRequest {
	g.mu.Lock()
	defer g.mu.Unlock()

	dst = append(dst, g.submitted...)

	clear(g.submitted)
	g.submitted = g.submitted[:0]

	return dst
}

func (g *Gateway) complete(responses []physics.ControlResponse) {
	if len(responses) == 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, response := range responses {
		result, ok := g.pending[response.Id]
		if !ok {
			// the caller gave up waiting or the request was not sent by us
			continue
		}

		delete(g.pending, response.Id)
		result <- response
	}
}

func (g *Gateway) recordCollisions(tick uint64, events []physics.CollisionEvent) {
	if len(events) == 0 {
		return
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	for _, event := range events {
		g.collisions.Push(RecordedCollision{Tick: tick, Event: event})
	}
}

// Plugin connects the gateway to the app. It can be added before or after the physics plugin.
func Plugin(gateway *Gateway) kesko.PluginFunc {
	return func(app *kesko.App) {
		app.AddMessage(kesko.MessageType[physics.ControlRequest]())
		app.AddMessage(kesko.MessageType[physics.ControlResponse]())
		app.AddMessage(kesko.MessageType[physics.CollisionEvent]())

		app.InsertResource(gatewayResource{Gateway: gateway})

		app.AddSystems(kesko.First, ingressSystem)
		app.AddSystems(kesko.Last, kesko.System(egressSystem).After(physics.DispatchStage()))
	}
}

type gatewayResource struct {
	*Gateway
}

func ingressSystem(
	gateway gatewayResource,
	writer *kesko.MessageWriter[physics.ControlRequest],
	scratch *kesko.Local[[]physics.ControlRequest],
) {
	requests := gateway.takeSubmitted(scratch.Value[:0])

	for _, request := range requests {
		writer.Write(request)
	}

	if len(requests) > 0 {
		slog.Debug("Forwarded remote control requests", slog.Int("count", len(requests)))
	}

	clear(requests)
	scratch.Value = requests[:0]
}

func egressSystem(
	gateway gatewayResource,
	frame kesko.FrameCount,
	responses *kesko.MessageReader[physics.ControlResponse],
	collisions *kesko.MessageReader[physics.CollisionEvent],
) {
	gateway.complete(responses.Read())
	gateway.recordCollisions(uint64(frame), collisions.Read())
}
