package remote

import (
	"context"
	"fmt"

	"github.com/oliverbestmann/kesko"
)

type stepRequest struct {
	frames int

	// receives the frame count after the last frame
	done chan uint64
}

// Step runs the given number of frames and returns the frame count afterward.
// It only works while the simulation is driven by RunStepped.
func (g *Gateway) Step(ctx context.Context, frames int) (uint64, error) {
	if frames < 1 {
		return 0, fmt.Errorf("step %d frames: %w", frames, ErrInvalidFrameCount)
	}

	if !g.stepping.Load() {
		return 0, ErrSteppingDisabled
	}

	request := stepRequest{frames: frames, done: make(chan uint64, 1)}

	select {
	case g.steps <- request:
	case <-g.done:
		return 0, ErrGatewayClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	select {
	case tick := <-request.done:
		return tick, nil
	case <-g.done:
		return 0, ErrGatewayClosed
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// RunStepped drives the world on behalf of the callers of the gateway: frames are
// executed only when requested with Gateway.Step. Control requests submitted in between
// are answered in a frame with paused time, so no physics step happens.
// Time runs in lockstep. It returns once ctx is done or a shutdown was requested.
func RunStepped(ctx context.Context, gateway *Gateway) kesko.RunWorld {
	return func(world *kesko.World) error {
		// every requested frame advances the simulation by exactly one fixed step
		if vt, ok := kesko.ResourceOf[kesko.VirtualTime](world); ok {
			vt.Lockstep = true
		}

		gateway.stepping.Store(true)
		defer gateway.stepping.Store(false)

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()

			case <-gateway.ShutdownRequested():
				return nil

			case request := <-gateway.steps:
				for range request.frames {
					runFrame(world, false)
				}

				request.done <- frameCountOf(world)

			case <-gateway.wake:
				runFrame(world, true)
			}
		}
	}
}

func runFrame(world *kesko.World, paused bool) {
	vt, ok := kesko.ResourceOf[kesko.VirtualTime](world)
	if !ok {
		panic("VirtualTime resource missing")
	}

	vt.Paused = paused
	world.RunSchedule(kesko.Main)
	vt.Paused = false
}

func frameCountOf(world *kesko.World) uint64 {
	frame, _ := kesko.ResourceOf[kesko.FrameCount](world)
	return uint64(*frame)
}
