package remote

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/physics"
)

type TogglePhysicsInput struct{}

type TogglePhysicsResult struct {
	Running bool   `json:"running" jsonschema:"whether the simulation is running after the toggle"`
	Tick    uint64 `json:"tick" jsonschema:"frame in which the toggle was applied"`
}

type GetStateInput struct{}

type GetStateResult struct {
	Tick     uint64              `json:"tick"`
	Running  bool                `json:"running"`
	Checksum string              `json:"checksum" jsonschema:"hex encoded checksum of the serialized state"`
	Bodies   []physics.BodyState `json:"bodies"`
}

type ApplyMotorCommandInput struct {
	Target   uint32  `json:"target" jsonschema:"entity id of the motor"`
	Rate     float64 `json:"rate" jsonschema:"target relative angular velocity in radians per second"`
	MaxForce float64 `json:"max_force,omitempty" jsonschema:"maximum torque of the motor, zero keeps the current limit"`
}

type ApplyMotorCommandResult struct {
	Target uint32 `json:"target"`
	Tick   uint64 `json:"tick"`
}

type GetCollisionsInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of collisions to return, all if zero"`
}

type GetCollisionsResult struct {
	Collisions []RecordedCollision `json:"collisions"`
}

type StepInput struct {
	Frames int `json:"frames,omitempty" jsonschema:"number of frames to run, one if zero"`
}

type StepResult struct {
	Tick uint64 `json:"tick" jsonschema:"frame count after the last frame"`
}

type CloseInput struct{}

type CloseResult struct{}

func registerTools(server *mcp.Server, gateway *Gateway) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "toggle_physics",
		Description: "Pause a running simulation or resume a paused one",
	}, togglePhysicsHandler(gateway))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_state",
		Description: "Get the position and velocity of every rigid body in the simulation",
	}, getStateHandler(gateway))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "apply_motor_command",
		Description: "Set the target rate and the maximum torque of a motor",
	}, applyMotorCommandHandler(gateway))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_collisions",
		Description: "Get the most recent collisions between entities",
	}, getCollisionsHandler(gateway))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "step",
		Description: "Advance an externally stepped simulation by a number of frames, one physics step each",
	}, stepHandler(gateway))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "close",
		Description: "Stop the simulation",
	}, closeHandler(gateway))
}

func togglePhysicsHandler(gateway *Gateway) mcp.ToolHandlerFor[TogglePhysicsInput, TogglePhysicsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ TogglePhysicsInput) (*mcp.CallToolResult, TogglePhysicsResult, error) {
		result, tick, err := submit[physics.PhysicsToggled](ctx, gateway, physics.TogglePhysics{})
		if err != nil {
			return nil, TogglePhysicsResult{}, err
		}

		return nil, TogglePhysicsResult{Running: result.Running, Tick: tick}, nil
	}
}

func getStateHandler(gateway *Gateway) mcp.ToolHandlerFor[GetStateInput, GetStateResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ GetStateInput) (*mcp.CallToolResult, GetStateResult, error) {
		result, _, err := submit[physics.SerializableState](ctx, gateway, physics.QuerySerializableState{})
		if err != nil {
			return nil, GetStateResult{}, err
		}

		if result.Err != nil {
			return nil, GetStateResult{}, result.Err
		}

		state, err := physics.DecodeWorldState(result.Blob)
		if err != nil {
			return nil, GetStateResult{}, err
		}

		if state.Bodies == nil {
			state.Bodies = []physics.BodyState{}
		}

		return nil, GetStateResult{
			Tick:     state.Tick,
			Running:  state.Running,
			Checksum: strconv.FormatUint(result.Checksum, 16),
			Bodies:   state.Bodies,
		}, nil
	}
}

func applyMotorCommandHandler(gateway *Gateway) mcp.ToolHandlerFor[ApplyMotorCommandInput, ApplyMotorCommandResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input ApplyMotorCommandInput) (*mcp.CallToolResult, ApplyMotorCommandResult, error) {
		action := physics.ApplyMotorCommand{
			Target: kesko.EntityId(input.Target),
			Command: physics.MotorCommand{
				Rate:     input.Rate,
				MaxForce: input.MaxForce,
			},
		}

		ack, tick, err := submit[physics.MotorCommandAck](ctx, gateway, action)
		if err != nil {
			return nil, ApplyMotorCommandResult{}, err
		}

		if ack.Err != nil {
			return nil, ApplyMotorCommandResult{}, fmt.Errorf("motor %s: %w", ack.Target, ack.Err)
		}

		return nil, ApplyMotorCommandResult{Target: input.Target, Tick: tick}, nil
	}
}

func getCollisionsHandler(gateway *Gateway) mcp.ToolHandlerFor[GetCollisionsInput, GetCollisionsResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input GetCollisionsInput) (*mcp.CallToolResult, GetCollisionsResult, error) {
		if input.Limit < 0 {
			return nil, GetCollisionsResult{}, errors.New("limit must not be negative")
		}

		return nil, GetCollisionsResult{Collisions: gateway.RecentCollisions(input.Limit)}, nil
	}
}

func stepHandler(gateway *Gateway) mcp.ToolHandlerFor[StepInput, StepResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, input StepInput) (*mcp.CallToolResult, StepResult, error) {
		frames := input.Frames
		if frames == 0 {
			frames = 1
		}

		tick, err := gateway.Step(ctx, frames)
		if err != nil {
			return nil, StepResult{}, err
		}

		return nil, StepResult{Tick: tick}, nil
	}
}

func closeHandler(gateway *Gateway) mcp.ToolHandlerFor[CloseInput, CloseResult] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ CloseInput) (*mcp.CallToolResult, CloseResult, error) {
		gateway.RequestShutdown()
		return nil, CloseResult{}, nil
	}
}

// submit sends the action through the gateway and extracts the expected result type.
func submit[R physics.ControlResult](ctx context.Context, gateway *Gateway, action physics.ControlAction) (R, uint64, error) {
	var rZero R

	response, err := gateway.Submit(ctx, action)
	if err != nil {
		return rZero, 0, err
	}

	switch result := response.Result.(type) {
	case R:
		return result, response.Tick, nil

	case physics.RequestRejected:
		return rZero, response.Tick, result.Err

	default:
		return rZero, response.Tick, fmt.Errorf("unexpected result of type %T", response.Result)
	}
}
