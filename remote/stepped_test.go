package remote

import (
	"context"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/gm"
	"github.com/oliverbestmann/kesko/physics"
	"github.com/stretchr/testify/require"
)

// startStepped runs the app with RunStepped in the background. The returned
// channel receives the result of App.Run.
func startStepped(t *testing.T, gateway *Gateway) (*kesko.App, <-chan error) {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	app := newTestApp(gateway)
	app.World().Spawn(
		kesko.Named("ball"),
		physics.RigidBodyDynamic,
		physics.Velocity{Linear: gm.Vec{X: 64}},
	)

	app.RunWorld(RunStepped(ctx, gateway))

	runResult := make(chan error, 1)
	go func() { runResult <- app.Run() }()

	require.Eventually(t, gateway.stepping.Load, 5*time.Second, time.Millisecond)

	return app, runResult
}

func requireStopped(t *testing.T, runResult <-chan error) {
	t.Helper()

	select {
	case err := <-runResult:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		require.FailNow(t, "simulation did not stop")
	}
}

func queryState(t *testing.T, gateway *Gateway) physics.WorldState {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	response, err := gateway.Submit(ctx, physics.QuerySerializableState{})
	require.NoError(t, err)

	result, ok := response.Result.(physics.SerializableState)
	require.True(t, ok)
	require.NoError(t, result.Err)

	state, err := physics.DecodeWorldState(result.Blob)
	require.NoError(t, err)

	return state
}

func TestRunStepped(t *testing.T) {
	gateway := NewGateway(16)
	_, runResult := startStepped(t, gateway)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	tick, err := gateway.Step(ctx, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(3), tick)

	// three steps of 1/64s at 64 units per second
	state := queryState(t, gateway)
	require.Len(t, state.Bodies, 1)
	require.InDelta(t, 3.0, state.Bodies[0].Position.X, 1e-6)

	// requests are answered in frames without a physics step
	require.Equal(t, uint64(4), state.Tick)

	state = queryState(t, gateway)
	require.Equal(t, uint64(5), state.Tick)
	require.InDelta(t, 3.0, state.Bodies[0].Position.X, 1e-6)

	tick, err = gateway.Step(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, uint64(6), tick)

	_, err = gateway.Step(ctx, 0)
	require.ErrorIs(t, err, ErrInvalidFrameCount)

	gateway.RequestShutdown()
	requireStopped(t, runResult)

	_, err = gateway.Step(ctx, 1)
	require.ErrorIs(t, err, ErrSteppingDisabled)
}

func TestStepWithoutRunStepped(t *testing.T) {
	gateway := NewGateway(16)

	_, err := gateway.Step(context.Background(), 1)
	require.ErrorIs(t, err, ErrSteppingDisabled)
}

func TestServerStepAndClose(t *testing.T) {
	gateway := NewGateway(16)
	_, runResult := startStepped(t, gateway)

	session := connectClient(t, NewServer(gateway))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	result, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "step", Arguments: map[string]any{"frames": 2}})
	require.NoError(t, err)
	require.False(t, result.IsError)
	require.Equal(t, uint64(2), decodeStructuredContent[StepResult](t, result.StructuredContent).Tick)

	// a single frame by default
	result, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "step", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.Equal(t, uint64(3), decodeStructuredContent[StepResult](t, result.StructuredContent).Tick)

	result, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "get_state", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, result.IsError)

	state := decodeStructuredContent[GetStateResult](t, result.StructuredContent)
	require.InDelta(t, 3.0, state.Bodies[0].Position.X, 1e-6)

	result, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "close", Arguments: map[string]any{}})
	require.NoError(t, err)
	require.False(t, result.IsError)

	requireStopped(t, runResult)
}
