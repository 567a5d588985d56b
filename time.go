package kesko

import (
	"time"
)

// FixedTime should be used in fixed step systems to measure the progression of time.
//
// FixedTime will be updated using the value delta provided by VirtualTime, which might be scaled.
// In this case, time might accumulate more slowly and FixedTime steps will also be executed less often.
// To counteract this, you can decrement the StepInterval to executed fixed time step systems more often.
//
// The default value of StepInterval is taken from bevy and is 1/64s.
type FixedTime struct {
	Elapsed   time.Duration
	Delta     time.Duration
	DeltaSecs float64

	StepInterval time.Duration

	overstep time.Duration
}

// VirtualTime tracks time.
//
// The progression of time can be scaled by setting the Scale field.
// This will scale the Delta and DeltaSecs values starting at the next frame.
//
// With Lockstep set, the wall clock is ignored and every frame advances time by
// exactly one FixedTime.StepInterval. This is what headless runners that are driven
// by an external caller want: one frame, one physics step.
//
// A paused VirtualTime does not advance, frames still run but no fixed steps are executed.
type VirtualTime struct {
	Elapsed   time.Duration
	Delta     time.Duration
	DeltaSecs float64

	Scale    float64
	Lockstep bool
	Paused   bool
}

// FrameCount counts the frames since the app started. It is incremented
// at the start of every frame, the first frame has the count 1.
type FrameCount uint64

func updateVirtualTime(v *VirtualTime, ft FixedTime, lastTime *Local[time.Time]) {
	if v.Paused {
		v.Delta = 0
		v.DeltaSecs = 0

		// start measuring again once unpaused
		lastTime.Value = time.Time{}
		return
	}

	if v.Lockstep {
		v.Delta = ft.StepInterval
		v.DeltaSecs = v.Delta.Seconds()
		v.Elapsed += v.Delta
		return
	}

	now := time.Now()

	if lastTime.Value.IsZero() {
		lastTime.Value = now
		return
	}

	delta := time.Duration(float64(now.Sub(lastTime.Value)) * v.Scale)
	lastTime.Value = now

	v.Delta = delta
	v.DeltaSecs = v.Delta.Seconds()
	v.Elapsed += v.Delta
}

func updateFrameCount(count *FrameCount) {
	*count += 1
}
