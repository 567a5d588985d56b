package demo

import (
	"testing"

	"github.com/oliverbestmann/kesko"
	"github.com/oliverbestmann/kesko/physics"
	"github.com/stretchr/testify/require"
)

func TestScene(t *testing.T) {
	app := &kesko.App{}
	app.InsertResource(kesko.VirtualTime{Scale: 1, Lockstep: true})
	app.AddPlugin(kesko.PluginFunc(physics.Plugin))
	app.AddPlugin(kesko.PluginFunc(Plugin))

	app.Update()

	bodies, _ := kesko.ResourceOf[physics.Registry[physics.BodyHandle]](app.World())
	joints, _ := kesko.ResourceOf[physics.Registry[physics.JointHandle]](app.World())

	require.Equal(t, 8, bodies.Len())
	require.Equal(t, 1, joints.Len())
}
