// Package gm holds the small amount of 2d math shared by the physics bridge
// and the viewer: Vec, the angle type Rad, and the Affine transform used to
// project the world onto the screen.
package gm
