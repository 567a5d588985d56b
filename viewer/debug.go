package viewer

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/jakecoffman/cp/v2"
	"github.com/oliverbestmann/kesko/gm"
)

func drawSpace(image *ebiten.Image, space *cp.Space, transform gm.Affine) {
	cp.DrawSpace(space, debugImage{Image: image, Transform: transform})
}

// debugImage implements cp.Drawer on top of an ebiten image.
type debugImage struct {
	Image     *ebiten.Image
	Transform gm.Affine
}

func (d debugImage) draw(p vector.Path, outline cp.FColor, fill cp.FColor) {
	dpo := &vector.DrawPathOptions{AntiAlias: true}
	dpo.ColorScale.Scale(fill.R*fill.A, fill.G*fill.A, fill.B*fill.A, fill.A)
	vector.FillPath(d.Image, &p, &vector.FillOptions{}, dpo)

	*dpo = vector.DrawPathOptions{AntiAlias: true}
	dpo.ColorScale.Scale(outline.R*outline.A, outline.G*outline.A, outline.B*outline.A, outline.A)
	vector.StrokePath(d.Image, &p, &vector.StrokeOptions{Width: 1}, dpo)
}

func (d debugImage) DrawCircle(pos cp.Vector, angle, radius float64, outline, fill cp.FColor, data interface{}) {
	center := d.Transform.Transform(gm.Vec(pos))
	rim := d.Transform.Transform(gm.Vec(pos).Add(gm.Vec{X: radius}.Rotated(gm.Rad(angle))))
	screenRadius := d.Transform.TransformVec(gm.Vec{X: radius}).Length()

	var p vector.Path
	p.Arc(float32(center.X), float32(center.Y), float32(screenRadius), 0, math.Pi*2, vector.Clockwise)
	p.Close()

	// a line from the center shows the rotation
	p.MoveTo(float32(center.X), float32(center.Y))
	p.LineTo(float32(rim.X), float32(rim.Y))

	d.draw(p, outline, fill)
}

func (d debugImage) DrawSegment(a, b cp.Vector, fill cp.FColor, data interface{}) {
	ta := d.Transform.Transform(gm.Vec(a))
	tb := d.Transform.Transform(gm.Vec(b))

	var p vector.Path
	p.MoveTo(float32(ta.X), float32(ta.Y))
	p.LineTo(float32(tb.X), float32(tb.Y))
	d.draw(p, fill, cp.FColor{})
}

func (d debugImage) DrawFatSegment(a, b cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	ta := d.Transform.Transform(gm.Vec(a))
	tb := d.Transform.Transform(gm.Vec(b))

	width := max(1, 2*d.Transform.TransformVec(gm.Vec{X: radius}).Length())

	var p vector.Path
	p.MoveTo(float32(ta.X), float32(ta.Y))
	p.LineTo(float32(tb.X), float32(tb.Y))

	dpo := &vector.DrawPathOptions{AntiAlias: true}
	dpo.ColorScale.Scale(outline.R*outline.A, outline.G*outline.A, outline.B*outline.A, outline.A)
	vector.StrokePath(d.Image, &p, &vector.StrokeOptions{Width: float32(width), LineCap: vector.LineCapRound}, dpo)
}

func (d debugImage) DrawPolygon(count int, verts []cp.Vector, radius float64, outline, fill cp.FColor, data interface{}) {
	if count == 0 {
		return
	}

	var p vector.Path

	first := d.Transform.Transform(gm.Vec(verts[0]))
	p.MoveTo(float32(first.X), float32(first.Y))

	for _, vert := range verts[1:count] {
		tv := d.Transform.Transform(gm.Vec(vert))
		p.LineTo(float32(tv.X), float32(tv.Y))
	}

	p.Close()

	d.draw(p, outline, fill)
}

func (d debugImage) DrawDot(size float64, pos cp.Vector, fill cp.FColor, data interface{}) {
	center := d.Transform.Transform(gm.Vec(pos))

	var p vector.Path
	p.Arc(float32(center.X), float32(center.Y), float32(size/2), 0, math.Pi*2, vector.Clockwise)
	p.Close()

	d.draw(p, fill, fill)
}

func (d debugImage) Flags() uint {
	return cp.DRAW_SHAPES | cp.DRAW_CONSTRAINTS | cp.DRAW_COLLISION_POINTS
}

func (d debugImage) OutlineColor() cp.FColor {
	return cp.FColor{R: 1, G: 1, B: 1, A: 1}
}

func (d debugImage) ShapeColor(shape *cp.Shape, data interface{}) cp.FColor {
	if shape.Sensor() {
		return cp.FColor{B: 1, A: 0.3}
	}

	if shape.Body().IsSleeping() {
		return cp.FColor{R: 0.4, G: 0.4, B: 0.4, A: 1}
	}

	return cp.FColor{G: 0.6, A: 1}
}

func (d debugImage) ConstraintColor() cp.FColor {
	return cp.FColor{R: 1, G: 0.75, A: 1}
}

func (d debugImage) CollisionPointColor() cp.FColor {
	return cp.FColor{R: 1, A: 1}
}

func (d debugImage) Data() interface{} {
	return nil
}
