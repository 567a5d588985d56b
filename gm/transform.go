package gm

import "math"

// Mat is a 2x2 matrix, stored as its two rows.
type Mat struct {
	XAxis, YAxis Vec
}

func IdentityMat() Mat {
	return Mat{XAxis: Vec{X: 1}, YAxis: Vec{Y: 1}}
}

func ScaleMat(scale Vec) Mat {
	return Mat{XAxis: Vec{X: scale.X}, YAxis: Vec{Y: scale.Y}}
}

// RotationMat rotates counter clockwise by angle.
func RotationMat(angle Rad) Mat {
	sin, cos := math.Sincos(float64(angle))
	return Mat{XAxis: Vec{X: cos, Y: -sin}, YAxis: Vec{X: sin, Y: cos}}
}

func (m Mat) Transform(v Vec) Vec {
	return Vec{X: m.XAxis.Dot(v), Y: m.YAxis.Dot(v)}
}

func (m Mat) Mul(n Mat) Mat {
	col0 := Vec{X: n.XAxis.X, Y: n.YAxis.X}
	col1 := Vec{X: n.XAxis.Y, Y: n.YAxis.Y}

	return Mat{
		XAxis: Vec{X: m.XAxis.Dot(col0), Y: m.XAxis.Dot(col1)},
		YAxis: Vec{X: m.YAxis.Dot(col0), Y: m.YAxis.Dot(col1)},
	}
}

// Affine is a linear transformation followed by a translation. The viewer
// uses it to map world coordinates onto the screen.
type Affine struct {
	Matrix      Mat
	Translation Vec
}

func IdentityAffine() Affine {
	return Affine{Matrix: IdentityMat()}
}

// Mul returns the transformation that applies other first and then a.
func (a Affine) Mul(other Affine) Affine {
	return Affine{
		Matrix:      a.Matrix.Mul(other.Matrix),
		Translation: a.Transform(other.Translation),
	}
}

// Translate, Scale and Rotate append a transformation that is applied
// before the existing ones, working in the local space of a.
func (a Affine) Translate(offset Vec) Affine {
	return a.Mul(Affine{Matrix: IdentityMat(), Translation: offset})
}

func (a Affine) Scale(scale Vec) Affine {
	return a.Mul(Affine{Matrix: ScaleMat(scale)})
}

func (a Affine) Rotate(angle Rad) Affine {
	return a.Mul(Affine{Matrix: RotationMat(angle)})
}

// Transform maps a point.
func (a Affine) Transform(point Vec) Vec {
	return a.Matrix.Transform(point).Add(a.Translation)
}

// TransformVec maps a direction, the translation is ignored.
func (a Affine) TransformVec(vec Vec) Vec {
	return a.Matrix.Transform(vec)
}
