package interact

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Tuning holds the designer-facing knobs of the grab interaction.
type Tuning struct {
	// HoldOffset is the object's position in the viewer frame while held.
	HoldOffset mgl32.Vec3

	// ThrowDirection is normalized before use. When ViewerRelative is set it
	// is read in the viewer frame (x right, y up, z forward), otherwise in
	// world space.
	ThrowDirection mgl32.Vec3
	ThrowMagnitude float32
	ThrowMode      ThrowMode
	ViewerRelative bool

	// MaxGazeDistance limits targeting range. Zero means unlimited.
	MaxGazeDistance float32

	Body BodyParams
}

func DefaultTuning() Tuning {
	return Tuning{
		HoldOffset:     mgl32.Vec3{0, 0.5, 3},
		ThrowDirection: mgl32.Vec3{0, 1, 1},
		ThrowMagnitude: 7 * math32.Sqrt(2),
		ThrowMode:      ThrowForce,
		ViewerRelative: true,
		Body: BodyParams{
			Mass:        1,
			Restitution: 0.5,
			Friction:    1,
		},
	}
}

// ThrowVector returns the scaled throw vector for a viewer looking along
// forward. A zero direction yields a zero vector.
func (t Tuning) ThrowVector(forward mgl32.Vec3) mgl32.Vec3 {
	dir := t.ThrowDirection
	if dir.Len() < 1e-6 {
		return mgl32.Vec3{}
	}
	dir = dir.Normalize()

	if t.ViewerRelative {
		right, up, fwd := viewerBasis(forward)
		dir = right.Mul(dir.X()).Add(up.Mul(dir.Y())).Add(fwd.Mul(dir.Z()))
	}
	return dir.Mul(t.ThrowMagnitude)
}

// viewerBasis builds an orthonormal frame around forward with +Y as the
// reference up. Looking straight up or down falls back to +Z as reference.
func viewerBasis(forward mgl32.Vec3) (right, up, fwd mgl32.Vec3) {
	fwd = mgl32.Vec3{0, 0, 1}
	if forward.Len() > 1e-6 {
		fwd = forward.Normalize()
	}

	ref := mgl32.Vec3{0, 1, 0}
	if math32.Abs(fwd.Dot(ref)) > 0.999 {
		ref = mgl32.Vec3{0, 0, 1}
	}
	right = ref.Cross(fwd).Normalize()
	up = fwd.Cross(right).Normalize()
	return right, up, fwd
}
