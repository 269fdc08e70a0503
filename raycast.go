package courtside

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

type RaycastHit struct {
	Entity   EntityId
	Point    mgl32.Vec3
	Normal   mgl32.Vec3
	Distance float32
}

// Raycast returns the closest pickable collider along the ray within
// maxDistance (0 means unlimited). Shapes that contain the origin are
// ignored. Box colliders are tested in their own rotated frame.
func Raycast(cmd *Commands, origin, direction mgl32.Vec3, maxDistance float32) (RaycastHit, bool) {
	if direction.Len() < 1e-6 {
		return RaycastHit{}, false
	}
	direction = direction.Normalize()
	if maxDistance <= 0 {
		maxDistance = math32.Inf(1)
	}

	closest := RaycastHit{Distance: maxDistance}
	hit := false

	MakeQuery3[TransformComponent, ColliderComponent, PickableComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, col *ColliderComponent, _ *PickableComponent) bool {
		var h RaycastHit
		var ok bool
		switch col.Shape {
		case ShapeSphere:
			h, ok = raycastSphere(origin, direction, tr.Position, col.Radius*maxAbsComponent(tr.Scale))
		case ShapeBox:
			h, ok = raycastBox(origin, direction, tr, absVec(mulVec(col.HalfExtents, tr.Scale)))
		}
		if ok && h.Distance < closest.Distance {
			closest = h
			closest.Entity = eid
			hit = true
		}
		return true
	})

	return closest, hit
}

func raycastSphere(origin, direction, center mgl32.Vec3, radius float32) (RaycastHit, bool) {
	if radius <= 0 {
		return RaycastHit{}, false
	}
	oc := origin.Sub(center)
	b := oc.Dot(direction)
	c := oc.Dot(oc) - radius*radius
	if c <= 0 {
		return RaycastHit{}, false
	}
	disc := b*b - c
	if disc < 0 {
		return RaycastHit{}, false
	}
	t := -b - math32.Sqrt(disc)
	if t < 0 {
		return RaycastHit{}, false
	}

	point := origin.Add(direction.Mul(t))
	return RaycastHit{
		Point:    point,
		Normal:   point.Sub(center).Normalize(),
		Distance: t,
	}, true
}

func raycastBox(origin, direction mgl32.Vec3, tr *TransformComponent, half mgl32.Vec3) (RaycastHit, bool) {
	rot := tr.Rotation
	if rot.Len() < 1e-6 {
		rot = mgl32.QuatIdent()
	}
	inv := rot.Conjugate()
	o := inv.Rotate(origin.Sub(tr.Position))
	d := inv.Rotate(direction)

	tmin, tmax := math32.Inf(-1), math32.Inf(1)
	axis, sign := -1, float32(0)
	for a := 0; a < 3; a++ {
		if math32.Abs(d[a]) < 1e-8 {
			if o[a] < -half[a] || o[a] > half[a] {
				return RaycastHit{}, false
			}
			continue
		}
		t1 := (-half[a] - o[a]) / d[a]
		t2 := (half[a] - o[a]) / d[a]
		s := float32(-1)
		if t1 > t2 {
			t1, t2 = t2, t1
			s = 1
		}
		if t1 > tmin {
			tmin, axis, sign = t1, a, s
		}
		if t2 < tmax {
			tmax = t2
		}
		if tmin > tmax {
			return RaycastHit{}, false
		}
	}
	if tmin < 0 || axis == -1 {
		return RaycastHit{}, false
	}

	var n mgl32.Vec3
	n[axis] = sign
	return RaycastHit{
		Point:    origin.Add(direction.Mul(tmin)),
		Normal:   rot.Rotate(n),
		Distance: tmin,
	}, true
}
