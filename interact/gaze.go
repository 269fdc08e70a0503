package interact

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// GazeDetector answers whether the viewer is looking straight at an object.
type GazeDetector struct {
	World World
	// MaxDistance rejects hits farther than this. Zero means unlimited.
	MaxDistance float32
}

// IsTargeted casts the viewer's forward ray and reports whether the nearest
// hit belongs to obj. Anything in front of obj along the ray blocks it.
func (g GazeDetector) IsTargeted(position, forward mgl32.Vec3, obj *Object) bool {
	if obj == nil || obj.ID == uuid.Nil || g.World == nil {
		return false
	}
	if forward.Len() < 1e-6 {
		return false
	}

	hit, ok := g.World.CastRay(position, forward.Normalize())
	if !ok {
		return false
	}
	if g.MaxDistance > 0 && hit.Distance > g.MaxDistance {
		return false
	}
	return hit.Object == obj.ID
}
