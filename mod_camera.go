package courtside

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// CameraComponent holds the view angles in degrees. Yaw 0 and pitch 0 look
// along +Z; positive pitch looks up.
type CameraComponent struct {
	Yaw   float32
	Pitch float32
	Fov   float32
	Near  float32
	Far   float32
}

func (cam *CameraComponent) Forward() mgl32.Vec3 {
	yaw := mgl32.DegToRad(cam.Yaw)
	pitch := mgl32.DegToRad(cam.Pitch)
	return mgl32.Vec3{
		math32.Sin(yaw) * math32.Cos(pitch),
		math32.Sin(pitch),
		math32.Cos(yaw) * math32.Cos(pitch),
	}
}

// Rotation maps +Z onto Forward.
func (cam *CameraComponent) Rotation() mgl32.Quat {
	yaw := mgl32.QuatRotate(mgl32.DegToRad(cam.Yaw), mgl32.Vec3{0, 1, 0})
	pitch := mgl32.QuatRotate(mgl32.DegToRad(-cam.Pitch), mgl32.Vec3{1, 0, 0})
	return yaw.Mul(pitch).Normalize()
}

// LookAt points the camera at target.
func (cam *CameraComponent) LookAt(from, target mgl32.Vec3) {
	d := target.Sub(from)
	l := d.Len()
	if l < 1e-6 {
		return
	}
	cam.Yaw = mgl32.RadToDeg(math32.Atan2(d.X(), d.Z()))
	cam.Pitch = clampPitch(mgl32.RadToDeg(math32.Asin(d.Y() / l)))
}

func clampPitch(p float32) float32 {
	return math32.Max(-89, math32.Min(89, p))
}

// FirstPersonComponent walks the camera on the ground plane with WASD and
// turns it with the captured mouse.
type FirstPersonComponent struct {
	Speed       float32
	Sensitivity float32
	Move        mgl32.Vec3
	Look        mgl32.Vec2

	Gravity   bool
	Radius    float32
	VelocityY float32
	Grounded  bool
}

type FirstPersonModule struct{}

func (m FirstPersonModule) Install(app *App, cmd *Commands) {
	app.UseSystem(
		System(FirstPersonInputSystem).
			InStage(Update).
			RunAlways(),
	)
	app.UseSystem(
		System(FirstPersonControlSystem).
			InStage(Update).
			RunAlways(),
	)
}

func FirstPersonInputSystem(input *Input, cmd *Commands) {
	MakeQuery1[FirstPersonComponent](cmd).Map(func(eid EntityId, fp *FirstPersonComponent) bool {
		fp.Move = mgl32.Vec3{0, 0, 0}
		if input.Pressed[KeyW] {
			fp.Move[2] += 1
		}
		if input.Pressed[KeyS] {
			fp.Move[2] -= 1
		}
		if input.Pressed[KeyA] {
			fp.Move[0] -= 1
		}
		if input.Pressed[KeyD] {
			fp.Move[0] += 1
		}

		if input.MouseCaptured {
			fp.Look[0] = float32(input.MouseDeltaX)
			fp.Look[1] = float32(input.MouseDeltaY)
		} else {
			fp.Look = mgl32.Vec2{}
		}
		return true
	})
}

func FirstPersonControlSystem(cmd *Commands, time *Time, physics *PhysicsWorld) {
	dt := time.Seconds()
	if dt <= 0 || dt > physics.MaxDt {
		return
	}

	var statics []AABB
	MakeQuery3[TransformComponent, CameraComponent, FirstPersonComponent](cmd).Map(func(eid EntityId, tr *TransformComponent, cam *CameraComponent, fp *FirstPersonComponent) bool {
		if fp.Sensitivity == 0 {
			fp.Sensitivity = 0.1
		}
		cam.Yaw += fp.Look[0] * fp.Sensitivity
		cam.Pitch = clampPitch(cam.Pitch - fp.Look[1]*fp.Sensitivity)

		if fp.Speed == 0 {
			fp.Speed = 5.0
		}

		// Walking stays on the ground plane whatever the pitch.
		yaw := mgl32.DegToRad(cam.Yaw)
		forward := mgl32.Vec3{math32.Sin(yaw), 0, math32.Cos(yaw)}
		right := mgl32.Vec3{0, 1, 0}.Cross(forward)

		move := right.Mul(fp.Move[0]).Add(forward.Mul(fp.Move[2]))
		if move.Len() > 0 {
			move = move.Normalize().Mul(fp.Speed * dt)
		}

		if fp.Gravity {
			fp.VelocityY += physics.Gravity.Y() * dt
			move[1] = fp.VelocityY * dt
		}

		pos := tr.Position.Add(move)
		if fp.Radius > 0 {
			if statics == nil {
				statics = CollectStaticBoxes(cmd)
			}
			var vel mgl32.Vec3
			pos, vel, fp.Grounded = ResolveSphere(pos, mgl32.Vec3{0, fp.VelocityY, 0}, fp.Radius, statics, 0, 0)
			fp.VelocityY = vel.Y()
		}

		tr.Position = pos
		tr.Rotation = cam.Rotation()
		return true
	})
}
