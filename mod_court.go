package courtside

import (
	"github.com/gekko3d/courtside/interact"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Court app states. Loading lasts until every model has arrived and the
// ball is in play; reaching Exiting ends the app.
const (
	CourtLoading State = iota
	CourtPlaying
	CourtExiting
)

// ModelComponent links an entity to the model it is drawn with.
type ModelComponent struct {
	Asset AssetId
}

// Court is the live scene: the definition plus the entities spawned from it.
type Court struct {
	Scene  *SceneDef
	Camera EntityId
	Ground EntityId
	Hoops  []EntityId
	Ball   EntityId
	BallID uuid.UUID
}

// CourtModule spawns the court. It needs AssetServerModule and PhysicsModule
// installed first; a GrabModule, if present, gets the ball once it loads.
// The app must use the court states.
type CourtModule struct {
	Scene *SceneDef
}

func (m CourtModule) Install(app *App, cmd *Commands) {
	scene := m.Scene
	if scene == nil {
		scene = DefaultScene()
	}
	court := &Court{Scene: scene}
	cmd.AddResources(court)

	if physics, ok := Resource[PhysicsWorld](app); ok {
		physics.Gravity = vec3(scene.Gravity)
	}

	court.Ground = spawnBox(cmd, scene.Ground)
	for _, wall := range scene.Walls {
		spawnBox(cmd, wall)
	}
	for _, blocker := range scene.Blockers {
		spawnBox(cmd, blocker)
	}
	court.Camera = spawnCamera(cmd, scene.Camera)

	assets, ok := Resource[AssetServer](app)
	if !ok {
		panic("CourtModule needs AssetServerModule installed first")
	}
	if len(scene.Hoops) > 0 {
		assets.LoadModelAsync(scene.HoopModel.Source("hoop"), func(cmd *Commands, asset *ModelAsset, err error) {
			if err != nil {
				return
			}
			for _, hoop := range scene.Hoops {
				court.Hoops = append(court.Hoops, spawnHoop(cmd, hoop, asset))
			}
		})
	}
	assets.LoadModelAsync(scene.Ball.Model.Source(scene.Ball.Name), func(cmd *Commands, asset *ModelAsset, err error) {
		if err != nil {
			cmd.Logger().Errorf("court: %s failed to load, nothing to grab", scene.Ball.Name)
			return
		}
		court.BallID = uuid.New()
		court.Ball = spawnBall(cmd, scene.Ball, court.BallID, asset)
		if g, ok := Resource[GrabState](cmd.app); ok {
			g.Bind(court.Ball, interact.Object{ID: court.BallID, Name: scene.Ball.Name})
		}
	})

	app.UseSystem(
		System(courtLoadingSystem).
			InState(OnExecute(CourtLoading)),
	)
	app.UseSystem(
		System(courtReadySystem).
			InState(OnEnter(CourtPlaying)),
	)
}

func courtLoadingSystem(court *Court, assets *AssetServer, cmd *Commands) {
	if court.Ball != 0 && assets.Pending() == 0 {
		cmd.ChangeState(CourtPlaying)
	}
}

func courtReadySystem(court *Court, cmd *Commands) {
	cmd.Logger().Infof("court: ready, %d hoops, %s at entity %d", len(court.Hoops), court.Scene.Ball.Name, court.Ball)
}

func spawnBox(cmd *Commands, def BoxDef) EntityId {
	components := []any{
		NewTransform(vec3(def.Position)),
		ColliderComponent{
			Shape:       ShapeBox,
			HalfExtents: vec3(def.HalfExtents),
			Restitution: def.Restitution,
			Friction:    def.Friction,
		},
		RigidBodyComponent{IsStatic: true},
		NameComponent{ID: uuid.New(), Name: def.Name},
	}
	if def.Pickable {
		components = append(components, PickableComponent{})
	}
	return cmd.AddEntity(components...)
}

func spawnCamera(cmd *Commands, def CameraDef) EntityId {
	cam := CameraComponent{Yaw: def.Yaw, Pitch: def.Pitch, Fov: 60, Near: 1, Far: 1000}
	tr := NewTransform(vec3(def.Position))
	tr.Rotation = cam.Rotation()
	return cmd.AddEntity(
		tr,
		cam,
		FirstPersonComponent{
			Speed:       def.Speed,
			Sensitivity: def.Sensitivity,
			Gravity:     def.Gravity,
			Radius:      def.Radius,
		},
		NameComponent{ID: uuid.New(), Name: "camera"},
	)
}

func spawnHoop(cmd *Commands, def HoopDef, asset *ModelAsset) EntityId {
	tr := NewTransform(vec3(def.Position))
	tr.Rotation = mgl32.QuatRotate(mgl32.DegToRad(def.Yaw), mgl32.Vec3{0, 1, 0})
	if def.Scale > 0 {
		tr.Scale = mgl32.Vec3{def.Scale, def.Scale, def.Scale}
	}
	return cmd.AddEntity(
		tr,
		ModelComponent{Asset: asset.Id},
		ColliderComponent{Shape: ShapeBox, HalfExtents: asset.HalfExtents(), Sensor: true},
		PickableComponent{},
		NameComponent{ID: uuid.New(), Name: def.Name},
	)
}

func spawnBall(cmd *Commands, def BallDef, id uuid.UUID, asset *ModelAsset) EntityId {
	return cmd.AddEntity(
		NewTransform(vec3(def.Position)),
		ModelComponent{Asset: asset.Id},
		RigidBodyComponent{Mass: def.Mass, GravityScale: 1},
		ColliderComponent{
			Shape:       ShapeSphere,
			Radius:      def.Radius,
			Restitution: def.Restitution,
			Friction:    def.Friction,
		},
		PickableComponent{},
		NameComponent{ID: id, Name: def.Name},
	)
}
