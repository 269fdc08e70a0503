package courtside

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pelletier/go-toml/v2"
)

var ErrInvalidScene = errors.New("invalid scene")

//go:embed assets/court.toml
var defaultCourt []byte

// SceneDef describes the court: static geometry, the hoops and the ball.
type SceneDef struct {
	Gravity   [3]float32 `toml:"gravity"`
	Camera    CameraDef  `toml:"camera"`
	Ground    BoxDef     `toml:"ground"`
	Walls     []BoxDef   `toml:"walls"`
	Blockers  []BoxDef   `toml:"blockers"`
	HoopModel ModelDef   `toml:"hoop_model"`
	Hoops     []HoopDef  `toml:"hoops"`
	Ball      BallDef    `toml:"ball"`
}

type CameraDef struct {
	Position    [3]float32 `toml:"position"`
	Yaw         float32    `toml:"yaw"`
	Pitch       float32    `toml:"pitch"`
	Speed       float32    `toml:"speed"`
	Sensitivity float32    `toml:"sensitivity"`
	Radius      float32    `toml:"radius"`
	Gravity     bool       `toml:"gravity"`
}

// BoxDef is a static box collider. Only pickable boxes block the gaze ray.
type BoxDef struct {
	Name        string     `toml:"name"`
	Position    [3]float32 `toml:"position"`
	HalfExtents [3]float32 `toml:"half_extents"`
	Pickable    bool       `toml:"pickable"`
	Restitution float32    `toml:"restitution"`
	Friction    float32    `toml:"friction"`
}

// ModelDef points at a .vox file, or names a built-in shape ("sphere" or
// "ring") with its size in voxels.
type ModelDef struct {
	Path       string  `toml:"path"`
	Procedural string  `toml:"procedural"`
	Size       int     `toml:"size"`
	VoxelSize  float32 `toml:"voxel_size"`
}

type HoopDef struct {
	Name     string     `toml:"name"`
	Position [3]float32 `toml:"position"`
	Yaw      float32    `toml:"yaw"`
	Scale    float32    `toml:"scale"`
}

type BallDef struct {
	Name        string     `toml:"name"`
	Position    [3]float32 `toml:"position"`
	Radius      float32    `toml:"radius"`
	Mass        float32    `toml:"mass"`
	Restitution float32    `toml:"restitution"`
	Friction    float32    `toml:"friction"`
	Model       ModelDef   `toml:"model"`
}

// DefaultScene returns the built-in court.
func DefaultScene() *SceneDef {
	def, err := ParseScene(defaultCourt)
	if err != nil {
		panic(fmt.Sprintf("built-in court: %v", err))
	}
	return def
}

// LoadScene reads a scene file. An empty path yields the built-in court.
func LoadScene(path string) (*SceneDef, error) {
	if path == "" {
		return DefaultScene(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	def, err := ParseScene(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

func ParseScene(data []byte) (*SceneDef, error) {
	var def SceneDef
	dec := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidScene, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

func (def *SceneDef) Validate() error {
	if def.Ball.Name == "" {
		return fmt.Errorf("%w: ball needs a name", ErrInvalidScene)
	}
	if def.Ball.Radius <= 0 {
		return fmt.Errorf("%w: ball radius must be positive, got %g", ErrInvalidScene, def.Ball.Radius)
	}
	if def.Ball.Mass <= 0 {
		return fmt.Errorf("%w: ball mass must be positive, got %g", ErrInvalidScene, def.Ball.Mass)
	}
	if err := def.Ball.Model.validate("ball.model"); err != nil {
		return err
	}
	if len(def.Hoops) > 0 {
		if err := def.HoopModel.validate("hoop_model"); err != nil {
			return err
		}
	}

	boxes := append([]BoxDef{def.Ground}, def.Walls...)
	boxes = append(boxes, def.Blockers...)
	for _, b := range boxes {
		for _, h := range b.HalfExtents {
			if h <= 0 {
				return fmt.Errorf("%w: box %q needs positive half extents", ErrInvalidScene, b.Name)
			}
		}
	}
	return nil
}

func (m ModelDef) validate(field string) error {
	if m.Path != "" {
		return nil
	}
	switch m.Procedural {
	case "sphere", "ring":
	default:
		return fmt.Errorf("%w: %s needs a path or a procedural shape, got %q", ErrInvalidScene, field, m.Procedural)
	}
	if m.Size <= 0 || m.Size > 127 {
		return fmt.Errorf("%w: %s size must be in 1..127, got %d", ErrInvalidScene, field, m.Size)
	}
	return nil
}

// Source turns the definition into something the AssetServer can load.
func (m ModelDef) Source(name string) ModelSource {
	src := ModelSource{Name: name, Path: m.Path, VoxelSize: m.VoxelSize}
	if m.Path == "" {
		size := m.Size
		switch m.Procedural {
		case "sphere":
			src.Procedural = func() VoxModel { return SphereVoxModel(size, 1) }
		case "ring":
			src.Procedural = func() VoxModel { return RingVoxModel(size, size-1, 1) }
		}
	}
	return src
}

func vec3(v [3]float32) mgl32.Vec3 {
	return mgl32.Vec3(v)
}
