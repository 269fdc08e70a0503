package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/gekko3d/courtside/interact"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/spf13/viper"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds application configuration.
type Config struct {
	Window WindowConfig `mapstructure:"window"`
	Log    LogConfig    `mapstructure:"log"`
	Camera CameraConfig `mapstructure:"camera"`
	Grab   GrabConfig   `mapstructure:"grab"`
	Ball   BallConfig   `mapstructure:"ball"`
	Assets AssetsConfig `mapstructure:"assets"`
	Scene  SceneConfig  `mapstructure:"scene"`
}

type WindowConfig struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
}

type LogConfig struct {
	Debug  bool   `mapstructure:"debug"`
	Prefix string `mapstructure:"prefix"`
}

// CameraConfig overrides the scene's camera when a value is non-zero.
type CameraConfig struct {
	Speed       float32 `mapstructure:"speed"`
	Sensitivity float32 `mapstructure:"sensitivity"`
}

// GrabConfig holds the grab and throw tuning.
type GrabConfig struct {
	HoldOffset      []float32 `mapstructure:"hold_offset"`
	ThrowDirection  []float32 `mapstructure:"throw_direction"`
	ThrowMagnitude  float32   `mapstructure:"throw_magnitude"`
	ThrowMode       string    `mapstructure:"throw_mode"`
	ViewerRelative  bool      `mapstructure:"viewer_relative"`
	MaxGazeDistance float32   `mapstructure:"max_gaze_distance"`
	ThrowKey        string    `mapstructure:"throw_key"`
}

// BallConfig is the body the ball gets back when a throw releases it.
type BallConfig struct {
	Mass        float32 `mapstructure:"mass"`
	Restitution float32 `mapstructure:"restitution"`
	Friction    float32 `mapstructure:"friction"`
}

type AssetsConfig struct {
	AffordanceImage  string  `mapstructure:"affordance_image"`
	AffordanceWidth  float32 `mapstructure:"affordance_width"`
	AffordanceHeight float32 `mapstructure:"affordance_height"`
}

// SceneConfig points at a court file. Empty means the built-in court.
type SceneConfig struct {
	Path string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	t := interact.DefaultTuning()

	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "courtside")
	v.SetDefault("log.debug", false)
	v.SetDefault("log.prefix", "courtside")
	v.SetDefault("camera.speed", 0)
	v.SetDefault("camera.sensitivity", 0)
	v.SetDefault("grab.hold_offset", []float32{t.HoldOffset[0], t.HoldOffset[1], t.HoldOffset[2]})
	v.SetDefault("grab.throw_direction", []float32{t.ThrowDirection[0], t.ThrowDirection[1], t.ThrowDirection[2]})
	v.SetDefault("grab.throw_magnitude", t.ThrowMagnitude)
	v.SetDefault("grab.throw_mode", t.ThrowMode.String())
	v.SetDefault("grab.viewer_relative", t.ViewerRelative)
	v.SetDefault("grab.max_gaze_distance", t.MaxGazeDistance)
	v.SetDefault("grab.throw_key", "r")
	v.SetDefault("ball.mass", t.Body.Mass)
	v.SetDefault("ball.restitution", t.Body.Restitution)
	v.SetDefault("ball.friction", t.Body.Friction)
	v.SetDefault("assets.affordance_image", "")
	v.SetDefault("assets.affordance_width", 0.15)
	v.SetDefault("assets.affordance_height", 0.15)
	v.SetDefault("scene.path", "")
}

// New prepares a viper instance. The file is path when given, then
// COURTSIDE_CONFIG, then ~/.config/courtside/config.toml. Env var overrides
// use prefix COURTSIDE_.
func New(path string) *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("toml")
	if path == "" {
		path = os.Getenv("COURTSIDE_CONFIG")
	}
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "courtside"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("COURTSIDE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Read loads the config file into v. A missing file is only an error when
// one was named explicitly.
func Read(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err == nil {
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("read config: %w", err)
}

// Load reads and decodes configuration from file and env.
func Load(path string) (Config, *viper.Viper, error) {
	v := New(path)
	if err := Read(v); err != nil {
		return Config{}, nil, err
	}
	c, err := Decode(v)
	if err != nil {
		return Config{}, nil, err
	}
	return c, v, nil
}

func Decode(v *viper.Viper) (Config, error) {
	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) Validate() error {
	if len(c.Grab.HoldOffset) != 3 {
		return fmt.Errorf("%w: grab.hold_offset needs 3 components, got %d", ErrInvalidConfig, len(c.Grab.HoldOffset))
	}
	if len(c.Grab.ThrowDirection) != 3 {
		return fmt.Errorf("%w: grab.throw_direction needs 3 components, got %d", ErrInvalidConfig, len(c.Grab.ThrowDirection))
	}
	if c.Grab.ThrowMagnitude < 0 {
		return fmt.Errorf("%w: grab.throw_magnitude must not be negative", ErrInvalidConfig)
	}
	if c.Grab.MaxGazeDistance < 0 {
		return fmt.Errorf("%w: grab.max_gaze_distance must not be negative", ErrInvalidConfig)
	}
	if _, err := interact.ParseThrowMode(c.Grab.ThrowMode); err != nil {
		return fmt.Errorf("%w: grab.throw_mode: %v", ErrInvalidConfig, err)
	}
	if c.Ball.Mass <= 0 {
		return fmt.Errorf("%w: ball.mass must be positive", ErrInvalidConfig)
	}
	if c.Assets.AffordanceWidth <= 0 || c.Assets.AffordanceWidth > 1 ||
		c.Assets.AffordanceHeight <= 0 || c.Assets.AffordanceHeight > 1 {
		return fmt.Errorf("%w: affordance size must be a screen fraction in (0, 1]", ErrInvalidConfig)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size must be positive", ErrInvalidConfig)
	}
	return nil
}

// Tuning converts the grab and ball sections. Call it on a validated Config.
func (c Config) Tuning() interact.Tuning {
	mode, _ := interact.ParseThrowMode(c.Grab.ThrowMode)
	return interact.Tuning{
		HoldOffset:      toVec3(c.Grab.HoldOffset),
		ThrowDirection:  toVec3(c.Grab.ThrowDirection),
		ThrowMagnitude:  c.Grab.ThrowMagnitude,
		ThrowMode:       mode,
		ViewerRelative:  c.Grab.ViewerRelative,
		MaxGazeDistance: c.Grab.MaxGazeDistance,
		Body: interact.BodyParams{
			Mass:        c.Ball.Mass,
			Restitution: c.Ball.Restitution,
			Friction:    c.Ball.Friction,
		},
	}
}

func toVec3(v []float32) mgl32.Vec3 {
	var out mgl32.Vec3
	copy(out[:], v)
	return out
}

// Watch re-decodes the config whenever its file changes and hands the result
// to onChange. onChange runs on viper's watcher goroutine.
func Watch(v *viper.Viper, onChange func(Config, error)) {
	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) && !e.Has(fsnotify.Create) {
			return
		}
		onChange(Decode(v))
	})
	v.WatchConfig()
}
