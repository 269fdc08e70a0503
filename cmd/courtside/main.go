package main

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/gekko3d/courtside"
	"github.com/gekko3d/courtside/internal/config"
	"github.com/gekko3d/courtside/platform"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

func init() {
	// GLFW must be driven from the main thread.
	runtime.LockOSThread()
}

type options struct {
	configPath string
	debug      bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:          "courtside",
		Short:        "First-person basketball court: look at the ball, grab it, throw it",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWindowed(cmd, opts)
		},
	}
	addPersistentFlags(root.PersistentFlags(), opts)

	demo := &cobra.Command{
		Use:   "demo",
		Short: "Play one scripted grab and throw without a window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDemo(cmd, opts)
		},
	}
	demo.Flags().Int("throw-frames", 20, "frames to hold the throw key")
	root.AddCommand(demo)

	return root
}

func addPersistentFlags(flags *pflag.FlagSet, opts *options) {
	flags.StringVarP(&opts.configPath, "config", "c", "", "config file (default $HOME/.config/courtside/config.toml)")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
}

// loadConfig reads the config and lets --debug win over the file.
func loadConfig(flags *pflag.FlagSet, opts *options) (config.Config, *viper.Viper, error) {
	v := config.New(opts.configPath)
	if err := v.BindPFlag("log.debug", flags.Lookup("debug")); err != nil {
		return config.Config{}, nil, err
	}
	if err := config.Read(v); err != nil {
		return config.Config{}, nil, err
	}
	cfg, err := config.Decode(v)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, v, nil
}

// loadScene reads the court and applies the camera and ball overrides.
func loadScene(cfg config.Config) (*courtside.SceneDef, error) {
	scene, err := courtside.LoadScene(cfg.Scene.Path)
	if err != nil {
		return nil, err
	}
	if cfg.Camera.Speed > 0 {
		scene.Camera.Speed = cfg.Camera.Speed
	}
	if cfg.Camera.Sensitivity > 0 {
		scene.Camera.Sensitivity = cfg.Camera.Sensitivity
	}
	scene.Ball.Mass = cfg.Ball.Mass
	scene.Ball.Restitution = cfg.Ball.Restitution
	scene.Ball.Friction = cfg.Ball.Friction
	return scene, nil
}

// buildApp assembles the court. input supplies the Input stage: the window
// or a script.
func buildApp(cfg config.Config, scene *courtside.SceneDef, fixed time.Duration, input courtside.Module) (*courtside.App, error) {
	throwKey, ok := courtside.KeyByName(cfg.Grab.ThrowKey)
	if !ok {
		return nil, fmt.Errorf("%w: unknown grab.throw_key %q", config.ErrInvalidConfig, cfg.Grab.ThrowKey)
	}

	app := courtside.NewAppBuilder().
		UseStates(courtside.CourtLoading, courtside.CourtExiting).
		UseModules(
			courtside.LoggingModule{Prefix: cfg.Log.Prefix, Debug: cfg.Log.Debug},
			courtside.TimeModule{Fixed: fixed},
			courtside.InputModule{},
			input,
			courtside.AssetServerModule{},
			courtside.PhysicsModule{},
			courtside.FirstPersonModule{},
			courtside.HierarchyModule{},
			courtside.AffordanceModule{
				ImagePath:      cfg.Assets.AffordanceImage,
				WidthFraction:  cfg.Assets.AffordanceWidth,
				HeightFraction: cfg.Assets.AffordanceHeight,
			},
			courtside.GrabModule{Tuning: cfg.Tuning(), SecondaryKey: throwKey},
			courtside.CourtModule{Scene: scene},
		).
		Build()
	return app, nil
}

func runWindowed(cmd *cobra.Command, opts *options) error {
	cfg, v, err := loadConfig(cmd.Flags(), opts)
	if err != nil {
		return err
	}

	scene, err := loadScene(cfg)
	if err != nil {
		return err
	}

	app, err := buildApp(cfg, scene, 0, platform.WindowModule{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
	})
	if err != nil {
		return err
	}

	grab, _ := courtside.Resource[courtside.GrabState](app)
	logger := app.Logger()
	config.Watch(v, func(c config.Config, err error) {
		if err != nil {
			logger.Warnf("config: keeping previous tuning: %v", err)
			return
		}
		if !grab.PushTuning(c.Tuning()) {
			logger.Warnf("config: tuning update dropped")
		}
	})

	app.Run()
	return nil
}

func runDemo(cmd *cobra.Command, opts *options) error {
	cfg, _, err := loadConfig(cmd.Flags(), opts)
	if err != nil {
		return err
	}
	throwFrames, err := cmd.Flags().GetInt("throw-frames")
	if err != nil {
		return err
	}
	throwKey, _ := courtside.KeyByName(cfg.Grab.ThrowKey)

	scene, err := loadScene(cfg)
	if err != nil {
		return err
	}

	app, err := buildApp(cfg, scene, time.Second/60, courtside.ScriptedInputModule{
		Steps:        courtside.DemoScript(scene.Ball.Name, throwKey, throwFrames),
		ExitWhenDone: true,
	})
	if err != nil {
		return err
	}
	app.Run()

	out := cmd.OutOrStdout()
	grab, _ := courtside.Resource[courtside.GrabState](app)
	for _, tr := range grab.Transitions {
		fmt.Fprintf(out, "frame %5d  %-8s -> %s\n", tr.Frame, tr.From, tr.To)
	}

	runner, _ := courtside.Resource[courtside.ScriptRunner](app)
	if len(runner.TimedOut) > 0 {
		return fmt.Errorf("demo steps timed out: %s", strings.Join(runner.TimedOut, ", "))
	}
	return nil
}
