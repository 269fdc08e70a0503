package courtside

import (
	"strings"
)

const (
	KeyA int = iota
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
	KeyG
	KeyH
	KeyI
	KeyJ
	KeyK
	KeyL
	KeyM
	KeyN
	KeyO
	KeyP
	KeyQ
	KeyR
	KeyS
	KeyT
	KeyU
	KeyV
	KeyW
	KeyX
	KeyY
	KeyZ
	KeySpace
	KeyEnter
	KeyEscape
	KeyTab
	KeyShift
	KeyControl
	MouseButtonLeft
	MouseButtonRight
	MouseButtonMiddle

	KeyCount
)

// InputStage sits between Prelude and PreUpdate. Input sources (the window,
// scripted input) write the Input resource there.
var InputStage = Stage{Name: "Input"}

type InputModule struct{}

type Input struct {
	Pressed [KeyCount]bool

	JustPressed  [KeyCount]bool
	JustReleased [KeyCount]bool

	MouseX, MouseY           float64
	MouseDeltaX, MouseDeltaY float64
	MouseCaptured            bool

	WindowWidth, WindowHeight int
}

func (mod InputModule) Install(app *App, cmd *Commands) {
	cmd.AddResources(&Input{})
	app.UseStage(InputStage, AfterStage(Prelude))
	app.UseSystem(
		System(inputFrameSystem).
			InStage(Prelude).
			RunAlways(),
	)
	app.UseSystem(
		System(pointerLockSystem).
			InStage(PreUpdate).
			RunAlways(),
	)
}

// BeginFrame clears the per-frame edges and mouse deltas.
func (input *Input) BeginFrame() {
	input.JustPressed = [KeyCount]bool{}
	input.JustReleased = [KeyCount]bool{}
	input.MouseDeltaX = 0
	input.MouseDeltaY = 0
}

// SetKey records the current level of key and derives its edges.
func (input *Input) SetKey(key int, down bool) {
	if key < 0 || key >= KeyCount {
		return
	}
	if down {
		if !input.Pressed[key] {
			input.JustPressed[key] = true
		}
	} else if input.Pressed[key] {
		input.JustReleased[key] = true
	}
	input.Pressed[key] = down
}

func (input *Input) Press(key int)   { input.SetKey(key, true) }
func (input *Input) Release(key int) { input.SetKey(key, false) }

// MoveMouse moves the cursor to (x, y). Deltas are only reported while the
// pointer is captured.
func (input *Input) MoveMouse(x, y float64) {
	if input.MouseCaptured {
		input.MouseDeltaX += x - input.MouseX
		input.MouseDeltaY += y - input.MouseY
	}
	input.MouseX = x
	input.MouseY = y
}

var keyNames = map[string]int{
	"a": KeyA, "b": KeyB, "c": KeyC, "d": KeyD, "e": KeyE, "f": KeyF, "g": KeyG,
	"h": KeyH, "i": KeyI, "j": KeyJ, "k": KeyK, "l": KeyL, "m": KeyM, "n": KeyN,
	"o": KeyO, "p": KeyP, "q": KeyQ, "r": KeyR, "s": KeyS, "t": KeyT, "u": KeyU,
	"v": KeyV, "w": KeyW, "x": KeyX, "y": KeyY, "z": KeyZ,
	"space":        KeySpace,
	"enter":        KeyEnter,
	"escape":       KeyEscape,
	"tab":          KeyTab,
	"shift":        KeyShift,
	"control":      KeyControl,
	"mouse_left":   MouseButtonLeft,
	"mouse_right":  MouseButtonRight,
	"mouse_middle": MouseButtonMiddle,
}

// KeyByName resolves a config key name such as "r" or "mouse_right".
func KeyByName(name string) (int, bool) {
	key, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return key, ok
}

func inputFrameSystem(input *Input) {
	input.BeginFrame()
}

// pointerLockSystem captures the pointer on left click and releases it on
// middle click. Escape releases a captured pointer, or quits when it is free.
func pointerLockSystem(input *Input, cmd *Commands) {
	switch {
	case input.JustPressed[MouseButtonLeft] && !input.MouseCaptured:
		input.MouseCaptured = true
		cmd.Logger().Debugf("input: pointer locked")
	case input.JustPressed[MouseButtonMiddle] && input.MouseCaptured:
		input.MouseCaptured = false
		cmd.Logger().Debugf("input: pointer released")
	case input.JustPressed[KeyEscape]:
		if input.MouseCaptured {
			input.MouseCaptured = false
			return
		}
		cmd.Exit()
	}
}
