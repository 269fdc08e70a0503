// Package platform connects the app to a desktop window through GLFW. The
// window is an input surface: it feeds keys, buttons and the cursor into
// courtside.Input and mirrors the grab state in its title.
package platform

import (
	"fmt"

	"github.com/gekko3d/courtside"
	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	win   *glfw.Window
	title string

	captured  bool
	lastTitle string
}

// WindowModule opens the window. Width and Height default to 1280x720.
type WindowModule struct {
	Width  int
	Height int
	Title  string
}

func (m WindowModule) Install(app *courtside.App, cmd *courtside.Commands) {
	if _, ok := courtside.Resource[WindowState](app); ok {
		return
	}
	ws, err := openWindow(m)
	if err != nil {
		panic(err)
	}
	cmd.AddResources(ws)

	app.UseStage(courtside.InputStage, courtside.AfterStage(courtside.Prelude))
	app.UseSystem(
		courtside.System(windowInputSystem).
			InStage(courtside.InputStage).
			RunAlways(),
	)
	app.UseSystem(
		courtside.System(windowTitleSystem).
			InStage(courtside.PostRender).
			RunAlways(),
	)
	app.UseSystem(
		courtside.System(windowCloseSystem).
			InStage(courtside.Finale).
			RunAlways(),
	)
}

func openWindow(m WindowModule) (*WindowState, error) {
	if m.Width <= 0 {
		m.Width = 1280
	}
	if m.Height <= 0 {
		m.Height = 720
	}
	if m.Title == "" {
		m.Title = "courtside"
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("initializing glfw: %w", err)
	}
	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(m.Width, m.Height, m.Title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("creating window: %w", err)
	}
	return &WindowState{win: win, title: m.Title}, nil
}

// Close destroys the window and shuts GLFW down.
func (ws *WindowState) Close() {
	if ws.win == nil {
		return
	}
	ws.win.Destroy()
	ws.win = nil
	glfw.Terminate()
}

func windowInputSystem(ws *WindowState, input *courtside.Input) {
	if ws.win == nil {
		return
	}
	glfw.PollEvents()

	for key, glfwKey := range keyToGlfw {
		input.SetKey(key, ws.win.GetKey(glfwKey) == glfw.Press)
	}
	for btn, glfwBtn := range buttonToGlfw {
		input.SetKey(btn, ws.win.GetMouseButton(glfwBtn) == glfw.Press)
	}

	input.MoveMouse(ws.win.GetCursorPos())
	input.WindowWidth, input.WindowHeight = ws.win.GetSize()

	if input.MouseCaptured != ws.captured {
		ws.captured = input.MouseCaptured
		if ws.captured {
			ws.win.SetInputMode(glfw.CursorMode, glfw.CursorDisabled)
		} else {
			ws.win.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
		}
	}
}

// windowTitleSystem shows the grab state and the affordance, since nothing
// is drawn into the window.
func windowTitleSystem(ws *WindowState, a *courtside.Affordance, g *courtside.GrabState) {
	if ws.win == nil {
		return
	}
	title := fmt.Sprintf("%s [%s]", ws.title, g.Controller.State())
	if a.Visible {
		title += " (+)"
	}
	if title != ws.lastTitle {
		ws.win.SetTitle(title)
		ws.lastTitle = title
	}
}

func windowCloseSystem(ws *WindowState, cmd *courtside.Commands) {
	if ws.win != nil && ws.win.ShouldClose() {
		cmd.Logger().Infof("window: closed")
		cmd.Exit()
		ws.Close()
	}
}

var buttonToGlfw = map[int]glfw.MouseButton{
	courtside.MouseButtonLeft:   glfw.MouseButtonLeft,
	courtside.MouseButtonRight:  glfw.MouseButtonRight,
	courtside.MouseButtonMiddle: glfw.MouseButtonMiddle,
}

var keyToGlfw = map[int]glfw.Key{
	courtside.KeyA:       glfw.KeyA,
	courtside.KeyB:       glfw.KeyB,
	courtside.KeyC:       glfw.KeyC,
	courtside.KeyD:       glfw.KeyD,
	courtside.KeyE:       glfw.KeyE,
	courtside.KeyF:       glfw.KeyF,
	courtside.KeyG:       glfw.KeyG,
	courtside.KeyH:       glfw.KeyH,
	courtside.KeyI:       glfw.KeyI,
	courtside.KeyJ:       glfw.KeyJ,
	courtside.KeyK:       glfw.KeyK,
	courtside.KeyL:       glfw.KeyL,
	courtside.KeyM:       glfw.KeyM,
	courtside.KeyN:       glfw.KeyN,
	courtside.KeyO:       glfw.KeyO,
	courtside.KeyP:       glfw.KeyP,
	courtside.KeyQ:       glfw.KeyQ,
	courtside.KeyR:       glfw.KeyR,
	courtside.KeyS:       glfw.KeyS,
	courtside.KeyT:       glfw.KeyT,
	courtside.KeyU:       glfw.KeyU,
	courtside.KeyV:       glfw.KeyV,
	courtside.KeyW:       glfw.KeyW,
	courtside.KeyX:       glfw.KeyX,
	courtside.KeyY:       glfw.KeyY,
	courtside.KeyZ:       glfw.KeyZ,
	courtside.KeySpace:   glfw.KeySpace,
	courtside.KeyEnter:   glfw.KeyEnter,
	courtside.KeyEscape:  glfw.KeyEscape,
	courtside.KeyTab:     glfw.KeyTab,
	courtside.KeyShift:   glfw.KeyLeftShift,
	courtside.KeyControl: glfw.KeyLeftControl,
}
