package gekko

import (
	"reflect"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
)

type WindowState struct {
	windowGlfw   *glfw.Window
	WindowWidth  int
	WindowHeight int
	windowTitle  string
}

func createWindowState(windowWidth int, windowHeight int, windowTitle string) *WindowState {
	runtime.LockOSThread()
	if err := glfw.Init(); err != nil {
		panic(err)
	}

	glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI) // the surface comes from wgpu, not OpenGL
	glfw.WindowHint(glfw.Resizable, glfw.True)

	win, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		panic(err)
	}

	return &WindowState{
		windowGlfw:   win,
		WindowWidth:  windowWidth,
		WindowHeight: windowHeight,
		windowTitle:  windowTitle,
	}
}

// SetStatus appends a status message to the window title.
func (s *WindowState) SetStatus(status string) {
	s.windowGlfw.SetTitle(s.windowTitle + " - " + status)
}

// framebufferSize reports the drawable size and whether it changed since the
// last call.
func (s *WindowState) framebufferSize() (int, int, bool) {
	w, h := s.windowGlfw.GetFramebufferSize()
	changed := w != s.WindowWidth || h != s.WindowHeight
	s.WindowWidth, s.WindowHeight = w, h
	return w, h, changed
}

// PlatformWindowModule ensures a single shared GLFW window (WindowState) is
// created and made available as a resource. Install is idempotent.
type PlatformWindowModule struct {
	Width  int
	Height int
	Title  string
}

// NewPlatformWindow fills in defaults for zero width, height or title.
func NewPlatformWindow(width, height int, title string) *PlatformWindowModule {
	if width <= 0 {
		width = 800
	}
	if height <= 0 {
		height = 800
	}
	if title == "" {
		title = "Gekko Grid"
	}
	return &PlatformWindowModule{
		Width:  width,
		Height: height,
		Title:  title,
	}
}

func (m PlatformWindowModule) Install(app *App, cmd *Commands) {
	if app.hasResource(reflect.TypeOf((*WindowState)(nil)).Elem()) {
		return
	}

	ws := createWindowState(m.Width, m.Height, m.Title)
	cmd.AddResources(ws)
	cmd.OnStop(func() {
		ws.windowGlfw.Destroy()
		glfw.Terminate()
	})
	app.UseSystem(
		System(windowEventsSystem).
			InStage(Prelude),
	)
	app.Logger().Infof("Created window (%dx%d) '%s'", m.Width, m.Height, m.Title)
}

func windowEventsSystem(state *WindowState, cmd *Commands) {
	glfw.PollEvents()
	if state.windowGlfw.ShouldClose() {
		cmd.Stop()
	}
}
