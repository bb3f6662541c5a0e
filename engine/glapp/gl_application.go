// Package glapp opens a glfw window with an OpenGL 3.3 core context and runs the frame loop.
package glapp

import (
	"fmt"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/memmaker/tilemapatlas/engine/glhf"
	"github.com/memmaker/tilemapatlas/engine/util"
)

// GlApplication forwards window input to the handler fields and calls DrawFunc once per frame.
// Nil handlers are skipped.
type GlApplication struct {
	Window        *glfw.Window
	Title         string
	TerminateFunc func()
	WindowWidth   int
	WindowHeight  int
	ClearColor    mgl32.Vec4

	DrawFunc           func(elapsed float64)
	KeyHandler         func(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey)
	MousePosHandler    func(xpos float64, ypos float64)
	MouseButtonHandler func(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey)

	FramesPerSecond float64
}

// RegisterCallbacks routes the window's input events to the handler fields.
func (a *GlApplication) RegisterCallbacks() {
	a.Window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		if a.KeyHandler != nil {
			a.KeyHandler(key, scancode, action, mods)
		}
	})
	a.Window.SetCursorPosCallback(func(w *glfw.Window, xpos float64, ypos float64) {
		if a.MousePosHandler != nil {
			a.MousePosHandler(xpos, ypos)
		}
	})
	a.Window.SetMouseButtonCallback(func(w *glfw.Window, button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
		if a.MouseButtonHandler != nil {
			a.MouseButtonHandler(button, action, mods)
		}
	})
}

// Run loops until the window is closed, then calls TerminateFunc. The title shows the frame
// rate of the last second.
func (a *GlApplication) Run() {
	defer a.TerminateFunc()
	a.Window.SetTitle(a.Title)

	previous := glfw.GetTime()
	secondStart := previous
	frames := 0
	for !a.Window.ShouldClose() {
		now := glfw.GetTime()
		elapsed := now - previous
		previous = now

		glhf.Clear(a.ClearColor.X(), a.ClearColor.Y(), a.ClearColor.Z(), a.ClearColor.W())
		if a.DrawFunc != nil {
			a.DrawFunc(elapsed)
		}

		frames++
		if now-secondStart >= 1 {
			a.FramesPerSecond = float64(frames) / (now - secondStart)
			a.Window.SetTitle(fmt.Sprintf("%s - FPS: %.0f", a.Title, a.FramesPerSecond))
			secondStart = now
			frames = 0
		}

		a.Window.SwapBuffers()
		glfw.PollEvents()
	}
}

// InitOpenGL creates a fixed size window with a current 3.3 core context. Quads are drawn
// without depth test or face culling. The returned func terminates glfw.
func InitOpenGL(title string, width, height int) (*glfw.Window, func()) {
	if err := glfw.Init(); err != nil {
		util.LogGlError("glfw: " + err.Error())
		panic(err)
	}
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.False)

	win, err := glfw.CreateWindow(width, height, title, nil, nil)
	if err != nil {
		util.LogGlError("glfw: " + err.Error())
		glfw.Terminate()
		panic(err)
	}
	win.MakeContextCurrent()
	glfw.SwapInterval(1)

	glhf.Init()
	util.LogGlInfo("OpenGL version " + gl.GoStr(gl.GetString(gl.VERSION)))

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	return win, glfw.Terminate
}

// Get2DPixelCoordProjectionMatrix maps window pixels with 0,0 at the bottom left, y up.
func Get2DPixelCoordProjectionMatrix(width, height int) mgl32.Mat4 {
	return mgl32.Ortho2D(0, float32(width), 0, float32(height))
}

// CursorToWorld converts a glfw cursor position (origin top left) into the y up pixel space.
func CursorToWorld(xpos, ypos float64, windowHeight int) (float32, float32) {
	return float32(xpos), float32(float64(windowHeight) - ypos)
}
