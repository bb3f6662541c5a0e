package main

import (
	"fmt"

	"github.com/faiface/mainthread"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/memmaker/tilemapatlas/engine/glapp"
	"github.com/memmaker/tilemapatlas/engine/glhf"
	"github.com/memmaker/tilemapatlas/engine/tilemap"
	"github.com/memmaker/tilemapatlas/engine/tilerender"
	"github.com/memmaker/tilemapatlas/engine/util"
)

type viewOptions struct {
	atlasFile  string
	mapFile    string
	tileWidth  int
	tileHeight int
	zoom       int
	config     tilemap.Config
}

type viewer struct {
	*glapp.GlApplication
	tileMap  *tilemap.TileMapAtlas
	renderer *tilerender.Renderer
	timer    *util.Timer
	zoom     float32
	cursorX  float64
	cursorY  float64
}

func view(r *util.Resolver, options viewOptions) error {
	atlasPath, err := r.FullPath(options.atlasFile)
	if err != nil {
		return err
	}
	atlasSize, err := tilemap.LoadTextureSize(r, options.atlasFile)
	if err != nil {
		return err
	}
	if err := tilemap.CheckTileSize(atlasSize, options.tileWidth, options.tileHeight, options.config); err != nil {
		return err
	}
	mapPath, err := r.FullPath(options.mapFile)
	if err != nil {
		return err
	}
	raster, err := tilemap.LoadRaster(mapPath)
	if err != nil {
		return err
	}
	if options.zoom < 1 {
		options.zoom = 1
	}

	mainthread.Call(func() {
		width := raster.Width * options.tileWidth * options.zoom
		height := raster.Height * options.tileHeight * options.zoom
		window, terminate := glapp.InitOpenGL("tilemapatlas", width, height)

		texture := glhf.MustLoadTexture(atlasPath, false)
		shader, shaderErr := tilerender.LoadTileShader(glapp.Get2DPixelCoordProjectionMatrix(width, height))
		if shaderErr != nil {
			terminate()
			err = shaderErr
			return
		}

		v := &viewer{
			GlApplication: &glapp.GlApplication{
				Window:        window,
				Title:         fmt.Sprintf("%s (%dx%d)", options.mapFile, raster.Width, raster.Height),
				TerminateFunc: terminate,
				WindowWidth:   width,
				WindowHeight:  height,
				ClearColor:    mgl32.Vec4{0.1, 0.1, 0.1, 1},
			},
			tileMap:  tilemap.New(texture, raster, options.tileWidth, options.tileHeight, options.config),
			renderer: tilerender.NewRenderer(shader, texture),
			timer:    util.NewTimer(),
			zoom:     float32(options.zoom),
		}
		v.renderer.SetScale(v.zoom)
		v.DrawFunc = v.draw
		v.KeyHandler = v.handleKeyEvents
		v.MousePosHandler = v.handleMousePosEvents
		v.MouseButtonHandler = v.handleMouseButtonEvents
		v.RegisterCallbacks()
		util.LogSystemInfo(fmt.Sprintf("[View] %d tiles, %d per atlas row", v.tileMap.ItemsToRender(), v.tileMap.ItemsPerRow()))
		v.Run()
		util.LogSystemInfo(fmt.Sprintf("[View] %d uploads, frame timings:\n%s", v.renderer.Uploads(), v.timer))
	})
	return err
}

func (v *viewer) draw(elapsed float64) {
	defer v.timer.Start("draw")()
	v.renderer.Draw(v.tileMap.Atlas())
}

func (v *viewer) handleKeyEvents(key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		v.Window.SetShouldClose(true)
	case glfw.KeyO:
		// cycle display opacity in quarter steps
		v.tileMap.SetOpacity(v.tileMap.Opacity() - 64)
	case glfw.KeyC:
		if v.tileMap.Color() == tilemap.White {
			v.tileMap.SetColor(tilemap.Color3B{R: 255, G: 200, B: 120})
		} else {
			v.tileMap.SetColor(tilemap.White)
		}
	}
}

func (v *viewer) handleMousePosEvents(xpos float64, ypos float64) {
	v.cursorX = xpos
	v.cursorY = ypos
}

func (v *viewer) handleMouseButtonEvents(button glfw.MouseButton, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	px, py := glapp.CursorToWorld(v.cursorX, v.cursorY, v.WindowHeight)
	local := mgl32.Vec2{px, py}.Mul(1 / v.zoom)
	x, y, ok := v.tileMap.GridPosition(local.X(), local.Y())
	if !ok {
		return
	}
	current := v.tileMap.TileAt(x, y)
	if !current.Occupied() {
		util.LogTileMapInfo(fmt.Sprintf("[View] (%d,%d) is empty", x, y))
		return
	}
	step := 1
	if button == glfw.MouseButtonRight {
		step = -1
	}
	cells := v.tileMap.ItemsPerRow() * v.tileMap.ItemsPerColumn()
	next := nextKind(int(current.R), step, cells)
	v.tileMap.SetTile(x, y, tilemap.Color3B{R: uint8(next), G: current.G, B: current.B})
}

// nextKind steps through the kinds 1..cells-1 with wrap around, never landing on 0.
func nextKind(kind, step, cells int) int {
	last := cells - 1
	if last > 255 {
		last = 255
	}
	if last < 1 {
		return kind
	}
	next := (kind-1+step)%last + 1
	if next < 1 {
		next += last
	}
	return next
}
