// Package tilemap renders a tile grid stored as a color coded raster through one quad atlas.
//
// Every cell whose red channel is non-zero is a tile; its red value selects the atlas cell.
// The quad buffer holds exactly one quad per tile present when the map was built, and a
// position index remembers which quad belongs to which grid cell so single tiles can be
// changed later without another scan.
//
// A TileMapAtlas is not safe for concurrent use. Rendering must not overlap SetTile.
package tilemap

import (
	"fmt"
	"image"
	"os"

	"github.com/pkg/errors"

	"github.com/memmaker/tilemapatlas/engine/util"
)

type State int

const (
	StateUnloaded State = iota
	StateLoaded
	StateBuilt
	StateReady
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoaded:
		return "loaded"
	case StateBuilt:
		return "built"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

type TileMapAtlas struct {
	config Config
	state  State

	raster        *Raster
	index         *PositionIndex
	atlas         *QuadAtlas
	itemsToRender int

	itemWidth      int
	itemHeight     int
	itemsPerRow    int
	itemsPerColumn int

	color   Color3B
	opacity uint8

	contentWidth  float32
	contentHeight float32
}

// New builds the atlas for raster. The raster must be loaded and the tile size must fit into
// the texture at least once, anything else panics.
func New(texture TextureInfo, raster *Raster, tileWidth, tileHeight int, config Config) *TileMapAtlas {
	t := &TileMapAtlas{
		config:  config,
		color:   White,
		opacity: 255,
	}
	t.load(raster)
	t.initAtlas(texture, tileWidth, tileHeight)
	t.updateAtlasValues()
	t.contentWidth = float32(t.raster.Width * t.itemWidth)
	t.contentHeight = float32(t.raster.Height * t.itemHeight)
	util.LogTileMapDebug(fmt.Sprintf("[TileMap] %dx%d grid, %d tiles, %d per atlas row", raster.Width, raster.Height, t.itemsToRender, t.itemsPerRow))
	return t
}

// NewFromFiles resolves and loads the atlas texture size and the map raster.
func NewFromFiles(resolver *util.Resolver, tileAtlasFile, mapFile string, tileWidth, tileHeight int, config Config) (*TileMapAtlas, error) {
	texture, err := LoadTextureSize(resolver, tileAtlasFile)
	if err != nil {
		return nil, err
	}
	mapPath, err := resolver.FullPath(mapFile)
	if err != nil {
		return nil, errors.Wrap(err, "tilemap: map file")
	}
	raster, err := LoadRaster(mapPath)
	if err != nil {
		return nil, err
	}
	return New(texture, raster, tileWidth, tileHeight, config), nil
}

// MustNewFromFiles is NewFromFiles for assets that have to exist.
func MustNewFromFiles(resolver *util.Resolver, tileAtlasFile, mapFile string, tileWidth, tileHeight int, config Config) *TileMapAtlas {
	t, err := NewFromFiles(resolver, tileAtlasFile, mapFile, tileWidth, tileHeight, config)
	if err != nil {
		util.LogIOError(err.Error())
		panic(err)
	}
	return t
}

// LoadTextureSize reads only the header of an image to learn its pixel size.
func LoadTextureSize(resolver *util.Resolver, filename string) (TextureSize, error) {
	fullPath, err := resolver.FullPath(filename)
	if err != nil {
		return TextureSize{}, errors.Wrap(err, "tilemap: atlas texture")
	}
	file, err := os.Open(fullPath)
	if err != nil {
		return TextureSize{}, errors.Wrapf(err, "tilemap: could not open %s", fullPath)
	}
	defer file.Close()
	cfg, _, err := image.DecodeConfig(file)
	if err != nil {
		return TextureSize{}, errors.Wrapf(err, "tilemap: could not read %s", fullPath)
	}
	return TextureSize{W: cfg.Width, H: cfg.Height}, nil
}

func (t *TileMapAtlas) load(raster *Raster) {
	if !raster.Loaded() {
		panic(errors.New("tilemap: cannot load map raster"))
	}
	t.raster = raster
	t.state = StateLoaded
	t.itemsToRender = CountOccupied(raster)
}

// CheckTileSize reports an error unless at least one tile of the given size in points fits
// into the atlas texture. New panics with the same error.
func CheckTileSize(texture TextureInfo, tileWidth, tileHeight int, config Config) error {
	if tileWidth <= 0 || tileHeight <= 0 {
		return errors.Errorf("tilemap: invalid tile size %dx%d", tileWidth, tileHeight)
	}
	perRow, perColumn := atlasGrid(texture, tileWidth, tileHeight, config)
	if perRow <= 0 || perColumn <= 0 {
		return errors.Errorf("tilemap: tile size %dx%d does not fit atlas texture %dx%d at scale %g", tileWidth, tileHeight, texture.Width(), texture.Height(), config.scale())
	}
	return nil
}

// atlasGrid counts the whole tile cells per atlas row and column, measured in points.
func atlasGrid(texture TextureInfo, tileWidth, tileHeight int, config Config) (int, int) {
	scale := config.scale()
	pointsWide := float32(texture.Width()) / scale
	pointsHigh := float32(texture.Height()) / scale
	return int(pointsWide / float32(tileWidth)), int(pointsHigh / float32(tileHeight))
}

func (t *TileMapAtlas) initAtlas(texture TextureInfo, tileWidth, tileHeight int) {
	if texture == nil {
		panic(errors.New("tilemap: atlas texture must not be nil"))
	}
	if err := CheckTileSize(texture, tileWidth, tileHeight, t.config); err != nil {
		panic(err)
	}
	t.itemWidth = tileWidth
	t.itemHeight = tileHeight
	t.itemsPerRow, t.itemsPerColumn = atlasGrid(texture, tileWidth, tileHeight, t.config)

	t.atlas = NewQuadAtlas(texture, t.itemsToRender)
	t.state = StateBuilt
}

// updateAtlasValues assigns slots in scan order and writes every quad.
func (t *TileMapAtlas) updateAtlasValues() {
	if t.state != StateBuilt {
		panic(errors.Errorf("tilemap: cannot build index in state %s", t.state))
	}
	r := t.raster
	t.index = NewPositionIndex(r.Width, r.Height)
	total := 0
	for x := 0; x < r.Width; x++ {
		for y := 0; y < r.Height; y++ {
			if total >= t.itemsToRender {
				break
			}
			value := r.Pixels[x+y*r.Width]
			if !value.Occupied() {
				continue
			}
			t.updateAtlasValueAt(x, y, value, total)
			t.index.Assign(x, y, total)
			total++
		}
	}
	t.state = StateReady
}

func (t *TileMapAtlas) mustBeReady(op string) {
	if t.state != StateReady {
		panic(errors.Errorf("tilemap: %s needs a ready map, state is %s", op, t.state))
	}
}

// TileAt returns the raster value at (x, y). Out of bounds positions panic.
func (t *TileMapAtlas) TileAt(x, y int) Color3B {
	t.mustBeReady("TileAt")
	return t.raster.At(x, y)
}

// SetTile replaces the tile at (x, y) and rewrites its quad. Empty values and positions that
// had no tile when the map was built are rejected with a warning.
func (t *TileMapAtlas) SetTile(x, y int, value Color3B) bool {
	t.mustBeReady("SetTile")
	if !t.raster.InBounds(x, y) {
		panic(errors.Errorf("tilemap: invalid position (%d,%d) for %dx%d map", x, y, t.raster.Width, t.raster.Height))
	}
	if !value.Occupied() {
		util.LogTileMapWarning(fmt.Sprintf("[TileMap] SetTile(%d,%d): value.r must be non 0", x, y))
		return false
	}
	slot, ok := t.index.Lookup(x, y)
	if !ok {
		util.LogTileMapWarning(fmt.Sprintf("[TileMap] SetTile(%d,%d): no tile at this position", x, y))
		return false
	}
	t.raster.Set(x, y, value)
	t.updateAtlasValueAt(x, y, value, slot)
	return true
}

// AtlasIndexAt returns the quad slot of (x, y).
func (t *TileMapAtlas) AtlasIndexAt(x, y int) (int, bool) {
	t.mustBeReady("AtlasIndexAt")
	return t.index.Lookup(x, y)
}

// ReleaseMap drops the raster and the position index. The quads stay in the atlas.
func (t *TileMapAtlas) ReleaseMap() {
	if t.state == StateUnloaded {
		return
	}
	t.raster = nil
	t.index = nil
	t.state = StateUnloaded
}

// Raster returns the raster the map reads from, nil once released.
func (t *TileMapAtlas) Raster() *Raster {
	return t.raster
}

// SetRaster swaps in an owner managed raster of the same size. Quads are not rebuilt.
func (t *TileMapAtlas) SetRaster(raster *Raster) {
	t.mustBeReady("SetRaster")
	if !raster.Loaded() {
		panic(errors.New("tilemap: raster must be loaded"))
	}
	if raster.Width != t.raster.Width || raster.Height != t.raster.Height {
		panic(errors.Errorf("tilemap: raster is %dx%d, map is %dx%d", raster.Width, raster.Height, t.raster.Width, t.raster.Height))
	}
	t.raster = raster
}

func (t *TileMapAtlas) quadColor() Color4B {
	return displayColor(t.color, t.opacity, t.config.OpacityModifiesRGB)
}

func (t *TileMapAtlas) Color() Color3B {
	return t.color
}

func (t *TileMapAtlas) SetColor(color Color3B) {
	t.color = color
	t.updateColor()
}

func (t *TileMapAtlas) Opacity() uint8 {
	return t.opacity
}

func (t *TileMapAtlas) SetOpacity(opacity uint8) {
	t.opacity = opacity
	t.updateColor()
}

func (t *TileMapAtlas) updateColor() {
	color := t.quadColor()
	quads := t.atlas.Quads()
	for i := range quads {
		quads[i].TL.Color = color
		quads[i].TR.Color = color
		quads[i].BL.Color = color
		quads[i].BR.Color = color
	}
	t.atlas.SetDirty(true)
}

func (t *TileMapAtlas) State() State {
	return t.state
}

func (t *TileMapAtlas) Atlas() *QuadAtlas {
	return t.atlas
}

func (t *TileMapAtlas) Config() Config {
	return t.config
}

// ItemsToRender is the number of tiles found when the map was built.
func (t *TileMapAtlas) ItemsToRender() int {
	return t.itemsToRender
}

func (t *TileMapAtlas) ItemsPerRow() int {
	return t.itemsPerRow
}

func (t *TileMapAtlas) ItemsPerColumn() int {
	return t.itemsPerColumn
}

func (t *TileMapAtlas) TileSize() (int, int) {
	return t.itemWidth, t.itemHeight
}

// ContentSize is the grid size times the tile size.
func (t *TileMapAtlas) ContentSize() (float32, float32) {
	return t.contentWidth, t.contentHeight
}

// GridPosition converts a point in map space into a cell, false outside the map.
func (t *TileMapAtlas) GridPosition(px, py float32) (int, int, bool) {
	if px < 0 || py < 0 || px >= t.contentWidth || py >= t.contentHeight {
		return 0, 0, false
	}
	return int(px) / t.itemWidth, int(py) / t.itemHeight, true
}
