package preview

import (
	"bufio"
	"fmt"
	"io"
	"sort"

	"github.com/memmaker/tilemapatlas/engine/tilemap"
)

// Summary lists grid size, tile count and the number of cells per tile kind.
func Summary(w io.Writer, r *tilemap.Raster) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "grid:  %dx%d\n", r.Width, r.Height)
	fmt.Fprintf(bw, "tiles: %d\n", tilemap.CountOccupied(r))
	counts := r.Kinds()
	for _, kind := range sortedKinds(counts) {
		fmt.Fprintf(bw, "  kind %3d: %d\n", kind, counts[uint8(kind)])
	}
	return bw.Flush()
}

// AtlasSummary reports how the map's kinds fall onto the atlas texture. Kinds past the last
// atlas cell would sample outside the texture.
func AtlasSummary(w io.Writer, m *tilemap.TileMapAtlas) error {
	bw := bufio.NewWriter(w)
	texture := m.Atlas().Texture()
	width, height := m.ContentSize()
	fmt.Fprintf(bw, "atlas: %dx%d px, %d per row, %d per column, uv %s\n", texture.Width(), texture.Height(), m.ItemsPerRow(), m.ItemsPerColumn(), m.Config().UVMode)
	fmt.Fprintf(bw, "size:  %.0fx%.0f points\n", width, height)
	cells := m.ItemsPerRow() * m.ItemsPerColumn()
	for _, kind := range sortedKinds(m.Raster().Kinds()) {
		if kind >= cells {
			fmt.Fprintf(bw, "warning: kind %d lies outside the %d atlas cells\n", kind, cells)
		}
	}
	return bw.Flush()
}

func sortedKinds(counts map[uint8]int) []int {
	kinds := make([]int, 0, len(counts))
	for kind := range counts {
		kinds = append(kinds, int(kind))
	}
	sort.Ints(kinds)
	return kinds
}
