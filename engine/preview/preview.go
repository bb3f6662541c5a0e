// Package preview prints tile rasters as text, one character per cell.
package preview

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/term"

	"github.com/memmaker/tilemapatlas/engine/tilemap"
)

const glyphs = "123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

// Options clips the output. Zero means unlimited.
type Options struct {
	MaxColumns int
	MaxRows    int
}

// TerminalOptions fits the preview to the terminal behind fd, or returns no limits when fd is
// not a terminal.
func TerminalOptions(fd int) Options {
	if !term.IsTerminal(fd) {
		return Options{}
	}
	width, height, err := term.GetSize(fd)
	if err != nil {
		return Options{}
	}
	return fitTerminal(width, height)
}

// fitTerminal keeps one line for the clip note but always shows at least one row and column,
// zero would mean unlimited.
func fitTerminal(width, height int) Options {
	rows := height - 1
	if rows < 1 {
		rows = 1
	}
	if width < 1 {
		width = 1
	}
	return Options{MaxColumns: width, MaxRows: rows}
}

// Glyph is '.' for empty cells, then 1-9, a-z, A-Z by tile kind and '#' for larger kinds.
func Glyph(c tilemap.Color3B) rune {
	if !c.Occupied() {
		return '.'
	}
	if int(c.R) <= len(glyphs) {
		return rune(glyphs[c.R-1])
	}
	return '#'
}

// Render writes the raster top row first, matching the on screen orientation of the map.
func Render(w io.Writer, r *tilemap.Raster, opts Options) error {
	columns := r.Width
	if opts.MaxColumns > 0 && columns > opts.MaxColumns {
		columns = opts.MaxColumns
	}
	rows := r.Height
	if opts.MaxRows > 0 && rows > opts.MaxRows {
		rows = opts.MaxRows
	}

	bw := bufio.NewWriter(w)
	line := make([]rune, columns)
	for i := 0; i < rows; i++ {
		y := r.Height - 1 - i
		for x := 0; x < columns; x++ {
			line[x] = Glyph(r.At(x, y))
		}
		if _, err := fmt.Fprintln(bw, string(line)); err != nil {
			return err
		}
	}
	if columns < r.Width || rows < r.Height {
		if _, err := fmt.Fprintf(bw, "(clipped to %dx%d of %dx%d)\n", columns, rows, r.Width, r.Height); err != nil {
			return err
		}
	}
	return bw.Flush()
}
