package tilemap

import "github.com/pkg/errors"

// CountOccupied visits every cell once, x outer and y inner, and counts cells with a non-zero
// red channel.
func CountOccupied(r *Raster) int {
	if !r.Loaded() {
		panic(errors.New("tilemap: raster must be loaded before counting tiles"))
	}
	count := 0
	for x := 0; x < r.Width; x++ {
		for y := 0; y < r.Height; y++ {
			if r.Pixels[x+y*r.Width].Occupied() {
				count++
			}
		}
	}
	return count
}

const noSlot = -1

// PositionIndex maps grid positions to quad slots. One int32 per cell, noSlot for cells that
// had no tile when the index was built.
type PositionIndex struct {
	width  int
	height int
	slots  []int32
	count  int
}

func NewPositionIndex(width, height int) *PositionIndex {
	slots := make([]int32, width*height)
	for i := range slots {
		slots[i] = noSlot
	}
	return &PositionIndex{width: width, height: height, slots: slots}
}

func (p *PositionIndex) key(x, y int) int {
	if x < 0 || y < 0 || x >= p.width || y >= p.height {
		panic(errors.Errorf("position index: (%d,%d) outside %dx%d", x, y, p.width, p.height))
	}
	return x + y*p.width
}

// Assign stores slot for (x, y). Every position and every slot may be assigned once.
func (p *PositionIndex) Assign(x, y, slot int) {
	k := p.key(x, y)
	if p.slots[k] != noSlot {
		panic(errors.Errorf("position index: (%d,%d) already has slot %d", x, y, p.slots[k]))
	}
	if slot != p.count {
		panic(errors.Errorf("position index: slot %d assigned out of order, next is %d", slot, p.count))
	}
	p.slots[k] = int32(slot)
	p.count++
}

// Lookup returns the slot of (x, y), false if no tile was there at build time.
func (p *PositionIndex) Lookup(x, y int) (int, bool) {
	slot := p.slots[p.key(x, y)]
	if slot == noSlot {
		return 0, false
	}
	return int(slot), true
}

func (p *PositionIndex) MustLookup(x, y int) int {
	slot, ok := p.Lookup(x, y)
	if !ok {
		panic(errors.Errorf("position index: no tile at (%d,%d)", x, y))
	}
	return slot
}

// Len is the number of assigned slots.
func (p *PositionIndex) Len() int {
	return p.count
}

func (p *PositionIndex) Size() (int, int) {
	return p.width, p.height
}

// Positions returns the grid position of every slot, ordered by slot.
func (p *PositionIndex) Positions() [][2]int {
	positions := make([][2]int, p.count)
	for k, slot := range p.slots {
		if slot == noSlot {
			continue
		}
		positions[slot] = [2]int{k % p.width, k / p.width}
	}
	return positions
}
