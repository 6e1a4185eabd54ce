package display

import "strings"

// Buffer is an in-memory rune grid with bounds-checked writes. The persistent
// cell slice is reused across Clear calls.
type Buffer struct {
	cells  []rune
	width  int
	height int
}

// NewBuffer creates a buffer with the specified dimensions, filled with spaces.
func NewBuffer(width, height int) *Buffer {
	b := &Buffer{
		cells:  make([]rune, width*height),
		width:  width,
		height: height,
	}
	b.Clear()
	return b
}

// Set writes a rune at the given position. Out-of-bounds writes are dropped.
func (b *Buffer) Set(x, y int, ch rune) {
	if !b.inBounds(x, y) {
		return
	}
	b.cells[y*b.width+x] = ch
}

// Rune returns the rune at the given position, or space if out of bounds.
func (b *Buffer) Rune(x, y int) rune {
	if !b.inBounds(x, y) {
		return ' '
	}
	return b.cells[y*b.width+x]
}

// Bounds returns buffer dimensions.
func (b *Buffer) Bounds() (int, int) {
	return b.width, b.height
}

// Clear resets all cells to spaces.
func (b *Buffer) Clear() {
	if len(b.cells) == 0 {
		return
	}
	b.cells[0] = ' '
	// Exponential copy for cells
	for filled := 1; filled < len(b.cells); filled *= 2 {
		copy(b.cells[filled:], b.cells[:filled])
	}
}

// String renders the buffer as height newline-terminated rows.
func (b *Buffer) String() string {
	var sb strings.Builder
	sb.Grow((b.width + 1) * b.height)
	for y := 0; y < b.height; y++ {
		sb.WriteString(string(b.cells[y*b.width : (y+1)*b.width]))
		sb.WriteByte('\n')
	}
	return sb.String()
}

func (b *Buffer) inBounds(x, y int) bool {
	return x >= 0 && x < b.width && y >= 0 && y < b.height
}
