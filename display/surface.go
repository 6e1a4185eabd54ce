// Package display provides the write-only 2D character surfaces the
// simulation renders into: an in-memory Buffer and a tcell-backed Screen.
package display

// Surface is a write-only 2D character surface addressable by integer
// position. Writes outside the bounds are discarded.
type Surface interface {
	Set(x, y int, ch rune)
	Bounds() (width, height int)
}
