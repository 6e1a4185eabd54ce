package display

import "github.com/gdamore/tcell/v2"

// Screen adapts a tcell.Screen to the Surface interface so the simulation can
// render straight to the terminal. Combining runes are never emitted.
type Screen struct {
	screen tcell.Screen
	style  tcell.Style
}

// NewScreen wraps a tcell screen for surface-style access.
func NewScreen(screen tcell.Screen) *Screen {
	return &Screen{
		screen: screen,
		style:  tcell.StyleDefault,
	}
}

// Set writes a rune to the underlying screen. tcell performs its own bounds
// clipping, so no check is needed here.
func (s *Screen) Set(x, y int, ch rune) {
	s.screen.SetContent(x, y, ch, nil, s.style)
}

// Bounds returns the terminal dimensions.
func (s *Screen) Bounds() (int, int) {
	return s.screen.Size()
}
