package ecs

import "unsafe"

// eface mirrors the runtime layout of an empty interface. Casting through it
// extracts the data pointer from an any without allocating.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}
