package ecs

import "iter"

const storeBlockSize = 64

// blockStore keeps components of one type in fixed-size blocks. Deleted slots
// are zeroed and recycled LIFO through a free list, so an index freed by
// Delete is the next one Append hands out. Pointers returned by Get stay valid
// until Compact moves the data.
type blockStore[T any] struct {
	blocks   [][storeBlockSize]T
	occupied [][storeBlockSize]bool
	freeList []int
	high     int // one past the highest index ever handed out
}

func storeSlot(index int) (block, slot int) {
	return index / storeBlockSize, index % storeBlockSize
}

// Append stores item and returns its index. item may be T or *T.
func (bs *blockStore[T]) Append(item any) int {
	var value T
	switch v := item.(type) {
	case T:
		value = v
	case *T:
		value = *v
	default:
		return -1
	}

	index := bs.high
	if n := len(bs.freeList); n > 0 {
		index = bs.freeList[n-1]
		bs.freeList = bs.freeList[:n-1]
	} else {
		bs.high++
	}

	block, slot := storeSlot(index)
	for block >= len(bs.blocks) {
		bs.blocks = append(bs.blocks, [storeBlockSize]T{})
		bs.occupied = append(bs.occupied, [storeBlockSize]bool{})
	}

	bs.blocks[block][slot] = value
	bs.occupied[block][slot] = true
	return index
}

// Get returns a pointer to the component at index, or nil for empty slots.
func (bs *blockStore[T]) Get(index int) any {
	if index < 0 {
		return nil
	}
	block, slot := storeSlot(index)
	if block >= len(bs.blocks) || !bs.occupied[block][slot] {
		return nil
	}
	return &bs.blocks[block][slot]
}

// Delete zeroes the slot at index and recycles it.
func (bs *blockStore[T]) Delete(index int) {
	if index < 0 {
		return
	}
	block, slot := storeSlot(index)
	if block >= len(bs.blocks) || !bs.occupied[block][slot] {
		return
	}
	var zero T
	bs.blocks[block][slot] = zero
	bs.occupied[block][slot] = false
	bs.freeList = append(bs.freeList, index)
}

// Has reports whether a live component sits at index.
func (bs *blockStore[T]) Has(index int) bool {
	if index < 0 {
		return false
	}
	block, slot := storeSlot(index)
	return block < len(bs.blocks) && bs.occupied[block][slot]
}

// Compact rewrites the store without holes and returns the old-to-new index
// mapping for every surviving component.
func (bs *blockStore[T]) Compact() map[int]int {
	moved := make(map[int]int)

	liveCount := bs.high - len(bs.freeList)
	if liveCount <= 0 {
		bs.blocks = make([][storeBlockSize]T, 1)
		bs.occupied = make([][storeBlockSize]bool, 1)
		bs.freeList = nil
		bs.high = 0
		return moved
	}

	blockCount := (liveCount + storeBlockSize - 1) / storeBlockSize
	blocks := make([][storeBlockSize]T, blockCount)
	occupied := make([][storeBlockSize]bool, blockCount)

	next := 0
	for index := 0; index < bs.high; index++ {
		block, slot := storeSlot(index)
		if !bs.occupied[block][slot] {
			continue
		}

		dstBlock, dstSlot := storeSlot(next)
		blocks[dstBlock][dstSlot] = bs.blocks[block][slot]
		occupied[dstBlock][dstSlot] = true
		moved[index] = next
		next++
	}

	bs.blocks = blocks
	bs.occupied = occupied
	bs.freeList = nil
	bs.high = next
	return moved
}

// Iter yields the index of every live component in ascending order.
func (bs *blockStore[T]) Iter() iter.Seq[int] {
	return func(yield func(int) bool) {
		for index := 0; index < bs.high; index++ {
			block, slot := storeSlot(index)
			if block >= len(bs.occupied) || !bs.occupied[block][slot] {
				continue
			}
			if !yield(index) {
				return
			}
		}
	}
}
