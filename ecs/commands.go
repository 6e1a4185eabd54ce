package ecs

import "reflect"

// Commands provides a buffer for deferred ECS operations that are executed after
// the originating system finishes. This prevents structural changes to the ECS
// storage during query iteration.
//
// Operations are kept in a single FIFO log and replayed in queue order. Ops that
// target an existing entity capture an EntityRef at queue time, so a target that
// is moved between archetypes by an earlier op in the same batch is still found,
// and a target destroyed by an earlier op resolves invalid and the op becomes a
// silent no-op.
type Commands struct {
	storage *Storage
	ops     []command
}

func newCommands(storage *Storage) *Commands {
	return &Commands{storage: storage}
}

type opKind uint8

const (
	opSpawn opKind = iota
	opDelete
	opAdd
	opAddMany
	opRemove
	opSet
	opDefer
)

type command struct {
	kind       opKind
	target     *EntityRef
	components []any
	compType   reflect.Type
	fn         func()
}

// Spawn queues an entity spawn operation with the given components.
func (c *Commands) Spawn(components ...any) {
	c.ops = append(c.ops, command{kind: opSpawn, components: components})
}

// Delete queues an entity deletion operation.
func (c *Commands) Delete(entity EntityId) {
	c.ops = append(c.ops, command{kind: opDelete, target: c.storage.CreateEntityRef(entity)})
}

// AddComponent queues a component addition operation.
func (c *Commands) AddComponent(entity EntityId, component any) {
	c.ops = append(c.ops, command{
		kind:       opAdd,
		target:     c.storage.CreateEntityRef(entity),
		components: []any{component},
	})
}

// AddComponents queues the addition of several components in a single
// structural move.
func (c *Commands) AddComponents(entity EntityId, components ...any) {
	c.ops = append(c.ops, command{
		kind:       opAddMany,
		target:     c.storage.CreateEntityRef(entity),
		components: components,
	})
}

// RemoveComponent queues a component removal operation.
func (c *Commands) RemoveComponent(entity EntityId, compType reflect.Type) {
	c.ops = append(c.ops, command{
		kind:     opRemove,
		target:   c.storage.CreateEntityRef(entity),
		compType: compType,
	})
}

// Set queues an in-place component value overwrite. The entity must already
// have a component of the same type; no archetype move occurs.
func (c *Commands) Set(entity EntityId, component any) {
	c.ops = append(c.ops, command{
		kind:       opSet,
		target:     c.storage.CreateEntityRef(entity),
		components: []any{component},
	})
}

// Defer queues a function execution operation.
func (c *Commands) Defer(fn func()) {
	c.ops = append(c.ops, command{kind: opDefer, fn: fn})
}

// Flush replays all queued operations against the provided storage in FIFO
// order, then resets the buffer for reuse.
func (c *Commands) Flush(storage *Storage) {
	for _, cmd := range c.ops {
		switch cmd.kind {
		case opSpawn:
			storage.Spawn(cmd.components...)
		case opDefer:
			cmd.fn()
		default:
			id, ok := storage.ResolveEntityRef(cmd.target)
			if !ok {
				// Target was destroyed earlier in this batch (or before it).
				continue
			}
			switch cmd.kind {
			case opDelete:
				storage.Delete(id)
			case opAdd:
				storage.AddComponent(id, cmd.components[0])
			case opAddMany:
				storage.AddComponents(id, cmd.components...)
			case opRemove:
				storage.RemoveComponent(id, cmd.compType)
			case opSet:
				storage.SetComponent(id, cmd.components[0])
			}
		}
	}

	c.ops = c.ops[:0]
}
