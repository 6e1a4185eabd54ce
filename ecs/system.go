package ecs

// System is one stage of the pipeline. The scheduler prepares any Query and
// Singleton fields before each Execute and flushes the frame's command buffer
// right after it, so a system sees a stable snapshot and its structural
// changes land before the next stage runs.
type System interface {
	Execute(frame *UpdateFrame)
}

// UpdateFrame carries the per-invocation context handed to a System.
type UpdateFrame struct {
	DeltaTime float64
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		DeltaTime: dt,
		Commands:  newCommands(storage),
		Storage:   storage,
	}
}
