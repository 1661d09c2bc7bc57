package ecs

// System is one per-frame update step. Systems may declare exported Query and
// Singleton fields; the Scheduler binds them at registration and refreshes
// queries right before each Execute. Any other fields are free-form state that
// persists between frames.
type System interface {
	Execute(frame *UpdateFrame)
}

// SystemFunc adapts a plain function to System.
type SystemFunc func(frame *UpdateFrame)

func (f SystemFunc) Execute(frame *UpdateFrame) { f(frame) }

type namedSystem struct {
	name string
	fn   func(*UpdateFrame)
}

func (n namedSystem) Execute(frame *UpdateFrame) { n.fn(frame) }
func (n namedSystem) Name() string               { return n.name }

// Named wraps fn as a System that reports name in scheduler stats.
func Named(name string, fn func(*UpdateFrame)) System {
	return namedSystem{name: name, fn: fn}
}
