package ecs

// UpdateFrame is passed to every system during one scheduler step.
type UpdateFrame struct {
	// Number counts completed steps, starting at zero.
	Number    uint64
	DeltaTime float64
	Stage     Stage
	Commands  *Commands
	Storage   *Storage
}

func newUpdateFrame(number uint64, dt float64, storage *Storage) *UpdateFrame {
	return &UpdateFrame{
		Number:    number,
		DeltaTime: dt,
		Commands:  newCommands(),
		Storage:   storage,
	}
}
