package ecs_test

import "github.com/plus3/stagekit/ecs"

type Position struct {
	X, Y, Z float32
}

type Velocity struct {
	DX, DY, DZ float32
}

type Label struct {
	Value string
}

type Intensity float32

type Spinning struct{}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Intensity](registry)
	ecs.RegisterComponent[Spinning](registry)
	return registry
}
