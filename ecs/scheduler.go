package ecs

import (
	"context"
	"reflect"
	"time"
)

// Stage splits a frame around the render call.
type Stage int

const (
	StageBeforeRender Stage = iota
	StageAfterRender
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageBeforeRender:
		return "before-render"
	case StageAfterRender:
		return "after-render"
	default:
		return "unknown"
	}
}

// SchedulerStats provides statistics about scheduler execution.
type SchedulerStats struct {
	SystemCount     int
	Frames          uint64
	TotalExecutions int64
	Systems         []SystemStats
}

// SystemStats provides execution statistics for a single system.
type SystemStats struct {
	Name           string
	Stage          Stage
	ExecutionCount int64
	MinDuration    time.Duration
	MaxDuration    time.Duration
	AvgDuration    time.Duration
	LastDuration   time.Duration
	TotalDuration  time.Duration
}

type storageBinder interface {
	Init(storage *Storage)
}

type executor interface {
	Execute()
}

type entry struct {
	system  System
	name    string
	queries []executor

	executions int64
	min, max   time.Duration
	last       time.Duration
	total      time.Duration
}

func (e *entry) record(d time.Duration) {
	if e.executions == 0 || d < e.min {
		e.min = d
	}
	if d > e.max {
		e.max = d
	}
	e.executions++
	e.last = d
	e.total += d
}

// Scheduler runs registered systems in registration order, stage by stage.
type Scheduler struct {
	storage *Storage
	stages  [stageCount][]*entry
	frames  uint64
}

// NewScheduler creates a scheduler for storage.
func NewScheduler(storage *Storage) *Scheduler {
	return &Scheduler{storage: storage}
}

// Register adds system to the before-render stage.
func (s *Scheduler) Register(system System) {
	s.RegisterStage(StageBeforeRender, system)
}

// RegisterStage adds system to stage and binds its Query and Singleton
// fields to the scheduler's storage.
func (s *Scheduler) RegisterStage(stage Stage, system System) {
	if stage < 0 || stage >= stageCount {
		panic("invalid stage " + stage.String())
	}
	e := &entry{
		system:  system,
		name:    systemName(system),
		queries: s.bind(system),
	}
	s.stages[stage] = append(s.stages[stage], e)
}

func (s *Scheduler) bind(system System) []executor {
	v := reflect.ValueOf(system)
	if v.Kind() == reflect.Pointer {
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return nil
	}

	var queries []executor
	for i := range v.NumField() {
		field := v.Field(i)
		if field.Kind() != reflect.Struct || !field.CanSet() {
			continue
		}
		ptr := field.Addr().Interface()
		if b, ok := ptr.(storageBinder); ok {
			b.Init(s.storage)
		}
		if q, ok := ptr.(executor); ok {
			queries = append(queries, q)
		}
	}
	return queries
}

func systemName(system System) string {
	if n, ok := system.(interface{ Name() string }); ok {
		return n.Name()
	}
	t := reflect.TypeOf(system)
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.Name()
}

func (s *Scheduler) runStage(stage Stage, frame *UpdateFrame) {
	frame.Stage = stage
	for _, e := range s.stages[stage] {
		for _, q := range e.queries {
			q.Execute()
		}
		start := time.Now()
		e.system.Execute(frame)
		e.record(time.Since(start))
	}
}

// Once runs every stage with no render step.
func (s *Scheduler) Once(dt float64) {
	s.Step(dt, nil)
}

// Step runs one frame: before-render systems, render (if not nil),
// after-render systems, then the frame's command buffer is flushed.
func (s *Scheduler) Step(dt float64, render func(frame *UpdateFrame)) {
	frame := newUpdateFrame(s.frames, dt, s.storage)

	s.runStage(StageBeforeRender, frame)
	if render != nil {
		render(frame)
	}
	s.runStage(StageAfterRender, frame)

	frame.Commands.Flush(s.storage)
	s.frames++
}

// Run steps the scheduler at the given interval until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			dt := now.Sub(last).Seconds()
			last = now
			s.Once(dt)
		}
	}
}

// Frames returns the number of completed steps.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// GetStats returns per-system timings, before-render systems first.
func (s *Scheduler) GetStats() *SchedulerStats {
	stats := &SchedulerStats{Frames: s.frames}
	for stage, entries := range s.stages {
		for _, e := range entries {
			var avg time.Duration
			if e.executions > 0 {
				avg = e.total / time.Duration(e.executions)
			}
			stats.Systems = append(stats.Systems, SystemStats{
				Name:           e.name,
				Stage:          Stage(stage),
				ExecutionCount: e.executions,
				MinDuration:    e.min,
				MaxDuration:    e.max,
				AvgDuration:    avg,
				LastDuration:   e.last,
				TotalDuration:  e.total,
			})
			stats.TotalExecutions += e.executions
		}
	}
	stats.SystemCount = len(stats.Systems)
	return stats
}
