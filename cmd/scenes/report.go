package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/plus3/stagekit/scene"
)

type Report struct {
	// Configuration
	Scene      string  `yaml:"scene"`
	Requested  int     `yaml:"requested_frames"`
	DeltaTime  float64 `yaml:"dt"`
	TimeScaled bool    `yaml:"time_scaled"`

	// Results
	TotalTime time.Duration  `yaml:"total_time"`
	FrameTime Stats          `yaml:"frame_time"`
	Systems   []SystemRow    `yaml:"systems"`
	Start     scene.Snapshot `yaml:"start"`
	End       scene.Snapshot `yaml:"end"`
	Disposed  scene.Snapshot `yaml:"disposed"`

	MemStatsStart runtime.MemStats `yaml:"-"`
	MemStatsEnd   runtime.MemStats `yaml:"-"`
}

type SystemRow struct {
	Name  string        `yaml:"name"`
	Stage string        `yaml:"stage"`
	Runs  int64         `yaml:"runs"`
	Avg   time.Duration `yaml:"avg"`
	Max   time.Duration `yaml:"max"`
}

type Stats struct {
	Min     time.Duration   `yaml:"min"`
	Max     time.Duration   `yaml:"max"`
	Avg     time.Duration   `yaml:"avg"`
	Samples []time.Duration `yaml:"-"`
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
}

// Movement is how far one entity travelled between the start and end
// snapshots.
type Movement struct {
	Role  string
	Delta [3]float32
}

// Moved lists every entity whose position changed during the run.
func (r *Report) Moved() []Movement {
	var moved []Movement
	for _, end := range r.End.Entities {
		start, ok := r.Start.Entity(end.Role)
		if !ok || start.Position == nil || end.Position == nil {
			continue
		}
		var d [3]float32
		for i := range d {
			d[i] = end.Position[i] - start.Position[i]
		}
		if d != [3]float32{} {
			moved = append(moved, Movement{Role: end.Role, Delta: d})
		}
	}
	return moved
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Scene Simulation Report

## Run
- **Scene:** {{.Scene}}
- **Frames:** {{.End.Frame}} of {{.Requested}} (dt {{.DeltaTime}}s{{if .TimeScaled}}, time scaled{{end}})
- **Held keys:** {{with .End.Held}}{{join .}}{{else}}none{{end}}
- **Total Time:** {{.TotalTime}}
- **Frame Time:** avg {{.FrameTime.Avg}}, min {{.FrameTime.Min}}, max {{.FrameTime.Max}}

## Systems
{{range .Systems}}- {{printf "%-18s" .Name}} {{printf "%-13s" .Stage}} runs {{.Runs}}, avg {{.Avg}}, max {{.Max}}
{{end}}
## Entities at frame {{.End.Frame}}
{{range .End.Entities}}- **{{.Role}}** ({{.Kind}}){{with .Position}} position {{vec3 .}}{{end}}{{with .Rotation}} rotation {{quat .}}{{end}}{{with .Intensity}} intensity {{num .}}{{end}}{{with .Playing}} playing {{.}}{{end}}
{{end}}
{{- with .Moved}}
## Movement
{{range .}}- {{.Role}}: {{vec3 .Delta}}
{{end}}{{end}}
## After dispose
{{range .Disposed.Entities}}{{if .Playing}}- {{.Role}} playing: {{.Playing}}
{{end}}{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end)
`

	fm := template.FuncMap{
		"vec3": func(v any) string {
			switch val := v.(type) {
			case *[3]float32:
				return fmt.Sprintf("(%.3f, %.3f, %.3f)", val[0], val[1], val[2])
			case [3]float32:
				return fmt.Sprintf("(%.3f, %.3f, %.3f)", val[0], val[1], val[2])
			default:
				return "N/A"
			}
		},
		"quat": func(q *[4]float32) string {
			return fmt.Sprintf("(w %.3f, %.3f, %.3f, %.3f)", q[0], q[1], q[2], q[3])
		},
		"num": func(v *float32) string {
			return fmt.Sprintf("%.3f", *v)
		},
		"join": func(keys []string) string {
			return strings.Join(keys, " ")
		},
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
