package ui

import (
	"fmt"

	"mad-sand/internal/grid"
	"mad-sand/internal/particle"
	"mad-sand/internal/telemetry"
)

// Status is everything the HUD prints in its text block.
type Status struct {
	FPS       float64
	TPS       float64
	Tick      uint64
	Paused    bool
	Brush     string
	BrushSize int
	Zoom      int
	Scenario  string

	Active    int
	Chunks    int
	Particles int
	Suspended int

	// Debug adds tick timings from Perf.
	Debug bool
	Perf  telemetry.PerfStats

	Hover string
}

// Lines formats the status block, one entry per row.
func (s Status) Lines() []string {
	lines := []string{
		fmt.Sprintf("FPS: %d  TPS: %d", int(s.FPS), int(s.TPS)),
		fmt.Sprintf("Brush: %s (%d)", s.Brush, s.BrushSize),
		fmt.Sprintf("Zoom: %d", s.Zoom),
	}
	if s.Paused {
		lines = append(lines, fmt.Sprintf("Paused at tick %d", s.Tick))
	}
	if s.Debug {
		lines = append(lines,
			"",
			fmt.Sprintf("Scenario: %s  Tick: %d", s.Scenario, s.Tick),
			fmt.Sprintf("Chunks: %d  Active: %d  Suspended: %d", s.Chunks, s.Active, s.Suspended),
			fmt.Sprintf("Particles: %d", s.Particles),
			"Times:",
			fmt.Sprintf("Tick: %s (max %s)", s.Perf.AvgTickDuration, s.Perf.MaxTickDuration),
		)
		for _, phase := range telemetry.Phases {
			lines = append(lines, fmt.Sprintf("  %s: %s", phase, s.Perf.PhaseAvg[phase]))
		}
	}
	if s.Hover != "" {
		lines = append(lines, "", "Hover: "+s.Hover)
	}
	return lines
}

// HoverText describes the cell under the cursor, or "" for empty space.
func HoverText(types *particle.Registry, pos grid.Coord, c particle.Cell, ok bool) string {
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s value=%d at (%d,%d)", types.Name(c.Type), c.Value, pos.X, pos.Y)
}
