package engine

import (
	"mad-sand/internal/core"
)

const (
	paramDefaultLife = "default_life"
	maxDefaultLife   = 120
)

var lifeControl = core.ParameterControl{
	Key:    paramDefaultLife,
	Label:  "Life",
	Type:   core.ParamTypeInt,
	Step:   1,
	Min:    1,
	Max:    maxDefaultLife,
	HasMin: true,
	HasMax: true,
}

// Parameters reports the engine's configuration and live counters.
func (e *Engine) Parameters() core.ParameterSnapshot {
	size := e.grid.ChunkSize()
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{
		{
			Name: "Engine",
			Params: []core.Parameter{
				core.IntParameter("chunk_width", "Chunk W", int64(size.W), "Cells per chunk along X"),
				core.IntParameter("chunk_height", "Chunk H", int64(size.H), "Cells per chunk along Y"),
				core.IntParameter(paramDefaultLife, "Life", int64(e.cfg.DefaultLife), "Quiet ticks before a chunk sleeps"),
				core.IntParameter("seed", "Seed", e.cfg.Seed, ""),
			},
		},
		{
			Name: "State",
			Params: []core.Parameter{
				core.IntParameter("tick", "Tick", int64(e.tick), ""),
				core.IntParameter("active", "Active", int64(e.sched.Len()), "Scheduled chunks"),
				core.IntParameter("chunks", "Chunks", int64(e.grid.Len()), "Chunks holding particles"),
				core.IntParameter("particles", "Particles", int64(e.grid.Cells()), ""),
			},
		},
	}}
}

// ParameterControls lists the values the HUD may adjust.
func (e *Engine) ParameterControls() []core.ParameterControl {
	return []core.ParameterControl{lifeControl}
}

// SetIntParameter updates an adjustable parameter. Only the default life is
// mutable; it applies to chunks activated from now on.
func (e *Engine) SetIntParameter(key string, value int) bool {
	if key != paramDefaultLife {
		return false
	}
	value = lifeControl.Clamp(value)
	if value == e.cfg.DefaultLife {
		return false
	}
	e.cfg.DefaultLife = value
	e.log.Debug("default life changed", "life", value)
	return true
}
