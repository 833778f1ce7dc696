package core

import "strconv"

// ParamType enumerates supported parameter value kinds.
type ParamType string

// ParamTypeInt denotes integer-valued parameters.
const ParamTypeInt ParamType = "int"

// Parameter is one labelled value shown on the HUD panel.
type Parameter struct {
	Key         string
	Label       string
	Type        ParamType
	Value       string
	Description string
}

// IntParameter formats an integer parameter.
func IntParameter(key, label string, v int64, desc string) Parameter {
	return Parameter{Key: key, Label: label, Type: ParamTypeInt, Value: strconv.FormatInt(v, 10), Description: desc}
}

// ParameterGroup clusters related parameters for presentation purposes.
type ParameterGroup struct {
	Name    string
	Params  []Parameter
	Summary string
}

// ParameterSnapshot captures the current set of values exposed for display.
type ParameterSnapshot struct {
	Groups []ParameterGroup
}

// Int returns the integer value stored under key.
func (s ParameterSnapshot) Int(key string) (int, bool) {
	for _, g := range s.Groups {
		for _, p := range g.Params {
			if p.Key != key || p.Type != ParamTypeInt {
				continue
			}
			v, err := strconv.Atoi(p.Value)
			return v, err == nil
		}
	}
	return 0, false
}

// ParameterControl describes an adjustable integer parameter. Bounds are
// optional.
type ParameterControl struct {
	Key   string
	Label string
	Type  ParamType

	Step int

	Min    int
	Max    int
	HasMin bool
	HasMax bool
}

// Clamp limits v to the control's bounds.
func (c ParameterControl) Clamp(v int) int {
	if c.HasMin {
		v = max(v, c.Min)
	}
	if c.HasMax {
		v = min(v, c.Max)
	}
	return v
}

// Nudge returns current moved dir steps, clamped.
func (c ParameterControl) Nudge(current, dir int) int {
	return c.Clamp(current + dir*max(c.Step, 1))
}

// ParameterControlsProvider exposes the list of HUD-adjustable controls.
type ParameterControlsProvider interface {
	ParameterControls() []ParameterControl
}

// IntParameterSetter allows HUD interactions to update integer parameters.
type IntParameterSetter interface {
	SetIntParameter(key string, value int) bool
}
