package domain

import (
	"encoding/json"
	"math"
)

// QiNames lists the eight temperament dimensions in canonical order.
var QiNames = [8]string{"厚载", "萌动", "炎明", "肃降", "通透", "刚健", "静守", "润下"}

// LuminNames lists the five sensory channels in canonical order.
var LuminNames = [5]string{"视", "听", "触", "味", "嗅"}

// QiVector is the 8-dimensional temperament accumulator.
type QiVector [8]float64

// LuminVector is the 5-channel sensory accumulator.
type LuminVector [5]float64

// Slice returns the vector as a fresh slice.
func (v QiVector) Slice() []float64 {
	out := make([]float64, len(v))
	copy(out, v[:])
	return out
}

// Map returns the vector keyed by dimension name.
func (v QiVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v))
	for i, name := range QiNames {
		out[name] = v[i]
	}
	return out
}

// Max returns the largest entry.
func (v QiVector) Max() float64 {
	m := math.Inf(-1)
	for _, x := range v {
		m = math.Max(m, x)
	}
	return m
}

// Map returns the vector keyed by channel name.
func (v LuminVector) Map() map[string]float64 {
	out := make(map[string]float64, len(v))
	for i, name := range LuminNames {
		out[name] = v[i]
	}
	return out
}

// Effects holds the signed deltas an option applies to a session's accumulators.
type Effects struct {
	Qi     QiVector
	Lumin  LuminVector
	Rhythm RhythmVector
}

// IsZero reports whether the effects change nothing.
func (e Effects) IsZero() bool {
	return e == Effects{}
}

// Set adds delta to the named dimension. It returns false if name is not a Qi
// dimension, Lumin channel, or Rhythm label.
func (e *Effects) Set(name string, delta float64) bool {
	kind, i := LookupDimension(name)
	switch kind {
	case DimensionQi:
		e.Qi[i] += delta
	case DimensionLumin:
		e.Lumin[i] += delta
	case DimensionRhythm:
		e.Rhythm[i] += delta
	default:
		return false
	}
	return true
}

// Flatten returns the non-zero deltas keyed by dimension name.
func (e Effects) Flatten() map[string]float64 {
	out := make(map[string]float64)
	for i, v := range e.Qi {
		if v != 0 {
			out[QiNames[i]] = v
		}
	}
	for i, v := range e.Lumin {
		if v != 0 {
			out[LuminNames[i]] = v
		}
	}
	for i, v := range e.Rhythm {
		if v != 0 {
			out[RhythmLabels[i]] = v
		}
	}
	return out
}

// MarshalJSON encodes effects in the same flat form the bank uses.
func (e Effects) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.Flatten())
}

// UnmarshalJSON decodes the flat name→delta form.
func (e *Effects) UnmarshalJSON(data []byte) error {
	var flat map[string]float64
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	*e = Effects{}
	for name, delta := range flat {
		if !e.Set(name, delta) {
			return &ContractError{Field: name, Reason: "unknown dimension"}
		}
	}
	return nil
}

// DimensionKind classifies an accumulator dimension name.
type DimensionKind int

const (
	DimensionUnknown DimensionKind = iota
	DimensionQi
	DimensionLumin
	DimensionRhythm
)

// LookupDimension resolves a dimension name to its accumulator and index.
func LookupDimension(name string) (DimensionKind, int) {
	for i, n := range QiNames {
		if n == name {
			return DimensionQi, i
		}
	}
	for i, n := range LuminNames {
		if n == name {
			return DimensionLumin, i
		}
	}
	for i, n := range RhythmLabels {
		if n == name {
			return DimensionRhythm, i
		}
	}
	return DimensionUnknown, -1
}

// Accumulators is the numeric state a session builds from answers.
type Accumulators struct {
	Qi     QiVector     `json:"qi"`
	Lumin  LuminVector  `json:"lumin"`
	Rhythm RhythmVector `json:"rhythm"`
}

// Add returns the accumulators with the effects added.
func (a Accumulators) Add(e Effects) Accumulators {
	for i := range a.Qi {
		a.Qi[i] += e.Qi[i]
	}
	for i := range a.Lumin {
		a.Lumin[i] += e.Lumin[i]
	}
	for i := range a.Rhythm {
		a.Rhythm[i] += e.Rhythm[i]
	}
	return a
}
