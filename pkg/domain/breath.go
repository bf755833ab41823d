package domain

// Breath signal names, in canonical order.
const (
	BreathPresence      = "如是"
	BreathBoundlessness = "无垠"
	BreathInsight       = "破暗"
	BreathFlow          = "涓流"
	BreathMirroring     = "映照"
)

// BreathNames lists the signals in canonical order.
var BreathNames = [5]string{BreathPresence, BreathBoundlessness, BreathInsight, BreathFlow, BreathMirroring}

// Breath holds the five derived signals, each in [0,1].
type Breath struct {
	Presence      float64 `json:"如是"`
	Boundlessness float64 `json:"无垠"`
	Insight       float64 `json:"破暗"`
	Flow          float64 `json:"涓流"`
	Mirroring     float64 `json:"映照"`
}

// Map returns the signals keyed by name.
func (b Breath) Map() map[string]float64 {
	return map[string]float64{
		BreathPresence:      b.Presence,
		BreathBoundlessness: b.Boundlessness,
		BreathInsight:       b.Insight,
		BreathFlow:          b.Flow,
		BreathMirroring:     b.Mirroring,
	}
}
