package domain

// ShieldID identifies a safety intervention.
type ShieldID string

const (
	Shield1 ShieldID = "Shield_1" // spiritual bypass
	Shield2 ShieldID = "Shield_2" // pattern blind spot
	Shield3 ShieldID = "Shield_3" // boundary exhaustion
	Shield4 ShieldID = "Shield_4" // meaning void
)

// ShieldPriority is the presentation order when several shields are active.
var ShieldPriority = [4]ShieldID{Shield1, Shield4, Shield2, Shield3}

// ShieldLabels holds the display name of each shield.
var ShieldLabels = map[ShieldID]string{
	Shield1: "灵性逃避",
	Shield2: "模式盲区",
	Shield3: "边界耗竭",
	Shield4: "意义虚无",
}

// Known reports whether id is one of the four shields.
func (id ShieldID) Known() bool {
	_, ok := ShieldLabels[id]
	return ok
}

// Label returns the display name, or the raw id for unknown shields.
func (id ShieldID) Label() string {
	if l, ok := ShieldLabels[id]; ok {
		return l
	}
	return string(id)
}

// UserActions records the remediation a user performed while a shield was presented.
type UserActions struct {
	GroundingAnswers []string `json:"grounding_answers,omitempty"`
	PatternStatement string   `json:"pattern_statement,omitempty"`
	BoundarySet      bool     `json:"boundary_set,omitempty"`
	ConcreteActions  []string `json:"concrete_actions,omitempty"`
}
