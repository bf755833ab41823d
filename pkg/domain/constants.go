package domain

const (
	// TerminalID is the next-step sentinel that signals the end of a branch.
	TerminalID = "END"

	// DefaultMinQuestions is the minimum session length before natural termination is honored.
	DefaultMinQuestions = 20

	// DefaultMaxQuestions is the hard cap on answers in a session.
	DefaultMaxQuestions = 100

	// MinStage and MaxStage bound the stage tier of a question (one per Lumin wheel).
	MinStage = 1
	MaxStage = 5
)

// StageNames maps a stage tier to its Lumin wheel.
var StageNames = map[int]string{
	1: "如是轮",
	2: "破暗轮",
	3: "涓流轮",
	4: "映照轮",
	5: "无垠轮",
}

// MetadataKeys are root-level bank keys that carry metadata rather than questions.
var MetadataKeys = []string{"_meta", "metadata"}
