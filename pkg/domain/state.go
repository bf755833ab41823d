package domain

// Answer is one entry of a session's answer history.
type Answer struct {
	QuestionID  string `json:"question_id"`
	OptionIndex int    `json:"option_index"`
}

// Progress summarises how far a session has come.
type Progress struct {
	Answered     int  `json:"answered"`
	MinQuestions int  `json:"min_questions"`
	MaxQuestions int  `json:"max_questions"`
	Complete     bool `json:"complete"`
}
