package agent

// Type represents a specific type of an agent Config.
// Config's with this type can create Learners of the corresponding type.
type Type string

const (
	// Tabular methods
	QLearningTabular Type = "QLearning-Tabular"
)
