package environment

// StepLimit ends walks through an environment after a fixed number of
// steps
type StepLimit struct {
	steps int
}

// NewStepLimit creates and returns a new step limit. A limit of zero or
// less never ends a walk.
func NewStepLimit(steps int) StepLimit {
	return StepLimit{steps}
}

// End returns whether a walk that has taken steps steps should be
// ended
func (s StepLimit) End(steps int) bool {
	return s.steps > 0 && steps >= s.steps
}

// Steps returns the step limit
func (s StepLimit) Steps() int {
	return s.steps
}
