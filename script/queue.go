package script

// Step is one command line of a script.
type Step struct {
	Line int // 1-based position in the script file
	Text string
}

// Queue holds the pending steps of a replay in FIFO order.
type Queue struct {
	steps []Step
}

func NewQueue(steps []Step) *Queue {
	return &Queue{steps: append([]Step(nil), steps...)}
}

// Pop removes and returns the next step.
func (q *Queue) Pop() (Step, bool) {
	if len(q.steps) == 0 {
		return Step{}, false
	}
	s := q.steps[0]
	q.steps = q.steps[1:]
	return s, true
}

// Len returns the number of pending steps.
func (q *Queue) Len() int {
	return len(q.steps)
}

// Discard drops all pending steps and returns how many there were.
func (q *Queue) Discard() int {
	n := len(q.steps)
	q.steps = nil
	return n
}
