package harness

// TraceEvent records one scenario step and the game status it left behind.
type TraceEvent struct {
	Step   int    `json:"step"`
	Action string `json:"action"`
	As     string `json:"as,omitempty"`
	Member string `json:"member,omitempty"`

	// Status is the game status after the step.
	Status string `json:"status"`

	// Error is the error code the step returned, if any.
	Error string `json:"error,omitempty"`
}

// Result is the outcome of a scenario run.
type Result struct {
	// Pass indicates overall success.
	// True if every step and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Game is the final stored game body.
	Game map[string]any `json:"game,omitempty"`

	// Consequences are the stored bodies of the consequences the game
	// produced, ordered by id.
	Consequences []map[string]any `json:"consequences,omitempty"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:   true,
		Trace:  []TraceEvent{},
		Errors: []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(event TraceEvent) {
	r.Trace = append(r.Trace, event)
}
