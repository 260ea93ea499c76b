package harness

// TraceEvent records one evaluation: what ran, on which contract, with which
// inputs, and what the engine returned.
type TraceEvent struct {
	Seq      int64          `json:"seq"`
	Op       string         `json:"op"`
	Contract string         `json:"contract,omitempty"`
	Args     map[string]any `json:"args,omitempty"`
	Result   map[string]any `json:"result"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall success: every expect clause and assertion held.
	Pass bool `json:"pass"`

	// Trace contains every evaluation in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains expectation and assertion failures.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`
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

// AddTrace appends an evaluation to the trace.
func (r *Result) AddTrace(e TraceEvent) {
	r.Trace = append(r.Trace, e)
}
