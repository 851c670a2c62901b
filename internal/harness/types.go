package harness

// Trace event types.
const (
	EventRender = "render"
	EventError  = "error"
	EventClear  = "clear"
)

// TraceEvent records what one step did to the shared Builder.
type TraceEvent struct {
	Step      int    `json:"step"`
	Type      string `json:"type"`
	URL       string `json:"url,omitempty"`
	ErrorKind string `json:"error_kind,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass is true when every expectation matched.
	Pass bool `json:"pass"`

	// Trace contains one event per clear and per render, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains the expectation failures. Empty if Pass is true.
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

// AddError adds an expectation failure and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddClear records a Builder.Clear.
func (r *Result) AddClear(step int) {
	r.Trace = append(r.Trace, TraceEvent{Step: step, Type: EventClear})
}

// AddRender records a successful render.
func (r *Result) AddRender(step int, url string) {
	r.Trace = append(r.Trace, TraceEvent{Step: step, Type: EventRender, URL: url})
}

// AddFailure records a failed render.
func (r *Result) AddFailure(step int, kind string, err error) {
	r.Trace = append(r.Trace, TraceEvent{Step: step, Type: EventError, ErrorKind: kind, Error: err.Error()})
}
