package errs

// Report collects the diagnostics produced by a single engine operation.
// An empty Report (Empty() == true) means the checked artifact is
// well-formed / confusion-free / equivalent.
type Report struct {
	Errors []Error
}

// NewReport returns an empty report.
func NewReport() *Report { return &Report{} }

// Add appends err to the report, ignoring a nil err.
func (r *Report) Add(err Error) {
	if err == nil {
		return
	}
	r.Errors = append(r.Errors, err)
}

// Append merges other's errors into r.
func (r *Report) Append(other *Report) {
	if other == nil {
		return
	}
	r.Errors = append(r.Errors, other.Errors...)
}

// Empty reports whether no errors were collected.
func (r *Report) Empty() bool { return len(r.Errors) == 0 }

// Strings renders every error's message, in collection order.
func (r *Report) Strings() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Error()
	}
	return out
}

// Filter returns a new Report with every error of the given Kind removed,
// preserving collection order otherwise. Used by callers that tolerate a
// specific diagnostic under some configuration (e.g. an unreachable-terminal
// state on a protocol that loops forever by design) without suppressing
// every other check.
func (r *Report) Filter(kind string) *Report {
	out := NewReport()
	for _, e := range r.Errors {
		if e.Kind() == kind {
			continue
		}
		out.Add(e)
	}
	return out
}
