package batch

// Status is the outcome of one file.
type Status string

// File outcomes.
const (
	StatusOK        Status = "ok"
	StatusUnchanged Status = "unchanged"
	StatusFailed    Status = "failed"
)

// Result describes the processing of one input file.
type Result struct {
	Input       string
	Output      string
	Rel         string
	Status      Status
	ShowID      string
	Fingerprint string
	Err         error
}

// Kind returns the failure kind, or KindNone on success.
func (r Result) Kind() Kind {
	return Classify(r.Err)
}

// Summary collects the results of a directory batch, sorted by relative path.
type Summary struct {
	InputDir  string
	OutputDir string
	Results   []Result
}

// Succeeded counts files that produced a valid document, written or unchanged.
func (s *Summary) Succeeded() int {
	n := 0

	for _, r := range s.Results {
		if r.Status != StatusFailed {
			n++
		}
	}

	return n
}

// Failed counts files that produced no document.
func (s *Summary) Failed() int {
	return len(s.Results) - s.Succeeded()
}

// Unchanged counts files skipped because their output was already current.
func (s *Summary) Unchanged() int {
	n := 0

	for _, r := range s.Results {
		if r.Status == StatusUnchanged {
			n++
		}
	}

	return n
}
