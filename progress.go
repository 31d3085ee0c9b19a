package shinra

// Progress reports progress during a batch run.
type Progress struct {
	// Stage names the phase of the run, e.g. "unzip" or "move".
	Stage string

	// Category is set for per-category phases, empty otherwise.
	Category string

	Completed int
	Total     int

	// Message carries warnings such as skipped empty files.
	Message string
}

// ProgressFunc is called as batch work proceeds. Implementations must be
// safe for concurrent use; worker pools report from multiple goroutines.
type ProgressFunc func(Progress)
