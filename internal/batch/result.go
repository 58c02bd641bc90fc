package batch

import (
	"github.com/google/uuid"
)

// Status represents the terminal state of one record within a run
type Status string

// Possible record status values
const (
	StatusPending   Status = "pending"
	StatusSkipped   Status = "skipped"
	StatusGenerated Status = "generated"
	StatusFailed    Status = "failed"
)

// RecordResult is the outcome for a single record.
type RecordResult struct {
	// Index is the record's position in the collection
	Index int

	// Name is the record's name field, empty when absent
	Name string

	// Filename is the derived image filename
	Filename string

	// Status is pending only for records never reached
	Status Status

	// ImagePath is the relative path written to the record, if any
	ImagePath string

	// Err is set when Status is StatusFailed
	Err error
}

// Report summarizes a run.
type Report struct {
	RunID     uuid.UUID
	Total     int
	Generated int
	Skipped   int
	Failed    int

	// Interrupted is true when the context ended before every record was reached.
	Interrupted bool

	// LoadErr is the error from loading the collection, if any. A run with a
	// load error processes zero records and does not save.
	LoadErr error

	// SaveErr is the error from the final save, if any.
	SaveErr error

	Results []RecordResult
}

// Pending returns the number of records that were never reached.
func (r *Report) Pending() int {
	return r.Total - r.Generated - r.Skipped - r.Failed
}

// FailedResults returns the results with StatusFailed in collection order.
func (r *Report) FailedResults() []RecordResult {
	var out []RecordResult
	for _, res := range r.Results {
		if res.Status == StatusFailed {
			out = append(out, res)
		}
	}
	return out
}

func (r *Report) count(s Status) {
	switch s {
	case StatusGenerated:
		r.Generated++
	case StatusSkipped:
		r.Skipped++
	case StatusFailed:
		r.Failed++
	}
}
