package model

// EntrySubmission is the result of handing one entry to a driver.
type EntrySubmission struct {
	Subcategory Category `json:"subcategory"`
	Error       string   `json:"error,omitempty"`
	Index       int      `json:"index"`
	Attempts    int      `json:"attempts"`
	Success     bool     `json:"success"`
}

// SubmissionReport collects per-entry results. Submission continues past
// failed entries, so Results always has one element per entry.
type SubmissionReport struct {
	Driver    string            `json:"driver"`
	Results   []EntrySubmission `json:"results"`
	Submitted int               `json:"submitted"`
	Failed    int               `json:"failed"`
}

// AllSucceeded reports whether every entry was accepted.
func (r SubmissionReport) AllSucceeded() bool {
	return r.Failed == 0 && r.Submitted == len(r.Results)
}
