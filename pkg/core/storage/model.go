package storage

type OutcomeStatus string

const (
	OutcomeDeleted OutcomeStatus = "deleted"
	// OutcomeSkipped means no storage key could be extracted from the reference.
	OutcomeSkipped OutcomeStatus = "skipped"
	OutcomeFailed  OutcomeStatus = "failed"
)

// Outcome is the result of one best-effort delete.
type Outcome struct {
	Ref    string        `json:"ref"`
	Key    string        `json:"key,omitempty"`
	Status OutcomeStatus `json:"status"`
	Error  string        `json:"error,omitempty"`
}

type UploadResult struct {
	URL         string `json:"url"`
	Key         string `json:"key"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"contentType"`
}

type DeleteReq struct {
	URL string `json:"url" binding:"required"`
}
