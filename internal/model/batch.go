package model

import "github.com/google/uuid"

type BatchOutcome string

const (
	BatchAll     BatchOutcome = "all"
	BatchPartial BatchOutcome = "partial"
	BatchNone    BatchOutcome = "none"
)

type BatchFailure struct {
	ID    uuid.UUID `json:"id"`
	Error string    `json:"error"`
	Err   error     `json:"-"`
}

// BatchResult collects the per-id outcomes of a batch transition.
type BatchResult struct {
	Succeeded []uuid.UUID     `json:"succeeded"`
	Failed    []*BatchFailure `json:"failed"`
}

func (r *BatchResult) SuccessCount() int {
	return len(r.Succeeded)
}

func (r *BatchResult) Outcome() BatchOutcome {
	switch {
	case len(r.Failed) == 0:
		return BatchAll
	case len(r.Succeeded) == 0:
		return BatchNone
	}
	return BatchPartial
}

func (r *BatchResult) FailedIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(r.Failed))
	for _, f := range r.Failed {
		ids = append(ids, f.ID)
	}
	return ids
}
