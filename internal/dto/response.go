package dto

import (
	"time"

	"github.com/BloggingApp/blog-console/internal/model"
	"github.com/google/uuid"
)

type BasicResponse struct {
	Ok        bool      `json:"ok"`
	Details   string    `json:"details"`
	Timestamp time.Time `json:"timestamp"`
}

func NewBasicResponse(ok bool, details string) BasicResponse {
	return BasicResponse{
		Ok:        ok,
		Details:   details,
		Timestamp: time.Now(),
	}
}

type BatchResponse struct {
	Ok           bool                  `json:"ok"`
	Outcome      model.BatchOutcome    `json:"outcome"`
	SuccessCount int                   `json:"successCount"`
	Succeeded    []uuid.UUID           `json:"succeeded"`
	Failed       []*model.BatchFailure `json:"failed"`
	Timestamp    time.Time             `json:"timestamp"`
}

func NewBatchResponse(result *model.BatchResult) BatchResponse {
	succeeded := result.Succeeded
	if succeeded == nil {
		succeeded = []uuid.UUID{}
	}
	failed := result.Failed
	if failed == nil {
		failed = []*model.BatchFailure{}
	}
	return BatchResponse{
		Ok:           result.Outcome() != model.BatchNone,
		Outcome:      result.Outcome(),
		SuccessCount: result.SuccessCount(),
		Succeeded:    succeeded,
		Failed:       failed,
		Timestamp:    time.Now(),
	}
}
