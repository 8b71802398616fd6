package model

import "fmt"

type Status string

const (
	StatusPublished Status = "published"
	StatusDraft     Status = "draft"
	StatusDeleted   Status = "deleted"
)

var AllStatuses = []Status{StatusPublished, StatusDraft, StatusDeleted}

// StatusOf maps the two lifecycle flags onto a visibility status.
// A nil isDeleted counts as false.
func StatusOf(draft bool, isDeleted *bool) Status {
	if isDeleted != nil && *isDeleted {
		return StatusDeleted
	}
	if draft {
		return StatusDraft
	}
	return StatusPublished
}

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPublished, StatusDraft, StatusDeleted:
		return Status(s), nil
	case "":
		return StatusPublished, nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}
