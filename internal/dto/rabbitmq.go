package dto

import (
	"time"

	"github.com/google/uuid"
)

type MQPostLifecycleMsg struct {
	PostID     uuid.UUID `json:"post_id"`
	Transition string    `json:"transition"`
	Status     string    `json:"status"`
	At         time.Time `json:"at"`
}
