package models

import (
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActionCreated ActivityAction = "created"
	ActionEdited  ActivityAction = "edited"
	ActionDeleted ActivityAction = "deleted"
)

// Activity is one audit trail entry: who did what to which entity.
type Activity struct {
	ID        uuid.UUID      `db:"id" json:"id"`
	Type      string         `db:"type" json:"type"`
	Action    ActivityAction `db:"action" json:"action"`
	Title     string         `db:"title" json:"title"`
	UserID    uuid.UUID      `db:"user_id" json:"userId"`
	PostID    *uuid.UUID     `db:"post_id" json:"postId,omitempty"`
	Metadata  Document       `db:"metadata" json:"metadata,omitempty"`
	CreatedAt time.Time      `db:"created_at" json:"createdAt"`
}
