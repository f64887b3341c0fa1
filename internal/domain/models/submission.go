// internal/domain/models/submission.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Submission records work delivered for a template milestone by a group.
// Exactly one document per (group_id, milestone_id) — re-submitting updates
// the existing document in place rather than creating another row.
//
// Content holds either the stored path of an uploaded file or a raw
// link/text supplied by the group, never both; last write wins. FileName
// and Checksum are only set for uploads.
type Submission struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	GroupID     primitive.ObjectID `bson:"group_id" json:"group_id"`
	MilestoneID primitive.ObjectID `bson:"milestone_id" json:"milestone_id"`

	Content     string    `bson:"content" json:"content"`
	Description string    `bson:"description" json:"description"`
	FileName    string    `bson:"file_name,omitempty" json:"file_name,omitempty"`
	Checksum    string    `bson:"checksum,omitempty" json:"checksum,omitempty"`
	SubmittedBy string    `bson:"submitted_by" json:"submitted_by"`
	SubmittedAt time.Time `bson:"submitted_at" json:"submitted_at"`

	// Lecturer grading, 0–10 scale. Nil until graded.
	Grade    *float64   `bson:"grade,omitempty" json:"grade,omitempty"`
	Feedback string     `bson:"feedback,omitempty" json:"feedback,omitempty"`
	GradedBy string     `bson:"graded_by,omitempty" json:"graded_by,omitempty"`
	GradedAt *time.Time `bson:"graded_at,omitempty" json:"graded_at,omitempty"`
}
