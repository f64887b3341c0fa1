// internal/domain/models/milestone.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TemplateMilestone is a fixed checkpoint defined once per project template.
// Groups assigned to the template submit work against these; the milestone
// definition itself only changes through template administration.
type TemplateMilestone struct {
	ID                primitive.ObjectID `bson:"_id" json:"id"`
	ProjectTemplateID primitive.ObjectID `bson:"project_template_id" json:"project_template_id"`
	Title             string             `bson:"title" json:"title"`
	Description       string             `bson:"description" json:"description"`
	OrderIndex        int                `bson:"order_index" json:"order_index"`
	Deadline          *time.Time         `bson:"deadline,omitempty" json:"deadline,omitempty"`
	Questions         []string           `bson:"questions" json:"questions"`
	CreatedAt         time.Time          `bson:"created_at" json:"created_at"`
}

// GroupMilestone is an ad hoc checkpoint created directly against one group,
// independent of any template. Recording a submission always marks it
// completed; completion can also be toggled by hand before any submission
// exists, and re-opening later never clears the recorded submission.
type GroupMilestone struct {
	ID          primitive.ObjectID  `bson:"_id" json:"id"`
	GroupID     primitive.ObjectID  `bson:"group_id" json:"group_id"`
	Title       string              `bson:"title" json:"title"`
	Description string              `bson:"description" json:"description"`
	Deadline    *time.Time          `bson:"deadline,omitempty" json:"deadline,omitempty"`
	AssignedTo  *primitive.ObjectID `bson:"assigned_to,omitempty" json:"assigned_to,omitempty"`

	SubmittedBy        string     `bson:"submitted_by,omitempty" json:"submitted_by,omitempty"`
	SubmissionContent  string     `bson:"submission_content,omitempty" json:"submission_content,omitempty"`
	SubmissionFilePath string     `bson:"submission_file_path,omitempty" json:"submission_file_path,omitempty"`
	SubmittedAt        *time.Time `bson:"submitted_at,omitempty" json:"submitted_at,omitempty"`

	IsCompleted bool `bson:"is_completed" json:"is_completed"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// GroupMilestoneComment is a discussion entry on a group milestone.
type GroupMilestoneComment struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	MilestoneID primitive.ObjectID `bson:"milestone_id" json:"milestone_id"`
	AuthorID    string             `bson:"author_id" json:"author_id"`
	Content     string             `bson:"content" json:"content"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
