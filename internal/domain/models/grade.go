// internal/domain/models/grade.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Grader roles. Students peer-grade each other's milestones; at most one
// lecturer grade sits alongside and is reported separately, never averaged
// into the peer figure.
const (
	GraderStudent  = "student"
	GraderLecturer = "lecturer"
)

// Grade score bounds (inclusive).
const (
	MinScore = 0
	MaxScore = 10
)

// GroupMilestoneGrade is one grader's score on a group milestone. Exactly
// one document per (milestone_id, grader_id); re-grading by the same
// grader overwrites score, feedback and timestamp.
type GroupMilestoneGrade struct {
	ID          primitive.ObjectID `bson:"_id" json:"id"`
	MilestoneID primitive.ObjectID `bson:"milestone_id" json:"milestone_id"`
	GraderID    string             `bson:"grader_id" json:"grader_id"`
	GraderRole  string             `bson:"grader_role" json:"grader_role"` // "student" | "lecturer"
	Score       float64            `bson:"score" json:"score"`
	Feedback    string             `bson:"feedback" json:"feedback"`
	GradedAt    time.Time          `bson:"graded_at" json:"graded_at"`
}
