// internal/app/store/queries/gradesummary/gradesummary.go

// Package gradesummary aggregates the grades on a group milestone into the
// figure shown to students: the peer average, with the lecturer's grade
// reported alongside but never folded into the average.
package gradesummary

import (
	"context"

	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Summary is the grade picture for one milestone.
type Summary struct {
	MilestoneID primitive.ObjectID `json:"milestone_id"`

	// PeerAverage is the mean of the student scores; nil when no peer has
	// graded yet.
	PeerAverage *float64 `json:"peer_average"`
	PeerCount   int      `json:"peer_count"`

	// Lecturer is the lecturer's grade, nil when not graded. At most one
	// exists since each grader holds one row per milestone.
	Lecturer *models.GroupMilestoneGrade `json:"lecturer"`
}

// Summarize computes the milestone's grade summary. The peer average is
// taken server-side over grader_role "student" only.
func Summarize(ctx context.Context, db *mongo.Database, milestoneID primitive.ObjectID) (Summary, error) {
	out := Summary{MilestoneID: milestoneID}
	grades := db.Collection("group_milestone_grades")

	cur, err := grades.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"milestone_id": milestoneID,
			"grader_role":  models.GraderStudent,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":   nil,
			"avg":   bson.M{"$avg": "$score"},
			"count": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return Summary{}, err
	}
	defer cur.Close(ctx)

	if cur.Next(ctx) {
		var row struct {
			Avg   float64 `bson:"avg"`
			Count int     `bson:"count"`
		}
		if err := cur.Decode(&row); err != nil {
			return Summary{}, err
		}
		out.PeerAverage = &row.Avg
		out.PeerCount = row.Count
	}
	if err := cur.Err(); err != nil {
		return Summary{}, err
	}

	var lecturer models.GroupMilestoneGrade
	err = grades.FindOne(ctx, bson.M{
		"milestone_id": milestoneID,
		"grader_role":  models.GraderLecturer,
	}).Decode(&lecturer)
	switch err {
	case nil:
		out.Lecturer = &lecturer
	case mongo.ErrNoDocuments:
		// not graded by the lecturer yet
	default:
		return Summary{}, err
	}

	return out, nil
}
