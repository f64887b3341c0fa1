// internal/app/store/grades/gradestore.go

// Package gradestore manages per-grader scores on group milestones: each
// grader holds exactly one score per milestone, overwritten on re-grade.
package gradestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrMilestoneNotFound = errors.New("milestone not found")

	// ErrInvalidScore means the score is outside the 0..10 scale.
	ErrInvalidScore = fmt.Errorf("score must be between %d and %d", models.MinScore, models.MaxScore)

	// ErrInvalidRole means the grader role is neither student nor lecturer.
	ErrInvalidRole = errors.New("grader role must be student or lecturer")
)

type Store struct {
	c          *mongo.Collection
	milestones *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:          db.Collection("group_milestone_grades"),
		milestones: db.Collection("group_milestones"),
	}
}

// Upsert records a grader's score on a milestone. One document per
// (milestone, grader): grading again overwrites score, feedback, role and
// timestamp in place.
func (s *Store) Upsert(ctx context.Context, milestoneID primitive.ObjectID, graderID, graderRole string, score float64, feedback string) (models.GroupMilestoneGrade, error) {
	if graderRole != models.GraderStudent && graderRole != models.GraderLecturer {
		return models.GroupMilestoneGrade{}, ErrInvalidRole
	}
	if score < models.MinScore || score > models.MaxScore {
		return models.GroupMilestoneGrade{}, ErrInvalidScore
	}

	n, err := s.milestones.CountDocuments(ctx, bson.M{"_id": milestoneID})
	if err != nil {
		return models.GroupMilestoneGrade{}, err
	}
	if n == 0 {
		return models.GroupMilestoneGrade{}, ErrMilestoneNotFound
	}

	update := bson.M{
		"$set": bson.M{
			"grader_role": graderRole,
			"score":       score,
			"feedback":    feedback,
			"graded_at":   time.Now().UTC(),
		},
		"$setOnInsert": bson.M{"_id": primitive.NewObjectID()},
	}

	g, err := s.upsert(ctx, milestoneID, graderID, update)
	if wafflemongo.IsDup(err) {
		// Concurrent first grade by the same grader; the document exists
		// now, so the retry is a plain overwrite.
		g, err = s.upsert(ctx, milestoneID, graderID, update)
	}
	return g, err
}

func (s *Store) upsert(ctx context.Context, milestoneID primitive.ObjectID, graderID string, update bson.M) (models.GroupMilestoneGrade, error) {
	var g models.GroupMilestoneGrade
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"milestone_id": milestoneID, "grader_id": graderID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&g)
	if err != nil {
		return models.GroupMilestoneGrade{}, err
	}
	return g, nil
}

// ListByMilestone returns all grades on a milestone, peers and lecturer alike.
func (s *Store) ListByMilestone(ctx context.Context, milestoneID primitive.ObjectID) ([]models.GroupMilestoneGrade, error) {
	cur, err := s.c.Find(ctx, bson.M{"milestone_id": milestoneID},
		options.Find().SetSort(bson.D{{Key: "graded_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.GroupMilestoneGrade{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
