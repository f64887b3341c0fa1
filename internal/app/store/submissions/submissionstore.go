// internal/app/store/submissions/submissionstore.go
package submissionstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/hdngo/collabhub/internal/app/system/uploads"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound          = errors.New("submission not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrGroupNotFound     = errors.New("group not found")

	// ErrInvalidScore means the grade is outside the 0..10 scale.
	ErrInvalidScore = fmt.Errorf("score must be between %d and %d", models.MinScore, models.MaxScore)
)

type Store struct {
	c          *mongo.Collection
	milestones *mongo.Collection
	groups     *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:          db.Collection("submissions"),
		milestones: db.Collection("template_milestones"),
		groups:     db.Collection("groups"),
	}
}

// SubmitInput is one delivery against a template milestone. Exactly one of
// File / Content carries the payload; when both are empty the previous
// payload is kept and only the metadata refreshes.
type SubmitInput struct {
	GroupID     primitive.ObjectID
	MilestoneID primitive.ObjectID
	SubmittedBy string
	Content     string // raw link or text
	Description string
	File        *uploads.Info
}

// Submit records (or re-records) a group's delivery for a milestone. One
// document per (group, milestone): a re-submit replaces the payload and
// timestamp in place, and any grade already present survives untouched.
func (s *Store) Submit(ctx context.Context, in SubmitInput) (models.Submission, error) {
	n, err := s.milestones.CountDocuments(ctx, bson.M{"_id": in.MilestoneID})
	if err != nil {
		return models.Submission{}, err
	}
	if n == 0 {
		return models.Submission{}, ErrMilestoneNotFound
	}
	n, err = s.groups.CountDocuments(ctx, bson.M{"_id": in.GroupID, "is_deleted": false})
	if err != nil {
		return models.Submission{}, err
	}
	if n == 0 {
		return models.Submission{}, ErrGroupNotFound
	}

	set := bson.M{
		"submitted_by": in.SubmittedBy,
		"submitted_at": time.Now().UTC(),
		"description":  in.Description,
	}
	unset := bson.M{}
	switch {
	case in.File != nil:
		// Uploaded file: content points at the stored object.
		set["content"] = in.File.Path
		set["file_name"] = in.File.FileName
		set["checksum"] = in.File.Checksum
	case in.Content != "":
		// Raw link/text replaces any earlier upload.
		set["content"] = in.Content
		unset["file_name"] = ""
		unset["checksum"] = ""
	}

	update := bson.M{
		"$set": set,
		"$setOnInsert": bson.M{
			"_id":          primitive.NewObjectID(),
			"group_id":     in.GroupID,
			"milestone_id": in.MilestoneID,
		},
	}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	sub, err := s.upsert(ctx, in.GroupID, in.MilestoneID, update)
	if wafflemongo.IsDup(err) {
		// Lost a concurrent first-submit race; the document exists now, so
		// the same update lands as a plain in-place write.
		sub, err = s.upsert(ctx, in.GroupID, in.MilestoneID, update)
	}
	return sub, err
}

func (s *Store) upsert(ctx context.Context, groupID, milestoneID primitive.ObjectID, update bson.M) (models.Submission, error) {
	var sub models.Submission
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"group_id": groupID, "milestone_id": milestoneID},
		update,
		options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After),
	).Decode(&sub)
	if err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// Grade records the lecturer's score on a submission. Re-grading overwrites
// score, feedback and timestamp.
func (s *Store) Grade(ctx context.Context, id primitive.ObjectID, graderID string, score float64, feedback string) (models.Submission, error) {
	if score < models.MinScore || score > models.MaxScore {
		return models.Submission{}, ErrInvalidScore
	}

	var sub models.Submission
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{
			"grade":     score,
			"feedback":  feedback,
			"graded_by": graderID,
			"graded_at": time.Now().UTC(),
		}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return models.Submission{}, ErrNotFound
	}
	if err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// GetByGroupAndMilestone returns the group's submission for one milestone.
func (s *Store) GetByGroupAndMilestone(ctx context.Context, groupID, milestoneID primitive.ObjectID) (models.Submission, error) {
	var sub models.Submission
	err := s.c.FindOne(ctx, bson.M{"group_id": groupID, "milestone_id": milestoneID}).Decode(&sub)
	if err == mongo.ErrNoDocuments {
		return models.Submission{}, ErrNotFound
	}
	if err != nil {
		return models.Submission{}, err
	}
	return sub, nil
}

// ListByGroup returns all of a group's submissions, most recent first.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Submission, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Submission{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountForMilestones returns how many of the given milestones the group has
// submitted against. This is the numerator of project progress.
func (s *Store) CountForMilestones(ctx context.Context, groupID primitive.ObjectID, milestoneIDs []primitive.ObjectID) (int64, error) {
	if len(milestoneIDs) == 0 {
		return 0, nil
	}
	return s.c.CountDocuments(ctx, bson.M{
		"group_id":     groupID,
		"milestone_id": bson.M{"$in": milestoneIDs},
	})
}
