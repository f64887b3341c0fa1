// internal/app/store/groupmilestones/groupmilestonestore.go

// Package groupmilestonestore manages the ad hoc milestones a group keeps
// for itself, outside any project template: creation, submission, manual
// completion toggling, assignment and discussion.
package groupmilestonestore

import (
	"context"
	"errors"
	"time"

	"github.com/hdngo/collabhub/internal/app/system/uploads"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("milestone not found")
	ErrGroupNotFound = errors.New("group not found")
)

type Store struct {
	c        *mongo.Collection
	comments *mongo.Collection
	groups   *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("group_milestones"),
		comments: db.Collection("group_milestone_comments"),
		groups:   db.Collection("groups"),
	}
}

// Create adds an ad hoc milestone to a live group.
func (s *Store) Create(ctx context.Context, ms models.GroupMilestone) (models.GroupMilestone, error) {
	n, err := s.groups.CountDocuments(ctx, bson.M{"_id": ms.GroupID, "is_deleted": false})
	if err != nil {
		return models.GroupMilestone{}, err
	}
	if n == 0 {
		return models.GroupMilestone{}, ErrGroupNotFound
	}

	now := time.Now().UTC()
	ms.ID = primitive.NewObjectID()
	ms.IsCompleted = false
	ms.SubmittedBy = ""
	ms.SubmissionContent = ""
	ms.SubmissionFilePath = ""
	ms.SubmittedAt = nil
	ms.CreatedAt = now
	ms.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, ms); err != nil {
		return models.GroupMilestone{}, err
	}
	return ms, nil
}

// Submit records who delivered what and marks the milestone completed.
// Submitting always completes, even when the milestone was re-opened by
// hand before — the submission is the stronger signal.
func (s *Store) Submit(ctx context.Context, id primitive.ObjectID, submittedBy, content string, file *uploads.Info) (models.GroupMilestone, error) {
	now := time.Now().UTC()
	set := bson.M{
		"submitted_by":       submittedBy,
		"submission_content": content,
		"submitted_at":       now,
		"is_completed":       true,
		"updated_at":         now,
	}
	if file != nil {
		set["submission_file_path"] = file.Path
	}

	var ms models.GroupMilestone
	err := s.c.FindOneAndUpdate(ctx,
		bson.M{"_id": id},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&ms)
	if err == mongo.ErrNoDocuments {
		return models.GroupMilestone{}, ErrNotFound
	}
	if err != nil {
		return models.GroupMilestone{}, err
	}
	return ms, nil
}

// SetCompleted flips the completion flag by hand. Setting the same value
// again is a no-op, not an error. Re-opening a submitted milestone keeps
// the submission fields intact.
func (s *Store) SetCompleted(ctx context.Context, id primitive.ObjectID, completed bool) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"is_completed": completed, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Assign points the milestone at a member, or clears the assignment when
// memberID is nil.
func (s *Store) Assign(ctx context.Context, id primitive.ObjectID, memberID *primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"updated_at": time.Now().UTC()}}
	if memberID != nil {
		update["$set"].(bson.M)["assigned_to"] = *memberID
	} else {
		update["$unset"] = bson.M{"assigned_to": ""}
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// AddComment appends a discussion entry to the milestone.
func (s *Store) AddComment(ctx context.Context, milestoneID primitive.ObjectID, authorID, content string) (models.GroupMilestoneComment, error) {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": milestoneID})
	if err != nil {
		return models.GroupMilestoneComment{}, err
	}
	if n == 0 {
		return models.GroupMilestoneComment{}, ErrNotFound
	}

	c := models.GroupMilestoneComment{
		ID:          primitive.NewObjectID(),
		MilestoneID: milestoneID,
		AuthorID:    authorID,
		Content:     content,
		CreatedAt:   time.Now().UTC(),
	}
	if _, err := s.comments.InsertOne(ctx, c); err != nil {
		return models.GroupMilestoneComment{}, err
	}
	return c, nil
}

// Get returns one milestone.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.GroupMilestone, error) {
	var ms models.GroupMilestone
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ms)
	if err == mongo.ErrNoDocuments {
		return models.GroupMilestone{}, ErrNotFound
	}
	if err != nil {
		return models.GroupMilestone{}, err
	}
	return ms, nil
}

// ListByGroup returns a group's milestones in creation order.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.GroupMilestone, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.GroupMilestone{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListComments returns a milestone's discussion in posting order.
func (s *Store) ListComments(ctx context.Context, milestoneID primitive.ObjectID) ([]models.GroupMilestoneComment, error) {
	cur, err := s.comments.Find(ctx, bson.M{"milestone_id": milestoneID},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.GroupMilestoneComment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
