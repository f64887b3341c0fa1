// internal/app/store/milestones/milestonestore.go

// Package milestonestore manages the fixed milestone definitions attached to
// project templates. Submissions against these definitions live in
// submissionstore.
package milestonestore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound = errors.New("milestone not found")

	// ErrDuplicateOrder means the template already has a milestone at this
	// order index.
	ErrDuplicateOrder = errors.New("template already has a milestone at this position")
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("template_milestones")}
}

// Create adds a milestone definition to a template.
func (s *Store) Create(ctx context.Context, ms models.TemplateMilestone) (models.TemplateMilestone, error) {
	ms.ID = primitive.NewObjectID()
	if ms.Questions == nil {
		ms.Questions = []string{}
	}
	ms.CreatedAt = time.Now().UTC()

	if _, err := s.c.InsertOne(ctx, ms); err != nil {
		if wafflemongo.IsDup(err) {
			return models.TemplateMilestone{}, ErrDuplicateOrder
		}
		return models.TemplateMilestone{}, err
	}
	return ms, nil
}

// Get returns one milestone definition.
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.TemplateMilestone, error) {
	var ms models.TemplateMilestone
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&ms)
	if err == mongo.ErrNoDocuments {
		return models.TemplateMilestone{}, ErrNotFound
	}
	if err != nil {
		return models.TemplateMilestone{}, err
	}
	return ms, nil
}

// ListByTemplate returns a template's milestones in curriculum order.
func (s *Store) ListByTemplate(ctx context.Context, templateID primitive.ObjectID) ([]models.TemplateMilestone, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"project_template_id": templateID},
		options.Find().SetSort(bson.D{{Key: "order_index", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.TemplateMilestone{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountByTemplate returns how many milestones a template defines. Used as
// the denominator of a group's project progress.
func (s *Store) CountByTemplate(ctx context.Context, templateID primitive.ObjectID) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"project_template_id": templateID})
}
