// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data directly in the
// database, bypassing the stores under test.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateGroup inserts a group for the given class. templateID may be nil.
func (f *Fixtures) CreateGroup(ctx context.Context, name, classID string, templateID *primitive.ObjectID) models.Group {
	f.t.Helper()

	now := time.Now().UTC()
	g := models.Group{
		ID:                primitive.NewObjectID(),
		Name:              name,
		NameCI:            text.Fold(name),
		ClassID:           classID,
		ProjectTemplateID: templateID,
		MaxMembers:        models.DefaultMaxMembers,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := f.db.Collection("groups").InsertOne(ctx, g); err != nil {
		f.t.Fatalf("failed to create test group: %v", err)
	}
	return g
}

// AddMember inserts a membership row with the given role.
func (f *Fixtures) AddMember(ctx context.Context, groupID primitive.ObjectID, studentCode, fullName, role string) models.Member {
	f.t.Helper()

	m := models.Member{
		ID:          primitive.NewObjectID(),
		GroupID:     groupID,
		UserID:      "user-" + studentCode,
		StudentCode: studentCode,
		FullName:    fullName,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
	if _, err := f.db.Collection("members").InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test member: %v", err)
	}
	return m
}

// CreateTask inserts a task on the given group's board.
func (f *Fixtures) CreateTask(ctx context.Context, groupID primitive.ObjectID, title string, status models.TaskStatus, assignee *primitive.ObjectID) models.Task {
	f.t.Helper()

	now := time.Now().UTC()
	task := models.Task{
		ID:         primitive.NewObjectID(),
		GroupID:    groupID,
		Title:      title,
		Priority:   models.MinPriority,
		Status:     status,
		AssignedTo: assignee,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("tasks").InsertOne(ctx, task); err != nil {
		f.t.Fatalf("failed to create test task: %v", err)
	}
	return task
}

// CreateTemplateMilestone inserts a milestone definition on a template.
func (f *Fixtures) CreateTemplateMilestone(ctx context.Context, templateID primitive.ObjectID, title string, order int) models.TemplateMilestone {
	f.t.Helper()

	ms := models.TemplateMilestone{
		ID:                primitive.NewObjectID(),
		ProjectTemplateID: templateID,
		Title:             title,
		OrderIndex:        order,
		Questions:         []string{},
		CreatedAt:         time.Now().UTC(),
	}
	if _, err := f.db.Collection("template_milestones").InsertOne(ctx, ms); err != nil {
		f.t.Fatalf("failed to create test template milestone: %v", err)
	}
	return ms
}

// CreateGroupMilestone inserts an ad hoc milestone for a group.
func (f *Fixtures) CreateGroupMilestone(ctx context.Context, groupID primitive.ObjectID, title string) models.GroupMilestone {
	f.t.Helper()

	now := time.Now().UTC()
	ms := models.GroupMilestone{
		ID:        primitive.NewObjectID(),
		GroupID:   groupID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("group_milestones").InsertOne(ctx, ms); err != nil {
		f.t.Fatalf("failed to create test group milestone: %v", err)
	}
	return ms
}
