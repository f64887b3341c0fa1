// internal/app/store/tasks/taskstore.go
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrNotFound      = errors.New("task not found")
	ErrGroupNotFound = errors.New("group not found")

	// ErrInvalidPriority means the priority is outside 0..5.
	ErrInvalidPriority = fmt.Errorf("priority must be between %d and %d", models.MinPriority, models.MaxPriority)

	// ErrInvalidStatus means the status is not one of the three board columns.
	ErrInvalidStatus = errors.New("status must be 0 (todo), 1 (in progress) or 2 (done)")
)

type Store struct {
	c        *mongo.Collection
	subtasks *mongo.Collection
	comments *mongo.Collection
	groups   *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:        db.Collection("tasks"),
		subtasks: db.Collection("subtasks"),
		comments: db.Collection("task_comments"),
		groups:   db.Collection("groups"),
	}
}

// UpdateFields is a partial task update. Nil means "leave unchanged";
// ClearAssignee and ClearDeadline unset the optional fields.
type UpdateFields struct {
	Title         *string
	Description   *string
	Priority      *int
	Deadline      *time.Time
	ClearDeadline bool
	AssignedTo    *primitive.ObjectID
	ClearAssignee bool
}

// Create inserts a new card on the group's board. Every card starts in the
// todo column regardless of what the caller put in Status.
func (s *Store) Create(ctx context.Context, t models.Task) (models.Task, error) {
	if t.Priority < models.MinPriority || t.Priority > models.MaxPriority {
		return models.Task{}, ErrInvalidPriority
	}

	n, err := s.groups.CountDocuments(ctx, bson.M{"_id": t.GroupID, "is_deleted": false})
	if err != nil {
		return models.Task{}, err
	}
	if n == 0 {
		return models.Task{}, ErrGroupNotFound
	}

	now := time.Now().UTC()
	t.ID = primitive.NewObjectID()
	t.Status = models.StatusTodo
	t.IsDeleted = false
	t.DeletedAt = nil
	t.DeletedBy = ""
	t.CreatedAt = now
	t.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, t); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// SetStatus moves a card to a column. Any column to any column is allowed;
// the board has no transition rules.
func (s *Store) SetStatus(ctx context.Context, id primitive.ObjectID, status models.TaskStatus) error {
	if !status.Valid() {
		return ErrInvalidStatus
	}
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Update applies a partial edit to a live card.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, u UpdateFields) error {
	set := bson.M{"updated_at": time.Now().UTC()}
	unset := bson.M{}

	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Description != nil {
		set["description"] = *u.Description
	}
	if u.Priority != nil {
		if *u.Priority < models.MinPriority || *u.Priority > models.MaxPriority {
			return ErrInvalidPriority
		}
		set["priority"] = *u.Priority
	}
	switch {
	case u.ClearDeadline:
		unset["deadline"] = ""
	case u.Deadline != nil:
		set["deadline"] = *u.Deadline
	}
	switch {
	case u.ClearAssignee:
		unset["assigned_to"] = ""
	case u.AssignedTo != nil:
		set["assigned_to"] = *u.AssignedTo
	}

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	res, err := s.c.UpdateOne(ctx, bson.M{"_id": id, "is_deleted": false}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete removes a card from the board, keeping the document for audit.
// Subtasks and comments stay attached to the hidden card.
func (s *Store) SoftDelete(ctx context.Context, id primitive.ObjectID, actorID string) error {
	now := time.Now().UTC()
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{
			"is_deleted": true,
			"deleted_at": now,
			"deleted_by": actorID,
			"updated_at": now,
		}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns one live card (without subtasks/comments).
func (s *Store) Get(ctx context.Context, id primitive.ObjectID) (models.Task, error) {
	var t models.Task
	err := s.c.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&t)
	if err == mongo.ErrNoDocuments {
		return models.Task{}, ErrNotFound
	}
	if err != nil {
		return models.Task{}, err
	}
	return t, nil
}

// AddSubTask appends a checklist line to a live card.
func (s *Store) AddSubTask(ctx context.Context, taskID primitive.ObjectID, content string) (models.SubTask, error) {
	if err := s.requireLive(ctx, taskID); err != nil {
		return models.SubTask{}, err
	}
	st := models.SubTask{
		ID:        primitive.NewObjectID(),
		TaskID:    taskID,
		Content:   content,
		IsDone:    false,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.subtasks.InsertOne(ctx, st); err != nil {
		return models.SubTask{}, err
	}
	return st, nil
}

// ToggleSubTask flips a checklist line's done state and returns the updated
// line. The flip is a single server-side pipeline update, so two concurrent
// toggles land as two flips rather than a lost write.
func (s *Store) ToggleSubTask(ctx context.Context, subTaskID primitive.ObjectID) (models.SubTask, error) {
	var st models.SubTask
	err := s.subtasks.FindOneAndUpdate(ctx,
		bson.M{"_id": subTaskID},
		mongo.Pipeline{{{Key: "$set", Value: bson.M{"is_done": bson.M{"$not": "$is_done"}}}}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&st)
	if err == mongo.ErrNoDocuments {
		return models.SubTask{}, ErrNotFound
	}
	if err != nil {
		return models.SubTask{}, err
	}
	return st, nil
}

// AddComment appends a discussion entry to a live card.
func (s *Store) AddComment(ctx context.Context, taskID primitive.ObjectID, authorID, content string) (models.TaskComment, error) {
	if err := s.requireLive(ctx, taskID); err != nil {
		return models.TaskComment{}, err
	}
	c := models.TaskComment{
		ID:        primitive.NewObjectID(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.comments.InsertOne(ctx, c); err != nil {
		return models.TaskComment{}, err
	}
	return c, nil
}

// TaskWithDetails is a board card with its checklist and discussion attached.
type TaskWithDetails struct {
	models.Task
	SubTasks []models.SubTask     `json:"subtasks"`
	Comments []models.TaskComment `json:"comments"`
}

// ListByGroup returns the group's live board with subtasks and comments
// attached, three queries total.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]TaskWithDetails, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"group_id": groupID, "is_deleted": false},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var tasks []models.Task
	if err := cur.All(ctx, &tasks); err != nil {
		return nil, err
	}

	out := make([]TaskWithDetails, len(tasks))
	ids := make([]primitive.ObjectID, len(tasks))
	byID := make(map[primitive.ObjectID]*TaskWithDetails, len(tasks))
	for i, t := range tasks {
		out[i] = TaskWithDetails{Task: t, SubTasks: []models.SubTask{}, Comments: []models.TaskComment{}}
		ids[i] = t.ID
		byID[t.ID] = &out[i]
	}
	if len(ids) == 0 {
		return out, nil
	}

	scur, err := s.subtasks.Find(ctx,
		bson.M{"task_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer scur.Close(ctx)
	for scur.Next(ctx) {
		var st models.SubTask
		if err := scur.Decode(&st); err != nil {
			return nil, err
		}
		if parent, ok := byID[st.TaskID]; ok {
			parent.SubTasks = append(parent.SubTasks, st)
		}
	}
	if err := scur.Err(); err != nil {
		return nil, err
	}

	ccur, err := s.comments.Find(ctx,
		bson.M{"task_id": bson.M{"$in": ids}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer ccur.Close(ctx)
	for ccur.Next(ctx) {
		var c models.TaskComment
		if err := ccur.Decode(&c); err != nil {
			return nil, err
		}
		if parent, ok := byID[c.TaskID]; ok {
			parent.Comments = append(parent.Comments, c)
		}
	}
	if err := ccur.Err(); err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Store) requireLive(ctx context.Context, taskID primitive.ObjectID) error {
	n, err := s.c.CountDocuments(ctx, bson.M{"_id": taskID, "is_deleted": false})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
