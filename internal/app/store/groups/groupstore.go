// internal/app/store/groups/groupstore.go
package groupstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/hdngo/collabhub/internal/app/system/txn"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

var (
	// ErrNotFound means the group does not exist or has been retired.
	ErrNotFound = errors.New("group not found")

	// ErrDuplicateAssignment means a live group with the same name is
	// already assigned to the same project within the class.
	ErrDuplicateAssignment = errors.New("this course group is already assigned to this project")

	// ErrCrossProjectConflict means one of the batch members already
	// belongs to another group on the same project template.
	ErrCrossProjectConflict = errors.New("student already belongs to another group on this project")
)

type Store struct {
	db      *mongo.Database
	c       *mongo.Collection
	members *mongo.Collection
	log     *zap.Logger
}

func New(db *mongo.Database, logger *zap.Logger) *Store {
	return &Store{
		db:      db,
		c:       db.Collection("groups"),
		members: db.Collection("members"),
		log:     logger,
	}
}

// GetByID returns a live (non-retired) group.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Group, error) {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"_id": id, "is_deleted": false}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, ErrNotFound
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

// Create inserts a new group. Capacity defaults to models.DefaultMaxMembers
// when unset or non-positive. The partial unique index on
// (class_id, name_ci, project_template_id) turns a duplicate assignment —
// including one raced in concurrently — into ErrDuplicateAssignment.
func (s *Store) Create(ctx context.Context, g models.Group) (models.Group, error) {
	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	if g.MaxMembers <= 0 {
		g.MaxMembers = models.DefaultMaxMembers
	}
	g.IsDeleted = false
	g.DeletedAt = nil
	g.DeletedBy = ""
	g.CreatedAt = now
	g.UpdatedAt = now

	if _, err := s.c.InsertOne(ctx, g); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, ErrDuplicateAssignment
		}
		return models.Group{}, err
	}
	return g, nil
}

// MemberEntry is one student in a batch group creation.
type MemberEntry struct {
	UserID      string
	StudentCode string
	FullName    string
	Role        string // optional; defaults to leader for the first entry, member otherwise
}

// CreateWithMembers creates the group and inserts all members in one
// transaction. The first entry becomes leader unless roles are given
// explicitly. Any member failure rolls the whole thing back — a partially
// populated group is never a valid outcome.
func (s *Store) CreateWithMembers(ctx context.Context, g models.Group, entries []MemberEntry) (models.Group, []models.Member, error) {
	// Registry-wide invariant: nobody in the batch may already hold a seat
	// in another group on the same project.
	if g.ProjectTemplateID != nil {
		for _, e := range entries {
			conflict, err := s.hasProjectSeat(ctx, e.StudentCode, *g.ProjectTemplateID)
			if err != nil {
				return models.Group{}, nil, err
			}
			if conflict {
				return models.Group{}, nil, ErrCrossProjectConflict
			}
		}
	}

	now := time.Now().UTC()
	g.ID = primitive.NewObjectID()
	g.NameCI = text.Fold(g.Name)
	if g.MaxMembers <= 0 {
		g.MaxMembers = models.DefaultMaxMembers
	}
	g.IsDeleted = false
	g.CreatedAt = now
	g.UpdatedAt = now

	members := make([]models.Member, 0, len(entries))
	for i, e := range entries {
		role := e.Role
		if role == "" {
			if i == 0 {
				role = models.RoleLeader
			} else {
				role = models.RoleMember
			}
		}
		members = append(members, models.Member{
			ID:          primitive.NewObjectID(),
			GroupID:     g.ID,
			UserID:      e.UserID,
			StudentCode: e.StudentCode,
			FullName:    e.FullName,
			Role:        role,
			JoinedAt:    now,
		})
	}

	err := txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.c.InsertOne(ctx, g); err != nil {
			return err
		}
		if len(members) == 0 {
			return nil
		}
		docs := make([]interface{}, len(members))
		for i := range members {
			docs[i] = members[i]
		}
		_, err := s.members.InsertMany(ctx, docs)
		return err
	})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Group{}, nil, ErrDuplicateAssignment
		}
		return models.Group{}, nil, err
	}
	return g, members, nil
}

// SoftDelete retires a group, keeping the document for audit with the
// acting user recorded.
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

// PurgeByClassAndName removes a group and its members outright. This is the
// administrative cleanup path; normal retirement is SoftDelete.
func (s *Store) PurgeByClassAndName(ctx context.Context, classID, name string) error {
	var g models.Group
	err := s.c.FindOne(ctx, bson.M{"class_id": classID, "name_ci": text.Fold(name)}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	return txn.Run(ctx, s.db, s.log, func(ctx context.Context) error {
		if _, err := s.members.DeleteMany(ctx, bson.M{"group_id": g.ID}); err != nil {
			return err
		}
		_, err := s.c.DeleteOne(ctx, bson.M{"_id": g.ID})
		return err
	})
}

// AssignToProject points a group at a project template. Compatibility of
// the template with the class's subject is not validated here; that is the
// caller's concern.
func (s *Store) AssignToProject(ctx context.Context, id, templateID primitive.ObjectID) error {
	res, err := s.c.UpdateOne(ctx,
		bson.M{"_id": id, "is_deleted": false},
		bson.M{"$set": bson.M{
			"project_template_id": templateID,
			"updated_at":          time.Now().UTC(),
		}})
	if err != nil {
		if wafflemongo.IsDup(err) {
			return ErrDuplicateAssignment
		}
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListByClass returns the live groups of a class, by name.
func (s *Store) ListByClass(ctx context.Context, classID string) ([]models.Group, error) {
	return s.list(ctx, bson.M{"class_id": classID, "is_deleted": false})
}

// ListByProject returns the live groups assigned to a project template.
func (s *Store) ListByProject(ctx context.Context, templateID primitive.ObjectID) ([]models.Group, error) {
	return s.list(ctx, bson.M{"project_template_id": templateID, "is_deleted": false})
}

// ListByStudent returns the live groups a student belongs to.
func (s *Store) ListByStudent(ctx context.Context, studentCode string) ([]models.Group, error) {
	cur, err := s.members.Find(ctx, bson.M{"student_code": studentCode})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var m models.Member
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		ids = append(ids, m.GroupID)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.Group{}, nil
	}
	return s.list(ctx, bson.M{"_id": bson.M{"$in": ids}, "is_deleted": false})
}

func (s *Store) list(ctx context.Context, filter bson.M) ([]models.Group, error) {
	cur, err := s.c.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	groups := []models.Group{}
	if err := cur.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

// hasProjectSeat reports whether the student already belongs to any live
// group assigned to the given template.
func (s *Store) hasProjectSeat(ctx context.Context, studentCode string, templateID primitive.ObjectID) (bool, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"project_template_id": templateID, "is_deleted": false},
		options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return false, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return false, err
		}
		ids = append(ids, row.ID)
	}
	if len(ids) == 0 {
		return false, nil
	}

	n, err := s.members.CountDocuments(ctx, bson.M{
		"student_code": studentCode,
		"group_id":     bson.M{"$in": ids},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
