// internal/app/store/members/memberstore.go
package memberstore

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
	ErrGroupNotFound  = errors.New("group not found")
	ErrMemberNotFound = errors.New("member not found")

	// ErrAlreadyMember means the student already holds a seat in this group.
	ErrAlreadyMember = errors.New("student is already a member of this group")

	// ErrGroupFull is only produced by the self-service Join path; Add is
	// the managed path and deliberately ignores capacity.
	ErrGroupFull = errors.New("group has reached its member capacity")

	// ErrCrossProjectConflict means the student already belongs to another
	// group assigned to the same project template.
	ErrCrossProjectConflict = errors.New("student already belongs to another group on this project")
)

type Store struct {
	c      *mongo.Collection
	groups *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection("members"),
		groups: db.Collection("groups"),
	}
}

// Add places a student into a group through the managed path (a lecturer or
// the leader doing roster maintenance). It does NOT check capacity — over-full
// groups are allowed here; only self-service Join enforces max_members.
// The first member of an empty group always becomes leader.
func (s *Store) Add(ctx context.Context, groupID primitive.ObjectID, userID, studentCode, fullName string) (models.Member, error) {
	g, err := s.liveGroup(ctx, groupID)
	if err != nil {
		return models.Member{}, err
	}

	if g.ProjectTemplateID != nil {
		conflict, err := s.hasProjectSeat(ctx, studentCode, *g.ProjectTemplateID)
		if err != nil {
			return models.Member{}, err
		}
		if conflict {
			return models.Member{}, ErrCrossProjectConflict
		}
	}

	n, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return models.Member{}, err
	}
	role := models.RoleMember
	if n == 0 {
		role = models.RoleLeader
	}

	return s.insert(ctx, groupID, userID, studentCode, fullName, role)
}

// Join is the self-service path: the student adds themself. Unlike Add it
// enforces capacity, and it reports the duplicate seat before the full group
// so the error a re-joining student sees is stable.
func (s *Store) Join(ctx context.Context, groupID primitive.ObjectID, userID, studentCode, fullName string) (models.Member, error) {
	g, err := s.liveGroup(ctx, groupID)
	if err != nil {
		return models.Member{}, err
	}

	taken, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID, "student_code": studentCode})
	if err != nil {
		return models.Member{}, err
	}
	if taken > 0 {
		return models.Member{}, ErrAlreadyMember
	}

	n, err := s.c.CountDocuments(ctx, bson.M{"group_id": groupID})
	if err != nil {
		return models.Member{}, err
	}
	if n >= int64(g.MaxMembers) {
		return models.Member{}, ErrGroupFull
	}

	if g.ProjectTemplateID != nil {
		conflict, err := s.hasProjectSeat(ctx, studentCode, *g.ProjectTemplateID)
		if err != nil {
			return models.Member{}, err
		}
		if conflict {
			return models.Member{}, ErrCrossProjectConflict
		}
	}

	role := models.RoleMember
	if n == 0 {
		role = models.RoleLeader
	}
	return s.insert(ctx, groupID, userID, studentCode, fullName, role)
}

func (s *Store) insert(ctx context.Context, groupID primitive.ObjectID, userID, studentCode, fullName, role string) (models.Member, error) {
	m := models.Member{
		ID:          primitive.NewObjectID(),
		GroupID:     groupID,
		UserID:      userID,
		StudentCode: studentCode,
		FullName:    fullName,
		Role:        role,
		JoinedAt:    time.Now().UTC(),
	}
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Member{}, ErrAlreadyMember
		}
		return models.Member{}, err
	}
	return m, nil
}

// Remove deletes a membership row. Leadership is not reassigned; a group
// whose leader leaves simply has no leader until one is added again.
func (s *Store) Remove(ctx context.Context, memberID primitive.ObjectID) error {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": memberID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrMemberNotFound
	}
	return nil
}

// Get returns one membership row.
func (s *Store) Get(ctx context.Context, memberID primitive.ObjectID) (models.Member, error) {
	var m models.Member
	err := s.c.FindOne(ctx, bson.M{"_id": memberID}).Decode(&m)
	if err == mongo.ErrNoDocuments {
		return models.Member{}, ErrMemberNotFound
	}
	if err != nil {
		return models.Member{}, err
	}
	return m, nil
}

// ListByGroup returns a group's roster in join order.
func (s *Store) ListByGroup(ctx context.Context, groupID primitive.ObjectID) ([]models.Member, error) {
	cur, err := s.c.Find(ctx, bson.M{"group_id": groupID},
		options.Find().SetSort(bson.D{{Key: "joined_at", Value: 1}, {Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	members := []models.Member{}
	if err := cur.All(ctx, &members); err != nil {
		return nil, err
	}
	return members, nil
}

func (s *Store) liveGroup(ctx context.Context, groupID primitive.ObjectID) (models.Group, error) {
	var g models.Group
	err := s.groups.FindOne(ctx, bson.M{"_id": groupID, "is_deleted": false}).Decode(&g)
	if err == mongo.ErrNoDocuments {
		return models.Group{}, ErrGroupNotFound
	}
	if err != nil {
		return models.Group{}, err
	}
	return g, nil
}

func (s *Store) hasProjectSeat(ctx context.Context, studentCode string, templateID primitive.ObjectID) (bool, error) {
	cur, err := s.groups.Find(ctx,
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

	n, err := s.c.CountDocuments(ctx, bson.M{
		"student_code": studentCode,
		"group_id":     bson.M{"$in": ids},
	})
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
