// internal/app/store/queries/contribution/contribution.go

// Package contribution computes the per-member share of finished board work
// and a group's progress through its project's milestones. Both figures are
// whole percentages, rounded half away from zero.
package contribution

import (
	"context"
	"math"

	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Percent returns part/whole as a rounded whole percentage. Zero whole means
// zero percent: a member of a group with no finished work has contributed
// nothing, not an undefined amount.
func Percent(part, whole int64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}

// MemberShare returns one member's share of the group's Done cards.
// Soft-deleted cards never count.
func MemberShare(ctx context.Context, db *mongo.Database, groupID, memberID primitive.ObjectID) (int, error) {
	tasks := db.Collection("tasks")

	whole, err := tasks.CountDocuments(ctx, bson.M{
		"group_id":   groupID,
		"is_deleted": false,
		"status":     models.StatusDone,
	})
	if err != nil {
		return 0, err
	}
	if whole == 0 {
		return 0, nil
	}

	part, err := tasks.CountDocuments(ctx, bson.M{
		"group_id":    groupID,
		"is_deleted":  false,
		"status":      models.StatusDone,
		"assigned_to": memberID,
	})
	if err != nil {
		return 0, err
	}
	return Percent(part, whole), nil
}

// MemberShareRow is one assignee's slice of the group total.
type MemberShareRow struct {
	MemberID primitive.ObjectID `json:"member_id"`
	Done     int64              `json:"done"`
	Percent  int                `json:"percent"`
}

// GroupShares returns the Done-card share of every assignee in one pass.
// Cards finished without an assignee count toward the total but belong to
// no member's slice, so the percentages need not sum to 100.
func GroupShares(ctx context.Context, db *mongo.Database, groupID primitive.ObjectID) ([]MemberShareRow, int64, error) {
	cur, err := db.Collection("tasks").Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"group_id":   groupID,
			"is_deleted": false,
			"status":     models.StatusDone,
		}}},
		{{Key: "$group", Value: bson.M{
			"_id":  "$assigned_to",
			"done": bson.M{"$sum": 1},
		}}},
	})
	if err != nil {
		return nil, 0, err
	}
	defer cur.Close(ctx)

	type row struct {
		MemberID *primitive.ObjectID `bson:"_id"`
		Done     int64               `bson:"done"`
	}
	var rows []row
	var total int64
	for cur.Next(ctx) {
		var r row
		if err := cur.Decode(&r); err != nil {
			return nil, 0, err
		}
		rows = append(rows, r)
		total += r.Done
	}
	if err := cur.Err(); err != nil {
		return nil, 0, err
	}

	out := []MemberShareRow{}
	for _, r := range rows {
		if r.MemberID == nil {
			continue
		}
		out = append(out, MemberShareRow{
			MemberID: *r.MemberID,
			Done:     r.Done,
			Percent:  Percent(r.Done, total),
		})
	}
	return out, total, nil
}

// ProjectProgress returns how far a group has advanced through its project:
// submitted milestones over defined milestones, as a rounded percentage.
// A group with no project, or a project with no milestones, is at zero.
func ProjectProgress(ctx context.Context, db *mongo.Database, group models.Group) (int, error) {
	if group.ProjectTemplateID == nil {
		return 0, nil
	}

	cur, err := db.Collection("template_milestones").Find(ctx,
		bson.M{"project_template_id": *group.ProjectTemplateID})
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)

	var ids []primitive.ObjectID
	for cur.Next(ctx) {
		var row struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&row); err != nil {
			return 0, err
		}
		ids = append(ids, row.ID)
	}
	if err := cur.Err(); err != nil {
		return 0, err
	}
	if len(ids) == 0 {
		return 0, nil
	}

	submitted, err := db.Collection("submissions").CountDocuments(ctx, bson.M{
		"group_id":     group.ID,
		"milestone_id": bson.M{"$in": ids},
	})
	if err != nil {
		return 0, err
	}
	return Percent(submitted, int64(len(ids))), nil
}
