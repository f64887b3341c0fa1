// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail fast.

The unique indexes are load-bearing: they are what turns a concurrent
double-submit or double-grade into a detectable duplicate-key error that the
stores translate into upsert-or-conflict semantics.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	ensure := func(name string, fn func(context.Context, *mongo.Database) error) {
		if err := fn(ctx, db); err != nil {
			problems = append(problems, name+": "+err.Error())
		}
	}

	ensure("groups", ensureGroups)
	ensure("members", ensureMembers)
	ensure("tasks", ensureTasks)
	ensure("subtasks", ensureSubTasks)
	ensure("task_comments", ensureTaskComments)
	ensure("template_milestones", ensureTemplateMilestones)
	ensure("submissions", ensureSubmissions)
	ensure("group_milestones", ensureGroupMilestones)
	ensure("group_milestone_comments", ensureGroupMilestoneComments)
	ensure("group_milestone_grades", ensureGroupMilestoneGrades)

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

// ensureIndexSet reconciles the desired indexes for one collection. An index
// whose key pattern already exists with different options is dropped and
// recreated; anything else is created if missing.
func ensureIndexSet(ctx context.Context, coll *mongo.Collection, models []mongo.IndexModel) error {
	existing, err := listIndexSigs(ctx, coll)
	if err != nil {
		return err
	}

	var errs []string
	for _, m := range models {
		name := ""
		if m.Options != nil && m.Options.Name != nil {
			name = *m.Options.Name
		}
		sig := keySig(m.Keys.(bson.D))

		if exName, ok := existing[sig]; ok {
			if exName == name {
				continue
			}
			// Same keys under a different name (or options drift): recreate.
			if _, err := coll.Indexes().DropOne(ctx, exName); err != nil {
				errs = append(errs, fmt.Sprintf("%s(%s): drop %s: %v", coll.Name(), name, exName, err))
				continue
			}
		}

		if _, err := coll.Indexes().CreateOne(ctx, m); err != nil {
			errs = append(errs, fmt.Sprintf("%s(%s): %v", coll.Name(), name, err))
			continue
		}
		zap.L().Info("index ensured",
			zap.String("collection", coll.Name()),
			zap.String("name", name),
			zap.String("keys", sig))
	}

	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func listIndexSigs(ctx context.Context, coll *mongo.Collection) (map[string]string, error) {
	sigs := map[string]string{} // key signature -> index name
	cur, err := coll.Indexes().List(ctx)
	if err != nil {
		// A collection that does not exist yet has no indexes to list.
		return sigs, nil
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var idx struct {
			Name string `bson:"name"`
			Key  bson.D `bson:"key"`
		}
		if err := cur.Decode(&idx); err != nil {
			zap.L().Warn("failed to decode existing index",
				zap.String("collection", coll.Name()),
				zap.Error(err))
			continue
		}
		sigs[keySig(idx.Key)] = idx.Name
	}
	return sigs, nil
}

func keySig(keys bson.D) string {
	parts := make([]string, 0, len(keys))
	for _, kv := range keys {
		parts = append(parts, fmt.Sprintf("%s:%v", kv.Key, kv.Value))
	}
	return strings.Join(parts, ", ")
}

/* -------------------------------------------------------------------------- */
/* Collection-specific index sets                                             */
/* -------------------------------------------------------------------------- */

func ensureGroups(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("groups")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One live assignment of a course-group to a project: the triple is
		// unique among non-deleted groups only, so a retired group's name
		// can be reused.
		{
			Keys: bson.D{
				{Key: "class_id", Value: 1},
				{Key: "name_ci", Value: 1},
				{Key: "project_template_id", Value: 1},
			},
			Options: options.Index().
				SetUnique(true).
				SetPartialFilterExpression(bson.M{"is_deleted": false}).
				SetName("uniq_groups_class_nameci_template_live"),
		},
		// Class listings
		{
			Keys: bson.D{
				{Key: "class_id", Value: 1},
				{Key: "is_deleted", Value: 1},
				{Key: "name_ci", Value: 1},
				{Key: "_id", Value: 1},
			},
			Options: options.Index().SetName("idx_groups_class_live_nameci__id"),
		},
		// Project listings and cross-project membership checks
		{
			Keys: bson.D{
				{Key: "project_template_id", Value: 1},
				{Key: "is_deleted", Value: 1},
			},
			Options: options.Index().SetName("idx_groups_template_live"),
		},
	})
}

func ensureMembers(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("members")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// One membership per student per group
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "student_code", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_members_group_student"),
		},
		// A student's groups (cross-project conflict checks, listings)
		{
			Keys:    bson.D{{Key: "student_code", Value: 1}, {Key: "group_id", Value: 1}},
			Options: options.Index().SetName("idx_members_student_group"),
		},
	})
}

func ensureTasks(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("tasks")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Board listing (live cards by column)
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "is_deleted", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_tasks_group_live_status"),
		},
		// Contribution counts (Done cards per assignee)
		{
			Keys: bson.D{
				{Key: "group_id", Value: 1},
				{Key: "is_deleted", Value: 1},
				{Key: "assigned_to", Value: 1},
				{Key: "status", Value: 1},
			},
			Options: options.Index().SetName("idx_tasks_group_live_assignee_status"),
		},
	})
}

func ensureSubTasks(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("subtasks")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_subtasks_task_created"),
		},
	})
}

func ensureTaskComments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("task_comments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "task_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_taskcomments_task_created"),
		},
	})
}

func ensureTemplateMilestones(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("template_milestones")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "project_template_id", Value: 1}, {Key: "order_index", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_tmilestones_template_order"),
		},
	})
}

func ensureSubmissions(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("submissions")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Natural key: one submission per (group, milestone). Re-submits
		// update in place; a concurrent duplicate insert trips this index.
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "milestone_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_submissions_group_milestone"),
		},
	})
}

func ensureGroupMilestones(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_milestones")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "group_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_gmilestones_group_created"),
		},
	})
}

func ensureGroupMilestoneComments(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_milestone_comments")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "milestone_id", Value: 1}, {Key: "created_at", Value: 1}},
			Options: options.Index().SetName("idx_gmcomments_milestone_created"),
		},
	})
}

func ensureGroupMilestoneGrades(ctx context.Context, db *mongo.Database) error {
	c := db.Collection("group_milestone_grades")
	return ensureIndexSet(ctx, c, []mongo.IndexModel{
		// Natural key: one grade per grader per milestone; re-grades are
		// last-write-wins, not an append-only log.
		{
			Keys:    bson.D{{Key: "milestone_id", Value: 1}, {Key: "grader_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_gmgrades_milestone_grader"),
		},
		{
			Keys:    bson.D{{Key: "milestone_id", Value: 1}, {Key: "grader_role", Value: 1}},
			Options: options.Index().SetName("idx_gmgrades_milestone_role"),
		},
	})
}
