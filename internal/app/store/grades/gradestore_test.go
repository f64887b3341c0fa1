// internal/app/store/grades/gradestore_test.go
package gradestore

import (
	"errors"
	"testing"

	"github.com/hdngo/collabhub/internal/domain/models"
	"github.com/hdngo/collabhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestUpsertOnePerGrader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	ms := f.CreateGroupMilestone(ctx, g.ID, "Demo day")

	first, err := s.Upsert(ctx, ms.ID, "SV001", models.GraderStudent, 7, "ok")
	if err != nil {
		t.Fatalf("Upsert: %v", err)
	}

	second, err := s.Upsert(ctx, ms.ID, "SV001", models.GraderStudent, 9, "better")
	if err != nil {
		t.Fatalf("re-Upsert: %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("re-grade created a second document")
	}
	if second.Score != 9 || second.Feedback != "better" {
		t.Errorf("re-grade did not overwrite: %+v", second)
	}

	// A different grader gets their own row.
	if _, err := s.Upsert(ctx, ms.ID, "SV002", models.GraderStudent, 8, ""); err != nil {
		t.Fatalf("second grader Upsert: %v", err)
	}
	grades, err := s.ListByMilestone(ctx, ms.ID)
	if err != nil {
		t.Fatalf("ListByMilestone: %v", err)
	}
	if len(grades) != 2 {
		t.Fatalf("found %d grades, want 2", len(grades))
	}
}

func TestUpsertValidation(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	ms := f.CreateGroupMilestone(ctx, g.ID, "Demo day")

	if _, err := s.Upsert(ctx, ms.ID, "SV001", "teacher", 5, ""); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bad role err = %v, want ErrInvalidRole", err)
	}
	if _, err := s.Upsert(ctx, ms.ID, "SV001", models.GraderStudent, -1, ""); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("score -1 err = %v, want ErrInvalidScore", err)
	}
	if _, err := s.Upsert(ctx, ms.ID, "SV001", models.GraderStudent, 10.1, ""); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("score 10.1 err = %v, want ErrInvalidScore", err)
	}
	if _, err := s.Upsert(ctx, primitive.NewObjectID(), "SV001", models.GraderStudent, 5, ""); !errors.Is(err, ErrMilestoneNotFound) {
		t.Errorf("missing milestone err = %v, want ErrMilestoneNotFound", err)
	}

	// Boundary scores are fine.
	if _, err := s.Upsert(ctx, ms.ID, "SV001", models.GraderStudent, 0, ""); err != nil {
		t.Errorf("score 0: %v", err)
	}
	if _, err := s.Upsert(ctx, ms.ID, "lecturer-1", models.GraderLecturer, 10, ""); err != nil {
		t.Errorf("score 10: %v", err)
	}
}
