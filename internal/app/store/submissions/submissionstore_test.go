// internal/app/store/submissions/submissionstore_test.go
package submissionstore

import (
	"errors"
	"testing"
	"time"

	"github.com/hdngo/collabhub/internal/app/system/uploads"
	"github.com/hdngo/collabhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSubmitUpsertsInPlace(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := primitive.NewObjectID()
	g := f.CreateGroup(ctx, "Nhom1", "CN23A", &tmpl)
	ms := f.CreateTemplateMilestone(ctx, tmpl, "Sprint 1", 1)

	first, err := s.Submit(ctx, SubmitInput{
		GroupID:     g.ID,
		MilestoneID: ms.ID,
		SubmittedBy: "SV001",
		Content:     "https://example.com/v1",
	})
	if err != nil {
		t.Fatalf("first Submit: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	second, err := s.Submit(ctx, SubmitInput{
		GroupID:     g.ID,
		MilestoneID: ms.ID,
		SubmittedBy: "SV002",
		Content:     "https://example.com/v2",
	})
	if err != nil {
		t.Fatalf("second Submit: %v", err)
	}

	// Same document, newer payload and timestamp.
	if second.ID != first.ID {
		t.Errorf("re-submit created a new document")
	}
	if second.Content != "https://example.com/v2" || second.SubmittedBy != "SV002" {
		t.Errorf("re-submit did not replace payload: %+v", second)
	}
	if !second.SubmittedAt.After(first.SubmittedAt) {
		t.Errorf("submitted_at did not advance: %v -> %v", first.SubmittedAt, second.SubmittedAt)
	}

	n, err := db.Collection("submissions").CountDocuments(ctx, map[string]any{"group_id": g.ID})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("found %d submission documents, want 1", n)
	}
}

func TestSubmitFileThenLink(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := primitive.NewObjectID()
	g := f.CreateGroup(ctx, "Nhom1", "CN23A", &tmpl)
	ms := f.CreateTemplateMilestone(ctx, tmpl, "Sprint 1", 1)

	up, err := s.Submit(ctx, SubmitInput{
		GroupID:     g.ID,
		MilestoneID: ms.ID,
		SubmittedBy: "SV001",
		File: &uploads.Info{
			Path:     "submissions/abc_report.pdf",
			FileName: "report.pdf",
			Checksum: "deadbeef",
		},
	})
	if err != nil {
		t.Fatalf("file Submit: %v", err)
	}
	if up.Content != "submissions/abc_report.pdf" || up.FileName != "report.pdf" || up.Checksum != "deadbeef" {
		t.Errorf("file submit not recorded: %+v", up)
	}

	// A later link submit replaces the upload and clears its metadata.
	link, err := s.Submit(ctx, SubmitInput{
		GroupID:     g.ID,
		MilestoneID: ms.ID,
		SubmittedBy: "SV001",
		Content:     "https://example.com/final",
	})
	if err != nil {
		t.Fatalf("link Submit: %v", err)
	}
	if link.Content != "https://example.com/final" {
		t.Errorf("content = %q", link.Content)
	}
	if link.FileName != "" || link.Checksum != "" {
		t.Errorf("upload metadata survived a link submit: %+v", link)
	}
}

func TestSubmitValidatesParents(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := primitive.NewObjectID()
	g := f.CreateGroup(ctx, "Nhom1", "CN23A", &tmpl)
	ms := f.CreateTemplateMilestone(ctx, tmpl, "Sprint 1", 1)

	_, err := s.Submit(ctx, SubmitInput{GroupID: g.ID, MilestoneID: primitive.NewObjectID(), SubmittedBy: "SV001", Content: "x"})
	if !errors.Is(err, ErrMilestoneNotFound) {
		t.Errorf("missing milestone err = %v, want ErrMilestoneNotFound", err)
	}

	_, err = s.Submit(ctx, SubmitInput{GroupID: primitive.NewObjectID(), MilestoneID: ms.ID, SubmittedBy: "SV001", Content: "x"})
	if !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("missing group err = %v, want ErrGroupNotFound", err)
	}
}

func TestGradeOverwrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := primitive.NewObjectID()
	g := f.CreateGroup(ctx, "Nhom1", "CN23A", &tmpl)
	ms := f.CreateTemplateMilestone(ctx, tmpl, "Sprint 1", 1)

	sub, err := s.Submit(ctx, SubmitInput{GroupID: g.ID, MilestoneID: ms.ID, SubmittedBy: "SV001", Content: "x"})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}

	graded, err := s.Grade(ctx, sub.ID, "lecturer-1", 7.5, "good start")
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	if graded.Grade == nil || *graded.Grade != 7.5 || graded.GradedBy != "lecturer-1" {
		t.Errorf("grade not recorded: %+v", graded)
	}

	regraded, err := s.Grade(ctx, sub.ID, "lecturer-1", 9, "after revision")
	if err != nil {
		t.Fatalf("re-Grade: %v", err)
	}
	if regraded.Grade == nil || *regraded.Grade != 9 || regraded.Feedback != "after revision" {
		t.Errorf("re-grade did not overwrite: %+v", regraded)
	}

	if _, err := s.Grade(ctx, sub.ID, "lecturer-1", 10.5, ""); !errors.Is(err, ErrInvalidScore) {
		t.Errorf("score 10.5 err = %v, want ErrInvalidScore", err)
	}
	if _, err := s.Grade(ctx, primitive.NewObjectID(), "lecturer-1", 5, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("grade missing submission err = %v, want ErrNotFound", err)
	}

	// A re-submit after grading keeps the grade.
	resub, err := s.Submit(ctx, SubmitInput{GroupID: g.ID, MilestoneID: ms.ID, SubmittedBy: "SV002", Content: "y"})
	if err != nil {
		t.Fatalf("re-Submit: %v", err)
	}
	if resub.Grade == nil || *resub.Grade != 9 {
		t.Errorf("grade lost on re-submit: %+v", resub)
	}
}
