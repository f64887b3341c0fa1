// internal/app/store/groups/groupstore_test.go
package groupstore

import (
	"errors"
	"testing"

	"github.com/hdngo/collabhub/internal/domain/models"
	"github.com/hdngo/collabhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func TestCreateDefaultsCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := s.Create(ctx, models.Group{Name: "Nhom1", ClassID: "CN23A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g.MaxMembers != models.DefaultMaxMembers {
		t.Errorf("MaxMembers = %d, want %d", g.MaxMembers, models.DefaultMaxMembers)
	}
	if g.NameCI != "nhom1" {
		t.Errorf("NameCI = %q, want %q", g.NameCI, "nhom1")
	}

	// Explicit non-positive capacity is clamped the same way.
	g2, err := s.Create(ctx, models.Group{Name: "Nhom2", ClassID: "CN23A", MaxMembers: -3})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if g2.MaxMembers != models.DefaultMaxMembers {
		t.Errorf("MaxMembers = %d, want %d", g2.MaxMembers, models.DefaultMaxMembers)
	}
}

func TestCreateDuplicateAssignment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := primitive.NewObjectID()

	if _, err := s.Create(ctx, models.Group{Name: "Nhom1", ClassID: "CN23A", ProjectTemplateID: &tmpl}); err != nil {
		t.Fatalf("first Create: %v", err)
	}

	// Same class, same project, same name up to case: rejected.
	_, err := s.Create(ctx, models.Group{Name: "NHOM1", ClassID: "CN23A", ProjectTemplateID: &tmpl})
	if !errors.Is(err, ErrDuplicateAssignment) {
		t.Fatalf("duplicate Create err = %v, want ErrDuplicateAssignment", err)
	}

	// Same name in a different class is fine.
	if _, err := s.Create(ctx, models.Group{Name: "Nhom1", ClassID: "CN23B", ProjectTemplateID: &tmpl}); err != nil {
		t.Errorf("Create in other class: %v", err)
	}

	// Same name on a different project within the class is fine too.
	other := primitive.NewObjectID()
	if _, err := s.Create(ctx, models.Group{Name: "Nhom1", ClassID: "CN23A", ProjectTemplateID: &other}); err != nil {
		t.Errorf("Create on other project: %v", err)
	}
}

func TestSoftDeleteFreesName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := primitive.NewObjectID()
	g, err := s.Create(ctx, models.Group{Name: "Nhom1", ClassID: "CN23A", ProjectTemplateID: &tmpl})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := s.SoftDelete(ctx, g.ID, "lecturer-1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}
	if _, err := s.GetByID(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID after retire err = %v, want ErrNotFound", err)
	}

	// The partial unique index only covers live groups, so the name is
	// immediately reusable.
	if _, err := s.Create(ctx, models.Group{Name: "Nhom1", ClassID: "CN23A", ProjectTemplateID: &tmpl}); err != nil {
		t.Errorf("Create after retire: %v", err)
	}

	if err := s.SoftDelete(ctx, primitive.NewObjectID(), "lecturer-1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("SoftDelete missing group err = %v, want ErrNotFound", err)
	}
}

func TestCreateWithMembers(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	entries := []MemberEntry{
		{UserID: "u1", StudentCode: "SV001", FullName: "An"},
		{UserID: "u2", StudentCode: "SV002", FullName: "Binh"},
		{UserID: "u3", StudentCode: "SV003", FullName: "Chi"},
	}
	g, members, err := s.CreateWithMembers(ctx, models.Group{Name: "Nhom1", ClassID: "CN23A"}, entries)
	if err != nil {
		t.Fatalf("CreateWithMembers: %v", err)
	}
	if len(members) != 3 {
		t.Fatalf("got %d members, want 3", len(members))
	}
	if members[0].Role != models.RoleLeader {
		t.Errorf("first member role = %q, want leader", members[0].Role)
	}
	for _, m := range members[1:] {
		if m.Role != models.RoleMember {
			t.Errorf("member %s role = %q, want member", m.StudentCode, m.Role)
		}
	}
	for _, m := range members {
		if m.GroupID != g.ID {
			t.Errorf("member %s group = %s, want %s", m.StudentCode, m.GroupID.Hex(), g.ID.Hex())
		}
	}
}

func TestCreateWithMembersCrossProjectConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, zap.NewNop())
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := primitive.NewObjectID()
	existing := f.CreateGroup(ctx, "Nhom1", "CN23A", &tmpl)
	f.AddMember(ctx, existing.ID, "SV001", "An", models.RoleLeader)

	_, _, err := s.CreateWithMembers(ctx,
		models.Group{Name: "Nhom2", ClassID: "CN23A", ProjectTemplateID: &tmpl},
		[]MemberEntry{{UserID: "u1", StudentCode: "SV001", FullName: "An"}})
	if !errors.Is(err, ErrCrossProjectConflict) {
		t.Fatalf("err = %v, want ErrCrossProjectConflict", err)
	}
}

func TestPurgeByClassAndName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, zap.NewNop())
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	f.AddMember(ctx, g.ID, "SV001", "An", models.RoleLeader)
	f.AddMember(ctx, g.ID, "SV002", "Binh", models.RoleMember)

	if err := s.PurgeByClassAndName(ctx, "CN23A", "nhom1"); err != nil {
		t.Fatalf("PurgeByClassAndName: %v", err)
	}

	n, err := db.Collection("groups").CountDocuments(ctx, map[string]any{"_id": g.ID})
	if err != nil {
		t.Fatalf("count groups: %v", err)
	}
	if n != 0 {
		t.Errorf("group still present after purge")
	}
	n, err = db.Collection("members").CountDocuments(ctx, map[string]any{"group_id": g.ID})
	if err != nil {
		t.Fatalf("count members: %v", err)
	}
	if n != 0 {
		t.Errorf("%d member rows survived purge", n)
	}

	if err := s.PurgeByClassAndName(ctx, "CN23A", "nhom1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second purge err = %v, want ErrNotFound", err)
	}
}

func TestListByStudentExcludesRetired(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, zap.NewNop())
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g1 := f.CreateGroup(ctx, "Alpha", "CN23A", nil)
	g2 := f.CreateGroup(ctx, "Beta", "CN23B", nil)
	f.AddMember(ctx, g1.ID, "SV001", "An", models.RoleLeader)
	f.AddMember(ctx, g2.ID, "SV001", "An", models.RoleMember)

	if err := s.SoftDelete(ctx, g2.ID, "lecturer-1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	groups, err := s.ListByStudent(ctx, "SV001")
	if err != nil {
		t.Fatalf("ListByStudent: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != g1.ID {
		t.Fatalf("ListByStudent returned %d groups, want only the live one", len(groups))
	}
}

func TestAssignToProject(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db, zap.NewNop())
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g, err := s.Create(ctx, models.Group{Name: "Nhom1", ClassID: "CN23A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	tmpl := primitive.NewObjectID()
	if err := s.AssignToProject(ctx, g.ID, tmpl); err != nil {
		t.Fatalf("AssignToProject: %v", err)
	}

	got, err := s.GetByID(ctx, g.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.ProjectTemplateID == nil || *got.ProjectTemplateID != tmpl {
		t.Errorf("ProjectTemplateID not updated")
	}

	if err := s.AssignToProject(ctx, primitive.NewObjectID(), tmpl); !errors.Is(err, ErrNotFound) {
		t.Errorf("assign to missing group err = %v, want ErrNotFound", err)
	}
}
