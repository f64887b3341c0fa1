// internal/app/store/members/memberstore_test.go
package memberstore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/hdngo/collabhub/internal/domain/models"
	"github.com/hdngo/collabhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFirstMemberBecomesLeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)

	first, err := s.Add(ctx, g.ID, "u1", "SV001", "An")
	if err != nil {
		t.Fatalf("Add first: %v", err)
	}
	if first.Role != models.RoleLeader {
		t.Errorf("first member role = %q, want leader", first.Role)
	}

	second, err := s.Add(ctx, g.ID, "u2", "SV002", "Binh")
	if err != nil {
		t.Fatalf("Add second: %v", err)
	}
	if second.Role != models.RoleMember {
		t.Errorf("second member role = %q, want member", second.Role)
	}
}

func TestAddIgnoresCapacity(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil) // capacity 5
	for i := 1; i <= 5; i++ {
		code := fmt.Sprintf("SV%03d", i)
		f.AddMember(ctx, g.ID, code, "Student "+code, models.RoleMember)
	}

	// The managed path may over-fill a group.
	if _, err := s.Add(ctx, g.ID, "u6", "SV006", "Sau"); err != nil {
		t.Fatalf("Add into full group: %v", err)
	}

	// The self-service path may not.
	if _, err := s.Join(ctx, g.ID, "u7", "SV007", "Bay"); !errors.Is(err, ErrGroupFull) {
		t.Fatalf("Join into full group err = %v, want ErrGroupFull", err)
	}
}

func TestJoinReportsAlreadyMemberBeforeFull(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	for i := 1; i <= 5; i++ {
		code := fmt.Sprintf("SV%03d", i)
		f.AddMember(ctx, g.ID, code, "Student "+code, models.RoleMember)
	}

	// SV001 is already in and the group is full; the duplicate wins.
	if _, err := s.Join(ctx, g.ID, "u1", "SV001", "An"); !errors.Is(err, ErrAlreadyMember) {
		t.Fatalf("re-join err = %v, want ErrAlreadyMember", err)
	}
}

func TestCrossProjectConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	tmpl := primitive.NewObjectID()
	g1 := f.CreateGroup(ctx, "Nhom1", "CN23A", &tmpl)
	g2 := f.CreateGroup(ctx, "Nhom2", "CN23A", &tmpl)
	f.AddMember(ctx, g1.ID, "SV001", "An", models.RoleLeader)

	if _, err := s.Join(ctx, g2.ID, "u1", "SV001", "An"); !errors.Is(err, ErrCrossProjectConflict) {
		t.Errorf("Join err = %v, want ErrCrossProjectConflict", err)
	}
	if _, err := s.Add(ctx, g2.ID, "u1", "SV001", "An"); !errors.Is(err, ErrCrossProjectConflict) {
		t.Errorf("Add err = %v, want ErrCrossProjectConflict", err)
	}

	// A group on a different project (or none) takes the student fine.
	g3 := f.CreateGroup(ctx, "Nhom3", "CN23B", nil)
	if _, err := s.Join(ctx, g3.ID, "u1", "SV001", "An"); err != nil {
		t.Errorf("Join unassigned group: %v", err)
	}
}

func TestJoinRetiredGroup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	res, err := db.Collection("groups").UpdateByID(ctx, g.ID,
		map[string]any{"$set": map[string]any{"is_deleted": true}})
	if err != nil || res.MatchedCount == 0 {
		t.Fatalf("retire group: %v", err)
	}

	if _, err := s.Join(ctx, g.ID, "u1", "SV001", "An"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("Join retired group err = %v, want ErrGroupNotFound", err)
	}
	if _, err := s.Add(ctx, g.ID, "u1", "SV001", "An"); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("Add to retired group err = %v, want ErrGroupNotFound", err)
	}
}

func TestRemove(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	m := f.AddMember(ctx, g.ID, "SV001", "An", models.RoleLeader)

	if err := s.Remove(ctx, m.ID); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if err := s.Remove(ctx, m.ID); !errors.Is(err, ErrMemberNotFound) {
		t.Errorf("second Remove err = %v, want ErrMemberNotFound", err)
	}

	members, err := s.ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(members) != 0 {
		t.Errorf("roster has %d members after removal, want 0", len(members))
	}
}
