// internal/app/store/tasks/taskstore_test.go
package taskstore

import (
	"errors"
	"testing"

	"github.com/hdngo/collabhub/internal/domain/models"
	"github.com/hdngo/collabhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestCreateForcesTodoAndValidatesPriority(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)

	task, err := s.Create(ctx, models.Task{
		GroupID:  g.ID,
		Title:    "Write report",
		Priority: 3,
		Status:   models.StatusDone, // ignored
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if task.Status != models.StatusTodo {
		t.Errorf("new card status = %v, want todo", task.Status)
	}

	if _, err := s.Create(ctx, models.Task{GroupID: g.ID, Title: "x", Priority: 6}); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("priority 6 err = %v, want ErrInvalidPriority", err)
	}
	if _, err := s.Create(ctx, models.Task{GroupID: g.ID, Title: "x", Priority: -1}); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("priority -1 err = %v, want ErrInvalidPriority", err)
	}

	if _, err := s.Create(ctx, models.Task{GroupID: primitive.NewObjectID(), Title: "x"}); !errors.Is(err, ErrGroupNotFound) {
		t.Errorf("missing group err = %v, want ErrGroupNotFound", err)
	}
}

func TestSetStatusAnyToAny(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	task := f.CreateTask(ctx, g.ID, "card", models.StatusTodo, nil)

	// No transition table: done straight from todo, then back again.
	for _, st := range []models.TaskStatus{models.StatusDone, models.StatusTodo, models.StatusInProgress} {
		if err := s.SetStatus(ctx, task.ID, st); err != nil {
			t.Fatalf("SetStatus(%v): %v", st, err)
		}
		got, err := s.Get(ctx, task.ID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if got.Status != st {
			t.Errorf("status = %v, want %v", got.Status, st)
		}
	}

	if err := s.SetStatus(ctx, task.ID, models.TaskStatus(3)); !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("status 3 err = %v, want ErrInvalidStatus", err)
	}
	if err := s.SetStatus(ctx, primitive.NewObjectID(), models.StatusDone); !errors.Is(err, ErrNotFound) {
		t.Errorf("missing card err = %v, want ErrNotFound", err)
	}
}

func TestSoftDeleteHidesFromBoard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	keep := f.CreateTask(ctx, g.ID, "keep", models.StatusTodo, nil)
	gone := f.CreateTask(ctx, g.ID, "gone", models.StatusTodo, nil)

	if err := s.SoftDelete(ctx, gone.ID, "u1"); err != nil {
		t.Fatalf("SoftDelete: %v", err)
	}

	board, err := s.ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(board) != 1 || board[0].ID != keep.ID {
		t.Fatalf("board has %d cards, want only the live one", len(board))
	}

	// A hidden card rejects further edits.
	if err := s.SetStatus(ctx, gone.ID, models.StatusDone); !errors.Is(err, ErrNotFound) {
		t.Errorf("SetStatus on deleted card err = %v, want ErrNotFound", err)
	}
	if _, err := s.AddSubTask(ctx, gone.ID, "late"); !errors.Is(err, ErrNotFound) {
		t.Errorf("AddSubTask on deleted card err = %v, want ErrNotFound", err)
	}
	if err := s.SoftDelete(ctx, gone.ID, "u1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("second SoftDelete err = %v, want ErrNotFound", err)
	}
}

func TestSubTaskToggle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	task := f.CreateTask(ctx, g.ID, "card", models.StatusTodo, nil)

	st, err := s.AddSubTask(ctx, task.ID, "step one")
	if err != nil {
		t.Fatalf("AddSubTask: %v", err)
	}
	if st.IsDone {
		t.Errorf("new subtask starts done")
	}

	st, err = s.ToggleSubTask(ctx, st.ID)
	if err != nil {
		t.Fatalf("ToggleSubTask: %v", err)
	}
	if !st.IsDone {
		t.Errorf("subtask not done after first toggle")
	}

	st, err = s.ToggleSubTask(ctx, st.ID)
	if err != nil {
		t.Fatalf("ToggleSubTask: %v", err)
	}
	if st.IsDone {
		t.Errorf("subtask still done after second toggle")
	}

	if _, err := s.ToggleSubTask(ctx, primitive.NewObjectID()); !errors.Is(err, ErrNotFound) {
		t.Errorf("toggle missing subtask err = %v, want ErrNotFound", err)
	}
}

func TestUpdateAndClearFields(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	assignee := primitive.NewObjectID()
	task := f.CreateTask(ctx, g.ID, "card", models.StatusTodo, &assignee)

	title := "renamed"
	prio := 5
	if err := s.Update(ctx, task.ID, UpdateFields{Title: &title, Priority: &prio, ClearAssignee: true}); err != nil {
		t.Fatalf("Update: %v", err)
	}

	got, err := s.Get(ctx, task.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Title != "renamed" || got.Priority != 5 {
		t.Errorf("update not applied: title=%q priority=%d", got.Title, got.Priority)
	}
	if got.AssignedTo != nil {
		t.Errorf("assignee not cleared")
	}

	bad := 9
	if err := s.Update(ctx, task.ID, UpdateFields{Priority: &bad}); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("priority 9 err = %v, want ErrInvalidPriority", err)
	}
}

func TestListByGroupAttachesDetails(t *testing.T) {
	db := testutil.SetupTestDB(t)
	s := New(db)
	f := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	g := f.CreateGroup(ctx, "Nhom1", "CN23A", nil)
	t1 := f.CreateTask(ctx, g.ID, "first", models.StatusTodo, nil)
	t2 := f.CreateTask(ctx, g.ID, "second", models.StatusTodo, nil)

	if _, err := s.AddSubTask(ctx, t1.ID, "a"); err != nil {
		t.Fatalf("AddSubTask: %v", err)
	}
	if _, err := s.AddSubTask(ctx, t1.ID, "b"); err != nil {
		t.Fatalf("AddSubTask: %v", err)
	}
	if _, err := s.AddComment(ctx, t2.ID, "u1", "looks good"); err != nil {
		t.Fatalf("AddComment: %v", err)
	}

	board, err := s.ListByGroup(ctx, g.ID)
	if err != nil {
		t.Fatalf("ListByGroup: %v", err)
	}
	if len(board) != 2 {
		t.Fatalf("board has %d cards, want 2", len(board))
	}
	byID := map[primitive.ObjectID]TaskWithDetails{}
	for _, c := range board {
		byID[c.ID] = c
	}
	if got := len(byID[t1.ID].SubTasks); got != 2 {
		t.Errorf("card 1 has %d subtasks, want 2", got)
	}
	if got := len(byID[t2.ID].Comments); got != 1 {
		t.Errorf("card 2 has %d comments, want 1", got)
	}
}
