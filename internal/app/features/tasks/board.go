// internal/app/features/tasks/board.go
package tasks

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	taskstore "github.com/hdngo/collabhub/internal/app/store/tasks"
	"github.com/hdngo/collabhub/internal/app/system/sanitize"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createTaskInput struct {
	GroupID     string     `json:"group_id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Priority    int        `json:"priority,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	AssignedTo  string     `json:"assigned_to,omitempty"`
}

// HandleCreateTask puts a new card on a group's board. New cards always
// start in the todo column.
func (h *Handler) HandleCreateTask(w http.ResponseWriter, r *http.Request) {
	var in createTaskInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}

	groupID, err := primitive.ObjectIDFromHex(in.GroupID)
	if err != nil {
		apierrors.Unprocessable(w, "validation_failed", "group_id is not a valid id")
		return
	}
	title := sanitize.Text(in.Title)
	if title == "" {
		apierrors.Unprocessable(w, "validation_failed", "title is required")
		return
	}

	t := models.Task{
		GroupID:     groupID,
		Title:       title,
		Description: sanitize.Text(in.Description),
		Priority:    in.Priority,
		Deadline:    in.Deadline,
	}
	if in.AssignedTo != "" {
		assignee, err := primitive.ObjectIDFromHex(in.AssignedTo)
		if err != nil {
			apierrors.Unprocessable(w, "validation_failed", "assigned_to is not a valid id")
			return
		}
		t.AssignedTo = &assignee
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Tasks.Create(ctx, t)
	if err != nil {
		h.writeTaskError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, created)
}

// HandleListBoard returns a group's live board, checklists and discussion
// included.
func (h *Handler) HandleListBoard(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("group"))
	if err != nil {
		apierrors.BadRequest(w, "group query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	board, err := h.Tasks.ListByGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list board", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, board)
}

// HandleGetTask returns one live card.
func (h *Handler) HandleGetTask(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "taskID")
	if err != nil {
		apierrors.BadRequest(w, "invalid task id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	t, err := h.Tasks.Get(ctx, id)
	if err != nil {
		h.writeTaskError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, t)
}

func (h *Handler) writeTaskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, taskstore.ErrNotFound):
		apierrors.NotFound(w, "task not found")
	case errors.Is(err, taskstore.ErrGroupNotFound):
		apierrors.NotFound(w, "group not found")
	case errors.Is(err, taskstore.ErrInvalidPriority),
		errors.Is(err, taskstore.ErrInvalidStatus):
		apierrors.Unprocessable(w, "validation_failed", err.Error())
	default:
		h.ErrLog.LogServerError(w, r, "task board error", err)
	}
}
