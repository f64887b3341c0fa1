// internal/app/features/tasks/card.go
package tasks

import (
	"context"
	"net/http"
	"time"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	taskstore "github.com/hdngo/collabhub/internal/app/store/tasks"
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/hdngo/collabhub/internal/app/system/sanitize"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type setStatusInput struct {
	Status int `json:"status"`
}

// HandleSetStatus drags a card to a column: 0 todo, 1 in progress, 2 done.
func (h *Handler) HandleSetStatus(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "taskID")
	if err != nil {
		apierrors.BadRequest(w, "invalid task id")
		return
	}

	var in setStatusInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tasks.SetStatus(ctx, id, models.TaskStatus(in.Status)); err != nil {
		h.writeTaskError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateTaskInput struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Priority      *int       `json:"priority,omitempty"`
	Deadline      *time.Time `json:"deadline,omitempty"`
	ClearDeadline bool       `json:"clear_deadline,omitempty"`
	AssignedTo    *string    `json:"assigned_to,omitempty"`
	ClearAssignee bool       `json:"clear_assignee,omitempty"`
}

// HandleUpdateTask applies a partial edit to a card. Absent fields stay as
// they are; the clear_* flags unset the optional ones.
func (h *Handler) HandleUpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "taskID")
	if err != nil {
		apierrors.BadRequest(w, "invalid task id")
		return
	}

	var in updateTaskInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}

	u := taskstore.UpdateFields{
		Priority:      in.Priority,
		Deadline:      in.Deadline,
		ClearDeadline: in.ClearDeadline,
		ClearAssignee: in.ClearAssignee,
	}
	if in.Title != nil {
		title := sanitize.Text(*in.Title)
		if title == "" {
			apierrors.Unprocessable(w, "validation_failed", "title must not be empty")
			return
		}
		u.Title = &title
	}
	if in.Description != nil {
		desc := sanitize.Text(*in.Description)
		u.Description = &desc
	}
	if in.AssignedTo != nil {
		assignee, err := primitive.ObjectIDFromHex(*in.AssignedTo)
		if err != nil {
			apierrors.Unprocessable(w, "validation_failed", "assigned_to is not a valid id")
			return
		}
		u.AssignedTo = &assignee
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tasks.Update(ctx, id, u); err != nil {
		h.writeTaskError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleDeleteTask hides a card from the board (soft delete).
func (h *Handler) HandleDeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "taskID")
	if err != nil {
		apierrors.BadRequest(w, "invalid task id")
		return
	}

	actor, _ := auth.CurrentActor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Tasks.SoftDelete(ctx, id, actor.ID); err != nil {
		h.writeTaskError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
