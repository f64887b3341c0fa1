// internal/app/features/tasks/details.go
package tasks

import (
	"context"
	"net/http"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/hdngo/collabhub/internal/app/system/sanitize"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
)

type contentInput struct {
	Content string `json:"content"`
}

// HandleAddSubTask appends a checklist line to a card.
func (h *Handler) HandleAddSubTask(w http.ResponseWriter, r *http.Request) {
	taskID, err := shared.ObjectIDParam(r, "taskID")
	if err != nil {
		apierrors.BadRequest(w, "invalid task id")
		return
	}

	var in contentInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}
	content := sanitize.Text(in.Content)
	if content == "" {
		apierrors.Unprocessable(w, "validation_failed", "content is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	st, err := h.Tasks.AddSubTask(ctx, taskID, content)
	if err != nil {
		h.writeTaskError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, st)
}

// HandleToggleSubTask flips a checklist line between done and not done.
func (h *Handler) HandleToggleSubTask(w http.ResponseWriter, r *http.Request) {
	subTaskID, err := shared.ObjectIDParam(r, "subTaskID")
	if err != nil {
		apierrors.BadRequest(w, "invalid subtask id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	st, err := h.Tasks.ToggleSubTask(ctx, subTaskID)
	if err != nil {
		h.writeTaskError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, st)
}

// HandleAddComment appends a discussion entry to a card, attributed to the
// signed-in actor.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	taskID, err := shared.ObjectIDParam(r, "taskID")
	if err != nil {
		apierrors.BadRequest(w, "invalid task id")
		return
	}

	actor, _ := auth.CurrentActor(r)

	var in contentInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}
	content := sanitize.Text(in.Content)
	if content == "" {
		apierrors.Unprocessable(w, "validation_failed", "content is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Tasks.AddComment(ctx, taskID, actor.ID, content)
	if err != nil {
		h.writeTaskError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, c)
}
