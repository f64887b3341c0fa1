// internal/app/features/groups/delete.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	groupstore "github.com/hdngo/collabhub/internal/app/store/groups"
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleRetireGroup soft-deletes a group: it disappears from every listing
// but the document stays, stamped with who retired it.
func (h *Handler) HandleRetireGroup(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	actor, _ := auth.CurrentActor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Groups.SoftDelete(ctx, id, actor.ID); err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			apierrors.NotFound(w, "group not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "retire group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandlePurgeGroup hard-deletes a group and its roster by class + name.
// Staff only; this is cleanup, not the normal retirement path.
func (h *Handler) HandlePurgeGroup(w http.ResponseWriter, r *http.Request) {
	classID := r.URL.Query().Get("class")
	name := r.URL.Query().Get("name")
	if classID == "" || name == "" {
		apierrors.BadRequest(w, "class and name are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if err := h.Groups.PurgeByClassAndName(ctx, classID, name); err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			apierrors.NotFound(w, "group not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "purge group", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignProjectInput struct {
	ProjectTemplateID string `json:"project_template_id"`
}

// HandleAssignProject points a group at a project template.
func (h *Handler) HandleAssignProject(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	var in assignProjectInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}
	tmpl, err := primitive.ObjectIDFromHex(in.ProjectTemplateID)
	if err != nil {
		apierrors.Unprocessable(w, "validation_failed", "project_template_id is not a valid id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Groups.AssignToProject(ctx, id, tmpl); err != nil {
		h.writeGroupError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
