// internal/app/features/groups/list.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	groupstore "github.com/hdngo/collabhub/internal/app/store/groups"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// HandleListGroups lists live groups by one of three filters:
// ?class=, ?project= or ?student=.
func (h *Handler) HandleListGroups(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	q := r.URL.Query()
	var (
		groups []models.Group
		err    error
	)
	switch {
	case q.Get("class") != "":
		groups, err = h.Groups.ListByClass(ctx, q.Get("class"))
	case q.Get("project") != "":
		var tmpl primitive.ObjectID
		tmpl, err = primitive.ObjectIDFromHex(q.Get("project"))
		if err != nil {
			apierrors.BadRequest(w, "project is not a valid id")
			return
		}
		groups, err = h.Groups.ListByProject(ctx, tmpl)
	case q.Get("student") != "":
		groups, err = h.Groups.ListByStudent(ctx, q.Get("student"))
	default:
		apierrors.BadRequest(w, "one of class, project or student is required")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list groups", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, groups)
}

// HandleGetGroup returns one live group.
func (h *Handler) HandleGetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, id)
	if errors.Is(err, groupstore.ErrNotFound) {
		apierrors.NotFound(w, "group not found")
		return
	}
	if err != nil {
		h.ErrLog.LogServerError(w, r, "get group", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, g)
}

// HandleListMembers returns a group's roster.
func (h *Handler) HandleListMembers(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	// The roster endpoint 404s for retired groups like every other read.
	if _, err := h.Groups.GetByID(ctx, id); errors.Is(err, groupstore.ErrNotFound) {
		apierrors.NotFound(w, "group not found")
		return
	} else if err != nil {
		h.ErrLog.LogServerError(w, r, "get group", err)
		return
	}

	members, err := h.Members.ListByGroup(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, members)
}
