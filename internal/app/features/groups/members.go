// internal/app/features/groups/members.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	memberstore "github.com/hdngo/collabhub/internal/app/store/members"
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/hdngo/collabhub/internal/app/system/sanitize"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
)

type addMemberInput struct {
	UserID      string `json:"user_id"`
	StudentCode string `json:"student_code"`
	FullName    string `json:"full_name"`
}

// HandleAddMember is the managed roster path: someone places a student into
// the group. Capacity is deliberately not enforced here.
func (h *Handler) HandleAddMember(w http.ResponseWriter, r *http.Request) {
	groupID, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	var in addMemberInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}
	if in.StudentCode == "" {
		apierrors.Unprocessable(w, "validation_failed", "student_code is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.Add(ctx, groupID, in.UserID, in.StudentCode, sanitize.Text(in.FullName))
	if err != nil {
		h.writeMemberError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, m)
}

type joinInput struct {
	StudentCode string `json:"student_code"`
	FullName    string `json:"full_name"`
}

// HandleJoinGroup is the self-service path: the signed-in student takes a
// seat themself. This is the only path that enforces max_members.
func (h *Handler) HandleJoinGroup(w http.ResponseWriter, r *http.Request) {
	groupID, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	actor, _ := auth.CurrentActor(r)

	var in joinInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}
	if in.StudentCode == "" {
		apierrors.Unprocessable(w, "validation_failed", "student_code is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	m, err := h.Members.Join(ctx, groupID, actor.ID, in.StudentCode, sanitize.Text(in.FullName))
	if err != nil {
		h.writeMemberError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, m)
}

// HandleRemoveMember frees a seat. The leader's seat is removable like any
// other; the group then simply has no leader.
func (h *Handler) HandleRemoveMember(w http.ResponseWriter, r *http.Request) {
	memberID, err := shared.ObjectIDParam(r, "memberID")
	if err != nil {
		apierrors.BadRequest(w, "invalid member id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.Members.Remove(ctx, memberID); err != nil {
		h.writeMemberError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeMemberError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, memberstore.ErrGroupNotFound):
		apierrors.NotFound(w, "group not found")
	case errors.Is(err, memberstore.ErrMemberNotFound):
		apierrors.NotFound(w, "member not found")
	case errors.Is(err, memberstore.ErrAlreadyMember):
		apierrors.Conflict(w, "already_member", err.Error())
	case errors.Is(err, memberstore.ErrGroupFull):
		apierrors.Conflict(w, "group_full", err.Error())
	case errors.Is(err, memberstore.ErrCrossProjectConflict):
		apierrors.Conflict(w, "cross_project_conflict", err.Error())
	default:
		h.ErrLog.LogServerError(w, r, "membership error", err)
	}
}
