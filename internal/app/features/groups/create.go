// internal/app/features/groups/create.go
package groups

import (
	"context"
	"errors"
	"net/http"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	groupstore "github.com/hdngo/collabhub/internal/app/store/groups"
	"github.com/hdngo/collabhub/internal/app/system/sanitize"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createGroupInput struct {
	Name              string `json:"name"`
	ClassID           string `json:"class_id"`
	ProjectTemplateID string `json:"project_template_id,omitempty"`
	MaxMembers        int    `json:"max_members,omitempty"`
}

type memberEntryInput struct {
	UserID      string `json:"user_id"`
	StudentCode string `json:"student_code"`
	FullName    string `json:"full_name"`
	Role        string `json:"role,omitempty"`
}

type createWithMembersInput struct {
	createGroupInput
	Members []memberEntryInput `json:"members"`
}

// HandleCreateGroup creates an empty group in a class.
func (h *Handler) HandleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var in createGroupInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}

	g, ok := h.groupFromInput(w, in)
	if !ok {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	created, err := h.Groups.Create(ctx, g)
	if err != nil {
		h.writeGroupError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, created)
}

// HandleCreateGroupWithMembers creates a group and its initial roster in
// one shot. The first member leads unless roles are given explicitly.
func (h *Handler) HandleCreateGroupWithMembers(w http.ResponseWriter, r *http.Request) {
	var in createWithMembersInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}
	if len(in.Members) == 0 {
		apierrors.Unprocessable(w, "validation_failed", "members must not be empty")
		return
	}

	g, ok := h.groupFromInput(w, in.createGroupInput)
	if !ok {
		return
	}

	entries := make([]groupstore.MemberEntry, 0, len(in.Members))
	for _, m := range in.Members {
		if m.StudentCode == "" {
			apierrors.Unprocessable(w, "validation_failed", "every member needs a student_code")
			return
		}
		if m.Role != "" && m.Role != models.RoleLeader && m.Role != models.RoleMember {
			apierrors.Unprocessable(w, "validation_failed", "role must be leader or member")
			return
		}
		entries = append(entries, groupstore.MemberEntry{
			UserID:      m.UserID,
			StudentCode: m.StudentCode,
			FullName:    sanitize.Text(m.FullName),
			Role:        m.Role,
		})
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	created, members, err := h.Groups.CreateWithMembers(ctx, g, entries)
	if err != nil {
		h.writeGroupError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, map[string]any{
		"group":   created,
		"members": members,
	})
}

func (h *Handler) groupFromInput(w http.ResponseWriter, in createGroupInput) (models.Group, bool) {
	name := sanitize.Text(in.Name)
	if name == "" {
		apierrors.Unprocessable(w, "validation_failed", "name is required")
		return models.Group{}, false
	}
	if in.ClassID == "" {
		apierrors.Unprocessable(w, "validation_failed", "class_id is required")
		return models.Group{}, false
	}

	g := models.Group{
		Name:       name,
		ClassID:    in.ClassID,
		MaxMembers: in.MaxMembers,
	}
	if in.ProjectTemplateID != "" {
		tmpl, err := primitive.ObjectIDFromHex(in.ProjectTemplateID)
		if err != nil {
			apierrors.Unprocessable(w, "validation_failed", "project_template_id is not a valid id")
			return models.Group{}, false
		}
		g.ProjectTemplateID = &tmpl
	}
	return g, true
}

func (h *Handler) writeGroupError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, groupstore.ErrNotFound):
		apierrors.NotFound(w, "group not found")
	case errors.Is(err, groupstore.ErrDuplicateAssignment):
		apierrors.Conflict(w, "duplicate_assignment", err.Error())
	case errors.Is(err, groupstore.ErrCrossProjectConflict):
		apierrors.Conflict(w, "cross_project_conflict", err.Error())
	default:
		h.ErrLog.LogServerError(w, r, "group registry error", err)
	}
}
