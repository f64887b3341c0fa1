// internal/app/features/milestones/groupmilestones.go
package milestones

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	groupmilestonestore "github.com/hdngo/collabhub/internal/app/store/groupmilestones"
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/hdngo/collabhub/internal/app/system/sanitize"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
	"github.com/hdngo/collabhub/internal/app/system/uploads"
	"github.com/hdngo/collabhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type createGroupMilestoneInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

// HandleCreateGroupMilestone adds an ad hoc milestone to a group.
func (h *Handler) HandleCreateGroupMilestone(w http.ResponseWriter, r *http.Request) {
	groupID, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	var in createGroupMilestoneInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}
	title := sanitize.Text(in.Title)
	if title == "" {
		apierrors.Unprocessable(w, "validation_failed", "title is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ms, err := h.GroupMS.Create(ctx, models.GroupMilestone{
		GroupID:     groupID,
		Title:       title,
		Description: sanitize.Text(in.Description),
		Deadline:    in.Deadline,
	})
	if err != nil {
		h.writeGroupMilestoneError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, ms)
}

// HandleListGroupMilestones returns a group's milestones in creation order.
func (h *Handler) HandleListGroupMilestones(w http.ResponseWriter, r *http.Request) {
	groupID, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.GroupMS.ListByGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list group milestones", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, list)
}

// HandleGetGroupMilestone returns one milestone.
func (h *Handler) HandleGetGroupMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ms, err := h.GroupMS.Get(ctx, id)
	if err != nil {
		h.writeGroupMilestoneError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, ms)
}

// HandleSubmitGroupMilestone records who delivered what and completes the
// milestone. Accepts multipart (optional "file") or plain JSON {content}.
func (h *Handler) HandleSubmitGroupMilestone(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
		return
	}

	actor, _ := auth.CurrentActor(r)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	var (
		content string
		file    *uploads.Info
	)
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			apierrors.BadRequest(w, "invalid multipart body")
			return
		}
		content = sanitize.Text(r.FormValue("content"))

		f, header, err := r.FormFile("file")
		switch err {
		case nil:
			defer f.Close()
			info, err := uploads.Save(ctx, h.Files, header.Filename, header.Header.Get("Content-Type"), f)
			if err != nil {
				h.ErrLog.LogServerError(w, r, "store milestone file", err)
				return
			}
			file = &info
		case http.ErrMissingFile:
			// text-only submission
		default:
			apierrors.BadRequest(w, "invalid file field")
			return
		}
	} else {
		var body contentInput
		if err := shared.DecodeJSON(r, &body); err != nil {
			apierrors.BadRequest(w, "invalid JSON body")
			return
		}
		content = sanitize.Text(body.Content)
	}

	ms, err := h.GroupMS.Submit(ctx, id, actor.ID, content, file)
	if err != nil {
		h.writeGroupMilestoneError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, ms)
}

type completionInput struct {
	Completed bool `json:"completed"`
}

// HandleSetCompletion toggles completion by hand. Re-opening keeps any
// recorded submission.
func (h *Handler) HandleSetCompletion(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
		return
	}

	var in completionInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.GroupMS.SetCompleted(ctx, id, in.Completed); err != nil {
		h.writeGroupMilestoneError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignInput struct {
	MemberID string `json:"member_id,omitempty"` // empty clears the assignment
}

// HandleAssign points the milestone at a member, or clears it.
func (h *Handler) HandleAssign(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
		return
	}

	var in assignInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}

	var memberID *primitive.ObjectID
	if in.MemberID != "" {
		id, err := primitive.ObjectIDFromHex(in.MemberID)
		if err != nil {
			apierrors.Unprocessable(w, "validation_failed", "member_id is not a valid id")
			return
		}
		memberID = &id
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	if err := h.GroupMS.Assign(ctx, id, memberID); err != nil {
		h.writeGroupMilestoneError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleAddComment appends a discussion entry to the milestone.
func (h *Handler) HandleAddComment(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
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

	c, err := h.GroupMS.AddComment(ctx, id, actor.ID, content)
	if err != nil {
		h.writeGroupMilestoneError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, c)
}

// HandleListComments returns the milestone's discussion in posting order.
func (h *Handler) HandleListComments(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	comments, err := h.GroupMS.ListComments(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list milestone comments", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, comments)
}

type contentInput struct {
	Content string `json:"content"`
}

func (h *Handler) writeGroupMilestoneError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, groupmilestonestore.ErrNotFound):
		apierrors.NotFound(w, "milestone not found")
	case errors.Is(err, groupmilestonestore.ErrGroupNotFound):
		apierrors.NotFound(w, "group not found")
	default:
		h.ErrLog.LogServerError(w, r, "group milestone error", err)
	}
}
