// internal/app/features/milestones/submissions.go
package milestones

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	submissionstore "github.com/hdngo/collabhub/internal/app/store/submissions"
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/hdngo/collabhub/internal/app/system/sanitize"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
	"github.com/hdngo/collabhub/internal/app/system/uploads"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxUploadBytes bounds in-memory parsing of multipart submissions.
const maxUploadBytes = 32 << 20

type submitInput struct {
	GroupID     string `json:"group_id"`
	Content     string `json:"content,omitempty"`
	Description string `json:"description,omitempty"`
}

// HandleSubmit records a group's delivery for a template milestone. The
// payload is either multipart (file field "file", plus group_id / content /
// description form fields) or plain JSON for link submissions. One
// submission per (group, milestone); re-submitting replaces it.
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	milestoneID, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
		return
	}

	actor, _ := auth.CurrentActor(r)

	in := submissionstore.SubmitInput{
		MilestoneID: milestoneID,
		SubmittedBy: actor.ID,
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
			apierrors.BadRequest(w, "invalid multipart body")
			return
		}
		groupID, err := primitive.ObjectIDFromHex(r.FormValue("group_id"))
		if err != nil {
			apierrors.Unprocessable(w, "validation_failed", "group_id is not a valid id")
			return
		}
		in.GroupID = groupID
		in.Content = strings.TrimSpace(r.FormValue("content"))
		in.Description = sanitize.Text(r.FormValue("description"))

		file, header, err := r.FormFile("file")
		switch err {
		case nil:
			defer file.Close()
			info, err := uploads.Save(ctx, h.Files, header.Filename, header.Header.Get("Content-Type"), file)
			if err != nil {
				h.ErrLog.LogServerError(w, r, "store submission file", err)
				return
			}
			in.File = &info
		case http.ErrMissingFile:
			// link/text submission via multipart form
		default:
			apierrors.BadRequest(w, "invalid file field")
			return
		}
	} else {
		var body submitInput
		if err := shared.DecodeJSON(r, &body); err != nil {
			apierrors.BadRequest(w, "invalid JSON body")
			return
		}
		groupID, err := primitive.ObjectIDFromHex(body.GroupID)
		if err != nil {
			apierrors.Unprocessable(w, "validation_failed", "group_id is not a valid id")
			return
		}
		in.GroupID = groupID
		in.Content = strings.TrimSpace(body.Content)
		in.Description = sanitize.Text(body.Description)
	}

	if in.File == nil && in.Content == "" {
		apierrors.Unprocessable(w, "validation_failed", "a file or content is required")
		return
	}

	sub, err := h.Submissions.Submit(ctx, in)
	if err != nil {
		h.writeSubmissionError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, sub)
}

type gradeSubmissionInput struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback,omitempty"`
}

// HandleGradeSubmission records the lecturer's 0-10 score on a submission.
// Grading again overwrites the previous score.
func (h *Handler) HandleGradeSubmission(w http.ResponseWriter, r *http.Request) {
	submissionID, err := shared.ObjectIDParam(r, "submissionID")
	if err != nil {
		apierrors.BadRequest(w, "invalid submission id")
		return
	}

	actor, _ := auth.CurrentActor(r)

	var in gradeSubmissionInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sub, err := h.Submissions.Grade(ctx, submissionID, actor.ID, in.Score, sanitize.Text(in.Feedback))
	if err != nil {
		h.writeSubmissionError(w, r, err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, sub)
}

// HandleListSubmissions returns a group's submissions, newest first.
func (h *Handler) HandleListSubmissions(w http.ResponseWriter, r *http.Request) {
	groupID, err := primitive.ObjectIDFromHex(r.URL.Query().Get("group"))
	if err != nil {
		apierrors.BadRequest(w, "group query parameter is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	subs, err := h.Submissions.ListByGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list submissions", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, subs)
}

func (h *Handler) writeSubmissionError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, submissionstore.ErrNotFound):
		apierrors.NotFound(w, "submission not found")
	case errors.Is(err, submissionstore.ErrMilestoneNotFound):
		apierrors.NotFound(w, "milestone not found")
	case errors.Is(err, submissionstore.ErrGroupNotFound):
		apierrors.NotFound(w, "group not found")
	case errors.Is(err, submissionstore.ErrInvalidScore):
		apierrors.Unprocessable(w, "validation_failed", err.Error())
	default:
		h.ErrLog.LogServerError(w, r, "submission error", err)
	}
}
