// internal/app/features/milestones/grades.go
package milestones

import (
	"context"
	"errors"
	"net/http"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	gradestore "github.com/hdngo/collabhub/internal/app/store/grades"
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/hdngo/collabhub/internal/app/system/sanitize"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
	"github.com/hdngo/collabhub/internal/domain/models"
)

type upsertGradeInput struct {
	Score    float64 `json:"score"`
	Feedback string  `json:"feedback,omitempty"`
}

// HandleUpsertGrade records the signed-in actor's score on a group
// milestone. Students grade as peers, lecturers as the lecturer; either
// way one row per grader, overwritten on re-grade.
func (h *Handler) HandleUpsertGrade(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
		return
	}

	actor, _ := auth.CurrentActor(r)
	graderRole := models.GraderStudent
	if actor.Role == auth.RoleLecturer || actor.Role == auth.RoleAdmin {
		graderRole = models.GraderLecturer
	}

	var in upsertGradeInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	g, err := h.Grades.Upsert(ctx, id, actor.ID, graderRole, in.Score, sanitize.Text(in.Feedback))
	if err != nil {
		switch {
		case errors.Is(err, gradestore.ErrMilestoneNotFound):
			apierrors.NotFound(w, "milestone not found")
		case errors.Is(err, gradestore.ErrInvalidScore), errors.Is(err, gradestore.ErrInvalidRole):
			apierrors.Unprocessable(w, "validation_failed", err.Error())
		default:
			h.ErrLog.LogServerError(w, r, "upsert grade", err)
		}
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, g)
}

// HandleListGrades returns every grade on the milestone.
func (h *Handler) HandleListGrades(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	grades, err := h.Grades.ListByMilestone(ctx, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list grades", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, grades)
}
