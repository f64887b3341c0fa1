// internal/app/features/milestones/templates.go
package milestones

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	milestonestore "github.com/hdngo/collabhub/internal/app/store/milestones"
	"github.com/hdngo/collabhub/internal/app/system/sanitize"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
	"github.com/hdngo/collabhub/internal/domain/models"
)

type createTemplateMilestoneInput struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	OrderIndex  int        `json:"order_index"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	Questions   []string   `json:"questions,omitempty"`
}

// HandleCreateTemplateMilestone adds a milestone definition to a project
// template. Staff only.
func (h *Handler) HandleCreateTemplateMilestone(w http.ResponseWriter, r *http.Request) {
	templateID, err := shared.ObjectIDParam(r, "templateID")
	if err != nil {
		apierrors.BadRequest(w, "invalid template id")
		return
	}

	var in createTemplateMilestoneInput
	if err := shared.DecodeJSON(r, &in); err != nil {
		apierrors.BadRequest(w, "invalid JSON body")
		return
	}
	title := sanitize.Text(in.Title)
	if title == "" {
		apierrors.Unprocessable(w, "validation_failed", "title is required")
		return
	}

	questions := make([]string, 0, len(in.Questions))
	for _, q := range in.Questions {
		if q = sanitize.Text(q); q != "" {
			questions = append(questions, q)
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	ms, err := h.Milestones.Create(ctx, models.TemplateMilestone{
		ProjectTemplateID: templateID,
		Title:             title,
		Description:       sanitize.Text(in.Description),
		OrderIndex:        in.OrderIndex,
		Deadline:          in.Deadline,
		Questions:         questions,
	})
	if err != nil {
		if errors.Is(err, milestonestore.ErrDuplicateOrder) {
			apierrors.Conflict(w, "duplicate_order", err.Error())
			return
		}
		h.ErrLog.LogServerError(w, r, "create template milestone", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusCreated, ms)
}

// HandleListTemplateMilestones returns a template's milestones in order.
func (h *Handler) HandleListTemplateMilestones(w http.ResponseWriter, r *http.Request) {
	templateID, err := shared.ObjectIDParam(r, "templateID")
	if err != nil {
		apierrors.BadRequest(w, "invalid template id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Milestones.ListByTemplate(ctx, templateID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list template milestones", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, list)
}
