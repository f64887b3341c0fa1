// internal/app/features/reports/reports.go
package reports

import (
	"context"
	"errors"
	"net/http"

	"github.com/hdngo/collabhub/internal/app/features/apierrors"
	"github.com/hdngo/collabhub/internal/app/features/shared"
	groupstore "github.com/hdngo/collabhub/internal/app/store/groups"
	"github.com/hdngo/collabhub/internal/app/store/queries/contribution"
	"github.com/hdngo/collabhub/internal/app/store/queries/gradesummary"
	"github.com/hdngo/collabhub/internal/app/system/timeouts"
)

// HandleGradeSummary returns the peer average and the lecturer's grade for
// one group milestone, kept strictly apart.
func (h *Handler) HandleGradeSummary(w http.ResponseWriter, r *http.Request) {
	id, err := shared.ObjectIDParam(r, "milestoneID")
	if err != nil {
		apierrors.BadRequest(w, "invalid milestone id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	sum, err := gradesummary.Summarize(ctx, h.DB, id)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "grade summary", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, sum)
}

type contributionRow struct {
	MemberID    string `json:"member_id"`
	StudentCode string `json:"student_code"`
	FullName    string `json:"full_name"`
	Done        int64  `json:"done"`
	Percent     int    `json:"percent"`
}

type contributionReport struct {
	GroupID   string            `json:"group_id"`
	TotalDone int64             `json:"total_done"`
	Members   []contributionRow `json:"members"`
}

// HandleContribution returns every member's share of the group's finished
// cards. Members with no finished card show up at zero.
func (h *Handler) HandleContribution(w http.ResponseWriter, r *http.Request) {
	groupID, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if _, err := h.Groups.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			apierrors.NotFound(w, "group not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "get group", err)
		return
	}

	members, err := h.Members.ListByGroup(ctx, groupID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list members", err)
		return
	}

	shares, total, err := contribution.GroupShares(ctx, h.DB, groupID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "contribution shares", err)
		return
	}
	byMember := map[string]contribution.MemberShareRow{}
	for _, s := range shares {
		byMember[s.MemberID.Hex()] = s
	}

	report := contributionReport{
		GroupID:   groupID.Hex(),
		TotalDone: total,
		Members:   make([]contributionRow, 0, len(members)),
	}
	for _, m := range members {
		row := contributionRow{
			MemberID:    m.ID.Hex(),
			StudentCode: m.StudentCode,
			FullName:    m.FullName,
		}
		if s, ok := byMember[m.ID.Hex()]; ok {
			row.Done = s.Done
			row.Percent = s.Percent
		}
		report.Members = append(report.Members, row)
	}
	apierrors.WriteJSON(w, http.StatusOK, report)
}

type progressReport struct {
	GroupID string `json:"group_id"`
	Percent int    `json:"percent"`
}

// HandleProgress returns how far the group has advanced through its
// project's milestones.
func (h *Handler) HandleProgress(w http.ResponseWriter, r *http.Request) {
	groupID, err := shared.ObjectIDParam(r, "groupID")
	if err != nil {
		apierrors.BadRequest(w, "invalid group id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	g, err := h.Groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(err, groupstore.ErrNotFound) {
			apierrors.NotFound(w, "group not found")
			return
		}
		h.ErrLog.LogServerError(w, r, "get group", err)
		return
	}

	pct, err := contribution.ProjectProgress(ctx, h.DB, g)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "project progress", err)
		return
	}
	apierrors.WriteJSON(w, http.StatusOK, progressReport{GroupID: groupID.Hex(), Percent: pct})
}
