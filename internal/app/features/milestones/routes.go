// internal/app/features/milestones/routes.go
package milestones

import (
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireActor)

		// TEMPLATE DEFINITIONS
		pr.Get("/templates/{templateID}", h.HandleListTemplateMilestones)
		pr.With(auth.RequireRole(auth.RoleLecturer, auth.RoleAdmin)).
			Post("/templates/{templateID}", h.HandleCreateTemplateMilestone)

		// SUBMISSIONS AGAINST TEMPLATE MILESTONES
		pr.Post("/templates/milestones/{milestoneID}/submissions", h.HandleSubmit)
		pr.Get("/submissions", h.HandleListSubmissions) // ?group=
		pr.With(auth.RequireRole(auth.RoleLecturer, auth.RoleAdmin)).
			Put("/submissions/{submissionID}/grade", h.HandleGradeSubmission)

		// AD HOC GROUP MILESTONES
		pr.Post("/groups/{groupID}", h.HandleCreateGroupMilestone)
		pr.Get("/groups/{groupID}", h.HandleListGroupMilestones)
		pr.Get("/{milestoneID}", h.HandleGetGroupMilestone)
		pr.Post("/{milestoneID}/submit", h.HandleSubmitGroupMilestone)
		pr.Put("/{milestoneID}/completion", h.HandleSetCompletion)
		pr.Put("/{milestoneID}/assignee", h.HandleAssign)
		pr.Post("/{milestoneID}/comments", h.HandleAddComment)
		pr.Get("/{milestoneID}/comments", h.HandleListComments)

		// PER-GRADER SCORES ON GROUP MILESTONES
		pr.Post("/{milestoneID}/grades", h.HandleUpsertGrade)
		pr.Get("/{milestoneID}/grades", h.HandleListGrades)
	})

	return r
}
