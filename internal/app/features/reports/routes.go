// internal/app/features/reports/routes.go
package reports

import (
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireActor)

		pr.Get("/milestones/{milestoneID}/grade-summary", h.HandleGradeSummary)
		pr.Get("/groups/{groupID}/contribution", h.HandleContribution)
		pr.Get("/groups/{groupID}/progress", h.HandleProgress)
	})

	return r
}
