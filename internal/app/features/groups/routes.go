// internal/app/features/groups/routes.go
package groups

import (
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	// Everything under /groups requires an authenticated actor.
	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireActor)

		// LIST / VIEW
		pr.Get("/", h.HandleListGroups)
		pr.Get("/{groupID}", h.HandleGetGroup)
		pr.Get("/{groupID}/members", h.HandleListMembers)

		// CREATE
		pr.Post("/", h.HandleCreateGroup)
		pr.Post("/with-members", h.HandleCreateGroupWithMembers)

		// PROJECT ASSIGNMENT
		pr.Put("/{groupID}/project", h.HandleAssignProject)

		// MEMBERSHIP
		pr.Post("/{groupID}/members", h.HandleAddMember)
		pr.Post("/{groupID}/join", h.HandleJoinGroup)
		pr.Delete("/{groupID}/members/{memberID}", h.HandleRemoveMember)

		// RETIRE (soft delete)
		pr.Delete("/{groupID}", h.HandleRetireGroup)

		// PURGE (hard delete, staff only)
		pr.With(auth.RequireRole(auth.RoleLecturer, auth.RoleAdmin)).
			Delete("/", h.HandlePurgeGroup)
	})

	return r
}
