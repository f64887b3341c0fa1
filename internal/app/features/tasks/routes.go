// internal/app/features/tasks/routes.go
package tasks

import (
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(pr chi.Router) {
		pr.Use(auth.RequireActor)

		// BOARD
		pr.Get("/", h.HandleListBoard) // ?group=
		pr.Post("/", h.HandleCreateTask)

		// CARD
		pr.Get("/{taskID}", h.HandleGetTask)
		pr.Patch("/{taskID}", h.HandleUpdateTask)
		pr.Put("/{taskID}/status", h.HandleSetStatus)
		pr.Delete("/{taskID}", h.HandleDeleteTask)

		// CHECKLIST
		pr.Post("/{taskID}/subtasks", h.HandleAddSubTask)
		pr.Post("/subtasks/{subTaskID}/toggle", h.HandleToggleSubTask)

		// DISCUSSION
		pr.Post("/{taskID}/comments", h.HandleAddComment)
	})

	return r
}
