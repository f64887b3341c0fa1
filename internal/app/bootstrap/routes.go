// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	groupsfeature "github.com/hdngo/collabhub/internal/app/features/groups"
	healthfeature "github.com/hdngo/collabhub/internal/app/features/health"
	milestonesfeature "github.com/hdngo/collabhub/internal/app/features/milestones"
	reportsfeature "github.com/hdngo/collabhub/internal/app/features/reports"
	tasksfeature "github.com/hdngo/collabhub/internal/app/features/tasks"
	"github.com/hdngo/collabhub/internal/app/system/auth"
	"github.com/hdngo/collabhub/internal/app/system/metrics"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. CollabHub wires the identity verifier,
// request metrics and the blob store, then mounts one subrouter per feature:
// groups, tasks, milestones, reports and health.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	verifier := auth.NewVerifier(appCfg.CookieKey, appCfg.CookieName, appCfg.JWTSecret, logger)

	files, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("local storage init failed", zap.Error(err))
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(metrics.Middleware)

	// Global identity middleware: loads the actor into context when a
	// bearer token or session cookie is present. Enforcement happens per
	// feature via auth.RequireActor / auth.RequireRole.
	r.Use(verifier.LoadActor)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// Prometheus scrape endpoint
	r.Handle("/metrics", metrics.Handler())

	// Group registry and membership
	groupsHandler := groupsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/groups", groupsfeature.Routes(groupsHandler))

	// Task boards
	tasksHandler := tasksfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/tasks", tasksfeature.Routes(tasksHandler))

	// Milestones: template definitions, submissions, ad hoc group
	// milestones and their grades
	milestonesHandler := milestonesfeature.NewHandler(deps.MongoDatabase, files, logger)
	r.Mount("/milestones", milestonesfeature.Routes(milestonesHandler))

	// Read-side reports
	reportsHandler := reportsfeature.NewHandler(deps.MongoDatabase, logger)
	r.Mount("/reports", reportsfeature.Routes(reportsHandler))

	return r, nil
}
