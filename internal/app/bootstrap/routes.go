// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"

	activitiesfeature "github.com/dalemusser/meritrack/internal/app/features/activities"
	approvalsfeature "github.com/dalemusser/meritrack/internal/app/features/approvals"
	authapifeature "github.com/dalemusser/meritrack/internal/app/features/authapi"
	evidencefeature "github.com/dalemusser/meritrack/internal/app/features/evidence"
	formsfeature "github.com/dalemusser/meritrack/internal/app/features/forms"
	healthfeature "github.com/dalemusser/meritrack/internal/app/features/health"
	notificationsfeature "github.com/dalemusser/meritrack/internal/app/features/notifications"
	programsfeature "github.com/dalemusser/meritrack/internal/app/features/programs"
	usersfeature "github.com/dalemusser/meritrack/internal/app/features/users"
	activitystore "github.com/dalemusser/meritrack/internal/app/store/activities"
	approvalstore "github.com/dalemusser/meritrack/internal/app/store/approvals"
	formstore "github.com/dalemusser/meritrack/internal/app/store/forms"
	notificationstore "github.com/dalemusser/meritrack/internal/app/store/notifications"
	programstore "github.com/dalemusser/meritrack/internal/app/store/programs"
	userstore "github.com/dalemusser/meritrack/internal/app/store/users"
	"github.com/dalemusser/meritrack/internal/app/system/auth"
	"github.com/dalemusser/meritrack/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/dalemusser/waffle/pantry/fileserver"
	"github.com/dalemusser/waffle/pantry/storage"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup,
// and any Startup hooks have completed. It builds the session manager
// and the evidence storage backend, constructs one store per collection
// and one handler per feature, and mounts everything: the JSON API under
// /api, the root-level approval action, the health endpoint, and the
// static portal pages.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain, secure, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}

	evidenceStore, err := storage.NewLocal(storage.LocalConfig{
		BasePath: appCfg.StorageLocalPath,
		BaseURL:  appCfg.StorageLocalURL,
	})
	if err != nil {
		logger.Error("evidence storage init failed", zap.Error(err))
		return nil, err
	}

	// One store per collection.
	users := userstore.New(deps.MongoDatabase)
	programs := programstore.New(deps.MongoDatabase)
	activities := activitystore.New(deps.MongoDatabase)
	approvals := approvalstore.New(deps.MongoDatabase)
	forms := formstore.New(deps.MongoDatabase)
	notifications := notificationstore.New(deps.MongoDatabase)

	// One handler per feature.
	evidenceHandler := evidencefeature.NewHandler(evidenceStore, logger)
	authHandler := authapifeature.NewHandler(users, sessionMgr, logger)
	usersHandler := usersfeature.NewHandler(users, logger)
	programsHandler := programsfeature.NewHandler(programs, logger)
	activitiesHandler := activitiesfeature.NewHandler(activities, forms, evidenceHandler, logger)
	approvalsHandler := approvalsfeature.NewHandler(deps.MongoClient, activities, approvals, users, logger)
	notificationsHandler := notificationsfeature.NewHandler(notifications, activities, logger)
	formsHandler := formsfeature.NewHandler(forms, logger)

	r := chi.NewRouter()

	// Global auth middleware: loads SessionUser into context if logged in.
	// This makes the current user available to all handlers via auth.CurrentUser(r).
	r.Use(sessionMgr.LoadSessionUser)

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	// The JSON API.
	r.Route("/api", func(api chi.Router) {
		authapifeature.Routes(api, authHandler)
		usersfeature.Routes(api, usersHandler, sessionMgr)
		programsfeature.Routes(api, programsHandler, sessionMgr)
		activitiesfeature.Routes(api, activitiesHandler, sessionMgr)
		approvalsfeature.Routes(api, approvalsHandler, sessionMgr)
		notificationsfeature.Routes(api, notificationsHandler, sessionMgr)
		formsfeature.Routes(api, formsHandler, sessionMgr)
		evidencefeature.Routes(api, evidenceHandler, sessionMgr)
	})

	// The approval action kept its historical root-level path.
	r.With(sessionMgr.RequireRole(models.RoleValidator, models.RoleAdmin)).
		Post("/approve-submission", approvalsHandler.Approve)

	// Locally stored evidence files and the static portal pages, both
	// with pre-compressed file support (gzip/brotli).
	r.Handle(appCfg.StorageLocalURL+"/*", fileserver.Handler(appCfg.StorageLocalURL, appCfg.StorageLocalPath))
	r.Handle("/*", fileserver.Handler("/", "public"))

	return r, nil
}
