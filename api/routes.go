package api

import (
	"github.com/gorilla/mux"

	"github.com/jobtrail/jobtrail/internal/config"
	"github.com/jobtrail/jobtrail/internal/engine"
	"github.com/jobtrail/jobtrail/internal/repository/docstore"
	"github.com/jobtrail/jobtrail/internal/validate"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, repo *docstore.DocRepo, validator *validate.Validator, eng *engine.Engine) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(repo, validator, cfg.JWTSecret, cfg.TokenDuration)
	applicationsHandler := NewApplicationsHandler(eng, repo, validator)
	jobsHandler := NewJobsHandler(eng, repo, validator)
	statsHandler := NewStatsHandler(repo, repo, repo)
	usersHandler := NewUsersHandler(repo)
	adminHandler := NewAdminHandler(repo, repo, repo)

	// Open endpoints
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/v1/auth/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/v1/auth/signin", authHandler.Signin).Methods("POST")

	// API v1 Protected routes
	apiV1 := r.PathPrefix("/v1").Subrouter()
	apiV1.Use(JWTAuthMiddlewareWithSecret(cfg.JWTSecret))

	// Auth endpoints
	authV1 := apiV1.PathPrefix("/auth").Subrouter()
	authV1.HandleFunc("/signout", authHandler.Signout).Methods("POST")

	// Application endpoints
	apiV1.HandleFunc("/applications", applicationsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/applications", applicationsHandler.List).Methods("GET")
	apiV1.HandleFunc("/applications/{id}", applicationsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/applications/{id}", applicationsHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/applications/{id}", applicationsHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/applications/{id}/follow-up", applicationsHandler.FollowUp).Methods("POST")
	apiV1.HandleFunc("/applications/{id}/history", applicationsHandler.History).Methods("GET")

	// Job endpoints
	apiV1.HandleFunc("/jobs", jobsHandler.Create).Methods("POST")
	apiV1.HandleFunc("/jobs", jobsHandler.List).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.Get).Methods("GET")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.Update).Methods("PUT")
	apiV1.HandleFunc("/jobs/{id}", jobsHandler.Delete).Methods("DELETE")
	apiV1.HandleFunc("/jobs/{id}/archive", jobsHandler.Archive).Methods("POST")
	apiV1.HandleFunc("/jobs/{id}/apply", jobsHandler.Apply).Methods("POST")

	// Stats endpoint (role-scoped)
	apiV1.HandleFunc("/stats", statsHandler.Get).Methods("GET")

	// User endpoints
	apiV1.HandleFunc("/users/me", usersHandler.Me).Methods("GET")
	apiV1.HandleFunc("/users/{id}", usersHandler.Get).Methods("GET")
	apiV1.HandleFunc("/users/{id}", usersHandler.Update).Methods("PUT")

	// Admin endpoints
	adminV1 := apiV1.PathPrefix("/admin").Subrouter()
	adminV1.HandleFunc("/users", adminHandler.ListUsers).Methods("GET")
	adminV1.HandleFunc("/jobs", adminHandler.ListJobs).Methods("GET")
	adminV1.HandleFunc("/applications", adminHandler.ListApplications).Methods("GET")

	return r
}
