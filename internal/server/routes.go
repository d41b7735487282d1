package server

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"entrevia/internal/handlers"
	"entrevia/internal/middlewares"
)

func (s *Server) RegisterRoutes() http.Handler {
	r := mux.NewRouter()

	r.Use(middlewares.CorsMiddleware(s.cfg.AllowedOrigins))
	r.Use(middlewares.RateLimit)
	r.Use(middlewares.NewPrometheusMiddleware().Instrument)

	ch := handlers.NewCommonHandler(s.db)
	r.HandleFunc("/", ch.HelloHandler)
	r.HandleFunc("/health", ch.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())

	s.registerAuthRoutes(r)
	s.registerJobRoutes(r)
	s.registerInterviewRoutes(r)
	s.registerAdminRoutes(r)

	return r
}

func (s *Server) registerAuthRoutes(r *mux.Router) {
	ah := handlers.NewAuthHandler(s.authService)
	auth := middlewares.NewAuthMiddleware(s.tokens, s.authService)

	r.HandleFunc("/api/v1/auth/login", ah.Login).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/auth/token/refresh", ah.Refresh).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/auth/token/verify", ah.VerifyToken).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/auth/logout", ah.Logout).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/auth/password/forgot", ah.ForgotPassword).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/v1/auth/password/reset", ah.ResetPassword).Methods("POST", "OPTIONS")
	r.Handle("/api/v1/auth/me", auth.RequireAuth(http.HandlerFunc(ah.Me))).Methods("GET", "OPTIONS")
}

func (s *Server) registerJobRoutes(r *mux.Router) {
	jh := handlers.NewJobHandler(s.jobService)
	adm := handlers.NewAdminHandler(s.jobService, s.interviewService)
	auth := middlewares.NewAuthMiddleware(s.tokens, s.authService)

	// Candidates browse the catalog before authenticating.
	r.HandleFunc("/api/v1/jobs", jh.ListJobs).Methods("GET", "OPTIONS")
	r.HandleFunc("/api/v1/jobs/{id}", jh.GetJob).Methods("GET", "OPTIONS")

	// Course management is staff-only.
	r.Handle("/api/v1/jobs", auth.RequireStaff(http.HandlerFunc(adm.CreateJob))).Methods("POST", "OPTIONS")
	r.Handle("/api/v1/jobs/{id}", auth.RequireStaff(http.HandlerFunc(adm.UpdateJob))).Methods("PUT", "PATCH", "OPTIONS")
	r.Handle("/api/v1/jobs/{id}", auth.RequireStaff(http.HandlerFunc(adm.DeleteJob))).Methods("DELETE", "OPTIONS")
}

func (s *Server) registerInterviewRoutes(r *mux.Router) {
	ih := handlers.NewInterviewHandler(s.interviewService)
	auth := middlewares.NewAuthMiddleware(s.tokens, s.authService)

	createThrottle := middlewares.ScopedThrottle("interview_create", s.cfg.Throttle.InterviewCreatePerHour)
	messageThrottle := middlewares.InterviewThrottle("interview_message", s.cfg.Throttle.InterviewMessagePerHour)
	detailThrottle := middlewares.ScopedThrottle("interview_detail", s.cfg.Throttle.InterviewDetailPerHour)

	// Interviews are open to anonymous candidates; a logged-in user is
	// recorded as the creator when a token is supplied.
	r.Handle("/api/v1/interviews", createThrottle(auth.OptionalAuth(http.HandlerFunc(ih.CreateInterview)))).Methods("POST", "OPTIONS")
	r.Handle("/api/v1/interviews/{uuid}", detailThrottle(http.HandlerFunc(ih.GetInterview))).Methods("GET", "OPTIONS")
	r.Handle("/api/v1/interviews/{uuid}/messages", messageThrottle(http.HandlerFunc(ih.SendMessage))).Methods("POST", "OPTIONS")
}

func (s *Server) registerAdminRoutes(r *mux.Router) {
	adm := handlers.NewAdminHandler(s.jobService, s.interviewService)
	auth := middlewares.NewAuthMiddleware(s.tokens, s.authService)

	r.Handle("/api/v1/admin/interviews", auth.RequireStaff(http.HandlerFunc(adm.ListInterviews))).Methods("GET", "OPTIONS")
}
