package server

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"entrevia/internal/config"
	"entrevia/internal/database"
	"entrevia/internal/middlewares"
	"entrevia/internal/repositories"
	"entrevia/internal/services"
	"entrevia/internal/utils"
)

type Server struct {
	cfg        *config.Config
	httpServer *http.Server
	db         database.Service

	authService      services.AuthService
	jobService       services.JobService
	interviewService services.InterviewService

	tokens *utils.TokenManager
}

func NewServer(cfg *config.Config) (*Server, error) {
	db := database.New(cfg.MongoURI, cfg.MongoDatabase)

	userRepo := repositories.NewUserRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	interviewRepo := repositories.NewInterviewRepository(db)
	loginLogRepo := repositories.NewLoginLogRepository(db)
	tokenRepo := repositories.NewTokenRepository(db)
	otpRepo := repositories.NewOTPRepository(db)

	emailService := services.NewEmailService(cfg.SMTP)
	otpService := services.NewOTPService(userRepo, otpRepo, emailService)
	authService := services.NewAuthService(userRepo, loginLogRepo, tokenRepo, otpService, cfg.JWT)

	llmService, err := services.NewLLMService(cfg.AI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize AI provider: %w", err)
	}

	s := &Server{
		cfg:              cfg,
		db:               db,
		authService:      authService,
		jobService:       services.NewJobService(jobRepo),
		interviewService: services.NewInterviewService(interviewRepo, jobRepo, llmService, cfg.Interview),
		tokens:           utils.NewTokenManager(cfg.JWT),
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 90 * time.Second,
	}

	go middlewares.CleanupVisitors()

	return s, nil
}

func (s *Server) Start() error {
	log.Info().Int("port", s.cfg.Port).Str("ai_provider", s.cfg.AI.Provider).Msg("Starting server")
	return s.httpServer.ListenAndServe()
}

func (s *Server) GracefulShutdown(done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown with error")
	}

	if err := s.db.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database connection")
	}

	log.Info().Msg("Server exiting")
	done <- true
}
