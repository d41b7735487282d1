package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"entrevia/internal/models"
	"entrevia/internal/repositories"
)

type JobService interface {
	List(ctx context.Context) ([]models.JobListItem, error)
	Get(ctx context.Context, jobID primitive.ObjectID) (*models.JobDetail, error)
	Create(ctx context.Context, req models.JobUpsertRequest) (*models.JobDetail, error)
	Update(ctx context.Context, jobID primitive.ObjectID, req models.JobUpsertRequest) (*models.JobDetail, error)
	Delete(ctx context.Context, jobID primitive.ObjectID) error
}

type jobService struct {
	jobRepo repositories.JobRepository
}

func NewJobService(jobRepo repositories.JobRepository) JobService {
	return &jobService{jobRepo: jobRepo}
}

func (s *jobService) List(ctx context.Context) ([]models.JobListItem, error) {
	jobs, err := s.jobRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.JobListItem, 0, len(jobs))
	for i := range jobs {
		items = append(items, jobs[i].ListItem())
	}
	return items, nil
}

func (s *jobService) Get(ctx context.Context, jobID primitive.ObjectID) (*models.JobDetail, error) {
	job, err := s.jobRepo.FindByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	detail := job.Detail()
	return &detail, nil
}

func (s *jobService) Create(ctx context.Context, req models.JobUpsertRequest) (*models.JobDetail, error) {
	if err := validateJobRequest(req); err != nil {
		return nil, err
	}

	now := time.Now()
	job := &models.Job{
		Title:            strings.TrimSpace(req.Title),
		Description:      req.Description,
		Requirements:     req.Requirements,
		Responsibilities: req.Responsibilities,
		Level:            req.Level,
		Skills:           buildSkills(req.Skills),
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	created, err := s.jobRepo.Create(ctx, job)
	if err != nil {
		return nil, err
	}

	log.Info().Str("job_id", created.ID.Hex()).Str("title", created.Title).Msg("Job created")
	detail := created.Detail()
	return &detail, nil
}

func (s *jobService) Update(ctx context.Context, jobID primitive.ObjectID, req models.JobUpsertRequest) (*models.JobDetail, error) {
	if err := validateJobRequest(req); err != nil {
		return nil, err
	}

	result, err := s.jobRepo.Update(ctx, jobID, bson.M{
		"title":            strings.TrimSpace(req.Title),
		"description":      req.Description,
		"requirements":     req.Requirements,
		"responsibilities": req.Responsibilities,
		"level":            req.Level,
		"skills":           buildSkills(req.Skills),
	})
	if err != nil {
		return nil, err
	}
	if result.MatchedCount == 0 {
		return nil, ErrJobNotFound
	}

	return s.Get(ctx, jobID)
}

func (s *jobService) Delete(ctx context.Context, jobID primitive.ObjectID) error {
	result, err := s.jobRepo.Delete(ctx, jobID)
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrJobNotFound
	}
	log.Info().Str("job_id", jobID.Hex()).Msg("Job deleted")
	return nil
}

func validateJobRequest(req models.JobUpsertRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("%w: title é obrigatório", ErrInvalidJob)
	}
	if !models.ValidLevel(req.Level) {
		return fmt.Errorf("%w: level deve ser basico, intermediario ou avancado", ErrInvalidJob)
	}
	return nil
}

func buildSkills(titles []string) []models.Skill {
	skills := make([]models.Skill, 0, len(titles))
	for _, t := range titles {
		trimmed := strings.TrimSpace(t)
		if trimmed == "" {
			continue
		}
		skills = append(skills, models.Skill{ID: primitive.NewObjectID(), Title: trimmed})
	}
	return skills
}
