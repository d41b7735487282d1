package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"entrevia/internal/config"
	"entrevia/internal/metrics"
	"entrevia/internal/models"
	"entrevia/internal/prompts"
	"entrevia/internal/repositories"
)

type InterviewService interface {
	Create(ctx context.Context, req models.InterviewCreateRequest, createdBy *primitive.ObjectID) (*models.InterviewView, error)
	Get(ctx context.Context, uuid string) (*models.InterviewView, error)
	SendMessage(ctx context.Context, uuid string, content string) (*models.InterviewView, error)
	ListAll(ctx context.Context) ([]models.InterviewListItem, error)
}

type interviewService struct {
	interviewRepo repositories.InterviewRepository
	jobRepo       repositories.JobRepository
	llm           LLMService
	cfg           config.InterviewConfig
}

func NewInterviewService(interviewRepo repositories.InterviewRepository, jobRepo repositories.JobRepository, llm LLMService, cfg config.InterviewConfig) InterviewService {
	return &interviewService{
		interviewRepo: interviewRepo,
		jobRepo:       jobRepo,
		llm:           llm,
		cfg:           cfg,
	}
}

// Create starts an interview: it renders the system prompt for the chosen
// course (or the general aptitude prompt when none was chosen), asks the model
// for Ada's opening question and persists both as the first two messages.
func (s *interviewService) Create(ctx context.Context, req models.InterviewCreateRequest, createdBy *primitive.ObjectID) (*models.InterviewView, error) {
	id := uuid.NewString()
	now := time.Now()
	version := prompts.Version(s.cfg.PromptVersion)

	var job *models.Job
	var jobID *primitive.ObjectID
	var title, systemPrompt string

	if req.JobID != nil && *req.JobID != "" {
		oid, err := primitive.ObjectIDFromHex(*req.JobID)
		if err != nil {
			return nil, ErrJobNotFound
		}
		job, err = s.jobRepo.FindByID(ctx, oid)
		if err != nil {
			if errors.Is(err, mongo.ErrNoDocuments) {
				return nil, ErrJobNotFound
			}
			return nil, err
		}
		jobID = &oid
		title = fmt.Sprintf("Chat %s - %s", job.Title, id)

		tpl := prompts.Get(prompts.InterviewSystem, version)
		if tpl == nil {
			return nil, fmt.Errorf("prompt %s@%s not registered", prompts.InterviewSystem, version)
		}
		systemPrompt = tpl.Render(map[string]string{
			"job_title":            job.Title,
			"job_requirements":     job.Requirements,
			"job_responsibilities": job.Responsibilities,
			"job_level":            job.LevelDisplay(),
		})
	} else {
		title = fmt.Sprintf("Teste de Aptidão - %s", id)
		tpl := prompts.Get(prompts.InterviewGeneral, version)
		if tpl == nil {
			return nil, fmt.Errorf("prompt %s@%s not registered", prompts.InterviewGeneral, version)
		}
		systemPrompt = tpl.Render(nil)
	}

	messages := []models.Message{
		{Role: models.RoleSystem, Content: systemPrompt, CreatedAt: now},
	}

	opening, err := s.llm.Chat(ctx, messages)
	if err != nil {
		return nil, err
	}
	messages = append(messages, models.Message{
		Role:      models.RoleAssistant,
		Content:   opening,
		CreatedAt: time.Now(),
	})

	interview := &models.Interview{
		UUID:          id,
		Title:         title,
		JobID:         jobID,
		CandidateName: strings.TrimSpace(req.CandidateName),
		Messages:      messages,
		CreatedAt:     now,
		UpdatedAt:     now,
		CreatedBy:     createdBy,
	}

	if _, err := s.interviewRepo.Create(ctx, interview); err != nil {
		return nil, err
	}

	kind := "general"
	if jobID != nil {
		kind = "job"
	}
	metrics.InterviewsCreatedTotal.WithLabelValues(kind).Inc()
	log.Info().Str("uuid", id).Str("kind", kind).Msg("Interview created")

	return s.buildView(ctx, interview, job)
}

func (s *interviewService) Get(ctx context.Context, uuid string) (*models.InterviewView, error) {
	interview, err := s.interviewRepo.FindByUUID(ctx, uuid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	return s.buildView(ctx, interview, nil)
}

// SendMessage appends the candidate's turn, asks the model for Ada's reply and,
// once the question budget is spent, generates the final feedback report. The
// whole exchange commits in one document write.
func (s *interviewService) SendMessage(ctx context.Context, uuid string, content string) (*models.InterviewView, error) {
	interview, err := s.interviewRepo.FindByUUID(ctx, uuid)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrInterviewNotFound
		}
		return nil, err
	}
	if interview.Completed {
		return nil, ErrInterviewCompleted
	}

	userMessage := models.Message{
		Role:      models.RoleUser,
		Content:   content,
		CreatedAt: time.Now(),
	}
	conversation := append(append([]models.Message{}, interview.Messages...), userMessage)

	update := repositories.ExchangeUpdate{Messages: []models.Message{userMessage}}

	// The budget counts Ada's question turns; the reply being generated now is
	// the last one before feedback.
	finalTurn := interview.AssistantCount() >= s.cfg.MaxQuestions

	if finalTurn {
		feedbackPrompt, err := s.feedbackPrompt(ctx, interview)
		if err != nil {
			return nil, err
		}

		feedback, text, err := s.llm.StructuredFeedback(ctx, conversation, feedbackPrompt)
		if err != nil {
			return nil, err
		}

		update.Messages = append(update.Messages,
			models.Message{Role: models.RoleSystem, Content: feedbackPrompt, CreatedAt: time.Now()},
			models.Message{Role: models.RoleAssistant, Content: text, CreatedAt: time.Now()},
		)
		update.Completed = true
		update.Feedback = feedback

		format := "text"
		if feedback != nil {
			format = "structured"
		}
		metrics.InterviewFeedbackTotal.WithLabelValues(format).Inc()
		log.Info().Str("uuid", uuid).Str("format", format).Msg("Interview completed with feedback")
	} else {
		reply, err := s.llm.Chat(ctx, conversation)
		if err != nil {
			return nil, err
		}
		update.Messages = append(update.Messages, models.Message{
			Role:      models.RoleAssistant,
			Content:   reply,
			CreatedAt: time.Now(),
		})
	}

	if err := s.interviewRepo.AppendExchange(ctx, uuid, update); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			// Lost the race against another final turn.
			return nil, ErrInterviewCompleted
		}
		return nil, err
	}
	metrics.InterviewMessagesTotal.Inc()

	updated, err := s.interviewRepo.FindByUUID(ctx, uuid)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, updated, nil)
}

func (s *interviewService) ListAll(ctx context.Context) ([]models.InterviewListItem, error) {
	interviews, err := s.interviewRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	jobTitles := map[primitive.ObjectID]string{}
	items := make([]models.InterviewListItem, 0, len(interviews))
	for i := range interviews {
		iv := &interviews[i]

		jobTitle := ""
		if iv.JobID != nil {
			title, ok := jobTitles[*iv.JobID]
			if !ok {
				if job, err := s.jobRepo.FindByID(ctx, *iv.JobID); err == nil {
					title = job.Title
				}
				jobTitles[*iv.JobID] = title
			}
			jobTitle = title
		}

		createdBy := ""
		if iv.CreatedBy != nil {
			createdBy = iv.CreatedBy.Hex()
		}

		items = append(items, models.InterviewListItem{
			UUID:          iv.UUID,
			Title:         iv.Title,
			JobTitle:      jobTitle,
			CandidateName: iv.CandidateName,
			Completed:     iv.Completed,
			MessagesCount: len(iv.VisibleMessages()),
			CreatedBy:     createdBy,
			CreatedAt:     iv.CreatedAt,
			UpdatedAt:     iv.UpdatedAt,
		})
	}
	return items, nil
}

func (s *interviewService) feedbackPrompt(ctx context.Context, interview *models.Interview) (string, error) {
	version := prompts.Version(s.cfg.PromptVersion)
	tpl := prompts.Get(prompts.InterviewFeedback, version)
	if tpl == nil {
		return "", fmt.Errorf("prompt %s@%s not registered", prompts.InterviewFeedback, version)
	}

	vars := map[string]string{}
	if interview.JobID != nil {
		if job, err := s.jobRepo.FindByID(ctx, *interview.JobID); err == nil {
			vars["job_title"] = job.Title
		}
	}
	return tpl.Render(vars), nil
}

// buildView assembles the API payload, resolving the linked course when the
// caller has not already loaded it.
func (s *interviewService) buildView(ctx context.Context, interview *models.Interview, job *models.Job) (*models.InterviewView, error) {
	if job == nil && interview.JobID != nil {
		found, err := s.jobRepo.FindByID(ctx, *interview.JobID)
		if err != nil && !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, err
		}
		job = found
	}

	var jobItem *models.JobListItem
	if job != nil {
		item := job.ListItem()
		jobItem = &item
	}

	return &models.InterviewView{
		UUID:          interview.UUID,
		Title:         interview.Title,
		Job:           jobItem,
		CandidateName: interview.CandidateName,
		Completed:     interview.Completed,
		Feedback:      interview.Feedback,
		Messages:      interview.VisibleMessages(),
	}, nil
}
