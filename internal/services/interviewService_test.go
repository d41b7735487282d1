package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"entrevia/internal/config"
	"entrevia/internal/models"
	"entrevia/internal/repositories"
)

type fakeInterviewRepo struct {
	interviews map[string]*models.Interview
}

func newFakeInterviewRepo() *fakeInterviewRepo {
	return &fakeInterviewRepo{interviews: make(map[string]*models.Interview)}
}

func (r *fakeInterviewRepo) Create(ctx context.Context, interview *models.Interview) (*models.Interview, error) {
	copied := *interview
	r.interviews[interview.UUID] = &copied
	return interview, nil
}

func (r *fakeInterviewRepo) FindByUUID(ctx context.Context, uuid string) (*models.Interview, error) {
	interview, ok := r.interviews[uuid]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	copied := *interview
	copied.Messages = append([]models.Message{}, interview.Messages...)
	return &copied, nil
}

func (r *fakeInterviewRepo) FindAll(ctx context.Context) ([]models.Interview, error) {
	var all []models.Interview
	for _, interview := range r.interviews {
		all = append(all, *interview)
	}
	return all, nil
}

func (r *fakeInterviewRepo) AppendExchange(ctx context.Context, uuid string, update repositories.ExchangeUpdate) error {
	interview, ok := r.interviews[uuid]
	if !ok || interview.Completed {
		return mongo.ErrNoDocuments
	}
	interview.Messages = append(interview.Messages, update.Messages...)
	if update.Completed {
		interview.Completed = true
	}
	if update.Feedback != nil {
		interview.Feedback = update.Feedback
	}
	return nil
}

type fakeJobRepo struct {
	jobs map[primitive.ObjectID]*models.Job
}

func (r *fakeJobRepo) FindAll(ctx context.Context) ([]models.Job, error) {
	var all []models.Job
	for _, job := range r.jobs {
		all = append(all, *job)
	}
	return all, nil
}

func (r *fakeJobRepo) FindByID(ctx context.Context, jobID primitive.ObjectID) (*models.Job, error) {
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}
	return job, nil
}

func (r *fakeJobRepo) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}
	r.jobs[job.ID] = job
	return job, nil
}

func (r *fakeJobRepo) Update(ctx context.Context, jobID primitive.ObjectID, updateFields bson.M) (*mongo.UpdateResult, error) {
	if _, ok := r.jobs[jobID]; !ok {
		return &mongo.UpdateResult{}, nil
	}
	return &mongo.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (r *fakeJobRepo) Delete(ctx context.Context, jobID primitive.ObjectID) (*mongo.DeleteResult, error) {
	if _, ok := r.jobs[jobID]; !ok {
		return &mongo.DeleteResult{}, nil
	}
	delete(r.jobs, jobID)
	return &mongo.DeleteResult{DeletedCount: 1}, nil
}

type fakeLLM struct {
	chatReplies []string
	chatCalls   int
	feedback    *models.FeedbackResult
}

func (f *fakeLLM) Chat(ctx context.Context, messages []models.Message) (string, error) {
	reply := "pergunta"
	if f.chatCalls < len(f.chatReplies) {
		reply = f.chatReplies[f.chatCalls]
	}
	f.chatCalls++
	return reply, nil
}

func (f *fakeLLM) StructuredFeedback(ctx context.Context, messages []models.Message, feedbackPrompt string) (*models.FeedbackResult, string, error) {
	if f.feedback != nil {
		return f.feedback, f.feedback.FormatText(), nil
	}
	return nil, "feedback em texto", nil
}

func newTestInterviewService(repo *fakeInterviewRepo, jobs *fakeJobRepo, llm *fakeLLM) InterviewService {
	return NewInterviewService(repo, jobs, llm, config.InterviewConfig{
		MaxQuestions:  5,
		PromptVersion: "v1",
	})
}

func seedJob(jobs *fakeJobRepo) *models.Job {
	job := &models.Job{
		ID:               primitive.NewObjectID(),
		Title:            "Técnico em Informática",
		Requirements:     "Ensino médio\nLógica básica",
		Responsibilities: "Montagem\nManutenção",
		Level:            models.LevelBasic,
	}
	jobs.jobs = map[primitive.ObjectID]*models.Job{job.ID: job}
	return job
}

func TestCreateInterviewForJob(t *testing.T) {
	repo := newFakeInterviewRepo()
	jobs := &fakeJobRepo{}
	job := seedJob(jobs)
	llm := &fakeLLM{chatReplies: []string{"Olá, sou a Ada!"}}
	svc := newTestInterviewService(repo, jobs, llm)

	jobID := job.ID.Hex()
	view, err := svc.Create(context.Background(), models.InterviewCreateRequest{
		JobID:         &jobID,
		CandidateName: "Maria",
	}, nil)
	assert.NoError(t, err)
	assert.Contains(t, view.Title, "Chat Técnico em Informática - ")
	assert.Equal(t, "Maria", view.CandidateName)
	assert.NotNil(t, view.Job)
	assert.Equal(t, job.ID.Hex(), view.Job.ID)
	assert.False(t, view.Completed)

	// Only the assistant opening is visible; the system prompt stays hidden.
	assert.Len(t, view.Messages, 1)
	assert.Equal(t, models.RoleAssistant, view.Messages[0].Role)
	assert.Equal(t, "Olá, sou a Ada!", view.Messages[0].Content)

	stored := repo.interviews[view.UUID]
	assert.Len(t, stored.Messages, 2)
	assert.Equal(t, models.RoleSystem, stored.Messages[0].Role)
	assert.Contains(t, stored.Messages[0].Content, "Técnico em Informática")
	assert.Contains(t, stored.Messages[0].Content, "Ensino médio")
}

func TestCreateGeneralAptitudeInterview(t *testing.T) {
	repo := newFakeInterviewRepo()
	jobs := &fakeJobRepo{jobs: map[primitive.ObjectID]*models.Job{}}
	svc := newTestInterviewService(repo, jobs, &fakeLLM{})

	view, err := svc.Create(context.Background(), models.InterviewCreateRequest{}, nil)
	assert.NoError(t, err)
	assert.Contains(t, view.Title, "Teste de Aptidão - ")
	assert.Nil(t, view.Job)

	stored := repo.interviews[view.UUID]
	assert.Contains(t, stored.Messages[0].Content, "orientação vocacional")
}

func TestCreateInterviewUnknownJob(t *testing.T) {
	repo := newFakeInterviewRepo()
	jobs := &fakeJobRepo{jobs: map[primitive.ObjectID]*models.Job{}}
	svc := newTestInterviewService(repo, jobs, &fakeLLM{})

	missing := primitive.NewObjectID().Hex()
	_, err := svc.Create(context.Background(), models.InterviewCreateRequest{JobID: &missing}, nil)
	assert.ErrorIs(t, err, ErrJobNotFound)

	badID := "not-an-object-id"
	_, err = svc.Create(context.Background(), models.InterviewCreateRequest{JobID: &badID}, nil)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestSendMessageAppendsExchange(t *testing.T) {
	repo := newFakeInterviewRepo()
	jobs := &fakeJobRepo{}
	seedJob(jobs)
	llm := &fakeLLM{chatReplies: []string{"abertura", "resposta da Ada"}}
	svc := newTestInterviewService(repo, jobs, llm)

	view, err := svc.Create(context.Background(), models.InterviewCreateRequest{}, nil)
	assert.NoError(t, err)

	updated, err := svc.SendMessage(context.Background(), view.UUID, "Tenho interesse em informática")
	assert.NoError(t, err)
	assert.False(t, updated.Completed)
	assert.Len(t, updated.Messages, 3)
	assert.Equal(t, "resposta da Ada", updated.Messages[2].Content)
}

func TestInterviewCompletesAfterQuestionBudget(t *testing.T) {
	repo := newFakeInterviewRepo()
	jobs := &fakeJobRepo{}
	seedJob(jobs)
	curso := "Introdução à Informática"
	llm := &fakeLLM{feedback: &models.FeedbackResult{
		PontosPositivos:     []string{"motivação"},
		PontosNegativos:     []string{"base fraca"},
		MelhoriasSugeridas:  []string{"estudar lógica"},
		AderenciaPercentual: 60,
		CursoRecomendado:    &curso,
		Resumo:              "Potencial com preparação.",
		Apto:                false,
	}}
	svc := newTestInterviewService(repo, jobs, llm)

	view, err := svc.Create(context.Background(), models.InterviewCreateRequest{}, nil)
	assert.NoError(t, err)

	// Creation already produced one assistant turn; four more keep the
	// interview open, the fifth candidate message triggers feedback.
	var updated *models.InterviewView
	for i := 0; i < 4; i++ {
		updated, err = svc.SendMessage(context.Background(), view.UUID, "resposta do candidato")
		assert.NoError(t, err)
		assert.False(t, updated.Completed)
	}

	updated, err = svc.SendMessage(context.Background(), view.UUID, "última resposta")
	assert.NoError(t, err)
	assert.True(t, updated.Completed)
	assert.NotNil(t, updated.Feedback)
	assert.Equal(t, 60, updated.Feedback.AderenciaPercentual)

	final := updated.Messages[len(updated.Messages)-1]
	assert.Equal(t, models.RoleAssistant, final.Role)
	assert.Contains(t, final.Content, "Feedback da Entrevista")

	_, err = svc.SendMessage(context.Background(), view.UUID, "mais uma")
	assert.ErrorIs(t, err, ErrInterviewCompleted)
}

func TestSendMessageUnknownInterview(t *testing.T) {
	repo := newFakeInterviewRepo()
	jobs := &fakeJobRepo{jobs: map[primitive.ObjectID]*models.Job{}}
	svc := newTestInterviewService(repo, jobs, &fakeLLM{})

	_, err := svc.SendMessage(context.Background(), "missing-uuid", "olá")
	assert.ErrorIs(t, err, ErrInterviewNotFound)

	_, err = svc.Get(context.Background(), "missing-uuid")
	assert.ErrorIs(t, err, ErrInterviewNotFound)
}

func TestListAllResolvesJobTitles(t *testing.T) {
	repo := newFakeInterviewRepo()
	jobs := &fakeJobRepo{}
	job := seedJob(jobs)
	llm := &fakeLLM{}
	svc := newTestInterviewService(repo, jobs, llm)

	jobID := job.ID.Hex()
	_, err := svc.Create(context.Background(), models.InterviewCreateRequest{JobID: &jobID}, nil)
	assert.NoError(t, err)
	_, err = svc.Create(context.Background(), models.InterviewCreateRequest{}, nil)
	assert.NoError(t, err)

	items, err := svc.ListAll(context.Background())
	assert.NoError(t, err)
	assert.Len(t, items, 2)

	titles := map[string]bool{}
	for _, item := range items {
		titles[item.JobTitle] = true
		assert.Equal(t, 1, item.MessagesCount, "system prompt must not be counted")
	}
	assert.True(t, titles["Técnico em Informática"])
	assert.True(t, titles[""])
}
