package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"entrevia/internal/models"
)

func TestJobServiceCreateValidation(t *testing.T) {
	svc := NewJobService(&fakeJobRepo{jobs: map[primitive.ObjectID]*models.Job{}})

	_, err := svc.Create(context.Background(), models.JobUpsertRequest{Level: models.LevelBasic})
	assert.ErrorIs(t, err, ErrInvalidJob)

	_, err = svc.Create(context.Background(), models.JobUpsertRequest{Title: "Curso", Level: "expert"})
	assert.ErrorIs(t, err, ErrInvalidJob)
}

func TestJobServiceCreateBuildsSkills(t *testing.T) {
	svc := NewJobService(&fakeJobRepo{jobs: map[primitive.ObjectID]*models.Job{}})

	detail, err := svc.Create(context.Background(), models.JobUpsertRequest{
		Title:  "  Técnico em Redes  ",
		Level:  models.LevelIntermediate,
		Skills: []string{"Cabeamento", "  ", "Roteadores"},
	})
	assert.NoError(t, err)
	assert.Equal(t, "Técnico em Redes", detail.Title)
	assert.Len(t, detail.Skills, 2)
	assert.False(t, detail.Skills[0].ID.IsZero())
}

func TestJobServiceGetNotFound(t *testing.T) {
	svc := NewJobService(&fakeJobRepo{jobs: map[primitive.ObjectID]*models.Job{}})

	_, err := svc.Get(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobServiceUpdateNotFound(t *testing.T) {
	svc := NewJobService(&fakeJobRepo{jobs: map[primitive.ObjectID]*models.Job{}})

	_, err := svc.Update(context.Background(), primitive.NewObjectID(), models.JobUpsertRequest{
		Title: "Curso",
		Level: models.LevelBasic,
	})
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestJobServiceDelete(t *testing.T) {
	jobs := &fakeJobRepo{}
	job := seedJob(jobs)
	svc := NewJobService(jobs)

	assert.NoError(t, svc.Delete(context.Background(), job.ID))
	assert.ErrorIs(t, svc.Delete(context.Background(), job.ID), ErrJobNotFound)
}

func TestJobServiceList(t *testing.T) {
	jobs := &fakeJobRepo{}
	seedJob(jobs)
	svc := NewJobService(jobs)

	items, err := svc.List(context.Background())
	assert.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, "Básico", items[0].LevelDisplay)
}
