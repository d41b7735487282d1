package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestLevelDisplay(t *testing.T) {
	assert.Equal(t, "Básico", (&Job{Level: LevelBasic}).LevelDisplay())
	assert.Equal(t, "Intermediário", (&Job{Level: LevelIntermediate}).LevelDisplay())
	assert.Equal(t, "Avançado", (&Job{Level: LevelAdvanced}).LevelDisplay())
	assert.Equal(t, "custom", (&Job{Level: "custom"}).LevelDisplay())
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel(LevelBasic))
	assert.True(t, ValidLevel(LevelAdvanced))
	assert.False(t, ValidLevel("expert"))
	assert.False(t, ValidLevel(""))
}

func TestRequirementsList(t *testing.T) {
	job := &Job{Requirements: "Ensino médio\n  Lógica básica  \n\nInglês técnico\n"}

	assert.Equal(t, []string{"Ensino médio", "Lógica básica", "Inglês técnico"}, job.RequirementsList())
	assert.Nil(t, (&Job{}).RequirementsList())
}

func TestJobDetailView(t *testing.T) {
	job := &Job{
		ID:               primitive.NewObjectID(),
		Title:            "Técnico em Informática",
		Requirements:     "A\nB",
		Responsibilities: "C",
		Level:            LevelBasic,
		Skills:           []Skill{{ID: primitive.NewObjectID(), Title: "Hardware"}},
	}

	detail := job.Detail()
	assert.Equal(t, job.ID.Hex(), detail.ID)
	assert.Equal(t, "Básico", detail.LevelDisplay)
	assert.Equal(t, []string{"A", "B"}, detail.RequirementsList)
	assert.Equal(t, []string{"C"}, detail.ResponsibilitiesList)
	assert.Len(t, detail.Skills, 1)

	// Skills must serialize as an empty list, never null.
	empty := (&Job{}).Detail()
	assert.NotNil(t, empty.Skills)
	assert.Empty(t, empty.Skills)
}

func TestJobListItemView(t *testing.T) {
	job := &Job{
		ID:     primitive.NewObjectID(),
		Title:  "Cozinheiro",
		Level:  LevelIntermediate,
		Skills: []Skill{{Title: "Panificação"}, {Title: "Confeitaria"}},
	}

	item := job.ListItem()
	assert.Equal(t, "Cozinheiro", item.Title)
	assert.Equal(t, "Intermediário", item.LevelDisplay)
	assert.Equal(t, 2, item.SkillsCount)
}
