package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Job levels. Display labels follow the course catalog language.
const (
	LevelBasic        = "basico"
	LevelIntermediate = "intermediario"
	LevelAdvanced     = "avancado"
)

var levelDisplay = map[string]string{
	LevelBasic:        "Básico",
	LevelIntermediate: "Intermediário",
	LevelAdvanced:     "Avançado",
}

type Skill struct {
	ID    primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	Title string             `json:"title" bson:"title"`
}

// Job is a vocational course candidates are interviewed for. Requirements and
// responsibilities are stored as newline-separated text, matching how course
// coordinators enter them.
type Job struct {
	ID               primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Title            string             `json:"title" bson:"title"`
	Description      string             `json:"description" bson:"description"`
	Requirements     string             `json:"requirements" bson:"requirements"`
	Responsibilities string             `json:"responsibilities" bson:"responsibilities"`
	Level            string             `json:"level" bson:"level"`
	Skills           []Skill            `json:"skills" bson:"skills"`
	CreatedAt        time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at" bson:"updated_at"`
}

func (j *Job) LevelDisplay() string {
	if display, ok := levelDisplay[j.Level]; ok {
		return display
	}
	return j.Level
}

func (j *Job) RequirementsList() []string {
	return splitLines(j.Requirements)
}

func (j *Job) ResponsibilitiesList() []string {
	return splitLines(j.Responsibilities)
}

func splitLines(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}

// ValidLevel reports whether level is one of the known course levels.
func ValidLevel(level string) bool {
	_, ok := levelDisplay[level]
	return ok
}

// JobDetail is the full job payload returned by the detail endpoint.
type JobDetail struct {
	ID                   string   `json:"id"`
	Title                string   `json:"title"`
	Description          string   `json:"description"`
	Requirements         string   `json:"requirements"`
	Responsibilities     string   `json:"responsibilities"`
	Level                string   `json:"level"`
	LevelDisplay         string   `json:"level_display"`
	Skills               []Skill  `json:"skills"`
	RequirementsList     []string `json:"requirements_list"`
	ResponsibilitiesList []string `json:"responsibilities_list"`
}

// JobListItem is the light payload used by the list endpoint.
type JobListItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Level        string `json:"level"`
	LevelDisplay string `json:"level_display"`
	SkillsCount  int    `json:"skills_count"`
}

func (j *Job) Detail() JobDetail {
	skills := j.Skills
	if skills == nil {
		skills = []Skill{}
	}
	return JobDetail{
		ID:                   j.ID.Hex(),
		Title:                j.Title,
		Description:          j.Description,
		Requirements:         j.Requirements,
		Responsibilities:     j.Responsibilities,
		Level:                j.Level,
		LevelDisplay:         j.LevelDisplay(),
		Skills:               skills,
		RequirementsList:     j.RequirementsList(),
		ResponsibilitiesList: j.ResponsibilitiesList(),
	}
}

func (j *Job) ListItem() JobListItem {
	return JobListItem{
		ID:           j.ID.Hex(),
		Title:        j.Title,
		Level:        j.Level,
		LevelDisplay: j.LevelDisplay(),
		SkillsCount:  len(j.Skills),
	}
}

// JobUpsertRequest is the admin payload for creating or updating a job.
type JobUpsertRequest struct {
	Title            string   `json:"title"`
	Description      string   `json:"description"`
	Requirements     string   `json:"requirements"`
	Responsibilities string   `json:"responsibilities"`
	Level            string   `json:"level"`
	Skills           []string `json:"skills"`
}
