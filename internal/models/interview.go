package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message roles within an interview.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var roleDisplay = map[string]string{
	RoleSystem:    "Sistema",
	RoleUser:      "Candidato",
	RoleAssistant: "Ada",
}

type Message struct {
	Role      string    `json:"role" bson:"role"`
	Content   string    `json:"content" bson:"content"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (m Message) RoleDisplay() string {
	if display, ok := roleDisplay[m.Role]; ok {
		return display
	}
	return m.Role
}

// FeedbackResult is the structured aptitude report produced at the end of an
// interview. Field names are part of the public JSON contract.
type FeedbackResult struct {
	PontosPositivos     []string `json:"pontos_positivos" bson:"pontos_positivos"`
	PontosNegativos     []string `json:"pontos_negativos" bson:"pontos_negativos"`
	MelhoriasSugeridas  []string `json:"melhorias_sugeridas" bson:"melhorias_sugeridas"`
	AderenciaPercentual int      `json:"aderencia_percentual" bson:"aderencia_percentual"`
	CursoRecomendado    *string  `json:"curso_recomendado" bson:"curso_recomendado"`
	Resumo              string   `json:"resumo" bson:"resumo"`
	Apto                bool     `json:"apto" bson:"apto"`
}

// FormatText renders the structured feedback as the final assistant message.
func (f *FeedbackResult) FormatText() string {
	var b strings.Builder

	b.WriteString("## Feedback da Entrevista\n\n")

	b.WriteString("### Pontos Positivos\n")
	for _, p := range f.PontosPositivos {
		fmt.Fprintf(&b, "- %s\n", p)
	}

	b.WriteString("\n### Pontos a Desenvolver\n")
	for _, p := range f.PontosNegativos {
		fmt.Fprintf(&b, "- %s\n", p)
	}

	b.WriteString("\n### Melhorias Sugeridas\n")
	for _, p := range f.MelhoriasSugeridas {
		fmt.Fprintf(&b, "- %s\n", p)
	}

	fmt.Fprintf(&b, "\n### Aderência ao Curso: %d%%\n", f.AderenciaPercentual)

	if f.CursoRecomendado != nil && *f.CursoRecomendado != "" {
		fmt.Fprintf(&b, "\n**Curso recomendado:** %s\n", *f.CursoRecomendado)
	}

	fmt.Fprintf(&b, "\n%s\n", f.Resumo)

	if f.Apto {
		b.WriteString("\n**Parecer:** Apto para o curso.\n")
	} else {
		b.WriteString("\n**Parecer:** Recomenda-se preparação prévia.\n")
	}

	return b.String()
}

// Interview is a chatbot aptitude interview. Messages are embedded so one
// exchange (user turn + assistant turn + completion flags) commits in a single
// document write.
type Interview struct {
	UUID          string              `json:"uuid" bson:"_id"`
	Title         string              `json:"title" bson:"title"`
	JobID         *primitive.ObjectID `json:"-" bson:"job_id,omitempty"`
	CandidateName string              `json:"candidate_name,omitempty" bson:"candidate_name,omitempty"`
	Completed     bool                `json:"completed" bson:"completed"`
	Feedback      *FeedbackResult     `json:"feedback,omitempty" bson:"feedback,omitempty"`
	Messages      []Message           `json:"-" bson:"messages"`
	CreatedAt     time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" bson:"updated_at"`
	CreatedBy     *primitive.ObjectID `json:"-" bson:"created_by,omitempty"`
}

// AssistantCount returns the number of assistant turns so far.
func (i *Interview) AssistantCount() int {
	count := 0
	for _, m := range i.Messages {
		if m.Role == RoleAssistant {
			count++
		}
	}
	return count
}

// SystemPrompt returns the content of the first system message.
func (i *Interview) SystemPrompt() string {
	for _, m := range i.Messages {
		if m.Role == RoleSystem {
			return m.Content
		}
	}
	return ""
}

// VisibleMessages returns the conversation without system messages, which are
// never exposed to candidates.
func (i *Interview) VisibleMessages() []MessageView {
	views := []MessageView{}
	for _, m := range i.Messages {
		if m.Role == RoleSystem {
			continue
		}
		views = append(views, MessageView{
			Role:        m.Role,
			RoleDisplay: m.RoleDisplay(),
			Content:     m.Content,
			CreatedAt:   m.CreatedAt,
		})
	}
	return views
}

type MessageView struct {
	Role        string    `json:"role"`
	RoleDisplay string    `json:"role_display"`
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// InterviewView is the full interview payload returned by the API.
type InterviewView struct {
	UUID          string          `json:"uuid"`
	Title         string          `json:"title"`
	Job           *JobListItem    `json:"job"`
	CandidateName string          `json:"candidate_name,omitempty"`
	Completed     bool            `json:"completed"`
	Feedback      *FeedbackResult `json:"feedback"`
	Messages      []MessageView   `json:"messages"`
}

// InterviewListItem is the light payload used by the admin listing.
type InterviewListItem struct {
	UUID          string    `json:"uuid"`
	Title         string    `json:"title"`
	JobTitle      string    `json:"job_title,omitempty"`
	CandidateName string    `json:"candidate_name,omitempty"`
	Completed     bool      `json:"completed"`
	MessagesCount int       `json:"messages_count"`
	CreatedBy     string    `json:"created_by,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type InterviewCreateRequest struct {
	JobID         *string `json:"job_id"`
	CandidateName string  `json:"candidate_name"`
}

type MessageCreateRequest struct {
	Content string `json:"content"`
}
