// Package prompts holds the versioned prompt templates used by the interview
// AI service. Templates use {variable} placeholders.
package prompts

import (
	"strings"
	"sync"
)

type Version string

const (
	V1 Version = "v1"
	V2 Version = "v2"
)

// Template is a named, versioned prompt with declared variables.
type Template struct {
	Name        string
	Version     Version
	Description string
	Variables   []string
	Text        string
}

// Render substitutes the declared variables into the template. Undeclared
// placeholders are left untouched.
func (t *Template) Render(vars map[string]string) string {
	content := t.Text
	for _, name := range t.Variables {
		content = strings.ReplaceAll(content, "{"+name+"}", vars[name])
	}
	return content
}

// MissingVariables returns the declared variables absent from vars.
func (t *Template) MissingVariables(vars map[string]string) []string {
	var missing []string
	for _, name := range t.Variables {
		if _, ok := vars[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

type registry struct {
	mu        sync.RWMutex
	templates map[string]map[Version]*Template
}

var defaultRegistry = &registry{templates: make(map[string]map[Version]*Template)}

// Register adds a template to the registry, replacing any previous entry for
// the same name and version.
func Register(t *Template) {
	defaultRegistry.mu.Lock()
	defer defaultRegistry.mu.Unlock()
	if defaultRegistry.templates[t.Name] == nil {
		defaultRegistry.templates[t.Name] = make(map[Version]*Template)
	}
	defaultRegistry.templates[t.Name][t.Version] = t
}

// Get returns the template for name at version, or nil when unknown.
func Get(name string, version Version) *Template {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	return defaultRegistry.templates[name][version]
}

// List returns every registered template name with its available versions.
func List() map[string][]Version {
	defaultRegistry.mu.RLock()
	defer defaultRegistry.mu.RUnlock()
	out := make(map[string][]Version, len(defaultRegistry.templates))
	for name, versions := range defaultRegistry.templates {
		for v := range versions {
			out[name] = append(out[name], v)
		}
	}
	return out
}

// Prompt names.
const (
	InterviewSystem   = "interview_system"
	InterviewGeneral  = "interview_general"
	InterviewFeedback = "interview_feedback"
)

const interviewSystemV1 = `Você é Ada, uma assistente virtual especializada em avaliar a aptidão de candidatos para cursos técnicos do SENAC.

Curso: {job_title}

Pré-requisitos do curso:
{job_requirements}

Competências desenvolvidas:
{job_responsibilities}

Sua tarefa é conduzir uma entrevista amigável para avaliar se o candidato tem o perfil adequado para este curso.

Diretrizes:
1. Faça perguntas claras e objetivas, uma de cada vez
2. Avalie conhecimentos prévios, motivação e expectativas
3. Seja acolhedor e encoraje o candidato
4. Limite suas respostas a no máximo 3 parágrafos
5. Após 5 interações, você receberá instruções para o feedback final

Comece se apresentando brevemente e fazendo a primeira pergunta ao candidato.`

const interviewFeedbackV1 = `Realize o feedback do candidato ao curso considerando toda a conversa anterior.

O feedback deve conter:

1. **Pontos Positivos**: Destaque os aspectos favoráveis identificados no perfil do candidato.

2. **Pontos a Desenvolver**: Indique áreas que precisam de atenção ou aprimoramento.

3. **Recomendações**: Sugira ações ou cursos complementares se necessário.

4. **Aderência ao Curso**: Apresente uma porcentagem de 0 a 100 indicando a compatibilidade do candidato com o curso.

5. **Conclusão**: Se o candidato não demonstrar conhecimentos básicos de informática, recomende o curso "Introdução à Informática" do SENAC como preparação.

Seja construtivo e motivador em seu feedback.`

const interviewGeneralV1 = `Você é Ada, uma assistente virtual de orientação vocacional do SENAC.

O candidato ainda não escolheu um curso específico. Sua tarefa é conduzir um teste de aptidão geral para identificar interesses, conhecimentos prévios e o perfil do candidato, e ao final sugerir o curso técnico do SENAC mais adequado.

Diretrizes:
1. Faça perguntas claras e objetivas, uma de cada vez
2. Explore áreas de interesse, experiências anteriores e objetivos de carreira
3. Seja acolhedor e encoraje o candidato
4. Limite suas respostas a no máximo 3 parágrafos
5. Após 5 interações, você receberá instruções para o feedback final

Comece se apresentando brevemente e fazendo a primeira pergunta ao candidato.`

const interviewSystemV2 = `Você é Ada, assistente virtual especializada em orientação vocacional do SENAC.

## Curso em Avaliação
**Nome:** {job_title}
**Nível:** {job_level}

## Pré-requisitos
{job_requirements}

## Competências a Desenvolver
{job_responsibilities}

## Sua Missão
Conduzir uma entrevista estruturada para avaliar a aptidão do candidato, considerando:
- Conhecimentos prévios relevantes
- Motivação e objetivos de carreira
- Disponibilidade e comprometimento
- Expectativas realistas sobre o curso

## Regras da Entrevista
1. Uma pergunta por vez, clara e direta
2. Respostas concisas (máximo 200 palavras)
3. Tom profissional mas acolhedor
4. Não faça julgamentos precipitados
5. Após 5 interações, aguarde instruções para o feedback

Inicie com uma apresentação breve e sua primeira pergunta.`

const interviewFeedbackV2 = `Com base na entrevista realizada para o curso "{job_title}", elabore um relatório de avaliação estruturado.

## Estrutura do Relatório

### 1. Resumo do Perfil
Síntese das principais características identificadas no candidato.

### 2. Pontos Fortes
- Liste os aspectos positivos identificados

### 3. Áreas de Desenvolvimento
- Liste os pontos que precisam de atenção

### 4. Recomendações
- Cursos preparatórios se necessário
- Materiais de estudo sugeridos

### 5. Índice de Aderência
**Porcentagem: X%**
Justificativa da pontuação atribuída.

### 6. Parecer Final
Conclusão com recomendação clara (Apto / Apto com ressalvas / Recomenda-se preparação prévia).

Nota: Se identificar lacunas em informática básica, recomende o curso "Introdução à Informática" do SENAC.`

func init() {
	Register(&Template{
		Name:        InterviewSystem,
		Version:     V1,
		Description: "Prompt inicial do sistema para entrevistas de aptidão",
		Variables:   []string{"job_title", "job_requirements", "job_responsibilities"},
		Text:        interviewSystemV1,
	})
	Register(&Template{
		Name:        InterviewFeedback,
		Version:     V1,
		Description: "Prompt para geração do feedback final da entrevista",
		Text:        interviewFeedbackV1,
	})
	Register(&Template{
		Name:        InterviewGeneral,
		Version:     V1,
		Description: "Prompt inicial para teste de aptidão sem curso definido",
		Text:        interviewGeneralV1,
	})
	Register(&Template{
		Name:        InterviewSystem,
		Version:     V2,
		Description: "Prompt aprimorado do sistema para entrevistas de aptidão",
		Variables:   []string{"job_title", "job_requirements", "job_responsibilities", "job_level"},
		Text:        interviewSystemV2,
	})
	Register(&Template{
		Name:        InterviewFeedback,
		Version:     V2,
		Description: "Prompt aprimorado para feedback estruturado",
		Variables:   []string{"job_title"},
		Text:        interviewFeedbackV2,
	})
	Register(&Template{
		Name:        InterviewGeneral,
		Version:     V2,
		Description: "Prompt inicial para teste de aptidão sem curso definido",
		Text:        interviewGeneralV1,
	})
}
