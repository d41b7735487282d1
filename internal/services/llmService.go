package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/openai"

	"entrevia/internal/config"
	"entrevia/internal/models"
	"entrevia/internal/utils"
)

// LLMService is the conversational surface the interview service depends on.
type LLMService interface {
	Chat(ctx context.Context, messages []models.Message) (string, error)
	// StructuredFeedback appends feedbackPrompt to the conversation and asks
	// the model for the final aptitude report. It returns the parsed report
	// plus its rendered text; when the model cannot produce valid JSON the
	// report is nil and the text carries a plain-text fallback.
	StructuredFeedback(ctx context.Context, messages []models.Message, feedbackPrompt string) (*models.FeedbackResult, string, error)
}

const backoffCap = 10 * time.Second

type llmService struct {
	model    llms.Model
	provider string
	cfg      config.AIConfig
}

// NewLLMService builds the configured provider. Gemini does not accept system
// messages natively, so they are downgraded to human turns for that provider.
func NewLLMService(cfg config.AIConfig) (LLMService, error) {
	var model llms.Model
	var err error

	switch cfg.Provider {
	case "gemini":
		model, err = googleai.New(context.Background(),
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.GeminiModel),
		)
	case "openai":
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.OpenAIModel),
			openai.WithBaseURL(cfg.OpenAIBaseURL),
		)
	default:
		return nil, fmt.Errorf("unsupported AI provider: %s", cfg.Provider)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s client: %w", cfg.Provider, err)
	}

	return &llmService{model: model, provider: cfg.Provider, cfg: cfg}, nil
}

func (s *llmService) convertMessages(messages []models.Message) []llms.MessageContent {
	content := make([]llms.MessageContent, 0, len(messages))
	for _, m := range messages {
		var role llms.ChatMessageType
		switch m.Role {
		case models.RoleUser:
			role = llms.ChatMessageTypeHuman
		case models.RoleAssistant:
			role = llms.ChatMessageTypeAI
		default:
			role = llms.ChatMessageTypeSystem
			if s.provider == "gemini" {
				role = llms.ChatMessageTypeHuman
			}
		}
		content = append(content, llms.TextParts(role, m.Content))
	}
	return content
}

// generate calls the model with the configured timeout, retrying timeouts and
// rate limits with exponential backoff.
func (s *llmService) generate(ctx context.Context, kind string, content []llms.MessageContent) (string, error) {
	var lastErr error

	retries := s.cfg.MaxRetries
	if retries < 1 {
		retries = 1
	}

	for attempt := 0; attempt < retries; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)

		timer := prometheus.NewTimer(utils.AIRequestDurationSeconds.WithLabelValues(s.provider, kind))
		resp, err := s.model.GenerateContent(callCtx, content,
			llms.WithTemperature(s.cfg.Temperature),
			llms.WithMaxTokens(s.cfg.MaxTokens),
		)
		timer.ObserveDuration()
		cancel()

		if err == nil {
			if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "" {
				utils.AIRequestErrorsTotal.WithLabelValues(s.provider, "empty_response").Inc()
				return "", ErrAIResponse
			}
			log.Info().Str("provider", s.provider).Str("kind", kind).Int("attempt", attempt+1).Msg("AI response obtained")
			return resp.Choices[0].Content, nil
		}

		classified := classifyAIError(err)
		utils.AIRequestErrorsTotal.WithLabelValues(s.provider, errorCode(classified)).Inc()
		lastErr = classified

		if !retryable(classified) || attempt == retries-1 {
			break
		}

		wait := backoff(attempt)
		log.Warn().Err(err).Str("provider", s.provider).Int("attempt", attempt+1).Dur("wait", wait).Msg("AI request failed, retrying")
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return "", ErrAITimeout
		}
	}

	log.Error().Err(lastErr).Str("provider", s.provider).Int("max_retries", s.cfg.MaxRetries).Msg("AI request failed after all retries")
	return "", lastErr
}

func (s *llmService) Chat(ctx context.Context, messages []models.Message) (string, error) {
	return s.generate(ctx, "chat", s.convertMessages(messages))
}

const feedbackFormatInstructions = `
Agora, gere o feedback final do candidato em formato JSON com exatamente estes campos:
{
  "pontos_positivos": ["string"],
  "pontos_negativos": ["string"],
  "melhorias_sugeridas": ["string"],
  "aderencia_percentual": 0,
  "curso_recomendado": "string ou null",
  "resumo": "string",
  "apto": true
}

IMPORTANTE: Retorne APENAS o JSON, sem texto adicional.`

func (s *llmService) StructuredFeedback(ctx context.Context, messages []models.Message, feedbackPrompt string) (*models.FeedbackResult, string, error) {
	structured := append([]models.Message{}, messages...)
	structured = append(structured, models.Message{
		Role:      models.RoleSystem,
		Content:   feedbackPrompt + "\n" + feedbackFormatInstructions,
		CreatedAt: time.Now(),
	})

	raw, err := s.generate(ctx, "feedback", s.convertMessages(structured))
	if err != nil {
		return nil, "", err
	}

	feedback, parseErr := ParseFeedback(raw)
	if parseErr == nil {
		log.Info().Int("aderencia", feedback.AderenciaPercentual).Bool("apto", feedback.Apto).Msg("Structured feedback generated")
		return feedback, feedback.FormatText(), nil
	}

	log.Warn().Err(parseErr).Str("raw_response", truncate(raw, 500)).Msg("Structured feedback unparsable, falling back to plain text")

	fallback := append([]models.Message{}, messages...)
	fallback = append(fallback, models.Message{
		Role:      models.RoleSystem,
		Content:   feedbackPrompt,
		CreatedAt: time.Now(),
	})
	text, err := s.generate(ctx, "feedback_fallback", s.convertMessages(fallback))
	if err != nil {
		return nil, "", err
	}
	return nil, text, nil
}

// ParseFeedback decodes a feedback JSON payload, tolerating markdown code
// fences around it.
func ParseFeedback(raw string) (*models.FeedbackResult, error) {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	cleaned = strings.TrimSpace(cleaned)

	var feedback models.FeedbackResult
	if err := json.Unmarshal([]byte(cleaned), &feedback); err != nil {
		return nil, fmt.Errorf("failed to parse feedback JSON: %w", err)
	}

	if feedback.AderenciaPercentual < 0 || feedback.AderenciaPercentual > 100 {
		return nil, fmt.Errorf("aderencia_percentual out of range: %d", feedback.AderenciaPercentual)
	}
	if feedback.Resumo == "" {
		return nil, fmt.Errorf("feedback missing resumo")
	}
	return &feedback, nil
}

// classifyAIError maps provider errors onto the service taxonomy by message
// inspection, the only signal the SDKs expose uniformly.
func classifyAIError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrAITimeout
	}

	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out") || strings.Contains(msg, "deadline"):
		return ErrAITimeout
	case strings.Contains(msg, "rate limit") || strings.Contains(msg, "429") || strings.Contains(msg, "quota"):
		return &AIRateLimitError{RetryAfter: time.Minute}
	case strings.Contains(msg, "api key") || strings.Contains(msg, "401") || strings.Contains(msg, "authentication") || strings.Contains(msg, "unauthorized"):
		return ErrAIAuthentication
	case strings.Contains(msg, "connection") || strings.Contains(msg, "network") || strings.Contains(msg, "dial") || strings.Contains(msg, "no such host"):
		return ErrAIConnection
	default:
		return fmt.Errorf("%w: %s", ErrAIResponse, err.Error())
	}
}

func retryable(err error) bool {
	var rateLimit *AIRateLimitError
	return errors.Is(err, ErrAITimeout) || errors.As(err, &rateLimit)
}

func backoff(attempt int) time.Duration {
	wait := time.Duration(1<<uint(attempt)) * time.Second
	if wait > backoffCap {
		wait = backoffCap
	}
	return wait
}

func errorCode(err error) string {
	var rateLimit *AIRateLimitError
	switch {
	case errors.Is(err, ErrAITimeout):
		return "timeout"
	case errors.As(err, &rateLimit):
		return "rate_limit"
	case errors.Is(err, ErrAIAuthentication):
		return "authentication"
	case errors.Is(err, ErrAIConnection):
		return "connection"
	default:
		return "response"
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}
