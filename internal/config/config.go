package config

import (
	"fmt"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

// Config holds every externally supplied setting of the API.
type Config struct {
	Port           int
	AllowedOrigins []string

	MongoURI      string
	MongoDatabase string

	JWT       JWTConfig
	AI        AIConfig
	Interview InterviewConfig
	SMTP      SMTPConfig
	Throttle  ThrottleConfig
}

type JWTConfig struct {
	Secret               string
	AccessTokenLifetime  time.Duration
	RefreshTokenLifetime time.Duration
	RotateRefreshTokens  bool
}

type AIConfig struct {
	Provider      string // "gemini" or "openai"
	GeminiAPIKey  string
	GeminiModel   string
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string
	Timeout       time.Duration
	MaxRetries    int
	Temperature   float64
	MaxTokens     int
}

type InterviewConfig struct {
	MaxQuestions  int
	PromptVersion string
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// ThrottleConfig holds per-scope request budgets, expressed as requests per hour.
type ThrottleConfig struct {
	InterviewCreatePerHour  int
	InterviewMessagePerHour int
	InterviewDetailPerHour  int
}

// Load reads configuration from the environment (with .env autoloaded) and
// validates the parts the server cannot run without.
func Load() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("PORT", 8080)
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:3000")
	v.SetDefault("MONGO_DATABASE", "entrevia")
	v.SetDefault("ACCESS_TOKEN_LIFETIME", "1h")
	v.SetDefault("REFRESH_TOKEN_LIFETIME", "168h")
	v.SetDefault("ROTATE_REFRESH_TOKENS", false)
	v.SetDefault("AI_PROVIDER", "gemini")
	v.SetDefault("GEMINI_MODEL", "gemini-2.5-flash")
	v.SetDefault("GPT_MODEL", "gpt-4o-mini")
	v.SetDefault("OPEN_AI_BASE_URL", "https://api.openai.com/v1")
	v.SetDefault("AI_TIMEOUT", "30s")
	v.SetDefault("AI_MAX_RETRIES", 3)
	v.SetDefault("AI_TEMPERATURE", 0.7)
	v.SetDefault("AI_MAX_TOKENS", 1000)
	v.SetDefault("INTERVIEW_MAX_QUESTIONS", 5)
	v.SetDefault("PROMPT_VERSION", "v1")
	v.SetDefault("SMTP_HOST", "smtp.gmail.com")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("THROTTLE_INTERVIEW_CREATE", 10)
	v.SetDefault("THROTTLE_INTERVIEW_MESSAGE", 60)
	v.SetDefault("THROTTLE_INTERVIEW_DETAIL", 120)

	cfg := &Config{
		Port:           v.GetInt("PORT"),
		AllowedOrigins: splitOrigins(v.GetString("ALLOWED_ORIGINS")),
		MongoURI:       v.GetString("MONGO_URI"),
		MongoDatabase:  v.GetString("MONGO_DATABASE"),
		JWT: JWTConfig{
			Secret:               v.GetString("JWT_SECRET"),
			AccessTokenLifetime:  v.GetDuration("ACCESS_TOKEN_LIFETIME"),
			RefreshTokenLifetime: v.GetDuration("REFRESH_TOKEN_LIFETIME"),
			RotateRefreshTokens:  v.GetBool("ROTATE_REFRESH_TOKENS"),
		},
		AI: AIConfig{
			Provider:      v.GetString("AI_PROVIDER"),
			GeminiAPIKey:  v.GetString("GEMINI_API_KEY"),
			GeminiModel:   v.GetString("GEMINI_MODEL"),
			OpenAIAPIKey:  v.GetString("OPEN_AI_API_KEY"),
			OpenAIBaseURL: v.GetString("OPEN_AI_BASE_URL"),
			OpenAIModel:   v.GetString("GPT_MODEL"),
			Timeout:       v.GetDuration("AI_TIMEOUT"),
			MaxRetries:    v.GetInt("AI_MAX_RETRIES"),
			Temperature:   v.GetFloat64("AI_TEMPERATURE"),
			MaxTokens:     v.GetInt("AI_MAX_TOKENS"),
		},
		Interview: InterviewConfig{
			MaxQuestions:  v.GetInt("INTERVIEW_MAX_QUESTIONS"),
			PromptVersion: v.GetString("PROMPT_VERSION"),
		},
		SMTP: SMTPConfig{
			Host:     v.GetString("SMTP_HOST"),
			Port:     v.GetInt("SMTP_PORT"),
			Username: v.GetString("SMTP_USERNAME"),
			Password: v.GetString("SMTP_PASSWORD"),
		},
		Throttle: ThrottleConfig{
			InterviewCreatePerHour:  v.GetInt("THROTTLE_INTERVIEW_CREATE"),
			InterviewMessagePerHour: v.GetInt("THROTTLE_INTERVIEW_MESSAGE"),
			InterviewDetailPerHour:  v.GetInt("THROTTLE_INTERVIEW_DETAIL"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}

	switch c.AI.Provider {
	case "gemini":
		if c.AI.GeminiAPIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY is required when using the gemini provider")
		}
	case "openai":
		if c.AI.OpenAIAPIKey == "" {
			return fmt.Errorf("OPEN_AI_API_KEY is required when using the openai provider")
		}
	default:
		return fmt.Errorf("unsupported AI provider: %s (supported: gemini, openai)", c.AI.Provider)
	}

	if c.Interview.MaxQuestions < 1 {
		return fmt.Errorf("INTERVIEW_MAX_QUESTIONS must be at least 1")
	}

	if c.Interview.PromptVersion != "v1" && c.Interview.PromptVersion != "v2" {
		return fmt.Errorf("unsupported prompt version: %s", c.Interview.PromptVersion)
	}

	return nil
}

func splitOrigins(raw string) []string {
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
