package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"

	"entrevia/internal/config"
	"entrevia/internal/metrics"
	"entrevia/internal/models"
	"entrevia/internal/repositories"
	"entrevia/internal/utils"
)

const (
	lockoutThreshold = 5
	lockoutWindow    = 30 * time.Minute
)

// LoginAttempt carries the request metadata recorded alongside every attempt.
type LoginAttempt struct {
	Username  string
	Password  string
	IPAddress string
	UserAgent string
}

type AuthService interface {
	Login(ctx context.Context, attempt LoginAttempt) (*models.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error)
	Verify(ctx context.Context, token string) error
	Logout(ctx context.Context, refreshToken string) error
	Me(ctx context.Context, userID primitive.ObjectID) (*models.UserSummary, error)
	ForgotPassword(ctx context.Context, email string)
	ResetPassword(ctx context.Context, email, otpCode, newPassword string) error
}

type authService struct {
	userRepo     repositories.UserRepository
	loginLogRepo repositories.LoginLogRepository
	tokenRepo    repositories.TokenRepository
	otpService   OTPService
	tokens       *utils.TokenManager
	rotateTokens bool
}

func NewAuthService(
	userRepo repositories.UserRepository,
	loginLogRepo repositories.LoginLogRepository,
	tokenRepo repositories.TokenRepository,
	otpService OTPService,
	cfg config.JWTConfig,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		loginLogRepo: loginLogRepo,
		tokenRepo:    tokenRepo,
		otpService:   otpService,
		tokens:       utils.NewTokenManager(cfg),
		rotateTokens: cfg.RotateRefreshTokens,
	}
}

// Login authenticates the candidate coordinator. Five failed attempts within
// thirty minutes, counted per username or source IP, lock further attempts
// until the window slides past.
func (s *authService) Login(ctx context.Context, attempt LoginAttempt) (*models.TokenPair, error) {
	failures, err := s.loginLogRepo.CountRecentFailed(ctx, attempt.Username, attempt.IPAddress, time.Now().Add(-lockoutWindow))
	if err != nil {
		return nil, err
	}
	if failures >= lockoutThreshold {
		s.recordAttempt(ctx, nil, attempt, models.LoginStatusBlocked, "too many failed attempts")
		metrics.LoginAttemptsTotal.WithLabelValues(models.LoginStatusBlocked).Inc()
		log.Warn().Str("username", attempt.Username).Str("ip", attempt.IPAddress).Msg("Login blocked by lockout")
		return nil, ErrAccountLocked
	}

	user, err := s.userRepo.FindByUsername(ctx, attempt.Username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			s.recordAttempt(ctx, nil, attempt, models.LoginStatusFailed, "unknown username")
			metrics.LoginAttemptsTotal.WithLabelValues(models.LoginStatusFailed).Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(attempt.Password)); err != nil {
		s.recordAttempt(ctx, &user.ID, attempt, models.LoginStatusFailed, "wrong password")
		metrics.LoginAttemptsTotal.WithLabelValues(models.LoginStatusFailed).Inc()
		return nil, ErrInvalidCredentials
	}

	if !user.IsActive {
		s.recordAttempt(ctx, &user.ID, attempt, models.LoginStatusFailed, "inactive account")
		metrics.LoginAttemptsTotal.WithLabelValues(models.LoginStatusFailed).Inc()
		return nil, ErrUserInactive
	}

	now := time.Now()
	if _, err := s.userRepo.Update(ctx, user.ID, bson.M{"last_login": now}); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("Failed to update last login")
	}
	user.LastLogin = &now

	s.recordAttempt(ctx, &user.ID, attempt, models.LoginStatusSuccess, "")
	metrics.LoginAttemptsTotal.WithLabelValues(models.LoginStatusSuccess).Inc()
	log.Info().Str("username", user.Username).Msg("Login successful")

	return s.issuePair(user)
}

// Refresh exchanges a valid, non-blacklisted refresh token for a new access
// token. When rotation is enabled the old refresh token is blacklisted and a
// new one issued.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	claims, err := s.tokens.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return nil, err
	}

	blacklisted, err := s.tokenRepo.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if blacklisted {
		return nil, utils.ErrInvalidToken
	}

	userID, err := claims.SubjectID()
	if err != nil {
		return nil, utils.ErrInvalidToken
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, utils.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	pair := &models.TokenPair{
		Access:    access,
		Refresh:   refreshToken,
		ExpiresIn: int64(s.tokens.AccessLifetime().Seconds()),
		TokenType: "Bearer",
	}

	if s.rotateTokens {
		if err := s.tokenRepo.Blacklist(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
			return nil, err
		}
		rotated, err := s.tokens.GenerateRefreshToken(user)
		if err != nil {
			return nil, err
		}
		pair.Refresh = rotated
	}

	return pair, nil
}

func (s *authService) Verify(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseToken(token, utils.TokenTypeAccess)
	if err != nil {
		return err
	}
	blacklisted, err := s.tokenRepo.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if blacklisted {
		return utils.ErrInvalidToken
	}
	return nil
}

// Logout blacklists the refresh token until its natural expiry. Access tokens
// are short-lived and simply age out. A token that is already expired or
// otherwise unparseable cannot be replayed, so logout still succeeds.
func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	claims, err := s.tokens.ParseToken(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidToken) || errors.Is(err, utils.ErrWrongTokenType) {
			return nil
		}
		return err
	}
	return s.tokenRepo.Blacklist(ctx, claims.ID, claims.ExpiresAt.Time)
}

func (s *authService) Me(ctx context.Context, userID primitive.ObjectID) (*models.UserSummary, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary := user.Summary()
	return &summary, nil
}

// ForgotPassword triggers the OTP email in the background. It intentionally
// reports nothing back, and the SMTP round trip happens off the request path,
// so neither the body nor the latency reveals whether the account exists.
func (s *authService) ForgotPassword(ctx context.Context, email string) {
	go func() {
		sendCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if _, err := s.otpService.GenerateOTPForgotPassword(sendCtx, email); err != nil && !errors.Is(err, ErrInvalidOTP) {
			log.Error().Err(err).Msg("Failed to issue password reset OTP")
		}
	}()
}

func (s *authService) ResetPassword(ctx context.Context, email, otpCode, newPassword string) error {
	if err := s.otpService.VerifyOTP(ctx, email, otpCode); err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOTP
		}
		return err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), 8)
	if err != nil {
		return err
	}

	if _, err := s.userRepo.Update(ctx, user.ID, bson.M{"password": string(hashed)}); err != nil {
		return err
	}
	log.Info().Str("user_id", user.ID.Hex()).Msg("Password reset completed")
	return nil
}

func (s *authService) issuePair(user *models.User) (*models.TokenPair, error) {
	access, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	summary := user.Summary()
	return &models.TokenPair{
		Access:    access,
		Refresh:   refresh,
		ExpiresIn: int64(s.tokens.AccessLifetime().Seconds()),
		TokenType: "Bearer",
		User:      &summary,
	}, nil
}

func (s *authService) recordAttempt(ctx context.Context, userID *primitive.ObjectID, attempt LoginAttempt, status, message string) {
	entry := &models.LoginLog{
		UserID:    userID,
		Username:  attempt.Username,
		IPAddress: attempt.IPAddress,
		UserAgent: attempt.UserAgent,
		Status:    status,
		Message:   message,
	}
	if err := s.loginLogRepo.Create(ctx, entry); err != nil {
		log.Error().Err(err).Str("username", attempt.Username).Msg("Failed to record login attempt")
	}
}
