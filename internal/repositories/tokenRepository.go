package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"entrevia/internal/database"
	"entrevia/internal/models"
	"entrevia/internal/utils"
)

type TokenRepository interface {
	Blacklist(ctx context.Context, jti string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, jti string) (bool, error)
}

type tokenRepository struct {
	db database.Service
}

func NewTokenRepository(db database.Service) TokenRepository {
	return &tokenRepository{db: db}
}

func (r *tokenRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("token_blacklist")
}

func (r *tokenRepository) Blacklist(ctx context.Context, jti string, expiresAt time.Time) error {
	queryType := "blacklist"
	repository := "token"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	entry := &models.BlacklistedToken{
		JTI:       jti,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	_, err := r.collection().InsertOne(ctx, entry)
	if err != nil {
		// A replayed logout for the same token is not an error.
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("jti", jti).Msg("Failed to blacklist token")
		return fmt.Errorf("failed to blacklist token: %w", err)
	}
	return nil
}

func (r *tokenRepository) IsBlacklisted(ctx context.Context, jti string) (bool, error) {
	queryType := "isBlacklisted"
	repository := "token"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	err := r.collection().FindOne(ctx, bson.M{"jti": jti}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return true, nil
}
