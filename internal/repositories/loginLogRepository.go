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

type LoginLogRepository interface {
	Create(ctx context.Context, entry *models.LoginLog) error
	CountRecentFailed(ctx context.Context, username, ipAddress string, since time.Time) (int64, error)
}

type loginLogRepository struct {
	db database.Service
}

func NewLoginLogRepository(db database.Service) LoginLogRepository {
	return &loginLogRepository{db: db}
}

func (r *loginLogRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("login_logs")
}

func (r *loginLogRepository) Create(ctx context.Context, entry *models.LoginLog) error {
	queryType := "create"
	repository := "loginLog"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	entry.CreatedAt = time.Now()
	_, err := r.collection().InsertOne(ctx, entry)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("username", entry.Username).Msg("Failed to record login attempt")
		return fmt.Errorf("failed to record login attempt: %w", err)
	}
	return nil
}

// CountRecentFailed counts failed attempts since the cutoff for the given
// username or IP, whichever matches.
func (r *loginLogRepository) CountRecentFailed(ctx context.Context, username, ipAddress string, since time.Time) (int64, error) {
	queryType := "countRecentFailed"
	repository := "loginLog"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	filter := bson.M{
		"status":     models.LoginStatusFailed,
		"created_at": bson.M{"$gte": since},
		"$or": []bson.M{
			{"username": username},
			{"ip_address": ipAddress},
		},
	}

	count, err := r.collection().CountDocuments(ctx, filter)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to count failed login attempts")
		return 0, fmt.Errorf("failed to count failed login attempts: %w", err)
	}
	return count, nil
}
