package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"entrevia/internal/database"
	"entrevia/internal/models"
	"entrevia/internal/utils"
)

// ExchangeUpdate carries everything one interview turn writes: the messages to
// append and, on the final turn, the completion flag and structured feedback.
type ExchangeUpdate struct {
	Messages  []models.Message
	Completed bool
	Feedback  *models.FeedbackResult
}

type InterviewRepository interface {
	Create(ctx context.Context, interview *models.Interview) (*models.Interview, error)
	FindByUUID(ctx context.Context, uuid string) (*models.Interview, error)
	FindAll(ctx context.Context) ([]models.Interview, error)
	AppendExchange(ctx context.Context, uuid string, update ExchangeUpdate) error
}

type interviewRepository struct {
	db database.Service
}

func NewInterviewRepository(db database.Service) InterviewRepository {
	return &interviewRepository{db: db}
}

func (r *interviewRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("interviews")
}

func (r *interviewRepository) Create(ctx context.Context, interview *models.Interview) (*models.Interview, error) {
	queryType := "create"
	repository := "interview"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection().InsertOne(ctx, interview)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("uuid", interview.UUID).Msg("Failed to insert interview")
		return nil, fmt.Errorf("failed to create interview: %w", err)
	}
	return interview, nil
}

func (r *interviewRepository) FindByUUID(ctx context.Context, uuid string) (*models.Interview, error) {
	queryType := "findByUuid"
	repository := "interview"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var interview models.Interview
	err := r.collection().FindOne(ctx, bson.M{"_id": uuid}).Decode(&interview)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			status = "error"
			utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		}
		return nil, err
	}
	return &interview, nil
}

func (r *interviewRepository) FindAll(ctx context.Context) ([]models.Interview, error) {
	queryType := "findAll"
	repository := "interview"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to list interviews")
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	defer cursor.Close(ctx)

	var interviews []models.Interview
	if err := cursor.All(ctx, &interviews); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to decode interviews: %w", err)
	}
	return interviews, nil
}

// AppendExchange commits one interview turn in a single document update. The
// filter refuses interviews that completed since they were read, so a racing
// final turn cannot be appended twice.
func (r *interviewRepository) AppendExchange(ctx context.Context, uuid string, update ExchangeUpdate) error {
	queryType := "appendExchange"
	repository := "interview"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	set := bson.M{"updated_at": time.Now()}
	if update.Completed {
		set["completed"] = true
	}
	if update.Feedback != nil {
		set["feedback"] = update.Feedback
	}

	result, err := r.collection().UpdateOne(ctx,
		bson.M{"_id": uuid, "completed": false},
		bson.M{
			"$push": bson.M{"messages": bson.M{"$each": update.Messages}},
			"$set":  set,
		},
	)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("uuid", uuid).Msg("Error appending interview exchange")
		return fmt.Errorf("failed to append exchange: %w", err)
	}
	if result.MatchedCount == 0 {
		return mongo.ErrNoDocuments
	}
	return nil
}
