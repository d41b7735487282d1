package repositories

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"entrevia/internal/database"
	"entrevia/internal/models"
	"entrevia/internal/utils"
)

type JobRepository interface {
	FindAll(ctx context.Context) ([]models.Job, error)
	FindByID(ctx context.Context, jobID primitive.ObjectID) (*models.Job, error)
	Create(ctx context.Context, job *models.Job) (*models.Job, error)
	Update(ctx context.Context, jobID primitive.ObjectID, updateFields bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, jobID primitive.ObjectID) (*mongo.DeleteResult, error)
}

type jobRepository struct {
	db database.Service
}

func NewJobRepository(db database.Service) JobRepository {
	return &jobRepository{db: db}
}

func (r *jobRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("jobs")
}

func (r *jobRepository) FindAll(ctx context.Context) ([]models.Job, error) {
	queryType := "findAll"
	repository := "job"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	opts := options.Find().SetSort(bson.D{{Key: "title", Value: 1}})
	cursor, err := r.collection().Find(ctx, bson.M{}, opts)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Msg("Failed to list jobs")
		return nil, fmt.Errorf("failed to list jobs: %w", err)
	}
	defer cursor.Close(ctx)

	var jobs []models.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		return nil, fmt.Errorf("failed to decode jobs: %w", err)
	}
	return jobs, nil
}

func (r *jobRepository) FindByID(ctx context.Context, jobID primitive.ObjectID) (*models.Job, error) {
	queryType := "findById"
	repository := "job"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	var job models.Job
	err := r.collection().FindOne(ctx, bson.M{"_id": jobID}).Decode(&job)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			status = "error"
			utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		}
		return nil, err
	}
	return &job, nil
}

func (r *jobRepository) Create(ctx context.Context, job *models.Job) (*models.Job, error) {
	queryType := "create"
	repository := "job"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	_, err := r.collection().InsertOne(ctx, job)
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("title", job.Title).Msg("Failed to insert job")
		return nil, fmt.Errorf("failed to create job: %w", err)
	}
	return job, nil
}

func (r *jobRepository) Update(ctx context.Context, jobID primitive.ObjectID, updateFields bson.M) (*mongo.UpdateResult, error) {
	queryType := "update"
	repository := "job"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	result, err := r.collection().UpdateOne(ctx, bson.M{"_id": jobID}, bson.M{"$set": updateFields})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("job_id", jobID.Hex()).Msg("Error updating job")
		return nil, fmt.Errorf("failed to update job: %w", err)
	}
	return result, nil
}

func (r *jobRepository) Delete(ctx context.Context, jobID primitive.ObjectID) (*mongo.DeleteResult, error) {
	queryType := "delete"
	repository := "job"
	status := "success"
	timer := prometheus.NewTimer(prometheus.ObserverFunc(func(v float64) {
		utils.DBQueryDurationSeconds.WithLabelValues(queryType, repository, status).Observe(v)
	}))
	defer timer.ObserveDuration()

	result, err := r.collection().DeleteOne(ctx, bson.M{"_id": jobID})
	if err != nil {
		status = "error"
		utils.DBQueryErrorsTotal.WithLabelValues(queryType, repository).Inc()
		log.Error().Err(err).Str("job_id", jobID.Hex()).Msg("Error deleting job")
		return nil, fmt.Errorf("failed to delete job: %w", err)
	}
	return result, nil
}
