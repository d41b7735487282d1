package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"entrevia/internal/database"
	"entrevia/internal/models"
)

type OTPRepository interface {
	Create(ctx context.Context, otp *models.OTP) (*models.OTP, error)
	FindValid(ctx context.Context, userID primitive.ObjectID, otpCode, purpose string) (*models.OTP, error)
	MarkAsUsed(ctx context.Context, otpID primitive.ObjectID) error
	DeleteExpired(ctx context.Context) error
}

type otpRepository struct {
	db database.Service
}

func NewOTPRepository(db database.Service) OTPRepository {
	return &otpRepository{db: db}
}

func (r *otpRepository) collection() *mongo.Collection {
	return r.db.Database().Collection("otps")
}

func (r *otpRepository) Create(ctx context.Context, otp *models.OTP) (*models.OTP, error) {
	otp.ID = primitive.NewObjectID()
	otp.CreatedAt = time.Now()
	_, err := r.collection().InsertOne(ctx, otp)
	if err != nil {
		return nil, err
	}
	return otp, nil
}

// FindValid returns an unused, unexpired OTP for the user, or nil.
func (r *otpRepository) FindValid(ctx context.Context, userID primitive.ObjectID, otpCode, purpose string) (*models.OTP, error) {
	var otp models.OTP
	filter := bson.M{
		"user_id":    userID,
		"otp_code":   otpCode,
		"purpose":    purpose,
		"is_used":    false,
		"expires_at": bson.M{"$gt": time.Now()},
	}
	err := r.collection().FindOne(ctx, filter).Decode(&otp)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return &otp, nil
}

func (r *otpRepository) MarkAsUsed(ctx context.Context, otpID primitive.ObjectID) error {
	update := bson.M{"$set": bson.M{"is_used": true}}
	_, err := r.collection().UpdateOne(ctx, bson.M{"_id": otpID}, update)
	return err
}

func (r *otpRepository) DeleteExpired(ctx context.Context) error {
	filter := bson.M{"expires_at": bson.M{"$lt": time.Now()}}
	_, err := r.collection().DeleteMany(ctx, filter)
	return err
}
