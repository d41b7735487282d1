package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"entrevia/internal/models"
	"entrevia/internal/repositories"
	"entrevia/internal/utils"
)

const (
	OTPExpirationMinutes    = 10
	OTPPurposeResetPassword = "reset_password"
)

type OTPService interface {
	GenerateOTPForgotPassword(ctx context.Context, email string) (string, error)
	VerifyOTP(ctx context.Context, email, otpCode string) error
}

type otpService struct {
	userRepo     repositories.UserRepository
	otpRepo      repositories.OTPRepository
	emailService EmailService
}

func NewOTPService(userRepo repositories.UserRepository, otpRepo repositories.OTPRepository, emailService EmailService) OTPService {
	return &otpService{userRepo: userRepo, otpRepo: otpRepo, emailService: emailService}
}

// GenerateOTPForgotPassword creates a reset code for the account behind email
// and mails it. Callers must not reveal to the requester whether the account
// exists.
func (s *otpService) GenerateOTPForgotPassword(ctx context.Context, email string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return "", ErrInvalidOTP
		}
		return "", err
	}

	otpCode, err := utils.GenerateSecureOTP(6)
	if err != nil {
		return "", err
	}

	otp := &models.OTP{
		UserID:    user.ID,
		OTPCode:   otpCode,
		Purpose:   OTPPurposeResetPassword,
		ExpiresAt: time.Now().Add(OTPExpirationMinutes * time.Minute),
		IsUsed:    false,
	}
	if _, err := s.otpRepo.Create(ctx, otp); err != nil {
		return "", err
	}

	subject := "Recuperação de senha"
	body := fmt.Sprintf("Seu código para redefinição de senha é: <b>%s</b><br>Ele expira em %d minutos.", otpCode, OTPExpirationMinutes)
	if err := s.emailService.SendEmail(email, subject, body); err != nil {
		return "", err
	}

	return otpCode, nil
}

// VerifyOTP consumes the code: a valid code is marked used so it cannot be
// replayed.
func (s *otpService) VerifyOTP(ctx context.Context, email, otpCode string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrInvalidOTP
		}
		return err
	}

	otp, err := s.otpRepo.FindValid(ctx, user.ID, otpCode, OTPPurposeResetPassword)
	if err != nil {
		return err
	}
	if otp == nil {
		return ErrInvalidOTP
	}

	return s.otpRepo.MarkAsUsed(ctx, otp.ID)
}
