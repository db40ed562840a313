package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/mounirActualMarketing/online-sub000/internal/jwt"
	"github.com/mounirActualMarketing/online-sub000/internal/model"
	"github.com/mounirActualMarketing/online-sub000/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrNotAdmin           = errors.New("account does not have admin access")
)

type AdminService interface {
	Login(ctx context.Context, email, password string) (accessToken string, err error)
	ListUsers(ctx context.Context, page, limit int) ([]model.User, error)
	ListPayments(ctx context.Context, page, limit int) ([]model.Payment, error)
	GetUserAssessment(ctx context.Context, userID uuid.UUID) (*model.Assessment, error)
}

type adminService struct {
	userRepo       repository.UserRepository
	paymentRepo    repository.PaymentRepository
	assessmentRepo repository.AssessmentRepository
	jwtSecret      string
}

func NewAdminService(
	userRepo repository.UserRepository,
	paymentRepo repository.PaymentRepository,
	assessmentRepo repository.AssessmentRepository,
	jwtSecret string,
) AdminService {
	return &adminService{
		userRepo:       userRepo,
		paymentRepo:    paymentRepo,
		assessmentRepo: assessmentRepo,
		jwtSecret:      jwtSecret,
	}
}

func (s *adminService) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	if user.Role != model.RoleAdmin && user.Role != model.RoleSuperAdmin {
		return "", ErrNotAdmin
	}

	return jwt.GenerateAccessToken(s.jwtSecret, user)
}

func (s *adminService) ListUsers(ctx context.Context, page, limit int) ([]model.User, error) {
	offset := (page - 1) * limit
	return s.userRepo.List(ctx, limit, offset)
}

func (s *adminService) ListPayments(ctx context.Context, page, limit int) ([]model.Payment, error) {
	offset := (page - 1) * limit
	return s.paymentRepo.List(ctx, limit, offset)
}

func (s *adminService) GetUserAssessment(ctx context.Context, userID uuid.UUID) (*model.Assessment, error) {
	return s.assessmentRepo.FindByUserID(ctx, userID)
}
