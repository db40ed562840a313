package service_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mounirActualMarketing/online-sub000/internal/model"
	"github.com/mounirActualMarketing/online-sub000/internal/service"
)

type adminUserRepo struct {
	mockUserRepo
	mu    sync.Mutex
	users map[string]*model.User
}

func (m *adminUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func adminUser(t *testing.T, role string) *model.User {
	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.DefaultCost)
	require.NoError(t, err)
	return &model.User{
		ID:           uuid.New(),
		Email:        "admin@x.com",
		PasswordHash: string(hash),
		Name:         "Admin",
		Role:         role,
	}
}

func TestAdminLogin_Success(t *testing.T) {
	repo := &adminUserRepo{users: map[string]*model.User{"admin@x.com": adminUser(t, model.RoleAdmin)}}
	s := service.NewAdminService(repo, &mockPaymentRepo{}, &mockAssessmentRepo{}, "test-secret")

	token, err := s.Login(context.Background(), "admin@x.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)
}

func TestAdminLogin_WrongPassword(t *testing.T) {
	repo := &adminUserRepo{users: map[string]*model.User{"admin@x.com": adminUser(t, model.RoleAdmin)}}
	s := service.NewAdminService(repo, &mockPaymentRepo{}, &mockAssessmentRepo{}, "test-secret")

	_, err := s.Login(context.Background(), "admin@x.com", "wrong")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAdminLogin_UnknownEmail(t *testing.T) {
	repo := &adminUserRepo{users: map[string]*model.User{}}
	s := service.NewAdminService(repo, &mockPaymentRepo{}, &mockAssessmentRepo{}, "test-secret")

	_, err := s.Login(context.Background(), "ghost@x.com", "whatever")
	require.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestAdminLogin_CustomerRoleRejected(t *testing.T) {
	repo := &adminUserRepo{users: map[string]*model.User{"admin@x.com": adminUser(t, model.RoleUser)}}
	s := service.NewAdminService(repo, &mockPaymentRepo{}, &mockAssessmentRepo{}, "test-secret")

	_, err := s.Login(context.Background(), "admin@x.com", "correct-horse")
	require.ErrorIs(t, err, service.ErrNotAdmin)
}
