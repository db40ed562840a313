package repository

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mounirActualMarketing/online-sub000/internal/model"
)

type EnrollmentRepositoryIntegrationTestSuite struct {
	suite.Suite
	db             *sqlx.DB
	userRepo       UserRepository
	paymentRepo    PaymentRepository
	assessmentRepo AssessmentRepository
	pgc            *postgres.PostgresContainer
	ctx            context.Context
}

func (s *EnrollmentRepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	pgc, err := postgres.Run(s.ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("test-db"),
		postgres.WithUsername("user"),
		postgres.WithPassword("password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second),
		),
	)
	if err != nil {
		log.Fatalf("could not start postgres container: %s", err)
	}
	s.pgc = pgc

	connStr, err := pgc.ConnectionString(s.ctx, "sslmode=disable")
	assert.NoError(s.T(), err)

	db, err := sqlx.Connect("pgx", connStr)
	assert.NoError(s.T(), err)
	s.db = db

	err = goose.Up(db.DB, "../../migrations")
	assert.NoError(s.T(), err)

	s.userRepo = NewPostgresUserRepository(s.db)
	s.paymentRepo = NewPostgresPaymentRepository(s.db)
	s.assessmentRepo = NewPostgresAssessmentRepository(s.db)
}

func (s *EnrollmentRepositoryIntegrationTestSuite) TearDownSuite() {
	s.db.Close()
	if err := s.pgc.Terminate(s.ctx); err != nil {
		log.Fatalf("failed to terminate pg container: %s", err)
	}
}

func (s *EnrollmentRepositoryIntegrationTestSuite) TestUpsert_RepeatPurchaseConverges() {
	// Arrange
	first := &model.User{
		Email:        "repeat@test.com",
		PasswordHash: "hash-1",
		Name:         "First Name",
		Phone:        "0501234567",
		Role:         model.RoleUser,
	}

	// Act: first purchase creates the account
	firstID, err := s.userRepo.Upsert(s.ctx, first)
	assert.NoError(s.T(), err)
	assert.NotEqual(s.T(), uuid.Nil, firstID)

	// Act: second purchase with the same email updates in place
	second := &model.User{
		Email:        "repeat@test.com",
		PasswordHash: "hash-2",
		Name:         "Updated Name",
		Phone:        "0559876543",
		Role:         model.RoleUser,
	}
	secondID, err := s.userRepo.Upsert(s.ctx, second)

	// Assert: same row, new details
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), firstID, secondID)

	found, err := s.userRepo.FindByEmail(s.ctx, "repeat@test.com")
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), "Updated Name", found.Name)
	assert.Equal(s.T(), "hash-2", found.PasswordHash)
}

func (s *EnrollmentRepositoryIntegrationTestSuite) TestPayment_DuplicateTranRefRejected() {
	userID, err := s.userRepo.Upsert(s.ctx, &model.User{
		Email:        "payer@test.com",
		PasswordHash: "hash",
		Name:         "Payer",
		Role:         model.RoleUser,
	})
	assert.NoError(s.T(), err)

	payment := &model.Payment{
		UserID:         userID,
		TransactionRef: "TST-DUP-1",
		CartID:         "cart-1",
		Amount:         47,
		Currency:       "SAR",
		Status:         model.PaymentCompleted,
		TransactionAt:  time.Now(),
	}
	assert.NoError(s.T(), s.paymentRepo.Create(s.ctx, payment))

	replay := *payment
	replay.ID = uuid.Nil
	err = s.paymentRepo.Create(s.ctx, &replay)
	assert.ErrorIs(s.T(), err, ErrDuplicateTransaction)
}

func (s *EnrollmentRepositoryIntegrationTestSuite) TestAssessment_InitIfAbsentDoesNotReset() {
	userID, err := s.userRepo.Upsert(s.ctx, &model.User{
		Email:        "assessed@test.com",
		PasswordHash: "hash",
		Name:         "Assessed",
		Role:         model.RoleUser,
	})
	assert.NoError(s.T(), err)

	assert.NoError(s.T(), s.assessmentRepo.InitIfAbsent(s.ctx, userID))

	// Simulate the assessment-taking flow moving the record forward.
	_, err = s.db.ExecContext(s.ctx, `UPDATE assessments SET status = 'IN_PROGRESS' WHERE user_id = $1`, userID)
	assert.NoError(s.T(), err)

	// A re-provisioned user must keep their progress.
	assert.NoError(s.T(), s.assessmentRepo.InitIfAbsent(s.ctx, userID))

	found, err := s.assessmentRepo.FindByUserID(s.ctx, userID)
	assert.NoError(s.T(), err)
	assert.Equal(s.T(), model.AssessmentInProgress, found.Status)
}

func TestEnrollmentRepositoryIntegration(t *testing.T) {
	if os.Getenv("DOCKER_HOST") == "" {
		t.Skip("Docker is not available, skipping integration test.")
	}
	suite.Run(t, new(EnrollmentRepositoryIntegrationTestSuite))
}
