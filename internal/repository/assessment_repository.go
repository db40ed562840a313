package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/mounirActualMarketing/online-sub000/internal/model"
)

type AssessmentRepository interface {
	InitIfAbsent(ctx context.Context, userID uuid.UUID) error
	FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Assessment, error)
}

type postgresAssessmentRepository struct {
	db *sqlx.DB
}

func NewPostgresAssessmentRepository(db *sqlx.DB) AssessmentRepository {
	return &postgresAssessmentRepository{db: db}
}

// InitIfAbsent creates a NOT_STARTED record for the user unless one already
// exists. Re-provisioning an existing user must not reset in-progress or
// completed work, so a conflicting insert is a no-op.
func (r *postgresAssessmentRepository) InitIfAbsent(ctx context.Context, userID uuid.UUID) error {
	query := `
		INSERT INTO assessments (user_id, status)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, userID, model.AssessmentNotStarted)
	return err
}

func (r *postgresAssessmentRepository) FindByUserID(ctx context.Context, userID uuid.UUID) (*model.Assessment, error) {
	var assessment model.Assessment
	query := `SELECT id, user_id, status, score, completed_at, created_at, updated_at FROM assessments WHERE user_id = $1`
	err := r.db.GetContext(ctx, &assessment, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &assessment, nil
}
