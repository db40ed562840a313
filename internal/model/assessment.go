package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	AssessmentNotStarted = "NOT_STARTED"
	AssessmentInProgress = "IN_PROGRESS"
	AssessmentCompleted  = "COMPLETED"
)

// Assessment tracks the onboarding questionnaire state for one user
// (one row per user). The enrollment pipeline only ever creates it in the
// NOT_STARTED state; the assessment-taking flow owns every later transition.
type Assessment struct {
	ID          uuid.UUID  `db:"id"`
	UserID      uuid.UUID  `db:"user_id"`
	Status      string     `db:"status"`
	Score       *float64   `db:"score"`
	CompletedAt *time.Time `db:"completed_at"`
	CreatedAt   time.Time  `db:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at"`
}
