package attempt

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hesabu/core"
)

// QuizAttempt is one row of the append-only attempt audit log. Rows are
// never updated or deleted.
type QuizAttempt struct {
	ID        int64     `json:"id"`
	UserEmail string    `json:"userEmail"`
	LessonID  string    `json:"lessonId"`
	Correct   bool      `json:"is_correct"`
	CreatedAt time.Time `json:"timestamp"` // UTC
}

// NewAttempt is the log-attempt request payload.
type NewAttempt struct {
	UserEmail string `json:"userEmail" validate:"required,email"`
	LessonID  string `json:"lessonId" validate:"required"`
	Correct   bool   `json:"is_correct"`
}

func (na *NewAttempt) Validate(validate *validator.Validate) error {
	na.UserEmail = core.CleanString(na.UserEmail, true /* lower */)
	na.LessonID = core.CleanString(na.LessonID)
	return validate.Struct(na)
}

// Result is the outcome of logging an attempt.
type Result struct {
	Message string `json:"message"`
}

// Report is the per-user practice analytics.
// Mastered topics sit at ≥80% accuracy, struggling ones below 50%; lessons
// in between appear in neither list. Topic lists and the accuracy map carry
// lesson titles, resolved from the catalog when the report is built.
type Report struct {
	TotalAttempts    int                `json:"totalAttempts"`
	OverallAccuracy  float64            `json:"overallAccuracy"` // percent, 1 decimal
	MasteredTopics   []string           `json:"masteredTopics"`
	StruggleTopics   []string           `json:"struggleTopics"`
	AccuracyByLesson map[string]float64 `json:"accuracyByLesson"`
}
