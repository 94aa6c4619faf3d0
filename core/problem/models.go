package problem

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/hesabu/core"
)

// Difficulty tiers and their point awards.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"

	defaultPoints = 5
)

var difficultyPoints = map[string]int{
	DifficultyEasy:   5,
	DifficultyMedium: 10,
	DifficultyHard:   20,
}

// PointsFor returns the award for a difficulty tier, falling back to the
// Easy tier for anything unknown.
func PointsFor(difficulty string) int {
	if pts, ok := difficultyPoints[difficulty]; ok {
		return pts
	}
	return defaultPoints
}

// Problem is a user-authored practice problem. The equation is free text and
// is never interpreted.
type Problem struct {
	ID         string    `json:"id"`
	UserEmail  string    `json:"userEmail"`
	Title      string    `json:"title"`
	Equation   string    `json:"equation"`
	Difficulty string    `json:"difficulty"`
	Solved     bool      `json:"solved"`
	CreatedAt  time.Time `json:"created_at"` // UTC
}

// NewProblem contains information needed to create a Problem.
type NewProblem struct {
	UserEmail  string `json:"userEmail" validate:"required,email"`
	Title      string `json:"title" validate:"required"`
	Equation   string `json:"equation" validate:"required"`
	Difficulty string `json:"difficulty" validate:"required,oneof=Easy Medium Hard"`
}

func (np *NewProblem) Validate(validate *validator.Validate) error {
	np.UserEmail = core.CleanString(np.UserEmail, true /* lower */)
	np.Title = core.CleanString(np.Title)
	np.Equation = core.CleanString(np.Equation)
	return validate.Struct(np)
}

// newID derives a problem id from the creation timestamp.
func newID(t time.Time) string {
	return fmt.Sprintf("p%d", t.UnixNano()/int64(time.Millisecond))
}
