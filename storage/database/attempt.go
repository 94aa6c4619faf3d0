package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/hesabu/core/attempt"
)

type attemptRepository struct {
	db *sqlx.DB
}

func NewAttemptRepository(db *sqlx.DB) attempt.Repository {
	return &attemptRepository{db: db}
}

type attemptRow struct {
	ID        int64     `db:"id"`
	UserEmail string    `db:"user_email"`
	LessonID  string    `db:"lesson_id"`
	Correct   bool      `db:"is_correct"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo *attemptRepository) CreateAttempt(att attempt.QuizAttempt) (attempt.QuizAttempt, error) {
	err := repo.db.Get(
		&att.ID,
		`INSERT INTO quiz_attempts (user_email, lesson_id, is_correct, created_at)
		 VALUES ($1, $2, $3, $4) RETURNING id`,
		att.UserEmail, att.LessonID, att.Correct, att.CreatedAt,
	)
	if err != nil {
		return attempt.QuizAttempt{}, errors.Wrap(err, "inserting attempt")
	}
	return att, nil
}

func (repo *attemptRepository) QueryAttemptsByUser(email string) ([]attempt.QuizAttempt, error) {
	var attempts []attempt.QuizAttempt
	rows, err := repo.db.Queryx(
		"SELECT * FROM quiz_attempts WHERE user_email = $1 ORDER BY id ASC", email)
	if err != nil {
		return nil, errors.Wrap(err, "querying attempts")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var row attemptRow
		if err = rows.StructScan(&row); err != nil {
			return nil, errors.Wrap(err, "scanning attempt")
		}
		attempts = append(attempts, attempt.QuizAttempt{
			ID:        row.ID,
			UserEmail: row.UserEmail,
			LessonID:  row.LessonID,
			Correct:   row.Correct,
			CreatedAt: row.CreatedAt,
		})
	}
	return attempts, errors.Wrap(rows.Err(), "reading attempt rows")
}
