package database

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/hesabu/core/problem"
)

type problemRepository struct {
	db *sqlx.DB
}

func NewProblemRepository(db *sqlx.DB) problem.Repository {
	return &problemRepository{db: db}
}

type problemRow struct {
	ID         string    `db:"id"`
	UserEmail  string    `db:"user_email"`
	Title      string    `db:"title"`
	Equation   string    `db:"equation"`
	Difficulty string    `db:"difficulty"`
	Solved     bool      `db:"solved"`
	CreatedAt  time.Time `db:"created_at"`
}

func (repo *problemRepository) CreateProblem(prb problem.Problem) (problem.Problem, error) {
	_, err := repo.db.Exec(
		`INSERT INTO problems (id, user_email, title, equation, difficulty, solved, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		prb.ID, prb.UserEmail, prb.Title, prb.Equation, prb.Difficulty, prb.Solved, prb.CreatedAt,
	)
	if err != nil {
		return problem.Problem{}, errors.Wrap(err, "inserting problem")
	}
	return prb, nil
}

func (repo *problemRepository) QueryProblemsByOwner(email string) ([]problem.Problem, error) {
	var problems []problem.Problem
	rows, err := repo.db.Queryx(
		"SELECT * FROM problems WHERE user_email = $1 ORDER BY created_at ASC", email)
	if err != nil {
		return nil, errors.Wrap(err, "querying problems")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var row problemRow
		if err = rows.StructScan(&row); err != nil {
			return nil, errors.Wrap(err, "scanning problem")
		}
		problems = append(problems, problem.Problem{
			ID:         row.ID,
			UserEmail:  row.UserEmail,
			Title:      row.Title,
			Equation:   row.Equation,
			Difficulty: row.Difficulty,
			Solved:     row.Solved,
			CreatedAt:  row.CreatedAt,
		})
	}
	return problems, errors.Wrap(rows.Err(), "reading problem rows")
}

func (repo *problemRepository) DeleteProblem(id, ownerEmail string) error {
	res, err := repo.db.Exec(
		"DELETE FROM problems WHERE id = $1 AND user_email = $2", id, ownerEmail)
	if err != nil {
		return errors.Wrap(err, "deleting problem")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "checking affected rows")
	}
	if n == 0 {
		return problem.ErrNotFound
	}
	return nil
}
