package inmemdb

import "github.com/trezcool/hesabu/core/attempt"

type attemptRepository struct {
	db *attemptTable
}

func NewAttemptRepository(db *DB) attempt.Repository {
	return &attemptRepository{db: db.attempt}
}

func (repo *attemptRepository) CreateAttempt(att attempt.QuizAttempt) (attempt.QuizAttempt, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.pk++
	att.ID = repo.db.pk
	repo.db.rows = append(repo.db.rows, att)
	return att, nil
}

func (repo *attemptRepository) QueryAttemptsByUser(email string) ([]attempt.QuizAttempt, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var attempts []attempt.QuizAttempt
	for _, att := range repo.db.rows {
		if att.UserEmail == email {
			attempts = append(attempts, att)
		}
	}
	return attempts, nil
}
