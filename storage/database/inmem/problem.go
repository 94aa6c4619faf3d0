package inmemdb

import "github.com/trezcool/hesabu/core/problem"

type problemRepository struct {
	db *problemTable
}

func NewProblemRepository(db *DB) problem.Repository {
	return &problemRepository{db: db.problem}
}

func (repo *problemRepository) CreateProblem(prb problem.Problem) (problem.Problem, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	repo.db.table[prb.ID] = &prb
	repo.db.order = append(repo.db.order, prb.ID)
	return prb, nil
}

func (repo *problemRepository) QueryProblemsByOwner(email string) ([]problem.Problem, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	var problems []problem.Problem
	for _, id := range repo.db.order {
		if prb, ok := repo.db.table[id]; ok && prb.UserEmail == email {
			problems = append(problems, *prb)
		}
	}
	return problems, nil
}

func (repo *problemRepository) DeleteProblem(id, ownerEmail string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	prb, ok := repo.db.table[id]
	if !ok || prb.UserEmail != ownerEmail {
		return problem.ErrNotFound
	}
	delete(repo.db.table, id)
	return nil
}
