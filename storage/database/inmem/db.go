// Package inmemdb provides in-memory repositories for tests and local
// experiments; data lives in mutex-guarded maps and is lost on exit.
package inmemdb

import (
	"sync"

	"github.com/trezcool/hesabu/core/attempt"
	"github.com/trezcool/hesabu/core/problem"
	"github.com/trezcool/hesabu/core/user"
)

type (
	DB struct {
		user    *userTable
		problem *problemTable
		attempt *attemptTable
	}

	userTable struct {
		mutex sync.RWMutex
		table map[string]*user.User // keyed by email
	}

	problemTable struct {
		mutex sync.RWMutex
		table map[string]*problem.Problem // keyed by id
		order []string                    // insertion order
	}

	attemptTable struct {
		mutex sync.RWMutex
		rows  []attempt.QuizAttempt
		pk    int64
	}
)

func Open() (*DB, error) {
	db := &DB{
		user:    &userTable{table: make(map[string]*user.User)},
		problem: &problemTable{table: make(map[string]*problem.Problem)},
		attempt: &attemptTable{},
	}
	return db, nil
}

// Reset clears all tables.
func (db *DB) Reset() {
	db.user.mutex.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.mutex.Unlock()

	db.problem.mutex.Lock()
	db.problem.table = make(map[string]*problem.Problem)
	db.problem.order = nil
	db.problem.mutex.Unlock()

	db.attempt.mutex.Lock()
	db.attempt.rows = nil
	db.attempt.pk = 0
	db.attempt.mutex.Unlock()
}
