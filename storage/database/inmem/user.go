package inmemdb

import (
	"sort"
	"time"

	"github.com/trezcool/hesabu/core/user"
)

type userRepository struct {
	db *userTable
}

func NewUserRepository(db *DB) user.Repository {
	return &userRepository{db: db.user}
}

func (repo *userRepository) CheckEmailUniqueness(email string) error {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if _, ok := repo.db.table[email]; ok {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	if _, ok := repo.db.table[usr.Email]; ok {
		return user.User{}, user.ErrEmailExists
	}
	repo.db.table[usr.Email] = &usr
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if usr, ok := repo.db.table[email]; ok {
		// copies stay non-nil so empty sets serialize as [] like the
		// postgres repo's decoded columns
		cp := *usr
		cp.CompletedLessons = append(make([]string, 0, len(usr.CompletedLessons)), usr.CompletedLessons...)
		cp.UnlockedAchievements = append(make([]string, 0, len(usr.UnlockedAchievements)), usr.UnlockedAchievements...)
		return cp, nil
	}
	return user.User{}, user.ErrNotFound
}

func (repo *userRepository) UpdateLogin(email, lastLoginDate string, streak int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[email]
	if !ok {
		return user.ErrNotFound
	}
	usr.LastLoginDate = lastLoginDate
	usr.DailyStreak = streak
	usr.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *userRepository) QueryLeaderboard(limit int) ([]user.LeaderboardEntry, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	entries := make([]user.LeaderboardEntry, 0, len(repo.db.table))
	for _, usr := range repo.db.table {
		entries = append(entries, user.LeaderboardEntry{Username: usr.Username, Points: usr.Points})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Points != entries[j].Points {
			return entries[i].Points > entries[j].Points
		}
		return entries[i].Username < entries[j].Username
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (repo *userRepository) AwardLessonOnce(email, lessonID string, points int) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[email]
	if !ok {
		return false, user.ErrNotFound
	}
	for _, id := range usr.CompletedLessons {
		if id == lessonID {
			return false, nil
		}
	}
	usr.CompletedLessons = append(usr.CompletedLessons, lessonID)
	usr.Points += points
	usr.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (repo *userRepository) UnlockAchievements(email string, ids []string) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[email]
	if !ok {
		return user.ErrNotFound
	}
	present := make(map[string]bool, len(usr.UnlockedAchievements))
	for _, id := range usr.UnlockedAchievements {
		present[id] = true
	}
	for _, id := range ids {
		if !present[id] {
			usr.UnlockedAchievements = append(usr.UnlockedAchievements, id)
		}
	}
	usr.UpdatedAt = time.Now().UTC()
	return nil
}

func (repo *userRepository) AddPoints(email string, points int) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	usr, ok := repo.db.table[email]
	if !ok {
		return user.ErrNotFound
	}
	usr.Points += points
	usr.UpdatedAt = time.Now().UTC()
	return nil
}
