package database

import (
	"database/sql"
	"encoding/json"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/trezcool/hesabu/core/user"
)

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) user.Repository {
	return &userRepository{db: db}
}

// userRow mirrors the users table; the set-valued fields are stored as
// JSON-serialized text and decoded on read.
type userRow struct {
	Email                string    `db:"email"`
	Username             string    `db:"username"`
	PasswordHash         []byte    `db:"password_hash"`
	Points               int       `db:"points"`
	DailyStreak          int       `db:"daily_streak"`
	LastLoginDate        string    `db:"last_login_date"`
	CompletedLessons     string    `db:"completed_lessons"`
	UnlockedAchievements string    `db:"unlocked_achievements"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

func (row userRow) toUser() (user.User, error) {
	usr := user.User{
		Email:         row.Email,
		Username:      row.Username,
		PasswordHash:  row.PasswordHash,
		Points:        row.Points,
		DailyStreak:   row.DailyStreak,
		LastLoginDate: row.LastLoginDate,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}
	if err := json.Unmarshal([]byte(row.CompletedLessons), &usr.CompletedLessons); err != nil {
		return user.User{}, errors.Wrap(err, "decoding completed lessons")
	}
	if err := json.Unmarshal([]byte(row.UnlockedAchievements), &usr.UnlockedAchievements); err != nil {
		return user.User{}, errors.Wrap(err, "decoding unlocked achievements")
	}
	return usr, nil
}

func encodeSet(set []string) (string, error) {
	if set == nil {
		set = []string{}
	}
	data, err := json.Marshal(set)
	if err != nil {
		return "", errors.Wrap(err, "encoding set")
	}
	return string(data), nil
}

func (repo *userRepository) CheckEmailUniqueness(email string) error {
	var exists bool
	err := repo.db.Get(&exists, "SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)", email)
	if err != nil {
		return errors.Wrap(err, "checking email uniqueness")
	}
	if exists {
		return user.ErrEmailExists
	}
	return nil
}

func (repo *userRepository) CreateUser(usr user.User) (user.User, error) {
	completed, err := encodeSet(usr.CompletedLessons)
	if err != nil {
		return user.User{}, err
	}
	unlocked, err := encodeSet(usr.UnlockedAchievements)
	if err != nil {
		return user.User{}, err
	}
	_, err = repo.db.Exec(
		`INSERT INTO users
		   (email, username, password_hash, points, daily_streak, last_login_date,
		    completed_lessons, unlocked_achievements, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		usr.Email, usr.Username, usr.PasswordHash, usr.Points, usr.DailyStreak,
		usr.LastLoginDate, completed, unlocked, usr.CreatedAt, usr.UpdatedAt,
	)
	if err != nil {
		return user.User{}, errors.Wrap(err, "inserting user")
	}
	return usr, nil
}

func (repo *userRepository) GetUserByEmail(email string) (user.User, error) {
	var row userRow
	err := repo.db.Get(&row, "SELECT * FROM users WHERE email = $1", email)
	if err != nil {
		if err == sql.ErrNoRows {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, errors.Wrap(err, "selecting user")
	}
	return row.toUser()
}

func (repo *userRepository) UpdateLogin(email, lastLoginDate string, streak int) error {
	res, err := repo.db.Exec(
		"UPDATE users SET last_login_date = $1, daily_streak = $2, updated_at = now() WHERE email = $3",
		lastLoginDate, streak, email,
	)
	if err != nil {
		return errors.Wrap(err, "updating login streak")
	}
	return checkAffected(res)
}

func (repo *userRepository) QueryLeaderboard(limit int) ([]user.LeaderboardEntry, error) {
	var entries []user.LeaderboardEntry
	rows, err := repo.db.Query(
		"SELECT username, points FROM users ORDER BY points DESC, username ASC LIMIT $1", limit)
	if err != nil {
		return nil, errors.Wrap(err, "querying leaderboard")
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var entry user.LeaderboardEntry
		if err = rows.Scan(&entry.Username, &entry.Points); err != nil {
			return nil, errors.Wrap(err, "scanning leaderboard entry")
		}
		entries = append(entries, entry)
	}
	return entries, errors.Wrap(rows.Err(), "reading leaderboard rows")
}

// AwardLessonOnce runs a compare-and-swap loop on the serialized completed
// set: the UPDATE only lands when the set is unchanged since the read, so
// two concurrent first-correct answers cannot both award.
func (repo *userRepository) AwardLessonOnce(email, lessonID string, points int) (bool, error) {
	for {
		var row userRow
		err := repo.db.Get(
			&row, "SELECT completed_lessons FROM users WHERE email = $1", email)
		if err != nil {
			if err == sql.ErrNoRows {
				return false, user.ErrNotFound
			}
			return false, errors.Wrap(err, "selecting completed lessons")
		}

		var completed []string
		if err = json.Unmarshal([]byte(row.CompletedLessons), &completed); err != nil {
			return false, errors.Wrap(err, "decoding completed lessons")
		}
		for _, id := range completed {
			if id == lessonID {
				return false, nil
			}
		}

		updated, err := encodeSet(append(completed, lessonID))
		if err != nil {
			return false, err
		}
		res, err := repo.db.Exec(
			`UPDATE users
			    SET points = points + $1, completed_lessons = $2, updated_at = now()
			  WHERE email = $3 AND completed_lessons = $4`,
			points, updated, email, row.CompletedLessons,
		)
		if err != nil {
			return false, errors.Wrap(err, "recording lesson completion")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return false, errors.Wrap(err, "checking affected rows")
		}
		if n == 1 {
			return true, nil
		}
		// lost a concurrent update; re-read and retry
	}
}

// UnlockAchievements uses the same compare-and-swap scheme to keep the
// unlocked set append-only under concurrency.
func (repo *userRepository) UnlockAchievements(email string, ids []string) error {
	for {
		var row userRow
		err := repo.db.Get(
			&row, "SELECT unlocked_achievements FROM users WHERE email = $1", email)
		if err != nil {
			if err == sql.ErrNoRows {
				return user.ErrNotFound
			}
			return errors.Wrap(err, "selecting unlocked achievements")
		}

		var unlocked []string
		if err = json.Unmarshal([]byte(row.UnlockedAchievements), &unlocked); err != nil {
			return errors.Wrap(err, "decoding unlocked achievements")
		}
		present := make(map[string]bool, len(unlocked))
		for _, id := range unlocked {
			present[id] = true
		}
		var added bool
		for _, id := range ids {
			if !present[id] {
				unlocked = append(unlocked, id)
				added = true
			}
		}
		if !added {
			return nil
		}

		updated, err := encodeSet(unlocked)
		if err != nil {
			return err
		}
		res, err := repo.db.Exec(
			`UPDATE users
			    SET unlocked_achievements = $1, updated_at = now()
			  WHERE email = $2 AND unlocked_achievements = $3`,
			updated, email, row.UnlockedAchievements,
		)
		if err != nil {
			return errors.Wrap(err, "recording achievements")
		}
		n, err := res.RowsAffected()
		if err != nil {
			return errors.Wrap(err, "checking affected rows")
		}
		if n == 1 {
			return nil
		}
	}
}

func (repo *userRepository) AddPoints(email string, points int) error {
	res, err := repo.db.Exec(
		"UPDATE users SET points = points + $1, updated_at = now() WHERE email = $2", points, email)
	if err != nil {
		return errors.Wrap(err, "adding points")
	}
	return checkAffected(res)
}

func checkAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "checking affected rows")
	}
	if n == 0 {
		return user.ErrNotFound
	}
	return nil
}
