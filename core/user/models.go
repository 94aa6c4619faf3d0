package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/hesabu/core"
)

// DateLayout is the calendar-day format used for streak bookkeeping.
const DateLayout = "2006-01-02"

type User struct {
	Email                string    `json:"email"`
	Username             string    `json:"username"`
	PasswordHash         []byte    `json:"-"`
	Points               int       `json:"points"`
	DailyStreak          int       `json:"dailyStreak"`
	LastLoginDate        string    `json:"lastLoginDate"` // YYYY-MM-DD, empty before first login
	CompletedLessons     []string  `json:"completedLessons"`
	UnlockedAchievements []string  `json:"unlockedAchievements"`
	CreatedAt            time.Time `json:"created_at"` // UTC
	UpdatedAt            time.Time `json:"updated_at"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u *User) HasCompleted(lessonID string) bool {
	for _, id := range u.CompletedLessons {
		if id == lessonID {
			return true
		}
	}
	return false
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,min=3,alphanum_"`
	Password string `json:"password" validate:"required,min=8"`
}

func (nu *NewUser) Validate(validate *validator.Validate, svc *Service) error {
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	nu.Username = core.CleanString(nu.Username)

	if err := validate.Struct(nu); err != nil {
		return err
	}
	return svc.checkUniqueness(nu.Email)
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (c *Credentials) Validate(validate *validator.Validate) error {
	c.Email = core.CleanString(c.Email, true /* lower */)
	return validate.Struct(c)
}

// LeaderboardEntry is a public leaderboard row.
type LeaderboardEntry struct {
	Username string `json:"username"`
	Points   int    `json:"points"`
}
