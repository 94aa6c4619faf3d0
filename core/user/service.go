package user

import (
	"fmt"
	"net/mail"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/hesabu/core"
)

const leaderboardSize = 10

var (
	// errors
	ErrNotFound           = errors.New("user not found")
	ErrEmailExists        = errors.New("a user with this email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type (
	Repository interface {
		CheckEmailUniqueness(email string) error
		CreateUser(usr User) (User, error)
		GetUserByEmail(email string) (User, error)
		// UpdateLogin persists the streak bookkeeping for a new calendar day.
		UpdateLogin(email, lastLoginDate string, streak int) error
		// QueryLeaderboard returns the top `limit` users by points, descending.
		QueryLeaderboard(limit int) ([]LeaderboardEntry, error)
		// AwardLessonOnce atomically appends lessonID to the user's completed
		// set and adds `points`, unless the lesson is already in the set.
		// It reports whether the award happened.
		AwardLessonOnce(email, lessonID string, points int) (bool, error)
		// UnlockAchievements appends the given achievement ids to the user's
		// unlocked set, skipping ids already present.
		UnlockAchievements(email string, ids []string) error
		// AddPoints unconditionally adds `points` to the user's total.
		AddPoints(email string, points int) error
	}

	Service struct {
		repo    Repository
		mailSvc core.EmailService

		now func() time.Time
	}
)

func NewService(repo Repository, mailSvc core.EmailService) *Service {
	return &Service{
		repo:    repo,
		mailSvc: mailSvc,
		now:     time.Now,
	}
}

func (svc *Service) checkUniqueness(email string) error {
	if err := svc.repo.CheckEmailUniqueness(email); err != nil {
		if errors.Cause(err) == ErrEmailExists {
			return core.NewValidationError(err, core.FieldError{Field: "email", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *Service) Register(nu NewUser) (User, error) {
	now := svc.now().UTC()
	usr := User{
		Email:                nu.Email,
		Username:             nu.Username,
		CompletedLessons:     []string{},
		UnlockedAchievements: []string{},
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := usr.SetPassword(nu.Password); err != nil {
		return User{}, errors.Wrap(err, "setting password")
	}
	usr, err := svc.repo.CreateUser(usr)
	if err != nil {
		return User{}, err
	}
	svc.sendWelcomeEmail(usr)
	return usr, nil
}

func (svc *Service) sendWelcomeEmail(usr User) {
	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: usr.Username, Address: usr.Email}},
		Subject: "Welcome!",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour account is ready. Work through the curriculum, keep your daily streak "+
				"alive and climb the leaderboard!\n", usr.Username),
	})
}

// Authenticate verifies the credentials and applies the daily-streak rule:
// a login on the day right after the last one extends the streak, a gap (or
// a first login) resets it to 1, and repeat logins on the same day change
// nothing. Unknown emails and bad passwords fail identically.
func (svc *Service) Authenticate(email, pwd string) (User, error) {
	usr, err := svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return User{}, ErrInvalidCredentials
		}
		return User{}, errors.Wrap(err, "finding user by email")
	}
	if err = usr.CheckPassword(pwd); err != nil {
		return User{}, ErrInvalidCredentials
	}

	now := svc.now().UTC()
	today := now.Format(DateLayout)
	if usr.LastLoginDate != today {
		yesterday := now.AddDate(0, 0, -1).Format(DateLayout)
		streak := 1
		if usr.LastLoginDate == yesterday {
			streak = usr.DailyStreak + 1
		}
		if err = svc.repo.UpdateLogin(usr.Email, today, streak); err != nil {
			return User{}, errors.Wrap(err, "updating login streak")
		}
		usr.LastLoginDate = today
		usr.DailyStreak = streak
	}
	return usr, nil
}

func (svc *Service) GetByEmail(email string) (User, error) {
	return svc.repo.GetUserByEmail(core.CleanString(email, true /* lower */))
}

func (svc *Service) Leaderboard() ([]LeaderboardEntry, error) {
	entries, err := svc.repo.QueryLeaderboard(leaderboardSize)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []LeaderboardEntry{}
	}
	return entries, nil
}
