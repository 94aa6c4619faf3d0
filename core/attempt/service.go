package attempt

import (
	"fmt"
	"math"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/hesabu/core/catalog"
	"github.com/trezcool/hesabu/core/user"
)

const (
	masteredThreshold  = 80.0
	struggleThreshold  = 50.0
	msgIncorrect       = "Incorrect. Keep trying!"
	msgCorrect         = "Correct!"
	msgCorrectAwardFmt = "Correct! You earned %d points."
)

type (
	Repository interface {
		CreateAttempt(att QuizAttempt) (QuizAttempt, error)
		QueryAttemptsByUser(email string) ([]QuizAttempt, error)
	}

	// UserRepository is the slice of the user store this service needs.
	UserRepository interface {
		GetUserByEmail(email string) (user.User, error)
		AwardLessonOnce(email, lessonID string, points int) (bool, error)
		UnlockAchievements(email string, ids []string) error
	}

	Service struct {
		repo    Repository
		usrRepo UserRepository
		catalog *catalog.Catalog

		now func() time.Time
	}
)

func NewService(repo Repository, usrRepo UserRepository, cat *catalog.Catalog) *Service {
	return &Service{
		repo:    repo,
		usrRepo: usrRepo,
		catalog: cat,
		now:     time.Now,
	}
}

// Log appends one audit row for the attempt. A correct answer for a catalog
// lesson additionally awards the lesson's points and records the completion,
// at most once per lesson per user; repeat correct answers change nothing.
// Achievement rules are evaluated right after a completion is recorded.
func (svc *Service) Log(na NewAttempt) (Result, error) {
	att := QuizAttempt{
		UserEmail: na.UserEmail,
		LessonID:  na.LessonID,
		Correct:   na.Correct,
		CreatedAt: svc.now().UTC(),
	}
	if _, err := svc.repo.CreateAttempt(att); err != nil {
		return Result{}, errors.Wrap(err, "recording attempt")
	}

	if !na.Correct {
		return Result{Message: msgIncorrect}, nil
	}

	lsn, known := svc.catalog.Lesson(na.LessonID)
	if !known {
		return Result{Message: msgCorrect}, nil
	}

	awarded, err := svc.usrRepo.AwardLessonOnce(na.UserEmail, lsn.ID, lsn.Points)
	if err != nil {
		return Result{}, errors.Wrap(err, "awarding lesson completion")
	}
	if !awarded {
		return Result{Message: msgCorrect}, nil
	}

	if err = svc.unlockAchievements(na.UserEmail); err != nil {
		return Result{}, err
	}
	return Result{Message: fmt.Sprintf(msgCorrectAwardFmt, lsn.Points)}, nil
}

func (svc *Service) unlockAchievements(email string) error {
	usr, err := svc.usrRepo.GetUserByEmail(email)
	if err != nil {
		return errors.Wrap(err, "reloading user for achievements")
	}
	newly := svc.catalog.NewlyUnlocked(usr.CompletedLessons, usr.UnlockedAchievements)
	if len(newly) == 0 {
		return nil
	}
	return errors.Wrap(svc.usrRepo.UnlockAchievements(email, newly), "unlocking achievements")
}

// Analytics aggregates the user's whole attempt history. Accuracy is
// computed per lesson id; titles only enter the report when it is built.
func (svc *Service) Analytics(email string) (Report, error) {
	attempts, err := svc.repo.QueryAttemptsByUser(email)
	if err != nil {
		return Report{}, errors.Wrap(err, "querying attempts")
	}

	report := Report{
		MasteredTopics:   []string{},
		StruggleTopics:   []string{},
		AccuracyByLesson: make(map[string]float64),
	}
	if len(attempts) == 0 {
		return report, nil
	}

	type tally struct{ total, correct int }
	byLesson := make(map[string]*tally)
	var totalCorrect int
	for _, att := range attempts {
		t, ok := byLesson[att.LessonID]
		if !ok {
			t = &tally{}
			byLesson[att.LessonID] = t
		}
		t.total++
		if att.Correct {
			t.correct++
			totalCorrect++
		}
	}

	for _, lsn := range svc.catalog.Lessons() {
		t, attempted := byLesson[lsn.ID]
		if !attempted {
			continue
		}
		accuracy := float64(t.correct) / float64(t.total) * 100
		report.AccuracyByLesson[lsn.Title] = accuracy
		switch {
		case accuracy >= masteredThreshold:
			report.MasteredTopics = append(report.MasteredTopics, lsn.Title)
		case accuracy < struggleThreshold:
			report.StruggleTopics = append(report.StruggleTopics, lsn.Title)
		}
	}

	report.TotalAttempts = len(attempts)
	overall := float64(totalCorrect) / float64(len(attempts)) * 100
	report.OverallAccuracy = math.Round(overall*10) / 10
	return report, nil
}
