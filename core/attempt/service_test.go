package attempt

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/hesabu/core/catalog"
	"github.com/trezcool/hesabu/core/user"
)

type fakeRepo struct {
	rows []QuizAttempt
}

var _ Repository = (*fakeRepo)(nil)

func (r *fakeRepo) CreateAttempt(att QuizAttempt) (QuizAttempt, error) {
	att.ID = int64(len(r.rows) + 1)
	r.rows = append(r.rows, att)
	return att, nil
}

func (r *fakeRepo) QueryAttemptsByUser(email string) ([]QuizAttempt, error) {
	var attempts []QuizAttempt
	for _, att := range r.rows {
		if att.UserEmail == email {
			attempts = append(attempts, att)
		}
	}
	return attempts, nil
}

type fakeUserRepo struct {
	usr *user.User
}

var _ UserRepository = (*fakeUserRepo)(nil)

func (r *fakeUserRepo) GetUserByEmail(email string) (user.User, error) {
	if r.usr == nil || r.usr.Email != email {
		return user.User{}, user.ErrNotFound
	}
	return *r.usr, nil
}

func (r *fakeUserRepo) AwardLessonOnce(email, lessonID string, points int) (bool, error) {
	if r.usr == nil || r.usr.Email != email {
		return false, user.ErrNotFound
	}
	if r.usr.HasCompleted(lessonID) {
		return false, nil
	}
	r.usr.CompletedLessons = append(r.usr.CompletedLessons, lessonID)
	r.usr.Points += points
	return true, nil
}

func (r *fakeUserRepo) UnlockAchievements(email string, ids []string) error {
	if r.usr == nil || r.usr.Email != email {
		return user.ErrNotFound
	}
	r.usr.UnlockedAchievements = append(r.usr.UnlockedAchievements, ids...)
	return nil
}

func setup(t *testing.T) (*Service, *fakeRepo, *fakeUserRepo) {
	cat, err := catalog.New()
	require.NoError(t, err)

	repo := new(fakeRepo)
	usrRepo := &fakeUserRepo{usr: &user.User{Email: "zahra@test.cd", Username: "zahra"}}
	return NewService(repo, usrRepo, cat), repo, usrRepo
}

func TestService_Log(t *testing.T) {
	svc, repo, usrRepo := setup(t)
	cat := svc.catalog
	lsn, ok := cat.Lesson("FND_L1")
	require.True(t, ok)

	log := func(lessonID string, correct bool) Result {
		res, err := svc.Log(NewAttempt{UserEmail: "zahra@test.cd", LessonID: lessonID, Correct: correct})
		require.NoError(t, err)
		return res
	}

	// every attempt lands on the audit log, whatever the outcome
	assert.Equal(t, Result{Message: "Incorrect. Keep trying!"}, log(lsn.ID, false))
	assert.Equal(t, Result{Message: "Correct!"}, log("XX_L99", true))
	assert.Equal(t, Result{Message: fmt.Sprintf("Correct! You earned %d points.", lsn.Points)}, log(lsn.ID, true))
	assert.Equal(t, Result{Message: "Correct!"}, log(lsn.ID, true)) // completion already on record
	assert.Len(t, repo.rows, 4)

	// points and completion awarded exactly once
	assert.Equal(t, lsn.Points, usrRepo.usr.Points)
	assert.Equal(t, []string{lsn.ID}, usrRepo.usr.CompletedLessons)
	assert.Contains(t, usrRepo.usr.UnlockedAchievements, "UVT1")

	// incorrect answers never touch the completion set
	assert.Equal(t, Result{Message: "Incorrect. Keep trying!"}, log("GRP_L1", false))
	assert.Equal(t, []string{lsn.ID}, usrRepo.usr.CompletedLessons)
}

func TestService_Analytics(t *testing.T) {
	svc, repo, _ := setup(t)
	cat := svc.catalog
	lsnA, _ := cat.Lesson("FND_L1")
	lsnB, _ := cat.Lesson("GRP_L1")
	lsnC, _ := cat.Lesson("RNG_L1")

	t.Run("no attempts", func(t *testing.T) {
		report, err := svc.Analytics("zahra@test.cd")
		require.NoError(t, err)
		assert.Equal(t, Report{
			MasteredTopics:   []string{},
			StruggleTopics:   []string{},
			AccuracyByLesson: map[string]float64{},
		}, report)
	})

	seed := func(lessonID string, correct bool, n int) {
		for i := 0; i < n; i++ {
			_, err := repo.CreateAttempt(QuizAttempt{
				UserEmail: "zahra@test.cd", LessonID: lessonID, Correct: correct, CreatedAt: time.Now().UTC(),
			})
			require.NoError(t, err)
		}
	}
	seed(lsnA.ID, true, 4) // 80%: mastered
	seed(lsnA.ID, false, 1)
	seed(lsnB.ID, true, 1) // 33.3%: struggling
	seed(lsnB.ID, false, 2)
	seed(lsnC.ID, true, 1) // 50%: neither list
	seed(lsnC.ID, false, 1)
	seed("XX_L99", true, 1) // off-catalog, overall figure only

	report, err := svc.Analytics("zahra@test.cd")
	require.NoError(t, err)

	assert.Equal(t, 11, report.TotalAttempts)
	assert.Equal(t, 63.6, report.OverallAccuracy) // 7/11, rounded to 1 decimal
	assert.Equal(t, []string{lsnA.Title}, report.MasteredTopics)
	assert.Equal(t, []string{lsnB.Title}, report.StruggleTopics)
	assert.Equal(t, map[string]float64{
		lsnA.Title: float64(4) / float64(5) * 100,
		lsnB.Title: float64(1) / float64(3) * 100,
		lsnC.Title: float64(1) / float64(2) * 100,
	}, report.AccuracyByLesson)

	// someone with no history still gets the zero report
	report, err = svc.Analytics("imani@test.cd")
	require.NoError(t, err)
	assert.Equal(t, 0, report.TotalAttempts)
}
