package problem

import (
	"time"

	"github.com/pkg/errors"
)

var ErrNotFound = errors.New("problem not found")

type (
	Repository interface {
		CreateProblem(prb Problem) (Problem, error)
		QueryProblemsByOwner(email string) ([]Problem, error)
		// DeleteProblem removes the problem only when it belongs to
		// ownerEmail; ErrNotFound otherwise.
		DeleteProblem(id, ownerEmail string) error
	}

	// UserRepository is the slice of the user store this service needs.
	UserRepository interface {
		AddPoints(email string, points int) error
	}

	Service struct {
		repo    Repository
		usrRepo UserRepository

		now func() time.Time
	}
)

func NewService(repo Repository, usrRepo UserRepository) *Service {
	return &Service{
		repo:    repo,
		usrRepo: usrRepo,
		now:     time.Now,
	}
}

// Create stores the problem and awards the difficulty-tier points to its
// owner. The award is not idempotent: every creation adds points.
func (svc *Service) Create(np NewProblem) (Problem, int, error) {
	now := svc.now().UTC()
	prb := Problem{
		ID:         newID(now),
		UserEmail:  np.UserEmail,
		Title:      np.Title,
		Equation:   np.Equation,
		Difficulty: np.Difficulty,
		CreatedAt:  now,
	}
	prb, err := svc.repo.CreateProblem(prb)
	if err != nil {
		return Problem{}, 0, errors.Wrap(err, "creating problem")
	}

	points := PointsFor(prb.Difficulty)
	if err = svc.usrRepo.AddPoints(prb.UserEmail, points); err != nil {
		return Problem{}, 0, errors.Wrap(err, "awarding problem points")
	}
	return prb, points, nil
}

func (svc *Service) QueryByOwner(email string) ([]Problem, error) {
	problems, err := svc.repo.QueryProblemsByOwner(email)
	if err != nil {
		return nil, err
	}
	if problems == nil {
		problems = []Problem{}
	}
	return problems, nil
}

// Delete removes a problem owned by requesterEmail. Ids that do not exist
// and ids owned by someone else are indistinguishable: both ErrNotFound.
func (svc *Service) Delete(id, requesterEmail string) error {
	return svc.repo.DeleteProblem(id, requesterEmail)
}

// Review acknowledges a solve request without evaluating the equation or
// transitioning the solved flag; equation checking is not implemented.
func (svc *Service) Review(id string) string {
	return "Problem marked as reviewed."
}
