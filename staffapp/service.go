package staffapp

import (
	"context"
	"errors"
	"fmt"

	"resolveit/auth"
)

var (
	ErrAlreadyStaff   = errors.New("staffapp: already a staff member or admin")
	ErrPendingExists  = errors.New("staffapp: a pending application already exists")
	ErrInvalidAnswers = errors.New("staffapp: invalid answers")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Questions(ctx context.Context) []Question {
	return Questions()
}

// Submit grades the answers and persists the application. Answers are
// validated fully before any write so a malformed sheet never reaches the
// database.
func (s *Service) Submit(ctx context.Context, applicantID string, role auth.Role, answers []int) (Application, error) {
	if role != auth.RoleUser {
		return Application{}, ErrAlreadyStaff
	}
	if len(answers) != len(answerKey) {
		return Application{}, fmt.Errorf("%w: expected %d answers, got %d", ErrInvalidAnswers, len(answerKey), len(answers))
	}
	for i, a := range answers {
		if a < 0 || a > 3 {
			return Application{}, fmt.Errorf("%w: answer %d out of range", ErrInvalidAnswers, i+1)
		}
	}

	pending, err := s.repo.HasPending(ctx, applicantID)
	if err != nil {
		return Application{}, err
	}
	if pending {
		return Application{}, ErrPendingExists
	}

	return s.repo.Create(ctx, CreateParams{
		ApplicantID: applicantID,
		Answers:     answers,
		Score:       Score(answers),
		Total:       len(answerKey),
	})
}

// MyStatus returns the applicant's most recent application. ErrNotFound means
// they never applied.
func (s *Service) MyStatus(ctx context.Context, applicantID string) (Application, error) {
	return s.repo.LatestByApplicant(ctx, applicantID)
}

func (s *Service) Pending(ctx context.Context) ([]Application, error) {
	return s.repo.ListPending(ctx)
}

func (s *Service) Get(ctx context.Context, id string) (Application, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) Approve(ctx context.Context, id, reviewerID string) (Application, error) {
	return s.repo.Approve(ctx, id, reviewerID)
}

func (s *Service) Reject(ctx context.Context, id, reviewerID, reason string) (Application, error) {
	return s.repo.Reject(ctx, id, reviewerID, reason)
}

func (s *Service) StaffList(ctx context.Context) ([]StaffMember, error) {
	return s.repo.StaffList(ctx)
}
