package call

import (
	"context"
	"time"

	"github.com/google/uuid"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=call
type Repository interface {
	CreateCall(ctx context.Context, c *Call) error
	ListCalls(ctx context.Context) ([]*Call, error)
	DeleteCall(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Log records a call at the given instant, or now when at is zero.
func (s *Service) Log(ctx context.Context, at time.Time) (*Call, error) {
	if at.IsZero() {
		at = time.Now()
	}

	c := &Call{ID: uuid.New(), Date: at}
	if err := s.repo.CreateCall(ctx, c); err != nil {
		return nil, err
	}

	return c, nil
}

// List returns every call, newest first.
func (s *Service) List(ctx context.Context) ([]*Call, error) {
	return s.repo.ListCalls(ctx)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteCall(ctx, id)
}
