package tables

import (
	"context"
	"errors"
	"time"
)

var (
	ErrInvalidState  = errors.New("invalid table state")
	ErrTableOccupied = errors.New("table already has an open order")
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, number, seats int, section string) (*Table, error) {
	if number <= 0 || seats <= 0 {
		return nil, errors.New("table number and seats must be positive")
	}

	taken, err := s.repo.ExistsByNumber(ctx, number)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrNumberTaken
	}

	now := time.Now().UTC()
	t := &Table{
		Number:    number,
		Seats:     seats,
		Section:   section,
		State:     StateFree,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Table, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]*Table, error) {
	return s.repo.List(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// SetState moves a table between floor states. Seating attaches the
// open order; freeing detaches it.
func (s *Service) SetState(ctx context.Context, id, state, orderID string) (*Table, error) {
	if !ValidState(state) {
		return nil, ErrInvalidState
	}

	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if state == StateOccupied {
		if t.State == StateOccupied && t.OrderID != "" && t.OrderID != orderID {
			return nil, ErrTableOccupied
		}
		t.OrderID = orderID
	} else {
		t.OrderID = ""
	}

	t.State = state
	t.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// Seat marks a table occupied by an order.
func (s *Service) Seat(ctx context.Context, id, orderID string) (*Table, error) {
	return s.SetState(ctx, id, StateOccupied, orderID)
}

// Free returns a table to the floor after cleaning.
func (s *Service) Free(ctx context.Context, id string) (*Table, error) {
	return s.SetState(ctx, id, StateFree, "")
}
