package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTrainerNotFound = errors.New("trainer not found")
	ErrEmailExists     = errors.New("trainer email already exists")
	ErrInvalidTrainer  = errors.New("trainer name and email are required")
)

type Service interface {
	CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*Trainer, error)
	GetAllTrainers(ctx context.Context) ([]Trainer, error)
	GetTrainerByID(ctx context.Context, id int) (*Trainer, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateTrainer(ctx context.Context, req CreateTrainerRequest) (*Trainer, error) {
	name := strings.TrimSpace(req.Name)
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || email == "" {
		return nil, ErrInvalidTrainer
	}

	trainer, err := s.repo.CreateTrainer(ctx, name, email)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("trainer.CreateTrainer: %w", err)
	}
	return trainer, nil
}

func (s *service) GetAllTrainers(ctx context.Context) ([]Trainer, error) {
	return s.repo.GetAllTrainers(ctx)
}

func (s *service) GetTrainerByID(ctx context.Context, id int) (*Trainer, error) {
	trainer, err := s.repo.GetTrainerByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTrainerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("trainer.GetTrainerByID: %w", err)
	}
	return trainer, nil
}
