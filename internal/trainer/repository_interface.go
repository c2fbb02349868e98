package trainer

import "context"

type Repository interface {
	CreateTrainer(ctx context.Context, name, email string) (*Trainer, error)
	GetAllTrainers(ctx context.Context) ([]Trainer, error)
	GetTrainerByID(ctx context.Context, id int) (*Trainer, error)
}
