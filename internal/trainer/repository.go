package trainer

import (
	"context"

	"fitclub/internal/db"

	"github.com/jmoiron/sqlx"
)

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(dbx *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: dbx}
}

func (r *PostgresRepository) CreateTrainer(ctx context.Context, name, email string) (*Trainer, error) {
	query := `
		INSERT INTO trainers (name, email)
		VALUES ($1, $2)
		RETURNING id, name, email
	`

	var trainer Trainer
	err := r.db.GetContext(ctx, &trainer, query, name, email)
	if db.IsConstraintViolation(err, db.CodeUniqueViolation, "trainers_email_key") {
		return nil, ErrEmailExists
	}
	if err != nil {
		return nil, err
	}

	return &trainer, nil
}

func (r *PostgresRepository) GetAllTrainers(ctx context.Context) ([]Trainer, error) {
	trainers := []Trainer{}
	err := r.db.SelectContext(ctx, &trainers, `SELECT id, name, email FROM trainers ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return trainers, nil
}

func (r *PostgresRepository) GetTrainerByID(ctx context.Context, id int) (*Trainer, error) {
	var trainer Trainer
	err := r.db.GetContext(ctx, &trainer, `SELECT id, name, email FROM trainers WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &trainer, nil
}
