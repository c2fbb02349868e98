package room

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

func (r *PostgresRepository) CreateRoom(ctx context.Context, name string, capacity int, location string) (*Room, error) {
	query := `
		INSERT INTO rooms (name, capacity, location)
		VALUES ($1, $2, NULLIF($3, ''))
		RETURNING id, name, capacity, COALESCE(location, '') AS location
	`

	var room Room
	err := r.db.GetContext(ctx, &room, query, name, capacity, location)
	if db.IsConstraintViolation(err, db.CodeUniqueViolation, "rooms_name_key") {
		return nil, ErrNameExists
	}
	if err != nil {
		return nil, err
	}

	return &room, nil
}

func (r *PostgresRepository) GetAllRooms(ctx context.Context) ([]Room, error) {
	query := `
		SELECT id, name, capacity, COALESCE(location, '') AS location
		FROM rooms
		ORDER BY id
	`

	rooms := []Room{}
	if err := r.db.SelectContext(ctx, &rooms, query); err != nil {
		return nil, err
	}

	return rooms, nil
}

func (r *PostgresRepository) GetRoomByID(ctx context.Context, id int) (*Room, error) {
	query := `
		SELECT id, name, capacity, COALESCE(location, '') AS location
		FROM rooms
		WHERE id = $1
	`

	var room Room
	if err := r.db.GetContext(ctx, &room, query, id); err != nil {
		return nil, err
	}

	return &room, nil
}
