package notify

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type SQLLookup struct {
	db *sqlx.DB
}

func NewSQLLookup(db *sqlx.DB) *SQLLookup {
	return &SQLLookup{db: db}
}

func (l *SQLLookup) ClassRegistration(ctx context.Context, memberID, classSessionID int) (*Details, error) {
	query := `
		SELECT m.name AS member_name, m.email AS member_email, cs.title,
			t.name AS trainer_name, r.name AS room_name, cs.start_time
		FROM class_sessions cs
		JOIN trainers t ON t.id = cs.trainer_id
		JOIN rooms r ON r.id = cs.room_id
		JOIN members m ON m.id = $1
		WHERE cs.id = $2
	`

	var d Details
	if err := l.db.GetContext(ctx, &d, query, memberID, classSessionID); err != nil {
		return nil, err
	}
	return &d, nil
}

func (l *SQLLookup) PTBooking(ctx context.Context, memberID, ptSessionID int) (*Details, error) {
	query := `
		SELECT m.name AS member_name, m.email AS member_email, 'Personal training' AS title,
			t.name AS trainer_name, r.name AS room_name, p.start_time
		FROM pt_sessions p
		JOIN trainers t ON t.id = p.trainer_id
		JOIN rooms r ON r.id = p.room_id
		JOIN members m ON m.id = p.member_id
		WHERE p.id = $2 AND p.member_id = $1
	`

	var d Details
	if err := l.db.GetContext(ctx, &d, query, memberID, ptSessionID); err != nil {
		return nil, err
	}
	return &d, nil
}
