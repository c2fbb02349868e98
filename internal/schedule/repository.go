package schedule

import (
	"context"
	"database/sql"
	"time"

	"fitclub/internal/db"

	"github.com/jmoiron/sqlx"
)

// Advisory lock namespaces, the first key of pg_advisory_xact_lock(int, int).
const (
	lockNamespaceRoom    = 1
	lockNamespaceTrainer = 2
)

type PostgresStore struct {
	db *sqlx.DB
}

func NewRepository(dbx *sqlx.DB) *PostgresStore {
	return &PostgresStore{db: dbx}
}

// txIsolation is READ COMMITTED so that every statement issued after a lock
// is granted sees what the previous holder committed.
const txIsolation = sql.LevelReadCommitted

// RunInTx runs fn in one transaction. Gates take their advisory or row lock
// before reading the rows they decide on. Storage errors, deadlocks included,
// are returned to the caller unchanged.
func (s *PostgresStore) RunInTx(ctx context.Context, fn func(tx Tx) error) error {
	opts := &sql.TxOptions{Isolation: txIsolation}
	return db.WithTx(ctx, s.db, opts, func(tx *sqlx.Tx) error {
		return fn(&pgTx{tx: tx})
	})
}

type pgTx struct {
	tx *sqlx.Tx
}

func (t *pgTx) MemberExists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, t.tx, `SELECT EXISTS(SELECT 1 FROM members WHERE id = $1)`, id)
}

func (t *pgTx) TrainerExists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, t.tx, `SELECT EXISTS(SELECT 1 FROM trainers WHERE id = $1)`, id)
}

func (t *pgTx) RoomExists(ctx context.Context, id int) (bool, error) {
	return db.Exists(ctx, t.tx, `SELECT EXISTS(SELECT 1 FROM rooms WHERE id = $1)`, id)
}

func (t *pgTx) LockResource(ctx context.Context, kind ResourceKind, id int) error {
	namespace := lockNamespaceRoom
	if kind == ResourceTrainer {
		namespace = lockNamespaceTrainer
	}
	_, err := t.tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1, $2)`, namespace, id)
	return err
}

const roomBookingsQuery = `
	SELECT 'class' AS kind, id, room_id, trainer_id, start_time, end_time, 'Scheduled' AS status
	FROM class_sessions
	WHERE room_id = $1
	UNION ALL
	SELECT 'pt' AS kind, id, room_id, trainer_id, start_time, end_time, status
	FROM pt_sessions
	WHERE room_id = $1
	ORDER BY start_time
`

const trainerBookingsQuery = `
	SELECT 'class' AS kind, id, room_id, trainer_id, start_time, end_time, 'Scheduled' AS status
	FROM class_sessions
	WHERE trainer_id = $1
	UNION ALL
	SELECT 'pt' AS kind, id, room_id, trainer_id, start_time, end_time, status
	FROM pt_sessions
	WHERE trainer_id = $1
	ORDER BY start_time
`

func (t *pgTx) ListResourceBookings(ctx context.Context, kind ResourceKind, id int) ([]Booking, error) {
	query := roomBookingsQuery
	if kind == ResourceTrainer {
		query = trainerBookingsQuery
	}

	var bookings []Booking
	if err := t.tx.SelectContext(ctx, &bookings, query, id); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (t *pgTx) ListAvailability(ctx context.Context, trainerID int) ([]AvailabilityWindow, error) {
	query := `
		SELECT id, trainer_id, start_time, end_time
		FROM trainer_availabilities
		WHERE trainer_id = $1
		ORDER BY start_time
	`

	var windows []AvailabilityWindow
	if err := t.tx.SelectContext(ctx, &windows, query, trainerID); err != nil {
		return nil, err
	}
	return windows, nil
}

func (t *pgTx) InsertClassSession(ctx context.Context, s *ClassSession) error {
	query := `
		INSERT INTO class_sessions (title, trainer_id, room_id, start_time, end_time, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return t.tx.QueryRowxContext(ctx, query,
		s.Title, s.TrainerID, s.RoomID, s.StartTime, s.EndTime, s.Capacity,
	).Scan(&s.ID)
}

func (t *pgTx) LockClassSession(ctx context.Context, id int) (*ClassSession, error) {
	query := `
		SELECT id, title, trainer_id, room_id, start_time, end_time, capacity
		FROM class_sessions
		WHERE id = $1
		FOR UPDATE
	`

	var session ClassSession
	if err := t.tx.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

func (t *pgTx) UpdateClassSessionRoom(ctx context.Context, id, roomID int) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE class_sessions SET room_id = $1 WHERE id = $2`, roomID, id)
	return err
}

func (t *pgTx) ListClassSessions(ctx context.Context, from time.Time) ([]ClassSessionWithAvailability, error) {
	query := `
		SELECT cs.id, cs.title, cs.trainer_id, cs.room_id, cs.start_time, cs.end_time, cs.capacity,
			COUNT(cr.id) AS registered_count
		FROM class_sessions cs
		LEFT JOIN class_registrations cr ON cr.class_session_id = cs.id
		WHERE cs.start_time >= $1
		GROUP BY cs.id
		ORDER BY cs.start_time ASC
	`

	var classes []ClassSessionWithAvailability
	if err := t.tx.SelectContext(ctx, &classes, query, from); err != nil {
		return nil, err
	}
	return classes, nil
}

func (t *pgTx) ListTrainerClassSessions(ctx context.Context, trainerID int, from time.Time) ([]ClassSession, error) {
	query := `
		SELECT id, title, trainer_id, room_id, start_time, end_time, capacity
		FROM class_sessions
		WHERE trainer_id = $1 AND start_time >= $2
		ORDER BY start_time ASC
	`

	var classes []ClassSession
	if err := t.tx.SelectContext(ctx, &classes, query, trainerID, from); err != nil {
		return nil, err
	}
	return classes, nil
}

func (t *pgTx) InsertPTSession(ctx context.Context, s *PTSession) error {
	query := `
		INSERT INTO pt_sessions (member_id, trainer_id, room_id, start_time, end_time, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return t.tx.QueryRowxContext(ctx, query,
		s.MemberID, s.TrainerID, s.RoomID, s.StartTime, s.EndTime, s.Status,
	).Scan(&s.ID)
}

func (t *pgTx) GetPTSession(ctx context.Context, id int) (*PTSession, error) {
	query := `
		SELECT id, member_id, trainer_id, room_id, start_time, end_time, status
		FROM pt_sessions
		WHERE id = $1
		FOR UPDATE
	`

	var session PTSession
	if err := t.tx.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

func (t *pgTx) UpdatePTSessionRoom(ctx context.Context, id, roomID int) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE pt_sessions SET room_id = $1 WHERE id = $2`, roomID, id)
	return err
}

func (t *pgTx) UpdatePTSessionStatus(ctx context.Context, id int, status PTStatus) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE pt_sessions SET status = $1 WHERE id = $2`, status, id)
	return err
}

func (t *pgTx) ListPTSessions(ctx context.Context) ([]PTSession, error) {
	query := `
		SELECT id, member_id, trainer_id, room_id, start_time, end_time, status
		FROM pt_sessions
		ORDER BY start_time ASC
	`

	var sessions []PTSession
	if err := t.tx.SelectContext(ctx, &sessions, query); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (t *pgTx) ListTrainerPTSessions(ctx context.Context, trainerID int, from time.Time) ([]PTSession, error) {
	query := `
		SELECT id, member_id, trainer_id, room_id, start_time, end_time, status
		FROM pt_sessions
		WHERE trainer_id = $1 AND start_time >= $2
		ORDER BY start_time ASC
	`

	var sessions []PTSession
	if err := t.tx.SelectContext(ctx, &sessions, query, trainerID, from); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (t *pgTx) RegistrationExists(ctx context.Context, memberID, classSessionID int) (bool, error) {
	return db.Exists(ctx, t.tx, `
		SELECT EXISTS(
			SELECT 1 FROM class_registrations
			WHERE member_id = $1 AND class_session_id = $2
		)
	`, memberID, classSessionID)
}

func (t *pgTx) CountRegistrations(ctx context.Context, classSessionID int) (int, error) {
	var count int
	err := t.tx.GetContext(ctx, &count, `SELECT COUNT(*) FROM class_registrations WHERE class_session_id = $1`, classSessionID)
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (t *pgTx) InsertRegistration(ctx context.Context, r *ClassRegistration) error {
	query := `
		INSERT INTO class_registrations (member_id, class_session_id, registered_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := t.tx.QueryRowxContext(ctx, query, r.MemberID, r.ClassSessionID, r.RegisteredAt).Scan(&r.ID)
	if db.IsConstraintViolation(err, db.CodeUniqueViolation, "class_registrations_member_session_key") {
		return ErrDuplicateEnrollment
	}
	return err
}

func (t *pgTx) InsertAvailability(ctx context.Context, w *AvailabilityWindow) error {
	query := `
		INSERT INTO trainer_availabilities (trainer_id, start_time, end_time)
		VALUES ($1, $2, $3)
		RETURNING id
	`
	err := t.tx.QueryRowxContext(ctx, query, w.TrainerID, w.StartTime, w.EndTime).Scan(&w.ID)
	if db.IsConstraintViolation(err, db.CodeExclusionViolation, "trainer_availabilities_no_overlap") {
		return ErrWindowOverlap
	}
	return err
}
