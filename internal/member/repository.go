package member

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fitclub/internal/db"
	"fitclub/internal/schedule"

	"github.com/jmoiron/sqlx"
)

const memberColumns = `id, name, email, date_of_birth, COALESCE(gender, '') AS gender, COALESCE(phone, '') AS phone, created_at`

const goalColumns = `id, member_id, COALESCE(description, '') AS description, target_weight_kg, target_body_fat, is_active, created_at`

type PostgresRepository struct {
	db *sqlx.DB
}

func NewRepository(dbx *sqlx.DB) *PostgresRepository {
	return &PostgresRepository{db: dbx}
}

func (r *PostgresRepository) CreateMember(ctx context.Context, m *Member) error {
	query := `
		INSERT INTO members (name, email, date_of_birth, gender, phone)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''))
		RETURNING id, created_at
	`

	err := r.db.QueryRowxContext(ctx, query, m.Name, m.Email, m.DateOfBirth, m.Gender, m.Phone).
		Scan(&m.ID, &m.CreatedAt)
	if db.IsConstraintViolation(err, db.CodeUniqueViolation, "members_email_key") {
		return ErrEmailExists
	}
	return err
}

func (r *PostgresRepository) GetMemberByID(ctx context.Context, id int) (*Member, error) {
	var m Member
	err := r.db.GetContext(ctx, &m, `SELECT `+memberColumns+` FROM members WHERE id = $1`, id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) GetAllMembers(ctx context.Context) ([]Member, error) {
	members := []Member{}
	err := r.db.SelectContext(ctx, &members, `SELECT `+memberColumns+` FROM members ORDER BY name`)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) SearchMembersByName(ctx context.Context, term string) ([]Member, error) {
	members := []Member{}
	err := r.db.SelectContext(ctx, &members,
		`SELECT `+memberColumns+` FROM members WHERE name ILIKE '%' || $1 || '%' ORDER BY name`, term)
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) UpdateProfile(ctx context.Context, id int, upd ProfileUpdate) (*Member, error) {
	var updated Member
	err := db.WithTx(ctx, r.db, nil, func(tx *sqlx.Tx) error {
		query := `
			UPDATE members SET
				name = COALESCE(NULLIF($2, ''), name),
				gender = COALESCE(NULLIF($3, ''), gender),
				phone = COALESCE(NULLIF($4, ''), phone)
			WHERE id = $1
			RETURNING ` + memberColumns

		if err := tx.GetContext(ctx, &updated, query, id, upd.Name, upd.Gender, upd.Phone); err != nil {
			return err
		}
		if upd.GoalDescription == "" {
			return nil
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE fitness_goals SET is_active = FALSE WHERE member_id = $1 AND is_active`, id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, `
			INSERT INTO fitness_goals (member_id, description, target_weight_kg, is_active, created_at)
			VALUES ($1, $2, $3, TRUE, $4)
		`, id, upd.GoalDescription, upd.TargetWeightKg, upd.Now)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *PostgresRepository) AddHealthMetric(ctx context.Context, m *HealthMetric) error {
	query := `
		INSERT INTO health_metrics (member_id, height_cm, weight_kg, heart_rate_bpm, recorded_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	err := r.db.QueryRowxContext(ctx, query, m.MemberID, m.HeightCm, m.WeightKg, m.HeartRateBpm, m.RecordedAt).Scan(&m.ID)
	if db.IsConstraintViolation(err, db.CodeForeignKeyViolation, "") {
		return ErrMemberNotFound
	}
	return err
}

func (r *PostgresRepository) LatestMetric(ctx context.Context, memberID int) (*HealthMetric, error) {
	query := `
		SELECT id, member_id, height_cm, weight_kg, heart_rate_bpm, recorded_at
		FROM health_metrics
		WHERE member_id = $1
		ORDER BY recorded_at DESC, id DESC
		LIMIT 1
	`

	var m HealthMetric
	err := r.db.GetContext(ctx, &m, query, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *PostgresRepository) ActiveGoal(ctx context.Context, memberID int) (*FitnessGoal, error) {
	query := `
		SELECT ` + goalColumns + `
		FROM fitness_goals
		WHERE member_id = $1 AND is_active
		ORDER BY created_at DESC, id DESC
		LIMIT 1
	`

	var g FitnessGoal
	err := r.db.GetContext(ctx, &g, query, memberID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *PostgresRepository) CountPastClasses(ctx context.Context, memberID int, now time.Time) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM class_registrations cr
		JOIN class_sessions cs ON cs.id = cr.class_session_id
		WHERE cr.member_id = $1 AND cs.end_time < $2
	`

	var count int
	if err := r.db.GetContext(ctx, &count, query, memberID, now); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) UpcomingPTSessions(ctx context.Context, memberID int, now time.Time) ([]schedule.PTSession, error) {
	query := `
		SELECT id, member_id, trainer_id, room_id, start_time, end_time, status
		FROM pt_sessions
		WHERE member_id = $1 AND start_time >= $2
		ORDER BY start_time ASC
	`

	sessions := []schedule.PTSession{}
	if err := r.db.SelectContext(ctx, &sessions, query, memberID, now); err != nil {
		return nil, err
	}
	return sessions, nil
}
