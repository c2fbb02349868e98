package member

import (
	"context"
	"time"

	"fitclub/internal/schedule"
)

type Repository interface {
	CreateMember(ctx context.Context, m *Member) error
	GetMemberByID(ctx context.Context, id int) (*Member, error)
	GetAllMembers(ctx context.Context) ([]Member, error)
	SearchMembersByName(ctx context.Context, term string) ([]Member, error)
	UpdateProfile(ctx context.Context, id int, upd ProfileUpdate) (*Member, error)

	AddHealthMetric(ctx context.Context, m *HealthMetric) error
	// LatestMetric and ActiveGoal return nil, nil when the member has none.
	LatestMetric(ctx context.Context, memberID int) (*HealthMetric, error)
	ActiveGoal(ctx context.Context, memberID int) (*FitnessGoal, error)

	CountPastClasses(ctx context.Context, memberID int, now time.Time) (int, error)
	UpcomingPTSessions(ctx context.Context, memberID int, now time.Time) ([]schedule.PTSession, error)
}
